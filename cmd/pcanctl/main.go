package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/LoveWonYoung/pcanbasic/driver"
	"github.com/LoveWonYoung/pcanbasic/logrecorder"
	"github.com/LoveWonYoung/pcanbasic/native"
	"github.com/LoveWonYoung/pcanbasic/pcan"
)

const usage = `usage: pcanctl [flags] <command> [args]

commands:
  info               print identity, versions and bit rate of the channel
  channels           list attached channels
  send <id> <data>   write frames, e.g. send 7E0 "02 10 03"
  dump               print received frames until interrupted
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pcanctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("pcanctl", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML config file")
	channel := fs.String("channel", "", "channel override, e.g. usb1")
	mock := fs.Bool("mock", false, "use an in-memory library instead of PCAN-Basic")
	verbose := fs.Bool("v", false, "debug logging")
	count := fs.Int("n", 0, "dump: stop after n frames")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			return err
		}
	}
	if *channel != "" {
		bus, err := pcan.ParseBus(*channel)
		if err != nil {
			return err
		}
		cfg.Channel = bus
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	rec, err := logrecorder.InitAndRotate(ctx, cfg.LogDir, cfg.LogPrefix, logrecorder.RotateInterval, *verbose)
	if err != nil {
		return err
	}
	defer rec.Close()

	if *mock {
		pcan.UseLibrary(newMockLibrary(cfg.Channel))
	}
	if cfg.NativeLog {
		if err := enableNativeLog(rec.Dir()); err != nil {
			log.Warn().Err(err).Msg("native log not enabled")
		}
	}

	switch cmd := fs.Arg(0); cmd {
	case "info":
		return runInfo(cfg, out)
	case "channels":
		return runChannels(out)
	case "send":
		if fs.NArg() != 3 {
			return errors.New("send: expected <id> <data>")
		}
		return runSend(cfg, fs.Arg(1), fs.Arg(2), out)
	case "dump":
		return runDump(ctx, cfg, *count, out)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func enableNativeLog(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := pcan.SetLogLocation(abs); err != nil {
		return err
	}
	if err := pcan.ConfigureLog(pcan.LogFunctionDefault | pcan.LogFunctionEntry | pcan.LogFunctionLeave); err != nil {
		return err
	}
	return pcan.SetLogging(true)
}

// applySettings writes the configured channel parameters to an open socket.
func applySettings(s *pcan.CanSocket, cfg Config) error {
	if err := s.SetListenOnly(cfg.ListenOnly); err != nil {
		return fmt.Errorf("listen only: %w", err)
	}
	if err := s.SetBusOffAutoReset(cfg.BusOffAutoReset); err != nil {
		return fmt.Errorf("bus-off autoreset: %w", err)
	}
	if f := cfg.Filter; f != nil {
		t := pcan.Standard
		if f.Extended {
			t = pcan.Extended
		}
		if err := s.FilterMessages(f.From, f.To, t); err != nil {
			return fmt.Errorf("message filter: %w", err)
		}
	}
	if cfg.Acceptance11 != nil {
		if err := s.SetAcceptanceFilter11Bit(*cfg.Acceptance11); err != nil {
			return fmt.Errorf("11-bit acceptance filter: %w", err)
		}
	}
	if cfg.Acceptance29 != nil {
		if err := s.SetAcceptanceFilter29Bit(*cfg.Acceptance29); err != nil {
			return fmt.Errorf("29-bit acceptance filter: %w", err)
		}
	}
	if cfg.Tracing {
		if err := configureTrace(s, cfg); err != nil {
			return fmt.Errorf("trace: %w", err)
		}
	}
	return nil
}

func configureTrace(s *pcan.CanSocket, cfg Config) error {
	if cfg.TraceDir == "" {
		if err := s.SetDefaultTraceLocation(); err != nil {
			return err
		}
	} else {
		if err := os.MkdirAll(cfg.TraceDir, 0755); err != nil {
			return err
		}
		abs, err := filepath.Abs(cfg.TraceDir)
		if err != nil {
			return err
		}
		if err := s.SetTraceLocation(abs); err != nil {
			return err
		}
	}
	if cfg.TraceSizeMB == 0 {
		if err := s.SetDefaultTraceSize(); err != nil {
			return err
		}
	} else {
		if err := s.SetTraceSize(cfg.TraceSizeMB); err != nil {
			return err
		}
		if err := s.ConfigureTrace(pcan.TraceFileSegmented | pcan.TraceFileDate | pcan.TraceFileTime); err != nil {
			return err
		}
	}
	return s.SetTracing(true)
}

func openSocket(cfg Config) (*pcan.CanSocket, error) {
	if cfg.FD {
		return pcan.OpenCanSocketFD(cfg.Channel, cfg.BitrateFD)
	}
	return pcan.OpenCanSocket(cfg.Channel, cfg.Baudrate)
}

func runInfo(cfg Config, out io.Writer) error {
	s, err := openSocket(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := applySettings(s, cfg); err != nil {
		return err
	}

	api, err := pcan.APIVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "api version:   %s\n", api)
	fmt.Fprintf(out, "channel:       %s\n", s)
	if name, err := s.HardwareName(); err == nil {
		fmt.Fprintf(out, "hardware:      %s\n", name)
	}
	if n, err := s.ControllerNumber(); err == nil {
		fmt.Fprintf(out, "controller:    %d\n", n)
	}
	if f, err := s.ChannelFeatures(); err == nil {
		fmt.Fprintf(out, "features:      %s\n", f)
	}
	if v, err := s.ChannelVersion(); err == nil {
		fmt.Fprintf(out, "driver:        %s\n", v.DriverNameAndVersion)
	}
	if fw, err := s.FirmwareVersion(); err == nil {
		fmt.Fprintf(out, "firmware:      %s\n", fw)
	}
	if cfg.FD {
		br, err := s.BitrateInfoFD()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "bitrate:       %s\n", br)
	} else {
		b, err := s.BitrateInfo()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "bitrate:       %s\n", b)
	}
	return nil
}

func runChannels(out io.Writer) error {
	infos, err := pcan.AttachedChannels()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(out, "no channels attached")
		return nil
	}
	for _, ci := range infos {
		name := fmt.Sprintf("0x%02X", uint16(ci.Handle))
		if bus, ok := ci.Bus(); ok {
			name = bus.String()
		}
		fmt.Fprintf(out, "%-6s %-24s id=%-4d ctrl=%d %-11s %s\n",
			name, ci.DeviceName, ci.DeviceID, ci.ControllerNumber, ci.Condition, ci.Features)
	}
	return nil
}

func runSend(cfg Config, idArg, dataArg string, out io.Writer) error {
	id, err := driver.ParseCanID(idArg)
	if err != nil {
		return err
	}
	data, err := driver.ParseHexData(dataArg)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("send: empty data")
	}

	dev := driver.NewPcanCan(cfg.driverConfig())
	if err := dev.Init(); err != nil {
		return err
	}
	defer dev.Stop()

	size := 8
	if cfg.FD {
		size = 64
	}
	for _, block := range driver.SplitBlock(data, size) {
		if err := dev.Write(int32(id), block); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s 0x%03X [%d] % X\n", cfg.Channel, id, len(block), block)
	}
	return nil
}

func runDump(ctx context.Context, cfg Config, count int, out io.Writer) error {
	a, err := driver.NewAdapter(driver.NewPcanCan(cfg.driverConfig()))
	if err != nil {
		return err
	}
	defer a.Close()

	for n := 0; count == 0 || n < count; n++ {
		f, ok := a.RxWait(ctx)
		if !ok {
			return nil
		}
		kind := "CAN  "
		if f.IsFD {
			kind = "CANFD"
		}
		fmt.Fprintf(out, "%s %s 0x%03X [%d] % X\n", cfg.Channel, kind, f.ArbitrationID, len(f.Data), f.Data)
	}
	return nil
}

func newMockLibrary(bus pcan.Bus) *native.Mock {
	m := native.NewMock()
	h := bus.Handle()
	m.Store(native.PCAN_NONEBUS, native.PCAN_API_VERSION, []byte("4.6.1.728\x00"))
	m.Store(h, native.PCAN_HARDWARE_NAME, []byte("PCAN-Mock\x00"))
	m.Store(h, native.PCAN_CONTROLLER_NUMBER, []byte{0, 0, 0, 0})
	m.Store(h, native.PCAN_CHANNEL_FEATURES, []byte{native.FEATURE_FD_CAPABLE, 0, 0, 0})
	m.Store(h, native.PCAN_CHANNEL_VERSION, []byte("PCAN-Mock 1.0.0\nCopyright (C) 2026\nPEAK-System Technik GmbH, Darmstadt\x00"))
	m.Store(native.PCAN_NONEBUS, native.PCAN_ATTACHED_CHANNELS_COUNT, []byte{0, 0, 0, 0})
	return m
}
