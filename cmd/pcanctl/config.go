package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/LoveWonYoung/pcanbasic/driver"
	"github.com/LoveWonYoung/pcanbasic/pcan"
)

// FilterRange is a PCAN_MESSAGE_FILTER range applied after the channel opens.
type FilterRange struct {
	From     uint32
	To       uint32
	Extended bool
}

type Config struct {
	Channel         pcan.Bus
	Baudrate        pcan.Baudrate
	FD              bool
	BitrateFD       pcan.BitrateFD
	BitrateSwitch   bool
	ListenOnly      bool
	BusOffAutoReset bool
	Filter          *FilterRange
	Acceptance11    *pcan.AcceptanceFilter
	Acceptance29    *pcan.AcceptanceFilter
	TraceDir        string
	TraceSizeMB     uint32
	Tracing         bool
	LogDir          string
	LogPrefix       string
	NativeLog       bool
}

func DefaultConfig() Config {
	return Config{
		Channel:   pcan.USB1,
		Baudrate:  pcan.Baud500K,
		BitrateFD: pcan.Bitrate500K2M,
		LogDir:    ".",
		LogPrefix: "pcan_",
	}
}

type fileFilter struct {
	From     string `toml:"from"`
	To       string `toml:"to"`
	Extended bool   `toml:"extended"`
}

type fileAcceptance struct {
	Code string `toml:"code"`
	Mask string `toml:"mask"`
}

type fileConfig struct {
	Channel         string         `toml:"channel"`
	Baudrate        string         `toml:"baudrate"`
	FD              bool           `toml:"fd"`
	BitrateFD       string         `toml:"bitrate_fd"`
	BitrateSwitch   bool           `toml:"bitrate_switch"`
	ListenOnly      bool           `toml:"listen_only"`
	BusOffAutoReset bool           `toml:"bus_off_autoreset"`
	Filter          fileFilter     `toml:"filter"`
	Acceptance11    fileAcceptance `toml:"acceptance_11bit"`
	Acceptance29    fileAcceptance `toml:"acceptance_29bit"`
	Trace           struct {
		Dir     string `toml:"dir"`
		SizeMB  uint32 `toml:"size_mb"`
		Enabled bool   `toml:"enabled"`
	} `toml:"trace"`
	Log struct {
		Dir    string `toml:"dir"`
		Prefix string `toml:"prefix"`
		Native bool   `toml:"native"`
	} `toml:"log"`
}

func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load pcanctl config: %w", err)
	}

	if meta.IsDefined("channel") {
		bus, err := pcan.ParseBus(raw.Channel)
		if err != nil {
			return Config{}, fmt.Errorf("parse channel: %w", err)
		}
		cfg.Channel = bus
	}

	if meta.IsDefined("baudrate") {
		b, err := pcan.ParseBaudrate(strings.TrimSpace(raw.Baudrate))
		if err != nil {
			return Config{}, fmt.Errorf("parse baudrate: %w", err)
		}
		cfg.Baudrate = b
	}

	if meta.IsDefined("fd") {
		cfg.FD = raw.FD
	}

	if meta.IsDefined("bitrate_fd") {
		cfg.BitrateFD = pcan.BitrateFD(strings.TrimSpace(raw.BitrateFD))
	}

	if meta.IsDefined("bitrate_switch") {
		cfg.BitrateSwitch = raw.BitrateSwitch
	}

	if meta.IsDefined("listen_only") {
		cfg.ListenOnly = raw.ListenOnly
	}

	if meta.IsDefined("bus_off_autoreset") {
		cfg.BusOffAutoReset = raw.BusOffAutoReset
	}

	if meta.IsDefined("filter") {
		from, err := driver.ParseCanID(raw.Filter.From)
		if err != nil {
			return Config{}, fmt.Errorf("parse filter.from: %w", err)
		}
		to, err := driver.ParseCanID(raw.Filter.To)
		if err != nil {
			return Config{}, fmt.Errorf("parse filter.to: %w", err)
		}
		cfg.Filter = &FilterRange{From: from, To: to, Extended: raw.Filter.Extended}
	}

	if meta.IsDefined("acceptance_11bit") {
		af, err := parseAcceptance(raw.Acceptance11)
		if err != nil {
			return Config{}, fmt.Errorf("parse acceptance_11bit: %w", err)
		}
		cfg.Acceptance11 = &af
	}

	if meta.IsDefined("acceptance_29bit") {
		af, err := parseAcceptance(raw.Acceptance29)
		if err != nil {
			return Config{}, fmt.Errorf("parse acceptance_29bit: %w", err)
		}
		cfg.Acceptance29 = &af
	}

	if meta.IsDefined("trace", "dir") {
		cfg.TraceDir = strings.TrimSpace(raw.Trace.Dir)
	}

	if meta.IsDefined("trace", "size_mb") {
		cfg.TraceSizeMB = raw.Trace.SizeMB
	}

	if meta.IsDefined("trace", "enabled") {
		cfg.Tracing = raw.Trace.Enabled
	}

	if meta.IsDefined("log", "dir") {
		cfg.LogDir = strings.TrimSpace(raw.Log.Dir)
	}

	if meta.IsDefined("log", "prefix") {
		cfg.LogPrefix = strings.TrimSpace(raw.Log.Prefix)
	}

	if meta.IsDefined("log", "native") {
		cfg.NativeLog = raw.Log.Native
	}

	return cfg, cfg.Validate()
}

func parseAcceptance(a fileAcceptance) (pcan.AcceptanceFilter, error) {
	code, err := driver.ParseCanID(a.Code)
	if err != nil {
		return pcan.AcceptanceFilter{}, err
	}
	mask, err := driver.ParseCanID(a.Mask)
	if err != nil {
		return pcan.AcceptanceFilter{}, err
	}
	return pcan.AcceptanceFilter{Code: code, Mask: mask}, nil
}

func (c Config) Validate() error {
	if c.Channel == nil {
		return errors.New("channel is required")
	}
	if c.FD && c.BitrateFD == "" {
		return errors.New("bitrate_fd is required when fd is enabled")
	}
	if !c.FD && c.BitrateSwitch {
		return errors.New("bitrate_switch requires fd")
	}
	if c.Filter != nil && c.Filter.From > c.Filter.To {
		return fmt.Errorf("filter range 0x%X..0x%X is inverted", c.Filter.From, c.Filter.To)
	}
	if c.Filter != nil && !c.Filter.Extended && c.Filter.To > pcan.StandardMask {
		return fmt.Errorf("filter.to 0x%X exceeds 11 bits", c.Filter.To)
	}
	if c.Acceptance11 != nil && (c.Acceptance11.Code > pcan.StandardMask || c.Acceptance11.Mask > pcan.StandardMask) {
		return errors.New("acceptance_11bit code and mask must fit 11 bits")
	}
	if c.LogPrefix == "" {
		return errors.New("log.prefix must not be empty")
	}
	return nil
}

func (c Config) driverConfig() driver.PcanConfig {
	t := driver.CAN
	if c.FD {
		t = driver.CANFD
	}
	return driver.PcanConfig{
		Bus:           c.Channel,
		CanType:       t,
		Baudrate:      c.Baudrate,
		BitrateFD:     c.BitrateFD,
		BitrateSwitch: c.BitrateSwitch,
		Setup:         c.apply,
	}
}

func (c Config) apply(s *pcan.CanSocket) error { return applySettings(s, c) }
