package pcan

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/LoveWonYoung/pcanbasic/native"
)

func TestSocket_WriteAndRead(t *testing.T) {
	s, m := openUsb(t)

	f, err := NewCanFrame(0x123, Standard, []byte{0xDE, 0xAD})
	if err != nil {
		t.Fatalf("NewCanFrame: %v", err)
	}
	if err := s.Write(f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	sent := m.Sent(native.PCAN_USBBUS1)
	if len(sent) != 1 || sent[0].ID != 0x123 || sent[0].DLC != 2 || sent[0].Data[1] != 0xAD {
		t.Fatalf("unexpected sent frames %+v", sent)
	}

	in := native.Msg{ID: 0x18DAF110, MsgType: native.PCAN_MESSAGE_EXTENDED, Len: 3, Data: [8]byte{1, 2, 3}}
	if err := m.Inject(native.PCAN_USBBUS1, in, native.Timestamp{Millis: 1500, Micros: 250}); err != nil {
		t.Fatalf("Inject: %v", err)
	}
	got, ts, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.CanID() != 0x18DAF110 || !got.IsExtendedFrame() || !bytes.Equal(got.Data(), []byte{1, 2, 3}) {
		t.Errorf("unexpected frame %v", got)
	}
	if ts.Duration() != 1500*time.Millisecond+250*time.Microsecond {
		t.Errorf("unexpected timestamp %v", ts.Duration())
	}

	if _, err := s.ReadFrame(); !errors.Is(err, ErrQrcvEmpty) {
		t.Errorf("expected ErrQrcvEmpty, got %v", err)
	}
}

func TestSocket_ReadClearsBytesPastLength(t *testing.T) {
	s, m := openUsb(t)
	in := native.Msg{ID: 0x123, Len: 2, Data: [8]byte{1, 2, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}}
	if err := m.Inject(native.PCAN_USBBUS1, in, native.Timestamp{}); err != nil {
		t.Fatalf("Inject: %v", err)
	}
	got, err := s.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	want, _ := NewCanFrame(0x123, Standard, []byte{1, 2})
	if got != want {
		t.Errorf("expected %v to equal %v", got, want)
	}
}

func TestSocketFD_ReadClearsBytesPastLength(t *testing.T) {
	m := useMock(t)
	s, err := OpenUsbCanSocketFD(USB1, Bitrate500K2M)
	if err != nil {
		t.Fatalf("OpenUsbCanSocketFD: %v", err)
	}
	defer s.Close()

	in := native.MsgFD{ID: 0x7E8, MsgType: native.PCAN_MESSAGE_FD, DLC: 2}
	for i := range in.Data {
		in.Data[i] = 0xEE
	}
	in.Data[0], in.Data[1] = 1, 2
	if err := m.InjectFD(native.PCAN_USBBUS1, in, 0); err != nil {
		t.Fatalf("InjectFD: %v", err)
	}
	got, err := s.ReadFrameFD()
	if err != nil {
		t.Fatalf("ReadFrameFD: %v", err)
	}
	want, _ := NewCanFdFrame(0x7E8, Standard, []byte{1, 2})
	if got != want {
		t.Errorf("expected %v to equal %v", got, want)
	}
}

func TestSocket_BitrateInfo(t *testing.T) {
	s, _ := openUsb(t)
	b, err := s.BitrateInfo()
	if err != nil {
		t.Fatalf("BitrateInfo: %v", err)
	}
	if b != Baud500K {
		t.Errorf("expected %v, got %v", Baud500K, b)
	}
}

func TestSocket_CloseIsIdempotent(t *testing.T) {
	m := useMock(t)
	s, err := OpenPccCanSocket(PCC1, Baud250K)
	if err != nil {
		t.Fatalf("OpenPccCanSocket: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if m.IsInitialized(native.PCAN_PCCBUS1) {
		t.Fatal("channel still initialized after Close")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := s.ReadFrame(); !errors.Is(err, ErrInitialize) {
		t.Errorf("expected ErrInitialize after Close, got %v", err)
	}
}

func TestSocket_OpenTwice(t *testing.T) {
	useMock(t)
	s, err := OpenDngCanSocket(DNG1, Baud125K)
	if err != nil {
		t.Fatalf("OpenDngCanSocket: %v", err)
	}
	defer s.Close()
	if _, err := OpenDngCanSocket(DNG1, Baud125K); !errors.Is(err, ErrInitialize) {
		t.Fatalf("expected ErrInitialize, got %v", err)
	}
}

func TestSocket_UnattachedHardware(t *testing.T) {
	useMock(t, native.PCAN_USBBUS1)
	if _, err := OpenUsbCanSocket(USB2, Baud500K); !errors.Is(err, ErrIllHw) {
		t.Fatalf("expected ErrIllHw, got %v", err)
	}
}

func TestSocket_Status(t *testing.T) {
	s, m := openUsb(t)
	if err := s.Status(); err != nil {
		t.Fatalf("expected a healthy bus, got %v", err)
	}
	m.SetBusStatus(native.PCAN_USBBUS1, native.PCAN_ERROR_BUSOFF)
	if err := s.Status(); !errors.Is(err, ErrBusOff) {
		t.Errorf("expected ErrBusOff, got %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := s.Status(); err != nil {
		t.Errorf("expected a healthy bus after Reset, got %v", err)
	}
}

func TestSocketFD_WriteAndRead(t *testing.T) {
	m := useMock(t)
	s, err := OpenUsbCanSocketFD(USB1, Bitrate500K2M)
	if err != nil {
		t.Fatalf("OpenUsbCanSocketFD: %v", err)
	}
	defer s.Close()

	br, err := s.BitrateInfoFD()
	if err != nil || br != Bitrate500K2M {
		t.Fatalf("BitrateInfoFD: got %q, %v", br, err)
	}

	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte(i)
	}
	f, err := NewCanFdFrame(0x7E0, Standard, payload)
	if err != nil {
		t.Fatalf("NewCanFdFrame: %v", err)
	}
	f.SetBitrateSwitch(true)
	if err := s.WriteFD(f); err != nil {
		t.Fatalf("WriteFD: %v", err)
	}
	sent := m.Sent(native.PCAN_USBBUS1)
	if len(sent) != 1 || sent[0].DLC != 11 {
		t.Fatalf("expected DLC 11 for 20 bytes, got %+v", sent)
	}
	if sent[0].MsgType&native.PCAN_MESSAGE_BRS == 0 || sent[0].MsgType&native.PCAN_MESSAGE_FD == 0 {
		t.Errorf("expected FD and BRS flags, got 0x%X", sent[0].MsgType)
	}

	m.InjectFD(native.PCAN_USBBUS1, sent[0], 42)
	got, ts, err := s.ReadFD()
	if err != nil {
		t.Fatalf("ReadFD: %v", err)
	}
	if ts != 42 || got.Len() != 20 || !got.BitrateSwitch() || !bytes.Equal(got.Data(), payload) {
		t.Errorf("unexpected frame %v at %d", got, ts)
	}

	classic, _ := NewCanFrame(0x1, Standard, nil)
	if err := s.Write(classic); !errors.Is(err, ErrIllOperation) {
		t.Errorf("expected ErrIllOperation for a classic write on an FD channel, got %v", err)
	}
}

func TestSocketFD_EmptyBitrate(t *testing.T) {
	useMock(t)
	if _, err := OpenLanCanSocketFD(LAN1, ""); !errors.Is(err, ErrIllParamVal) {
		t.Fatalf("expected ErrIllParamVal, got %v", err)
	}
}

func TestOpenCanSocket_Generic(t *testing.T) {
	useMock(t)
	bus, err := ParseBus("pcan_pcibus9")
	if err != nil {
		t.Fatalf("ParseBus: %v", err)
	}
	s, err := OpenCanSocket(bus, Baud1M)
	if err != nil {
		t.Fatalf("OpenCanSocket: %v", err)
	}
	defer s.Close()
	if s.Handle() != native.PCAN_PCIBUS9 || s.String() != "pci9" {
		t.Errorf("unexpected socket %s (0x%X)", s, s.Handle())
	}
}

func TestCapabilityMatrix(t *testing.T) {
	sockets := map[string]any{
		"isa": &IsaCanSocket{},
		"dng": &DngCanSocket{},
		"pci": &PciCanSocket{},
		"usb": &UsbCanSocket{},
		"pcc": &PccCanSocket{},
		"lan": &LanCanSocket{},
		"any": &CanSocket{},
	}
	check := func(name string, has bool, want bool, feature string) {
		t.Helper()
		if has != want {
			t.Errorf("%s socket: %s support is %v, expected %v", name, feature, has, want)
		}
	}
	want := map[string][6]bool{
		//       fd     devid  ctrlw  ident  5v     ip
		"isa": {false, false, false, false, true, false},
		"dng": {false, false, true, false, false, false},
		"pci": {true, true, false, false, false, false},
		"usb": {true, true, false, true, true, false},
		"pcc": {false, false, true, false, true, false},
		"lan": {true, true, true, false, false, true},
		"any": {true, false, false, false, false, false},
	}
	for name, s := range sockets {
		w := want[name]
		_, fd := s.(FDSocket)
		_, devid := s.(DeviceIDWriter)
		_, ctrl := s.(ControllerNumberWriter)
		_, ident := s.(ChannelIdentifier)
		_, fiveV := s.(FiveVoltsPowerer)
		_, ip := s.(IPAddressReader)
		check(name, fd, w[0], "FD")
		check(name, devid, w[1], "device id")
		check(name, ctrl, w[2], "controller number")
		check(name, ident, w[3], "identifying")
		check(name, fiveV, w[4], "five volts")
		check(name, ip, w[5], "ip address")
		if _, ok := s.(Socket); !ok {
			t.Errorf("%s socket does not implement Socket", name)
		}
	}

	var isa any = ISA1
	if _, ok := isa.(DeviceIDReader); ok {
		t.Error("ISA bus must not expose a device id")
	}
	var pcc any = PCC1
	if _, ok := pcc.(IPAddressReader); ok {
		t.Error("PCC bus must not expose an IP address")
	}
}
