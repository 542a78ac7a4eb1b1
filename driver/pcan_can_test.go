package driver

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LoveWonYoung/pcanbasic/native"
	"github.com/LoveWonYoung/pcanbasic/pcan"
)

func useMock(t *testing.T) *native.Mock {
	t.Helper()
	m := native.NewMock()
	pcan.UseLibrary(m)
	t.Cleanup(func() { pcan.UseLibrary(native.Unavailable{}) })
	return m
}

func recv(t *testing.T, ch <-chan UnifiedCANMessage) UnifiedCANMessage {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("rx channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for frame")
	}
	return UnifiedCANMessage{}
}

func TestPcanCan_ClassicRoundTrip(t *testing.T) {
	m := useMock(t)
	m.AddResponse(native.MockResponse{
		Channel: native.PCAN_USBBUS1, TriggerID: 0x7E0, ResponseID: 0x7E8,
		Response: []byte{0x02, 0x50, 0x01},
	})

	dev := NewPcanCan(PcanConfig{Bus: pcan.USB1, CanType: CAN, Baudrate: pcan.Baud500K})
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	dev.Start()
	defer dev.Stop()

	if err := dev.Write(0x7E0, []byte{0x02, 0x10, 0x01}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	msg := recv(t, dev.RxChan())
	if msg.ID != 0x7E8 || msg.DLC != 3 || msg.IsFD {
		t.Fatalf("unexpected message %+v", msg)
	}
	if !bytes.Equal(msg.Data[:msg.DLC], []byte{0x02, 0x50, 0x01}) {
		t.Errorf("unexpected data % X", msg.Data[:msg.DLC])
	}
}

func TestPcanCan_ExtendedID(t *testing.T) {
	m := useMock(t)
	dev := NewPcanCan(PcanConfig{Bus: pcan.PCI1, CanType: CAN, Baudrate: pcan.Baud250K})
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer dev.Stop()

	if err := dev.Write(0x18DAF110, []byte{1}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	sent := m.Sent(native.PCAN_PCIBUS1)
	if len(sent) != 1 || sent[0].MsgType&native.PCAN_MESSAGE_EXTENDED == 0 || sent[0].ID != 0x18DAF110 {
		t.Fatalf("unexpected sent frames %+v", sent)
	}
}

func TestPcanCan_WriteLength(t *testing.T) {
	useMock(t)
	dev := NewPcanCan(PcanConfig{Bus: pcan.USB2, CanType: CAN, Baudrate: pcan.Baud500K})
	if err := dev.Write(0x100, []byte{1}); err == nil {
		t.Error("expected an error before Init")
	}
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer dev.Stop()
	if err := dev.Write(0x100, nil); err == nil {
		t.Error("expected an error for empty data")
	}
	if err := dev.Write(0x100, make([]byte, 9)); err == nil {
		t.Error("expected an error for 9 bytes on classic CAN")
	}
}

func TestPcanCan_FD(t *testing.T) {
	m := useMock(t)
	dev := NewPcanCan(PcanConfig{
		Bus: pcan.USB1, CanType: CANFD, BitrateFD: pcan.Bitrate500K2M, BitrateSwitch: true,
	})
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	dev.Start()
	defer dev.Stop()

	payload := make([]byte, 12)
	for i := range payload {
		payload[i] = byte(0xA0 + i)
	}
	if err := dev.Write(0x7E0, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	sent := m.Sent(native.PCAN_USBBUS1)
	if len(sent) != 1 || sent[0].DLC != 9 || sent[0].MsgType&native.PCAN_MESSAGE_BRS == 0 {
		t.Fatalf("unexpected sent frames %+v", sent)
	}

	if err := m.InjectFD(native.PCAN_USBBUS1, sent[0], 1000); err != nil {
		t.Fatalf("InjectFD: %v", err)
	}
	msg := recv(t, dev.RxChan())
	if !msg.IsFD || msg.DLC != 12 || !bytes.Equal(msg.Data[:12], payload) {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestPcanCan_StatusFramesDropped(t *testing.T) {
	m := useMock(t)
	dev := NewPcanCan(PcanConfig{Bus: pcan.USB1, CanType: CAN, Baudrate: pcan.Baud500K})
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	status := native.Msg{MsgType: native.PCAN_MESSAGE_STATUS, Len: 4}
	data := native.Msg{ID: 0x321, Len: 1, Data: [8]byte{9}}
	m.Inject(native.PCAN_USBBUS1, status, native.Timestamp{})
	m.Inject(native.PCAN_USBBUS1, data, native.Timestamp{})
	dev.Start()
	defer dev.Stop()

	if msg := recv(t, dev.RxChan()); msg.ID != 0x321 {
		t.Errorf("expected the data frame first, got %+v", msg)
	}
}

func TestPcanCan_FDStatusFramesDropped(t *testing.T) {
	m := useMock(t)
	dev := NewPcanCan(PcanConfig{Bus: pcan.USB1, CanType: CANFD, BitrateFD: pcan.Bitrate500K2M})
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	status := native.MsgFD{MsgType: native.PCAN_MESSAGE_STATUS, DLC: 4}
	errFrame := native.MsgFD{ID: 0x77, MsgType: native.PCAN_MESSAGE_ERRFRAME | native.PCAN_MESSAGE_FD, DLC: 4}
	data := native.MsgFD{ID: 0x321, MsgType: native.PCAN_MESSAGE_FD, DLC: 1, Data: [64]byte{9}}
	m.InjectFD(native.PCAN_USBBUS1, status, 0)
	m.InjectFD(native.PCAN_USBBUS1, errFrame, 0)
	m.InjectFD(native.PCAN_USBBUS1, data, 0)
	dev.Start()
	defer dev.Stop()

	if msg := recv(t, dev.RxChan()); msg.ID != 0x321 || !msg.IsFD {
		t.Errorf("expected the data frame first, got %+v", msg)
	}
}

func TestPcanCan_Setup(t *testing.T) {
	m := useMock(t)
	var applied *pcan.CanSocket
	dev := NewPcanCan(PcanConfig{
		Bus: pcan.USB1, CanType: CAN, Baudrate: pcan.Baud500K,
		Setup: func(s *pcan.CanSocket) error {
			applied = s
			return s.SetListenOnly(true)
		},
	})
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer dev.Stop()
	if applied == nil || applied != dev.Socket() {
		t.Fatal("Setup was not called with the opened socket")
	}
	if raw, ok := m.Stored(native.PCAN_USBBUS1, native.PCAN_LISTEN_ONLY); !ok || raw[0] != native.PCAN_PARAMETER_ON {
		t.Errorf("listen only not applied: %v", raw)
	}

	failing := NewPcanCan(PcanConfig{
		Bus: pcan.USB2, CanType: CAN, Baudrate: pcan.Baud500K,
		Setup: func(*pcan.CanSocket) error { return pcan.ErrIllParamVal },
	})
	if err := failing.Init(); !errors.Is(err, pcan.ErrIllParamVal) {
		t.Fatalf("expected the Setup error, got %v", err)
	}
	if m.IsInitialized(native.PCAN_USBBUS2) {
		t.Error("channel left open after a failed Setup")
	}
}

func TestPcanCan_StopClosesChannel(t *testing.T) {
	m := useMock(t)
	dev := NewPcanCan(PcanConfig{Bus: pcan.LAN1, CanType: CAN, Baudrate: pcan.Baud1M})
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	dev.Start()
	dev.Stop()
	dev.Stop()

	if _, ok := <-dev.RxChan(); ok {
		t.Error("expected a closed rx channel")
	}
	if dev.Context().Err() != context.Canceled {
		t.Errorf("expected a canceled context, got %v", dev.Context().Err())
	}
	if m.IsInitialized(native.PCAN_LANBUS1) {
		t.Error("channel still initialized after Stop")
	}
}

func TestPcanCan_InitFailure(t *testing.T) {
	pcan.UseLibrary(native.NewMock(native.PCAN_USBBUS1))
	t.Cleanup(func() { pcan.UseLibrary(native.Unavailable{}) })
	dev := NewPcanCan(PcanConfig{Bus: pcan.USB5, CanType: CAN, Baudrate: pcan.Baud500K})
	if err := dev.Init(); err == nil {
		t.Fatal("expected Init to fail for an unattached channel")
	}
	if err := NewPcanCan(PcanConfig{}).Init(); err == nil {
		t.Error("expected Init to fail without a bus")
	}
}

func TestAdapter(t *testing.T) {
	m := useMock(t)
	m.AddResponse(native.MockResponse{
		Channel: native.PCAN_USBBUS1, TriggerID: 0x123, ResponseID: 0x456, Response: []byte{0xAA, 0xBB},
	})
	a, err := NewAdapter(NewPcanCan(PcanConfig{Bus: pcan.USB1, CanType: CAN, Baudrate: pcan.Baud500K}))
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	defer a.Close()

	if _, ok := a.RxFunc(); ok {
		t.Fatal("expected no frame yet")
	}
	a.TxFunc(Frame{ArbitrationID: 0x123, Data: []byte{1}})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	f, ok := a.RxWait(ctx)
	if !ok {
		t.Fatal("timeout waiting for response")
	}
	if f.ArbitrationID != 0x456 || !bytes.Equal(f.Data, []byte{0xAA, 0xBB}) {
		t.Errorf("unexpected frame %+v", f)
	}
}

func TestNewAdapter_NilDriver(t *testing.T) {
	if _, err := NewAdapter(nil); err == nil {
		t.Fatal("expected an error for a nil driver")
	}
}

func TestParseHexData(t *testing.T) {
	cases := map[string][]byte{
		"DE AD BE EF": {0xDE, 0xAD, 0xBE, 0xEF},
		"0102":        {0x01, 0x02},
		"aa:bb-cc":    {0xAA, 0xBB, 0xCC},
		"":            {},
	}
	for in, want := range cases {
		got, err := ParseHexData(in)
		if err != nil || !bytes.Equal(got, want) {
			t.Errorf("ParseHexData(%q): got % X, %v", in, got, err)
		}
	}
	if _, err := ParseHexData("ABC"); err == nil {
		t.Error("expected an error for an odd length")
	}
}

func TestParseCanID(t *testing.T) {
	if id, err := ParseCanID("0x7E0"); err != nil || id != 0x7E0 {
		t.Errorf("ParseCanID: got 0x%X, %v", id, err)
	}
	if id, err := ParseCanID("18DAF110"); err != nil || id != 0x18DAF110 {
		t.Errorf("ParseCanID: got 0x%X, %v", id, err)
	}
	if _, err := ParseCanID("20000000"); err == nil {
		t.Error("expected an error for an out of range id")
	}
	if _, err := ParseCanID("xyz"); err == nil {
		t.Error("expected an error for invalid hex")
	}
}

func TestSplitBlock(t *testing.T) {
	blocks := SplitBlock([]byte{1, 2, 3, 4, 5}, 2)
	if len(blocks) != 3 || len(blocks[2]) != 1 || blocks[2][0] != 5 {
		t.Errorf("unexpected blocks %v", blocks)
	}
}
