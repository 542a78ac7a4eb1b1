package native

import (
	"bytes"
	"testing"
)

func TestMock_InitializeTwice(t *testing.T) {
	m := NewMock(PCAN_USBBUS1)
	if st := m.Initialize(PCAN_USBBUS1, PCAN_BAUD_500K, 0, 0, 0); st != PCAN_ERROR_OK {
		t.Fatalf("first Initialize: 0x%X", st)
	}
	if st := m.Initialize(PCAN_USBBUS1, PCAN_BAUD_500K, 0, 0, 0); st != PCAN_ERROR_INITIALIZE {
		t.Fatalf("second Initialize: expected PCAN_ERROR_INITIALIZE, got 0x%X", st)
	}
	if st := m.Initialize(PCAN_USBBUS2, PCAN_BAUD_500K, 0, 0, 0); st != PCAN_ERROR_ILLHW {
		t.Fatalf("unattached channel: expected PCAN_ERROR_ILLHW, got 0x%X", st)
	}
}

func TestMock_ReadEmptyQueue(t *testing.T) {
	m := NewMock()
	var msg Msg
	var ts Timestamp
	if st := m.Read(PCAN_USBBUS1, &msg, &ts); st != PCAN_ERROR_INITIALIZE {
		t.Fatalf("expected PCAN_ERROR_INITIALIZE before Initialize, got 0x%X", st)
	}
	m.Initialize(PCAN_USBBUS1, PCAN_BAUD_500K, 0, 0, 0)
	if st := m.Read(PCAN_USBBUS1, &msg, &ts); st != PCAN_ERROR_QRCVEMPTY {
		t.Fatalf("expected PCAN_ERROR_QRCVEMPTY, got 0x%X", st)
	}
}

func TestMock_InjectAndRead(t *testing.T) {
	m := NewMock()
	m.Initialize(PCAN_USBBUS1, PCAN_BAUD_500K, 0, 0, 0)
	in := Msg{ID: 0x123, Len: 3, Data: [8]byte{1, 2, 3}}
	if err := m.Inject(PCAN_USBBUS1, in, Timestamp{Millis: 10, Micros: 500}); err != nil {
		t.Fatalf("Inject: %v", err)
	}
	var out Msg
	var ts Timestamp
	if st := m.Read(PCAN_USBBUS1, &out, &ts); st != PCAN_ERROR_OK {
		t.Fatalf("Read: 0x%X", st)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
	if ts.Millis != 10 || ts.Micros != 500 {
		t.Fatalf("unexpected timestamp %+v", ts)
	}
}

func TestMock_FilterMessages(t *testing.T) {
	m := NewMock()
	m.Initialize(PCAN_USBBUS1, PCAN_BAUD_500K, 0, 0, 0)
	if st := m.FilterMessages(PCAN_USBBUS1, 0x100, 0x1FF, PCAN_MODE_STANDARD); st != PCAN_ERROR_OK {
		t.Fatalf("FilterMessages: 0x%X", st)
	}
	m.Inject(PCAN_USBBUS1, Msg{ID: 0x050}, Timestamp{})
	m.Inject(PCAN_USBBUS1, Msg{ID: 0x150}, Timestamp{})
	var out Msg
	if st := m.Read(PCAN_USBBUS1, &out, nil); st != PCAN_ERROR_OK || out.ID != 0x150 {
		t.Fatalf("expected 0x150, got 0x%X (status 0x%X)", out.ID, st)
	}
	buf := make([]byte, 4)
	m.GetValue(PCAN_USBBUS1, PCAN_MESSAGE_FILTER, buf)
	if buf[0] != PCAN_FILTER_CUSTOM {
		t.Fatalf("expected custom filter status, got %d", buf[0])
	}
}

func TestMock_ClassicOnFDChannel(t *testing.T) {
	m := NewMock()
	m.InitializeFD(PCAN_USBBUS1, "f_clock_mhz=80")
	var msg Msg
	if st := m.Write(PCAN_USBBUS1, &msg); st != PCAN_ERROR_ILLOPERATION {
		t.Fatalf("expected PCAN_ERROR_ILLOPERATION, got 0x%X", st)
	}
}

func TestMock_DigitalSetClear(t *testing.T) {
	m := NewMock()
	m.SetValue(PCAN_USBBUS1, PCAN_IO_DIGITAL_SET, []byte{0x05, 0, 0, 0})
	m.SetValue(PCAN_USBBUS1, PCAN_IO_DIGITAL_CLEAR, []byte{0x01, 0, 0, 0})
	v, ok := m.Stored(PCAN_USBBUS1, PCAN_IO_DIGITAL_VALUE)
	if !ok || !bytes.Equal(v, []byte{0x04, 0, 0, 0}) {
		t.Fatalf("unexpected digital value % X", v)
	}
}

func TestMock_AutoResponse(t *testing.T) {
	m := NewMock()
	m.Initialize(PCAN_USBBUS1, PCAN_BAUD_500K, 0, 0, 0)
	m.AddResponse(MockResponse{Channel: PCAN_USBBUS1, TriggerID: 0x7DF, ResponseID: 0x7E8, Response: []byte{0x02, 0x50, 0x01}})
	req := Msg{ID: 0x7DF, Len: 2, Data: [8]byte{0x10, 0x01}}
	if st := m.Write(PCAN_USBBUS1, &req); st != PCAN_ERROR_OK {
		t.Fatalf("Write: 0x%X", st)
	}
	var resp Msg
	if st := m.Read(PCAN_USBBUS1, &resp, nil); st != PCAN_ERROR_OK {
		t.Fatalf("Read: 0x%X", st)
	}
	if resp.ID != 0x7E8 || resp.Len != 3 || resp.Data[1] != 0x50 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if sent := m.Sent(PCAN_USBBUS1); len(sent) != 1 || sent[0].ID != 0x7DF {
		t.Fatalf("unexpected sent log %+v", sent)
	}
}
