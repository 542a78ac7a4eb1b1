package pcan

import (
	"errors"
	"strings"
	"testing"

	"github.com/LoveWonYoung/pcanbasic/native"
)

// useMock installs an in-memory library for the duration of the test.
func useMock(t *testing.T, handles ...native.Handle) *native.Mock {
	t.Helper()
	m := native.NewMock(handles...)
	UseLibrary(m)
	t.Cleanup(func() { UseLibrary(native.Unavailable{}) })
	return m
}

func TestErrorFromStatus_OK(t *testing.T) {
	if err := errorFromStatus(native.PCAN_ERROR_OK); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestErrorFromStatus_Known(t *testing.T) {
	cases := map[native.Status]Error{
		native.PCAN_ERROR_XMTFULL:      ErrXmtFull,
		native.PCAN_ERROR_BUSWARNING:   ErrBusHeavy,
		native.PCAN_ERROR_ANYBUSERR:    ErrAnyBusErr,
		native.PCAN_ERROR_QRCVEMPTY:    ErrQrcvEmpty,
		native.PCAN_ERROR_ILLCLIENT:    ErrIllClient,
		native.PCAN_ERROR_ILLOPERATION: ErrIllOperation,
	}
	for st, want := range cases {
		err := errorFromStatus(st)
		if !errors.Is(err, want) {
			t.Errorf("status 0x%X: expected %v, got %v", st, want, err)
		}
		if got := err.(Error).Status(); got != st {
			t.Errorf("status 0x%X: round trip gave 0x%X", st, got)
		}
	}
}

func TestErrorFromStatus_UnknownCode(t *testing.T) {
	err := errorFromStatus(native.Status(0x123))
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestError_Message(t *testing.T) {
	if msg := ErrNoDriver.Error(); !strings.HasPrefix(msg, "pcan: ") {
		t.Errorf("unexpected message %q", msg)
	}
	if msg := Error(0x3).Error(); msg != "pcan: error 0x3" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestErrorText(t *testing.T) {
	useMock(t)
	text, err := ErrorText(ErrQrcvEmpty, LanguageEnglish)
	if err != nil {
		t.Fatalf("ErrorText: %v", err)
	}
	if text != "The receive queue is empty" {
		t.Errorf("unexpected text %q", text)
	}
	if _, err := ErrorText(errors.New("other"), LanguageEnglish); err == nil {
		t.Error("expected an error for a non PCAN-Basic error")
	}
}

func TestUnavailableLibrary(t *testing.T) {
	UseLibrary(native.Unavailable{})
	_, err := OpenUsbCanSocket(USB1, Baud500K)
	if !errors.Is(err, ErrNoDriver) {
		t.Fatalf("expected ErrNoDriver, got %v", err)
	}
	if _, err := APIVersion(); !errors.Is(err, ErrNoDriver) {
		t.Fatalf("expected ErrNoDriver, got %v", err)
	}
}
