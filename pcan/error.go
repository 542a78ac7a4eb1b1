package pcan

import (
	"errors"
	"fmt"

	"github.com/LoveWonYoung/pcanbasic/native"
)

// Error is a PCAN-Basic status code other than PCAN_ERROR_OK.
type Error uint32

const (
	ErrXmtFull      = Error(native.PCAN_ERROR_XMTFULL)
	ErrOverrun      = Error(native.PCAN_ERROR_OVERRUN)
	ErrBusLight     = Error(native.PCAN_ERROR_BUSLIGHT)
	ErrBusHeavy     = Error(native.PCAN_ERROR_BUSHEAVY)
	ErrBusPassive   = Error(native.PCAN_ERROR_BUSPASSIVE)
	ErrBusOff       = Error(native.PCAN_ERROR_BUSOFF)
	ErrAnyBusErr    = Error(native.PCAN_ERROR_ANYBUSERR)
	ErrQrcvEmpty    = Error(native.PCAN_ERROR_QRCVEMPTY)
	ErrQOverrun     = Error(native.PCAN_ERROR_QOVERRUN)
	ErrQxmtFull     = Error(native.PCAN_ERROR_QXMTFULL)
	ErrRegTest      = Error(native.PCAN_ERROR_REGTEST)
	ErrNoDriver     = Error(native.PCAN_ERROR_NODRIVER)
	ErrHwInUse      = Error(native.PCAN_ERROR_HWINUSE)
	ErrNetInUse     = Error(native.PCAN_ERROR_NETINUSE)
	ErrIllHw        = Error(native.PCAN_ERROR_ILLHW)
	ErrIllNet       = Error(native.PCAN_ERROR_ILLNET)
	ErrIllClient    = Error(native.PCAN_ERROR_ILLCLIENT)
	ErrResource     = Error(native.PCAN_ERROR_RESOURCE)
	ErrIllParamType = Error(native.PCAN_ERROR_ILLPARAMTYPE)
	ErrIllParamVal  = Error(native.PCAN_ERROR_ILLPARAMVAL)
	ErrUnknown      = Error(native.PCAN_ERROR_UNKNOWN)
	ErrIllData      = Error(native.PCAN_ERROR_ILLDATA)
	ErrIllMode      = Error(native.PCAN_ERROR_ILLMODE)
	ErrCaution      = Error(native.PCAN_ERROR_CAUTION)
	ErrInitialize   = Error(native.PCAN_ERROR_INITIALIZE)
	ErrIllOperation = Error(native.PCAN_ERROR_ILLOPERATION)
)

var errorNames = map[Error]string{
	ErrXmtFull:      "transmit buffer in CAN controller is full",
	ErrOverrun:      "CAN controller was read too late",
	ErrBusLight:     "bus error: an error counter reached the 'light' limit",
	ErrBusHeavy:     "bus error: an error counter reached the 'heavy' limit",
	ErrBusPassive:   "bus error: the CAN controller is error passive",
	ErrBusOff:       "bus error: the CAN controller is in bus-off state",
	ErrAnyBusErr:    "bus error",
	ErrQrcvEmpty:    "receive queue is empty",
	ErrQOverrun:     "receive queue was read too late",
	ErrQxmtFull:     "transmit queue is full",
	ErrRegTest:      "test of the CAN controller hardware registers failed",
	ErrNoDriver:     "driver not loaded",
	ErrHwInUse:      "hardware already in use by a net",
	ErrNetInUse:     "a client is already connected to the net",
	ErrIllHw:        "hardware handle is invalid",
	ErrIllNet:       "net handle is invalid",
	ErrIllClient:    "client handle is invalid",
	ErrResource:     "resource cannot be created",
	ErrIllParamType: "invalid parameter",
	ErrIllParamVal:  "invalid parameter value",
	ErrUnknown:      "unknown error",
	ErrIllData:      "invalid data, function, or action",
	ErrIllMode:      "driver object state is wrong for the attempted operation",
	ErrCaution:      "operation succeeded with irregularities",
	ErrInitialize:   "channel is not initialized",
	ErrIllOperation: "invalid operation",
}

func (e Error) Error() string {
	if name, ok := errorNames[e]; ok {
		return "pcan: " + name
	}
	return fmt.Sprintf("pcan: error 0x%X", uint32(e))
}

// Status returns the native status code.
func (e Error) Status() native.Status {
	return native.Status(e)
}

// errorFromStatus maps a native return code to nil or one of the Err constants.
// Codes outside the closed set map to ErrUnknown.
func errorFromStatus(s native.Status) error {
	if s == native.PCAN_ERROR_OK {
		return nil
	}
	e := Error(s)
	if _, ok := errorNames[e]; !ok {
		return ErrUnknown
	}
	return e
}

// Language selects the language of ErrorText.
type Language uint16

const (
	LanguageNeutral Language = 0x00
	LanguageGerman  Language = 0x07
	LanguageEnglish Language = 0x09
	LanguageSpanish Language = 0x0A
	LanguageItalian Language = 0x10
	LanguageFrench  Language = 0x0C
)

// ErrorText asks the native library for the description of err.
func ErrorText(err error, language Language) (string, error) {
	var e Error
	if !errors.As(err, &e) {
		return "", fmt.Errorf("pcan: %v is not a PCAN-Basic error", err)
	}
	text, st := Library().GetErrorText(e.Status(), uint16(language))
	if err := errorFromStatus(st); err != nil {
		return "", err
	}
	return text, nil
}
