package pcan

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/LoveWonYoung/pcanbasic/native"
)

// channel carries the get/set-by-parameter pattern every accessor is built on.
// Numbers are little-endian and sized to the width the parameter documents.
type channel struct {
	handle native.Handle
}

var noneBus = channel{handle: native.PCAN_NONEBUS}

func (c channel) getValue(p native.Parameter, buf []byte) error {
	return errorFromStatus(Library().GetValue(c.handle, p, buf))
}

func (c channel) setValue(p native.Parameter, buf []byte) error {
	return errorFromStatus(Library().SetValue(c.handle, p, buf))
}

func (c channel) getUint32(p native.Parameter) (uint32, error) {
	var buf [4]byte
	if err := c.getValue(p, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (c channel) setUint32(p native.Parameter, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return c.setValue(p, buf[:])
}

func (c channel) getUint64(p native.Parameter) (uint64, error) {
	var buf [8]byte
	if err := c.getValue(p, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (c channel) setUint64(p native.Parameter, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return c.setValue(p, buf[:])
}

// getBool reports whether PCAN_PARAMETER_ON is set in the value.
func (c channel) getBool(p native.Parameter) (bool, error) {
	v, err := c.getUint32(p)
	if err != nil {
		return false, err
	}
	return v&native.PCAN_PARAMETER_ON == native.PCAN_PARAMETER_ON, nil
}

// getStrictBool accepts only PCAN_PARAMETER_ON and PCAN_PARAMETER_OFF.
func (c channel) getStrictBool(p native.Parameter) (bool, error) {
	v, err := c.getUint32(p)
	if err != nil {
		return false, err
	}
	switch v {
	case native.PCAN_PARAMETER_ON:
		return true, nil
	case native.PCAN_PARAMETER_OFF:
		return false, nil
	}
	return false, fmt.Errorf("parameter 0x%02X: unexpected value %d: %w", uint8(p), v, ErrUnknown)
}

func (c channel) setBool(p native.Parameter, on bool) error {
	var v uint32 = native.PCAN_PARAMETER_OFF
	if on {
		v = native.PCAN_PARAMETER_ON
	}
	return c.setUint32(p, v)
}

// getString reads a NUL-padded UTF-8 string of at most size bytes.
func (c channel) getString(p native.Parameter, size int) (string, error) {
	buf := make([]byte, size)
	if err := c.getValue(p, buf); err != nil {
		return "", err
	}
	return decodeString(p, buf)
}

func decodeString(p native.Parameter, buf []byte) (string, error) {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("parameter 0x%02X: invalid UTF-8: %w", uint8(p), ErrUnknown)
	}
	return string(buf), nil
}

// setString writes s NUL-terminated. An empty string sends an empty buffer,
// which the library treats as "restore the default".
func (c channel) setString(p native.Parameter, s string) error {
	if s == "" {
		return c.setValue(p, nil)
	}
	if len(s) >= native.MAX_LENGTH_VERSION_STRING {
		return fmt.Errorf("parameter 0x%02X: string longer than %d bytes: %w",
			uint8(p), native.MAX_LENGTH_VERSION_STRING-1, ErrIllParamVal)
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return c.setValue(p, buf)
}
