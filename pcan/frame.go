package pcan

import (
	"errors"
	"fmt"
	"time"

	"github.com/LoveWonYoung/pcanbasic/native"
)

const (
	StandardMask uint32 = 0x7FF
	ExtendedMask uint32 = 0x1FFFFFFF
)

// ErrTooMuchData is returned when a payload does not fit a frame.
var ErrTooMuchData = errors.New("pcan: too much data for frame")

// MessageType selects standard (11-bit) or extended (29-bit) identifiers.
type MessageType uint8

const (
	Standard MessageType = native.PCAN_MESSAGE_STANDARD
	Extended MessageType = native.PCAN_MESSAGE_EXTENDED
)

func (t MessageType) mask() uint32 {
	if t == Extended {
		return ExtendedMask
	}
	return StandardMask
}

// CanFrame is a classic CAN frame with up to 8 data bytes. Bytes past Len
// are always zero, so frames compare with ==.
type CanFrame struct {
	msg native.Msg
}

// NewCanFrame builds a data frame. The identifier is masked to 11 or 29 bits.
func NewCanFrame(id uint32, t MessageType, data []byte) (CanFrame, error) {
	if len(data) > 8 {
		return CanFrame{}, fmt.Errorf("%d bytes: %w", len(data), ErrTooMuchData)
	}
	f := CanFrame{msg: native.Msg{
		ID:      id & t.mask(),
		MsgType: uint8(t),
		Len:     uint8(len(data)),
	}}
	copy(f.msg.Data[:], data)
	return f, nil
}

// NewRemoteFrame builds a remote transmission request asking for length bytes.
func NewRemoteFrame(id uint32, t MessageType, length int) (CanFrame, error) {
	if length < 0 || length > 8 {
		return CanFrame{}, fmt.Errorf("%d bytes: %w", length, ErrTooMuchData)
	}
	return CanFrame{msg: native.Msg{
		ID:      id & t.mask(),
		MsgType: uint8(t) | native.PCAN_MESSAGE_RTR,
		Len:     uint8(length),
	}}, nil
}

// canFrameFromMsg clears what the library left past the payload.
func canFrameFromMsg(msg native.Msg) CanFrame {
	if n := int(msg.Len); n < len(msg.Data) {
		clear(msg.Data[n:])
	}
	return CanFrame{msg: msg}
}

func (f CanFrame) CanID() uint32 { return f.msg.ID }

func (f CanFrame) IsStandardFrame() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_EXTENDED == 0
}

func (f CanFrame) IsExtendedFrame() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_EXTENDED != 0
}

func (f CanFrame) IsRTR() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_RTR != 0
}

// IsStatus reports whether the library generated the frame to signal a bus
// status change. Only delivered when status frames are allowed.
func (f CanFrame) IsStatus() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_STATUS != 0
}

func (f CanFrame) IsError() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_ERRFRAME != 0
}

func (f CanFrame) IsEcho() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_ECHO != 0
}

func (f CanFrame) Len() int { return int(f.msg.Len) }

func (f CanFrame) Data() []byte {
	n := min(int(f.msg.Len), len(f.msg.Data))
	return f.msg.Data[:n]
}

func (f CanFrame) String() string {
	return fmt.Sprintf("%03X [%d] % X", f.msg.ID, f.msg.Len, f.Data())
}

// CanFdFrame is a CAN-FD frame with up to 64 data bytes. Bytes past Len
// are always zero.
type CanFdFrame struct {
	msg native.MsgFD
}

// NewCanFdFrame builds an FD data frame. Payloads whose length is not a valid
// CAN-FD size are zero padded to the next one.
func NewCanFdFrame(id uint32, t MessageType, data []byte) (CanFdFrame, error) {
	if len(data) > 64 {
		return CanFdFrame{}, fmt.Errorf("%d bytes: %w", len(data), ErrTooMuchData)
	}
	f := CanFdFrame{msg: native.MsgFD{
		ID:      id & t.mask(),
		MsgType: uint8(t) | native.PCAN_MESSAGE_FD,
		DLC:     LenToDLC(len(data)),
	}}
	copy(f.msg.Data[:], data)
	return f, nil
}

// SetBitrateSwitch toggles the BRS flag.
func (f *CanFdFrame) SetBitrateSwitch(on bool) {
	if on {
		f.msg.MsgType |= native.PCAN_MESSAGE_BRS
	} else {
		f.msg.MsgType &^= native.PCAN_MESSAGE_BRS
	}
}

func canFdFrameFromMsg(msg native.MsgFD) CanFdFrame {
	clear(msg.Data[DLCToLen(msg.DLC):])
	return CanFdFrame{msg: msg}
}

func (f CanFdFrame) CanID() uint32 { return f.msg.ID }

func (f CanFdFrame) IsStandardFrame() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_EXTENDED == 0
}

func (f CanFdFrame) IsExtendedFrame() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_EXTENDED != 0
}

// IsFD is false for classic frames received on an FD channel.
func (f CanFdFrame) IsFD() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_FD != 0
}

func (f CanFdFrame) IsStatus() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_STATUS != 0
}

func (f CanFdFrame) IsError() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_ERRFRAME != 0
}

func (f CanFdFrame) BitrateSwitch() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_BRS != 0
}

func (f CanFdFrame) ErrorStateIndicator() bool {
	return f.msg.MsgType&native.PCAN_MESSAGE_ESI != 0
}

func (f CanFdFrame) DLC() uint8 { return f.msg.DLC }

func (f CanFdFrame) Len() int { return DLCToLen(f.msg.DLC) }

func (f CanFdFrame) Data() []byte { return f.msg.Data[:f.Len()] }

func (f CanFdFrame) String() string {
	return fmt.Sprintf("%03X [%d] % X", f.msg.ID, f.Len(), f.Data())
}

var fdLengths = [16]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}

// DLCToLen converts a DLC code to a payload length.
func DLCToLen(dlc uint8) int {
	if int(dlc) >= len(fdLengths) {
		return 64
	}
	return fdLengths[dlc]
}

// LenToDLC returns the smallest DLC code that holds n bytes.
func LenToDLC(n int) uint8 {
	for dlc, l := range fdLengths {
		if n <= l {
			return uint8(dlc)
		}
	}
	return 15
}

// Timestamp is the receive time of a classic frame.
type Timestamp struct {
	Millis         uint32
	MillisOverflow uint16
	Micros         uint16
}

// Duration returns the time since the driver started.
func (ts Timestamp) Duration() time.Duration {
	millis := uint64(ts.MillisOverflow)<<32 | uint64(ts.Millis)
	return time.Duration(millis)*time.Millisecond + time.Duration(ts.Micros)*time.Microsecond
}
