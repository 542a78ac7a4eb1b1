package pcan

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/LoveWonYoung/pcanbasic/native"
)

// ChannelConditionStatus is the value of PCAN_CHANNEL_CONDITION.
type ChannelConditionStatus uint32

const (
	ChannelUnavailable ChannelConditionStatus = native.PCAN_CHANNEL_UNAVAILABLE
	ChannelAvailable   ChannelConditionStatus = native.PCAN_CHANNEL_AVAILABLE
	ChannelOccupied    ChannelConditionStatus = native.PCAN_CHANNEL_OCCUPIED
	ChannelPcanView    ChannelConditionStatus = native.PCAN_CHANNEL_PCANVIEW
)

func (s ChannelConditionStatus) String() string {
	switch s {
	case ChannelUnavailable:
		return "unavailable"
	case ChannelAvailable:
		return "available"
	case ChannelOccupied:
		return "occupied"
	case ChannelPcanView:
		return "pcanview"
	}
	return fmt.Sprintf("condition(%d)", uint32(s))
}

func conditionFromValue(v uint32) (ChannelConditionStatus, error) {
	switch s := ChannelConditionStatus(v); s {
	case ChannelUnavailable, ChannelAvailable, ChannelOccupied, ChannelPcanView:
		return s, nil
	}
	return 0, fmt.Errorf("channel condition %d: %w", v, ErrUnknown)
}

// FilterStatus is the value of PCAN_MESSAGE_FILTER.
type FilterStatus uint32

const (
	FilterClosed FilterStatus = native.PCAN_FILTER_CLOSE
	FilterOpen   FilterStatus = native.PCAN_FILTER_OPEN
	FilterCustom FilterStatus = native.PCAN_FILTER_CUSTOM
)

func (s FilterStatus) String() string {
	switch s {
	case FilterClosed:
		return "closed"
	case FilterOpen:
		return "open"
	case FilterCustom:
		return "custom"
	}
	return fmt.Sprintf("filter(%d)", uint32(s))
}

// Features is the PCAN_CHANNEL_FEATURES bitset.
type Features uint32

func (f Features) FD() bool    { return f&native.FEATURE_FD_CAPABLE != 0 }
func (f Features) Delay() bool { return f&native.FEATURE_DELAY_CAPABLE != 0 }
func (f Features) IO() bool    { return f&native.FEATURE_IO_CAPABLE != 0 }

func (f Features) String() string {
	var names []string
	if f.FD() {
		names = append(names, "fd")
	}
	if f.Delay() {
		names = append(names, "delay")
	}
	if f.IO() {
		names = append(names, "io")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// Version is the three-line PCAN_CHANNEL_VERSION text.
type Version struct {
	DriverNameAndVersion string
	YearOfCopyright      string
	CompanyNameAndCity   string
}

func parseVersion(s string) (Version, error) {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 3 {
		return Version{}, fmt.Errorf("channel version has %d lines: %w", len(lines), ErrUnknown)
	}
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return Version{
		DriverNameAndVersion: lines[0],
		YearOfCopyright:      lines[1],
		CompanyNameAndCity:   lines[2],
	}, nil
}

func (v Version) String() string {
	return v.DriverNameAndVersion + "\n" + v.YearOfCopyright + "\n" + v.CompanyNameAndCity
}

// AcceptanceFilter is a code/mask pair. The library packs it into 64 bits
// with the code in the high 32 bits and the mask in the low 32 bits.
type AcceptanceFilter struct {
	Code uint32
	Mask uint32
}

func (f AcceptanceFilter) value() uint64 {
	return uint64(f.Code)<<32 | uint64(f.Mask)
}

func acceptanceFilterFromValue(v uint64) AcceptanceFilter {
	return AcceptanceFilter{Code: uint32(v >> 32), Mask: uint32(v)}
}

// IOConfig is the direction of one digital I/O pin.
type IOConfig uint8

const (
	IOInput IOConfig = iota
	IOOutput
)

func (c IOConfig) String() string {
	if c == IOOutput {
		return "output"
	}
	return "input"
}

// IOValue is the level of one digital I/O pin.
type IOValue uint8

const (
	IOLow IOValue = iota
	IOHigh
)

// TraceFile holds PCAN_TRACE_CONFIGURE flags.
type TraceFile uint32

const (
	TraceFileSingle    TraceFile = native.TRACE_FILE_SINGLE
	TraceFileSegmented TraceFile = native.TRACE_FILE_SEGMENTED
	TraceFileDate      TraceFile = native.TRACE_FILE_DATE
	TraceFileTime      TraceFile = native.TRACE_FILE_TIME
	TraceFileOverwrite TraceFile = native.TRACE_FILE_OVERWRITE
)

// LogFunction holds PCAN_LOG_CONFIGURE flags.
type LogFunction uint32

const (
	LogFunctionDefault    LogFunction = native.LOG_FUNCTION_DEFAULT
	LogFunctionEntry      LogFunction = native.LOG_FUNCTION_ENTRY
	LogFunctionParameters LogFunction = native.LOG_FUNCTION_PARAMETERS
	LogFunctionLeave      LogFunction = native.LOG_FUNCTION_LEAVE
	LogFunctionWrite      LogFunction = native.LOG_FUNCTION_WRITE
	LogFunctionRead       LogFunction = native.LOG_FUNCTION_READ
	LogFunctionAll        LogFunction = native.LOG_FUNCTION_ALL
)

// ChannelInformation is one TPCANChannelInformation record of
// PCAN_ATTACHED_CHANNELS.
type ChannelInformation struct {
	Handle           native.Handle
	DeviceType       uint8
	ControllerNumber uint8
	Features         Features
	DeviceName       string
	DeviceID         uint32
	Condition        ChannelConditionStatus
}

// Bus returns the bus of the record, if the handle is known.
func (ci ChannelInformation) Bus() (Bus, bool) {
	return BusFromHandle(ci.Handle)
}

func decodeChannelInformation(b []byte) (ChannelInformation, error) {
	if len(b) < native.ChannelInformationSize {
		return ChannelInformation{}, fmt.Errorf("channel information: short record of %d bytes: %w", len(b), ErrUnknown)
	}
	name, err := decodeString(native.PCAN_ATTACHED_CHANNELS, b[8:8+native.MAX_LENGTH_HARDWARE_NAME])
	if err != nil {
		return ChannelInformation{}, err
	}
	return ChannelInformation{
		Handle:           native.Handle(binary.LittleEndian.Uint16(b[0:2])),
		DeviceType:       b[2],
		ControllerNumber: b[3],
		Features:         Features(binary.LittleEndian.Uint32(b[4:8])),
		DeviceName:       name,
		DeviceID:         binary.LittleEndian.Uint32(b[44:48]),
		Condition:        ChannelConditionStatus(binary.LittleEndian.Uint32(b[48:52])),
	}, nil
}
