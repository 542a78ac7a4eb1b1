package pcan

import (
	"fmt"
	"net/netip"

	"github.com/LoveWonYoung/pcanbasic/native"
)

// Each feature below wraps one or a few related parameters. Buses and sockets
// opt into a feature by embedding it (sockets) or by delegating to it (buses).

type identity struct{ ch channel }

func (f identity) HardwareName() (string, error) {
	return f.ch.getString(native.PCAN_HARDWARE_NAME, native.MAX_LENGTH_HARDWARE_NAME)
}

func (f identity) ControllerNumber() (uint32, error) {
	return f.ch.getUint32(native.PCAN_CONTROLLER_NUMBER)
}

// DevicePartNumber returns the part number, e.g. "IPEH-004022".
func (f identity) DevicePartNumber() (string, error) {
	return f.ch.getString(native.PCAN_DEVICE_PART_NUMBER, 100)
}

func (f identity) ChannelVersion() (Version, error) {
	s, err := f.ch.getString(native.PCAN_CHANNEL_VERSION, native.MAX_LENGTH_VERSION_STRING)
	if err != nil {
		return Version{}, err
	}
	return parseVersion(s)
}

func (f identity) ChannelFeatures() (Features, error) {
	v, err := f.ch.getUint32(native.PCAN_CHANNEL_FEATURES)
	return Features(v), err
}

type condition struct{ ch channel }

func (f condition) ChannelCondition() (ChannelConditionStatus, error) {
	v, err := f.ch.getUint32(native.PCAN_CHANNEL_CONDITION)
	if err != nil {
		return 0, err
	}
	return conditionFromValue(v)
}

type receiveStatus struct{ ch channel }

// IsReceiving reports whether the receive queue is filled. When off, the
// channel stays initialized but incoming frames are dropped.
func (f receiveStatus) IsReceiving() (bool, error) {
	return f.ch.getBool(native.PCAN_RECEIVE_STATUS)
}

func (f receiveStatus) SetReceiving(on bool) error {
	return f.ch.setBool(native.PCAN_RECEIVE_STATUS, on)
}

type deviceID struct{ ch channel }

func (f deviceID) DeviceID() (uint32, error) {
	return f.ch.getUint32(native.PCAN_DEVICE_ID)
}

type deviceIDWriter struct{ ch channel }

func (f deviceIDWriter) SetDeviceID(id uint32) error {
	return f.ch.setUint32(native.PCAN_DEVICE_ID, id)
}

type controllerNumberWriter struct{ ch channel }

func (f controllerNumberWriter) SetControllerNumber(n uint32) error {
	return f.ch.setUint32(native.PCAN_CONTROLLER_NUMBER, n)
}

type identifying struct{ ch channel }

// ChannelIdentifying reports whether the channel LED is blinking.
func (f identifying) ChannelIdentifying() (bool, error) {
	return f.ch.getBool(native.PCAN_CHANNEL_IDENTIFYING)
}

func (f identifying) SetChannelIdentifying(on bool) error {
	return f.ch.setBool(native.PCAN_CHANNEL_IDENTIFYING, on)
}

type ipAddress struct{ ch channel }

func (f ipAddress) IPAddress() (netip.Addr, error) {
	s, err := f.ch.getString(native.PCAN_IP_ADDRESS, 20)
	if err != nil {
		return netip.Addr{}, err
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip address %q: %w", s, ErrUnknown)
	}
	return addr, nil
}

type bitrateInfo struct{ ch channel }

// BitrateInfo returns the BTR0BTR1 value the channel was initialized with.
func (f bitrateInfo) BitrateInfo() (Baudrate, error) {
	var buf [2]byte
	if err := f.ch.getValue(native.PCAN_BITRATE_INFO, buf[:]); err != nil {
		return 0, err
	}
	return Baudrate(uint16(buf[0]) | uint16(buf[1])<<8), nil
}

// NominalBusSpeed returns the nominal bit rate in bit/s.
func (f bitrateInfo) NominalBusSpeed() (uint32, error) {
	return f.ch.getUint32(native.PCAN_BUSSPEED_NOMINAL)
}

func (f bitrateInfo) FirmwareVersion() (string, error) {
	return f.ch.getString(native.PCAN_FIRMWARE_VERSION, native.MAX_LENGTH_VERSION_STRING)
}

type bitrateInfoFD struct{ ch channel }

func (f bitrateInfoFD) BitrateInfoFD() (BitrateFD, error) {
	s, err := f.ch.getString(native.PCAN_BITRATE_INFO_FD, native.MAX_LENGTH_VERSION_STRING)
	return BitrateFD(s), err
}

// DataBusSpeed returns the data phase bit rate in bit/s.
func (f bitrateInfoFD) DataBusSpeed() (uint32, error) {
	return f.ch.getUint32(native.PCAN_BUSSPEED_DATA)
}

type fiveVolts struct{ ch channel }

// FiveVoltsPower reports whether the 5V supply on the connector is on.
func (f fiveVolts) FiveVoltsPower() (bool, error) {
	return f.ch.getBool(native.PCAN_5VOLTS_POWER)
}

func (f fiveVolts) SetFiveVoltsPower(on bool) error {
	return f.ch.setBool(native.PCAN_5VOLTS_POWER, on)
}

type busBehavior struct{ ch channel }

func (f busBehavior) BusOffAutoReset() (bool, error) {
	return f.ch.getBool(native.PCAN_BUSOFF_AUTORESET)
}

func (f busBehavior) SetBusOffAutoReset(on bool) error {
	return f.ch.setBool(native.PCAN_BUSOFF_AUTORESET, on)
}

func (f busBehavior) ListenOnly() (bool, error) {
	return f.ch.getBool(native.PCAN_LISTEN_ONLY)
}

func (f busBehavior) SetListenOnly(on bool) error {
	return f.ch.setBool(native.PCAN_LISTEN_ONLY, on)
}

func (f busBehavior) BitrateAdapting() (bool, error) {
	return f.ch.getBool(native.PCAN_BITRATE_ADAPTING)
}

// SetBitrateAdapting only takes effect before the channel is initialized.
func (f busBehavior) SetBitrateAdapting(on bool) error {
	return f.ch.setBool(native.PCAN_BITRATE_ADAPTING, on)
}

type interframeDelay struct{ ch channel }

// InterframeDelay returns the gap between sent frames in microseconds.
func (f interframeDelay) InterframeDelay() (uint32, error) {
	return f.ch.getUint32(native.PCAN_INTERFRAME_DELAY)
}

func (f interframeDelay) SetInterframeDelay(micros uint32) error {
	return f.ch.setUint32(native.PCAN_INTERFRAME_DELAY, micros)
}

type messageFilter struct{ ch channel }

func (f messageFilter) MessageFilter() (FilterStatus, error) {
	v, err := f.ch.getUint32(native.PCAN_MESSAGE_FILTER)
	if err != nil {
		return 0, err
	}
	switch s := FilterStatus(v); s {
	case FilterClosed, FilterOpen, FilterCustom:
		return s, nil
	}
	return 0, fmt.Errorf("message filter %d: %w", v, ErrUnknown)
}

func (f messageFilter) IsOpenFilter() (bool, error) {
	s, err := f.MessageFilter()
	return s == FilterOpen, err
}

func (f messageFilter) IsClosedFilter() (bool, error) {
	s, err := f.MessageFilter()
	return s == FilterClosed, err
}

func (f messageFilter) SetOpenFilter() error {
	return f.ch.setUint32(native.PCAN_MESSAGE_FILTER, native.PCAN_FILTER_OPEN)
}

func (f messageFilter) SetClosedFilter() error {
	return f.ch.setUint32(native.PCAN_MESSAGE_FILTER, native.PCAN_FILTER_CLOSE)
}

// FilterMessages narrows reception to identifiers from..to. Successive calls
// widen the range.
func (f messageFilter) FilterMessages(from, to uint32, t MessageType) error {
	from, to = from&t.mask(), to&t.mask()
	if from > to {
		return fmt.Errorf("filter range 0x%X..0x%X: %w", from, to, ErrIllParamVal)
	}
	return errorFromStatus(Library().FilterMessages(f.ch.handle, from, to, uint8(t)))
}

type frameKinds struct{ ch channel }

func (f frameKinds) AllowStatusFrames() (bool, error) {
	return f.ch.getBool(native.PCAN_ALLOW_STATUS_FRAMES)
}

func (f frameKinds) SetAllowStatusFrames(on bool) error {
	return f.ch.setBool(native.PCAN_ALLOW_STATUS_FRAMES, on)
}

func (f frameKinds) AllowRTRFrames() (bool, error) {
	return f.ch.getBool(native.PCAN_ALLOW_RTR_FRAMES)
}

func (f frameKinds) SetAllowRTRFrames(on bool) error {
	return f.ch.setBool(native.PCAN_ALLOW_RTR_FRAMES, on)
}

func (f frameKinds) AllowErrorFrames() (bool, error) {
	return f.ch.getBool(native.PCAN_ALLOW_ERROR_FRAMES)
}

func (f frameKinds) SetAllowErrorFrames(on bool) error {
	return f.ch.setBool(native.PCAN_ALLOW_ERROR_FRAMES, on)
}

type echoFrames struct{ ch channel }

// AllowEchoFrames reports whether sent frames are echoed into the receive queue.
func (f echoFrames) AllowEchoFrames() (bool, error) {
	return f.ch.getBool(native.PCAN_ALLOW_ECHO_FRAMES)
}

func (f echoFrames) SetAllowEchoFrames(on bool) error {
	return f.ch.setBool(native.PCAN_ALLOW_ECHO_FRAMES, on)
}

type acceptanceFilters struct{ ch channel }

func (f acceptanceFilters) AcceptanceFilter11Bit() (AcceptanceFilter, error) {
	v, err := f.ch.getUint64(native.PCAN_ACCEPTANCE_FILTER_11BIT)
	return acceptanceFilterFromValue(v), err
}

func (f acceptanceFilters) SetAcceptanceFilter11Bit(af AcceptanceFilter) error {
	return f.ch.setUint64(native.PCAN_ACCEPTANCE_FILTER_11BIT, af.value())
}

func (f acceptanceFilters) AcceptanceFilter29Bit() (AcceptanceFilter, error) {
	v, err := f.ch.getUint64(native.PCAN_ACCEPTANCE_FILTER_29BIT)
	return acceptanceFilterFromValue(v), err
}

func (f acceptanceFilters) SetAcceptanceFilter29Bit(af AcceptanceFilter) error {
	return f.ch.setUint64(native.PCAN_ACCEPTANCE_FILTER_29BIT, af.value())
}

type tracing struct{ ch channel }

func (f tracing) TraceLocation() (string, error) {
	return f.ch.getString(native.PCAN_TRACE_LOCATION, native.MAX_LENGTH_VERSION_STRING)
}

// SetTraceLocation sets the directory trace files are written to.
func (f tracing) SetTraceLocation(dir string) error {
	return f.ch.setString(native.PCAN_TRACE_LOCATION, dir)
}

// SetDefaultTraceLocation restores the directory of the calling process.
func (f tracing) SetDefaultTraceLocation() error {
	return f.ch.setString(native.PCAN_TRACE_LOCATION, "")
}

func (f tracing) IsTracing() (bool, error) {
	return f.ch.getStrictBool(native.PCAN_TRACE_STATUS)
}

func (f tracing) SetTracing(on bool) error {
	return f.ch.setBool(native.PCAN_TRACE_STATUS, on)
}

// TraceSize returns the maximum trace file size in megabytes.
func (f tracing) TraceSize() (uint32, error) {
	return f.ch.getUint32(native.PCAN_TRACE_SIZE)
}

func (f tracing) SetTraceSize(mb uint32) error {
	return f.ch.setUint32(native.PCAN_TRACE_SIZE, mb)
}

// SetDefaultTraceSize restores the library default of 10 MB.
func (f tracing) SetDefaultTraceSize() error {
	return f.ch.setUint32(native.PCAN_TRACE_SIZE, 0)
}

func (f tracing) TraceConfiguration() (TraceFile, error) {
	v, err := f.ch.getUint32(native.PCAN_TRACE_CONFIGURE)
	return TraceFile(v), err
}

// ConfigureTrace must be called while tracing is off.
func (f tracing) ConfigureTrace(cfg TraceFile) error {
	return f.ch.setUint32(native.PCAN_TRACE_CONFIGURE, uint32(cfg))
}

type digitalIO struct{ ch channel }

func checkPin(pin uint) error {
	if pin > 31 {
		return fmt.Errorf("digital pin %d: %w", pin, ErrIllParamVal)
	}
	return nil
}

// DigitalModeWord returns the direction of all 32 pins, 1 meaning output.
func (f digitalIO) DigitalModeWord() (uint32, error) {
	return f.ch.getUint32(native.PCAN_IO_DIGITAL_CONFIGURATION)
}

func (f digitalIO) SetDigitalModeWord(word uint32) error {
	return f.ch.setUint32(native.PCAN_IO_DIGITAL_CONFIGURATION, word)
}

func (f digitalIO) DigitalMode(pin uint) (IOConfig, error) {
	if err := checkPin(pin); err != nil {
		return IOInput, err
	}
	word, err := f.DigitalModeWord()
	if err != nil {
		return IOInput, err
	}
	if word&(1<<pin) != 0 {
		return IOOutput, nil
	}
	return IOInput, nil
}

// SetDigitalMode changes the direction of one pin and leaves the others.
func (f digitalIO) SetDigitalMode(pin uint, mode IOConfig) error {
	if err := checkPin(pin); err != nil {
		return err
	}
	word, err := f.DigitalModeWord()
	if err != nil {
		return err
	}
	if mode == IOOutput {
		word |= 1 << pin
	} else {
		word &^= 1 << pin
	}
	return f.SetDigitalModeWord(word)
}

func (f digitalIO) DigitalValueWord() (uint32, error) {
	return f.ch.getUint32(native.PCAN_IO_DIGITAL_VALUE)
}

func (f digitalIO) SetDigitalValueWord(word uint32) error {
	return f.ch.setUint32(native.PCAN_IO_DIGITAL_VALUE, word)
}

func (f digitalIO) DigitalValue(pin uint) (IOValue, error) {
	if err := checkPin(pin); err != nil {
		return IOLow, err
	}
	word, err := f.DigitalValueWord()
	if err != nil {
		return IOLow, err
	}
	if word&(1<<pin) != 0 {
		return IOHigh, nil
	}
	return IOLow, nil
}

func (f digitalIO) SetDigitalValue(pin uint, v IOValue) error {
	if err := checkPin(pin); err != nil {
		return err
	}
	word, err := f.DigitalValueWord()
	if err != nil {
		return err
	}
	if v == IOHigh {
		word |= 1 << pin
	} else {
		word &^= 1 << pin
	}
	return f.SetDigitalValueWord(word)
}

// SetDigitalBits drives the pins in mask high.
func (f digitalIO) SetDigitalBits(mask uint32) error {
	return f.ch.setUint32(native.PCAN_IO_DIGITAL_SET, mask)
}

// ClearDigitalBits drives the pins in mask low.
func (f digitalIO) ClearDigitalBits(mask uint32) error {
	return f.ch.setUint32(native.PCAN_IO_DIGITAL_CLEAR, mask)
}

func (f digitalIO) AnalogValue() (uint32, error) {
	return f.ch.getUint32(native.PCAN_IO_ANALOG_VALUE)
}
