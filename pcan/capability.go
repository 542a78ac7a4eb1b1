package pcan

import (
	"io"
	"net/netip"
)

// Capability interfaces. Code that works with several bus or socket kinds
// can ask for exactly the accessors it needs.

type DeviceIDReader interface {
	DeviceID() (uint32, error)
}

type DeviceIDWriter interface {
	SetDeviceID(id uint32) error
}

type HardwareNameReader interface {
	HardwareName() (string, error)
}

type ControllerNumberReader interface {
	ControllerNumber() (uint32, error)
}

type ControllerNumberWriter interface {
	SetControllerNumber(n uint32) error
}

type DevicePartNumberReader interface {
	DevicePartNumber() (string, error)
}

type ChannelConditionReader interface {
	ChannelCondition() (ChannelConditionStatus, error)
}

type ChannelIdentifier interface {
	ChannelIdentifying() (bool, error)
	SetChannelIdentifying(on bool) error
}

type IPAddressReader interface {
	IPAddress() (netip.Addr, error)
}

type ChannelVersionReader interface {
	ChannelVersion() (Version, error)
}

type ChannelFeaturesReader interface {
	ChannelFeatures() (Features, error)
}

type BitrateInfoReader interface {
	BitrateInfo() (Baudrate, error)
	NominalBusSpeed() (uint32, error)
}

type BitrateInfoFDReader interface {
	BitrateInfoFD() (BitrateFD, error)
	DataBusSpeed() (uint32, error)
}

type FirmwareVersionReader interface {
	FirmwareVersion() (string, error)
}

type FiveVoltsPowerer interface {
	FiveVoltsPower() (bool, error)
	SetFiveVoltsPower(on bool) error
}

type BusOffAutoResetter interface {
	BusOffAutoReset() (bool, error)
	SetBusOffAutoReset(on bool) error
}

type ListenOnlyer interface {
	ListenOnly() (bool, error)
	SetListenOnly(on bool) error
}

type BitrateAdapter interface {
	BitrateAdapting() (bool, error)
	SetBitrateAdapting(on bool) error
}

type InterframeDelayer interface {
	InterframeDelay() (uint32, error)
	SetInterframeDelay(micros uint32) error
}

type MessageFilterer interface {
	MessageFilter() (FilterStatus, error)
	IsOpenFilter() (bool, error)
	IsClosedFilter() (bool, error)
	SetOpenFilter() error
	SetClosedFilter() error
	FilterMessages(from, to uint32, t MessageType) error
}

type ReceiveStatusReader interface {
	IsReceiving() (bool, error)
}

type ReceiveStatusWriter interface {
	SetReceiving(on bool) error
}

type FrameKindsAllower interface {
	AllowStatusFrames() (bool, error)
	SetAllowStatusFrames(on bool) error
	AllowRTRFrames() (bool, error)
	SetAllowRTRFrames(on bool) error
	AllowErrorFrames() (bool, error)
	SetAllowErrorFrames(on bool) error
}

type EchoFramesAllower interface {
	AllowEchoFrames() (bool, error)
	SetAllowEchoFrames(on bool) error
}

type AcceptanceFilterer interface {
	AcceptanceFilter11Bit() (AcceptanceFilter, error)
	SetAcceptanceFilter11Bit(af AcceptanceFilter) error
	AcceptanceFilter29Bit() (AcceptanceFilter, error)
	SetAcceptanceFilter29Bit(af AcceptanceFilter) error
}

type TraceLocationer interface {
	TraceLocation() (string, error)
	SetTraceLocation(dir string) error
	SetDefaultTraceLocation() error
}

type TraceStatuser interface {
	IsTracing() (bool, error)
	SetTracing(on bool) error
}

type TraceSizer interface {
	TraceSize() (uint32, error)
	SetTraceSize(mb uint32) error
	SetDefaultTraceSize() error
}

type TraceConfigurer interface {
	TraceConfiguration() (TraceFile, error)
	ConfigureTrace(cfg TraceFile) error
}

type DigitalIO interface {
	DigitalMode(pin uint) (IOConfig, error)
	DigitalModeWord() (uint32, error)
	SetDigitalMode(pin uint, mode IOConfig) error
	SetDigitalModeWord(word uint32) error
	DigitalValue(pin uint) (IOValue, error)
	DigitalValueWord() (uint32, error)
	SetDigitalValue(pin uint, v IOValue) error
	SetDigitalValueWord(word uint32) error
	SetDigitalBits(mask uint32) error
	ClearDigitalBits(mask uint32) error
}

type AnalogIO interface {
	AnalogValue() (uint32, error)
}

type CanReader interface {
	Read() (CanFrame, Timestamp, error)
	ReadFrame() (CanFrame, error)
}

type CanWriter interface {
	Write(f CanFrame) error
}

type CanFDReader interface {
	ReadFD() (CanFdFrame, uint64, error)
	ReadFrameFD() (CanFdFrame, error)
}

type CanFDWriter interface {
	WriteFD(f CanFdFrame) error
}

// Socket is implemented by every socket kind.
type Socket interface {
	Bus
	io.Closer
	CanReader
	CanWriter
	Reset() error
	Status() error
	HardwareNameReader
	ControllerNumberReader
	DevicePartNumberReader
	ChannelVersionReader
	ChannelFeaturesReader
	BitrateInfoReader
	FirmwareVersionReader
	MessageFilterer
	ReceiveStatusReader
	ReceiveStatusWriter
	FrameKindsAllower
	AcceptanceFilterer
	TraceLocationer
	TraceStatuser
	TraceSizer
	TraceConfigurer
	BusOffAutoResetter
	ListenOnlyer
	BitrateAdapter
}

// FDSocket is a Socket of a CAN-FD capable kind.
type FDSocket interface {
	Socket
	CanFDReader
	CanFDWriter
	BitrateInfoFDReader
}

// Bus capabilities.
var (
	_ ChannelConditionReader = IsaBus{}
	_ HardwareNameReader     = IsaBus{}
	_ ChannelVersionReader   = DngBus{}
	_ ReceiveStatusWriter    = PccBus{}
	_ DeviceIDReader         = PciBus{}
	_ DeviceIDReader         = UsbBus{}
	_ ChannelIdentifier      = UsbBus{}
	_ DeviceIDReader         = LanBus{}
	_ IPAddressReader        = LanBus{}
)

// Socket capabilities.
var (
	_ Socket           = (*IsaCanSocket)(nil)
	_ FiveVoltsPowerer = (*IsaCanSocket)(nil)

	_ Socket                 = (*DngCanSocket)(nil)
	_ ControllerNumberWriter = (*DngCanSocket)(nil)

	_ FDSocket          = (*PciCanSocket)(nil)
	_ DeviceIDReader    = (*PciCanSocket)(nil)
	_ DeviceIDWriter    = (*PciCanSocket)(nil)
	_ InterframeDelayer = (*PciCanSocket)(nil)

	_ FDSocket          = (*UsbCanSocket)(nil)
	_ DeviceIDReader    = (*UsbCanSocket)(nil)
	_ DeviceIDWriter    = (*UsbCanSocket)(nil)
	_ ChannelIdentifier = (*UsbCanSocket)(nil)
	_ FiveVoltsPowerer  = (*UsbCanSocket)(nil)
	_ InterframeDelayer = (*UsbCanSocket)(nil)
	_ EchoFramesAllower = (*UsbCanSocket)(nil)
	_ DigitalIO         = (*UsbCanSocket)(nil)
	_ AnalogIO          = (*UsbCanSocket)(nil)

	_ Socket                 = (*PccCanSocket)(nil)
	_ ControllerNumberWriter = (*PccCanSocket)(nil)
	_ FiveVoltsPowerer       = (*PccCanSocket)(nil)

	_ FDSocket               = (*LanCanSocket)(nil)
	_ DeviceIDReader         = (*LanCanSocket)(nil)
	_ DeviceIDWriter         = (*LanCanSocket)(nil)
	_ ControllerNumberWriter = (*LanCanSocket)(nil)
	_ EchoFramesAllower      = (*LanCanSocket)(nil)
	_ IPAddressReader        = (*LanCanSocket)(nil)

	_ FDSocket = (*CanSocket)(nil)
)
