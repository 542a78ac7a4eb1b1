// Package native mirrors the PCAN-Basic C ABI: channel handles, parameter
// codes, status codes, the raw message structs and the entry points of the
// vendor shared library.
package native

// Handle 是 PCAN-Basic 的通道句柄 (TPCANHandle)
type Handle uint16

// Status 是原生函数的返回码 (TPCANStatus)
type Status uint32

// Parameter 是 CAN_GetValue / CAN_SetValue 的参数编号 (TPCANParameter)
type Parameter uint8

// Channel handles.
const (
	PCAN_NONEBUS Handle = 0x00

	PCAN_ISABUS1 Handle = 0x21
	PCAN_ISABUS2 Handle = 0x22
	PCAN_ISABUS3 Handle = 0x23
	PCAN_ISABUS4 Handle = 0x24
	PCAN_ISABUS5 Handle = 0x25
	PCAN_ISABUS6 Handle = 0x26
	PCAN_ISABUS7 Handle = 0x27
	PCAN_ISABUS8 Handle = 0x28

	PCAN_DNGBUS1 Handle = 0x31

	PCAN_PCIBUS1  Handle = 0x41
	PCAN_PCIBUS2  Handle = 0x42
	PCAN_PCIBUS3  Handle = 0x43
	PCAN_PCIBUS4  Handle = 0x44
	PCAN_PCIBUS5  Handle = 0x45
	PCAN_PCIBUS6  Handle = 0x46
	PCAN_PCIBUS7  Handle = 0x47
	PCAN_PCIBUS8  Handle = 0x48
	PCAN_PCIBUS9  Handle = 0x409
	PCAN_PCIBUS10 Handle = 0x40A
	PCAN_PCIBUS11 Handle = 0x40B
	PCAN_PCIBUS12 Handle = 0x40C
	PCAN_PCIBUS13 Handle = 0x40D
	PCAN_PCIBUS14 Handle = 0x40E
	PCAN_PCIBUS15 Handle = 0x40F
	PCAN_PCIBUS16 Handle = 0x410

	PCAN_USBBUS1  Handle = 0x51
	PCAN_USBBUS2  Handle = 0x52
	PCAN_USBBUS3  Handle = 0x53
	PCAN_USBBUS4  Handle = 0x54
	PCAN_USBBUS5  Handle = 0x55
	PCAN_USBBUS6  Handle = 0x56
	PCAN_USBBUS7  Handle = 0x57
	PCAN_USBBUS8  Handle = 0x58
	PCAN_USBBUS9  Handle = 0x509
	PCAN_USBBUS10 Handle = 0x50A
	PCAN_USBBUS11 Handle = 0x50B
	PCAN_USBBUS12 Handle = 0x50C
	PCAN_USBBUS13 Handle = 0x50D
	PCAN_USBBUS14 Handle = 0x50E
	PCAN_USBBUS15 Handle = 0x50F
	PCAN_USBBUS16 Handle = 0x510

	PCAN_PCCBUS1 Handle = 0x61
	PCAN_PCCBUS2 Handle = 0x62

	PCAN_LANBUS1  Handle = 0x801
	PCAN_LANBUS2  Handle = 0x802
	PCAN_LANBUS3  Handle = 0x803
	PCAN_LANBUS4  Handle = 0x804
	PCAN_LANBUS5  Handle = 0x805
	PCAN_LANBUS6  Handle = 0x806
	PCAN_LANBUS7  Handle = 0x807
	PCAN_LANBUS8  Handle = 0x808
	PCAN_LANBUS9  Handle = 0x809
	PCAN_LANBUS10 Handle = 0x80A
	PCAN_LANBUS11 Handle = 0x80B
	PCAN_LANBUS12 Handle = 0x80C
	PCAN_LANBUS13 Handle = 0x80D
	PCAN_LANBUS14 Handle = 0x80E
	PCAN_LANBUS15 Handle = 0x80F
	PCAN_LANBUS16 Handle = 0x810
)

// Status codes.
const (
	PCAN_ERROR_OK           Status = 0x00000
	PCAN_ERROR_XMTFULL      Status = 0x00001
	PCAN_ERROR_OVERRUN      Status = 0x00002
	PCAN_ERROR_BUSLIGHT     Status = 0x00004
	PCAN_ERROR_BUSHEAVY     Status = 0x00008
	PCAN_ERROR_BUSWARNING   Status = PCAN_ERROR_BUSHEAVY
	PCAN_ERROR_BUSPASSIVE   Status = 0x40000
	PCAN_ERROR_BUSOFF       Status = 0x00010
	PCAN_ERROR_ANYBUSERR    Status = PCAN_ERROR_BUSWARNING | PCAN_ERROR_BUSLIGHT | PCAN_ERROR_BUSHEAVY | PCAN_ERROR_BUSOFF | PCAN_ERROR_BUSPASSIVE
	PCAN_ERROR_QRCVEMPTY    Status = 0x00020
	PCAN_ERROR_QOVERRUN     Status = 0x00040
	PCAN_ERROR_QXMTFULL     Status = 0x00080
	PCAN_ERROR_REGTEST      Status = 0x00100
	PCAN_ERROR_NODRIVER     Status = 0x00200
	PCAN_ERROR_HWINUSE      Status = 0x00400
	PCAN_ERROR_NETINUSE     Status = 0x00800
	PCAN_ERROR_ILLHW        Status = 0x01400
	PCAN_ERROR_ILLNET       Status = 0x01800
	PCAN_ERROR_ILLCLIENT    Status = 0x01C00
	PCAN_ERROR_RESOURCE     Status = 0x02000
	PCAN_ERROR_ILLPARAMTYPE Status = 0x04000
	PCAN_ERROR_ILLPARAMVAL  Status = 0x08000
	PCAN_ERROR_UNKNOWN      Status = 0x10000
	PCAN_ERROR_ILLDATA      Status = 0x20000
	PCAN_ERROR_ILLMODE      Status = 0x80000
	PCAN_ERROR_CAUTION      Status = 0x2000000
	PCAN_ERROR_INITIALIZE   Status = 0x4000000
	PCAN_ERROR_ILLOPERATION Status = 0x8000000
)

// Parameter codes.
const (
	PCAN_DEVICE_ID                Parameter = 0x01
	PCAN_5VOLTS_POWER             Parameter = 0x02
	PCAN_RECEIVE_EVENT            Parameter = 0x03
	PCAN_MESSAGE_FILTER           Parameter = 0x04
	PCAN_API_VERSION              Parameter = 0x05
	PCAN_CHANNEL_VERSION          Parameter = 0x06
	PCAN_BUSOFF_AUTORESET         Parameter = 0x07
	PCAN_LISTEN_ONLY              Parameter = 0x08
	PCAN_LOG_LOCATION             Parameter = 0x09
	PCAN_LOG_STATUS               Parameter = 0x0A
	PCAN_LOG_CONFIGURE            Parameter = 0x0B
	PCAN_LOG_TEXT                 Parameter = 0x0C
	PCAN_CHANNEL_CONDITION        Parameter = 0x0D
	PCAN_HARDWARE_NAME            Parameter = 0x0E
	PCAN_RECEIVE_STATUS           Parameter = 0x0F
	PCAN_CONTROLLER_NUMBER        Parameter = 0x10
	PCAN_TRACE_LOCATION           Parameter = 0x11
	PCAN_TRACE_STATUS             Parameter = 0x12
	PCAN_TRACE_SIZE               Parameter = 0x13
	PCAN_TRACE_CONFIGURE          Parameter = 0x14
	PCAN_CHANNEL_IDENTIFYING      Parameter = 0x15
	PCAN_CHANNEL_FEATURES         Parameter = 0x16
	PCAN_BITRATE_ADAPTING         Parameter = 0x17
	PCAN_BITRATE_INFO             Parameter = 0x18
	PCAN_BITRATE_INFO_FD          Parameter = 0x19
	PCAN_BUSSPEED_NOMINAL         Parameter = 0x1A
	PCAN_BUSSPEED_DATA            Parameter = 0x1B
	PCAN_IP_ADDRESS               Parameter = 0x1C
	PCAN_LAN_SERVICE_STATUS       Parameter = 0x1D
	PCAN_ALLOW_STATUS_FRAMES      Parameter = 0x1E
	PCAN_ALLOW_RTR_FRAMES         Parameter = 0x1F
	PCAN_ALLOW_ERROR_FRAMES       Parameter = 0x20
	PCAN_INTERFRAME_DELAY         Parameter = 0x21
	PCAN_ACCEPTANCE_FILTER_11BIT  Parameter = 0x22
	PCAN_ACCEPTANCE_FILTER_29BIT  Parameter = 0x23
	PCAN_IO_DIGITAL_CONFIGURATION Parameter = 0x24
	PCAN_IO_DIGITAL_VALUE         Parameter = 0x25
	PCAN_IO_DIGITAL_SET           Parameter = 0x26
	PCAN_IO_DIGITAL_CLEAR         Parameter = 0x27
	PCAN_IO_ANALOG_VALUE          Parameter = 0x28
	PCAN_FIRMWARE_VERSION         Parameter = 0x29
	PCAN_ATTACHED_CHANNELS_COUNT  Parameter = 0x2A
	PCAN_ATTACHED_CHANNELS        Parameter = 0x2B
	PCAN_ALLOW_ECHO_FRAMES        Parameter = 0x2C
	PCAN_DEVICE_PART_NUMBER       Parameter = 0x2D
)

// Parameter values.
const (
	PCAN_PARAMETER_OFF = 0x00
	PCAN_PARAMETER_ON  = 0x01

	PCAN_FILTER_CLOSE  = 0x00
	PCAN_FILTER_OPEN   = 0x01
	PCAN_FILTER_CUSTOM = 0x02

	PCAN_CHANNEL_UNAVAILABLE = 0x00
	PCAN_CHANNEL_AVAILABLE   = 0x01
	PCAN_CHANNEL_OCCUPIED    = 0x02
	PCAN_CHANNEL_PCANVIEW    = PCAN_CHANNEL_AVAILABLE | PCAN_CHANNEL_OCCUPIED

	LOG_FUNCTION_DEFAULT    = 0x00
	LOG_FUNCTION_ENTRY      = 0x01
	LOG_FUNCTION_PARAMETERS = 0x02
	LOG_FUNCTION_LEAVE      = 0x04
	LOG_FUNCTION_WRITE      = 0x08
	LOG_FUNCTION_READ       = 0x10
	LOG_FUNCTION_ALL        = 0xFFFF

	TRACE_FILE_SINGLE    = 0x00
	TRACE_FILE_SEGMENTED = 0x01
	TRACE_FILE_DATE      = 0x02
	TRACE_FILE_TIME      = 0x04
	TRACE_FILE_OVERWRITE = 0x80

	FEATURE_FD_CAPABLE    = 0x01
	FEATURE_DELAY_CAPABLE = 0x02
	FEATURE_IO_CAPABLE    = 0x04

	SERVICE_STATUS_STOPPED = 0x01
	SERVICE_STATUS_RUNNING = 0x04

	MAX_LENGTH_HARDWARE_NAME  = 33
	MAX_LENGTH_VERSION_STRING = 256
)

// Non plug-and-play hardware types for CAN_Initialize.
const (
	PCAN_TYPE_ISA         = 0x01
	PCAN_TYPE_ISA_SJA     = 0x09
	PCAN_TYPE_ISA_PHYTEC  = 0x04
	PCAN_TYPE_DNG         = 0x02
	PCAN_TYPE_DNG_EPP     = 0x03
	PCAN_TYPE_DNG_SJA     = 0x05
	PCAN_TYPE_DNG_SJA_EPP = 0x06
)

// Message types.
const (
	PCAN_MESSAGE_STANDARD = 0x00
	PCAN_MESSAGE_RTR      = 0x01
	PCAN_MESSAGE_EXTENDED = 0x02
	PCAN_MESSAGE_FD       = 0x04
	PCAN_MESSAGE_BRS      = 0x08
	PCAN_MESSAGE_ESI      = 0x10
	PCAN_MESSAGE_ECHO     = 0x20
	PCAN_MESSAGE_ERRFRAME = 0x40
	PCAN_MESSAGE_STATUS   = 0x80

	PCAN_MODE_STANDARD = PCAN_MESSAGE_STANDARD
	PCAN_MODE_EXTENDED = PCAN_MESSAGE_EXTENDED
)

// BTR0BTR1 baud rate register values.
const (
	PCAN_BAUD_1M   = 0x0014
	PCAN_BAUD_800K = 0x0016
	PCAN_BAUD_500K = 0x001C
	PCAN_BAUD_250K = 0x011C
	PCAN_BAUD_125K = 0x031C
	PCAN_BAUD_100K = 0x432F
	PCAN_BAUD_95K  = 0xC34E
	PCAN_BAUD_83K  = 0x852B
	PCAN_BAUD_50K  = 0x472F
	PCAN_BAUD_47K  = 0x1414
	PCAN_BAUD_33K  = 0x8B2F
	PCAN_BAUD_20K  = 0x532F
	PCAN_BAUD_10K  = 0x672F
	PCAN_BAUD_5K   = 0x7F7F
)

// Msg 对应 TPCANMsg，内存布局与原生结构体逐字节一致
type Msg struct {
	ID      uint32
	MsgType uint8
	Len     uint8
	Data    [8]byte
}

// MsgFD 对应 TPCANMsgFD
type MsgFD struct {
	ID      uint32
	MsgType uint8
	DLC     uint8
	Data    [64]byte
}

// Timestamp 对应 TPCANTimestamp
type Timestamp struct {
	Millis         uint32
	MillisOverflow uint16
	Micros         uint16
}

// TimestampFD 对应 TPCANTimestampFD，单位为微秒
type TimestampFD uint64

// ChannelInformationSize 是 TPCANChannelInformation 的字节数
const ChannelInformationSize = 52

// Library 是 PCAN-Basic 共享库导出函数的集合
type Library interface {
	Initialize(ch Handle, btr0btr1 uint16, hwType uint8, ioPort uint32, interrupt uint16) Status
	InitializeFD(ch Handle, bitrateFD string) Status
	Uninitialize(ch Handle) Status
	Reset(ch Handle) Status
	GetStatus(ch Handle) Status
	Read(ch Handle, msg *Msg, ts *Timestamp) Status
	ReadFD(ch Handle, msg *MsgFD, ts *TimestampFD) Status
	Write(ch Handle, msg *Msg) Status
	WriteFD(ch Handle, msg *MsgFD) Status
	FilterMessages(ch Handle, from, to uint32, mode uint8) Status
	GetValue(ch Handle, p Parameter, buf []byte) Status
	SetValue(ch Handle, p Parameter, buf []byte) Status
	GetErrorText(s Status, language uint16) (string, Status)
	LookUpChannel(params string) (Handle, Status)
}
