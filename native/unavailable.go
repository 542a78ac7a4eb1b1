package native

// Load 加载当前平台默认的 PCAN-Basic 库，失败时返回 Unavailable
func Load() (Library, error) {
	lib, err := Open(LibraryName)
	if err != nil {
		return Unavailable{Err: err}, err
	}
	return lib, nil
}

// Unavailable 在原生库缺失时代替它，所有调用都返回 PCAN_ERROR_NODRIVER
type Unavailable struct {
	Err error
}

var _ Library = Unavailable{}

func (Unavailable) Initialize(Handle, uint16, uint8, uint32, uint16) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) InitializeFD(Handle, string) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) Uninitialize(Handle) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) Reset(Handle) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) GetStatus(Handle) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) Read(Handle, *Msg, *Timestamp) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) ReadFD(Handle, *MsgFD, *TimestampFD) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) Write(Handle, *Msg) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) WriteFD(Handle, *MsgFD) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) FilterMessages(Handle, uint32, uint32, uint8) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) GetValue(Handle, Parameter, []byte) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) SetValue(Handle, Parameter, []byte) Status { return PCAN_ERROR_NODRIVER }
func (Unavailable) GetErrorText(Status, uint16) (string, Status) { return "", PCAN_ERROR_NODRIVER }
func (Unavailable) LookUpChannel(string) (Handle, Status) { return PCAN_NONEBUS, PCAN_ERROR_NODRIVER }
