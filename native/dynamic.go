//go:build windows || linux || darwin

package native

import (
	"bytes"
	"unsafe"
)

type proc int

const (
	procInitialize proc = iota
	procInitializeFD
	procUninitialize
	procReset
	procGetStatus
	procRead
	procReadFD
	procWrite
	procWriteFD
	procFilterMessages
	procGetValue
	procSetValue
	procGetErrorText
	procLookUpChannel
	procCount
)

var procNames = [procCount]string{
	procInitialize:     "CAN_Initialize",
	procInitializeFD:   "CAN_InitializeFD",
	procUninitialize:   "CAN_Uninitialize",
	procReset:          "CAN_Reset",
	procGetStatus:      "CAN_GetStatus",
	procRead:           "CAN_Read",
	procReadFD:         "CAN_ReadFD",
	procWrite:          "CAN_Write",
	procWriteFD:        "CAN_WriteFD",
	procFilterMessages: "CAN_FilterMessages",
	procGetValue:       "CAN_GetValue",
	procSetValue:       "CAN_SetValue",
	procGetErrorText:   "CAN_GetErrorText",
	procLookUpChannel:  "CAN_LookUpChannel",
}

var _ Library = (*library)(nil)

// cString 返回以 NUL 结尾的字节串
func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// bufPtr 返回缓冲区首地址，空缓冲区返回 nil
func bufPtr(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf[0])
}

func (l *library) Initialize(ch Handle, btr0btr1 uint16, hwType uint8, ioPort uint32, interrupt uint16) Status {
	return l.call(procInitialize, uintptr(ch), uintptr(btr0btr1), uintptr(hwType), uintptr(ioPort), uintptr(interrupt))
}

func (l *library) InitializeFD(ch Handle, bitrateFD string) Status {
	s := cString(bitrateFD)
	return l.call(procInitializeFD, uintptr(ch), uintptr(unsafe.Pointer(&s[0])))
}

func (l *library) Uninitialize(ch Handle) Status {
	return l.call(procUninitialize, uintptr(ch))
}

func (l *library) Reset(ch Handle) Status {
	return l.call(procReset, uintptr(ch))
}

func (l *library) GetStatus(ch Handle) Status {
	return l.call(procGetStatus, uintptr(ch))
}

func (l *library) Read(ch Handle, msg *Msg, ts *Timestamp) Status {
	return l.call(procRead, uintptr(ch), uintptr(unsafe.Pointer(msg)), uintptr(unsafe.Pointer(ts)))
}

func (l *library) ReadFD(ch Handle, msg *MsgFD, ts *TimestampFD) Status {
	return l.call(procReadFD, uintptr(ch), uintptr(unsafe.Pointer(msg)), uintptr(unsafe.Pointer(ts)))
}

func (l *library) Write(ch Handle, msg *Msg) Status {
	return l.call(procWrite, uintptr(ch), uintptr(unsafe.Pointer(msg)))
}

func (l *library) WriteFD(ch Handle, msg *MsgFD) Status {
	return l.call(procWriteFD, uintptr(ch), uintptr(unsafe.Pointer(msg)))
}

func (l *library) FilterMessages(ch Handle, from, to uint32, mode uint8) Status {
	return l.call(procFilterMessages, uintptr(ch), uintptr(from), uintptr(to), uintptr(mode))
}

func (l *library) GetValue(ch Handle, p Parameter, buf []byte) Status {
	return l.call(procGetValue, uintptr(ch), uintptr(p), uintptr(bufPtr(buf)), uintptr(len(buf)))
}

func (l *library) SetValue(ch Handle, p Parameter, buf []byte) Status {
	return l.call(procSetValue, uintptr(ch), uintptr(p), uintptr(bufPtr(buf)), uintptr(len(buf)))
}

func (l *library) GetErrorText(s Status, language uint16) (string, Status) {
	// 原生接口要求至少 256 字节的缓冲区
	buf := make([]byte, MAX_LENGTH_VERSION_STRING)
	st := l.call(procGetErrorText, uintptr(s), uintptr(language), uintptr(unsafe.Pointer(&buf[0])))
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), st
}

func (l *library) LookUpChannel(params string) (Handle, Status) {
	s := cString(params)
	h := new(Handle)
	st := l.call(procLookUpChannel, uintptr(unsafe.Pointer(&s[0])), uintptr(unsafe.Pointer(h)))
	return *h, st
}
