package driver

import (
	"context"
)

// UnifiedCANMessage 是在 RxChan 中传递的 CAN/CAN-FD 报文。
// DLC 为有效数据的字节数，而不是 CAN-FD 的 DLC 编码。
type UnifiedCANMessage struct {
	ID   uint32
	DLC  byte
	Data [64]byte // 使用64字节以兼容CAN-FD
	IsFD bool
}

// Payload 返回有效数据部分
func (m *UnifiedCANMessage) Payload() []byte {
	n := int(m.DLC)
	if n > len(m.Data) {
		n = len(m.Data)
	}
	return m.Data[:n]
}

// CANDriver 定义了CAN/CAN-FD驱动的统一接口
type CANDriver interface {
	Init() error
	Start()
	Stop()
	Write(id int32, data []byte) error
	RxChan() <-chan UnifiedCANMessage
	Context() context.Context
}
