package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Frame 是适配器对外暴露的报文
type Frame struct {
	ArbitrationID uint32
	Data          []byte
	IsFD          bool
}

// Adapter 把 CANDriver 包装为非阻塞的收发函数
type Adapter struct {
	driver CANDriver // 使用接口，使其可以同时支持 CAN 和 CAN-FD
	rxChan <-chan UnifiedCANMessage
}

// NewAdapter 初始化并启动驱动
func NewAdapter(dev CANDriver) (*Adapter, error) {
	if dev == nil {
		return nil, errors.New("CAN driver instance cannot be nil")
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize device: %w", err)
	}
	dev.Start()

	log.Debug().Msg("adapter created and device started")
	return &Adapter{driver: dev, rxChan: dev.RxChan()}, nil
}

// Close 用于停止驱动并释放资源
func (a *Adapter) Close() {
	log.Debug().Msg("closing adapter")
	a.driver.Stop()
}

// TxFunc 发送一帧，失败只记录日志
func (a *Adapter) TxFunc(msg Frame) {
	if err := a.driver.Write(int32(msg.ArbitrationID), msg.Data); err != nil {
		log.Error().Err(err).Msg("adapter failed to send message")
	}
}

// RxFunc 非阻塞地取出一帧
func (a *Adapter) RxFunc() (Frame, bool) {
	select {
	case m, ok := <-a.rxChan:
		if !ok {
			return Frame{}, false
		}
		return toFrame(m), true
	default:
		return Frame{}, false
	}
}

// RxWait 阻塞直到收到一帧、通道关闭或 ctx 结束
func (a *Adapter) RxWait(ctx context.Context) (Frame, bool) {
	select {
	case m, ok := <-a.rxChan:
		if !ok {
			return Frame{}, false
		}
		return toFrame(m), true
	case <-ctx.Done():
		return Frame{}, false
	case <-a.driver.Context().Done():
		return Frame{}, false
	}
}

func toFrame(m UnifiedCANMessage) Frame {
	if int(m.DLC) > len(m.Data) {
		log.Warn().Msgf("警告: 收到的报文长度 (%d) 大于数据数组长度 (%d)。ID: 0x%X", m.DLC, len(m.Data), m.ID)
	}
	data := append([]byte(nil), m.Payload()...)
	return Frame{ArbitrationID: m.ID, Data: data, IsFD: m.IsFD}
}
