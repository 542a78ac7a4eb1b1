package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LoveWonYoung/pcanbasic/pcan"
)

// 缓冲区和轮询配置常量
const (
	RxChannelBufferSize = 1024             // 接收通道缓冲区大小
	PollingInterval     = time.Millisecond // 轮询间隔
)

const (
	CAN CanType = iota
	CANFD
)

type CanType byte

func (t CanType) String() string {
	if t == CAN {
		return "CAN  "
	}
	return "CANFD"
}

// PcanConfig 描述 PcanCan 打开的通道
type PcanConfig struct {
	Bus           pcan.Bus
	CanType       CanType
	Baudrate      pcan.Baudrate  // 经典 CAN 使用
	BitrateFD     pcan.BitrateFD // CAN-FD 使用
	BitrateSwitch bool           // CAN-FD 发送时是否置 BRS

	// Setup 在通道打开后、读取服务启动前调用，用于设置滤波、只听等参数
	Setup func(*pcan.CanSocket) error
}

// PcanCan 是基于 PCAN-Basic 的 CAN/CAN-FD 驱动
type PcanCan struct {
	cfg      PcanConfig
	sock     *pcan.CanSocket
	rxChan   chan UnifiedCANMessage
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

var _ CANDriver = (*PcanCan)(nil)

// logCANMessage 统一的CAN消息日志记录函数
func logCANMessage(direction string, id uint32, data []byte, canType CanType) {
	log.Debug().
		Str("dir", direction).
		Str("type", canType.String()).
		Str("id", fmt.Sprintf("0x%03X", id)).
		Int("len", len(data)).
		Str("data", fmt.Sprintf("% X", data)).
		Msg("frame")
}

func NewPcanCan(cfg PcanConfig) *PcanCan {
	ctx, cancel := context.WithCancel(context.Background())
	return &PcanCan{
		cfg:    cfg,
		rxChan: make(chan UnifiedCANMessage, RxChannelBufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *PcanCan) Init() error {
	if c.cfg.Bus == nil {
		return errors.New("未指定 PCAN 通道")
	}
	var err error
	switch c.cfg.CanType {
	case CANFD:
		c.sock, err = pcan.OpenCanSocketFD(c.cfg.Bus, c.cfg.BitrateFD)
	default:
		c.sock, err = pcan.OpenCanSocket(c.cfg.Bus, c.cfg.Baudrate)
	}
	if err != nil {
		log.Error().Err(err).Stringer("bus", c.cfg.Bus).Msg("CAN硬件初始化失败")
		return fmt.Errorf("CAN硬件初始化失败: %w", err)
	}
	if c.cfg.Setup != nil {
		if err := c.cfg.Setup(c.sock); err != nil {
			c.sock.Close()
			c.sock = nil
			return fmt.Errorf("通道参数设置失败: %w", err)
		}
	}
	log.Info().Stringer("bus", c.cfg.Bus).Str("type", c.cfg.CanType.String()).Msg("CAN硬件初始化成功")
	return nil
}

// Socket 返回已初始化的通道，用于读写其他参数
func (c *PcanCan) Socket() *pcan.CanSocket { return c.sock }

func (c *PcanCan) Start() {
	log.Info().Msg("CAN驱动的中央读取服务已启动...")
	c.wg.Add(1)
	go c.readLoop()
}

func (c *PcanCan) Stop() {
	c.stopOnce.Do(func() {
		log.Info().Msg("正在停止CAN驱动的读取服务...")
		c.cancel()
		c.wg.Wait()
		close(c.rxChan)
		if c.sock != nil {
			if err := c.sock.Close(); err != nil {
				log.Warn().Err(err).Msg("关闭通道失败")
			}
		}
	})
}

func (c *PcanCan) readLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(PollingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.drain()
		}
	}
}

// drain 读空原生接收队列
func (c *PcanCan) drain() {
	for {
		msg, ok, err := c.readOne()
		if errors.Is(err, pcan.ErrQrcvEmpty) {
			return
		}
		if err != nil {
			log.Warn().Err(err).Msg("读取报文失败")
			return
		}
		if !ok {
			continue
		}
		logCANMessage("RX", msg.ID, msg.Payload(), c.msgType(msg))
		select {
		case c.rxChan <- msg:
		default:
			log.Warn().Msg("警告: 驱动接收channel已满，消息被丢弃")
		}
	}
}

// readOne 读取一条报文，状态帧与错误帧返回 ok=false
func (c *PcanCan) readOne() (UnifiedCANMessage, bool, error) {
	var msg UnifiedCANMessage
	if c.cfg.CanType == CANFD {
		f, err := c.sock.ReadFrameFD()
		if err != nil {
			return msg, false, err
		}
		if f.IsStatus() || f.IsError() {
			log.Warn().Str("frame", f.String()).Msg("收到状态帧")
			return msg, false, nil
		}
		msg.ID = f.CanID()
		msg.DLC = byte(copy(msg.Data[:], f.Data()))
		msg.IsFD = f.IsFD()
		return msg, true, nil
	}
	f, err := c.sock.ReadFrame()
	if err != nil {
		return msg, false, err
	}
	if f.IsStatus() || f.IsError() {
		log.Warn().Str("frame", f.String()).Msg("收到状态帧")
		return msg, false, nil
	}
	msg.ID = f.CanID()
	msg.DLC = byte(copy(msg.Data[:], f.Data()))
	return msg, true, nil
}

func (c *PcanCan) msgType(msg UnifiedCANMessage) CanType {
	if msg.IsFD {
		return CANFD
	}
	return CAN
}

// Write 发送一帧，ID 大于 0x7FF 时按扩展帧发送
func (c *PcanCan) Write(id int32, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("数据长度 %d ", len(data))
	} else if len(data) > 64 && c.cfg.CanType == CANFD {
		return fmt.Errorf("数据长度 %d 超过CAN-FD最大长度64", len(data))
	} else if len(data) > 8 && c.cfg.CanType == CAN {
		return fmt.Errorf("数据长度 %d 超过CAN最大长度8", len(data))
	}
	if c.sock == nil {
		return errors.New("设备未初始化")
	}

	t := pcan.Standard
	if uint32(id) > pcan.StandardMask {
		t = pcan.Extended
	}

	var err error
	if c.cfg.CanType == CANFD {
		var f pcan.CanFdFrame
		if f, err = pcan.NewCanFdFrame(uint32(id), t, data); err == nil {
			f.SetBitrateSwitch(c.cfg.BitrateSwitch)
			err = c.sock.WriteFD(f)
		}
	} else {
		var f pcan.CanFrame
		if f, err = pcan.NewCanFrame(uint32(id), t, data); err == nil {
			err = c.sock.Write(f)
		}
	}
	if err != nil {
		log.Error().Err(err).Str("id", fmt.Sprintf("0x%03X", id)).Msg("错误: CAN/CANFD消息发送失败")
		return fmt.Errorf("CAN/CANFD消息发送失败: %w", err)
	}
	logCANMessage("TX", uint32(id), data, c.cfg.CanType)
	return nil
}

func (c *PcanCan) RxChan() <-chan UnifiedCANMessage { return c.rxChan }

func (c *PcanCan) Context() context.Context { return c.ctx }
