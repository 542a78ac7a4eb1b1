package native

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// Mock 是内存中的虚拟 PCAN-Basic 库
// 用于开发和测试，不依赖实际硬件和驱动
type Mock struct {
	mu        sync.Mutex
	attached  map[Handle]bool
	channels  map[Handle]*mockChannel
	values    map[Handle]map[Parameter][]byte
	failures  map[Parameter]Status
	lookups   map[string]Handle
	responses []MockResponse
}

// MockResponse 定义预设的自动响应：写出 TriggerID 的报文后，
// 在同一通道注入一条 ResponseID 的报文
type MockResponse struct {
	Channel    Handle
	TriggerID  uint32
	ResponseID uint32
	Response   []byte
}

type mockChannel struct {
	fd        bool
	btr0btr1  uint16
	bitrateFD string
	status    Status
	rx        []mockFrame
	sent      []MsgFD
	filter    *[2]uint32
}

type mockFrame struct {
	msg MsgFD
	ts  uint64
}

var _ Library = (*Mock)(nil)

// NewMock 创建虚拟库，handles 为已连接的通道；为空时任何通道都可初始化
func NewMock(handles ...Handle) *Mock {
	m := &Mock{
		attached: make(map[Handle]bool),
		channels: make(map[Handle]*mockChannel),
		values:   make(map[Handle]map[Parameter][]byte),
		failures: make(map[Parameter]Status),
		lookups:  make(map[string]Handle),
	}
	for _, h := range handles {
		m.attached[h] = true
	}
	return m
}

// ============================================================================
// Mock 专用方法 - 用于测试
// ============================================================================

// Store 预置一个参数的原始字节
func (m *Mock) Store(ch Handle, p Parameter, buf []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store(ch, p, buf)
}

// Stored 返回参数当前的原始字节，ok 表示该参数被设置过
func (m *Mock) Stored(ch Handle, p Parameter) (buf []byte, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[ch][p]
	return append([]byte(nil), v...), ok
}

// Fail 让之后所有针对参数 p 的读写都返回 s，s 为 PCAN_ERROR_OK 时取消
func (m *Mock) Fail(p Parameter, s Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == PCAN_ERROR_OK {
		delete(m.failures, p)
		return
	}
	m.failures[p] = s
}

// SetBusStatus 设置 CAN_GetStatus 返回的总线状态
func (m *Mock) SetBusStatus(ch Handle, s Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.channels[ch]
	if !ok {
		return fmt.Errorf("通道 0x%X 未初始化", ch)
	}
	c.status = s
	return nil
}

// AddLookup 为 CAN_LookUpChannel 注册查询串
func (m *Mock) AddLookup(params string, ch Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[params] = ch
}

// AddResponse 添加一个预设响应
func (m *Mock) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.Response = append([]byte(nil), r.Response...)
	m.responses = append(m.responses, r)
}

// Inject 向通道的接收队列注入一条经典 CAN 报文
func (m *Mock) Inject(ch Handle, msg Msg, ts Timestamp) error {
	fd := MsgFD{ID: msg.ID, MsgType: msg.MsgType, DLC: msg.Len}
	copy(fd.Data[:], msg.Data[:])
	micros := (uint64(ts.MillisOverflow)<<32+uint64(ts.Millis))*1000 + uint64(ts.Micros)
	return m.InjectFD(ch, fd, TimestampFD(micros))
}

// InjectFD 向通道的接收队列注入一条 CAN-FD 报文
func (m *Mock) InjectFD(ch Handle, msg MsgFD, ts TimestampFD) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.channels[ch]
	if !ok {
		return fmt.Errorf("通道 0x%X 未初始化", ch)
	}
	c.rx = append(c.rx, mockFrame{msg: msg, ts: uint64(ts)})
	return nil
}

// Sent 返回通道上写出的全部报文，经典报文的 DLC 字段即数据长度
func (m *Mock) Sent(ch Handle) []MsgFD {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.channels[ch]
	if !ok {
		return nil
	}
	return append([]MsgFD(nil), c.sent...)
}

// IsInitialized 检查通道是否已初始化
func (m *Mock) IsInitialized(ch Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.channels[ch]
	return ok
}

// ============================================================================
// PCAN-Basic 接口实现
// ============================================================================

func (m *Mock) Initialize(ch Handle, btr0btr1 uint16, _ uint8, _ uint32, _ uint16) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st := m.open(ch); st != PCAN_ERROR_OK {
		return st
	}
	m.channels[ch] = &mockChannel{btr0btr1: btr0btr1}
	return PCAN_ERROR_OK
}

func (m *Mock) InitializeFD(ch Handle, bitrateFD string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bitrateFD == "" {
		return PCAN_ERROR_ILLPARAMVAL
	}
	if st := m.open(ch); st != PCAN_ERROR_OK {
		return st
	}
	m.channels[ch] = &mockChannel{fd: true, bitrateFD: bitrateFD}
	return PCAN_ERROR_OK
}

func (m *Mock) open(ch Handle) Status {
	if ch == PCAN_NONEBUS {
		return PCAN_ERROR_ILLHW
	}
	if len(m.attached) > 0 && !m.attached[ch] {
		return PCAN_ERROR_ILLHW
	}
	if _, ok := m.channels[ch]; ok {
		return PCAN_ERROR_INITIALIZE
	}
	return PCAN_ERROR_OK
}

func (m *Mock) Uninitialize(ch Handle) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.channels[ch]; !ok {
		return PCAN_ERROR_INITIALIZE
	}
	delete(m.channels, ch)
	return PCAN_ERROR_OK
}

func (m *Mock) Reset(ch Handle) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.channels[ch]
	if !ok {
		return PCAN_ERROR_INITIALIZE
	}
	c.rx = nil
	c.status = PCAN_ERROR_OK
	return PCAN_ERROR_OK
}

func (m *Mock) GetStatus(ch Handle) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.channels[ch]
	if !ok {
		return PCAN_ERROR_INITIALIZE
	}
	return c.status
}

func (m *Mock) Read(ch Handle, msg *Msg, ts *Timestamp) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, st := m.next(ch, false)
	if st != PCAN_ERROR_OK {
		return st
	}
	*msg = Msg{ID: f.msg.ID, MsgType: f.msg.MsgType, Len: f.msg.DLC}
	copy(msg.Data[:], f.msg.Data[:8])
	if ts != nil {
		millis := f.ts / 1000
		*ts = Timestamp{
			Millis:         uint32(millis),
			MillisOverflow: uint16(millis >> 32),
			Micros:         uint16(f.ts % 1000),
		}
	}
	return PCAN_ERROR_OK
}

func (m *Mock) ReadFD(ch Handle, msg *MsgFD, ts *TimestampFD) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, st := m.next(ch, true)
	if st != PCAN_ERROR_OK {
		return st
	}
	*msg = f.msg
	if ts != nil {
		*ts = TimestampFD(f.ts)
	}
	return PCAN_ERROR_OK
}

// next 取出下一条通过过滤器的报文
func (m *Mock) next(ch Handle, fd bool) (mockFrame, Status) {
	c, ok := m.channels[ch]
	if !ok {
		return mockFrame{}, PCAN_ERROR_INITIALIZE
	}
	if c.fd != fd {
		return mockFrame{}, PCAN_ERROR_ILLOPERATION
	}
	for len(c.rx) > 0 {
		f := c.rx[0]
		c.rx = c.rx[1:]
		if c.filter != nil && (f.msg.ID < c.filter[0] || f.msg.ID > c.filter[1]) {
			continue
		}
		return f, PCAN_ERROR_OK
	}
	return mockFrame{}, PCAN_ERROR_QRCVEMPTY
}

func (m *Mock) Write(ch Handle, msg *Msg) Status {
	fd := MsgFD{ID: msg.ID, MsgType: msg.MsgType, DLC: msg.Len}
	copy(fd.Data[:], msg.Data[:])
	if msg.Len > 8 {
		return PCAN_ERROR_ILLDATA
	}
	return m.write(ch, fd, false)
}

func (m *Mock) WriteFD(ch Handle, msg *MsgFD) Status {
	if msg.DLC > 15 {
		return PCAN_ERROR_ILLDATA
	}
	return m.write(ch, *msg, true)
}

func (m *Mock) write(ch Handle, msg MsgFD, fd bool) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.channels[ch]
	if !ok {
		return PCAN_ERROR_INITIALIZE
	}
	if c.fd != fd {
		return PCAN_ERROR_ILLOPERATION
	}
	c.sent = append(c.sent, msg)
	for _, r := range m.responses {
		if r.Channel != ch || r.TriggerID != msg.ID {
			continue
		}
		resp := MsgFD{ID: r.ResponseID, MsgType: msg.MsgType, DLC: uint8(len(r.Response))}
		copy(resp.Data[:], r.Response)
		c.rx = append(c.rx, mockFrame{msg: resp})
	}
	return PCAN_ERROR_OK
}

func (m *Mock) FilterMessages(ch Handle, from, to uint32, mode uint8) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.channels[ch]; !ok {
		return PCAN_ERROR_INITIALIZE
	}
	if from > to || (mode != PCAN_MODE_STANDARD && mode != PCAN_MODE_EXTENDED) {
		return PCAN_ERROR_ILLPARAMVAL
	}
	m.channels[ch].filter = &[2]uint32{from, to}
	m.store(ch, PCAN_MESSAGE_FILTER, []byte{PCAN_FILTER_CUSTOM, 0, 0, 0})
	return PCAN_ERROR_OK
}

func (m *Mock) GetValue(ch Handle, p Parameter, buf []byte) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.failures[p]; ok {
		return st
	}
	v, ok := m.values[ch][p]
	if !ok {
		v, ok = m.derived(ch, p)
	}
	if !ok {
		return PCAN_ERROR_ILLPARAMTYPE
	}
	if len(v) > len(buf) {
		return PCAN_ERROR_ILLPARAMVAL
	}
	clear(buf)
	copy(buf, v)
	return PCAN_ERROR_OK
}

// derived 返回由通道初始化参数推导出的值
func (m *Mock) derived(ch Handle, p Parameter) ([]byte, bool) {
	c, ok := m.channels[ch]
	if !ok {
		return nil, false
	}
	switch p {
	case PCAN_BITRATE_INFO:
		if c.fd {
			return nil, false
		}
		return binary.LittleEndian.AppendUint16(nil, c.btr0btr1), true
	case PCAN_BITRATE_INFO_FD:
		if !c.fd {
			return nil, false
		}
		return []byte(c.bitrateFD), true
	}
	return nil, false
}

func (m *Mock) SetValue(ch Handle, p Parameter, buf []byte) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.failures[p]; ok {
		return st
	}
	switch p {
	case PCAN_IO_DIGITAL_SET, PCAN_IO_DIGITAL_CLEAR:
		if len(buf) != 4 {
			return PCAN_ERROR_ILLPARAMVAL
		}
		mask := binary.LittleEndian.Uint32(buf)
		var cur uint32
		if v := m.values[ch][PCAN_IO_DIGITAL_VALUE]; len(v) == 4 {
			cur = binary.LittleEndian.Uint32(v)
		}
		if p == PCAN_IO_DIGITAL_SET {
			cur |= mask
		} else {
			cur &^= mask
		}
		m.store(ch, PCAN_IO_DIGITAL_VALUE, binary.LittleEndian.AppendUint32(nil, cur))
	}
	m.store(ch, p, buf)
	return PCAN_ERROR_OK
}

func (m *Mock) store(ch Handle, p Parameter, buf []byte) {
	params, ok := m.values[ch]
	if !ok {
		params = make(map[Parameter][]byte)
		m.values[ch] = params
	}
	params[p] = append([]byte{}, buf...)
}

var mockErrorText = map[Status]string{
	PCAN_ERROR_OK:           "No error",
	PCAN_ERROR_QRCVEMPTY:    "The receive queue is empty",
	PCAN_ERROR_NODRIVER:     "The driver is not loaded",
	PCAN_ERROR_ILLHW:        "The hardware handle is invalid",
	PCAN_ERROR_ILLPARAMTYPE: "The parameter is not supported",
	PCAN_ERROR_ILLPARAMVAL:  "The parameter value is invalid",
	PCAN_ERROR_INITIALIZE:   "The channel is not initialized or already in use",
	PCAN_ERROR_ILLOPERATION: "The operation is not allowed",
}

func (m *Mock) GetErrorText(s Status, _ uint16) (string, Status) {
	if text, ok := mockErrorText[s]; ok {
		return text, PCAN_ERROR_OK
	}
	return fmt.Sprintf("Undefined error 0x%X", uint32(s)), PCAN_ERROR_OK
}

func (m *Mock) LookUpChannel(params string) (Handle, Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.lookups[params]; ok {
		return h, PCAN_ERROR_OK
	}
	return PCAN_NONEBUS, PCAN_ERROR_OK
}
