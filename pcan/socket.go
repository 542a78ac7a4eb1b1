package pcan

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/LoveWonYoung/pcanbasic/native"
)

// socket is an initialized channel. It owns the handle until Close.
type socket struct {
	ch     channel
	closed *atomic.Bool

	identity
	bitrateInfo
	messageFilter
	receiveStatus
	frameKinds
	acceptanceFilters
	tracing
	busBehavior
}

func newSocket(ch channel) socket {
	return socket{
		ch:                ch,
		closed:            new(atomic.Bool),
		identity:          identity{ch},
		bitrateInfo:       bitrateInfo{ch},
		messageFilter:     messageFilter{ch},
		receiveStatus:     receiveStatus{ch},
		frameKinds:        frameKinds{ch},
		acceptanceFilters: acceptanceFilters{ch},
		tracing:           tracing{ch},
		busBehavior:       busBehavior{ch},
	}
}

// NonPnP describes non plug-and-play hardware (ISA cards, parallel port
// dongles). Plug-and-play channels are initialized with the zero value.
type NonPnP struct {
	Type      uint8
	IOPort    uint32
	Interrupt uint16
}

func initialize(h native.Handle, b Baudrate, hw NonPnP) (channel, error) {
	st := Library().Initialize(h, uint16(b), hw.Type, hw.IOPort, hw.Interrupt)
	if err := errorFromStatus(st); err != nil {
		return channel{}, fmt.Errorf("initialize %s: %w", busName(h), err)
	}
	log.Debug().Str("bus", busName(h)).Stringer("baudrate", b).Msg("channel initialized")
	return channel{h}, nil
}

func initializeFD(h native.Handle, br BitrateFD) (channel, error) {
	if br == "" {
		return channel{}, fmt.Errorf("initialize %s: empty FD bit rate: %w", busName(h), ErrIllParamVal)
	}
	if err := errorFromStatus(Library().InitializeFD(h, string(br))); err != nil {
		return channel{}, fmt.Errorf("initialize %s: %w", busName(h), err)
	}
	log.Debug().Str("bus", busName(h)).Str("bitrate", string(br)).Msg("FD channel initialized")
	return channel{h}, nil
}

func (s *socket) Handle() native.Handle { return s.ch.handle }

func (s *socket) String() string { return busName(s.ch.handle) }

// Close uninitializes the channel. Calling it again is a no-op.
func (s *socket) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	err := errorFromStatus(Library().Uninitialize(s.ch.handle))
	log.Debug().Str("bus", busName(s.ch.handle)).Err(err).Msg("channel uninitialized")
	return err
}

// Reset clears the receive and transmit queues.
func (s *socket) Reset() error {
	return errorFromStatus(Library().Reset(s.ch.handle))
}

// Status returns nil while the bus is fine, otherwise the bus error.
func (s *socket) Status() error {
	return errorFromStatus(Library().GetStatus(s.ch.handle))
}

// Read takes one frame from the receive queue. ErrQrcvEmpty means no frame
// is waiting.
func (s *socket) Read() (CanFrame, Timestamp, error) {
	var msg native.Msg
	var ts native.Timestamp
	if err := errorFromStatus(Library().Read(s.ch.handle, &msg, &ts)); err != nil {
		return CanFrame{}, Timestamp{}, err
	}
	return canFrameFromMsg(msg), Timestamp(ts), nil
}

// ReadFrame is Read without the timestamp.
func (s *socket) ReadFrame() (CanFrame, error) {
	f, _, err := s.Read()
	return f, err
}

func (s *socket) Write(f CanFrame) error {
	msg := f.msg
	return errorFromStatus(Library().Write(s.ch.handle, &msg))
}

// fdIO is frame I/O on channels initialized with a BitrateFD.
type fdIO struct {
	ch channel
	bitrateInfoFD
}

// ReadFD takes one frame from the receive queue together with its timestamp
// in microseconds.
func (f fdIO) ReadFD() (CanFdFrame, uint64, error) {
	var msg native.MsgFD
	var ts native.TimestampFD
	if err := errorFromStatus(Library().ReadFD(f.ch.handle, &msg, &ts)); err != nil {
		return CanFdFrame{}, 0, err
	}
	return canFdFrameFromMsg(msg), uint64(ts), nil
}

func (f fdIO) ReadFrameFD() (CanFdFrame, error) {
	frame, _, err := f.ReadFD()
	return frame, err
}

func (f fdIO) WriteFD(frame CanFdFrame) error {
	msg := frame.msg
	return errorFromStatus(Library().WriteFD(f.ch.handle, &msg))
}

func newFDIO(ch channel) fdIO { return fdIO{ch, bitrateInfoFD{ch}} }

// IsaCanSocket is an initialized PCAN-ISA channel.
type IsaCanSocket struct {
	socket
	fiveVolts
}

func OpenIsaCanSocket(bus IsaBus, b Baudrate) (*IsaCanSocket, error) {
	return OpenIsaCanSocketNonPnP(bus, b, NonPnP{})
}

func OpenIsaCanSocketNonPnP(bus IsaBus, b Baudrate, hw NonPnP) (*IsaCanSocket, error) {
	ch, err := initialize(bus.Handle(), b, hw)
	if err != nil {
		return nil, err
	}
	return &IsaCanSocket{newSocket(ch), fiveVolts{ch}}, nil
}

// DngCanSocket is an initialized PCAN-Dongle channel.
type DngCanSocket struct {
	socket
	controllerNumberWriter
}

func OpenDngCanSocket(bus DngBus, b Baudrate) (*DngCanSocket, error) {
	return OpenDngCanSocketNonPnP(bus, b, NonPnP{})
}

func OpenDngCanSocketNonPnP(bus DngBus, b Baudrate, hw NonPnP) (*DngCanSocket, error) {
	ch, err := initialize(bus.Handle(), b, hw)
	if err != nil {
		return nil, err
	}
	return &DngCanSocket{newSocket(ch), controllerNumberWriter{ch}}, nil
}

// PciCanSocket is an initialized PCAN-PCI channel.
type PciCanSocket struct {
	socket
	fdIO
	deviceID
	deviceIDWriter
	interframeDelay
}

func newPciCanSocket(ch channel) *PciCanSocket {
	return &PciCanSocket{newSocket(ch), newFDIO(ch), deviceID{ch}, deviceIDWriter{ch}, interframeDelay{ch}}
}

func OpenPciCanSocket(bus PciBus, b Baudrate) (*PciCanSocket, error) {
	ch, err := initialize(bus.Handle(), b, NonPnP{})
	if err != nil {
		return nil, err
	}
	return newPciCanSocket(ch), nil
}

func OpenPciCanSocketFD(bus PciBus, br BitrateFD) (*PciCanSocket, error) {
	ch, err := initializeFD(bus.Handle(), br)
	if err != nil {
		return nil, err
	}
	return newPciCanSocket(ch), nil
}

// UsbCanSocket is an initialized PCAN-USB channel.
type UsbCanSocket struct {
	socket
	fdIO
	deviceID
	deviceIDWriter
	identifying
	fiveVolts
	interframeDelay
	echoFrames
	digitalIO
}

func newUsbCanSocket(ch channel) *UsbCanSocket {
	return &UsbCanSocket{
		socket:          newSocket(ch),
		fdIO:            newFDIO(ch),
		deviceID:        deviceID{ch},
		deviceIDWriter:  deviceIDWriter{ch},
		identifying:     identifying{ch},
		fiveVolts:       fiveVolts{ch},
		interframeDelay: interframeDelay{ch},
		echoFrames:      echoFrames{ch},
		digitalIO:       digitalIO{ch},
	}
}

func OpenUsbCanSocket(bus UsbBus, b Baudrate) (*UsbCanSocket, error) {
	ch, err := initialize(bus.Handle(), b, NonPnP{})
	if err != nil {
		return nil, err
	}
	return newUsbCanSocket(ch), nil
}

func OpenUsbCanSocketFD(bus UsbBus, br BitrateFD) (*UsbCanSocket, error) {
	ch, err := initializeFD(bus.Handle(), br)
	if err != nil {
		return nil, err
	}
	return newUsbCanSocket(ch), nil
}

// PccCanSocket is an initialized PCAN-PC Card channel.
type PccCanSocket struct {
	socket
	controllerNumberWriter
	fiveVolts
}

func OpenPccCanSocket(bus PccBus, b Baudrate) (*PccCanSocket, error) {
	ch, err := initialize(bus.Handle(), b, NonPnP{})
	if err != nil {
		return nil, err
	}
	return &PccCanSocket{newSocket(ch), controllerNumberWriter{ch}, fiveVolts{ch}}, nil
}

// LanCanSocket is an initialized PCAN-LAN channel.
type LanCanSocket struct {
	socket
	fdIO
	deviceID
	deviceIDWriter
	controllerNumberWriter
	echoFrames
	ipAddress
}

func newLanCanSocket(ch channel) *LanCanSocket {
	return &LanCanSocket{
		socket:                 newSocket(ch),
		fdIO:                   newFDIO(ch),
		deviceID:               deviceID{ch},
		deviceIDWriter:         deviceIDWriter{ch},
		controllerNumberWriter: controllerNumberWriter{ch},
		echoFrames:             echoFrames{ch},
		ipAddress:              ipAddress{ch},
	}
}

func OpenLanCanSocket(bus LanBus, b Baudrate) (*LanCanSocket, error) {
	ch, err := initialize(bus.Handle(), b, NonPnP{})
	if err != nil {
		return nil, err
	}
	return newLanCanSocket(ch), nil
}

func OpenLanCanSocketFD(bus LanBus, br BitrateFD) (*LanCanSocket, error) {
	ch, err := initializeFD(bus.Handle(), br)
	if err != nil {
		return nil, err
	}
	return newLanCanSocket(ch), nil
}

// CanSocket is an initialized channel of any bus kind, for code that picks
// the bus at run time. It exposes the accessors common to all sockets.
type CanSocket struct {
	socket
	fdIO
}

func OpenCanSocket(bus Bus, b Baudrate) (*CanSocket, error) {
	ch, err := initialize(bus.Handle(), b, NonPnP{})
	if err != nil {
		return nil, err
	}
	return &CanSocket{newSocket(ch), newFDIO(ch)}, nil
}

func OpenCanSocketFD(bus Bus, br BitrateFD) (*CanSocket, error) {
	ch, err := initializeFD(bus.Handle(), br)
	if err != nil {
		return nil, err
	}
	return &CanSocket{newSocket(ch), newFDIO(ch)}, nil
}
