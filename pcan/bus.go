package pcan

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/LoveWonYoung/pcanbasic/native"
)

// Bus is a PCAN channel that may or may not be initialized.
type Bus interface {
	Handle() native.Handle
	String() string
}

// busBase carries the accessors every bus kind supports.
type busBase struct {
	ch channel
	condition
	identity
	receiveStatus
}

func newBusBase(h native.Handle) busBase {
	ch := channel{h}
	return busBase{ch, condition{ch}, identity{ch}, receiveStatus{ch}}
}

func (b busBase) Handle() native.Handle { return b.ch.handle }

func (b busBase) String() string { return busName(b.ch.handle) }

// IsaBus is a PCAN-ISA channel.
type IsaBus struct {
	busBase
}

// DngBus is a PCAN-Dongle channel.
type DngBus struct {
	busBase
}

// PciBus is a PCAN-PCI channel.
type PciBus struct {
	busBase
	deviceID
}

// UsbBus is a PCAN-USB channel.
type UsbBus struct {
	busBase
	identifying
	deviceID
}

// PccBus is a PCAN-PC Card channel.
type PccBus struct {
	busBase
}

// LanBus is a PCAN-LAN channel, served by the PCAN-Gateway virtual driver.
type LanBus struct {
	busBase
	deviceID
	ipAddress
}

func newIsaBus(h native.Handle) IsaBus { return IsaBus{newBusBase(h)} }

func newDngBus(h native.Handle) DngBus { return DngBus{newBusBase(h)} }

func newPciBus(h native.Handle) PciBus {
	return PciBus{newBusBase(h), deviceID{channel{h}}}
}

func newUsbBus(h native.Handle) UsbBus {
	return UsbBus{newBusBase(h), identifying{channel{h}}, deviceID{channel{h}}}
}

func newPccBus(h native.Handle) PccBus { return PccBus{newBusBase(h)} }

func newLanBus(h native.Handle) LanBus {
	return LanBus{newBusBase(h), deviceID{channel{h}}, ipAddress{channel{h}}}
}

var (
	ISA1 = newIsaBus(native.PCAN_ISABUS1)
	ISA2 = newIsaBus(native.PCAN_ISABUS2)
	ISA3 = newIsaBus(native.PCAN_ISABUS3)
	ISA4 = newIsaBus(native.PCAN_ISABUS4)
	ISA5 = newIsaBus(native.PCAN_ISABUS5)
	ISA6 = newIsaBus(native.PCAN_ISABUS6)
	ISA7 = newIsaBus(native.PCAN_ISABUS7)
	ISA8 = newIsaBus(native.PCAN_ISABUS8)

	DNG1 = newDngBus(native.PCAN_DNGBUS1)

	PCI1  = newPciBus(native.PCAN_PCIBUS1)
	PCI2  = newPciBus(native.PCAN_PCIBUS2)
	PCI3  = newPciBus(native.PCAN_PCIBUS3)
	PCI4  = newPciBus(native.PCAN_PCIBUS4)
	PCI5  = newPciBus(native.PCAN_PCIBUS5)
	PCI6  = newPciBus(native.PCAN_PCIBUS6)
	PCI7  = newPciBus(native.PCAN_PCIBUS7)
	PCI8  = newPciBus(native.PCAN_PCIBUS8)
	PCI9  = newPciBus(native.PCAN_PCIBUS9)
	PCI10 = newPciBus(native.PCAN_PCIBUS10)
	PCI11 = newPciBus(native.PCAN_PCIBUS11)
	PCI12 = newPciBus(native.PCAN_PCIBUS12)
	PCI13 = newPciBus(native.PCAN_PCIBUS13)
	PCI14 = newPciBus(native.PCAN_PCIBUS14)
	PCI15 = newPciBus(native.PCAN_PCIBUS15)
	PCI16 = newPciBus(native.PCAN_PCIBUS16)

	USB1  = newUsbBus(native.PCAN_USBBUS1)
	USB2  = newUsbBus(native.PCAN_USBBUS2)
	USB3  = newUsbBus(native.PCAN_USBBUS3)
	USB4  = newUsbBus(native.PCAN_USBBUS4)
	USB5  = newUsbBus(native.PCAN_USBBUS5)
	USB6  = newUsbBus(native.PCAN_USBBUS6)
	USB7  = newUsbBus(native.PCAN_USBBUS7)
	USB8  = newUsbBus(native.PCAN_USBBUS8)
	USB9  = newUsbBus(native.PCAN_USBBUS9)
	USB10 = newUsbBus(native.PCAN_USBBUS10)
	USB11 = newUsbBus(native.PCAN_USBBUS11)
	USB12 = newUsbBus(native.PCAN_USBBUS12)
	USB13 = newUsbBus(native.PCAN_USBBUS13)
	USB14 = newUsbBus(native.PCAN_USBBUS14)
	USB15 = newUsbBus(native.PCAN_USBBUS15)
	USB16 = newUsbBus(native.PCAN_USBBUS16)

	PCC1 = newPccBus(native.PCAN_PCCBUS1)
	PCC2 = newPccBus(native.PCAN_PCCBUS2)

	LAN1  = newLanBus(native.PCAN_LANBUS1)
	LAN2  = newLanBus(native.PCAN_LANBUS2)
	LAN3  = newLanBus(native.PCAN_LANBUS3)
	LAN4  = newLanBus(native.PCAN_LANBUS4)
	LAN5  = newLanBus(native.PCAN_LANBUS5)
	LAN6  = newLanBus(native.PCAN_LANBUS6)
	LAN7  = newLanBus(native.PCAN_LANBUS7)
	LAN8  = newLanBus(native.PCAN_LANBUS8)
	LAN9  = newLanBus(native.PCAN_LANBUS9)
	LAN10 = newLanBus(native.PCAN_LANBUS10)
	LAN11 = newLanBus(native.PCAN_LANBUS11)
	LAN12 = newLanBus(native.PCAN_LANBUS12)
	LAN13 = newLanBus(native.PCAN_LANBUS13)
	LAN14 = newLanBus(native.PCAN_LANBUS14)
	LAN15 = newLanBus(native.PCAN_LANBUS15)
	LAN16 = newLanBus(native.PCAN_LANBUS16)
)

type busKind struct {
	prefix  string
	handles []native.Handle
	bus     func(native.Handle) Bus
}

var busKinds = []busKind{
	{"isa", []native.Handle{
		native.PCAN_ISABUS1, native.PCAN_ISABUS2, native.PCAN_ISABUS3, native.PCAN_ISABUS4,
		native.PCAN_ISABUS5, native.PCAN_ISABUS6, native.PCAN_ISABUS7, native.PCAN_ISABUS8,
	}, func(h native.Handle) Bus { return newIsaBus(h) }},
	{"dng", []native.Handle{
		native.PCAN_DNGBUS1,
	}, func(h native.Handle) Bus { return newDngBus(h) }},
	{"pci", []native.Handle{
		native.PCAN_PCIBUS1, native.PCAN_PCIBUS2, native.PCAN_PCIBUS3, native.PCAN_PCIBUS4,
		native.PCAN_PCIBUS5, native.PCAN_PCIBUS6, native.PCAN_PCIBUS7, native.PCAN_PCIBUS8,
		native.PCAN_PCIBUS9, native.PCAN_PCIBUS10, native.PCAN_PCIBUS11, native.PCAN_PCIBUS12,
		native.PCAN_PCIBUS13, native.PCAN_PCIBUS14, native.PCAN_PCIBUS15, native.PCAN_PCIBUS16,
	}, func(h native.Handle) Bus { return newPciBus(h) }},
	{"usb", []native.Handle{
		native.PCAN_USBBUS1, native.PCAN_USBBUS2, native.PCAN_USBBUS3, native.PCAN_USBBUS4,
		native.PCAN_USBBUS5, native.PCAN_USBBUS6, native.PCAN_USBBUS7, native.PCAN_USBBUS8,
		native.PCAN_USBBUS9, native.PCAN_USBBUS10, native.PCAN_USBBUS11, native.PCAN_USBBUS12,
		native.PCAN_USBBUS13, native.PCAN_USBBUS14, native.PCAN_USBBUS15, native.PCAN_USBBUS16,
	}, func(h native.Handle) Bus { return newUsbBus(h) }},
	{"pcc", []native.Handle{
		native.PCAN_PCCBUS1, native.PCAN_PCCBUS2,
	}, func(h native.Handle) Bus { return newPccBus(h) }},
	{"lan", []native.Handle{
		native.PCAN_LANBUS1, native.PCAN_LANBUS2, native.PCAN_LANBUS3, native.PCAN_LANBUS4,
		native.PCAN_LANBUS5, native.PCAN_LANBUS6, native.PCAN_LANBUS7, native.PCAN_LANBUS8,
		native.PCAN_LANBUS9, native.PCAN_LANBUS10, native.PCAN_LANBUS11, native.PCAN_LANBUS12,
		native.PCAN_LANBUS13, native.PCAN_LANBUS14, native.PCAN_LANBUS15, native.PCAN_LANBUS16,
	}, func(h native.Handle) Bus { return newLanBus(h) }},
}

func busName(h native.Handle) string {
	for _, k := range busKinds {
		if i := slices.Index(k.handles, h); i >= 0 {
			return k.prefix + strconv.Itoa(i+1)
		}
	}
	return fmt.Sprintf("handle(0x%X)", uint16(h))
}

// BusFromHandle returns the bus of a native handle, e.g. one reported in
// ChannelInformation or by LookUpChannel.
func BusFromHandle(h native.Handle) (Bus, bool) {
	for _, k := range busKinds {
		if slices.Contains(k.handles, h) {
			return k.bus(h), true
		}
	}
	return nil, false
}

// ParseBus accepts "usb1", "USB1" and "PCAN_USBBUS1" style names.
func ParseBus(name string) (Bus, error) {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "pcan_")
	for _, k := range busKinds {
		if !strings.HasPrefix(s, k.prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimPrefix(s, k.prefix), "bus"))
		if err != nil || n < 1 || n > len(k.handles) {
			break
		}
		return k.bus(k.handles[n-1]), nil
	}
	return nil, fmt.Errorf("pcan: unknown bus %q", name)
}
