package pcan

import (
	"fmt"
	"strings"

	"github.com/LoveWonYoung/pcanbasic/native"
)

// Baudrate is a BTR0BTR1 register value for classic CAN.
type Baudrate uint16

const (
	Baud1M   Baudrate = native.PCAN_BAUD_1M
	Baud800K Baudrate = native.PCAN_BAUD_800K
	Baud500K Baudrate = native.PCAN_BAUD_500K
	Baud250K Baudrate = native.PCAN_BAUD_250K
	Baud125K Baudrate = native.PCAN_BAUD_125K
	Baud100K Baudrate = native.PCAN_BAUD_100K
	Baud95K  Baudrate = native.PCAN_BAUD_95K
	Baud83K  Baudrate = native.PCAN_BAUD_83K
	Baud50K  Baudrate = native.PCAN_BAUD_50K
	Baud47K  Baudrate = native.PCAN_BAUD_47K
	Baud33K  Baudrate = native.PCAN_BAUD_33K
	Baud20K  Baudrate = native.PCAN_BAUD_20K
	Baud10K  Baudrate = native.PCAN_BAUD_10K
	Baud5K   Baudrate = native.PCAN_BAUD_5K
)

var baudrateNames = []struct {
	name string
	rate Baudrate
}{
	{"1M", Baud1M},
	{"800K", Baud800K},
	{"500K", Baud500K},
	{"250K", Baud250K},
	{"125K", Baud125K},
	{"100K", Baud100K},
	{"95K", Baud95K},
	{"83K", Baud83K},
	{"50K", Baud50K},
	{"47K", Baud47K},
	{"33K", Baud33K},
	{"20K", Baud20K},
	{"10K", Baud10K},
	{"5K", Baud5K},
}

// ParseBaudrate parses names such as "500k" or "1M".
func ParseBaudrate(s string) (Baudrate, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, b := range baudrateNames {
		if b.name == s {
			return b.rate, nil
		}
	}
	return 0, fmt.Errorf("pcan: unknown baud rate %q", s)
}

func (b Baudrate) String() string {
	for _, n := range baudrateNames {
		if n.rate == b {
			return n.name
		}
	}
	return fmt.Sprintf("BTR0BTR1=0x%04X", uint16(b))
}

// BitrateFD is a PCAN-Basic FD bit rate string, e.g.
// "f_clock_mhz=80, nom_brp=2, nom_tseg1=63, nom_tseg2=16, nom_sjw=16, data_brp=4, data_tseg1=7, data_tseg2=2, data_sjw=2".
type BitrateFD string

// TimingFD holds the nominal and data phase timing of a CAN-FD channel.
type TimingFD struct {
	ClockMHz  uint32
	NomBRP    uint32
	NomTSeg1  uint32
	NomTSeg2  uint32
	NomSJW    uint32
	DataBRP   uint32
	DataTSeg1 uint32
	DataTSeg2 uint32
	DataSJW   uint32
}

// Bitrate500K2M is 500 kbit/s nominal, 2 Mbit/s data at 80 MHz.
var Bitrate500K2M = TimingFD{
	ClockMHz: 80,
	NomBRP:   2, NomTSeg1: 63, NomTSeg2: 16, NomSJW: 16,
	DataBRP: 2, DataTSeg1: 15, DataTSeg2: 4, DataSJW: 4,
}.Bitrate()

// Bitrate renders the timing in the library's string format.
func (t TimingFD) Bitrate() BitrateFD {
	return BitrateFD(fmt.Sprintf(
		"f_clock_mhz=%d, nom_brp=%d, nom_tseg1=%d, nom_tseg2=%d, nom_sjw=%d, data_brp=%d, data_tseg1=%d, data_tseg2=%d, data_sjw=%d",
		t.ClockMHz, t.NomBRP, t.NomTSeg1, t.NomTSeg2, t.NomSJW, t.DataBRP, t.DataTSeg1, t.DataTSeg2, t.DataSJW))
}

// NominalBitrate returns the arbitration phase bit rate in bit/s.
func (t TimingFD) NominalBitrate() uint32 {
	return bitrate(t.ClockMHz, t.NomBRP, t.NomTSeg1, t.NomTSeg2)
}

// DataBitrate returns the data phase bit rate in bit/s.
func (t TimingFD) DataBitrate() uint32 {
	return bitrate(t.ClockMHz, t.DataBRP, t.DataTSeg1, t.DataTSeg2)
}

func bitrate(clockMHz, brp, tseg1, tseg2 uint32) uint32 {
	if brp == 0 {
		return 0
	}
	return clockMHz * 1_000_000 / (brp * (1 + tseg1 + tseg2))
}
