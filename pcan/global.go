package pcan

import (
	"fmt"
	"strings"

	"github.com/LoveWonYoung/pcanbasic/native"
)

// APIVersion returns the version of the loaded PCAN-Basic library.
func APIVersion() (string, error) {
	return noneBus.getString(native.PCAN_API_VERSION, native.MAX_LENGTH_VERSION_STRING)
}

// LogLocation returns the directory of the library's debug log.
func LogLocation() (string, error) {
	return noneBus.getString(native.PCAN_LOG_LOCATION, native.MAX_LENGTH_VERSION_STRING)
}

func SetLogLocation(dir string) error {
	return noneBus.setString(native.PCAN_LOG_LOCATION, dir)
}

// SetDefaultLogLocation restores the directory of the calling process.
func SetDefaultLogLocation() error {
	return noneBus.setString(native.PCAN_LOG_LOCATION, "")
}

func IsLogging() (bool, error) {
	return noneBus.getStrictBool(native.PCAN_LOG_STATUS)
}

func SetLogging(on bool) error {
	return noneBus.setBool(native.PCAN_LOG_STATUS, on)
}

func LogConfiguration() (LogFunction, error) {
	v, err := noneBus.getUint32(native.PCAN_LOG_CONFIGURE)
	return LogFunction(v), err
}

func ConfigureLog(f LogFunction) error {
	return noneBus.setUint32(native.PCAN_LOG_CONFIGURE, uint32(f))
}

// LogText writes a line of text into the library's debug log.
func LogText(text string) error {
	if text == "" {
		return nil
	}
	return noneBus.setString(native.PCAN_LOG_TEXT, text)
}

func AttachedChannelsCount() (uint32, error) {
	return noneBus.getUint32(native.PCAN_ATTACHED_CHANNELS_COUNT)
}

// AttachedChannels lists the channels the drivers currently see.
func AttachedChannels() ([]ChannelInformation, error) {
	n, err := AttachedChannelsCount()
	if err != nil || n == 0 {
		return nil, err
	}
	buf := make([]byte, int(n)*native.ChannelInformationSize)
	if err := noneBus.getValue(native.PCAN_ATTACHED_CHANNELS, buf); err != nil {
		return nil, err
	}
	infos := make([]ChannelInformation, 0, n)
	for off := 0; off < len(buf); off += native.ChannelInformationSize {
		ci, err := decodeChannelInformation(buf[off : off+native.ChannelInformationSize])
		if err != nil {
			return nil, err
		}
		infos = append(infos, ci)
	}
	return infos, nil
}

func lanServiceStatus() (uint32, error) {
	return noneBus.getUint32(native.PCAN_LAN_SERVICE_STATUS)
}

// LanServiceIsRunning reports whether the PCAN-LAN virtual driver service runs.
func LanServiceIsRunning() (bool, error) {
	v, err := lanServiceStatus()
	return v == native.SERVICE_STATUS_RUNNING, err
}

func LanServiceIsStopped() (bool, error) {
	v, err := lanServiceStatus()
	return v == native.SERVICE_STATUS_STOPPED, err
}

// LookUp selects a channel by its hardware properties. Empty fields are
// ignored.
type LookUp struct {
	DeviceType       string
	DeviceID         string
	ControllerNumber string
	IPAddress        string
}

func (l LookUp) String() string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+value)
		}
	}
	add("devicetype", l.DeviceType)
	add("deviceid", l.DeviceID)
	add("controllernumber", l.ControllerNumber)
	add("ipaddress", l.IPAddress)
	return strings.Join(parts, ", ")
}

// LookUpChannel finds the channel matching l.
func LookUpChannel(l LookUp) (Bus, error) {
	h, st := Library().LookUpChannel(l.String())
	if err := errorFromStatus(st); err != nil {
		return nil, err
	}
	bus, ok := BusFromHandle(h)
	if !ok {
		return nil, fmt.Errorf("pcan: no channel matches %q: %w", l.String(), ErrIllHw)
	}
	return bus, nil
}
