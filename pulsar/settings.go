package pulsar

import "fmt"

// USB identity of the Pulsar X3. Feature reports go to interface 3 in both
// connection modes.
const (
	VendorID          = 0x3710
	ProductIDWired    = 0x3410
	ProductIDWireless = 0x5403
	InterfaceNumber   = 3
)

// DPI and stage domains enforced before any packet is sent.
const (
	MinDPI   = 50
	MaxDPI   = 26000
	MinStage = 1
	MaxStage = 6
)

// Mode tells whether the mouse is connected over the cable or the dongle.
// Battery is only meaningful in wireless mode.
type Mode int

const (
	ModeWired Mode = iota
	ModeWireless
)

func (m Mode) String() string {
	if m == ModeWireless {
		return "wireless"
	}
	return "wired"
}

// Write opcodes from the capture. Query opcodes derive via Opcode.Query
// except where the firmware uses a separate family (battery, polling rate).
var (
	opMotionSync    = Opcode{0x07, 0x05, 0x02}
	opRippleControl = Opcode{0x07, 0x03, 0x02}
	opAngleSnap     = Opcode{0x07, 0x04, 0x02}
	opLiftOff       = Opcode{0x07, 0x02, 0x03}
	opDebounce      = Opcode{0x04, 0x03, 0x03}
	opDPI           = Opcode{0x05, 0x02, 0x05}
	opStage         = Opcode{0x05, 0x01, 0x02}

	opPollingWrite = Opcode{0x01, 0x09, 0x02}
	opPollingQuery = Opcode{0x08, 0x85, 0x03}
	opBattery      = Opcode{0x08, 0x81, 0x01}
	opFirmware     = Opcode{0x01, 0x87, 0x04}
)

// boolSetting describes an on/off setting: write payload is {0x01, value}
// and the query response carries 0 or 1 at a fixed offset.
type boolSetting struct {
	name   string
	op     Opcode
	offset int
}

var (
	motionSync    = boolSetting{"motion sync", opMotionSync, 7}
	rippleControl = boolSetting{"ripple control", opRippleControl, 7}
	angleSnap     = boolSetting{"angle snap", opAngleSnap, 7}
)

func encodeBool(on bool) byte {
	if on {
		return 0x01
	}
	return 0x00
}

func decodeBool(setting string, code byte) (bool, error) {
	switch code {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, &DecodeError{Setting: setting, Code: code}
	}
}

// Lift-off distance is stored as tenths of a millimeter. Only three codes
// exist on this sensor.
var (
	liftOffCodes = map[float64]byte{
		0.7: 0x07,
		1:   0x0a,
		2:   0x14,
	}
	liftOffValues = map[byte]float64{
		0x07: 0.7,
		0x0a: 1,
		0x14: 2,
	}
)

func encodeLiftOff(mm float64) (byte, error) {
	code, ok := liftOffCodes[mm]
	if !ok {
		return 0, &InvalidValueError{
			Setting: "lift-off distance",
			Value:   fmt.Sprintf("%gmm", mm),
			Valid:   "0.7, 1 or 2 mm",
		}
	}
	return code, nil
}

func decodeLiftOff(code byte) (float64, error) {
	mm, ok := liftOffValues[code]
	if !ok {
		return 0, &DecodeError{Setting: "lift-off distance", Code: code}
	}
	return mm, nil
}

// Polling rate uses two unrelated code spaces: writes take a bit flag,
// queries answer with a divisor-like value. This asymmetry is a firmware
// quirk observed in the capture, not a codec bug. Both tables stay as-is.
var (
	pollingWriteCodes = map[int]byte{
		125:  0x40,
		250:  0x20,
		500:  0x10,
		1000: 0x08,
		2000: 0x04,
		4000: 0x02,
		8000: 0x01,
	}
	pollingQueryRates = map[byte]int{
		240: 125,
		120: 250,
		60:  500,
		30:  1000,
		15:  2000,
		8:   4000,
		4:   8000,
	}
)

func encodePollingRate(hz int) (byte, error) {
	code, ok := pollingWriteCodes[hz]
	if !ok {
		return 0, &InvalidValueError{
			Setting: "polling rate",
			Value:   fmt.Sprintf("%dHz", hz),
			Valid:   "125, 250, 500, 1000, 2000, 4000 or 8000 Hz",
		}
	}
	return code, nil
}

func decodePollingRate(code byte) (int, error) {
	hz, ok := pollingQueryRates[code]
	if !ok {
		return 0, &DecodeError{Setting: "polling rate", Code: code}
	}
	return hz, nil
}

func validateDPI(dpi int) error {
	if dpi < MinDPI || dpi > MaxDPI {
		return &InvalidValueError{
			Setting: "DPI",
			Value:   fmt.Sprintf("%d", dpi),
			Valid:   fmt.Sprintf("%d-%d", MinDPI, MaxDPI),
		}
	}
	return nil
}

func validateStage(stage int) error {
	if stage < MinStage || stage > MaxStage {
		return &InvalidValueError{
			Setting: "DPI stage",
			Value:   fmt.Sprintf("%d", stage),
			Valid:   fmt.Sprintf("%d-%d", MinStage, MaxStage),
		}
	}
	return nil
}

func validateDebounce(ms int) error {
	if ms < 0 || ms > 255 {
		return &InvalidValueError{
			Setting: "debounce",
			Value:   fmt.Sprintf("%dms", ms),
			Valid:   "0-255 ms",
		}
	}
	return nil
}
