package pulsar

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type options struct {
	timeout time.Duration
	settle  time.Duration
	log     *zap.Logger
}

// Option adjusts a device session.
type Option func(*options)

// WithTimeout overrides the per-transfer deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLogger enables debug logging of transfers.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Device is an open session with the mouse. It owns the HID handle for its
// lifetime; Close releases it. Sessions are synchronous: one command is in
// flight at a time and no state is kept between invocations.
type Device struct {
	tr     Transport
	mode   Mode
	info   *DeviceInfo
	settle time.Duration
	log    *zap.Logger
}

// Open claims the feature-report interface of a discovered mouse.
func Open(info *DeviceInfo, opts ...Option) (*Device, error) {
	o := options{
		timeout: DefaultTimeout,
		settle:  settleDelay,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if accessDenied(info.Path) {
		return nil, fmt.Errorf("%w: %s (install a udev rule for vendor %04x)", ErrPermission, info.Path, VendorID)
	}

	tr, err := openTransport(info.Path, o.timeout, o.log)
	if err != nil {
		return nil, err
	}

	o.log.Debug("session opened",
		zap.String("path", info.Path),
		zap.Stringer("mode", info.Mode))

	return &Device{
		tr:     tr,
		mode:   info.Mode,
		info:   info,
		settle: o.settle,
		log:    o.log,
	}, nil
}

// Connect discovers the mouse and opens a session in one step.
func Connect(opts ...Option) (*Device, error) {
	info, err := Discover()
	if err != nil {
		return nil, err
	}
	return Open(info, opts...)
}

// Close releases the HID handle. Safe to call on all exit paths.
func (d *Device) Close() error {
	return d.tr.Close()
}

// Mode reports whether the session runs over the cable or the dongle.
func (d *Device) Mode() Mode {
	return d.mode
}

// DongleFirmware returns the receiver firmware from the USB descriptor.
// Only meaningful in wireless mode.
func (d *Device) DongleFirmware() string {
	return fmt.Sprintf("%04x", d.info.Release)
}

func (d *Device) write(op Opcode, payload []byte) error {
	packet, err := BuildPacket(op, payload)
	if err != nil {
		return err
	}
	return d.tr.Send(packet)
}

func (d *Device) roundTrip(packet []byte) ([]byte, error) {
	if err := d.tr.Send(packet); err != nil {
		return nil, err
	}
	if d.settle > 0 {
		time.Sleep(d.settle)
	}
	return d.tr.Receive()
}

// query sends a query packet and reads the response, retrying once on a
// timeout since the wireless link drops the odd feature report.
func (d *Device) query(setting string, op Opcode) ([]byte, error) {
	packet, err := BuildPacket(op, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.roundTrip(packet)
	if errors.Is(err, ErrTimeout) {
		d.log.Debug("query timed out, retrying once", zap.String("setting", setting))
		resp, err = d.roundTrip(packet)
	}
	return resp, err
}

func (d *Device) queryByte(setting string, op Opcode, offset int) (byte, error) {
	resp, err := d.query(setting, op)
	if err != nil {
		return 0, err
	}
	if len(resp) <= offset {
		return 0, &DecodeError{
			Setting: setting,
			Reason:  fmt.Sprintf("response too short (%d bytes)", len(resp)),
		}
	}
	return resp[offset], nil
}

func (d *Device) setBool(s boolSetting, on bool) error {
	return d.write(s.op, []byte{0x01, encodeBool(on)})
}

func (d *Device) getBool(s boolSetting) (bool, error) {
	code, err := d.queryByte(s.name, s.op.Query(), s.offset)
	if err != nil {
		return false, err
	}
	return decodeBool(s.name, code)
}

// SetMotionSync enables or disables sensor motion sync.
func (d *Device) SetMotionSync(on bool) error {
	return d.setBool(motionSync, on)
}

// MotionSync reads the current motion sync state.
func (d *Device) MotionSync() (bool, error) {
	return d.getBool(motionSync)
}

// SetAngleSnap enables or disables angle snapping.
func (d *Device) SetAngleSnap(on bool) error {
	return d.setBool(angleSnap, on)
}

// AngleSnap reads the current angle snapping state.
func (d *Device) AngleSnap() (bool, error) {
	return d.getBool(angleSnap)
}

// SetRippleControl enables or disables ripple control.
func (d *Device) SetRippleControl(on bool) error {
	return d.setBool(rippleControl, on)
}

// RippleControl reads the current ripple control state.
func (d *Device) RippleControl() (bool, error) {
	return d.getBool(rippleControl)
}

// SetLiftOffDistance sets the lift-off distance. The sensor supports
// 0.7, 1 and 2 mm.
func (d *Device) SetLiftOffDistance(mm float64) error {
	code, err := encodeLiftOff(mm)
	if err != nil {
		return err
	}
	return d.write(opLiftOff, []byte{0x01, 0x02, code})
}

// LiftOffDistance reads the lift-off distance in millimeters.
func (d *Device) LiftOffDistance() (float64, error) {
	code, err := d.queryByte("lift-off distance", opLiftOff.Query(), 8)
	if err != nil {
		return 0, err
	}
	return decodeLiftOff(code)
}

// SetDebounce sets the button debounce time in milliseconds.
func (d *Device) SetDebounce(ms int) error {
	if err := validateDebounce(ms); err != nil {
		return err
	}
	return d.write(opDebounce, []byte{0x01, byte(ms)})
}

// Debounce reads the button debounce time in milliseconds.
func (d *Device) Debounce() (int, error) {
	code, err := d.queryByte("debounce", opDebounce.Query(), 7)
	if err != nil {
		return 0, err
	}
	return int(code), nil
}

// SetDPI sets the sensitivity of the active stage. X and Y always move
// together; the firmware takes both but the tool writes them identical.
func (d *Device) SetDPI(dpi int) error {
	if err := validateDPI(dpi); err != nil {
		return err
	}
	payload := make([]byte, 5)
	payload[0] = 0x01
	binary.LittleEndian.PutUint16(payload[1:], uint16(dpi))
	binary.LittleEndian.PutUint16(payload[3:], uint16(dpi))
	return d.write(opDPI, payload)
}

// DPI reads the X and Y sensitivity of the active stage.
func (d *Device) DPI() (x, y int, err error) {
	resp, err := d.query("DPI", opDPI.Query())
	if err != nil {
		return 0, 0, err
	}
	if len(resp) < 11 {
		return 0, 0, &DecodeError{
			Setting: "DPI",
			Reason:  fmt.Sprintf("response too short (%d bytes)", len(resp)),
		}
	}
	x = int(binary.LittleEndian.Uint16(resp[7:9]))
	y = int(binary.LittleEndian.Uint16(resp[9:11]))
	return x, y, nil
}

// SetStage switches the active DPI stage (1-6), like pressing the DPI
// button on the mouse.
func (d *Device) SetStage(stage int) error {
	if err := validateStage(stage); err != nil {
		return err
	}
	return d.write(opStage, []byte{0x01, byte(stage)})
}

// Stage reads the active DPI stage.
func (d *Device) Stage() (int, error) {
	code, err := d.queryByte("DPI stage", opStage.Query(), 7)
	if err != nil {
		return 0, err
	}
	if code < MinStage || code > MaxStage {
		return 0, &DecodeError{Setting: "DPI stage", Code: code}
	}
	return int(code), nil
}

// Battery reads the charge percentage. Only available in wireless mode;
// over the cable there is no battery to report and the call fails with
// UnsupportedInModeError before any transfer.
func (d *Device) Battery() (int, error) {
	if d.mode != ModeWireless {
		return 0, &UnsupportedInModeError{Setting: "battery", Mode: d.mode}
	}
	code, err := d.queryByte("battery", opBattery, 6)
	if err != nil {
		return 0, err
	}
	return int(code), nil
}

// SetPollingRate requests a new report rate in Hz.
//
// Known firmware quirk: on the captured firmware this command is accepted
// but has no observable effect. It is exposed as documented behavior and
// reported normally; callers should not rely on it and should re-query.
func (d *Device) SetPollingRate(hz int) error {
	code, err := encodePollingRate(hz)
	if err != nil {
		return err
	}
	return d.write(opPollingWrite, []byte{0x01, code})
}

// PollingRate reads the report rate in Hz. The query answers in a code
// space unrelated to the write codes and does not always reflect the
// actual rate; treat the value as informational.
func (d *Device) PollingRate() (int, error) {
	code, err := d.queryByte("polling rate", opPollingQuery, 7)
	if err != nil {
		return 0, err
	}
	return decodePollingRate(code)
}

// FirmwareVersion reads the mouse firmware version, rendered the way the
// vendor software shows it.
func (d *Device) FirmwareVersion() (string, error) {
	resp, err := d.query("firmware version", opFirmware)
	if err != nil {
		return "", err
	}
	if len(resp) < 8 {
		return "", &DecodeError{
			Setting: "firmware version",
			Reason:  fmt.Sprintf("response too short (%d bytes)", len(resp)),
		}
	}
	return fmt.Sprintf("00.00.%02x.%02x", resp[7], resp[6]), nil
}

// Info is a snapshot of every readable setting.
type Info struct {
	Mode           Mode
	DongleFirmware string
	Firmware       string
	DPIX           int
	DPIY           int
	Stage          int
	MotionSync     bool
	LiftOff        float64
	AngleSnap      bool
	RippleControl  bool
	DebounceMs     int

	// Battery is -1 in wired mode.
	Battery int

	// PollingRate is 0 when the query code is unknown; the value is
	// unreliable either way.
	PollingRate int
}

// ReadInfo queries every setting in one pass.
func (d *Device) ReadInfo() (*Info, error) {
	info := &Info{
		Mode:           d.mode,
		DongleFirmware: d.DongleFirmware(),
		Battery:        -1,
	}

	var err error
	if info.Firmware, err = d.FirmwareVersion(); err != nil {
		return nil, err
	}
	if info.DPIX, info.DPIY, err = d.DPI(); err != nil {
		return nil, err
	}
	if info.Stage, err = d.Stage(); err != nil {
		return nil, err
	}
	if info.MotionSync, err = d.MotionSync(); err != nil {
		return nil, err
	}
	if info.LiftOff, err = d.LiftOffDistance(); err != nil {
		return nil, err
	}
	if info.AngleSnap, err = d.AngleSnap(); err != nil {
		return nil, err
	}
	if info.RippleControl, err = d.RippleControl(); err != nil {
		return nil, err
	}
	if info.DebounceMs, err = d.Debounce(); err != nil {
		return nil, err
	}

	if d.mode == ModeWireless {
		if info.Battery, err = d.Battery(); err != nil {
			return nil, err
		}
	}

	rate, err := d.PollingRate()
	if err != nil {
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			return nil, err
		}
		// Unknown code; leave the rate at zero rather than failing the
		// whole snapshot over an unreliable field.
		d.log.Debug("polling rate query returned unknown code", zap.Error(err))
	}
	info.PollingRate = rate

	return info, nil
}
