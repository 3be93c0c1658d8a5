package pulsar

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no device with the Pulsar vendor id and a known
	// product id is attached.
	ErrNotFound = errors.New("pulsar: device not found")

	// ErrPermission means the OS refused to open or talk to the device
	// node. On Linux this usually means a missing udev rule.
	ErrPermission = errors.New("pulsar: permission denied")

	// ErrTimeout means a feature-report transfer did not complete within
	// the transport deadline. Queries may be retried once; occasional
	// misses are expected on the wireless link.
	ErrTimeout = errors.New("pulsar: transfer timed out")
)

// InvalidValueError reports a write value outside a setting's domain. It is
// returned before any packet is built or sent.
type InvalidValueError struct {
	Setting string
	Value   string
	Valid   string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("pulsar: invalid %s value %s (valid: %s)", e.Setting, e.Value, e.Valid)
}

// DecodeError reports a response that is too short or carries a code with
// no entry in the setting's lookup table.
type DecodeError struct {
	Setting string
	Code    byte
	Reason  string
}

func (e *DecodeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("pulsar: cannot decode %s response: %s", e.Setting, e.Reason)
	}
	return fmt.Sprintf("pulsar: cannot decode %s response: unknown code 0x%02x", e.Setting, e.Code)
}

// UnsupportedInModeError reports a setting that has no meaning in the
// current connection mode, e.g. battery while wired.
type UnsupportedInModeError struct {
	Setting string
	Mode    Mode
}

func (e *UnsupportedInModeError) Error() string {
	return fmt.Sprintf("pulsar: %s is not available in %s mode", e.Setting, e.Mode)
}
