package pulsar

import (
	"fmt"
	"sync"

	"github.com/sstallion/go-hid"
)

// DeviceInfo describes a discovered mouse before a session is opened.
type DeviceInfo struct {
	Path      string
	ProductID uint16
	Mode      Mode
	Product   string

	// Release is the USB descriptor release number (bcdDevice). In
	// wireless mode it reports the dongle firmware.
	Release uint16
}

var hidInit sync.Once

func initHID() error {
	var err error
	hidInit.Do(func() {
		err = hid.Init()
	})
	return err
}

// Discover scans for a Pulsar X3 on interface 3, wired or wireless. When
// both links are visible the wireless one wins, matching the original
// tool. Returns ErrNotFound if no matching device is attached.
func Discover() (*DeviceInfo, error) {
	if err := initHID(); err != nil {
		return nil, fmt.Errorf("pulsar: hid init failed: %w", err)
	}

	var candidates []hid.DeviceInfo
	err := hid.Enumerate(VendorID, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		candidates = append(candidates, *info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pulsar: enumeration failed: %w", err)
	}

	return selectDevice(candidates)
}

// selectDevice picks the feature-report interface among the enumerated
// candidates and labels its mode by product id.
func selectDevice(candidates []hid.DeviceInfo) (*DeviceInfo, error) {
	var wired, wireless *DeviceInfo
	for _, info := range candidates {
		if info.InterfaceNbr != InterfaceNumber {
			continue
		}
		found := &DeviceInfo{
			Path:      info.Path,
			ProductID: info.ProductID,
			Product:   info.ProductStr,
			Release:   info.ReleaseNbr,
		}
		switch info.ProductID {
		case ProductIDWireless:
			found.Mode = ModeWireless
			wireless = found
		case ProductIDWired:
			found.Mode = ModeWired
			wired = found
		}
	}

	switch {
	case wireless != nil:
		return wireless, nil
	case wired != nil:
		return wired, nil
	default:
		return nil, ErrNotFound
	}
}
