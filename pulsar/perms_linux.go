//go:build linux

package pulsar

import "golang.org/x/sys/unix"

// accessDenied reports whether the hidraw node exists but cannot be opened
// read-write by this process, which almost always means a missing udev
// rule rather than a device fault.
func accessDenied(path string) bool {
	err := unix.Access(path, unix.R_OK|unix.W_OK)
	return err == unix.EACCES || err == unix.EPERM
}
