package pulsar

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sstallion/go-hid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single feature-report transfer. Occasional
// misses are expected on the wireless link, so queries retry once.
const DefaultTimeout = time.Second

// settleDelay is the pause between issuing a query and collecting its
// response. The firmware needs the gap; it comes straight from the capture.
const settleDelay = 50 * time.Millisecond

// Transport moves 64-byte feature reports to and from the mouse.
type Transport interface {
	// Send issues the packet as a SET_REPORT feature transfer.
	Send(packet []byte) error
	// Receive issues a GET_REPORT feature transfer and returns the raw
	// response bytes.
	Receive() ([]byte, error)
	Close() error
}

// hidTransport talks to the hidraw node behind interface 3. hidapi has no
// native deadline on feature transfers, so each call runs in a goroutine
// and is abandoned once the timeout fires.
type hidTransport struct {
	dev     *hid.Device
	timeout time.Duration
	log     *zap.Logger
}

func openTransport(path string, timeout time.Duration, log *zap.Logger) (Transport, error) {
	dev, err := hid.OpenPath(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) || accessDenied(path) {
			return nil, fmt.Errorf("%w: cannot open %s", ErrPermission, path)
		}
		return nil, fmt.Errorf("pulsar: cannot open %s: %w", path, err)
	}
	return &hidTransport{dev: dev, timeout: timeout, log: log}, nil
}

// wireOut frames a packet for hidapi: the library consumes a leading
// report id byte on unnumbered reports, so the device would otherwise see
// a 63-byte frame with every field shifted. Prepending the id keeps the
// full 64-byte packet on the wire exactly as captured.
func wireOut(packet []byte) []byte {
	buf := make([]byte, len(packet)+1)
	copy(buf[1:], packet)
	return buf
}

// wireIn strips the report id hidapi places in byte 0 of a received
// feature report, returning the raw wire frame.
func wireIn(buf []byte, n int) []byte {
	if n < 1 {
		return nil
	}
	return buf[1:n]
}

func (t *hidTransport) Send(packet []byte) error {
	t.log.Debug("feature report out",
		zap.String("opcode", fmt.Sprintf("%02x %02x %02x", packet[1], packet[2], packet[3])))

	buf := wireOut(packet)
	done := make(chan error, 1)
	go func() {
		_, err := t.dev.SendFeatureReport(buf)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("pulsar: feature report write failed: %w", err)
		}
		return nil
	case <-time.After(t.timeout):
		return ErrTimeout
	}
}

func (t *hidTransport) Receive() ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	done := make(chan result, 1)
	go func() {
		// One extra byte: hidapi hands back the report id in buf[0]
		// and the wire frame after it.
		buf := make([]byte, PacketSize+1)
		n, err := t.dev.GetFeatureReport(buf)
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{data: wireIn(buf, n)}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("pulsar: feature report read failed: %w", res.err)
		}
		t.log.Debug("feature report in", zap.Int("bytes", len(res.data)))
		return res.data, nil
	case <-time.After(t.timeout):
		return nil, ErrTimeout
	}
}

func (t *hidTransport) Close() error {
	return t.dev.Close()
}
