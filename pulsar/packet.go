// Package pulsar implements the feature-report command protocol of the
// Pulsar X3 gaming mouse. Commands are 64-byte packets carrying a 3-byte
// opcode and a 16-bit additive checksum; queries reuse the write opcode
// with the top bit of its second byte set.
package pulsar

import (
	"encoding/binary"
	"fmt"
)

const (
	// PacketSize is the fixed length of every command and response packet,
	// including the leading report id byte.
	PacketSize = 64

	// MaxPayload is the room left between the reserved bytes and the
	// trailing checksum.
	MaxPayload = 56

	payloadOffset  = 6
	checksumOffset = 62
)

// Opcode is the 3-byte command identifier at packet bytes 1-3.
type Opcode [3]byte

// Query derives the matching query opcode by setting the query bit on the
// second byte.
func (o Opcode) Query() Opcode {
	o[1] |= 0x80
	return o
}

func (o Opcode) String() string {
	return fmt.Sprintf("%02x %02x %02x", o[0], o[1], o[2])
}

// BuildPacket assembles a checksummed 64-byte command packet:
//
//	[0x00, op0, op1, op2, 0x00, 0x00, payload..., 0x00 pad, ck_lo, ck_hi]
//
// Byte 0 is the report id. A payload longer than MaxPayload is a
// programming error and is rejected before anything touches the device.
func BuildPacket(op Opcode, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("pulsar: payload of %d bytes exceeds %d-byte limit", len(payload), MaxPayload)
	}

	packet := make([]byte, PacketSize)
	packet[1] = op[0]
	packet[2] = op[1]
	packet[3] = op[2]
	copy(packet[payloadOffset:], payload)

	binary.LittleEndian.PutUint16(packet[checksumOffset:], Checksum(packet))
	return packet, nil
}

// Checksum sums packet bytes 0-61 truncated to 16 bits. A slice shorter
// than 62 bytes sums every byte present. Responses are not validated
// against it; the device treats it as informational on reads.
func Checksum(packet []byte) uint16 {
	n := checksumOffset
	if len(packet) < n {
		n = len(packet)
	}
	var sum uint16
	for _, b := range packet[:n] {
		sum += uint16(b)
	}
	return sum
}
