package pulsar

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPacketLayout(t *testing.T) {
	packet, err := BuildPacket(opMotionSync, []byte{0x01, 0x01})
	require.NoError(t, err)

	require.Len(t, packet, PacketSize)
	assert.Equal(t, byte(0x00), packet[0], "report id")
	assert.Equal(t, []byte{0x07, 0x05, 0x02}, packet[1:4], "opcode triplet")
	assert.Equal(t, []byte{0x00, 0x00}, packet[4:6], "reserved bytes")
	assert.Equal(t, []byte{0x01, 0x01}, packet[6:8], "payload")
	assert.True(t, bytes.Equal(packet[8:62], make([]byte, 54)), "zero padding")
}

func TestBuildPacketChecksum(t *testing.T) {
	testCases := []struct {
		name    string
		op      Opcode
		payload []byte
	}{
		{"query no payload", opBattery, nil},
		{"boolean write", opAngleSnap, []byte{0x01, 0x01}},
		{"lift-off write", opLiftOff, []byte{0x01, 0x02, 0x14}},
		{"dpi write", opDPI, []byte{0x01, 0x40, 0x06, 0x40, 0x06}},
		{"max payload", opDPI, bytes.Repeat([]byte{0xff}, MaxPayload)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			packet, err := BuildPacket(tc.op, tc.payload)
			require.NoError(t, err)
			require.Len(t, packet, PacketSize)

			// Recomputing over bytes 0-61 must reproduce the stored value.
			stored := binary.LittleEndian.Uint16(packet[62:])
			assert.Equal(t, Checksum(packet), stored)

			var sum uint16
			for _, b := range packet[:62] {
				sum += uint16(b)
			}
			assert.Equal(t, sum, stored)
		})
	}
}

func TestChecksumShortSlices(t *testing.T) {
	assert.Equal(t, uint16(0), Checksum(nil))
	assert.Equal(t, uint16(6), Checksum([]byte{1, 2, 3}))

	// Over 62+ bytes only the first 62 count.
	full := make([]byte, PacketSize)
	full[61] = 0x01
	full[62] = 0xff
	assert.Equal(t, uint16(1), Checksum(full))
}

func TestBuildPacketPayloadTooLong(t *testing.T) {
	_, err := BuildPacket(opDPI, make([]byte, MaxPayload+1))
	require.Error(t, err)
}

func TestQueryOpcodeDerivation(t *testing.T) {
	pairs := []struct {
		name  string
		write Opcode
		query Opcode
	}{
		{"motion sync", opMotionSync, Opcode{0x07, 0x85, 0x02}},
		{"ripple control", opRippleControl, Opcode{0x07, 0x83, 0x02}},
		{"angle snap", opAngleSnap, Opcode{0x07, 0x84, 0x02}},
		{"lift-off distance", opLiftOff, Opcode{0x07, 0x82, 0x03}},
		{"debounce", opDebounce, Opcode{0x04, 0x83, 0x03}},
		{"dpi", opDPI, Opcode{0x05, 0x82, 0x05}},
		{"stage", opStage, Opcode{0x05, 0x81, 0x02}},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			assert.Equal(t, p.query, p.write.Query())
			assert.Equal(t, p.write[1]|0x80, p.write.Query()[1])
		})
	}

	// Polling rate queries through a different opcode family; the
	// derivation deliberately does not apply there.
	assert.NotEqual(t, opPollingQuery, opPollingWrite.Query())
}
