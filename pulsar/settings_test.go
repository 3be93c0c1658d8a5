package pulsar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolCodec(t *testing.T) {
	assert.Equal(t, byte(0x01), encodeBool(true))
	assert.Equal(t, byte(0x00), encodeBool(false))

	on, err := decodeBool("motion sync", 0x01)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := decodeBool("motion sync", 0x00)
	require.NoError(t, err)
	assert.False(t, off)

	_, err = decodeBool("motion sync", 0x02)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, byte(0x02), decodeErr.Code)
}

func TestLiftOffCodec(t *testing.T) {
	testCases := []struct {
		mm   float64
		code byte
	}{
		{0.7, 0x07},
		{1, 0x0a},
		{2, 0x14},
	}

	for _, tc := range testCases {
		code, err := encodeLiftOff(tc.mm)
		require.NoError(t, err)
		assert.Equal(t, tc.code, code)

		mm, err := decodeLiftOff(tc.code)
		require.NoError(t, err)
		assert.Equal(t, tc.mm, mm)
	}

	_, err := encodeLiftOff(1.5)
	var invalidErr *InvalidValueError
	require.ErrorAs(t, err, &invalidErr)

	_, err = decodeLiftOff(0x08)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestPollingRateTables(t *testing.T) {
	writeCases := map[int]byte{
		125:  0x40,
		250:  0x20,
		500:  0x10,
		1000: 0x08,
		2000: 0x04,
		4000: 0x02,
		8000: 0x01,
	}
	for hz, code := range writeCases {
		got, err := encodePollingRate(hz)
		require.NoError(t, err)
		assert.Equal(t, code, got, "write code for %dHz", hz)
	}

	queryCases := map[byte]int{
		240: 125,
		120: 250,
		60:  500,
		30:  1000,
		15:  2000,
		8:   4000,
		4:   8000,
	}
	for code, hz := range queryCases {
		got, err := decodePollingRate(code)
		require.NoError(t, err)
		assert.Equal(t, hz, got, "query rate for code %d", code)
	}

	// The code spaces are not symmetric: 0x08 writes 1000Hz but reads
	// back as 4000Hz. Firmware quirk; both tables must stay distinct.
	writeCode, err := encodePollingRate(1000)
	require.NoError(t, err)
	readBack, err := decodePollingRate(writeCode)
	require.NoError(t, err)
	assert.Equal(t, 4000, readBack)

	_, err = encodePollingRate(300)
	var invalidErr *InvalidValueError
	require.ErrorAs(t, err, &invalidErr)

	_, err = decodePollingRate(99)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestDomainValidation(t *testing.T) {
	assert.NoError(t, validateDPI(MinDPI))
	assert.NoError(t, validateDPI(MaxDPI))
	assert.Error(t, validateDPI(MinDPI-1))
	assert.Error(t, validateDPI(MaxDPI+1))

	assert.NoError(t, validateStage(1))
	assert.NoError(t, validateStage(6))
	assert.Error(t, validateStage(0))
	assert.Error(t, validateStage(7))

	assert.NoError(t, validateDebounce(0))
	assert.NoError(t, validateDebounce(255))
	assert.Error(t, validateDebounce(-1))
	assert.Error(t, validateDebounce(256))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "wired", ModeWired.String())
	assert.Equal(t, "wireless", ModeWireless.String())
}
