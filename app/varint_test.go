package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVarint(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expectedVal uint64
		expectedN   int
	}{
		{name: "single byte zero", data: []byte{0x00}, expectedVal: 0, expectedN: 1},
		{name: "single byte max", data: []byte{0x7f}, expectedVal: 127, expectedN: 1},
		{name: "two byte minimum", data: []byte{0x81, 0x00}, expectedVal: 128, expectedN: 2},
		{name: "trailing bytes ignored", data: []byte{0x7f, 0xff, 0xff}, expectedVal: 127, expectedN: 1},
		{name: "nine byte form", data: []byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x01}, expectedN: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			val, n, err := decodeVarint(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedN, n)
			if tt.expectedVal != 0 || tt.name == "single byte zero" {
				assert.Equal(t, tt.expectedVal, val)
			}
		})
	}
}

func TestDecodeVarintShortRead(t *testing.T) {
	_, _, err := decodeVarint([]byte{0x81, 0x81})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedVarint)
}

func TestEncodeDecodeVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 200, 16383, 16384, 1 << 20, 1 << 32, 1 << 40, ^uint64(0)}
	for _, v := range values {
		encoded := encodeVarint(v)
		decoded, n, err := decodeVarint(encoded)
		require.NoError(t, err)
		assert.Equal(t, len(encoded), n)
		assert.Equal(t, v, decoded)
	}
}

func TestEncodeVarintKnownEncoding(t *testing.T) {
	assert.Equal(t, []byte{0x00}, encodeVarint(0))
	assert.Equal(t, []byte{0x7f}, encodeVarint(127))
	assert.Equal(t, []byte{0x81, 0x00}, encodeVarint(128))
}
