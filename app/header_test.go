package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderValid(t *testing.T) {
	buf := buildDatabaseHeader(4096, 2)
	header, err := parseHeader(buf, ValidationBasic)
	require.NoError(t, err)
	assert.Equal(t, uint32(4096), header.PageSize)
	assert.Equal(t, TextEncodingUTF8, header.TextEncoding)
	assert.Equal(t, uint32(2), header.DBSizeInPages)
}

func TestParseHeaderPageSize1MeansMax(t *testing.T) {
	buf := buildDatabaseHeader(1, 1)
	header, err := parseHeader(buf, ValidationBasic)
	require.NoError(t, err)
	assert.Equal(t, uint32(65536), header.PageSize)
}

func TestParseHeaderBadMagic(t *testing.T) {
	buf := buildDatabaseHeader(4096, 1)
	buf[0] = 'X'
	_, err := parseHeader(buf, ValidationBasic)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestParseHeaderBadPayloadFractions(t *testing.T) {
	buf := buildDatabaseHeader(4096, 1)
	buf[21] = 99
	_, err := parseHeader(buf, ValidationBasic)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestParseHeaderBadPageSizeNotPowerOfTwo(t *testing.T) {
	buf := buildDatabaseHeader(4096, 1)
	buf[16] = 0x03
	buf[17] = 0x00 // page size field = 0x0300 = 768, not a power of two
	_, err := parseHeader(buf, ValidationBasic)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestParseHeaderShortRead(t *testing.T) {
	_, err := parseHeader(make([]byte, 50), ValidationBasic)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestParseHeaderReservedBytesSkippedUnderValidationNone(t *testing.T) {
	buf := buildDatabaseHeader(4096, 1)
	buf[72] = 0xff // inside the reserved-for-expansion region
	_, err := parseHeader(buf, ValidationNone)
	require.NoError(t, err)

	_, err = parseHeader(buf, ValidationBasic)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadHeader)
}
