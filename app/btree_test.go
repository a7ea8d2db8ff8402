package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBTreePageLeafTable(t *testing.T) {
	pageSize := 512
	rows := []struct {
		Rowid   uint64
		Payload []byte
	}{
		{Rowid: 1, Payload: buildRecord([]Value{IntValue(1), TextValue("apple")})},
		{Rowid: 2, Payload: buildRecord([]Value{IntValue(2), TextValue("banana")})},
	}
	raw := buildLeafTablePage(pageSize, false, rows)

	page, err := decodeBTreePage(raw, 2, uint32(pageSize))
	require.NoError(t, err)
	assert.Equal(t, BTreePageLeafTable, page.Header.PageType)
	require.Len(t, page.Cells, 2)
	assert.Equal(t, uint64(1), page.Cells[0].Rowid)
	assert.Equal(t, uint64(2), page.Cells[1].Rowid)
	assert.False(t, page.Cells[0].Overflow)

	rec, err := decodeRecord(page.Cells[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "apple", rec.Values[1].Text)
}

func TestDecodeBTreePagePage1SkipsHeader(t *testing.T) {
	pageSize := 512
	rows := []struct {
		Rowid   uint64
		Payload []byte
	}{
		{Rowid: 1, Payload: buildRecord([]Value{TextValue("table"), TextValue("apples"), TextValue("apples"), IntValue(2), TextValue("CREATE TABLE apples (id integer primary key, name text)")})},
	}
	raw := buildLeafTablePage(pageSize, true, rows)
	copy(raw[0:headerSize], buildDatabaseHeader(uint16(pageSize), 1))

	page, err := decodeBTreePage(raw, 1, uint32(pageSize))
	require.NoError(t, err)
	require.Len(t, page.Cells, 1)
	assert.Equal(t, uint64(1), page.Cells[0].Rowid)
}

func TestDecodeBTreePageRejectsBadPageType(t *testing.T) {
	raw := make([]byte, 512)
	raw[0] = 0x99
	_, err := decodeBTreePage(raw, 2, 512)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptTree)
}

func TestLocalPayloadLengthTableLeaf(t *testing.T) {
	usable := uint32(512)
	x := uint64(usable) - 35
	assert.Equal(t, x, localPayloadLength(x, usable, true))
	assert.Less(t, localPayloadLength(x+1, usable, true), x+1)
}

func TestLocalPayloadLengthNeverExceedsMax(t *testing.T) {
	usable := uint32(4096)
	x := (uint64(usable)-12)*64/255 - 23
	local := localPayloadLength(x*10, usable, false)
	assert.LessOrEqual(t, local, x)
}
