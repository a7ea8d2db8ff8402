package main

import (
	"bytes"
	"encoding/binary"
)

const headerSize = 100

var headerMagic = []byte("SQLite format 3\x00")

// TextEncoding identifies the declared encoding of TEXT values.
type TextEncoding uint32

const (
	TextEncodingUTF8    TextEncoding = 1
	TextEncodingUTF16LE TextEncoding = 2
	TextEncodingUTF16BE TextEncoding = 3
)

// Header is the parsed 100-byte SQLite database header.
type Header struct {
	PageSize           uint32
	FileFormatWrite    uint8
	FileFormatRead     uint8
	ReservedSpace      uint8
	MaxPayloadFraction uint8
	MinPayloadFraction uint8
	LeafPayloadFraction uint8
	FileChangeCounter  uint32
	DBSizeInPages      uint32
	FirstFreelistPage  uint32
	FreelistPageCount  uint32
	SchemaCookie       uint32
	SchemaFormatNumber uint32
	DefaultCacheSize   uint32
	LargestRootBTree   uint32
	TextEncoding       TextEncoding
	UserVersion        uint32
	IncrementalVacuum  uint32
	ApplicationID      uint32
	VersionValidFor    uint32
	SQLiteVersion      uint32
}

// wireHeader is the exact byte layout of the 100-byte header, decoded in
// one shot with encoding/binary.
type wireHeader struct {
	Magic               [16]byte
	PageSize            uint16
	FileFormatWrite     uint8
	FileFormatRead      uint8
	ReservedSpace       uint8
	MaxPayloadFraction  uint8
	MinPayloadFraction  uint8
	LeafPayloadFraction uint8
	FileChangeCounter   uint32
	DBSizeInPages       uint32
	FirstFreelistPage   uint32
	FreelistPageCount   uint32
	SchemaCookie        uint32
	SchemaFormatNumber  uint32
	DefaultCacheSize    uint32
	LargestRootBTree    uint32
	TextEncoding        uint32
	UserVersion         uint32
	IncrementalVacuum   uint32
	ApplicationID       uint32
	Reserved            [20]byte
	VersionValidFor     uint32
	SQLiteVersion       uint32
}

// parseHeader validates and decodes the 100-byte database header.
func parseHeader(data []byte, validation ValidationLevel) (*Header, error) {
	if len(data) < headerSize {
		return nil, ctxErr("parse_header", ErrShortRead, "bytes_available", len(data))
	}

	var raw wireHeader
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.BigEndian, &raw); err != nil {
		return nil, wrapErr("parse_header", ErrBadHeader, map[string]interface{}{"decode_error": err.Error()})
	}

	if !bytes.Equal(raw.Magic[:], headerMagic) {
		return nil, ctxErr("parse_header", ErrBadHeader, "reason", "bad magic")
	}

	if raw.MaxPayloadFraction != 64 || raw.MinPayloadFraction != 32 || raw.LeafPayloadFraction != 32 {
		return nil, wrapErr("parse_header", ErrBadHeader, map[string]interface{}{
			"reason": "payload fractions must be 64/32/32",
			"got":    []uint8{raw.MaxPayloadFraction, raw.MinPayloadFraction, raw.LeafPayloadFraction},
		})
	}

	if raw.TextEncoding < 1 || raw.TextEncoding > 3 {
		return nil, ctxErr("parse_header", ErrBadHeader, "text_encoding", raw.TextEncoding)
	}

	if validation != ValidationNone {
		for _, b := range raw.Reserved {
			if b != 0 {
				return nil, ctxErr("parse_header", ErrBadHeader, "reason", "reserved bytes must be zero")
			}
		}
	}

	pageSize := uint32(raw.PageSize)
	if pageSize == 1 {
		pageSize = 65536
	}
	if pageSize < 512 || pageSize > 65536 || (pageSize&(pageSize-1)) != 0 {
		return nil, ctxErr("parse_header", ErrBadHeader, "page_size", pageSize)
	}

	return &Header{
		PageSize:            pageSize,
		FileFormatWrite:     raw.FileFormatWrite,
		FileFormatRead:      raw.FileFormatRead,
		ReservedSpace:       raw.ReservedSpace,
		MaxPayloadFraction:  raw.MaxPayloadFraction,
		MinPayloadFraction:  raw.MinPayloadFraction,
		LeafPayloadFraction: raw.LeafPayloadFraction,
		FileChangeCounter:   raw.FileChangeCounter,
		DBSizeInPages:       raw.DBSizeInPages,
		FirstFreelistPage:   raw.FirstFreelistPage,
		FreelistPageCount:   raw.FreelistPageCount,
		SchemaCookie:        raw.SchemaCookie,
		SchemaFormatNumber:  raw.SchemaFormatNumber,
		DefaultCacheSize:    raw.DefaultCacheSize,
		LargestRootBTree:    raw.LargestRootBTree,
		TextEncoding:        TextEncoding(raw.TextEncoding),
		UserVersion:         raw.UserVersion,
		IncrementalVacuum:   raw.IncrementalVacuum,
		ApplicationID:       raw.ApplicationID,
		VersionValidFor:     raw.VersionValidFor,
		SQLiteVersion:       raw.SQLiteVersion,
	}, nil
}
