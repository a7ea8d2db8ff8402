package main

import (
	"encoding/binary"
	"io"
	"math"
)

// serialTypeForValue picks a serial type that losslessly holds v: the
// constant types 8/9 for 0 and 1, the 1- and 2-byte types for small
// integers, and the 8-byte type for every other integer (the 3-, 4- and
// 6-byte integer types are never chosen).
func serialTypeForValue(v Value) uint64 {
	switch v.Kind {
	case ValueKindNull:
		return 0
	case ValueKindInt:
		switch {
		case v.Int == 0:
			return 8
		case v.Int == 1:
			return 9
		case v.Int >= -128 && v.Int <= 127:
			return 1
		case v.Int >= -32768 && v.Int <= 32767:
			return 2
		default:
			return 6
		}
	case ValueKindFloat:
		return 7
	case ValueKindText:
		return uint64(13 + 2*len(v.Text))
	case ValueKindBlob:
		return uint64(12 + 2*len(v.Blob))
	default:
		return 0
	}
}

// encodeValueContent renders v's on-disk bytes for the serial type
// serialTypeForValue would choose for it.
func encodeValueContent(v Value) []byte {
	switch v.Kind {
	case ValueKindNull:
		return nil
	case ValueKindInt:
		switch serialTypeForValue(v) {
		case 8, 9:
			return nil
		case 1:
			return []byte{byte(int8(v.Int))}
		case 2:
			b := make([]byte, 2)
			binary.BigEndian.PutUint16(b, uint16(int16(v.Int)))
			return b
		default:
			b := make([]byte, 8)
			binary.BigEndian.PutUint64(b, uint64(v.Int))
			return b
		}
	case ValueKindFloat:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, floatBits(v.Float))
		return b
	case ValueKindText:
		return []byte(v.Text)
	case ValueKindBlob:
		return v.Blob
	default:
		return nil
	}
}

func floatBits(f float64) uint64 {
	return math.Float64bits(f)
}

// buildRecord assembles a complete record payload (header + values) for
// the given values, in declaration order.
func buildRecord(values []Value) []byte {
	var serialTypes []uint64
	var body []byte
	for _, v := range values {
		st := serialTypeForValue(v)
		serialTypes = append(serialTypes, st)
		body = append(body, encodeValueContent(v)...)
	}

	var headerBody []byte
	for _, st := range serialTypes {
		headerBody = append(headerBody, encodeVarint(st)...)
	}

	// header_size varint must include its own encoded length; try
	// candidate lengths until the varint encoding of (n + len(headerBody))
	// itself occupies n bytes.
	for n := 1; n <= 9; n++ {
		total := uint64(n + len(headerBody))
		enc := encodeVarint(total)
		if len(enc) == n {
			return append(append(enc, headerBody...), body...)
		}
	}
	panic("unreachable: header size varint did not converge")
}

// buildTableLeafCell assembles a table-leaf cell: payload_size varint,
// rowid varint, payload bytes (no overflow; tests keep payloads small).
func buildTableLeafCell(rowid uint64, payload []byte) []byte {
	var cell []byte
	cell = append(cell, encodeVarint(uint64(len(payload)))...)
	cell = append(cell, encodeVarint(rowid)...)
	cell = append(cell, payload...)
	return cell
}

// buildLeafTablePage assembles a complete leaf table-interior-free page
// buffer of the given size, with the supplied (rowid, payload) cells
// placed back to front in the content area (as a real writer would), and
// the cell-pointer array filled in declaration order.
func buildLeafTablePage(pageSize int, isFirstPage bool, rows []struct {
	Rowid   uint64
	Payload []byte
}) []byte {
	buf := make([]byte, pageSize)
	base := 0
	if isFirstPage {
		base = headerSize
	}

	headerLen := 8
	contentEnd := pageSize
	pointerArray := make([]byte, 0, 2*len(rows))

	for _, row := range rows {
		cellBytes := buildTableLeafCell(row.Rowid, row.Payload)
		contentEnd -= len(cellBytes)
		copy(buf[contentEnd:], cellBytes)
		ptr := make([]byte, 2)
		binary.BigEndian.PutUint16(ptr, uint16(contentEnd))
		pointerArray = append(pointerArray, ptr...)
	}

	buf[base+0] = byte(BTreePageLeafTable)
	binary.BigEndian.PutUint16(buf[base+1:base+3], 0) // no freeblocks
	binary.BigEndian.PutUint16(buf[base+3:base+5], uint16(len(rows)))
	contentAreaField := uint16(contentEnd)
	if contentEnd == 65536 {
		contentAreaField = 0
	}
	binary.BigEndian.PutUint16(buf[base+5:base+7], contentAreaField)
	buf[base+7] = 0 // no fragmented free bytes

	copy(buf[base+headerLen:], pointerArray)
	return buf
}

// buildDatabaseHeader assembles a valid 100-byte database header.
func buildDatabaseHeader(pageSize uint16, dbSizeInPages uint32) []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:16], headerMagic)
	binary.BigEndian.PutUint16(buf[16:18], pageSize)
	buf[18] = 1 // file format write
	buf[19] = 1 // file format read
	buf[20] = 0 // reserved space
	buf[21] = 64
	buf[22] = 32
	buf[23] = 32
	binary.BigEndian.PutUint32(buf[24:28], 1) // file change counter
	binary.BigEndian.PutUint32(buf[28:32], dbSizeInPages)
	binary.BigEndian.PutUint32(buf[40:44], 1) // schema cookie
	binary.BigEndian.PutUint32(buf[44:48], 4) // schema format number
	binary.BigEndian.PutUint32(buf[48:52], 0)
	binary.BigEndian.PutUint32(buf[52:56], 0)
	binary.BigEndian.PutUint32(buf[56:60], 1) // text encoding: UTF-8
	return buf
}

// memFile adapts a byte slice to the io.ReaderAt + io.Closer interface
// openFile expects, without touching the filesystem.
type memFile struct {
	data []byte
}

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memFile) Close() error { return nil }
