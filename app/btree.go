package main

import "encoding/binary"

// BTreePageType is the closed set of B-tree page variants.
type BTreePageType uint8

const (
	BTreePageInteriorIndex BTreePageType = 0x02
	BTreePageInteriorTable BTreePageType = 0x05
	BTreePageLeafIndex     BTreePageType = 0x0a
	BTreePageLeafTable     BTreePageType = 0x0d
)

func (t BTreePageType) IsLeaf() bool {
	return t == BTreePageLeafIndex || t == BTreePageLeafTable
}

func (t BTreePageType) IsTable() bool {
	return t == BTreePageInteriorTable || t == BTreePageLeafTable
}

func (t BTreePageType) IsIndex() bool {
	return t == BTreePageInteriorIndex || t == BTreePageLeafIndex
}

// BTreePageHeader is the 8- or 12-byte page header preceding the
// cell-pointer array.
type BTreePageHeader struct {
	PageType                BTreePageType
	FirstFreeblockOffset     uint16
	CellCount                uint16
	CellContentAreaOffset    uint32 // 0 in the wire format means 65536
	FragmentedFreeBytes      uint8
	RightMostPointer         uint32 // interior pages only
}

func (h BTreePageHeader) headerLen() int {
	if h.PageType.IsLeaf() {
		return 8
	}
	return 12
}

// CellKind is the closed set of cell variants a B-tree page can contain.
type CellKind int

const (
	CellKindTableLeaf CellKind = iota
	CellKindTableInterior
	CellKindIndexLeaf
	CellKindIndexInterior
)

// Cell is a single decoded B-tree cell. Which fields are meaningful
// depends on Kind.
type Cell struct {
	Kind CellKind

	// Table leaf / index leaf / index interior
	PayloadSize uint64
	Payload     []byte // local bytes only; see overflow handling below
	Overflow    bool    // true if PayloadSize exceeds the local bytes available

	// Table leaf / table interior
	Rowid uint64

	// Table interior / index interior
	LeftChild uint32
}

// BTreePage is a fully decoded B-tree page: header, cell-pointer array,
// and cells, parsed independent of pointer-array order (the decoder reads
// each cell at its own offset in the content area rather than assuming
// the pointer array is sorted).
type BTreePage struct {
	Number uint32
	Header BTreePageHeader
	Cells  []Cell
}

// decodeBTreePage parses raw (a full page_size buffer) as a B-tree page.
// For page 1 the first 100 bytes are the database header and are skipped
// before reading the page header.
// usableSize is page_size minus the header's reserved-space-per-page
// byte count, needed to compute how much of an oversized payload is
// actually stored locally versus spilled to an overflow chain.
func decodeBTreePage(raw []byte, pageNumber uint32, usableSize uint32) (*BTreePage, error) {
	base := 0
	if pageNumber == 1 {
		base = headerSize
	}
	if base+8 > len(raw) {
		return nil, wrapErr("decode_btree_page", ErrMalformedPage, map[string]interface{}{"page": pageNumber, "reason": "page too small for header"})
	}

	pageType := BTreePageType(raw[base])
	if pageType != BTreePageInteriorIndex && pageType != BTreePageInteriorTable &&
		pageType != BTreePageLeafIndex && pageType != BTreePageLeafTable {
		return nil, ctxErr("decode_btree_page", ErrCorruptTree, "page_type", raw[base])
	}

	header := BTreePageHeader{
		PageType:             pageType,
		FirstFreeblockOffset: binary.BigEndian.Uint16(raw[base+1 : base+3]),
		CellCount:            binary.BigEndian.Uint16(raw[base+3 : base+5]),
		FragmentedFreeBytes:  raw[base+7],
	}
	contentArea := binary.BigEndian.Uint16(raw[base+5 : base+7])
	if contentArea == 0 {
		header.CellContentAreaOffset = 65536
	} else {
		header.CellContentAreaOffset = uint32(contentArea)
	}

	hLen := header.headerLen()
	if !pageType.IsLeaf() {
		if base+12 > len(raw) {
			return nil, ctxErr("decode_btree_page", ErrMalformedPage, "reason", "page too small for interior header")
		}
		header.RightMostPointer = binary.BigEndian.Uint32(raw[base+8 : base+12])
	}

	pointerArrayOffset := base + hLen
	cells := make([]Cell, 0, header.CellCount)
	for i := 0; i < int(header.CellCount); i++ {
		ptrOff := pointerArrayOffset + i*2
		if ptrOff+2 > len(raw) {
			return nil, wrapErr("decode_btree_page", ErrMalformedPage, map[string]interface{}{"reason": "cell pointer array truncated", "index": i})
		}
		cellOffset := int(binary.BigEndian.Uint16(raw[ptrOff : ptrOff+2]))
		if cellOffset <= 0 || cellOffset >= len(raw) {
			return nil, wrapErr("decode_btree_page", ErrMalformedPage, map[string]interface{}{"reason": "cell pointer out of range", "offset": cellOffset})
		}

		cell, err := decodeCell(raw, cellOffset, pageType, usableSize)
		if err != nil {
			return nil, err
		}
		cells = append(cells, *cell)
	}

	return &BTreePage{Number: pageNumber, Header: header, Cells: cells}, nil
}

// decodeCell parses a single cell at byte offset off within raw, shaped
// according to the owning page's type.
func decodeCell(raw []byte, off int, pageType BTreePageType, usableSize uint32) (*Cell, error) {
	switch pageType {
	case BTreePageLeafTable:
		return decodePayloadCell(raw, off, CellKindTableLeaf, true, usableSize, true)
	case BTreePageInteriorTable:
		if off+4 > len(raw) {
			return nil, ctxErr("decode_cell", ErrMalformedPage, "reason", "interior table cell truncated")
		}
		leftChild := binary.BigEndian.Uint32(raw[off : off+4])
		rowid, _, err := decodeVarint(raw[off+4:])
		if err != nil {
			return nil, wrapErr("decode_cell", ErrMalformedPage, map[string]interface{}{"reason": "rowid varint", "error": err.Error()})
		}
		return &Cell{Kind: CellKindTableInterior, LeftChild: leftChild, Rowid: rowid}, nil
	case BTreePageLeafIndex:
		return decodePayloadCell(raw, off, CellKindIndexLeaf, false, usableSize, false)
	case BTreePageInteriorIndex:
		if off+4 > len(raw) {
			return nil, ctxErr("decode_cell", ErrMalformedPage, "reason", "interior index cell truncated")
		}
		leftChild := binary.BigEndian.Uint32(raw[off : off+4])
		cell, err := decodePayloadCell(raw, off+4, CellKindIndexInterior, false, usableSize, false)
		if err != nil {
			return nil, err
		}
		cell.LeftChild = leftChild
		return cell, nil
	default:
		return nil, ctxErr("decode_cell", ErrCorruptTree, "page_type", pageType)
	}
}

// localPayloadLength implements SQLite's formula for how many payload
// bytes are stored in the cell itself versus spilled to an overflow
// chain, given the page's usable size U. isTableLeaf selects between the
// table-leaf (intkey) and index (key) variants of the formula; both
// derive from the same U-12/U-4 constants, differing only in the
// fraction of U reserved for the in-page maximum.
func localPayloadLength(payloadSize uint64, usableSize uint32, isTableLeaf bool) uint64 {
	u := uint64(usableSize)
	var x uint64
	if isTableLeaf {
		x = u - 35
	} else {
		x = (u-12)*64/255 - 23
	}
	if payloadSize <= x {
		return payloadSize
	}
	m := (u-12)*32/255 - 23
	k := m + (payloadSize-m)%(u-4)
	if k <= x {
		return k
	}
	return m
}

// decodePayloadCell decodes the common "payload_size varint, [rowid
// varint if withRowid,] payload bytes[, 4-byte overflow pointer]" shape
// shared by table-leaf, index-leaf and index-interior cells.
func decodePayloadCell(raw []byte, off int, kind CellKind, withRowid bool, usableSize uint32, isTableLeaf bool) (*Cell, error) {
	payloadSize, n, err := decodeVarint(raw[off:])
	if err != nil {
		return nil, wrapErr("decode_cell", ErrMalformedPage, map[string]interface{}{"reason": "payload_size varint", "error": err.Error()})
	}
	off += n

	var rowid uint64
	if withRowid {
		rowid, n, err = decodeVarint(raw[off:])
		if err != nil {
			return nil, wrapErr("decode_cell", ErrMalformedPage, map[string]interface{}{"reason": "rowid varint", "error": err.Error()})
		}
		off += n
	}

	localLen := localPayloadLength(payloadSize, usableSize, isTableLeaf)
	overflow := localLen < payloadSize
	if off+int(localLen) > len(raw) {
		return nil, wrapErr("decode_cell", ErrMalformedPage, map[string]interface{}{"reason": "payload out of page bounds"})
	}

	payload := raw[off : off+int(localLen)]
	return &Cell{
		Kind:        kind,
		PayloadSize: payloadSize,
		Payload:     payload,
		Overflow:    overflow,
		Rowid:       rowid,
	}, nil
}
