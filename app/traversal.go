package main

// Row is a single table row as the traversal engine yields it: the
// rowid plus one Value per declared column, with the rowid already
// substituted into the rowid-alias column's slot (if the table has one),
// mirroring what a real SELECT sees regardless of whether the column's
// on-disk value was stored as NULL.
type Row struct {
	Rowid  uint64
	Values []Value
}

// traverseTable walks the table B-tree rooted at rootPage depth-first,
// left to right, yielding every row that matches pred. Table-interior
// cells push their children; table-leaf cells decode a record and yield
// it. Index pages are not expected here: the executor never roots a scan
// at an index (see index.go), so encountering one at a reachable
// position is corruption, not a different case to branch on.
//
// visitBudget bounds the number of page visits to guard against a cyclic
// or self-referential page-number chain in a corrupt file; it is bounded
// by the header's declared page count.
func traverseTable(ps *PageSource, rootPage uint32, usableSize uint32, visitBudget uint32, rowidAliasIndex int, pred *Predicate, yield func(Row) error) error {
	stack := []uint32{rootPage}
	visited := uint32(0)

	for len(stack) > 0 {
		visited++
		if visited > visitBudget {
			return ctxErr("traverse_table", ErrCorruptTree, "reason", "visit budget exceeded")
		}

		pageNumber := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		raw, err := ps.ReadPage(pageNumber)
		if err != nil {
			return err
		}
		page, err := decodeBTreePage(raw, pageNumber, usableSize)
		if err != nil {
			return err
		}
		if !page.Header.PageType.IsTable() {
			return ctxErr("traverse_table", ErrCorruptTree, "page_type", page.Header.PageType)
		}

		if page.Header.PageType.IsLeaf() {
			for _, cell := range page.Cells {
				row, err := materializeRow(cell, rowidAliasIndex)
				if err != nil {
					return err
				}
				if pred.Matches(row.Values) {
					if err := yield(*row); err != nil {
						return err
					}
				}
			}
			continue
		}

		// Interior: push children in reverse (right-most pointer first,
		// then each cell's left child from last to first) so that
		// popping the stack visits them left to right.
		stack = append(stack, page.Header.RightMostPointer)
		for i := len(page.Cells) - 1; i >= 0; i-- {
			stack = append(stack, page.Cells[i].LeftChild)
		}
	}
	return nil
}

// materializeRow decodes a table-leaf cell's payload into a Row, failing
// with ErrUnsupported if the cell's payload overflowed to a chain this
// engine does not chase.
func materializeRow(cell Cell, rowidAliasIndex int) (*Row, error) {
	if cell.Overflow {
		return nil, ctxErr("materialize_row", ErrUnsupported, "reason", "payload overflow chain")
	}
	rec, err := decodeRecord(cell.Payload)
	if err != nil {
		return nil, err
	}
	values := rec.Values
	if rowidAliasIndex >= 0 && rowidAliasIndex < len(values) {
		values[rowidAliasIndex] = IntValue(int64(cell.Rowid))
	}
	return &Row{Rowid: cell.Rowid, Values: values}, nil
}
