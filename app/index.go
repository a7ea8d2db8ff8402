package main

// IndexInformation describes an index object found in the schema: enough
// to locate its root page, but the executor never consults it for
// correctness: query execution always runs a full table scan.
type IndexInformation struct {
	Name      string
	TableName string
	RootPage  uint32
}

// indexesForTable returns every index object rooted against the named
// table, in schema order.
func indexesForTable(objects []ObjectInformation, tableName string) []IndexInformation {
	var indexes []IndexInformation
	for _, obj := range objects {
		if obj.ObjectType != "index" || obj.TableName != tableName {
			continue
		}
		indexes = append(indexes, IndexInformation{
			Name:      obj.Name,
			TableName: obj.TableName,
			RootPage:  obj.RootPage,
		})
	}
	return indexes
}

// IndexCursor walks an index B-tree's shape without ever yielding rows:
// it exists so the page decoder's index-page cases have a caller to
// exercise them, not to accelerate query execution. FindCandidateRowids
// is the hook a query planner would call if index-assisted lookups were
// ever implemented; for now it always reports ErrUnsupported so a caller
// can never silently get a partial result from a half-finished index
// path.
type IndexCursor struct {
	pages       *PageSource
	usableSize  uint32
	visitBudget uint32
	rootPage    uint32
}

func newIndexCursor(pages *PageSource, usableSize uint32, visitBudget uint32, rootPage uint32) *IndexCursor {
	return &IndexCursor{pages: pages, usableSize: usableSize, visitBudget: visitBudget, rootPage: rootPage}
}

// walk visits every page of the index B-tree, validating its shape
// (interior/leaf index pages only) without decoding cell payloads into
// values. It is used by tests to confirm an index tree is at least
// structurally well-formed; the executor never calls it.
func (c *IndexCursor) walk() error {
	stack := []uint32{c.rootPage}
	visited := uint32(0)
	for len(stack) > 0 {
		visited++
		if visited > c.visitBudget {
			return ctxErr("index_cursor_walk", ErrCorruptTree, "reason", "visit budget exceeded")
		}
		pageNumber := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		raw, err := c.pages.ReadPage(pageNumber)
		if err != nil {
			return err
		}
		page, err := decodeBTreePage(raw, pageNumber, c.usableSize)
		if err != nil {
			return err
		}
		if !page.Header.PageType.IsIndex() {
			return ctxErr("index_cursor_walk", ErrCorruptTree, "page_type", page.Header.PageType)
		}
		if page.Header.PageType.IsLeaf() {
			continue
		}
		stack = append(stack, page.Header.RightMostPointer)
		for i := len(page.Cells) - 1; i >= 0; i-- {
			stack = append(stack, page.Cells[i].LeftChild)
		}
	}
	return nil
}

// FindCandidateRowids is the entry point a query planner would use to
// narrow a scan via an index; it is never wired into executeQuery.
func (c *IndexCursor) FindCandidateRowids(literal Value) ([]uint64, error) {
	return nil, ctxErr("find_candidate_rowids", ErrUnsupported, "reason", "index-assisted lookup not implemented")
}
