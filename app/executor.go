package main

// QueryResult is the executor's output: either a row set (one []string
// per matching row, already rendered for display) or a scalar count.
type QueryResult struct {
	Kind    SelectKind
	Columns []string
	Rows    [][]string
	Count   int
}

// executeQuery resolves a parsed Query against the database's schema and
// runs it: a full table scan with the WHERE conditions applied as an
// equality predicate, projecting either the requested columns or a
// COUNT(*).
func executeQuery(db *Database, q *Query) (*QueryResult, error) {
	table, err := resolveTable(db.objects, q.TableName)
	if err != nil {
		return nil, err
	}

	var projIndices []int
	if q.Kind == SelectColumns {
		projIndices = make([]int, len(q.Columns))
		for i, col := range q.Columns {
			idx := columnIndex(table.Columns, col)
			if idx < 0 {
				return nil, unresolvedErr("execute_query", ErrColumnNotFound, "column", col)
			}
			projIndices[i] = idx
		}
	}

	terms, err := resolveConditions(q.Where, table)
	if err != nil {
		return nil, err
	}
	pred := newEqualityPredicate(terms)

	result := &QueryResult{Kind: q.Kind, Columns: q.Columns}
	err = traverseTable(db.pages, table.RootPage, db.usableSize, db.visitBudget, table.RowidAliasIndex, pred, func(row Row) error {
		switch q.Kind {
		case SelectCountStar:
			result.Count++
		case SelectColumns:
			rendered := make([]string, len(projIndices))
			for i, idx := range projIndices {
				if idx < len(row.Values) {
					rendered[i] = row.Values[idx].String()
				}
			}
			result.Rows = append(result.Rows, rendered)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
