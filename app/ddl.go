package main

import "strings"

// extractColumns pulls the ordered column names out of a
// `CREATE TABLE <name> (<col-defs>)` string, and reports which column (if
// any) is the INTEGER PRIMARY KEY rowid alias.
//
// The parenthesized column-definition block is the outermost balanced
// parenthesis pair; it is split on top-level commas (commas nested inside
// a further paren pair, e.g. a CHECK(...) constraint, are not split
// points), and the first whitespace-delimited token of each definition is
// taken as the column name.
func extractColumns(ddl string) (columns []string, rowidAliasIndex int, err error) {
	block, err := extractColumnBlock(ddl)
	if err != nil {
		return nil, -1, err
	}

	defs := splitTopLevel(block, ',')
	rowidAliasIndex = -1
	for i, def := range defs {
		def = strings.TrimSpace(def)
		if def == "" {
			continue
		}
		name, rest := firstToken(def)
		if name == "" {
			continue
		}
		columns = append(columns, stripQuotes(name))
		if isIntegerPrimaryKey(rest) {
			rowidAliasIndex = len(columns) - 1
		}
	}

	if len(columns) == 0 {
		return nil, -1, ctxErr("extract_columns", ErrUnparseableDDL, "ddl", ddl)
	}
	return columns, rowidAliasIndex, nil
}

// extractColumnBlock isolates the text between the outermost balanced
// parentheses in ddl.
func extractColumnBlock(ddl string) (string, error) {
	start := strings.IndexByte(ddl, '(')
	if start < 0 {
		return "", ctxErr("extract_column_block", ErrUnparseableDDL, "reason", "no opening paren")
	}
	depth := 0
	for i := start; i < len(ddl); i++ {
		switch ddl[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return ddl[start+1 : i], nil
			}
		}
	}
	return "", ctxErr("extract_column_block", ErrUnparseableDDL, "reason", "unbalanced parens")
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside
// parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		default:
			if s[i] == sep && depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// firstToken returns the first whitespace-delimited token of s and the
// remainder of the string (used to scan the rest of a column definition
// for "INTEGER PRIMARY KEY").
func firstToken(s string) (token string, rest string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if s[0] == '"' || s[0] == '`' || s[0] == '\'' {
		quote := s[0]
		for i := 1; i < len(s); i++ {
			if s[i] == quote {
				return s[:i+1], s[i+1:]
			}
		}
		return s, ""
	}
	if s[0] == '[' {
		if idx := strings.IndexByte(s, ']'); idx >= 0 {
			return s[:idx+1], s[idx+1:]
		}
	}
	idx := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx:]
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '`' && last == '`') ||
			(first == '\'' && last == '\'') || (first == '[' && last == ']') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// isIntegerPrimaryKey reports whether a column definition's type/constraint
// tokens declare it INTEGER PRIMARY KEY, case-insensitively and regardless
// of whether AUTOINCREMENT or other constraints follow.
func isIntegerPrimaryKey(rest string) bool {
	upper := strings.ToUpper(rest)
	hasInteger := strings.Contains(upper, "INTEGER")
	hasPrimaryKey := strings.Contains(upper, "PRIMARY") && strings.Contains(upper, "KEY")
	return hasInteger && hasPrimaryKey
}
