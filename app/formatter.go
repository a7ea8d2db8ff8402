package main

import (
	"fmt"
	"strconv"
	"strings"
)

// formatDBInfo renders the `.dbinfo` command's two summary lines.
func formatDBInfo(header *Header, tableCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "database page size: %d\n", header.PageSize)
	fmt.Fprintf(&b, "number of tables: %d\n", tableCount)
	return b.String()
}

// formatTableNames renders the `.tables` command's space-separated list.
func formatTableNames(names []string) string {
	return strings.Join(names, " ")
}

// formatQueryResult renders a query's rows, one per line, with values
// joined by '|': strings raw, integers in plain decimal, NULLs as the
// empty string. COUNT(*) renders as a single line holding the count.
func formatQueryResult(result *QueryResult) string {
	if result.Kind == SelectCountStar {
		return strconv.Itoa(result.Count)
	}
	lines := make([]string, len(result.Rows))
	for i, row := range result.Rows {
		lines[i] = strings.Join(row, "|")
	}
	return strings.Join(lines, "\n")
}
