package main

import (
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// SelectKind is the closed set of things a SELECT clause this engine
// accepts can project: named columns, or the sole count_star aggregate.
type SelectKind int

const (
	SelectColumns SelectKind = iota
	SelectCountStar
)

// Query is the parsed form of a SELECT statement in the accepted shape,
// with WHERE conditions already reduced to equality terms. Table and
// column names are not checked against the schema here; executeQuery
// resolves them.
type Query struct {
	TableName string
	Kind      SelectKind
	Columns   []string // column names in projection order, SelectColumns only
	Where     []rawCondition
}

type rawCondition struct {
	column  string
	literal Value
}

// parseQuery parses sql with sqlparser and validates it against the
// narrow SELECT surface this engine supports: `SELECT <cols|count(*)>
// FROM <table> [WHERE <col> = <literal> [AND <col> = <literal>]...]`.
// Anything outside that shape -- JOINs, OR, non-equality operators,
// subqueries, DML -- is rejected with ErrSqlParse rather than partially
// honored.
func parseQuery(sql string) (*Query, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, wrapErr("parse_query", ErrSqlParse, map[string]interface{}{"sql": sql, "error": err.Error()})
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, ctxErr("parse_query", ErrSqlParse, "reason", "only SELECT statements are supported")
	}
	if sel.Distinct != "" || len(sel.GroupBy) > 0 || sel.Having != nil || len(sel.OrderBy) > 0 || sel.Limit != nil {
		return nil, ctxErr("parse_query", ErrSqlParse, "reason", "DISTINCT, GROUP BY, HAVING, ORDER BY and LIMIT are not supported")
	}
	if len(sel.From) != 1 {
		return nil, ctxErr("parse_query", ErrSqlParse, "reason", "exactly one FROM table is required")
	}
	aliased, ok := sel.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, ctxErr("parse_query", ErrSqlParse, "reason", "unsupported FROM expression")
	}
	tableName, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return nil, ctxErr("parse_query", ErrSqlParse, "reason", "unsupported table reference")
	}

	q := &Query{TableName: tableName.Name.String()}

	var columns []string
	var hasCountStar bool
	for _, expr := range sel.SelectExprs {
		aliasedExpr, ok := expr.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, ctxErr("parse_query", ErrSqlParse, "reason", "unsupported select expression")
		}
		switch inner := aliasedExpr.Expr.(type) {
		case *sqlparser.FuncExpr:
			name := strings.ToLower(inner.Name.String())
			if name != "count" {
				return nil, ctxErr("parse_query", ErrSqlParse, "reason", "unsupported function: "+name)
			}
			if len(inner.Exprs) != 1 {
				return nil, ctxErr("parse_query", ErrSqlParse, "reason", "only count(*) is supported")
			}
			if _, isStar := inner.Exprs[0].(*sqlparser.StarExpr); !isStar {
				return nil, ctxErr("parse_query", ErrSqlParse, "reason", "only count(*) is supported")
			}
			hasCountStar = true
		case *sqlparser.ColName:
			columns = append(columns, inner.Name.String())
		default:
			return nil, ctxErr("parse_query", ErrSqlParse, "reason", "unsupported select expression")
		}
	}

	switch {
	case hasCountStar && len(columns) == 0:
		q.Kind = SelectCountStar
	case !hasCountStar && len(columns) > 0:
		q.Kind = SelectColumns
		q.Columns = columns
	default:
		return nil, ctxErr("parse_query", ErrSqlParse, "reason", "count(*) cannot be mixed with column projections")
	}

	if sel.Where != nil {
		conditions, err := flattenWhere(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
		q.Where = conditions
	}

	return q, nil
}

// flattenWhere reduces a WHERE expression to an AND-joined list of
// equality conditions, rejecting OR, non-equality comparisons, and any
// other expression shape.
func flattenWhere(expr sqlparser.Expr) ([]rawCondition, error) {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		left, err := flattenWhere(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := flattenWhere(e.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	case *sqlparser.ParenExpr:
		return flattenWhere(e.Expr)
	case *sqlparser.ComparisonExpr:
		if e.Operator != sqlparser.EqualStr {
			return nil, ctxErr("parse_query", ErrSqlParse, "reason", "only equality conditions are supported")
		}
		colName, ok := e.Left.(*sqlparser.ColName)
		if !ok {
			return nil, ctxErr("parse_query", ErrSqlParse, "reason", "left side of WHERE condition must be a column")
		}
		literal, err := literalFromExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return []rawCondition{{column: colName.Name.String(), literal: literal}}, nil
	default:
		return nil, ctxErr("parse_query", ErrSqlParse, "reason", "unsupported WHERE expression")
	}
}

// literalFromExpr extracts a literal Value out of the right-hand side of
// an equality condition.
func literalFromExpr(expr sqlparser.Expr) (Value, error) {
	sqlVal, ok := expr.(*sqlparser.SQLVal)
	if !ok {
		return Value{}, ctxErr("parse_query", ErrSqlParse, "reason", "right side of WHERE condition must be a literal")
	}
	switch sqlVal.Type {
	case sqlparser.StrVal:
		return TextValue(string(sqlVal.Val)), nil
	case sqlparser.IntVal:
		n, err := strconv.ParseInt(string(sqlVal.Val), 10, 64)
		if err != nil {
			return Value{}, wrapErr("parse_query", ErrSqlParse, map[string]interface{}{"reason": "malformed integer literal", "error": err.Error()})
		}
		return IntValue(n), nil
	default:
		return TextValue(string(sqlVal.Val)), nil
	}
}

// resolveConditions maps a query's raw WHERE conditions onto column
// indices within table, failing with ErrColumnNotFound if any referenced
// column does not exist.
func resolveConditions(conditions []rawCondition, table *TableInformation) ([]predicateTerm, error) {
	terms := make([]predicateTerm, 0, len(conditions))
	for _, cond := range conditions {
		idx := columnIndex(table.Columns, cond.column)
		if idx < 0 {
			return nil, unresolvedErr("resolve_conditions", ErrColumnNotFound, "column", cond.column)
		}
		terms = append(terms, predicateTerm{columnIndex: idx, literal: cond.literal})
	}
	return terms, nil
}

func columnIndex(columns []string, name string) int {
	for i, c := range columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}
