package main

// schemaRootPage is the fixed root page of sqlite_schema.
const schemaRootPage = 1

// ObjectInformation is a single row of sqlite_schema, decoded but not
// further interpreted.
type ObjectInformation struct {
	ObjectType string // "table", "index", "view", "trigger"
	Name       string
	TableName  string
	RootPage   uint32
	SQL        string
}

// TableInformation is the schema-level description of one table: its
// column list (in declaration order) and, if present, which column is
// the INTEGER PRIMARY KEY rowid alias.
type TableInformation struct {
	Name            string
	RootPage        uint32
	DDL             string
	Columns         []string
	RowidAliasIndex int // -1 if the table has no rowid alias
}

// readSchema traverses the schema B-tree rooted at page 1 and returns
// every object it finds, in on-disk order.
func readSchema(ps *PageSource, usableSize uint32, visitBudget uint32) ([]ObjectInformation, error) {
	var objects []ObjectInformation
	err := traverseTable(ps, schemaRootPage, usableSize, visitBudget, -1, alwaysTrue(), func(row Row) error {
		obj, err := decodeSchemaRow(row)
		if err != nil {
			return err
		}
		objects = append(objects, obj)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return objects, nil
}

// decodeSchemaRow maps a raw sqlite_schema row onto ObjectInformation.
// sqlite_schema's columns are fixed: type, name, tbl_name, rootpage, sql.
func decodeSchemaRow(row Row) (ObjectInformation, error) {
	if len(row.Values) < 5 {
		return ObjectInformation{}, ctxErr("decode_schema_row", ErrMalformedRecord, "columns", len(row.Values))
	}
	var rootPage uint32
	if row.Values[3].Kind == ValueKindInt {
		rootPage = uint32(row.Values[3].Int)
	}
	return ObjectInformation{
		ObjectType: row.Values[0].String(),
		Name:       row.Values[1].String(),
		TableName:  row.Values[2].String(),
		RootPage:   rootPage,
		SQL:        row.Values[4].String(),
	}, nil
}

// resolveTable finds a table object by name in the schema and extracts
// its column list from its CREATE TABLE DDL.
func resolveTable(objects []ObjectInformation, name string) (*TableInformation, error) {
	for _, obj := range objects {
		if obj.ObjectType != "table" || obj.Name != name {
			continue
		}
		columns, rowidAliasIndex, err := extractColumns(obj.SQL)
		if err != nil {
			return nil, err
		}
		return &TableInformation{
			Name:            obj.Name,
			RootPage:        obj.RootPage,
			DDL:             obj.SQL,
			Columns:         columns,
			RowidAliasIndex: rowidAliasIndex,
		}, nil
	}
	return nil, unresolvedErr("resolve_table", ErrTableNotFound, "name", name)
}

// tableNames returns the names of every table object in the schema, in
// on-disk order, excluding SQLite's own internal sqlite_ prefixed objects.
func tableNames(objects []ObjectInformation) []string {
	var names []string
	for _, obj := range objects {
		if obj.ObjectType != "table" {
			continue
		}
		if len(obj.Name) >= 7 && obj.Name[:7] == "sqlite_" {
			continue
		}
		names = append(names, obj.Name)
	}
	return names
}
