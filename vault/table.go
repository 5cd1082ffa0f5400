package vault

import (
	"context"
	"database/sql"
	"fmt"
)

type (
	TableDef struct {
		Name       string
		Columns    []ColumnDef
		PrimaryKey []string
		Indexes    []IndexDef
	}

	IndexDef struct {
		Name    string
		Unique  bool
		Columns []string
	}

	ColumnDef struct {
		Name     string
		Datatype string
		NotNull  bool
	}
)

// DescribeTable reads the schema of a vault table, columns and indexes are
// sorted by name.
func (c *Control) DescribeTable(ctx context.Context, name string) (*TableDef, error) {
	td, err := loadTableDef(ctx, c.db, name)
	if err != nil {
		return nil, fmt.Errorf("unable to describe table %v, cause %w", name, err)
	}
	return td, nil
}

func loadTableDef(ctx context.Context, db *sql.DB, name string) (*TableDef, error) {
	td := TableDef{
		Name: name,
	}

	type tableInfoRow struct {
		name     string
		datatype string
		notnull  bool
		pk       int
	}
	rows, err := db.QueryContext(ctx, `select name, type, [notnull], pk from pragma_table_info(?) order by name`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var row tableInfoRow
		err = rows.Scan(&row.name, &row.datatype, &row.notnull, &row.pk)
		if err != nil {
			return nil, err
		}
		td.Columns = append(td.Columns, ColumnDef{Name: row.name, Datatype: row.datatype, NotNull: row.notnull})
		if row.pk > 0 {
			td.PrimaryKey = append(td.PrimaryKey, row.name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(td.Columns) == 0 {
		return nil, sql.ErrNoRows
	}
	indexes, err := listIndexes(ctx, db, name)
	if err != nil {
		return nil, err
	}
	for _, idx := range indexes {
		idx.Columns, err = loadIndexColumns(ctx, db, idx.Name)
		if err != nil {
			return nil, err
		}
		td.Indexes = append(td.Indexes, idx)
	}
	return &td, nil
}

func loadIndexColumns(ctx context.Context, db *sql.DB, name string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `select name from pragma_index_info(?) order by seqno`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var columns []string
	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

func listIndexes(ctx context.Context, db *sql.DB, name string) ([]IndexDef, error) {
	rows, err := db.QueryContext(ctx, `select name, [unique] from pragma_index_list(?) order by name`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ret []IndexDef
	for rows.Next() {
		var idx IndexDef
		err = rows.Scan(&idx.Name, &idx.Unique)
		if err != nil {
			return nil, err
		}
		ret = append(ret, idx)
	}
	return ret, rows.Err()
}

// Covers reports whether an index of the table starts with column.
func (td *TableDef) Covers(column string) bool {
	for _, idx := range td.Indexes {
		if len(idx.Columns) > 0 && idx.Columns[0] == column {
			return true
		}
	}
	return false
}
