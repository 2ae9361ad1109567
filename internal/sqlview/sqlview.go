// Package sqlview mirrors a record registry into an in-memory SQLite
// database so its tables can be inspected with ad-hoc SQL.
//
// A View is a snapshot: later edits to the registry are not reflected until
// a new View is opened. Nothing is written to disk.
package sqlview

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/boxdata/pkg/store"
	"github.com/mesh-intelligence/boxdata/pkg/types"
)

// KeyColumn is the column holding each row's key.
const KeyColumn = "key"

// View is an in-memory SQLite copy of a registry.
type View struct {
	db      *sql.DB
	tables  map[string]string
	columns map[string][]string
}

// Result holds query output rendered as text. NULL renders as "NULL".
type Result struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Open copies every table of reg, including rows whose keys have been
// released, into a fresh in-memory database.
func Open(ctx context.Context, reg *store.Registry[uint32]) (*View, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	v := &View{db: db, tables: make(map[string]string), columns: make(map[string][]string)}
	names := reg.Names()
	for i, sqlName := range tableNames(names) {
		name := names[i]
		tbl, _ := reg.Table(name)
		v.tables[name] = sqlName
		if err := v.load(ctx, name, sqlName, tbl); err != nil {
			db.Close()
			return nil, fmt.Errorf("mirror table %s: %w", name, err)
		}
	}
	return v, nil
}

// Close releases the database.
func (v *View) Close() error {
	return v.db.Close()
}

// Table returns the SQL table name used for the registry table name.
func (v *View) Table(name string) (string, bool) {
	sqlName, ok := v.tables[name]
	return sqlName, ok
}

// Columns returns the SQL column names used for table, key column first.
func (v *View) Columns(table string) ([]string, bool) {
	cols, ok := v.columns[table]
	return cols, ok
}

// Query runs q and returns every row it produces.
func (v *View) Query(ctx context.Context, q string, args ...any) (*Result, error) {
	rows, err := v.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &Result{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, formatRow(vals))
	}
	return res, rows.Err()
}

func (v *View) load(ctx context.Context, name, sqlName string, tbl *store.Table[uint32]) error {
	schema := tbl.Schema()
	cols := columnNames(schema)
	v.columns[name] = cols

	defs := make([]string, len(cols))
	defs[0] = quoteIdent(KeyColumn) + " INTEGER PRIMARY KEY"
	for i, f := range schema {
		defs[i+1] = quoteIdent(cols[i+1]) + " " + sqlType(f.Type)
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(sqlName), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(sqlName), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for key, row := range tbl.All() {
		args[0] = int64(key)
		for i, val := range row {
			args[i+1] = sqlArg(val)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert key %d: %w", key, err)
		}
	}
	return tx.Commit()
}

// reservedPrefix starts the names SQLite keeps for its own tables.
const reservedPrefix = "sqlite_"

// tableNames picks one SQL table per registry name. Names are matched
// case-insensitively, so a later name that collides gets its position
// appended. Names in SQLite's reserved namespace are prefixed with "_".
func tableNames(names []string) []string {
	out := make([]string, 0, len(names))
	taken := make(map[string]bool, len(names))
	for i, n := range names {
		name := n
		if strings.HasPrefix(strings.ToLower(name), reservedPrefix) {
			name = "_" + name
		}
		if name == "" || taken[strings.ToLower(name)] {
			name = fmt.Sprintf("%s_%d", name, i)
		}
		for taken[strings.ToLower(name)] {
			name += "_"
		}
		taken[strings.ToLower(name)] = true
		out = append(out, name)
	}
	return out
}

// columnNames picks one SQL column per field. SQLite identifiers are
// case-insensitive, so a name already taken (including the key column) gets
// its field position appended.
func columnNames(schema []types.Field) []string {
	cols := make([]string, 0, len(schema)+1)
	cols = append(cols, KeyColumn)
	taken := map[string]bool{KeyColumn: true}
	for i, f := range schema {
		name := f.Name
		if name == "" || taken[strings.ToLower(name)] {
			name = fmt.Sprintf("%s_%d", f.Name, i)
		}
		for taken[strings.ToLower(name)] {
			name += "_"
		}
		taken[strings.ToLower(name)] = true
		cols = append(cols, name)
	}
	return cols
}

func sqlType(t types.DataType) string {
	switch t {
	case types.TypeF32:
		return "REAL"
	case types.TypeI32, types.TypeU32, types.TypeBool:
		return "INTEGER"
	case types.TypeChar, types.TypeString:
		return "TEXT"
	default:
		return "BLOB"
	}
}

// sqlArg converts a value to its driver representation. F32 goes through its
// display form so 0.1 is stored as 0.1 rather than its float32 widening.
func sqlArg(v types.Value) any {
	switch v.Type() {
	case types.TypeF32:
		f, _ := strconv.ParseFloat(v.String(), 64)
		return f
	case types.TypeI32:
		n, _ := v.I32()
		return int64(n)
	case types.TypeU32:
		n, _ := v.U32()
		return int64(n)
	case types.TypeChar:
		return v.String()
	case types.TypeBool:
		b, _ := v.Bool()
		if b {
			return int64(1)
		}
		return int64(0)
	case types.TypeString:
		s, _ := v.Str()
		return s
	default:
		return nil
	}
}

func formatRow(vals []any) []string {
	out := make([]string, len(vals))
	for i, val := range vals {
		switch x := val.(type) {
		case nil:
			out[i] = "NULL"
		case []byte:
			out[i] = string(x)
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
