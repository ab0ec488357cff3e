package dataset

import (
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads every row of the configured table from a SQLite file.
func LoadSQLite(path string, opts Options) (*Store, error) {
	opts = opts.withDefaults()
	if !tableName.MatchString(opts.Table) {
		return nil, fmt.Errorf("invalid table name %q", opts.Table)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM "%s"`, opts.Table))
	if err != nil {
		return nil, fmt.Errorf("query table %s: %w", opts.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	records := [][]string{cols}
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(records), err)
		}
		row := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		records = append(records, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return FromRecords(path+"#"+opts.Table, records, opts)
}

// WriteSQLite stores every row of s into table, replacing any existing table
// of the same name.
func WriteSQLite(path, table string, s *Store) error {
	if !tableName.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cols := append([]string{s.teamCol, s.playerCol}, s.columns...)
	defs := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		kind := "REAL"
		if i < 2 {
			kind = "TEXT NOT NULL"
		}
		defs[i] = strconv.Quote(c) + " " + kind
		marks[i] = "?"
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table)); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE "%s" (%s)`, table, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO "%s" VALUES (%s)`, table, strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range s.records {
		args := make([]interface{}, 0, len(cols))
		args = append(args, rec.Team, rec.Player)
		for _, c := range s.columns {
			args = append(args, rec.Stats[c])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %d: %w", rec.Row, err)
		}
	}
	return tx.Commit()
}
