package database

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Column mirrors one row of PRAGMA table_info.
type Column struct {
	CID          int            `json:"cid"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	NotNull      bool           `json:"notnull"`
	DefaultValue sql.NullString `json:"-"`
	PrimaryKey   int            `json:"pk"`
}

// OpenSQLiteFile opens a raw handle on a SQLite file for maintenance work
// that gorm does not cover (checkpoints, PRAGMA introspection).
func OpenSQLiteFile(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database file %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// HasWAL reports whether a write-ahead log sits next to the database file.
func HasWAL(path string) bool {
	_, err := os.Stat(path + "-wal")
	return err == nil
}

// Checkpoint folds the WAL back into the main database file so a plain file
// copy captures every committed transaction.
func Checkpoint(path string) error {
	db, err := OpenSQLiteFile(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec("PRAGMA wal_checkpoint(FULL)"); err != nil {
		return fmt.Errorf("wal checkpoint on %s: %w", path, err)
	}
	return nil
}

// ListTables returns user tables in name order.
func ListTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableColumns runs PRAGMA table_info for one table.
func TableColumns(db *sql.DB, table string) ([]Column, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", pq.QuoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		var notNull int
		if err := rows.Scan(&c.CID, &c.Name, &c.Type, &notNull, &c.DefaultValue, &c.PrimaryKey); err != nil {
			return nil, err
		}
		c.NotNull = notNull != 0
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// SchemaMap returns table name to column names for every user table.
func SchemaMap(path string) (map[string][]string, error) {
	db, err := OpenSQLiteFile(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tables, err := ListTables(db)
	if err != nil {
		return nil, err
	}

	schema := make(map[string][]string, len(tables))
	for _, t := range tables {
		cols, err := TableColumns(db, t)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(cols))
		for _, c := range cols {
			names = append(names, c.Name)
		}
		schema[t] = names
	}
	return schema, nil
}

// CopyFile copies src to dst, creating or truncating dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
