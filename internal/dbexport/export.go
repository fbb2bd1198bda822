// Package dbexport packages the SQLite database for sharing: a checkpointed
// copy, the schema as SQL and markdown, sample rows as JSON, a README and a
// zip of the whole directory.
package dbexport

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const sampleRows = 10

// SampleTables are dumped to sample_data.json.
var SampleTables = []string{"players", "player_game_stats", "game_lines"}

type Exporter struct {
	dbPath    string
	exportDir string
	logger    *logrus.Logger
	now       func() time.Time
}

type Result struct {
	Name        string `json:"name"`
	Dir         string `json:"dir"`
	Archive     string `json:"archive"`
	DBSize      int64  `json:"db_size_bytes"`
	ArchiveSize int64  `json:"archive_size_bytes"`
}

func NewExporter(dbPath, exportDir string, logger *logrus.Logger) *Exporter {
	return &Exporter{dbPath: dbPath, exportDir: exportDir, logger: logger, now: time.Now}
}

// DefaultName is used when no export name is given.
func DefaultName(t time.Time) string {
	return "nfl_db_export_" + t.Format("20060102_150405")
}

func (e *Exporter) Export(name string) (*Result, error) {
	info, err := os.Stat(e.dbPath)
	if err != nil {
		return nil, fmt.Errorf("database not found: %s", e.dbPath)
	}
	now := e.now()
	if name == "" {
		name = DefaultName(now)
	}
	dir := filepath.Join(e.exportDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	log := e.logger.WithField("export", name)

	if err := database.Checkpoint(e.dbPath); err != nil {
		return nil, err
	}
	log.Info("WAL checkpointed")

	dbName := filepath.Base(e.dbPath)
	if err := database.CopyFile(e.dbPath, filepath.Join(dir, dbName)); err != nil {
		return nil, fmt.Errorf("copy database: %w", err)
	}
	log.WithField("size_mb", megabytes(info.Size())).Info("Database copied")

	db, err := database.OpenSQLiteFile(e.dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	steps := []struct {
		file  string
		write func(*sql.DB, io.Writer) error
	}{
		{"schema.sql", writeSchemaSQL},
		{"SCHEMA.md", func(db *sql.DB, w io.Writer) error { return writeSchemaDocs(db, w, now) }},
		{"sample_data.json", writeSampleData},
		{"README.md", func(_ *sql.DB, w io.Writer) error { return writeReadme(w, dbName, info.Size(), now) }},
	}
	for _, step := range steps {
		if err := writeFile(filepath.Join(dir, step.file), func(w io.Writer) error { return step.write(db, w) }); err != nil {
			return nil, fmt.Errorf("write %s: %w", step.file, err)
		}
		log.WithField("file", step.file).Debug("Export file written")
	}

	archive := filepath.Join(e.exportDir, name+".zip")
	if err := zipDir(dir, archive); err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	archiveInfo, err := os.Stat(archive)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"dir":     dir,
		"archive": archive,
		"size_mb": megabytes(archiveInfo.Size()),
	}).Info("Export complete")

	return &Result{
		Name:        name,
		Dir:         dir,
		Archive:     archive,
		DBSize:      info.Size(),
		ArchiveSize: archiveInfo.Size(),
	}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSchemaSQL(db *sql.DB, w io.Writer) error {
	rows, err := db.Query("SELECT sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY type, name")
	if err != nil {
		return err
	}
	defer rows.Close()

	var stmts []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return err
		}
		stmts = append(stmts, stmt)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = io.WriteString(w, strings.Join(stmts, "\n\n")+";\n")
	return err
}

func writeSchemaDocs(db *sql.DB, w io.Writer, now time.Time) error {
	tables, err := database.ListTables(db)
	if err != nil {
		return err
	}
	p := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString("# NFL Database Schema\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	for _, table := range tables {
		fmt.Fprintf(&b, "## Table: `%s`\n\n", table)

		cols, err := database.TableColumns(db, table)
		if err != nil {
			return err
		}
		b.WriteString("| Column | Type | Not Null | Default | Primary Key |\n")
		b.WriteString("|--------|------|----------|---------|-------------|\n")
		for _, c := range cols {
			dflt := "NULL"
			if c.DefaultValue.Valid && c.DefaultValue.String != "" {
				dflt = c.DefaultValue.String
			}
			fmt.Fprintf(&b, "| `%s` | %s | %t | %s | %t |\n", c.Name, c.Type, c.NotNull, dflt, c.PrimaryKey > 0)
		}

		var count int64
		if err := db.QueryRow("SELECT COUNT(*) FROM " + pq.QuoteIdentifier(table)).Scan(&count); err != nil {
			return err
		}
		b.WriteString(p.Sprintf("\n**Row count:** %d\n\n", count))

		sample, err := selectRows(db, table, 2)
		if err != nil {
			return err
		}
		if len(sample) > 0 {
			data, err := json.Marshal(sample)
			if err != nil {
				return err
			}
			b.WriteString("**Sample rows:**\n```\n")
			b.Write(data)
			b.WriteString("\n```\n\n")
		}
		b.WriteString("---\n\n")
	}

	_, err = io.WriteString(w, b.String())
	return err
}

// writeSampleData dumps the first rows of each sample table. A table that
// cannot be read is written as an empty list.
func writeSampleData(db *sql.DB, w io.Writer) error {
	samples := make(map[string][]map[string]interface{}, len(SampleTables))
	for _, table := range SampleTables {
		rows, err := selectRows(db, table, sampleRows)
		if err != nil {
			rows = []map[string]interface{}{}
		}
		samples[table] = rows
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(samples)
}

func selectRows(db *sql.DB, table string, limit int) ([]map[string]interface{}, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s LIMIT %d", pq.QuoteIdentifier(table), limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func zipDir(dir, archive string) error {
	f, err := os.Create(archive)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)

	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		dst, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(dst, src)
		return err
	})
	if walkErr != nil {
		zw.Close()
		f.Close()
		return walkErr
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func megabytes(n int64) string {
	return fmt.Sprintf("%.1f", float64(n)/1024/1024)
}
