package dbexport

import (
	"io"
	"text/template"
	"time"
)

var readmeTemplate = template.Must(template.New("readme").Parse(`# NFL Database Export

**Created:** {{.Created}}
**Database:** {{.DBName}}
**Size:** {{.SizeMB}} MB

## Contents

- ` + "`{{.DBName}}`" + ` - Full SQLite database (ready to query)
- ` + "`schema.sql`" + ` - Complete schema definition
- ` + "`SCHEMA.md`" + ` - Human-readable schema documentation
- ` + "`sample_data.json`" + ` - Sample rows from key tables

## Quick Start

### Option 1: Use the full DB
` + "```bash" + `
cp {{.DBName}} /path/to/your/project/data/
sqlite3 {{.DBName}} "SELECT COUNT(*) FROM players;"
` + "```" + `

### Option 2: Recreate from schema
` + "```bash" + `
sqlite3 new_db.db < schema.sql
` + "```" + `

### Option 3: Read the structure
See ` + "`SCHEMA.md`" + ` for every table and column.

## Key Tables

- **players** - Player profiles (name, position, team)
- **player_game_stats** - Per-game box score lines
- **game_lines** - Schedule with scores, spreads, totals and moneylines
- **smash_scores** - Materialized weekly matchup rankings

## Notes

- The database runs in WAL mode; .db-wal and .db-shm files may appear next to it.
- Player photos are keyed by ESPN id.
`))

type readmeData struct {
	Created string
	DBName  string
	SizeMB  string
}

func writeReadme(w io.Writer, dbName string, size int64, now time.Time) error {
	return readmeTemplate.Execute(w, readmeData{
		Created: now.Format("2006-01-02 15:04:05"),
		DBName:  dbName,
		SizeMB:  megabytes(size),
	})
}
