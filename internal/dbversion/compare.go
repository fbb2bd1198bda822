package dbversion

import (
	"fmt"
	"sort"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/database"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
)

// TableDiff describes how one table changed between two versions.
type TableDiff struct {
	Table          string   `json:"table"`
	ColumnsAdded   []string `json:"columns_added,omitempty"`
	ColumnsRemoved []string `json:"columns_removed,omitempty"`
	TypesChanged   []string `json:"types_changed,omitempty"`
}

type SchemaDiff struct {
	From          string      `json:"from"`
	To            string      `json:"to"`
	TablesAdded   []string    `json:"tables_added"`
	TablesRemoved []string    `json:"tables_removed"`
	Changed       []TableDiff `json:"changed"`
}

func (d *SchemaDiff) Empty() bool {
	return len(d.TablesAdded) == 0 && len(d.TablesRemoved) == 0 && len(d.Changed) == 0
}

// Compare diffs the schemas of two versions table by table.
func (m *Manager) Compare(from, to string) (*SchemaDiff, error) {
	versions, err := m.Load()
	if err != nil {
		return nil, err
	}
	a, okA := versions[from]
	b, okB := versions[to]
	if !okA || !okB {
		return nil, fmt.Errorf("compare %q and %q: %w", from, to, utils.ErrVersionNotFound)
	}

	schemaA, err := columnTypes(m.path(a.File))
	if err != nil {
		return nil, err
	}
	schemaB, err := columnTypes(m.path(b.File))
	if err != nil {
		return nil, err
	}
	return diffSchemas(from, to, schemaA, schemaB), nil
}

func columnTypes(path string) (map[string]map[string]string, error) {
	db, err := database.OpenSQLiteFile(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tables, err := database.ListTables(db)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]string, len(tables))
	for _, t := range tables {
		cols, err := database.TableColumns(db, t)
		if err != nil {
			return nil, err
		}
		types := make(map[string]string, len(cols))
		for _, c := range cols {
			types[c.Name] = c.Type
		}
		out[t] = types
	}
	return out, nil
}

func diffSchemas(from, to string, a, b map[string]map[string]string) *SchemaDiff {
	diff := &SchemaDiff{
		From:          from,
		To:            to,
		TablesAdded:   []string{},
		TablesRemoved: []string{},
		Changed:       []TableDiff{},
	}

	for table := range b {
		if _, ok := a[table]; !ok {
			diff.TablesAdded = append(diff.TablesAdded, table)
		}
	}
	for table, colsA := range a {
		colsB, ok := b[table]
		if !ok {
			diff.TablesRemoved = append(diff.TablesRemoved, table)
			continue
		}

		td := TableDiff{Table: table}
		for col, typ := range colsB {
			prev, ok := colsA[col]
			switch {
			case !ok:
				td.ColumnsAdded = append(td.ColumnsAdded, col)
			case prev != typ:
				td.TypesChanged = append(td.TypesChanged, fmt.Sprintf("%s: %s -> %s", col, prev, typ))
			}
		}
		for col := range colsA {
			if _, ok := colsB[col]; !ok {
				td.ColumnsRemoved = append(td.ColumnsRemoved, col)
			}
		}
		if len(td.ColumnsAdded)+len(td.ColumnsRemoved)+len(td.TypesChanged) > 0 {
			sort.Strings(td.ColumnsAdded)
			sort.Strings(td.ColumnsRemoved)
			sort.Strings(td.TypesChanged)
			diff.Changed = append(diff.Changed, td)
		}
	}

	sort.Strings(diff.TablesAdded)
	sort.Strings(diff.TablesRemoved)
	sort.Slice(diff.Changed, func(i, j int) bool { return diff.Changed[i].Table < diff.Changed[j].Table })
	return diff
}
