package completion

import (
	"sort"
	"strings"
)

// Metadata supplies the schema names the matcher turns into candidates. All
// methods must be safe for concurrent readers; the engine never mutates what
// they return.
type Metadata interface {
	// Tables returns table names in display casing.
	Tables() []string
	// Views returns view names in display casing.
	Views() []string
	// Columns returns the columns of a table or view in schema order. The
	// lookup is case-insensitive; unknown names return nil.
	Columns(table string) []string
	// Indexes returns index names.
	Indexes() []string
	// Schemas returns attached database names (main, temp, ...).
	Schemas() []string
	// Pragmas returns pragma names.
	Pragmas() []string
}

// Snapshot is an immutable Metadata built from one read of the catalog.
// Refreshing produces a new Snapshot; readers holding an old one keep a
// consistent view.
type Snapshot struct {
	tables  []string
	views   []string
	indexes []string
	schemas []string
	pragmas []string
	columns map[string][]string
}

// NewSnapshot copies its inputs into a Snapshot. The tables and views maps
// associate each name with its columns in schema order; name lists come out
// sorted case-insensitively.
func NewSnapshot(tables, views map[string][]string, indexes, schemas, pragmas []string) *Snapshot {
	s := &Snapshot{
		tables:  make([]string, 0, len(tables)),
		views:   make([]string, 0, len(views)),
		indexes: copySorted(indexes),
		schemas: copySorted(schemas),
		pragmas: copySorted(pragmas),
		columns: make(map[string][]string, len(tables)+len(views)),
	}
	for name, cols := range tables {
		s.tables = append(s.tables, name)
		s.columns[strings.ToLower(name)] = append([]string(nil), cols...)
	}
	for name, cols := range views {
		s.views = append(s.views, name)
		s.columns[strings.ToLower(name)] = append([]string(nil), cols...)
	}
	sortFold(s.tables)
	sortFold(s.views)
	return s
}

// EmptySnapshot is the snapshot of a database with no objects. It is valid
// metadata: completion over it yields no schema candidates but no error.
func EmptySnapshot() *Snapshot {
	return NewSnapshot(nil, nil, nil, nil, nil)
}

func (s *Snapshot) Tables() []string  { return append([]string(nil), s.tables...) }
func (s *Snapshot) Views() []string   { return append([]string(nil), s.views...) }
func (s *Snapshot) Indexes() []string { return append([]string(nil), s.indexes...) }
func (s *Snapshot) Schemas() []string { return append([]string(nil), s.schemas...) }
func (s *Snapshot) Pragmas() []string { return append([]string(nil), s.pragmas...) }

func (s *Snapshot) Columns(table string) []string {
	cols, ok := s.columns[strings.ToLower(table)]
	if !ok {
		return nil
	}
	return append([]string(nil), cols...)
}

// Relations returns tables and views together, the set usable in a FROM
// clause.
func (s *Snapshot) Relations() []string {
	all := make([]string, 0, len(s.tables)+len(s.views))
	all = append(all, s.tables...)
	all = append(all, s.views...)
	sortFold(all)
	return all
}

// Empty reports whether the snapshot holds no tables or views.
func (s *Snapshot) Empty() bool {
	return len(s.tables) == 0 && len(s.views) == 0
}

func copySorted(names []string) []string {
	out := append([]string(nil), names...)
	sortFold(out)
	return out
}

func sortFold(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
}
