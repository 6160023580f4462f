package sqlexec

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaplite/pkg/completion"
)

// Catalog queries. Internal sqlite_% objects are invisible to completion,
// matching what the shell's listing commands show.
const (
	relationColumnsQuery = `
		SELECT m.name, m.type, p.name
		FROM sqlite_master m
		JOIN pragma_table_info(m.name) p
		WHERE m.type IN ('table', 'view') AND m.name NOT LIKE 'sqlite_%'
		ORDER BY m.name, p.cid
	`

	indexNamesQuery = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'index' AND name NOT LIKE 'sqlite_%'
		ORDER BY 1
	`

	databaseListQuery = `PRAGMA database_list`

	pragmaNamesQuery = `SELECT name FROM pragma_pragma_list ORDER BY 1`
)

// LoadSnapshot reads the catalog into an immutable completion snapshot. The
// four catalog reads run concurrently; any failure abandons the whole load
// so a snapshot is never partially populated.
func (e *Executor) LoadSnapshot(ctx context.Context) (*completion.Snapshot, error) {
	var (
		tables  map[string][]string
		views   map[string][]string
		indexes []string
		schemas []string
		pragmas []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tables, views, err = e.relationColumns(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		indexes, err = e.stringColumn(ctx, indexNamesQuery)
		return err
	})
	g.Go(func() error {
		var err error
		schemas, err = e.databaseNames(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		pragmas, err = e.stringColumn(ctx, pragmaNamesQuery)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load schema metadata: %w", err)
	}

	return completion.NewSnapshot(tables, views, indexes, schemas, pragmas), nil
}

// relationColumns loads every table and view with its columns in schema
// order, in a single pass over sqlite_master joined with pragma_table_info.
func (e *Executor) relationColumns(ctx context.Context) (map[string][]string, map[string][]string, error) {
	rows, err := e.db.QueryContext(ctx, relationColumnsQuery)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	tables := make(map[string][]string)
	views := make(map[string][]string)
	for rows.Next() {
		var relation, relType, column string
		if err := rows.Scan(&relation, &relType, &column); err != nil {
			return nil, nil, err
		}
		if relType == "view" {
			views[relation] = append(views[relation], column)
		} else {
			tables[relation] = append(tables[relation], column)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return tables, views, nil
}

func (e *Executor) stringColumn(ctx context.Context, query string) ([]string, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// databaseNames returns the attached database names (main, temp, and any
// ATTACHed files) from PRAGMA database_list.
func (e *Executor) databaseNames(ctx context.Context) ([]string, error) {
	rows, err := e.db.QueryContext(ctx, databaseListQuery)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var seq int
		var name, file string
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
