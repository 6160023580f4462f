package special_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplite/internal/special"
	"github.com/leapstack-labs/leaplite/internal/sqlexec"
)

func seedCatalog(t *testing.T) *sqlexec.Executor {
	t.Helper()
	exec := newExecutor(t)
	_, err := exec.Run(context.Background(), `
		CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, email TEXT);
		CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id));
		CREATE VIEW user_orders AS SELECT u.name, o.id FROM users u JOIN orders o ON o.user_id = u.id;
		CREATE INDEX idx_orders_user ON orders(user_id);
	`)
	require.NoError(t, err)
	return exec
}

func names(res sqlexec.Result) []string {
	out := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		out = append(out, row[0])
	}
	return out
}

func TestListTables(t *testing.T) {
	registry := special.NewRegistry()
	req := special.Request{Exec: seedCatalog(t)}

	results, err := registry.Execute(context.Background(), req, ".tables")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"name"}, results[0].Columns)
	assert.Equal(t, []string{"orders", "user_orders", "users"}, names(results[0]))
	assert.Empty(t, results[0].Status)
}

func TestListTablesWithPrefix(t *testing.T) {
	registry := special.NewRegistry()
	req := special.Request{Exec: seedCatalog(t)}

	results, err := registry.Execute(context.Background(), req, `\dt us`)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_orders", "users"}, names(results[0]))
}

func TestListViews(t *testing.T) {
	registry := special.NewRegistry()
	req := special.Request{Exec: seedCatalog(t)}

	results, err := registry.Execute(context.Background(), req, ".views")
	require.NoError(t, err)
	assert.Equal(t, []string{"user_orders"}, names(results[0]))
}

func TestListIndexes(t *testing.T) {
	registry := special.NewRegistry()
	req := special.Request{Exec: seedCatalog(t)}

	results, err := registry.Execute(context.Background(), req, ".indexes")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "sql"}, results[0].Columns)
	assert.Contains(t, names(results[0]), "idx_orders_user")

	results, err = registry.Execute(context.Background(), req, `\di orders`)
	require.NoError(t, err)
	assert.Equal(t, []string{"idx_orders_user"}, names(results[0]))

	results, err = registry.Execute(context.Background(), req, `\di users`)
	require.NoError(t, err)
	assert.Empty(t, results[0].Rows)
}

func TestShowSchema(t *testing.T) {
	registry := special.NewRegistry()
	req := special.Request{Exec: seedCatalog(t)}

	results, err := registry.Execute(context.Background(), req, ".schema users")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotEmpty(t, results[0].Rows)
	assert.Contains(t, results[0].Rows[0][0], "CREATE TABLE users")

	results, err = registry.Execute(context.Background(), req, ".schema")
	require.NoError(t, err)
	// The full schema covers both tables, the view, and the index.
	assert.GreaterOrEqual(t, len(results[0].Rows), 4)
}

func TestDescribeTable(t *testing.T) {
	registry := special.NewRegistry()
	req := special.Request{Exec: seedCatalog(t)}

	results, err := registry.Execute(context.Background(), req, `\d users`)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"cid", "name", "type", "notnull", "dflt_value", "pk"}, results[0].Columns)

	cols := make([]string, 0, len(results[0].Rows))
	for _, row := range results[0].Rows {
		cols = append(cols, row[1])
	}
	assert.Equal(t, []string{"id", "name", "email"}, cols)
}

func TestDescribeWithoutArgListsTables(t *testing.T) {
	registry := special.NewRegistry()
	req := special.Request{Exec: seedCatalog(t)}

	results, err := registry.Execute(context.Background(), req, "describe")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "user_orders", "users"}, names(results[0]))
}

func TestListDatabases(t *testing.T) {
	registry := special.NewRegistry()
	req := special.Request{Exec: seedCatalog(t)}

	results, err := registry.Execute(context.Background(), req, ".databases")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"seq", "name", "file"}, results[0].Columns)
	require.NotEmpty(t, results[0].Rows)
	assert.Equal(t, "main", results[0].Rows[0][1])
}
