package special

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leaplite/internal/sqlexec"
)

func (r *Registry) registerDBCommands() {
	r.Register(&Command{
		Name:          ".tables",
		Shortcut:      `\dt`,
		Description:   "List tables.",
		Arg:           ParsedQuery,
		CaseSensitive: true,
		TableArg:      true,
		Aliases:       []string{`\dt`},
		Handler:       listTables,
	})
	r.Register(&Command{
		Name:          ".views",
		Shortcut:      `\dv`,
		Description:   "List views.",
		Arg:           ParsedQuery,
		CaseSensitive: true,
		TableArg:      true,
		Aliases:       []string{`\dv`},
		Handler:       listViews,
	})
	r.Register(&Command{
		Name:          ".indexes",
		Shortcut:      ".indexes [tablename]",
		Description:   "List indexes.",
		Arg:           ParsedQuery,
		CaseSensitive: true,
		TableArg:      true,
		Aliases:       []string{`\di`},
		Handler:       listIndexes,
	})
	r.Register(&Command{
		Name:          ".schema",
		Shortcut:      ".schema[+] [table]",
		Description:   "The complete schema for the database or a single table",
		Arg:           ParsedQuery,
		CaseSensitive: true,
		TableArg:      true,
		Handler:       showSchema,
	})
	r.Register(&Command{
		Name:          "describe",
		Shortcut:      `\d [table]`,
		Description:   "Description of a table",
		Arg:           ParsedQuery,
		CaseSensitive: true,
		TableArg:      true,
		Aliases:       []string{`\d`, "desc", ".describe"},
		Handler:       describeTable,
	})
	r.Register(&Command{
		Name:          ".databases",
		Shortcut:      ".databases",
		Description:   "List databases.",
		Arg:           RawQuery,
		CaseSensitive: true,
		Aliases:       []string{`\l`},
		Handler:       listDatabases,
	})
}

// catalogQuery runs query against the session database and strips the row
// count status, matching how the listing commands report.
func catalogQuery(ctx context.Context, req Request, query string, args ...any) ([]sqlexec.Result, error) {
	res, err := req.Exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	res.Status = ""
	return []sqlexec.Result{res}, nil
}

func listTables(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	if req.Arg != "" {
		query := `SELECT name FROM sqlite_master
			WHERE type IN ('table', 'view') AND name LIKE ? AND name NOT LIKE 'sqlite_%'
			ORDER BY 1`
		return catalogQuery(ctx, req, query, req.Arg+"%")
	}
	query := `SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY 1`
	return catalogQuery(ctx, req, query)
}

func listViews(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	if req.Arg != "" {
		query := `SELECT name FROM sqlite_master
			WHERE type = 'view' AND name LIKE ? AND name NOT LIKE 'sqlite_%'
			ORDER BY 1`
		return catalogQuery(ctx, req, query, req.Arg+"%")
	}
	query := `SELECT name FROM sqlite_master
		WHERE type = 'view' AND name NOT LIKE 'sqlite_%'
		ORDER BY 1`
	return catalogQuery(ctx, req, query)
}

func listIndexes(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	if req.Arg != "" {
		query := `SELECT name, sql FROM sqlite_master
			WHERE type = 'index' AND tbl_name LIKE ? AND name NOT LIKE 'sqlite_%'
			ORDER BY 1`
		return catalogQuery(ctx, req, query, req.Arg+"%")
	}
	query := `SELECT name, sql FROM sqlite_master
		WHERE type = 'index' AND name NOT LIKE 'sqlite_%'
		ORDER BY 1`
	return catalogQuery(ctx, req, query)
}

func showSchema(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	if req.Arg != "" {
		query := `SELECT sql FROM sqlite_master
			WHERE tbl_name == ? AND sql IS NOT NULL
			ORDER BY tbl_name, type DESC, name`
		return catalogQuery(ctx, req, query, req.Arg)
	}
	query := `SELECT sql FROM sqlite_master
		WHERE sql IS NOT NULL
		ORDER BY tbl_name, type DESC, name`
	return catalogQuery(ctx, req, query)
}

// describeTable shows the pragma_table_info columns of one table, or the
// table listing when no table is named. The name is interpolated because
// PRAGMA arguments cannot be bound.
func describeTable(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	if req.Arg == "" {
		return listTables(ctx, req)
	}
	return catalogQuery(ctx, req, fmt.Sprintf("PRAGMA table_info(%s)", req.Arg))
}

func listDatabases(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	return catalogQuery(ctx, req, "PRAGMA database_list")
}
