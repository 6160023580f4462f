package special

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leaplite/internal/sqlexec"
	"github.com/leapstack-labs/leaplite/pkg/parser"
)

const favoritesUsage = `
Favorite Queries are a way to save frequently used queries
with a short name.
Examples:

    # Save a new favorite query.
    > \fs simple select * from abc where a is not Null;

    # List all favorite queries.
    > \f
    ┌────────┬───────────────────────────────────────┐
    │ NAME   │ QUERY                                 │
    ├────────┼───────────────────────────────────────┤
    │ simple │ SELECT * FROM abc where a is not NULL │
    └────────┴───────────────────────────────────────┘

    # Run a favorite query.
    > \f simple

    # Delete a favorite query.
    > \fd simple
    simple: Deleted
`

func (r *Registry) registerIOCommands() {
	r.Register(&Command{
		Name:          `\f`,
		Shortcut:      `\f [name [args..]]`,
		Description:   "List or execute favorite queries.",
		Arg:           ParsedQuery,
		CaseSensitive: true,
		Handler:       execFavorite,
	})
	r.Register(&Command{
		Name:        `\fs`,
		Shortcut:    `\fs name query`,
		Description: "Save a favorite query.",
		Arg:         ParsedQuery,
		Handler:     saveFavorite,
	})
	r.Register(&Command{
		Name:        `\fd`,
		Shortcut:    `\fd [name]`,
		Description: "Delete a favorite query.",
		Arg:         ParsedQuery,
		Handler:     deleteFavorite,
	})
}

const favoritesDisabled = "Favorite queries are disabled."

func execFavorite(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	if req.Favorites == nil {
		return []sqlexec.Result{{Status: favoritesDisabled}}, nil
	}
	if req.Arg == "" {
		return listFavorites(ctx, req)
	}

	name, argStr, _ := strings.Cut(req.Arg, " ")
	args, err := splitArgs(argStr)
	if err != nil {
		return nil, err
	}

	query, ok, err := req.Favorites.GetFavorite(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite: %w", err)
	}
	if !ok {
		return []sqlexec.Result{{Status: fmt.Sprintf("No favorite query: %s", name)}}, nil
	}

	// A ? in the saved query binds the arguments as statement parameters;
	// otherwise $1..$N are substituted textually.
	if strings.Contains(query, "?") {
		bound := make([]any, len(args))
		for i, arg := range args {
			bound[i] = arg
		}
		return runFavorite(ctx, req, query, bound)
	}

	substituted, message := substituteArgs(query, args)
	if message != "" {
		return []sqlexec.Result{{Status: message}}, nil
	}
	return runFavorite(ctx, req, substituted, nil)
}

func runFavorite(ctx context.Context, req Request, query string, args []any) ([]sqlexec.Result, error) {
	var results []sqlexec.Result
	for _, stmt := range parser.SplitText(query) {
		res, err := req.Exec.RunStatement(ctx, stmt, args...)
		if err != nil {
			return results, err
		}
		if req.Verbosity == Verbose {
			res.Title = "> " + stmt
		}
		results = append(results, res)
	}
	return results, nil
}

func listFavorites(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	favorites, err := req.Favorites.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	rows := make([][]string, 0, len(favorites))
	for _, fav := range favorites {
		rows = append(rows, []string{fav.Name, fav.Query})
	}
	status := ""
	if len(rows) == 0 {
		status = "\nNo favorite queries found." + favoritesUsage
	}
	return []sqlexec.Result{{Columns: []string{"Name", "Query"}, Rows: rows, Status: status}}, nil
}

func saveFavorite(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	if req.Favorites == nil {
		return []sqlexec.Result{{Status: favoritesDisabled}}, nil
	}

	usage := "Syntax: \\fs name query.\n\n" + favoritesUsage
	if req.Arg == "" {
		return []sqlexec.Result{{Status: usage}}, nil
	}

	name, query, _ := strings.Cut(req.Arg, " ")
	if name == "" || strings.TrimSpace(query) == "" {
		return []sqlexec.Result{{Status: usage + "Err: Both name and query are required."}}, nil
	}

	if err := req.Favorites.SaveFavorite(ctx, name, query); err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}
	return []sqlexec.Result{{Status: "Saved."}}, nil
}

func deleteFavorite(ctx context.Context, req Request) ([]sqlexec.Result, error) {
	if req.Favorites == nil {
		return []sqlexec.Result{{Status: favoritesDisabled}}, nil
	}

	usage := "Syntax: \\fd name.\n\n" + favoritesUsage
	if req.Arg == "" {
		return []sqlexec.Result{{Status: usage}}, nil
	}

	deleted, err := req.Favorites.DeleteFavorite(ctx, req.Arg)
	if err != nil {
		return nil, fmt.Errorf("failed to delete favorite: %w", err)
	}
	if !deleted {
		return []sqlexec.Result{{Status: req.Arg + ": Not Found."}}, nil
	}
	return []sqlexec.Result{{Status: req.Arg + ": Deleted"}}, nil
}

var placeholderPattern = regexp.MustCompile(`\?|\$\d+`)

// substituteArgs replaces the $1..$N positional parameters in query with
// args. The second return value is a user-facing message when the argument
// count and the placeholders do not line up.
func substituteArgs(query string, args []string) (string, string) {
	for i, val := range args {
		position := "$" + strconv.Itoa(i+1)
		switch {
		case strings.Contains(query, position):
			query = strings.ReplaceAll(query, position, val)
		case strings.Contains(query, "?"):
			query = strings.Replace(query, "?", val, 1)
		default:
			return "", "Too many arguments.\nQuery does not have enough place holders to substitute.\n" + query
		}
	}
	if match := placeholderPattern.FindString(query); match != "" {
		return "", "missing substitution for " + match + " in query:\n  " + query
	}
	return query, ""
}

// splitArgs splits a favorite's argument text on whitespace, with single or
// double quotes grouping words shell-style.
func splitArgs(text string) ([]string, error) {
	var args []string
	var current strings.Builder
	var quote byte
	quoted := false

	flush := func() {
		if quoted || current.Len() > 0 {
			args = append(args, current.String())
			current.Reset()
			quoted = false
		}
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				current.WriteByte(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			quoted = true
		case ch == ' ' || ch == '\t':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	if quote != 0 {
		return nil, errors.New("no closing quotation")
	}
	flush()
	return args, nil
}
