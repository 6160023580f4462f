// Package completion implements context-sensitive completion for SQLite
// text. Given a buffer and a cursor position it decides what the user is
// typing (keyword, table, column, pragma, special command, ...) and produces
// a ranked, deduplicated candidate list scoped to the tables and aliases
// visible at that point in the statement.
//
// Everything here is a pure function over immutable inputs: the buffer, the
// cursor, and a schema snapshot the caller supplies per request. The package
// performs no I/O and holds no mutable state, so independent callers may
// complete concurrently as long as each call gets its own snapshot
// reference.
package completion

import "fmt"

// ContextKind classifies what the user is trying to complete. Candidates
// carry the same kinds so the front end can render categories.
type ContextKind int32

const (
	// ContextUnknown means no rule matched; completion falls back to
	// keywords only.
	ContextUnknown ContextKind = iota
	// ContextKeyword offers SQL keywords.
	ContextKeyword
	// ContextTable offers table and view names.
	ContextTable
	// ContextColumn offers column names restricted to the statement's scope.
	ContextColumn
	// ContextAlias offers the table aliases visible in the statement.
	ContextAlias
	// ContextFunction offers built-in function names.
	ContextFunction
	// ContextPragma offers pragma names.
	ContextPragma
	// ContextSpecial offers the shell's special-command vocabulary.
	ContextSpecial
)

// contextKindNames maps context kinds to their string representations.
var contextKindNames = map[ContextKind]string{
	ContextUnknown:  "Unknown",
	ContextKeyword:  "Keyword",
	ContextTable:    "Table",
	ContextColumn:   "Column",
	ContextAlias:    "Alias",
	ContextFunction: "Function",
	ContextPragma:   "Pragma",
	ContextSpecial:  "SpecialCommand",
}

// String returns a human-readable representation of the kind.
func (k ContextKind) String() string {
	if name, ok := contextKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ContextKind(%d)", k)
}

// Span is a half-open byte range into the completion buffer. On acceptance
// the front end replaces this range with the chosen candidate.
type Span struct {
	Start int
	End   int
}

// ScopeEntry is one table visible to a column completion, together with the
// alias it is reached through ("" when the table is referenced directly).
type ScopeEntry struct {
	Table string
	Alias string
}

// Name returns the identifier the user refers to this entry by.
func (s ScopeEntry) Name() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Table
}

// Context is the classification of one completion request. Kinds carries
// every applicable kind in suggestion order; classification always returns
// exactly one Context, and a union of kinds is still one Context. Word is
// the partial word before the cursor and Span the range it occupies.
type Context struct {
	Kinds []ContextKind
	Word  string
	Span  Span

	// SchemaQualifier is the text before "." in a qualified table position
	// ("FROM main.us" carries "main").
	SchemaQualifier string

	// Scope is the ordered set of tables a column completion may draw
	// from, derived from the enclosing statement's FROM/JOIN clauses.
	Scope []ScopeEntry
}

// Is reports whether the context includes the given kind.
func (c Context) Is(k ContextKind) bool {
	for _, kind := range c.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Primary returns the most specific applicable kind.
func (c Context) Primary() ContextKind {
	if len(c.Kinds) == 0 {
		return ContextUnknown
	}
	return c.Kinds[0]
}

// schemaKinds are the context kinds that cannot be served without a schema
// snapshot.
var schemaKinds = map[ContextKind]struct{}{
	ContextTable:  {},
	ContextColumn: {},
	ContextPragma: {},
}

// needsSchema reports whether serving the context requires schema metadata.
func (c Context) needsSchema() bool {
	for _, k := range c.Kinds {
		if _, ok := schemaKinds[k]; ok {
			return true
		}
	}
	return false
}
