package completion

import (
	"strings"

	"github.com/leapstack-labs/leaplite/pkg/token"
)

// ArgHint describes what a special command takes as its argument, so the
// engine can complete past the command word.
type ArgHint int32

const (
	// ArgNone means the command takes no completable argument.
	ArgNone ArgHint = iota
	// ArgTable means the argument is a table or view name.
	ArgTable
	// ArgRaw means the argument is free text (file paths, SQL).
	ArgRaw
)

// SpecialEntry is one special command known to the engine: its spelling
// (".tables", "\\d") and its argument hint.
type SpecialEntry struct {
	Name string
	Arg  ArgHint
}

// Engine classifies buffers and matches candidates. Configure it once at
// startup; Complete is safe for concurrent use afterwards.
type Engine struct {
	keywords  []string
	functions []string
	specials  []SpecialEntry
}

// NewEngine returns an engine loaded with the stock keyword and function
// vocabularies and no special commands.
func NewEngine() *Engine {
	return &Engine{
		keywords:  token.Keywords(),
		functions: token.Functions(),
	}
}

// RegisterSpecials teaches the engine the shell's command vocabulary. Call
// before serving completions.
func (e *Engine) RegisterSpecials(entries []SpecialEntry) {
	e.specials = append([]SpecialEntry(nil), entries...)
}

// Classify exposes the context decision for a buffer position. Useful for
// tests and tooling; Complete is the normal entry point.
func (e *Engine) Classify(buffer string, cursor int) (Context, error) {
	if cursor < 0 || cursor > len(buffer) {
		return Context{}, &OutOfRangeError{Cursor: cursor, Len: len(buffer)}
	}
	return classify(buffer, cursor, e.specials), nil
}

// Complete returns ranked candidates for the word ending at cursor, plus the
// byte span the accepted candidate should replace. A schema-dependent
// context with nil metadata returns NoSchemaError; callers decide whether to
// degrade or wait for a snapshot.
func (e *Engine) Complete(buffer string, cursor int, meta Metadata) ([]Candidate, Span, error) {
	if cursor < 0 || cursor > len(buffer) {
		return nil, Span{}, &OutOfRangeError{Cursor: cursor, Len: len(buffer)}
	}

	ctx := classify(buffer, cursor, e.specials)

	if meta == nil && ctx.needsSchema() {
		return nil, ctx.Span, &NoSchemaError{Kind: firstSchemaKind(ctx)}
	}

	return e.candidates(ctx, meta), ctx.Span, nil
}

// candidates materializes the context's kind union into ranked suggestions.
// Block order within the union is suggestion priority.
func (e *Engine) candidates(ctx Context, meta Metadata) []Candidate {
	m := newMatcher(ctx.Word)
	prio := 0
	next := func() int {
		p := prio
		prio++
		return p
	}

	for _, kind := range ctx.Kinds {
		switch kind {
		case ContextKeyword:
			m.add(e.keywords, ContextKeyword, next(), false)
		case ContextFunction:
			m.add(e.functions, ContextFunction, next(), false)
		case ContextTable:
			if meta == nil {
				continue
			}
			if q := ctx.SchemaQualifier; q != "" && !schemaKnown(meta, q) {
				continue
			}
			m.add(meta.Tables(), ContextTable, next(), true)
			m.add(meta.Views(), ContextTable, next(), true)
		case ContextColumn:
			if meta == nil {
				continue
			}
			if cols := scopeColumns(meta, ctx.Scope); len(cols) > 0 {
				m.add(cols, ContextColumn, next(), true)
			}
		case ContextAlias:
			if names := scopeNames(ctx.Scope); len(names) > 0 {
				m.add(names, ContextAlias, next(), true)
			}
		case ContextPragma:
			if meta == nil {
				continue
			}
			m.add(meta.Pragmas(), ContextPragma, next(), false)
		case ContextSpecial:
			m.add(e.specialNames(), ContextSpecial, next(), false)
		case ContextUnknown:
			m.add(e.keywords, ContextKeyword, next(), false)
		}
	}
	return m.results()
}

// scopeColumns flattens the scope's tables into one column collection, "*"
// first. Scope entries naming unknown tables contribute nothing, so a bogus
// alias yields an empty set rather than every column in the database.
func scopeColumns(meta Metadata, scope []ScopeEntry) []string {
	var cols []string
	for _, entry := range scope {
		cols = append(cols, meta.Columns(entry.Table)...)
	}
	if len(cols) == 0 {
		return nil
	}
	return append([]string{"*"}, cols...)
}

func scopeNames(scope []ScopeEntry) []string {
	names := make([]string, 0, len(scope))
	for _, entry := range scope {
		if n := entry.Name(); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func (e *Engine) specialNames() []string {
	names := make([]string, len(e.specials))
	for i, entry := range e.specials {
		names[i] = entry.Name
	}
	return names
}

// schemaKnown reports whether the qualifier names an attached database. The
// snapshot catalogs the main database only, so a known qualifier serves the
// main catalog and an unknown one serves nothing.
func schemaKnown(meta Metadata, qualifier string) bool {
	for _, s := range meta.Schemas() {
		if strings.EqualFold(s, qualifier) {
			return true
		}
	}
	return false
}

func firstSchemaKind(ctx Context) ContextKind {
	for _, k := range ctx.Kinds {
		if _, ok := schemaKinds[k]; ok {
			return k
		}
	}
	return ContextUnknown
}
