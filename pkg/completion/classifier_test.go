package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplite/pkg/completion"
)

func classifyAt(t *testing.T, buffer string, cursor int) completion.Context {
	t.Helper()
	e := completion.NewEngine()
	e.RegisterSpecials([]completion.SpecialEntry{
		{Name: ".tables", Arg: completion.ArgNone},
		{Name: ".schema", Arg: completion.ArgTable},
		{Name: ".describe", Arg: completion.ArgTable},
		{Name: ".quit", Arg: completion.ArgNone},
	})
	ctx, err := e.Classify(buffer, cursor)
	require.NoError(t, err)
	return ctx
}

func TestClassifyAnchors(t *testing.T) {
	tests := []struct {
		name    string
		buffer  string
		primary completion.ContextKind
		word    string
	}{
		{"empty buffer", "", completion.ContextKeyword, ""},
		{"statement initial word", "SEL", completion.ContextKeyword, "SEL"},
		{"after from", "SELECT * FROM ", completion.ContextTable, ""},
		{"partial table", "SELECT * FROM us", completion.ContextTable, "us"},
		{"after join", "SELECT * FROM a JOIN ", completion.ContextTable, ""},
		{"after insert into", "INSERT INTO ", completion.ContextTable, ""},
		{"after update", "UPDATE ", completion.ContextTable, ""},
		{"after drop table", "DROP TABLE ", completion.ContextTable, ""},
		{"after drop table if exists", "DROP TABLE IF EXISTS ", completion.ContextTable, ""},
		{"after select", "SELECT ", completion.ContextColumn, ""},
		{"after where", "SELECT * FROM t WHERE ", completion.ContextColumn, ""},
		{"after and", "SELECT * FROM t WHERE a = 1 AND ", completion.ContextColumn, ""},
		{"after set", "UPDATE t SET ", completion.ContextColumn, ""},
		{"after comma in select", "SELECT id, ", completion.ContextColumn, ""},
		{"after comma in from", "SELECT * FROM a, ", completion.ContextTable, ""},
		{"after operator", "SELECT * FROM t WHERE id = ", completion.ContextColumn, ""},
		{"after order", "SELECT * FROM t ORDER ", completion.ContextKeyword, ""},
		{"after order by", "SELECT * FROM t ORDER BY ", completion.ContextColumn, ""},
		{"after group", "SELECT * FROM t GROUP ", completion.ContextKeyword, ""},
		{"after left", "SELECT * FROM a LEFT ", completion.ContextKeyword, ""},
		{"after table name", "SELECT * FROM users ", completion.ContextKeyword, ""},
		{"after pragma", "PRAGMA ", completion.ContextPragma, ""},
		{"pragma table argument", "PRAGMA table_info(", completion.ContextTable, ""},
		{"after limit", "SELECT * FROM t LIMIT ", completion.ContextUnknown, ""},
		{"after as", "SELECT id AS ", completion.ContextUnknown, ""},
		{"insert column list", "INSERT INTO users (", completion.ContextColumn, ""},
		{"subquery open paren", "SELECT * FROM (", completion.ContextKeyword, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := classifyAt(t, tt.buffer, len(tt.buffer))
			assert.Equal(t, tt.primary, ctx.Primary(), "primary kind")
			assert.Equal(t, tt.word, ctx.Word, "word")
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// No input may panic or produce an empty kind set.
	buffers := []string{
		"", ";", ";;;", "   ", "SELECT", "SELEC T FR OM", "((((",
		"'", "''", "\"", "`", "[", "--", "/*", "*/ */", ".",
		"\\", "SELECT * FROM 'unterminated", "1.2.3.4", "@#$%^&*",
		"SELECT\x00FROM", "SELECT * FROM t WHERE a = 'b' AND ",
	}
	for _, buf := range buffers {
		for cursor := 0; cursor <= len(buf); cursor++ {
			ctx := classifyAt(t, buf, cursor)
			require.NotEmpty(t, ctx.Kinds, "buffer %q cursor %d", buf, cursor)
		}
	}
}

func TestClassifyWordSpan(t *testing.T) {
	buffer := "SELECT * FROM us"
	ctx := classifyAt(t, buffer, len(buffer))
	assert.Equal(t, "us", ctx.Word)
	assert.Equal(t, completion.Span{Start: 14, End: 16}, ctx.Span)

	// Cursor mid-word completes only the part before it.
	ctx = classifyAt(t, buffer, 15)
	assert.Equal(t, "u", ctx.Word)
	assert.Equal(t, completion.Span{Start: 14, End: 15}, ctx.Span)
}

func TestClassifySchemaQualifiedTable(t *testing.T) {
	buffer := "SELECT * FROM main."
	ctx := classifyAt(t, buffer, len(buffer))
	assert.Equal(t, completion.ContextTable, ctx.Primary())
	assert.Equal(t, "main", ctx.SchemaQualifier)
}

func TestClassifyAliasScope(t *testing.T) {
	// The FROM clause after the cursor still determines the scope.
	buffer := "SELECT t1. FROM orders t1 JOIN customers t2"
	ctx := classifyAt(t, buffer, 10)
	require.Equal(t, []completion.ContextKind{completion.ContextColumn}, ctx.Kinds)
	require.Equal(t, []completion.ScopeEntry{{Table: "orders", Alias: "t1"}}, ctx.Scope)
}

func TestClassifyQualifierByTableName(t *testing.T) {
	buffer := "SELECT users. FROM users"
	ctx := classifyAt(t, buffer, 13)
	require.Equal(t, completion.ContextColumn, ctx.Primary())
	require.Equal(t, []completion.ScopeEntry{{Table: "users"}}, ctx.Scope)
}

func TestClassifyUnknownQualifierScopesToItself(t *testing.T) {
	buffer := "SELECT x. FROM orders o"
	ctx := classifyAt(t, buffer, 9)
	require.Equal(t, completion.ContextColumn, ctx.Primary())
	require.Equal(t, []completion.ScopeEntry{{Table: "x"}}, ctx.Scope)
}

func TestClassifyOnPrefersAliases(t *testing.T) {
	buffer := "SELECT * FROM orders o JOIN customers c ON "
	ctx := classifyAt(t, buffer, len(buffer))
	require.NotEmpty(t, ctx.Kinds)
	assert.Equal(t, completion.ContextAlias, ctx.Primary())
	assert.Equal(t, []completion.ScopeEntry{
		{Table: "orders", Alias: "o"},
		{Table: "customers", Alias: "c"},
	}, ctx.Scope)
}

func TestClassifyExpressionUnion(t *testing.T) {
	ctx := classifyAt(t, "SELECT ", 7)
	assert.Equal(t, []completion.ContextKind{
		completion.ContextColumn,
		completion.ContextFunction,
		completion.ContextAlias,
		completion.ContextKeyword,
	}, ctx.Kinds)
}

func TestClassifyMultiStatementIsolation(t *testing.T) {
	buffer := "SELECT id FROM users; UPDATE ord"
	ctx := classifyAt(t, buffer, len(buffer))
	assert.Equal(t, completion.ContextTable, ctx.Primary())
	assert.Equal(t, "ord", ctx.Word)

	// Scope in the second statement ignores tables from the first.
	buffer = "SELECT id FROM users; SELECT  FROM orders"
	cursor := len("SELECT id FROM users; SELECT ")
	ctx = classifyAt(t, buffer, cursor)
	require.Equal(t, completion.ContextColumn, ctx.Primary())
	require.Equal(t, []completion.ScopeEntry{{Table: "orders"}}, ctx.Scope)
}

func TestClassifyInsideStringIsUnknown(t *testing.T) {
	tests := []struct {
		name   string
		buffer string
		cursor int
	}{
		{"unterminated string at end", "SELECT * FROM 'unterminated", 27},
		{"inside terminated string", "SELECT 'abc' FROM t", 10},
		{"inside line comment", "SELECT 1 -- note", 16},
		{"inside block comment", "SELECT /* no", 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := classifyAt(t, tt.buffer, tt.cursor)
			assert.Equal(t, completion.ContextUnknown, ctx.Primary())
			assert.Empty(t, ctx.Word)
		})
	}
}

func TestClassifyAfterTerminatedString(t *testing.T) {
	buffer := "SELECT * FROM t WHERE a = 'x' "
	ctx := classifyAt(t, buffer, len(buffer))
	assert.Equal(t, completion.ContextKeyword, ctx.Primary())
}

func TestClassifyUnterminatedQuotedIdent(t *testing.T) {
	// Typing a quoted name still completes tables; the span covers the
	// opening quote so acceptance can re-quote.
	buffer := `SELECT * FROM "us`
	ctx := classifyAt(t, buffer, len(buffer))
	assert.Equal(t, completion.ContextTable, ctx.Primary())
	assert.Equal(t, "us", ctx.Word)
	assert.Equal(t, completion.Span{Start: 14, End: 17}, ctx.Span)
}

func TestClassifySpecialCommandName(t *testing.T) {
	ctx := classifyAt(t, ".ta", 3)
	assert.Equal(t, completion.ContextSpecial, ctx.Primary())
	assert.Equal(t, ".ta", ctx.Word)
	assert.Equal(t, completion.Span{Start: 0, End: 3}, ctx.Span)

	ctx = classifyAt(t, `\d`, 2)
	assert.Equal(t, completion.ContextSpecial, ctx.Primary())
}

func TestClassifySpecialCommandArgument(t *testing.T) {
	ctx := classifyAt(t, ".schema us", 10)
	assert.Equal(t, completion.ContextTable, ctx.Primary())
	assert.Equal(t, "us", ctx.Word)

	// Verbosity suffix does not change the command lookup.
	ctx = classifyAt(t, ".schema+ us", 11)
	assert.Equal(t, completion.ContextTable, ctx.Primary())

	// Commands without a table argument offer nothing specific.
	ctx = classifyAt(t, ".quit no", 8)
	assert.Equal(t, completion.ContextUnknown, ctx.Primary())
}

func TestClassifyCursorOutOfRange(t *testing.T) {
	e := completion.NewEngine()
	_, err := e.Classify("SELECT", 7)
	require.Error(t, err)
	_, err = e.Classify("SELECT", -1)
	require.Error(t, err)
}
