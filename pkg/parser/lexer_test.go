package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplite/pkg/parser"
	"github.com/leapstack-labs/leaplite/pkg/token"
)

// kindsOf flattens a token stream to kinds for compact assertions.
func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeBasicSelect(t *testing.T) {
	toks := parser.Tokenize("SELECT id, name FROM users")

	want := []token.Kind{
		token.Keyword, token.Whitespace, token.Ident, token.Punct,
		token.Whitespace, token.Ident, token.Whitespace, token.Keyword,
		token.Whitespace, token.Ident,
	}
	assert.Equal(t, want, kindsOf(toks))
	assert.Equal(t, "SELECT", toks[0].Keyword())
	assert.Equal(t, "FROM", toks[7].Keyword())
	assert.Equal(t, "users", toks[9].Text)
}

func TestTokenizeOffsetsPartitionInput(t *testing.T) {
	inputs := []string{
		"SELECT * FROM t WHERE a = 'x; y' -- done",
		"pragma table_info(users);",
		"  \n\t ",
		`SELECT "weird name", [bracket], ` + "`tick`" + ` FROM t`,
		"a;;b",
	}

	for _, input := range inputs {
		toks := parser.Tokenize(input)
		pos := 0
		for _, tok := range toks {
			assert.Equal(t, pos, tok.Start, "input %q", input)
			assert.Equal(t, input[tok.Start:tok.End], tok.Text, "input %q", input)
			pos = tok.End
		}
		assert.Equal(t, len(input), pos, "input %q must be fully covered", input)
	}
}

func TestTokenizeStrings(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"simple", "'hello'", "'hello'"},
		{"doubled quote escape", "'it''s'", "'it''s'"},
		{"semicolon inside", "'a; b'", "'a; b'"},
		{"unterminated runs to end", "'unterminated", "'unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := parser.Tokenize(tt.sql)
			require.Len(t, toks, 1)
			assert.Equal(t, token.String, toks[0].Kind)
			assert.Equal(t, tt.want, toks[0].Text)
		})
	}
}

func TestTokenizeQuotedIdentifiers(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantName string
	}{
		{"double quoted", `"order"`, "order"},
		{"doubled escape", `"a""b"`, `a"b`},
		{"backtick", "`users`", "users"},
		{"bracket", "[select]", "select"},
		{"unterminated", `"open`, "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := parser.Tokenize(tt.sql)
			require.Len(t, toks, 1)
			assert.Equal(t, token.QuotedIdent, toks[0].Kind)
			assert.Equal(t, tt.wantName, toks[0].Name())
		})
	}
}

func TestTokenizeComments(t *testing.T) {
	toks := parser.Tokenize("SELECT 1 -- trailing\n/* block */ 2")

	var comments []string
	for _, tok := range toks {
		if tok.Kind == token.Comment {
			comments = append(comments, tok.Text)
		}
	}
	assert.Equal(t, []string{"-- trailing", "/* block */"}, comments)

	// Unclosed block comment extends to end of input instead of failing.
	toks = parser.Tokenize("SELECT /* open")
	last := toks[len(toks)-1]
	assert.Equal(t, token.Comment, last.Kind)
	assert.Equal(t, "/* open", last.Text)
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"123", "123"},
		{"45.67", "45.67"},
		{".5", ".5"},
		{"1e10", "1e10"},
		{"2E-5", "2E-5"},
		{"0x1A", "0x1A"},
	}

	for _, tt := range tests {
		toks := parser.Tokenize(tt.sql)
		require.Len(t, toks, 1, "sql %q", tt.sql)
		assert.Equal(t, token.Number, toks[0].Kind, "sql %q", tt.sql)
		assert.Equal(t, tt.want, toks[0].Text)
	}
}

func TestTokenizeOperators(t *testing.T) {
	toks := parser.Tokenize("a<=b<>c||d->>e!=f")

	var ops []string
	for _, tok := range toks {
		if tok.Kind == token.Punct {
			ops = append(ops, tok.Text)
		}
	}
	assert.Equal(t, []string{"<=", "<>", "||", "->>", "!="}, ops)
}

func TestTokenizeDotForms(t *testing.T) {
	// Qualified name: dot is punctuation between two identifiers.
	toks := parser.Tokenize("t.col")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Punct, toks[1].Kind)

	// Dot command text still tokenizes, as punct + ident.
	toks = parser.Tokenize(".tables")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Punct, toks[0].Kind)
	assert.Equal(t, ".", toks[0].Text)
	assert.Equal(t, token.Ident, toks[1].Kind)
	assert.Equal(t, "tables", toks[1].Text)
}

func TestTokenizeNeverEmptyOnOddBytes(t *testing.T) {
	// Bytes with no SQL meaning become punctuation, never a failure.
	for _, input := range []string{"@", "#", "?", ":", "~", "^", "&"} {
		toks := parser.Tokenize(input)
		require.Len(t, toks, 1, "input %q", input)
		assert.Equal(t, token.Punct, toks[0].Kind)
	}
}
