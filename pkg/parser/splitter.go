package parser

import (
	"strings"

	"github.com/leapstack-labs/leaplite/pkg/token"
)

// Statement is one statement's worth of tokens plus the byte range it
// occupies in the original buffer. Ranges are half-open and statements
// partition the buffer: each statement's End is the next one's Start.
type Statement struct {
	Tokens []token.Token
	Start  int
	End    int
}

// Text returns the statement's raw text within the buffer it was split from.
func (s Statement) Text(buffer string) string {
	if s.Start >= s.End || s.End > len(buffer) {
		return ""
	}
	return buffer[s.Start:s.End]
}

// Significant returns the statement's tokens with whitespace and comments
// filtered out.
func (s Statement) Significant() []token.Token {
	out := make([]token.Token, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		if t.Significant() {
			out = append(out, t)
		}
	}
	return out
}

// IsEmpty reports whether the statement has no significant tokens.
func (s Statement) IsEmpty() bool {
	for _, t := range s.Tokens {
		if t.Significant() {
			return false
		}
	}
	return true
}

// Split partitions a token stream into statements on top-level ";"
// terminators. Terminators inside strings, quoted identifiers, and comments
// never split because the tokenizer already isolated those regions into
// single tokens. The terminator token belongs to the statement it ends, and
// the segment after the last terminator is always returned as a statement,
// even when it is empty: the cursor lives there while the user types the
// next statement.
func Split(tokens []token.Token) []Statement {
	if len(tokens) == 0 {
		return []Statement{{}}
	}

	var stmts []Statement
	start := 0
	first := 0
	for i, t := range tokens {
		if t.Kind == token.Punct && t.Text == ";" {
			stmts = append(stmts, Statement{
				Tokens: tokens[first : i+1],
				Start:  start,
				End:    t.End,
			})
			start = t.End
			first = i + 1
		}
	}

	// Trailing segment, possibly with no tokens at all.
	end := start
	if first < len(tokens) {
		end = tokens[len(tokens)-1].End
	}
	stmts = append(stmts, Statement{
		Tokens: tokens[first:],
		Start:  start,
		End:    end,
	})

	return stmts
}

// StatementAt returns the statement whose range contains the cursor, or the
// last statement when the cursor sits past every terminator (the statement
// currently being typed). Plain linear scan; buffers are interactive-sized.
func StatementAt(stmts []Statement, cursor int) Statement {
	if len(stmts) == 0 {
		return Statement{}
	}
	for _, s := range stmts {
		if cursor >= s.Start && cursor < s.End {
			return s
		}
	}
	return stmts[len(stmts)-1]
}

// SplitText splits raw SQL into individual statement strings with the
// terminator and surrounding whitespace removed. Empty statements are
// dropped. This is the execution-side entry point; completion uses Split to
// keep offsets.
func SplitText(input string) []string {
	var out []string
	for _, s := range Split(Tokenize(input)) {
		if s.IsEmpty() {
			continue
		}
		text := strings.TrimSpace(s.Text(input))
		text = strings.TrimSuffix(text, ";")
		text = strings.TrimSpace(text)
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}
