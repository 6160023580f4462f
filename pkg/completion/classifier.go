package completion

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/leaplite/pkg/parser"
	"github.com/leapstack-labs/leaplite/pkg/token"
)

// Anchor keyword families. The classifier is a decision table over the last
// significant token(s) before the cursor, not a grammar; adding a rule means
// adding a set entry.
var (
	// tableAnchors put the cursor in table-name position.
	tableAnchors = map[string]struct{}{
		"FROM": {}, "JOIN": {}, "INTO": {}, "UPDATE": {}, "TABLE": {},
	}

	// columnAnchors put the cursor in expression position, where columns,
	// functions, visible aliases, and keywords all apply.
	columnAnchors = map[string]struct{}{
		"SELECT": {}, "DISTINCT": {}, "WHERE": {}, "SET": {}, "ON": {},
		"HAVING": {}, "AND": {}, "OR": {}, "NOT": {}, "BY": {},
		"CASE": {}, "WHEN": {}, "THEN": {}, "ELSE": {}, "IN": {},
		"LIKE": {}, "BETWEEN": {}, "USING": {},
	}

	// keywordAnchors expect another keyword next (ORDER -> BY, LEFT ->
	// JOIN, UNION -> SELECT, ...).
	keywordAnchors = map[string]struct{}{
		"ORDER": {}, "GROUP": {}, "UNION": {}, "INTERSECT": {}, "EXCEPT": {},
		"INSERT": {}, "DELETE": {}, "CREATE": {}, "DROP": {}, "ALTER": {},
		"EXPLAIN": {}, "NATURAL": {}, "LEFT": {}, "RIGHT": {}, "INNER": {},
		"OUTER": {}, "CROSS": {}, "FULL": {}, "IF": {}, "EXISTS": {},
	}

	// silentAnchors are positions where nothing useful can be suggested
	// (the user is naming something new or typing a literal).
	silentAnchors = map[string]struct{}{
		"AS": {}, "LIMIT": {}, "OFFSET": {}, "VALUES": {},
	}

	// governingKeywords are the clause heads consulted when the anchor
	// itself is punctuation (a comma or operator continues its clause).
	governingKeywords = map[string]struct{}{
		"SELECT": {}, "FROM": {}, "WHERE": {}, "SET": {}, "ON": {},
		"HAVING": {}, "BY": {}, "JOIN": {}, "INTO": {}, "UPDATE": {},
		"PRAGMA": {}, "USING": {}, "VALUES": {},
	}

	// continuationPunct are the punctuation anchors that stay inside the
	// governing clause.
	continuationPunct = map[string]struct{}{
		",": {}, "(": {}, "=": {}, "<": {}, ">": {}, "<=": {}, ">=": {},
		"<>": {}, "!=": {}, "==": {}, "||": {}, "+": {}, "-": {}, "*": {},
		"/": {}, "%": {},
	}
)

// columnFamily is the kind union offered in expression position. Order is
// suggestion order: scoped columns first, then functions, then the aliases
// themselves, then keywords.
func columnFamily(scope []ScopeEntry, word string, span Span) Context {
	return Context{
		Kinds: []ContextKind{ContextColumn, ContextFunction, ContextAlias, ContextKeyword},
		Word:  word,
		Span:  span,
		Scope: scope,
	}
}

// classify maps a buffer and cursor to a completion context. It never fails:
// input that defeats every rule degrades to ContextUnknown, which the
// matcher serves with keywords only. Bounds checking is the caller's job.
func classify(buffer string, cursor int, specials []SpecialEntry) Context {
	// Special commands are checked against the raw buffer before any SQL
	// reasoning; they are a different language that happens to share the
	// prompt.
	if ctx, ok := classifySpecial(buffer, cursor, specials); ok {
		return ctx
	}

	tokens := parser.Tokenize(buffer)
	stmts := parser.Split(tokens)
	stmt := parser.StatementAt(stmts, cursor)

	word, span := wordBefore(buffer, cursor)

	// A cursor inside a string or comment has nothing completable; a
	// cursor inside an unterminated quoted identifier is the one in-token
	// position we do serve, because the user is quoting a name mid-type.
	if tok, ok := containingToken(stmt, cursor); ok {
		switch tok.Kind {
		case token.String, token.Comment:
			if insideToken(tok, cursor) {
				return Context{Kinds: []ContextKind{ContextUnknown}, Word: "", Span: Span{Start: cursor, End: cursor}}
			}
		case token.QuotedIdent:
			if cursor < tok.End {
				return Context{Kinds: []ContextKind{ContextUnknown}, Word: "", Span: Span{Start: cursor, End: cursor}}
			}
			if !quotedTerminated(tok.Text) {
				// Complete the partially quoted name; the span covers the
				// opening quote so acceptance can re-quote cleanly.
				word = buffer[tok.Start+1 : cursor]
				span = Span{Start: tok.Start, End: cursor}
			}
		}
	}

	sig := stmt.Significant()

	// Index of the last significant token fully before the word.
	anchorIdx := -1
	for i, t := range sig {
		if t.End <= span.Start {
			anchorIdx = i
		} else {
			break
		}
	}

	if anchorIdx < 0 {
		// Statement-initial: top-level keywords.
		return Context{Kinds: []ContextKind{ContextKeyword}, Word: word, Span: span}
	}

	anchor := sig[anchorIdx]

	// Qualified word: "q.<word>" completes either a schema-qualified table
	// or the columns of whatever q resolves to.
	if isDotToken(anchor) && anchorIdx > 0 && isNameToken(sig[anchorIdx-1]) {
		qualifier := sig[anchorIdx-1].Name()

		if anchorIdx > 1 {
			if _, ok := tableAnchors[sig[anchorIdx-2].Keyword()]; ok {
				return Context{
					Kinds:           []ContextKind{ContextTable},
					Word:            word,
					Span:            span,
					SchemaQualifier: qualifier,
				}
			}
		}

		refs := parser.TableRefs(stmt)
		entry := ScopeEntry{Table: qualifier}
		if table, ok := parser.Resolve(refs, qualifier); ok {
			entry.Table = table
			if !strings.EqualFold(table, qualifier) {
				entry.Alias = qualifier
			}
		}
		return Context{
			Kinds: []ContextKind{ContextColumn},
			Word:  word,
			Span:  span,
			Scope: []ScopeEntry{entry},
		}
	}

	if kw := anchor.Keyword(); kw != "" {
		switch {
		case kw == "PRAGMA":
			return Context{Kinds: []ContextKind{ContextPragma}, Word: word, Span: span}
		case kw == "EXISTS" && anchorIdx > 0 && sig[anchorIdx-1].Keyword() == "IF":
			// DROP TABLE IF EXISTS <cursor>.
			return Context{Kinds: []ContextKind{ContextTable}, Word: word, Span: span}
		case keyIn(tableAnchors, kw):
			return Context{Kinds: []ContextKind{ContextTable}, Word: word, Span: span}
		case keyIn(columnAnchors, kw):
			ctx := columnFamily(scopeOf(stmt), word, span)
			if kw == "ON" {
				// Join conditions are usually written through aliases.
				ctx.Kinds = []ContextKind{ContextAlias, ContextColumn, ContextFunction, ContextKeyword}
			}
			return ctx
		case keyIn(keywordAnchors, kw):
			return Context{Kinds: []ContextKind{ContextKeyword}, Word: word, Span: span}
		case keyIn(silentAnchors, kw):
			return Context{Kinds: []ContextKind{ContextUnknown}, Word: word, Span: span}
		default:
			return Context{Kinds: []ContextKind{ContextUnknown}, Word: word, Span: span}
		}
	}

	if anchor.Kind == token.Punct {
		if _, ok := continuationPunct[anchor.Text]; ok {
			return classifyContinuation(stmt, sig, anchorIdx, word, span)
		}
		return Context{Kinds: []ContextKind{ContextUnknown}, Word: word, Span: span}
	}

	// After a name or literal the next token is syntax: FROM users <JOIN,
	// WHERE, ...>, SELECT id <AS, FROM, ...>.
	return Context{Kinds: []ContextKind{ContextKeyword}, Word: word, Span: span}
}

// classifyContinuation resolves a punctuation anchor (comma, operator, open
// paren) by the clause it continues.
func classifyContinuation(stmt parser.Statement, sig []token.Token, anchorIdx int, word string, span Span) Context {
	anchor := sig[anchorIdx]

	governing := ""
	for i := anchorIdx - 1; i >= 0; i-- {
		if kw := sig[i].Keyword(); kw != "" {
			if _, ok := governingKeywords[kw]; ok {
				governing = kw
				break
			}
		}
	}

	switch governing {
	case "FROM", "JOIN":
		if anchor.Text == "(" {
			// Subquery position.
			return Context{Kinds: []ContextKind{ContextKeyword}, Word: word, Span: span}
		}
		return Context{Kinds: []ContextKind{ContextTable}, Word: word, Span: span}
	case "INTO":
		// INSERT INTO t (<cursor>: the column list of the target table.
		return Context{
			Kinds: []ContextKind{ContextColumn},
			Word:  word,
			Span:  span,
			Scope: scopeOf(stmt),
		}
	case "UPDATE":
		return Context{Kinds: []ContextKind{ContextTable}, Word: word, Span: span}
	case "PRAGMA":
		// PRAGMA table_info(<cursor> takes a table argument.
		if anchor.Text == "(" {
			return Context{Kinds: []ContextKind{ContextTable}, Word: word, Span: span}
		}
		return Context{Kinds: []ContextKind{ContextPragma}, Word: word, Span: span}
	case "SELECT", "WHERE", "SET", "ON", "HAVING", "BY", "USING":
		return columnFamily(scopeOf(stmt), word, span)
	case "VALUES", "":
		return Context{Kinds: []ContextKind{ContextUnknown}, Word: word, Span: span}
	default:
		return Context{Kinds: []ContextKind{ContextUnknown}, Word: word, Span: span}
	}
}

// classifySpecial handles buffers whose first significant byte is a command
// sigil. Completing the command word offers the vocabulary; past the command
// word, the command's argument kind decides.
func classifySpecial(buffer string, cursor int, specials []SpecialEntry) (Context, bool) {
	trimmed := strings.TrimLeft(buffer, " \t\r\n")
	if trimmed == "" {
		return Context{}, false
	}
	if trimmed[0] != '.' && trimmed[0] != '\\' {
		return Context{}, false
	}

	start := len(buffer) - len(trimmed)
	wordEnd := start + 1
	for wordEnd < len(buffer) && !isSpaceByte(buffer[wordEnd]) {
		wordEnd++
	}

	if cursor <= wordEnd {
		if cursor < start {
			// Cursor in the leading whitespace; nothing typed yet.
			return Context{Kinds: []ContextKind{ContextSpecial}, Word: "", Span: Span{Start: cursor, End: cursor}}, true
		}
		return Context{
			Kinds: []ContextKind{ContextSpecial},
			Word:  buffer[start:cursor],
			Span:  Span{Start: start, End: cursor},
		}, true
	}

	// Completing an argument.
	name := strings.TrimRight(buffer[start:wordEnd], "+-")
	word, span := wordBefore(buffer, cursor)
	for _, entry := range specials {
		if strings.EqualFold(entry.Name, name) {
			if entry.Arg == ArgTable {
				return Context{Kinds: []ContextKind{ContextTable}, Word: word, Span: span}, true
			}
			break
		}
	}
	return Context{Kinds: []ContextKind{ContextUnknown}, Word: word, Span: span}, true
}

// scopeOf converts a statement's table references into column-completion
// scope. The whole statement is consulted, not just the part before the
// cursor: in "SELECT t1.| FROM orders t1" the FROM clause the scope depends
// on comes after the cursor.
func scopeOf(stmt parser.Statement) []ScopeEntry {
	refs := parser.TableRefs(stmt)
	scope := make([]ScopeEntry, 0, len(refs))
	for _, r := range refs {
		scope = append(scope, ScopeEntry{Table: r.Name, Alias: r.Alias})
	}
	return scope
}

// wordBefore returns the partial identifier word ending at the cursor and
// the byte range it occupies.
func wordBefore(buffer string, cursor int) (string, Span) {
	start := cursor
	for start > 0 && isWordByte(buffer[start-1]) {
		start--
	}
	return buffer[start:cursor], Span{Start: start, End: cursor}
}

// containingToken finds the statement token whose range covers the cursor's
// left neighborhood.
func containingToken(stmt parser.Statement, cursor int) (token.Token, bool) {
	for _, t := range stmt.Tokens {
		if t.Start < cursor && cursor <= t.End {
			return t, true
		}
	}
	return token.Token{}, false
}

// insideToken reports whether the cursor is still within the token's text,
// counting the end position of an unterminated token as inside.
func insideToken(t token.Token, cursor int) bool {
	if cursor < t.End {
		return true
	}
	switch t.Kind {
	case token.String:
		return !stringTerminated(t.Text)
	case token.Comment:
		if strings.HasPrefix(t.Text, "--") {
			// Line comments swallow the rest of the line.
			return true
		}
		return !strings.HasSuffix(t.Text, "*/") || len(t.Text) < 4
	default:
		return false
	}
}

func stringTerminated(text string) bool {
	return len(text) >= 2 && text[len(text)-1] == '\''
}

func quotedTerminated(text string) bool {
	if len(text) < 2 {
		return false
	}
	switch text[0] {
	case '"':
		return text[len(text)-1] == '"'
	case '`':
		return text[len(text)-1] == '`'
	case '[':
		return text[len(text)-1] == ']'
	}
	return true
}

func isDotToken(t token.Token) bool {
	return t.Kind == token.Punct && t.Text == "."
}

func isNameToken(t token.Token) bool {
	return t.Kind == token.Ident || t.Kind == token.QuotedIdent
}

func keyIn(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch == '$' || ch >= utf8.RuneSelf ||
		unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch))
}

func isSpaceByte(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
