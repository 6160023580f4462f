// Package token defines the lexical token model for SQLite text.
//
// The tokenizer that produces these tokens must never fail on malformed
// input, so the kinds here are deliberately coarse: completion and statement
// splitting need to know what a span of text is, not whether it is valid SQL.
package token

import (
	"fmt"
	"strings"
)

// Kind classifies a lexical token.
type Kind int32

const (
	// Keyword is an identifier that matches a reserved SQLite word.
	Keyword Kind = iota
	// Ident is a bare identifier (table, column, function name).
	Ident
	// QuotedIdent is an identifier quoted with "", ``, or [].
	QuotedIdent
	// String is a single-quoted string literal.
	String
	// Number is a numeric literal (123, 45.67, 1e10, .5, 0x1A).
	Number
	// Punct is any operator or punctuation byte sequence.
	Punct
	// Comment is a -- line comment or /* */ block comment.
	Comment
	// Whitespace is a run of spaces, tabs, or newlines.
	Whitespace
)

// kindNames maps token kinds to their string representations.
var kindNames = map[Kind]string{
	Keyword:     "Keyword",
	Ident:       "Ident",
	QuotedIdent: "QuotedIdent",
	String:      "String",
	Number:      "Number",
	Punct:       "Punct",
	Comment:     "Comment",
	Whitespace:  "Whitespace",
}

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Token is a lexical token with byte offsets into the original buffer.
// Offsets are half-open: Text occupies [Start, End).
type Token struct {
	Kind  Kind
	Text  string
	Start int
	End   int
}

// Is reports whether the token has the given kind.
func (t Token) Is(k Kind) bool {
	return t.Kind == k
}

// Significant reports whether the token carries syntactic meaning.
// Whitespace and comments are kept for offset accuracy but skipped by
// everything downstream of the tokenizer.
func (t Token) Significant() bool {
	return t.Kind != Whitespace && t.Kind != Comment
}

// Keyword returns the uppercased text for keyword tokens and "" otherwise,
// so callers can compare against "FROM" etc. without caring about the case
// the user typed.
func (t Token) Keyword() string {
	if t.Kind != Keyword {
		return ""
	}
	return strings.ToUpper(t.Text)
}

// Name returns the identifier value of an Ident or QuotedIdent token with
// quoting removed, and the raw text for any other kind.
func (t Token) Name() string {
	if t.Kind == QuotedIdent {
		return Unquote(t.Text)
	}
	return t.Text
}

// Unquote strips one level of identifier quoting. SQLite accepts "name",
// `name`, and [name]; doubled closing quotes inside "" and `` collapse to a
// single character. Input that is not quoted is returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	switch {
	case s[0] == '"' && s[len(s)-1] == '"':
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	case s[0] == '`' && s[len(s)-1] == '`':
		return strings.ReplaceAll(s[1:len(s)-1], "``", "`")
	case s[0] == '[' && s[len(s)-1] == ']':
		return s[1 : len(s)-1]
	}
	return s
}

// keywords is the set of reserved and semi-reserved SQLite words recognized
// by the lexer, lowercase.
var keywords = map[string]struct{}{
	"abort": {}, "action": {}, "add": {}, "after": {}, "all": {},
	"alter": {}, "analyze": {}, "and": {}, "as": {}, "asc": {},
	"attach": {}, "autoincrement": {}, "before": {}, "begin": {},
	"between": {}, "by": {}, "cascade": {}, "case": {}, "cast": {},
	"check": {}, "collate": {}, "column": {}, "commit": {}, "conflict": {},
	"constraint": {}, "create": {}, "cross": {}, "current": {},
	"current_date": {}, "current_time": {}, "current_timestamp": {},
	"database": {}, "default": {}, "deferrable": {}, "deferred": {},
	"delete": {}, "desc": {}, "detach": {}, "distinct": {}, "do": {},
	"drop": {}, "each": {}, "else": {}, "end": {}, "escape": {},
	"except": {}, "exclusive": {}, "exists": {}, "explain": {}, "fail": {},
	"filter": {}, "first": {}, "following": {}, "for": {}, "foreign": {},
	"from": {}, "full": {}, "glob": {}, "group": {}, "groups": {},
	"having": {}, "if": {}, "ignore": {}, "immediate": {}, "in": {},
	"index": {}, "indexed": {}, "initially": {}, "inner": {}, "insert": {},
	"instead": {}, "intersect": {}, "into": {}, "is": {}, "isnull": {},
	"join": {}, "key": {}, "last": {}, "left": {}, "like": {},
	"limit": {}, "match": {}, "natural": {}, "no": {}, "not": {},
	"nothing": {}, "notnull": {}, "null": {}, "nulls": {}, "of": {},
	"offset": {}, "on": {}, "or": {}, "order": {}, "others": {},
	"outer": {}, "over": {}, "partition": {}, "plan": {}, "pragma": {},
	"preceding": {}, "primary": {}, "query": {}, "raise": {}, "range": {},
	"recursive": {}, "references": {}, "regexp": {}, "reindex": {},
	"release": {}, "rename": {}, "replace": {}, "restrict": {},
	"returning": {}, "right": {}, "rollback": {}, "row": {}, "rows": {},
	"savepoint": {}, "select": {}, "set": {}, "table": {}, "temp": {},
	"temporary": {}, "then": {}, "ties": {}, "to": {}, "transaction": {},
	"trigger": {}, "unbounded": {}, "union": {}, "unique": {}, "update": {},
	"using": {}, "vacuum": {}, "values": {}, "view": {}, "virtual": {},
	"when": {}, "where": {}, "window": {}, "with": {}, "without": {},
}

// Lookup returns Keyword if the identifier is a reserved word, Ident
// otherwise. Matching is case-insensitive.
func Lookup(ident string) Kind {
	if _, ok := keywords[strings.ToLower(ident)]; ok {
		return Keyword
	}
	return Ident
}

// IsReservedWord reports whether the word is reserved in SQLite,
// case-insensitively. Candidate escaping uses this to decide when a name
// needs quoting.
func IsReservedWord(word string) bool {
	_, ok := keywords[strings.ToLower(word)]
	return ok
}
