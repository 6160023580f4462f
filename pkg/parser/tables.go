package parser

import (
	"strings"

	"github.com/leapstack-labs/leaplite/pkg/token"
)

// TableRef is one table referenced by a statement, with optional schema
// qualifier and alias. Names keep the casing the user wrote (quoting
// stripped).
type TableRef struct {
	Schema string
	Name   string
	Alias  string
}

// TableRefs extracts the table references of a statement from its FROM,
// JOIN, INTO, and UPDATE clauses. The scan is linear and depth-agnostic, so
// tables referenced inside subqueries are reported too; for completion that
// is a feature, not a bug. Input is expected to be mid-edit, so everything
// here is best-effort: a clause that cannot be read as a table reference
// contributes nothing.
func TableRefs(stmt Statement) []TableRef {
	toks := stmt.Significant()
	var refs []TableRef
	for i := 0; i < len(toks); i++ {
		switch toks[i].Keyword() {
		case "FROM", "JOIN", "INTO", "UPDATE":
			i = parseRefList(toks, i+1, &refs)
		}
	}
	return refs
}

// parseRefList reads a comma-separated run of table references starting at
// i and returns the index of the last token it consumed.
func parseRefList(toks []token.Token, i int, refs *[]TableRef) int {
	for {
		ref, next, ok := parseRef(toks, i)
		if !ok {
			return i - 1
		}
		*refs = append(*refs, ref)
		if next < len(toks) && toks[next].Kind == token.Punct && toks[next].Text == "," {
			i = next + 1
			continue
		}
		return next - 1
	}
}

// parseRef reads one table reference: name, optional schema qualifier,
// optional AS or bare alias. Returns the index after the reference.
func parseRef(toks []token.Token, i int) (TableRef, int, bool) {
	if i >= len(toks) || !isName(toks[i]) {
		return TableRef{}, i, false
	}
	ref := TableRef{Name: toks[i].Name()}
	i++

	if i+1 < len(toks) && isDot(toks[i]) && isName(toks[i+1]) {
		ref.Schema = ref.Name
		ref.Name = toks[i+1].Name()
		i += 2
	} else if i < len(toks) && isDot(toks[i]) {
		// Hanging qualifier mid-edit ("FROM main."); keep what we have.
		i++
	}

	switch {
	case i < len(toks) && toks[i].Keyword() == "AS":
		i++
		if i < len(toks) && isName(toks[i]) {
			ref.Alias = toks[i].Name()
			i++
		}
	case i < len(toks) && isName(toks[i]):
		// Bare alias. Clause keywords never land here because the lexer
		// kinds them as keywords, which isName rejects.
		ref.Alias = toks[i].Name()
		i++
	}

	return ref, i, true
}

// Aliases flattens table references into an alias→table mapping. A
// redeclared alias resolves to its later declaration.
func Aliases(refs []TableRef) map[string]string {
	m := make(map[string]string, len(refs))
	for _, r := range refs {
		if r.Alias != "" {
			m[r.Alias] = r.Name
		}
	}
	return m
}

// Resolve maps a qualifier the user typed (alias or table name) to the
// underlying table. Aliases win over table names, later declarations over
// earlier ones, and matching follows SQLite's case-insensitive identifier
// rules.
func Resolve(refs []TableRef, qualifier string) (string, bool) {
	for i := len(refs) - 1; i >= 0; i-- {
		if refs[i].Alias != "" && strings.EqualFold(refs[i].Alias, qualifier) {
			return refs[i].Name, true
		}
	}
	for _, r := range refs {
		if strings.EqualFold(r.Name, qualifier) {
			return r.Name, true
		}
	}
	return "", false
}

func isName(t token.Token) bool {
	return t.Kind == token.Ident || t.Kind == token.QuotedIdent
}

func isDot(t token.Token) bool {
	return t.Kind == token.Punct && t.Text == "."
}
