package completion

import (
	"regexp"
	"sort"
	"strings"

	"github.com/leapstack-labs/leaplite/pkg/token"
)

// Candidate is one completion suggestion. Text is the replacement for the
// context's span, already quoted if the underlying name needs it.
type Candidate struct {
	Text string
	Kind ContextKind
}

type candidateKey struct {
	text string
	kind ContextKind
}

type scoredCandidate struct {
	cand     Candidate
	tier     int // 0 prefix match, 1 substring match
	priority int // block order within the context
	fold     string
}

// matcher accumulates candidate blocks and ranks them. Matching is
// case-insensitive against the display name; duplicates by (text, kind) keep
// their first, highest-priority occurrence.
type matcher struct {
	word   string
	scored []scoredCandidate
	seen   map[candidateKey]struct{}
}

func newMatcher(word string) *matcher {
	return &matcher{
		word: strings.ToLower(word),
		seen: make(map[candidateKey]struct{}),
	}
}

func (m *matcher) add(items []string, kind ContextKind, priority int, quote bool) {
	for _, item := range items {
		idx := strings.Index(strings.ToLower(item), m.word)
		if idx < 0 {
			continue
		}
		text := item
		if quote {
			text = escapeName(item)
		}
		key := candidateKey{text: text, kind: kind}
		if _, dup := m.seen[key]; dup {
			continue
		}
		m.seen[key] = struct{}{}
		tier := 0
		if idx > 0 {
			tier = 1
		}
		m.scored = append(m.scored, scoredCandidate{
			cand:     Candidate{Text: text, Kind: kind},
			tier:     tier,
			priority: priority,
			fold:     strings.ToLower(item),
		})
	}
}

// results sorts accumulated candidates: every prefix match before every
// substring match, then block priority, then case-insensitive alphabetical.
// The full key makes the order deterministic for identical inputs.
func (m *matcher) results() []Candidate {
	sort.SliceStable(m.scored, func(i, j int) bool {
		a, b := m.scored[i], m.scored[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.fold != b.fold {
			return a.fold < b.fold
		}
		return a.cand.Text < b.cand.Text
	})
	out := make([]Candidate, len(m.scored))
	for i, s := range m.scored {
		out[i] = s.cand
	}
	return out
}

// bareIdent matches names that need no quoting in SQL text.
var bareIdent = regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9$]*$`)

var functionNames = func() map[string]struct{} {
	funcs := token.Functions()
	m := make(map[string]struct{}, len(funcs))
	for _, f := range funcs {
		m[f] = struct{}{}
	}
	return m
}()

// escapeName backtick-quotes a schema name when inserting it bare would
// change the statement's meaning: names with odd characters, reserved words,
// and names shadowed by built-in functions.
func escapeName(name string) string {
	if name == "" || name == "*" {
		return name
	}
	if bareIdent.MatchString(name) && !token.IsReservedWord(name) && !isFunctionName(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func isFunctionName(name string) bool {
	_, ok := functionNames[strings.ToUpper(name)]
	return ok
}
