package shell

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/leaplite/pkg/completion"
)

// metadataSource supplies the current schema snapshot, or nil before the
// first catalog load finishes.
type metadataSource interface {
	Snapshot() *completion.Snapshot
}

// completer bridges the completion engine to readline. Readline completes
// by appending a suffix to the typed word, so only candidates extending the
// word survive the bridge; substring matches and quoted rewrites are
// dropped here.
type completer struct {
	engine *completion.Engine
	meta   metadataSource
	casing string
}

func newCompleter(engine *completion.Engine, meta metadataSource, casing string) *completer {
	return &completer{engine: engine, meta: meta, casing: casing}
}

// Do implements readline.AutoCompleter. The returned slices are the
// suffixes to append; length is the rune count of the word being completed.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos < 0 || pos > len(line) {
		return nil, 0
	}
	buffer := string(line)
	cursor := len(string(line[:pos]))

	var meta completion.Metadata
	if c.meta != nil {
		if snap := c.meta.Snapshot(); snap != nil {
			meta = snap
		}
	}

	cands, span, err := c.engine.Complete(buffer, cursor, meta)
	if err != nil {
		return nil, 0
	}

	word := buffer[span.Start:span.End]
	var suffixes [][]rune
	for _, cand := range cands {
		text := c.cased(cand, word)
		if len(text) <= len(word) || !strings.EqualFold(text[:len(word)], word) {
			continue
		}
		suffixes = append(suffixes, []rune(text[len(word):]))
	}
	return suffixes, len([]rune(word))
}

// cased applies the configured keyword casing. Identifiers keep their
// catalog casing; only keyword and function candidates are transformed.
func (c *completer) cased(cand completion.Candidate, word string) string {
	switch cand.Kind {
	case completion.ContextKeyword, completion.ContextFunction:
	default:
		return cand.Text
	}

	switch c.casing {
	case "lower":
		return strings.ToLower(cand.Text)
	case "upper":
		return cand.Text
	default:
		// auto follows the typed partial word
		if hasLowerLetter(word) {
			return strings.ToLower(cand.Text)
		}
		return cand.Text
	}
}

func hasLowerLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}
