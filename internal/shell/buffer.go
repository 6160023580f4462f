package shell

import "strings"

// quitWords are inputs dispatched immediately even though they carry no
// terminator or command sigil.
var quitWords = map[string]bool{
	"exit": true,
	"quit": true,
	":q":   true,
}

// lineBuffer accumulates input lines until they form a dispatchable unit.
// Special command lines and quit words dispatch on their own; SQL buffers
// until a statement terminator arrives.
type lineBuffer struct {
	lines []string
}

// push appends line and reports whether the buffer is ready to dispatch.
// A ready buffer is returned joined and left empty.
func (b *lineBuffer) push(line string) (string, bool) {
	if len(b.lines) == 0 {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return "", false
		}
		if trimmed[0] == '.' || trimmed[0] == '\\' || quitWords[strings.ToLower(trimmed)] {
			return trimmed, true
		}
	}

	b.lines = append(b.lines, line)
	joined := strings.Join(b.lines, "\n")
	if strings.HasSuffix(strings.TrimSpace(joined), ";") {
		b.lines = nil
		return joined, true
	}
	return "", false
}

// pending reports whether lines are waiting for a terminator.
func (b *lineBuffer) pending() bool {
	return len(b.lines) > 0
}

// flush returns whatever is buffered, terminated or not. Batch input uses
// it at end of input; the final statement needs no trailing semicolon.
func (b *lineBuffer) flush() string {
	if len(b.lines) == 0 {
		return ""
	}
	joined := strings.Join(b.lines, "\n")
	b.lines = nil
	return joined
}

// reset drops any pending lines.
func (b *lineBuffer) reset() {
	b.lines = nil
}
