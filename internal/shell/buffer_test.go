package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineBufferSingleStatement(t *testing.T) {
	var buf lineBuffer

	input, ready := buf.push("SELECT 1;")
	assert.True(t, ready)
	assert.Equal(t, "SELECT 1;", input)
	assert.False(t, buf.pending())
}

func TestLineBufferMultiline(t *testing.T) {
	var buf lineBuffer

	_, ready := buf.push("SELECT *")
	assert.False(t, ready)
	assert.True(t, buf.pending())

	input, ready := buf.push("FROM users;")
	assert.True(t, ready)
	assert.Equal(t, "SELECT *\nFROM users;", input)
	assert.False(t, buf.pending())
}

func TestLineBufferTrailingSpaces(t *testing.T) {
	var buf lineBuffer

	input, ready := buf.push("SELECT 1;   ")
	assert.True(t, ready)
	assert.Equal(t, "SELECT 1;   ", input)
}

func TestLineBufferSigilDispatchesImmediately(t *testing.T) {
	var buf lineBuffer

	tests := []string{".tables", `\dt users`, ".quit", `\q`, "  .help"}
	for _, line := range tests {
		input, ready := buf.push(line)
		assert.True(t, ready, "line %q should dispatch", line)
		assert.NotEmpty(t, input)
		assert.False(t, buf.pending())
	}
}

func TestLineBufferQuitWords(t *testing.T) {
	var buf lineBuffer

	for _, line := range []string{"exit", "quit", ":q", "EXIT", "Quit"} {
		input, ready := buf.push(line)
		assert.True(t, ready, "line %q should dispatch", line)
		assert.Equal(t, line, input)
	}
}

func TestLineBufferBlankLineSkipped(t *testing.T) {
	var buf lineBuffer

	_, ready := buf.push("")
	assert.False(t, ready)
	assert.False(t, buf.pending())

	_, ready = buf.push("   ")
	assert.False(t, ready)
	assert.False(t, buf.pending())
}

func TestLineBufferBlankLineInsideStatement(t *testing.T) {
	var buf lineBuffer

	_, _ = buf.push("SELECT *")
	_, ready := buf.push("")
	assert.False(t, ready)
	assert.True(t, buf.pending())

	input, ready := buf.push("FROM users;")
	assert.True(t, ready)
	assert.Equal(t, "SELECT *\n\nFROM users;", input)
}

func TestLineBufferSigilOnlyOnFirstLine(t *testing.T) {
	var buf lineBuffer

	// Mid-statement a backslash is SQL text, not a command.
	_, ready := buf.push("SELECT 'a'")
	assert.False(t, ready)

	_, ready = buf.push(".tables")
	assert.False(t, ready)
	assert.True(t, buf.pending())

	input, ready := buf.push(";")
	assert.True(t, ready)
	assert.Equal(t, "SELECT 'a'\n.tables\n;", input)
}

func TestLineBufferReset(t *testing.T) {
	var buf lineBuffer

	_, _ = buf.push("SELECT *")
	buf.reset()
	assert.False(t, buf.pending())

	input, ready := buf.push("SELECT 2;")
	assert.True(t, ready)
	assert.Equal(t, "SELECT 2;", input)
}

func TestLineBufferFlush(t *testing.T) {
	var buf lineBuffer

	_, _ = buf.push("SELECT 1")
	assert.Equal(t, "SELECT 1", buf.flush())
	assert.False(t, buf.pending())
	assert.Empty(t, buf.flush())
}
