package shell

import (
	"path/filepath"
	"strings"
	"time"
)

// expandPrompt renders a prompt template. \d expands to the database path
// and \f to its file name, both "(none)" for an in-memory database. \n is a
// newline, \_ a space, and the remaining tokens are date and time fields.
func expandPrompt(template, dbPath string, now time.Time) string {
	db := dbPath
	if db == "" {
		db = "(none)"
	}

	replacer := strings.NewReplacer(
		`\d`, db,
		`\f`, filepath.Base(db),
		`\n`, "\n",
		`\D`, now.Format("Mon Jan 02 15:04:05 2006"),
		`\m`, now.Format("04"),
		`\P`, now.Format("PM"),
		`\R`, now.Format("15"),
		`\r`, now.Format("03"),
		`\s`, now.Format("05"),
		`\_`, " ",
	)
	return replacer.Replace(template)
}

// continuationPrompt right-aligns the continuation marker under the primary
// prompt so multiline statements line up.
func continuationPrompt(prompt string) string {
	const marker = "...> "

	if idx := strings.LastIndexByte(prompt, '\n'); idx >= 0 {
		prompt = prompt[idx+1:]
	}
	width := len([]rune(prompt))
	if width <= len(marker) {
		return marker
	}
	return strings.Repeat(" ", width-len(marker)) + marker
}
