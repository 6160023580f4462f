package shell

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/leaplite/internal/sqlexec"
)

// Render writes one result to w in the given format, followed by its status
// line. Catalog listings carry no status and fall back to a row-count
// footer. Timing appends the statement duration to the status line.
func Render(w io.Writer, res sqlexec.Result, format string, timing bool) error {
	if err := renderData(w, res, format); err != nil {
		return err
	}

	status := res.Status
	if status == "" && res.HasRows() && (format == "table" || format == "md" || format == "markdown") {
		status = fmt.Sprintf("(%d rows)", len(res.Rows))
	}
	if timing && res.Duration > 0 {
		elapsed := fmt.Sprintf("(%.3fs)", res.Duration.Seconds())
		if status == "" {
			status = elapsed
		} else {
			status += " " + elapsed
		}
	}
	if status != "" {
		_, _ = fmt.Fprintln(w, status)
	}
	return nil
}

// RenderData writes only the result data, never a status line. Batch
// execution uses it so piped csv or json output stays parseable.
func RenderData(w io.Writer, res sqlexec.Result, format string) error {
	return renderData(w, res, format)
}

func renderData(w io.Writer, res sqlexec.Result, format string) error {
	if res.Title != "" {
		_, _ = fmt.Fprintln(w, res.Title)
	}
	if !res.HasRows() {
		return nil
	}

	switch format {
	case "json":
		return renderJSON(w, res)
	case "csv":
		renderCSV(w, res)
	case "md", "markdown":
		renderMarkdown(w, res)
	default:
		renderTable(w, res)
	}
	return nil
}

func renderTable(w io.Writer, res sqlexec.Result) {
	if len(res.Rows) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(res.Columns))
	for i, col := range res.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, r := range res.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}

	t.Render()
}

func renderJSON(w io.Writer, res sqlexec.Result) error {
	results := make([]map[string]any, 0, len(res.Rows))
	for _, r := range res.Rows {
		row := make(map[string]any, len(res.Columns))
		for i, col := range res.Columns {
			row[col] = r[i]
		}
		results = append(results, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderCSV(w io.Writer, res sqlexec.Result) {
	_, _ = fmt.Fprintln(w, strings.Join(res.Columns, ","))

	for _, r := range res.Rows {
		values := make([]string, len(r))
		for i, v := range r {
			values[i] = escapeCSV(v)
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
}

func renderMarkdown(w io.Writer, res sqlexec.Result) {
	if len(res.Rows) == 0 {
		return
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(res.Columns, " | "))

	seps := make([]string, len(res.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, r := range res.Rows {
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(r, " | "))
	}
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
