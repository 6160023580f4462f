// Package main provides a generator that extracts the built-in function
// vocabulary from a live SQLite build and generates Go code for the token
// package.
//
// Usage:
//
//	go run ./scripts/genvocab -out=pkg/token/functions_gen.go
package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"go/format"
	"log"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"

	_ "modernc.org/sqlite"
)

var outFlag = flag.String("out", "", "output file path (required)")

func main() {
	flag.Parse()

	if *outFlag == "" {
		log.Fatal("--out flag is required")
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		log.Fatalf("failed to open sqlite: %v", err)
	}

	ctx := context.Background()

	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		_ = db.Close()
		log.Fatalf("failed to get version: %v", err)
	}
	log.Printf("Connected to SQLite %s", version)

	functions, err := extractFunctions(ctx, db)
	if err != nil {
		_ = db.Close()
		log.Fatalf("failed to extract functions: %v", err)
	}
	log.Printf("Extracted %d functions", len(functions))

	if err := db.Close(); err != nil {
		log.Printf("warning: failed to close db: %v", err)
	}

	code := generateCode(version, functions)

	formatted, err := format.Source([]byte(code))
	if err != nil {
		log.Printf("Warning: failed to format generated code: %v", err)
		formatted = []byte(code)
	}

	if err := os.WriteFile(*outFlag, formatted, 0o600); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}

	log.Printf("Generated %s", *outFlag)
}

func extractFunctions(ctx context.Context, db *sql.DB) ([]string, error) {
	query := `
		SELECT DISTINCT name
		FROM pragma_function_list
		WHERE builtin = 1
		ORDER BY name
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query functions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	seen := make(map[string]bool)
	var functions []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		// Operator implementations (->, ->>, some extension entry points)
		// share the catalog; only identifier-shaped names complete.
		if !isIdentifier(name) {
			continue
		}

		upper := strings.ToUpper(name)
		if seen[upper] {
			continue
		}
		seen[upper] = true
		functions = append(functions, upper)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Strings(functions)
	return functions, nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_':
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

func generateCode(version string, functions []string) string {
	var buf bytes.Buffer

	buf.WriteString("// Code generated by scripts/genvocab. DO NOT EDIT.\n")
	buf.WriteString(fmt.Sprintf("// Source: SQLite %s\n", version))
	buf.WriteString(fmt.Sprintf("// Generated: %s\n\n", time.Now().Format("2006-01-02")))
	buf.WriteString("package token\n\n")

	buf.WriteString("// completionFunctions is the built-in function vocabulary offered by\n")
	buf.WriteString("// completion, taken from pragma_function_list on a stock build.\n")
	buf.WriteString("var completionFunctions = []string{\n")
	for _, fn := range functions {
		fmt.Fprintf(&buf, "\t%q,\n", fn)
	}
	buf.WriteString("}\n")

	return buf.String()
}
