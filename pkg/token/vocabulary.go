package token

// completionKeywords is the keyword vocabulary offered by completion. It is
// wider than the lexer's reserved-word set: multi-word phrases complete as a
// unit ("ORDER BY", "NULLS FIRST") and common type names are included even
// though SQLite treats them as plain identifiers.
var completionKeywords = []string{
	"ABORT", "ACTION", "ADD", "AFTER", "ALL", "ALTER", "ANALYZE", "AND",
	"AS", "ASC", "ATTACH", "AUTOINCREMENT", "BEFORE", "BEGIN", "BETWEEN",
	"BIGINT", "BLOB", "BOOLEAN", "BY", "CASCADE", "CASE", "CAST",
	"CHARACTER", "CHECK", "CLOB", "COLLATE", "COLUMN", "COMMIT", "CONFLICT",
	"CONSTRAINT", "CREATE", "CROSS", "CURRENT", "CURRENT_DATE",
	"CURRENT_TIME", "CURRENT_TIMESTAMP", "DATABASE", "DATE", "DATETIME",
	"DECIMAL", "DEFAULT", "DEFERRABLE", "DEFERRED", "DELETE", "DETACH",
	"DISTINCT", "DO", "DOUBLE", "DOUBLE PRECISION", "DROP", "EACH", "ELSE",
	"END", "ESCAPE", "EXCEPT", "EXCLUSIVE", "EXISTS", "EXPLAIN", "FAIL",
	"FILTER", "FLOAT", "FOLLOWING", "FOR", "FOREIGN", "FROM", "FULL",
	"GLOB", "GROUP", "HAVING", "IF", "IGNORE", "IMMEDIATE", "IN", "INDEX",
	"INDEXED", "INITIALLY", "INNER", "INSERT", "INSTEAD", "INT", "INT2",
	"INT8", "INTEGER", "INTERSECT", "INTO", "IS", "ISNULL", "JOIN", "KEY",
	"LEFT", "LIKE", "LIMIT", "MATCH", "MEDIUMINT", "NATIVE CHARACTER",
	"NATURAL", "NCHAR", "NO", "NOT", "NOTHING", "NULL", "NULLS FIRST",
	"NULLS LAST", "NUMERIC", "NVARCHAR", "OF", "OFFSET", "ON", "OR",
	"ORDER BY", "OUTER", "OVER", "PARTITION", "PLAN", "PRAGMA", "PRECEDING",
	"PRIMARY", "QUERY", "RAISE", "RANGE", "REAL", "RECURSIVE", "REFERENCES",
	"REGEXP", "REINDEX", "RELEASE", "RENAME", "REPLACE", "RESTRICT",
	"RIGHT", "ROLLBACK", "ROW", "ROWS", "SAVEPOINT", "SELECT", "SET",
	"SMALLINT", "TABLE", "TEMP", "TEMPORARY", "TEXT", "THEN", "TINYINT",
	"TO", "TRANSACTION", "TRIGGER", "UNBOUNDED", "UNION", "UNIQUE",
	"UNSIGNED BIG INT", "UPDATE", "USING", "VACUUM", "VALUES", "VARCHAR",
	"VARYING CHARACTER", "VIEW", "VIRTUAL", "WHEN", "WHERE", "WINDOW",
	"WITH", "WITHOUT",
}

// Keywords returns the completion keyword vocabulary. The returned slice is
// a copy; callers may reorder it freely.
func Keywords() []string {
	out := make([]string, len(completionKeywords))
	copy(out, completionKeywords)
	return out
}

// Functions returns the built-in function vocabulary as a copy. The list
// lives in functions_gen.go and is refreshed with scripts/genvocab.
func Functions() []string {
	out := make([]string, len(completionFunctions))
	copy(out, completionFunctions)
	return out
}
