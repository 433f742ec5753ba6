// Package migrations contains dialect-aware Go database migrations. The catalog
// tables need an auto-increment key and a boolean column, neither of which has
// one spelling across SQLite, PostgreSQL and MySQL.
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
