package service

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// DatabaseDialect provides database-specific SQL syntax
type DatabaseDialect interface {
	// UpsertSQL inserts the row or updates the given columns when the conflict columns already exist
	UpsertSQL(tableName string, conflictColumns, columns, updateColumns []string) string

	// TimestampType is the column type of the millisecond precision timestamps
	TimestampType() string

	EscapeColumnName(name string) string
	EscapeTableName(name string) string

	// Query builder configuration
	ConfigurePlaceholder(builder sq.SelectBuilder) sq.SelectBuilder
}

// GetDialect returns the appropriate dialect for the given driver name
func GetDialect(driverName string) DatabaseDialect {
	switch driverName {
	case "mysql":
		return &MySQLDialect{}
	case "postgres":
		return &PostgreSQLDialect{}
	case "sqlite3":
		return &SQLiteDialect{}
	default:
		return &SQLiteDialect{} // default fallback
	}
}

// namedValues returns the ":column" placeholders used by the sqlx named queries
func namedValues(columns []string) string {
	var values = make([]string, len(columns))
	for i, c := range columns {
		values[i] = ":" + c
	}

	return strings.Join(values, ", ")
}

// MySQLDialect implements MySQL-specific SQL syntax
type MySQLDialect struct{}

func (d *MySQLDialect) UpsertSQL(tableName string, _ []string, columns, updateColumns []string) string {
	var updates []string
	for _, c := range updateColumns {
		updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", d.EscapeColumnName(c), d.EscapeColumnName(c)))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		d.EscapeTableName(tableName), strings.Join(columns, ", "), namedValues(columns), strings.Join(updates, ", "))
}

func (d *MySQLDialect) TimestampType() string {
	return "DATETIME(3)"
}

func (d *MySQLDialect) EscapeColumnName(name string) string {
	return "`" + name + "`"
}

func (d *MySQLDialect) EscapeTableName(name string) string {
	return "`" + name + "`"
}

func (d *MySQLDialect) ConfigurePlaceholder(builder sq.SelectBuilder) sq.SelectBuilder {
	// MySQL uses default placeholder format (?)
	return builder
}

// PostgreSQLDialect implements PostgreSQL-specific SQL syntax
type PostgreSQLDialect struct{}

func (d *PostgreSQLDialect) UpsertSQL(tableName string, conflictColumns, columns, updateColumns []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		d.EscapeTableName(tableName), strings.Join(columns, ", "), namedValues(columns),
		strings.Join(conflictColumns, ", "), excludedAssignments(d, updateColumns))
}

func (d *PostgreSQLDialect) TimestampType() string {
	return "TIMESTAMP(3)"
}

func (d *PostgreSQLDialect) EscapeColumnName(name string) string {
	return `"` + name + `"`
}

func (d *PostgreSQLDialect) EscapeTableName(name string) string {
	return `"` + name + `"`
}

func (d *PostgreSQLDialect) ConfigurePlaceholder(builder sq.SelectBuilder) sq.SelectBuilder {
	// PostgreSQL uses dollar placeholder format ($1, $2, etc.)
	return builder.PlaceholderFormat(sq.Dollar)
}

// SQLiteDialect implements SQLite-specific SQL syntax
type SQLiteDialect struct{}

func (d *SQLiteDialect) UpsertSQL(tableName string, conflictColumns, columns, updateColumns []string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		d.EscapeTableName(tableName), strings.Join(columns, ", "), namedValues(columns),
		strings.Join(conflictColumns, ", "), excludedAssignments(d, updateColumns))
}

func (d *SQLiteDialect) TimestampType() string {
	return "DATETIME"
}

func (d *SQLiteDialect) EscapeColumnName(name string) string {
	return "`" + name + "`"
}

func (d *SQLiteDialect) EscapeTableName(name string) string {
	return "`" + name + "`"
}

func (d *SQLiteDialect) ConfigurePlaceholder(builder sq.SelectBuilder) sq.SelectBuilder {
	// SQLite uses default placeholder format (?)
	return builder
}

func excludedAssignments(d DatabaseDialect, columns []string) string {
	var updates []string
	for _, c := range columns {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", d.EscapeColumnName(c), d.EscapeColumnName(c)))
	}

	return strings.Join(updates, ", ")
}
