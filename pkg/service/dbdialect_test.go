package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialect_UpsertSQL(t *testing.T) {
	columns := []string{"transaction_id", "target_asset"}
	update := []string{"target_asset"}

	assert.Equal(t,
		"INSERT INTO `history` (transaction_id, target_asset) VALUES (:transaction_id, :target_asset) ON DUPLICATE KEY UPDATE `target_asset` = VALUES(`target_asset`)",
		GetDialect("mysql").UpsertSQL("history", []string{"transaction_id"}, columns, update))

	assert.Equal(t,
		`INSERT INTO "history" (transaction_id, target_asset) VALUES (:transaction_id, :target_asset) ON CONFLICT (transaction_id) DO UPDATE SET "target_asset" = excluded."target_asset"`,
		GetDialect("postgres").UpsertSQL("history", []string{"transaction_id"}, columns, update))

	assert.Equal(t,
		"INSERT INTO `history` (transaction_id, target_asset) VALUES (:transaction_id, :target_asset) ON CONFLICT (transaction_id) DO UPDATE SET `target_asset` = excluded.`target_asset`",
		GetDialect("sqlite3").UpsertSQL("history", []string{"transaction_id"}, columns, update))
}

func TestGetDialect(t *testing.T) {
	assert.IsType(t, &MySQLDialect{}, GetDialect("mysql"))
	assert.IsType(t, &PostgreSQLDialect{}, GetDialect("postgres"))
	assert.IsType(t, &SQLiteDialect{}, GetDialect("sqlite3"))
	assert.IsType(t, &SQLiteDialect{}, GetDialect("unknown"))
}

func TestReformatMysqlDSN(t *testing.T) {
	dsn, err := ReformatMysqlDSN("root:secret@tcp(127.0.0.1:3306)/autoinvest")
	assert.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = ReformatMysqlDSN("not a dsn")
	assert.Error(t, err)
}

func mustParseInt(t *testing.T, s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	assert.NoError(t, err)
	return i
}
