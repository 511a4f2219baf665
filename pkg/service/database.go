package service

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

type DatabaseService struct {
	Driver string
	DSN    string
	DB     *sqlx.DB
}

func NewDatabaseService(driver, dsn string) (*DatabaseService, error) {
	if driver == "mysql" {
		var err error
		dsn, err = ReformatMysqlDSN(dsn)
		if err != nil {
			return nil, err
		}
	}

	return &DatabaseService{
		Driver: driver,
		DSN:    dsn,
	}, nil
}

func (s *DatabaseService) Connect() error {
	var err error
	s.DB, err = sqlx.Connect(s.Driver, s.DSN)
	if err != nil {
		return err
	}

	if s.Driver == "sqlite3" {
		// a sqlite database, in-memory ones included, must be shared by a single connection
		s.DB.SetMaxOpenConns(1)
	}

	return nil
}

func (s *DatabaseService) Close() error {
	return s.DB.Close()
}

// Migrate creates the tables that don't exist yet.
func (s *DatabaseService) Migrate(ctx context.Context) error {
	return Migrate(ctx, s.DB)
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	dialect := GetDialect(db.DriverName())
	for _, stmt := range []string{autoInvestHistorySchema(dialect)} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func ReformatMysqlDSN(dsn string) (string, error) {
	config, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}

	config.ParseTime = true
	dsn = config.FormatDSN()
	return dsn, nil
}
