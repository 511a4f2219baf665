package service

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/c9s/autoinvest/pkg/exchange/batch"
	"github.com/c9s/autoinvest/pkg/exchange/binance/binanceapi"
	"github.com/c9s/autoinvest/pkg/types"
)

const autoInvestHistoryTable = "auto_invest_history"

var autoInvestHistoryColumns = []string{
	"transaction_id",
	"target_asset",
	"plan_type",
	"plan_name",
	"plan_id",
	"transaction_time",
	"transaction_status",
	"failed_type",
	"source_asset",
	"source_asset_amount",
	"target_asset_amount",
	"source_wallet",
	"flexible_used",
	"transaction_fee",
	"transaction_fee_unit",
	"execution_price",
	"execution_type",
	"subscription_cycle",
}

func autoInvestHistorySchema(dialect DatabaseDialect) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    transaction_id BIGINT NOT NULL PRIMARY KEY,
    target_asset VARCHAR(16) NOT NULL DEFAULT '',
    plan_type VARCHAR(16) NOT NULL DEFAULT '',
    plan_name VARCHAR(128) NOT NULL DEFAULT '',
    plan_id BIGINT NOT NULL DEFAULT 0,
    transaction_time %s NOT NULL,
    transaction_status VARCHAR(16) NOT NULL DEFAULT '',
    failed_type VARCHAR(64) NOT NULL DEFAULT '',
    source_asset VARCHAR(16) NOT NULL DEFAULT '',
    source_asset_amount DECIMAL(32, 16) NOT NULL DEFAULT 0,
    target_asset_amount DECIMAL(32, 16) NOT NULL DEFAULT 0,
    source_wallet VARCHAR(32) NOT NULL DEFAULT '',
    flexible_used BOOLEAN NOT NULL DEFAULT FALSE,
    transaction_fee DECIMAL(32, 16) NOT NULL DEFAULT 0,
    transaction_fee_unit VARCHAR(16) NOT NULL DEFAULT '',
    execution_price DECIMAL(32, 16) NOT NULL DEFAULT 0,
    execution_type VARCHAR(16) NOT NULL DEFAULT '',
    subscription_cycle VARCHAR(16) NOT NULL DEFAULT ''
)`, dialect.EscapeTableName(autoInvestHistoryTable), dialect.TimestampType())
}

type AutoInvestService struct {
	DB *sqlx.DB
}

func (s *AutoInvestService) dialect() DatabaseDialect {
	return GetDialect(s.DB.DriverName())
}

// Insert stores the transaction, an existing transaction with the same id is updated,
// the status of a pending transaction changes after it's executed.
func (s *AutoInvestService) Insert(ctx context.Context, item binanceapi.AutoInvestHistoryItem) error {
	sql := s.dialect().UpsertSQL(autoInvestHistoryTable,
		[]string{"transaction_id"},
		autoInvestHistoryColumns,
		autoInvestHistoryColumns[1:])

	_, err := s.DB.NamedExecContext(ctx, sql, item)
	return err
}

// QueryLast returns the latest transactions, newest first.
func (s *AutoInvestService) QueryLast(ctx context.Context, limit int) ([]binanceapi.AutoInvestHistoryItem, error) {
	dialect := s.dialect()
	sel := sq.Select("*").
		From(autoInvestHistoryTable).
		OrderBy("transaction_time DESC", "transaction_id DESC").
		Limit(uint64(limit))

	sql, args, err := dialect.ConfigurePlaceholder(sel).ToSql()
	if err != nil {
		return nil, err
	}

	var items []binanceapi.AutoInvestHistoryItem
	if err := s.DB.SelectContext(ctx, &items, sql, args...); err != nil {
		return nil, err
	}

	return items, nil
}

// QueryLastTime returns the time of the latest stored transaction, the zero time if there is none.
func (s *AutoInvestService) QueryLastTime(ctx context.Context) (time.Time, error) {
	sql, args, err := sq.Select("MAX(transaction_time)").From(autoInvestHistoryTable).ToSql()
	if err != nil {
		return time.Time{}, err
	}

	var lastTime types.MillisecondTimestamp
	if err := s.DB.GetContext(ctx, &lastTime, sql, args...); err != nil {
		return time.Time{}, err
	}

	return lastTime.Time(), nil
}

// Sync queries the transactions from the latest stored transaction time, or since when nothing is stored,
// and stores them. It returns the number of stored transactions.
// A failed insert doesn't stop the sync, the errors are combined into the returned error.
func (s *AutoInvestService) Sync(
	ctx context.Context, client binanceapi.Dispatcher, since time.Time, opts ...batch.Option,
) (int, error) {
	lastTime, err := s.QueryLastTime(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "unable to query the last auto invest transaction time")
	}

	startTime := since
	if lastTime.After(startTime) {
		startTime = lastTime
	}

	endTime := time.Now()
	logger := logrus.WithFields(logrus.Fields{
		"component": "sync",
		"startTime": startTime,
		"endTime":   endTime,
	})
	logger.Info("syncing auto invest history")

	q := &batch.AutoInvestHistoryBatchQuery{Client: client}
	c, errC := q.Query(ctx, batch.AutoInvestHistoryQuery{}, startTime, endTime, opts...)

	var errs error
	var stored int
	for item := range c {
		if err := s.Insert(ctx, item); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "unable to store auto invest transaction %d", item.Id))
			continue
		}

		stored++
	}

	if err := <-errC; err != nil {
		errs = multierr.Append(errs, err)
	}

	logger.Infof("synced %d auto invest transactions", stored)
	return stored, errs
}
