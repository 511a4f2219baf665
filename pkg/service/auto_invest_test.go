package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/c9s/autoinvest/pkg/exchange/batch"
	"github.com/c9s/autoinvest/pkg/exchange/binance/binanceapi"
	"github.com/c9s/autoinvest/pkg/testing/httptesting"
	"github.com/c9s/autoinvest/pkg/types"
)

func newHistoryItem(id int64, transactionTime time.Time) binanceapi.AutoInvestHistoryItem {
	return binanceapi.AutoInvestHistoryItem{
		Id:                  id,
		TargetAsset:         "BTC",
		PlanType:            binanceapi.AutoInvestPlanTypeSingle,
		PlanName:            "btc plan",
		PlanId:              42,
		TransactionDateTime: types.MillisecondTimestamp(transactionTime),
		TransactionStatus:   binanceapi.AutoInvestTransactionStatusSuccess,
		SourceAsset:         "USDT",
		SourceAssetAmount:   types.NewDecimalFromInt(100),
		TargetAssetAmount:   types.MustNewDecimalFromString("0.0025"),
		SourceWallet:        "SPOT_WALLET",
		FlexibleUsed:        true,
		TransactionFee:      types.MustNewDecimalFromString("0.1"),
		TransactionFeeUnit:  "USDT",
		ExecutionPrice:      types.NewDecimalFromInt(40000),
		ExecutionType:       binanceapi.AutoInvestExecutionTypeRecurring,
		SubscriptionCycle:   "DAILY",
	}
}

func TestAutoInvestService_InsertAndQueryLast(t *testing.T) {
	db := prepareDB(t)
	defer db.Close()

	ctx := context.Background()
	service := &AutoInvestService{DB: db}

	lastTime, err := service.QueryLastTime(ctx)
	require.NoError(t, err)
	assert.True(t, lastTime.IsZero())

	t1 := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)

	require.NoError(t, service.Insert(ctx, newHistoryItem(1, t1)))
	require.NoError(t, service.Insert(ctx, newHistoryItem(2, t2)))

	// the same transaction id is updated
	failed := newHistoryItem(2, t2)
	failed.TransactionStatus = binanceapi.AutoInvestTransactionStatusFailure
	failed.FailedType = "INSUFFICIENT_BALANCE"
	require.NoError(t, service.Insert(ctx, failed))

	items, err := service.QueryLast(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(2), items[0].Id)
	assert.Equal(t, binanceapi.AutoInvestTransactionStatusFailure, items[0].TransactionStatus)
	assert.Equal(t, "INSUFFICIENT_BALANCE", items[0].FailedType)
	assert.True(t, t2.Equal(items[0].TransactionDateTime.Time()))

	assert.Equal(t, int64(1), items[1].Id)
	assert.Equal(t, "BTC", items[1].TargetAsset)
	assert.True(t, items[1].FlexibleUsed)
	assert.Equal(t, "0.0025", items[1].TargetAssetAmount.String())
	assert.Equal(t, "40000", items[1].ExecutionPrice.String())

	items, err = service.QueryLast(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	lastTime, err = service.QueryLastTime(ctx)
	require.NoError(t, err)
	assert.True(t, t2.Equal(lastTime), "got %s", lastTime)
}

func TestAutoInvestService_Insert_MySQL(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	service := &AutoInvestService{DB: sqlx.NewDb(mockDB, "mysql")}

	mock.ExpectExec("INSERT INTO `auto_invest_history` \\(transaction_id, .+\\) VALUES \\(\\?, .+\\) ON DUPLICATE KEY UPDATE `target_asset` = VALUES\\(`target_asset`\\)").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = service.Insert(context.Background(), newHistoryItem(1, time.Now()))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoInvestService_QueryLast_Postgres(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	service := &AutoInvestService{DB: sqlx.NewDb(mockDB, "postgres")}

	mock.ExpectQuery("SELECT \\* FROM auto_invest_history ORDER BY transaction_time DESC, transaction_id DESC LIMIT 5").
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "target_asset", "transaction_time", "source_asset_amount"}).
			AddRow(3, "ETH", time.UnixMilli(1700000000000), "1.25"))

	items, err := service.QueryLast(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].Id)
	assert.Equal(t, "ETH", items[0].TargetAsset)
	assert.Equal(t, "1.25", items[0].SourceAssetAmount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoInvestService_Sync(t *testing.T) {
	db := prepareDB(t)
	defer db.Close()

	ctx := context.Background()
	service := &AutoInvestService{DB: db}

	existing := time.Now().Add(-time.Hour).Truncate(time.Millisecond).UTC()
	require.NoError(t, service.Insert(ctx, newHistoryItem(1, existing)))

	transport := &httptesting.MockTransport{}
	client := binanceapi.NewClient("")
	client.HttpClient.Transport = transport
	client.Auth("key", "secret")

	transport.GET("/sapi/v1/lending/auto-invest/history/list", func(req *http.Request) (*http.Response, error) {
		return httptesting.BuildResponseJson(http.StatusOK, binanceapi.AutoInvestHistoryList{
			Rows: []binanceapi.AutoInvestHistoryItem{
				newHistoryItem(1, existing),
				newHistoryItem(2, existing.Add(time.Minute)),
			},
			Total: 2,
		}), nil
	})

	stored, err := service.Sync(ctx, client, time.Now().AddDate(0, -1, 0), batch.Limiter(rate.NewLimiter(rate.Inf, 1)))
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	// the sync starts from the last stored transaction
	startTime := transport.LastRequest().URL.Query().Get("startTime")
	assert.Equal(t, existing.UnixMilli(), mustParseInt(t, startTime))

	items, err := service.QueryLast(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestAutoInvestService_Sync_InsertError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	service := &AutoInvestService{DB: sqlx.NewDb(mockDB, "sqlite3")}

	mock.ExpectQuery("SELECT MAX\\(transaction_time\\) FROM auto_invest_history").
		WillReturnRows(sqlmock.NewRows([]string{"MAX(transaction_time)"}).AddRow(nil))
	mock.ExpectExec("INSERT INTO `auto_invest_history`").
		WillReturnError(assert.AnError)
	mock.ExpectExec("INSERT INTO `auto_invest_history`").
		WillReturnResult(sqlmock.NewResult(2, 1))

	transport := &httptesting.MockTransport{}
	client := binanceapi.NewClient("")
	client.HttpClient.Transport = transport
	client.Auth("key", "secret")

	transport.GET("/sapi/v1/lending/auto-invest/history/list", func(req *http.Request) (*http.Response, error) {
		return httptesting.BuildResponseJson(http.StatusOK, binanceapi.AutoInvestHistoryList{
			Rows: []binanceapi.AutoInvestHistoryItem{
				newHistoryItem(1, time.Now()),
				newHistoryItem(2, time.Now()),
			},
			Total: 2,
		}), nil
	})

	stored, err := service.Sync(context.Background(), client, time.Now().AddDate(0, 0, -7), batch.Limiter(rate.NewLimiter(rate.Inf, 1)))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, stored)
	assert.NoError(t, mock.ExpectationsWereMet())
}
