package batch

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/c9s/autoinvest/pkg/exchange/binance/binanceapi"
	"github.com/c9s/autoinvest/pkg/testing/httptesting"
)

func buildHistoryPage(ids []int, total int) string {
	var rows []string
	for _, id := range ids {
		rows = append(rows, fmt.Sprintf(`{"id":%d,"targetAsset":"BTC","planId":7,"transactionDateTime":%d,"transactionStatus":"SUCCESS","sourceAssetAmount":"10"}`,
			id, 1700000000000+int64(id)*1000))
	}

	return fmt.Sprintf(`{"list":[%s],"total":%d}`, strings.Join(rows, ","), total)
}

func TestAutoInvestHistoryBatchQuery_Query(t *testing.T) {
	transport := &httptesting.MockTransport{}
	client := binanceapi.NewClient("")
	client.HttpClient.Transport = transport
	client.Auth("key", "secret")

	var pages []string
	transport.GET("/sapi/v1/lending/auto-invest/history/list", func(req *http.Request) (*http.Response, error) {
		query := req.URL.Query()
		pages = append(pages, query.Get("current"))

		assert.Equal(t, "2", query.Get("size"))
		assert.Equal(t, "BTC", query.Get("targetAsset"))
		assert.Equal(t, "SINGLE", query.Get("planType"))
		assert.Empty(t, query.Get("planId"))

		page, _ := strconv.Atoi(query.Get("current"))
		switch page {
		case 1:
			return httptesting.BuildResponseString(http.StatusOK, buildHistoryPage([]int{1, 2}, 3)), nil
		case 2:
			return httptesting.BuildResponseString(http.StatusOK, buildHistoryPage([]int{3}, 3)), nil
		}

		return httptesting.BuildResponseString(http.StatusOK, buildHistoryPage(nil, 3)), nil
	})

	q := &AutoInvestHistoryBatchQuery{Client: client}
	startTime := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)
	endTime := startTime.AddDate(0, 1, 0)

	c, errC := q.Query(context.Background(), AutoInvestHistoryQuery{
		TargetAsset: "BTC",
		PlanType:    binanceapi.AutoInvestPlanTypeSingle,
	}, startTime, endTime, PageSize(2), Limiter(rate.NewLimiter(rate.Inf, 1)))

	var ids []int64
	for item := range c {
		ids = append(ids, item.Id)
	}

	require.NoError(t, <-errC)
	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.Equal(t, []string{"1", "2"}, pages)

	last := transport.LastRequest().URL.Query()
	assert.Equal(t, strconv.FormatInt(startTime.UnixMilli(), 10), last.Get("startTime"))
	assert.Equal(t, strconv.FormatInt(endTime.UnixMilli(), 10), last.Get("endTime"))
	assert.Equal(t, "5000", last.Get("recvWindow"))
}

func TestAutoInvestHistoryBatchQuery_APIError(t *testing.T) {
	transport := &httptesting.MockTransport{}
	client := binanceapi.NewClient("")
	client.HttpClient.Transport = transport
	client.Auth("key", "secret")

	transport.GET("/sapi/v1/lending/auto-invest/history/list", func(req *http.Request) (*http.Response, error) {
		return httptesting.BuildResponseString(http.StatusBadRequest, `{"code":-1102,"msg":"Illegal parameter."}`), nil
	})

	q := &AutoInvestHistoryBatchQuery{Client: client, RecvWindow: 10 * time.Second}
	c, errC := q.Query(context.Background(), AutoInvestHistoryQuery{}, time.Now().AddDate(0, 0, -1), time.Now(),
		Limiter(rate.NewLimiter(rate.Inf, 1)))

	for range c {
	}

	err := <-errC
	require.Error(t, err)

	var apiErr *binanceapi.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "10000", transport.LastRequest().URL.Query().Get("recvWindow"))
}
