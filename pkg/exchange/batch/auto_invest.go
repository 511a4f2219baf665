package batch

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/c9s/autoinvest/pkg/exchange/binance/binanceapi"
)

// AutoInvestHistoryQuery holds the optional filters of the history query, empty fields are not sent.
type AutoInvestHistoryQuery struct {
	PlanId      string
	TargetAsset string
	PlanType    binanceapi.AutoInvestPlanType
}

type AutoInvestHistoryBatchQuery struct {
	Client binanceapi.Dispatcher

	// RecvWindow defaults to the client receive window
	RecvWindow time.Duration
}

func (q *AutoInvestHistoryBatchQuery) recvWindow() time.Duration {
	if q.RecvWindow > 0 {
		return q.RecvWindow
	}

	if c, ok := q.Client.(interface{ ReceiveWindow() time.Duration }); ok {
		return c.ReceiveWindow()
	}

	return binanceapi.DefaultReceiveWindow
}

func (q *AutoInvestHistoryBatchQuery) Query(
	ctx context.Context, query AutoInvestHistoryQuery, startTime, endTime time.Time, opts ...Option,
) (c chan binanceapi.AutoInvestHistoryItem, errC chan error) {
	o := options{
		pageSize: DefaultPageSize,
		// the endpoint weighs 6000 of the 180000 UID weight per minute
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}

	for _, opt := range opts {
		opt(&o)
	}

	recvWindow := q.recvWindow()
	paged := &AsyncPagedBatchQuery[binanceapi.AutoInvestHistoryItem]{
		Limiter:  o.limiter,
		PageSize: o.pageSize,
		Q: func(ctx context.Context, page, size int) ([]binanceapi.AutoInvestHistoryItem, int, error) {
			log.Infof("batch querying auto invest history %s <=> %s page %d", startTime, endTime, page)

			req := binanceapi.NewGetAutoInvestHistoryRequest(q.Client, recvWindow).
				StartTime(startTime).
				EndTime(endTime).
				Current(page).
				Size(size)

			if query.PlanId != "" {
				req.PlanId(query.PlanId)
			}

			if query.TargetAsset != "" {
				req.TargetAsset(query.TargetAsset)
			}

			if query.PlanType != "" {
				req.PlanType(query.PlanType)
			}

			list, err := req.Do(ctx)
			if err != nil {
				return nil, 0, err
			}

			return list.Rows, list.Total, nil
		},
		ID: func(item binanceapi.AutoInvestHistoryItem) string {
			return strconv.FormatInt(item.Id, 10)
		},
	}

	c = make(chan binanceapi.AutoInvestHistoryItem, o.pageSize)
	errC = paged.Query(ctx, c)
	return c, errC
}
