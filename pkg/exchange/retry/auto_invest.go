package retry

import (
	"context"

	"github.com/pkg/errors"

	"github.com/c9s/autoinvest/pkg/exchange/binance/binanceapi"
	"github.com/c9s/autoinvest/pkg/util/backoff"
)

type autoInvestHistoryRequest interface {
	Do(ctx context.Context) (*binanceapi.AutoInvestHistoryList, error)
}

// QueryAutoInvestHistoryUntilSuccessful sends the request until it succeeds.
// The API errors caused by the request content are not retried.
func QueryAutoInvestHistoryUntilSuccessful(
	ctx context.Context, req autoInvestHistoryRequest,
) (list *binanceapi.AutoInvestHistoryList, err error) {
	var op = func() (err2 error) {
		list, err2 = req.Do(ctx)
		if err2 == nil {
			return nil
		}

		var apiErr *binanceapi.APIError
		if errors.As(err2, &apiErr) && apiErr.IsClientError() {
			return backoff.Permanent(err2)
		}

		log.WithError(err2).Warn("auto invest history query failed, retrying")
		return err2
	}

	err = backoff.RetryGeneral(ctx, op)
	return list, err
}
