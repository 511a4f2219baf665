package binanceapi_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/c9s/requestgen"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/c9s/autoinvest/pkg/exchange/binance/binanceapi"
	"github.com/c9s/autoinvest/pkg/exchange/binance/binanceapi/mocks"
	"github.com/c9s/autoinvest/pkg/testing/httptesting"
)

func newResponse(t *testing.T, code int, body string) *requestgen.Response {
	resp, err := requestgen.NewResponse(httptesting.BuildResponseString(code, body))
	require.NoError(t, err)
	return resp
}

func TestGetAutoInvestHistoryRequest_Dispatch(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	dispatcher := mocks.NewMockDispatcher(mockCtrl)

	startTime := time.UnixMilli(1700000000000)
	dispatcher.EXPECT().
		Dispatch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, def *binanceapi.RequestDefinition, params url.Values) (*requestgen.Response, error) {
			assert.Equal(t, http.MethodGet, def.Method)
			assert.Equal(t, "/sapi/v1/lending/auto-invest/history/list", def.Path)
			assert.True(t, def.Authenticated)

			assert.Equal(t, url.Values{
				"planType":   []string{"PORTFOLIO"},
				"startTime":  []string{"1700000000000"},
				"current":    []string{"3"},
				"recvWindow": []string{"5000"},
			}, params)

			return newResponse(t, http.StatusOK, `{"list":[{"id":1,"planId":2,"sourceAssetAmount":"1.5"}],"total":21}`), nil
		})

	list, err := binanceapi.NewGetAutoInvestHistoryRequest(dispatcher, binanceapi.DefaultReceiveWindow).
		PlanType(binanceapi.AutoInvestPlanTypePortfolio).
		StartTime(startTime).
		Page(3).
		Do(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 21, list.Total)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, int64(1), list.Rows[0].Id)
	assert.Equal(t, "1.5", list.Rows[0].SourceAssetAmount.String())
}

func TestGetAutoInvestHistoryRequest_DispatchError(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	dispatcher := mocks.NewMockDispatcher(mockCtrl)
	dispatchErr := errors.New("connection reset")
	dispatcher.EXPECT().
		Dispatch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dispatchErr).
		Times(1)

	list, err := binanceapi.NewGetAutoInvestHistoryRequest(dispatcher, binanceapi.DefaultReceiveWindow).Do(context.Background())
	assert.Nil(t, list)
	assert.ErrorIs(t, err, dispatchErr)
}

func TestGetAutoInvestHistoryRequest_DecodeError(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	dispatcher := mocks.NewMockDispatcher(mockCtrl)
	dispatcher.EXPECT().
		Dispatch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(newResponse(t, http.StatusOK, `{"list":"unexpected"}`), nil)

	_, err := binanceapi.NewGetAutoInvestHistoryRequest(dispatcher, binanceapi.DefaultReceiveWindow).Do(context.Background())
	assert.Error(t, err)
}
