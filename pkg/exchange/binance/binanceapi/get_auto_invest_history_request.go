package binanceapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const autoInvestHistoryPath = "/sapi/v1/lending/auto-invest/history/list"

// autoInvestHistoryWeight is counted against the UID bucket
const autoInvestHistoryWeight = 6000

// GetAutoInvestHistoryRequest queries the subscription transaction history of the auto-invest plans.
// https://binance-docs.github.io/apidocs/spot/en/#query-subscription-transaction-history-user_data
type GetAutoInvestHistoryRequest struct {
	client Dispatcher

	planId      *string             `param:"planId"`
	targetAsset *string             `param:"targetAsset"`
	planType    *AutoInvestPlanType `param:"planType"`
	startTime   *time.Time          `param:"startTime,milliseconds"`
	endTime     *time.Time          `param:"endTime,milliseconds"`

	// current is the page number, starting from 1
	current *int `param:"current"`

	// size is the page size, max 100
	size *int `param:"size"`

	recvWindow *int64 `param:"recvWindow"`

	// defaultRecvWindow is sent when recvWindow is not set
	defaultRecvWindow time.Duration
}

// NewGetAutoInvestHistoryRequest creates the request with the receive window sent when the caller doesn't set one.
func NewGetAutoInvestHistoryRequest(client Dispatcher, defaultRecvWindow time.Duration) *GetAutoInvestHistoryRequest {
	return &GetAutoInvestHistoryRequest{
		client:            client,
		defaultRecvWindow: defaultRecvWindow,
	}
}

func (c *RestClient) NewGetAutoInvestHistoryRequest() *GetAutoInvestHistoryRequest {
	return NewGetAutoInvestHistoryRequest(c, c.recvWindow)
}

func (g *GetAutoInvestHistoryRequest) PlanId(planId string) *GetAutoInvestHistoryRequest {
	g.planId = &planId
	return g
}

func (g *GetAutoInvestHistoryRequest) TargetAsset(targetAsset string) *GetAutoInvestHistoryRequest {
	g.targetAsset = &targetAsset
	return g
}

func (g *GetAutoInvestHistoryRequest) PlanType(planType AutoInvestPlanType) *GetAutoInvestHistoryRequest {
	g.planType = &planType
	return g
}

func (g *GetAutoInvestHistoryRequest) StartTime(startTime time.Time) *GetAutoInvestHistoryRequest {
	g.startTime = &startTime
	return g
}

func (g *GetAutoInvestHistoryRequest) EndTime(endTime time.Time) *GetAutoInvestHistoryRequest {
	g.endTime = &endTime
	return g
}

func (g *GetAutoInvestHistoryRequest) Current(current int) *GetAutoInvestHistoryRequest {
	g.current = &current
	return g
}

func (g *GetAutoInvestHistoryRequest) Size(size int) *GetAutoInvestHistoryRequest {
	g.size = &size
	return g
}

// Page is sent as the "current" parameter
func (g *GetAutoInvestHistoryRequest) Page(page int) *GetAutoInvestHistoryRequest {
	return g.Current(page)
}

// Limit is sent as the "size" parameter
func (g *GetAutoInvestHistoryRequest) Limit(limit int) *GetAutoInvestHistoryRequest {
	return g.Size(limit)
}

// RecvWindow sets the receive window in milliseconds
func (g *GetAutoInvestHistoryRequest) RecvWindow(recvWindow int64) *GetAutoInvestHistoryRequest {
	g.recvWindow = &recvWindow
	return g
}

func (g *GetAutoInvestHistoryRequest) ReceiveWindow(d time.Duration) *GetAutoInvestHistoryRequest {
	return g.RecvWindow(d.Milliseconds())
}

// GetQueryParameters builds and checks the query parameters and returns url.Values
func (g *GetAutoInvestHistoryRequest) GetQueryParameters() (url.Values, error) {
	params, err := g.GetParameters()
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	for k, v := range params {
		query.Add(k, v.(string))
	}

	return query, nil
}

// GetParameters builds and checks the parameters and return the result in a map object.
// A parameter is present only when its setter was called, recvWindow falls back to the default receive window.
func (g *GetAutoInvestHistoryRequest) GetParameters() (map[string]interface{}, error) {
	var params = map[string]interface{}{}

	// check planId field -> json key planId
	if g.planId != nil {
		params["planId"] = *g.planId
	}

	// check targetAsset field -> json key targetAsset
	if g.targetAsset != nil {
		params["targetAsset"] = *g.targetAsset
	}

	// check planType field -> json key planType
	if g.planType != nil {
		params["planType"] = string(*g.planType)
	}

	// check current field -> json key current
	if g.current != nil {
		params["current"] = strconv.Itoa(*g.current)
	}

	// check size field -> json key size
	if g.size != nil {
		params["size"] = strconv.Itoa(*g.size)
	}

	// convert time.Time to milliseconds time stamp
	if g.startTime != nil {
		params["startTime"] = strconv.FormatInt(g.startTime.UnixMilli(), 10)
	}

	// convert time.Time to milliseconds time stamp
	if g.endTime != nil {
		params["endTime"] = strconv.FormatInt(g.endTime.UnixMilli(), 10)
	}

	if g.recvWindow != nil {
		params["recvWindow"] = strconv.FormatInt(*g.recvWindow, 10)
	} else {
		params["recvWindow"] = strconv.FormatInt(g.defaultRecvWindow.Milliseconds(), 10)
	}

	return params, nil
}

// GetParametersQuery converts the parameters from GetParameters into the url.Values format
func (g *GetAutoInvestHistoryRequest) GetParametersQuery() (url.Values, error) {
	return g.GetQueryParameters()
}

// Definition returns the cached definition of the endpoint.
func (g *GetAutoInvestHistoryRequest) Definition() *RequestDefinition {
	return definitions.GetOrCreate(http.MethodGet, autoInvestHistoryPath, RateLimitBucketSpotUID, autoInvestHistoryWeight, true)
}

func (g *GetAutoInvestHistoryRequest) Do(ctx context.Context) (*AutoInvestHistoryList, error) {
	query, err := g.GetQueryParameters()
	if err != nil {
		return nil, err
	}

	response, err := g.client.Dispatch(ctx, g.Definition(), query)
	if err != nil {
		return nil, err
	}

	var apiResponse AutoInvestHistoryList
	if err := response.DecodeJSON(&apiResponse); err != nil {
		return nil, err
	}

	return &apiResponse, nil
}
