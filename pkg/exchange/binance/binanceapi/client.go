package binanceapi

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/c9s/requestgen"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const defaultHTTPTimeout = time.Second * 15
const RestBaseURL = "https://api.binance.com"

// DefaultReceiveWindow is the recvWindow sent when neither the caller nor the client configures one.
const DefaultReceiveWindow = 5 * time.Second

const apiKeyHeader = "X-MBX-APIKEY"

var log = logrus.WithFields(logrus.Fields{
	"exchange": "binance",
	"api":      "sapi",
})

//go:generate mockgen -destination=mocks/mock_dispatcher.go -package=mocks . Dispatcher

// Dispatcher sends a request described by a RequestDefinition with the given query parameters.
// The implementation is responsible for signing, rate limiting and transport.
type Dispatcher interface {
	Dispatch(ctx context.Context, def *RequestDefinition, params url.Values) (*requestgen.Response, error)
}

type RestClient struct {
	requestgen.BaseAPIClient

	key, secret string

	privateKey ed25519.PrivateKey

	recvWindow time.Duration

	// timeOffset is the server time minus the local time in milliseconds
	timeOffset int64

	limiter *RateLimiter

	timeSync singleflight.Group
}

func NewClient(baseURL string) *RestClient {
	if len(baseURL) == 0 {
		baseURL = RestBaseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		panic(err)
	}

	return &RestClient{
		BaseAPIClient: requestgen.BaseAPIClient{
			BaseURL: u,
			HttpClient: &http.Client{
				Timeout: defaultHTTPTimeout,
			},
		},
		recvWindow: DefaultReceiveWindow,
		limiter:    NewRateLimiter(),
	}
}

// Auth sets the api key and the HMAC secret used for signing.
func (c *RestClient) Auth(key, secret string) {
	c.key = key
	// pragma: allowlist nextline secret
	c.secret = secret
	c.privateKey = nil
}

// AuthEd25519 sets the api key and the Ed25519 private key used for signing.
func (c *RestClient) AuthEd25519(key string, privateKey ed25519.PrivateKey) {
	c.key = key
	c.secret = ""
	c.privateKey = privateKey
}

func (c *RestClient) SetReceiveWindow(d time.Duration) {
	c.recvWindow = d
}

func (c *RestClient) ReceiveWindow() time.Duration {
	return c.recvWindow
}

func (c *RestClient) RateLimiter() *RateLimiter {
	return c.limiter
}

func (c *RestClient) TimeOffset() time.Duration {
	return time.Duration(atomic.LoadInt64(&c.timeOffset)) * time.Millisecond
}

// SetTimeOffsetFromServer queries the server time and stores the offset used for the timestamp parameter.
// Concurrent callers share the same server round trip.
func (c *RestClient) SetTimeOffsetFromServer(ctx context.Context) error {
	_, err, _ := c.timeSync.Do("time", func() (interface{}, error) {
		bc := binance.NewClient("", "")
		bc.BaseURL = c.BaseURL.String()
		bc.HTTPClient = c.HttpClient

		serverTime, err := bc.NewServerTimeService().Do(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "unable to query binance server time")
		}

		offset := serverTime - time.Now().UnixMilli()
		atomic.StoreInt64(&c.timeOffset, offset)
		log.Debugf("binance server time offset %dms", offset)
		return offset, nil
	})
	return err
}

func (c *RestClient) timestamp() int64 {
	return time.Now().UnixMilli() + atomic.LoadInt64(&c.timeOffset)
}

// NewAuthenticatedRequest creates new http request for authenticated routes.
// The timestamp and the signature are appended to the query, the signature always being the last parameter.
func (c *RestClient) NewAuthenticatedRequest(
	ctx context.Context, method, refURL string, params url.Values, payload interface{},
) (*http.Request, error) {
	if len(c.key) == 0 {
		return nil, errors.New("empty api key")
	}

	if len(c.secret) == 0 && c.privateKey == nil {
		return nil, errors.New("empty api secret")
	}

	rel, err := url.Parse(refURL)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	for k, vs := range params {
		query[k] = append([]string(nil), vs...)
	}
	query.Set("timestamp", strconv.FormatInt(c.timestamp(), 10))

	body, err := castPayload(payload)
	if err != nil {
		return nil, err
	}

	rawQuery := query.Encode()
	signature := c.sign(rawQuery + string(body))
	rel.RawQuery = rawQuery + "&signature=" + url.QueryEscape(signature)

	pathURL := c.BaseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, pathURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	if len(body) > 0 {
		req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add(apiKeyHeader, c.key)
	return req, nil
}

func (c *RestClient) sign(payload string) string {
	if c.privateKey != nil {
		return GenerateSignatureEd25519(payload, c.privateKey)
	}

	return sign(c.secret, payload)
}

// SendRequest sends the request to the API server and handle the response
func (c *RestClient) SendRequest(req *http.Request) (*requestgen.Response, error) {
	start := time.Now()
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		recordLatencyMetrics(req, 0, time.Since(start))
		return nil, err
	}

	recordUsedWeight(resp)

	// newResponse reads the response body and return a new Response object
	response, err := requestgen.NewResponse(resp)
	recordLatencyMetrics(req, resp.StatusCode, time.Since(start))
	if err != nil {
		return response, err
	}

	if response.IsError() {
		return response, ToAPIError(response)
	}

	return response, nil
}

// Dispatch waits for the rate limit bucket of the definition and sends the request.
func (c *RestClient) Dispatch(ctx context.Context, def *RequestDefinition, params url.Values) (*requestgen.Response, error) {
	if err := c.limiter.Wait(ctx, def.RateLimitBucket, def.Weight); err != nil {
		return nil, err
	}

	var req *http.Request
	var err error
	if def.Authenticated {
		req, err = c.NewAuthenticatedRequest(ctx, def.Method, def.Path, params, nil)
	} else {
		req, err = c.NewRequest(ctx, def.Method, def.Path, params, nil)
	}

	if err != nil {
		return nil, err
	}

	return c.SendRequest(req)
}

// sign uses sha256 to sign the payload with the given secret
func sign(secret, payload string) string {
	var sig = hmac.New(sha256.New, []byte(secret))
	_, err := sig.Write([]byte(payload))
	if err != nil {
		return ""
	}

	return hex.EncodeToString(sig.Sum(nil))
}

func castPayload(payload interface{}) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}

	switch v := payload.(type) {
	case string:
		return []byte(v), nil

	case []byte:
		return v, nil

	case url.Values:
		return []byte(v.Encode()), nil
	}

	return json.Marshal(payload)
}
