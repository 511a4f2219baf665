package binanceapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const usedWeightHeader = "X-Mbx-Used-Weight-1m"

var latencyMetrics = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "binance_api_latency_ms",
		Help:    "The histogram of latency returned by Binance API",
		Buckets: prometheus.ExponentialBuckets(20, 2, 9), // 20ms to 5120ms
	},
	[]string{"path", "status_code"},
)

var usedWeightMetrics = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "binance_api_used_weight_1m",
		Help: "The request weight used in the current minute reported by Binance API",
	},
	[]string{"path"},
)

// recordLatencyMetrics records the request latency, statusCode 0 means the request did not reach the server.
func recordLatencyMetrics(req *http.Request, statusCode int, latency time.Duration) {
	latencyMetrics.With(prometheus.Labels{
		"path":        req.URL.Path,
		"status_code": strconv.Itoa(statusCode),
	}).Observe(float64(latency.Milliseconds()))
}

func recordUsedWeight(resp *http.Response) {
	w := resp.Header.Get(usedWeightHeader)
	if w == "" {
		return
	}

	weight, err := strconv.Atoi(w)
	if err != nil {
		log.WithError(err).Warnf("unable to parse %s header: %q", usedWeightHeader, w)
		return
	}

	path := ""
	if resp.Request != nil {
		path = resp.Request.URL.Path
	}

	usedWeightMetrics.With(prometheus.Labels{"path": path}).Set(float64(weight))
}
