// Package feed owns the telemetry data path: fetching raw OHLCV series,
// deriving the indicator fields the stat computators read, and exposing
// the result as a telemetry.BarProvider.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wonny/fleetdeck/pkg/config"
	"github.com/wonny/fleetdeck/pkg/httputil"
	"github.com/wonny/fleetdeck/pkg/logger"
)

// RawBar is one OHLCV sample before indicator enrichment.
type RawBar struct {
	Time   int64
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// ChartClient fetches daily bar series from the chart API.
// ⭐ SSOT: 차트 API 호출은 이 클라이언트에서만
type ChartClient struct {
	baseURL    string
	httpClient *httputil.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
}

// NewChartClient creates a rate-limited chart API client.
func NewChartClient(cfg config.FeedConfig, httpClient *httputil.Client, log *logger.Logger) *ChartClient {
	return &ChartClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:     log,
	}
}

// FetchDaily fetches the most recent count daily bars for a ticker,
// oldest first.
func (c *ChartClient) FetchDaily(ctx context.Context, ticker string, count int) ([]RawBar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	url := fmt.Sprintf("%s/siseJson.naver?symbol=%s&requestType=2&count=%d&timeframe=day",
		c.baseURL, ticker, count)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	bars, err := parseChartResponse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(bars),
	}).Debug("Fetched daily bars")

	return bars, nil
}

// parseChartResponse parses the chart API body. The endpoint answers
// with a single-quoted JSON array of rows; a regex pass covers the
// occasional malformed payload.
func parseChartResponse(body string) ([]RawBar, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err == nil {
		return parseChartJSON(rawData)
	}

	return parseChartRegex(body)
}

// parseChartJSON parses rows of [epoch, open, high, low, close, volume].
func parseChartJSON(rawData [][]interface{}) ([]RawBar, error) {
	bars := make([]RawBar, 0, len(rawData))
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // skip header row
		}

		epoch := toFloat(row[0])
		if epoch <= 0 {
			continue
		}

		bars = append(bars, RawBar{
			Time:   int64(epoch),
			Open:   toFloat(row[1]),
			High:   toFloat(row[2]),
			Low:    toFloat(row[3]),
			Close:  toFloat(row[4]),
			Volume: toFloat(row[5]),
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars in response")
	}
	return bars, nil
}

var chartRowRe = regexp.MustCompile(`\[(\d+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+)\]`)

// parseChartRegex is the fallback parser for payloads that fail strict
// JSON decoding.
func parseChartRegex(body string) ([]RawBar, error) {
	matches := chartRowRe.FindAllStringSubmatch(body, -1)

	bars := make([]RawBar, 0, len(matches))
	for _, match := range matches {
		if len(match) < 7 {
			continue
		}

		epoch, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			continue
		}

		open, _ := strconv.ParseFloat(match[2], 64)
		high, _ := strconv.ParseFloat(match[3], 64)
		low, _ := strconv.ParseFloat(match[4], 64)
		closePrice, _ := strconv.ParseFloat(match[5], 64)
		volume, _ := strconv.ParseFloat(match[6], 64)

		bars = append(bars, RawBar{
			Time:   epoch,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars in response")
	}
	return bars, nil
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(strings.Trim(n, "\""), 64)
		return f
	default:
		return 0
	}
}
