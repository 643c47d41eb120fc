package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fleetdeck/pkg/config"
	"github.com/wonny/fleetdeck/pkg/httputil"
	"github.com/wonny/fleetdeck/pkg/logger"
)

func newTestClient(baseURL string) *ChartClient {
	log := logger.NewNop()
	cfg := config.FeedConfig{
		BaseURL:   baseURL,
		RateLimit: 100,
		RateBurst: 10,
	}
	return NewChartClient(cfg, httputil.New(log), log)
}

func TestParseChartResponse_SingleQuotedJSON(t *testing.T) {
	body := `[
		['date', 'open', 'high', 'low', 'close', 'volume'],
		[1700000000, 100.0, 102.0, 99.0, 101.0, 50000],
		[1700086400, 101.0, 103.0, 100.0, 102.5, 61000]
	]`

	bars, err := parseChartResponse(body)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, int64(1700000000), bars[0].Time)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 61000.0, bars[1].Volume)
}

func TestParseChartResponse_RegexFallback(t *testing.T) {
	// trailing garbage breaks strict JSON decoding
	body := `[[1700000000, 100.0, 102.0, 99.0, 101.0, 50000],
		[1700086400, 101.0, 103.0, 100.0, 102.5, 61000],] <!-- end -->`

	bars, err := parseChartResponse(body)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 102.5, bars[1].Close)
}

func TestParseChartResponse_Empty(t *testing.T) {
	_, err := parseChartResponse(`[]`)
	assert.Error(t, err)
}

func TestFetchDaily(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "symbol=RKLB")
		w.Write([]byte(`[['h','h','h','h','h','h'],[1700000000, 10, 11, 9, 10.5, 1000]]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	bars, err := client.FetchDaily(context.Background(), "RKLB", 32)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 10.5, bars[0].Close)
}

func TestParseDailyTable(t *testing.T) {
	html := `<table class="type2">
		<tr><th>날짜</th><th>종가</th><th>전일비</th><th>시가</th><th>고가</th><th>저가</th><th>거래량</th></tr>
		<tr><td>2026.01.06</td><td>1,020</td><td>20</td><td>1,005</td><td>1,030</td><td>1,000</td><td>52,000</td></tr>
		<tr><td>2026.01.05</td><td>1,000</td><td>10</td><td>995</td><td>1,010</td><td>990</td><td>48,000</td></tr>
		<tr><td colspan="7">&nbsp;</td></tr>
	</table>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	bars := parseDailyTable(doc)
	require.Len(t, bars, 2)

	// oldest first after the reversal
	assert.Equal(t, 1000.0, bars[0].Close)
	assert.Equal(t, 1020.0, bars[1].Close)
	assert.Equal(t, 52000.0, bars[1].Volume)
	assert.Less(t, bars[0].Time, bars[1].Time)
}

func TestFetchDailyHTML_Fallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<table class="type2">
			<tr><td>2026.01.05</td><td>1,000</td><td>10</td><td>995</td><td>1,010</td><td>990</td><td>48,000</td></tr>
		</table>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	bars, err := client.FetchDailyHTML(context.Background(), "005930")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 1000.0, bars[0].Close)
}
