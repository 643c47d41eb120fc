package feed

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FetchDailyHTML scrapes the daily price table from the chart site's
// HTML page. It is the fallback path when the JSON endpoint misbehaves,
// and returns whatever rows the page carries, oldest first.
func (c *ChartClient) FetchDailyHTML(ctx context.Context, ticker string) ([]RawBar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	url := fmt.Sprintf("%s/item/sise_day.naver?code=%s", c.baseURL, ticker)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	bars := parseDailyTable(doc)
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars in HTML table")
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(bars),
	}).Debug("Fetched daily bars from HTML fallback")

	return bars, nil
}

// parseDailyTable walks the price table rows. Expected cells per row:
// date, close, change, open, high, low, volume. Rows newest first on
// the page, so the result is reversed before returning.
func parseDailyTable(doc *goquery.Document) []RawBar {
	var bars []RawBar

	doc.Find("table.type2 tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		parsed, err := time.Parse("2006.01.02", dateText)
		if err != nil {
			return // header or spacer row
		}

		bar := RawBar{
			Time:   parsed.Unix(),
			Close:  parseNumber(cells.Eq(1).Text()),
			Open:   parseNumber(cells.Eq(3).Text()),
			High:   parseNumber(cells.Eq(4).Text()),
			Low:    parseNumber(cells.Eq(5).Text()),
			Volume: parseNumber(cells.Eq(6).Text()),
		}
		if bar.Close <= 0 {
			return
		}

		bars = append(bars, bar)
	})

	// page order is newest first
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	return bars
}

// parseNumber strips thousand separators and whitespace before parsing.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
