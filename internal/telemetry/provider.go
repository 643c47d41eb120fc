package telemetry

import "context"

// BarProvider supplies an ordered, time-ascending bar series for a ticker.
// Implementations may return fewer bars than the requested lookback.
// ⭐ SSOT: 텔레메트리 공급 인터페이스는 여기서만 정의
type BarProvider interface {
	GetRecentBars(ctx context.Context, ticker string, lookback int) ([]Bar, error)
}
