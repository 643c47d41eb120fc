package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fleetdeck/internal/missions"
	"github.com/wonny/fleetdeck/pkg/config"
	"github.com/wonny/fleetdeck/pkg/database"
	"github.com/wonny/fleetdeck/pkg/logger"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [ticker]",
	Short: "단일 티커 환경 스캔",
	Long: `티커 하나의 환경 스냅샷과 미션 추천을 계산해 출력합니다.

Example:
  go run ./cmd/fleetdeck scan RKLB
  go run ./cmd/fleetdeck scan RKLB --lookback 64
  go run ./cmd/fleetdeck scan RKLB --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var (
	scanLookback int
	scanJSON     bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	// Flags
	scanCmd.Flags().IntVar(&scanLookback, "lookback", 0, "바 윈도우 크기 (기본값: 32)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "JSON 출력")
}

func runScan(cmd *cobra.Command, args []string) error {
	ticker := args[0]

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database when the feed needs it
	var db *database.DB
	if cfg.Feed.Source == "database" {
		db, err = database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
	}

	// 4. Wire the bar feed into the snapshot builder (no cache for a
	// one-off scan)
	builder, err := newSnapshotBuilder(cfg, db, nil, log)
	if err != nil {
		return err
	}

	// 5. Compute
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, err := builder.Compute(ctx, ticker, scanLookback)
	if err != nil {
		return fmt.Errorf("scan %s: %w", ticker, err)
	}

	recs := missions.GenerateRecommendations(snapshot)

	// 6. Print
	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"environment":     snapshot,
			"recommendations": recs,
		})
	}

	fmt.Printf("=== %s environment (%d bars) ===\n\n", snapshot.Ticker, snapshot.BarsUsed)
	for _, name := range []string{"hull", "firepower", "sensors", "fuel", "threat"} {
		value, _ := snapshot.Stat(name)
		fmt.Printf("  %-10s %3d  %s\n", name, value, snapshot.Why[name])
	}

	fmt.Println("\n=== mission recommendations ===")
	for _, rec := range recs {
		marker := "  "
		if rec.Recommended {
			marker = "✅"
		}
		fmt.Printf("\n%s %s %s (suitability %d, difficulty %d)\n", marker, rec.Icon, rec.Name, rec.Suitability, rec.Difficulty)
		fmt.Printf("   %s\n", rec.WhyNow)
	}

	return nil
}
