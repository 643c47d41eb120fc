package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/fleetdeck/internal/scheduler"
	"github.com/wonny/fleetdeck/internal/scheduler/jobs"
	"github.com/wonny/fleetdeck/pkg/config"
	"github.com/wonny/fleetdeck/pkg/database"
	"github.com/wonny/fleetdeck/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "워치리스트 리프레시 스케줄러 단독 실행",
	Long: `API 서버 없이 워치리스트 리프레시 스케줄러만 실행합니다.
캐시를 데워두는 용도로 API 서버와 분리 배포할 때 사용합니다.

Example:
  go run ./cmd/fleetdeck scheduler
  go run ./cmd/fleetdeck scheduler --now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	// Flags
	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "now", false, "시작하자마자 한 번 실행")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== fleetdeck Scheduler ===")

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

	// 4. Connect the optional snapshot cache
	redisClient, cache, err := newSnapshotCache(cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// 5. Wire the bar feed into the snapshot builder
	builder, err := newSnapshotBuilder(cfg, db, cache, log)
	if err != nil {
		return err
	}

	// 6. Register the refresh job
	sched := scheduler.New(log)
	refreshJob := jobs.NewWatchlistRefreshJob(
		cfg.Scheduler.Watchlist, builder, nil, nil, cfg.Scheduler.RefreshSchedule, log)
	if err := sched.AddJob(refreshJob); err != nil {
		return fmt.Errorf("schedule refresh job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(refreshJob.Name()); err != nil {
			return err
		}
	}

	fmt.Printf("\n✅ Scheduler running (watchlist: %v, schedule: %s)\n",
		cfg.Scheduler.Watchlist, cfg.Scheduler.RefreshSchedule)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
