package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fleetdeck/internal/api"
	"github.com/wonny/fleetdeck/internal/api/handlers"
	"github.com/wonny/fleetdeck/internal/missions"
	"github.com/wonny/fleetdeck/internal/scheduler"
	"github.com/wonny/fleetdeck/internal/scheduler/jobs"
	"github.com/wonny/fleetdeck/pkg/config"
	"github.com/wonny/fleetdeck/pkg/database"
	"github.com/wonny/fleetdeck/pkg/logger"
	"github.com/wonny/fleetdeck/pkg/metrics"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 환경 스냅샷 / 미션 추천 엔드포인트 제공
- 미션 수명주기 엔드포인트 제공
- 워치리스트 리프레시 스케줄러 구동

Endpoints:
  GET  /health                        - Health check
  GET  /api/environment/{ticker}      - 환경 스냅샷 조회
  GET  /api/recommendations/{ticker}  - 미션 추천 조회
  GET  /api/mission-types             - 미션 카탈로그 조회
  GET  /api/missions                  - 미션 목록
  POST /api/missions                  - 미션 생성
  GET  /api/stream                    - 스냅샷 스트림 (websocket)

Example:
  go run ./cmd/fleetdeck api
  go run ./cmd/fleetdeck api --port 8099`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본값: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== fleetdeck API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"env":         cfg.Env,
		"feed_source": cfg.Feed.Source,
	}).Info("Initializing API server")

	// 3. Connect to database when a source needs it
	var db *database.DB
	if needsDatabase(cfg) {
		db, err = database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		log.Info("Connected to database")
	}

	// 4. Connect the optional snapshot cache
	redisClient, cache, err := newSnapshotCache(cfg, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("Connected to redis")
	}

	// 5. Wire the bar feed into the snapshot builder
	builder, err := newSnapshotBuilder(cfg, db, cache, log)
	if err != nil {
		return err
	}

	// 6. Wire mission persistence
	store, err := newMissionStore(cfg, db)
	if err != nil {
		return err
	}
	manager := missions.NewManager(store, log)

	// 7. Metrics recorder
	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.New()
	}

	// 8. Create the stream hub
	hub := api.NewHub(log)

	// 9. Create handlers
	envHandler := handlers.NewEnvironmentHandler(builder, recorder, log)
	missionHandler := handlers.NewMissionHandler(manager, recorder, log)

	// 10. Create router
	router := api.NewRouter(envHandler, missionHandler, hub, recorder, log)

	// 11. Create server
	server := api.New(cfg, log, router)

	// 12. Start the watchlist refresh scheduler
	sched := scheduler.New(log)
	refreshJob := jobs.NewWatchlistRefreshJob(
		cfg.Scheduler.Watchlist, builder, hub, recorder, cfg.Scheduler.RefreshSchedule, log)
	if err := sched.AddJob(refreshJob); err != nil {
		return fmt.Errorf("schedule refresh job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 13. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/environment/{ticker}")
	fmt.Println("  GET  /api/recommendations/{ticker}")
	fmt.Println("  GET  /api/mission-types")
	fmt.Println("  GET  /api/missions")
	fmt.Println("  POST /api/missions")
	fmt.Println("  GET  /api/stream")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
