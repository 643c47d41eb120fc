package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/fleetdeck/internal/missions"
	"github.com/wonny/fleetdeck/pkg/config"
	"github.com/wonny/fleetdeck/pkg/database"
	"github.com/wonny/fleetdeck/pkg/logger"
)

// missionCmd represents the mission command group
var missionCmd = &cobra.Command{
	Use:   "mission",
	Short: "미션 수명주기 관리",
	Long: `미션을 생성하고 수명주기를 관리합니다.

Example:
  go run ./cmd/fleetdeck mission list
  go run ./cmd/fleetdeck mission create RKLB STRIKE
  go run ./cmd/fleetdeck mission start M-1700000000000-a1b2c3d4
  go run ./cmd/fleetdeck mission complete M-1700000000000-a1b2c3d4 --outcome "target hit"`,
}

var missionOutcome string

func init() {
	rootCmd.AddCommand(missionCmd)

	missionCmd.AddCommand(missionTypesCmd)
	missionCmd.AddCommand(missionListCmd)
	missionCmd.AddCommand(missionCreateCmd)
	missionCmd.AddCommand(missionStartCmd)
	missionCmd.AddCommand(missionCompleteCmd)
	missionCmd.AddCommand(missionAbandonCmd)

	missionCompleteCmd.Flags().StringVar(&missionOutcome, "outcome", "", "미션 결과 메모")
	missionAbandonCmd.Flags().StringVar(&missionOutcome, "outcome", "", "미션 결과 메모")
}

// newManagerFromConfig wires a mission manager from the configured store
func newManagerFromConfig() (*missions.Manager, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	cleanup := func() {}
	var db *database.DB
	if cfg.Missions.Store == "postgres" {
		db, err = database.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		cleanup = func() { db.Close() }
	}

	store, err := newMissionStore(cfg, db)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return missions.NewManager(store, log), cleanup, nil
}

func printMission(m *missions.Mission) {
	fmt.Printf("%s  %-8s %-8s %-9s difficulty=%d bars=%d\n",
		m.ID, m.Ticker, m.Type, m.Status, m.Difficulty, m.Duration.TargetBars)
}

var missionTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "미션 카탈로그 출력",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, mt := range missions.AllTypes() {
			fmt.Printf("%s %-8s %s\n", mt.Icon, mt.ID, mt.Concept)
			fmt.Printf("   betting on: %s\n", mt.BettingOn)
			fmt.Printf("   risk:       %s\n\n", mt.RiskProfile)
		}
		return nil
	},
}

var missionListCmd = &cobra.Command{
	Use:   "list",
	Short: "미션 목록 출력",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := newManagerFromConfig()
		if err != nil {
			return err
		}
		defer cleanup()

		all := manager.ListMissions(context.Background())
		if len(all) == 0 {
			fmt.Println("no missions")
			return nil
		}

		for i := range all {
			printMission(&all[i])
		}
		return nil
	},
}

var missionCreateCmd = &cobra.Command{
	Use:   "create [ticker] [type]",
	Short: "새 미션 생성",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := newManagerFromConfig()
		if err != nil {
			return err
		}
		defer cleanup()

		mission, err := manager.CreateMission(context.Background(), args[0], missions.TypeID(args[1]), missions.CreateOptions{})
		if err != nil {
			return fmt.Errorf("create mission: %w", err)
		}

		fmt.Println("✅ mission created")
		printMission(mission)
		return nil
	},
}

var missionStartCmd = &cobra.Command{
	Use:   "start [id]",
	Short: "미션 시작 (PLANNING → ACTIVE)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := newManagerFromConfig()
		if err != nil {
			return err
		}
		defer cleanup()

		mission, err := manager.StartMission(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("start mission: %w", err)
		}

		printMission(mission)
		return nil
	},
}

var missionCompleteCmd = &cobra.Command{
	Use:   "complete [id]",
	Short: "미션 완료 (ACTIVE → COMPLETED)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := newManagerFromConfig()
		if err != nil {
			return err
		}
		defer cleanup()

		mission, err := manager.CompleteMission(context.Background(), args[0], missionOutcome)
		if err != nil {
			return fmt.Errorf("complete mission: %w", err)
		}

		printMission(mission)
		return nil
	},
}

var missionAbandonCmd = &cobra.Command{
	Use:   "abandon [id]",
	Short: "미션 포기 (ACTIVE → ABANDONED)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := newManagerFromConfig()
		if err != nil {
			return err
		}
		defer cleanup()

		mission, err := manager.AbandonMission(context.Background(), args[0], missionOutcome)
		if err != nil {
			return fmt.Errorf("abandon mission: %w", err)
		}

		printMission(mission)
		return nil
	},
}
