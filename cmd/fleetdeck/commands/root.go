package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fleetdeck",
	Short: "fleetdeck - 차트 텔레메트리 기반 미션 관제 시스템",
	Long: `fleetdeck Unified CLI

차트 텔레메트리를 함선 스탯으로 변환하고 미션을 관제하는 시스템.
바 시리즈 → 5종 스탯 → 환경 스냅샷 → 미션 추천 → 미션 수명주기.

Usage:
  go run ./cmd/fleetdeck [command]

Examples:
  go run ./cmd/fleetdeck api
  go run ./cmd/fleetdeck scan RKLB
  go run ./cmd/fleetdeck mission list
  go run ./cmd/fleetdeck scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
