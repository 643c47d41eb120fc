package main

import (
	"os"

	"github.com/wonny/fleetdeck/cmd/fleetdeck/commands"
)

// main is the entry point for the fleetdeck CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/fleetdeck [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
