package main

import (
	"os"

	"github.com/wonny/trendwatch/cmd/trendwatch/commands"
)

// main is the entry point for the trendwatch CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/trendwatch [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
