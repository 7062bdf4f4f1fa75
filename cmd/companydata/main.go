package main

import (
	"os"

	"github.com/wonny/companydata/cmd/companydata/commands"
)

// main is the entry point for the companydata CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/companydata [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
