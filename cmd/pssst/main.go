// Package main provides the entry point for the pssst CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/pssst-dev/pssst-cli/internal/adapters/driving/cli"
)

// Build info set via ldflags at release time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2026-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	cli.SetVersion(buildVersion())
	if err := fang.Execute(context.Background(), cli.Root(), fang.WithVersion(buildVersion())); err != nil {
		os.Exit(1)
	}
}
