package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/pathway/internal/logger"
	"github.com/mark3labs/pathway/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀█ ▄▀█ ▀█▀ █ █ █ █ █ ▄▀█ █▄█"
	logoText2 = "█▀▀ █▀█  █  █▀█ ▀▄▀▄▀ █▀█  █ "
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pathway",
	Short: "Stage-path progress tracker with embedded persistence and TUI",
	RunE:  runRoot,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

pathway tracks records along a staged path, the way a CRM renders a sales
pipeline. It stores records as events in embedded NATS JetStream, presents
a full-screen Bubbletea v2 TUI, and exposes the same records to AI agents
over an MCP server.

Running pathway with no subcommand opens the TUI.`

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)
}
