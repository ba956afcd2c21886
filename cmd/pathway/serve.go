package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/pathway/internal/config"
	"github.com/mark3labs/pathway/internal/orchestrator"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	object  string
	schema  string
	dataDir string
	mcpPort int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server without the TUI",
	Long: `Run the MCP server without the TUI.

Starts embedded NATS and the MCP server, then blocks until interrupted.
Useful on headless machines or when only agent access is needed.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.object, "object", "o", "", "Object served as the default for MCP tools")
	serveCmd.Flags().StringVar(&serveFlags.schema, "schema", "", "Schema file path (default: <data-dir>/schema.yml)")
	serveCmd.Flags().StringVar(&serveFlags.dataDir, "data-dir", "", "Data directory for NATS storage and state")
	serveCmd.Flags().IntVar(&serveFlags.mcpPort, "mcp-port", 0, "MCP server port, 0=random free port")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if serveFlags.object != "" {
		cfg.Object = serveFlags.object
	}
	if serveFlags.schema != "" {
		cfg.Schema = serveFlags.schema
	}
	if serveFlags.dataDir != "" {
		cfg.DataDir = serveFlags.dataDir
	}
	if serveFlags.mcpPort != 0 {
		cfg.MCPPort = serveFlags.mcpPort
	}

	applyLogConfig(cfg)

	orch, err := orchestrator.New(orchestrator.Config{
		Object:     cfg.Object,
		SchemaPath: cfg.SchemaPath(),
		DataDir:    cfg.DataDir,
		MCPPort:    cfg.MCPPort,
		Headless:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	if err := orch.Start(); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}

	defer func() {
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down gracefully...")
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
		os.Exit(0)
	}()

	if err := orch.Run(); err != nil {
		return fmt.Errorf("serve exited: %w", err)
	}

	return nil
}
