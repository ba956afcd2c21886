package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/pathway/internal/config"
	"github.com/mark3labs/pathway/internal/logger"
	"github.com/mark3labs/pathway/internal/orchestrator"
	"github.com/spf13/cobra"
)

var rootFlags struct {
	object  string
	record  string
	schema  string
	dataDir string
	mcpPort int
}

func init() {
	rootCmd.Flags().StringVarP(&rootFlags.object, "object", "o", "", "Object to open (default: first object in schema)")
	rootCmd.Flags().StringVarP(&rootFlags.record, "record", "r", "", "Record ID to bind on startup (default: last viewed)")
	rootCmd.Flags().StringVar(&rootFlags.schema, "schema", "", "Schema file path (default: <data-dir>/schema.yml)")
	rootCmd.Flags().StringVar(&rootFlags.dataDir, "data-dir", "", "Data directory for NATS storage and state")
	rootCmd.Flags().IntVar(&rootFlags.mcpPort, "mcp-port", 0, "MCP server port, 0=random free port")
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags override config file and environment
	if rootFlags.object != "" {
		cfg.Object = rootFlags.object
	}
	if rootFlags.record != "" {
		cfg.Record = rootFlags.record
	}
	if rootFlags.schema != "" {
		cfg.Schema = rootFlags.schema
	}
	if rootFlags.dataDir != "" {
		cfg.DataDir = rootFlags.dataDir
	}
	if rootFlags.mcpPort != 0 {
		cfg.MCPPort = rootFlags.mcpPort
	}

	applyLogConfig(cfg)

	if !config.Exists() {
		logger.Debug("No config file found, running on defaults (see 'pathway setup')")
	}

	// Create orchestrator
	orch, err := orchestrator.New(orchestrator.Config{
		Object:     cfg.Object,
		RecordID:   cfg.Record,
		SchemaPath: cfg.SchemaPath(),
		DataDir:    cfg.DataDir,
		MCPPort:    cfg.MCPPort,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	// Start orchestrator
	if err := orch.Start(); err != nil {
		return fmt.Errorf("failed to start orchestrator: %w", err)
	}

	// Ensure cleanup always runs using defer
	defer func() {
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	// Setup signal handling for graceful shutdown
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
		return fmt.Errorf("pathway exited: %w", err)
	}

	return nil
}

// applyLogConfig wires config file log settings into the logger. Environment
// variables already took effect at logger init and win over the file.
func applyLogConfig(cfg *config.Config) {
	if cfg.LogLevel != "" && os.Getenv("PATHWAY_LOG_LEVEL") == "" {
		if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
			logger.Default.SetLevel(level)
		}
	}
	if cfg.LogFile != "" && os.Getenv("PATHWAY_LOG_FILE") == "" {
		if err := logger.EnableFile(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		}
	}
}
