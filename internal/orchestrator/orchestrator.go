package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	ierr "github.com/mark3labs/pathway/internal/errors"
	"github.com/mark3labs/pathway/internal/logger"
	"github.com/mark3labs/pathway/internal/mcpserver"
	"github.com/mark3labs/pathway/internal/nats"
	"github.com/mark3labs/pathway/internal/record"
	"github.com/mark3labs/pathway/internal/schema"
	"github.com/mark3labs/pathway/internal/tui"
	natsserver "github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Config holds configuration for the orchestrator.
type Config struct {
	Object     string // Object whose records to work (defaults to the first in the catalog)
	RecordID   string // Record to open initially (optional)
	SchemaPath string // Path to the schema catalog file
	DataDir    string // Data directory for NATS storage and UI state
	MCPPort    int    // Fixed MCP port (0 = random)
	Headless   bool   // Run without TUI (serve mode)
}

// Orchestrator owns the lifecycle of the embedded NATS server, the record
// store, the MCP server, and the TUI.
type Orchestrator struct {
	cfg        Config
	ns         *natsserver.Server // Embedded NATS server (nil if node mode)
	natsPort   int                // NATS server port
	nc         *natsgo.Conn       // NATS connection
	store      *record.Store      // Record store
	catalog    *schema.Catalog    // Schema catalog
	mcp        *mcpserver.Server  // MCP server
	tuiApp     *tui.App           // TUI application (nil if headless)
	tuiProgram *tea.Program       // Bubbletea program
	tuiDone    chan struct{}      // TUI completion signal
	tuiErr     error              // TUI run error, written before tuiDone closes
	ctx        context.Context    // Context for cancellation
	cancel     context.CancelFunc // Cancel function
	stopped    bool               // Track if Stop() was already called
	isPrimary  bool               // True if this instance owns the NATS server
}

// New creates a new Orchestrator with the given configuration.
func New(cfg Config) (*Orchestrator, error) {
	// Set defaults
	if cfg.DataDir == "" {
		cfg.DataDir = ".pathway"
	}
	if cfg.SchemaPath == "" {
		cfg.SchemaPath = filepath.Join(cfg.DataDir, "schema.yml")
	}

	// Create context for lifecycle management
	ctx, cancel := context.WithCancel(context.Background())

	return &Orchestrator{
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		tuiDone: make(chan struct{}),
	}, nil
}

// Start initializes all components and starts the orchestrator.
func (o *Orchestrator) Start() error {
	// Route logs into the data directory; EnableFile keeps whatever
	// destination env or config already opened.
	if err := os.MkdirAll(o.cfg.DataDir, 0755); err == nil {
		_ = logger.EnableFile(filepath.Join(o.cfg.DataDir, "pathway.log"))
	}

	logger.Info("Starting orchestrator")

	// 1. Connect to existing NATS server or start a new one
	logger.Debug("Ensuring NATS connection")
	if err := o.ensureNATS(); err != nil {
		logger.Error("Failed to ensure NATS: %v", err)
		return fmt.Errorf("failed to ensure NATS: %w", err)
	}
	if o.isPrimary {
		logger.Debug("Running as primary (owns NATS server)")
	} else {
		logger.Debug("Running as node (connected to existing server)")
	}

	// 2. Setup JetStream stream and record store
	logger.Debug("Setting up JetStream")
	if err := o.setupJetStream(); err != nil {
		logger.Error("Failed to setup JetStream: %v", err)
		return fmt.Errorf("failed to setup JetStream: %w", err)
	}
	logger.Debug("JetStream setup complete")

	// 3. Load the schema catalog and resolve the target object
	logger.Debug("Loading schema catalog from %s", o.cfg.SchemaPath)
	catalog, err := schema.LoadOrDefault(o.cfg.SchemaPath)
	if err != nil {
		logger.Error("Failed to load schema: %v", err)
		return fmt.Errorf("failed to load schema: %w", err)
	}
	o.catalog = catalog

	if o.cfg.Object == "" {
		o.cfg.Object = catalog.Objects[0].Name
		logger.Debug("No object configured, defaulting to %q", o.cfg.Object)
	}
	if _, ok := catalog.Object(o.cfg.Object); !ok {
		logger.Error("Object %q not found in schema", o.cfg.Object)
		return fmt.Errorf("object %q not found in schema", o.cfg.Object)
	}

	// 4. Start the MCP server
	logger.Debug("Starting MCP server")
	o.mcp = mcpserver.New(o.store, o.catalog, o.cfg.Object)
	port, err := o.mcp.Start(o.ctx, o.cfg.MCPPort)
	if err != nil {
		logger.Error("Failed to start MCP server: %v", err)
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	logger.Info("MCP server listening on port %d", port)

	// 5. Start TUI if not headless
	if !o.cfg.Headless {
		logger.Debug("Starting TUI")
		if err := o.startTUI(); err != nil {
			logger.Error("Failed to start TUI: %v", err)
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		logger.Debug("TUI started")
	} else {
		logger.Info("Running in headless mode")
	}

	logger.Info("Orchestrator started successfully")
	return nil
}

// Run blocks until the TUI quits, or until the context is cancelled in
// headless mode. Panics in the TUI run loop surface as errors.
func (o *Orchestrator) Run() error {
	if o.cfg.Headless {
		fmt.Printf("MCP server listening at %s\n", o.mcp.URL())
		fmt.Println("Press Ctrl+C to stop.")
		<-o.ctx.Done()
		logger.Info("Headless run cancelled")
		return nil
	}

	logger.Info("Running TUI for object '%s'", o.cfg.Object)
	<-o.tuiDone

	if o.tuiErr != nil {
		var panicErr *ierr.PanicError
		if errors.As(o.tuiErr, &panicErr) {
			return fmt.Errorf("tui panicked: %w", o.tuiErr)
		}
		return fmt.Errorf("tui run failed: %w", o.tuiErr)
	}

	logger.Info("TUI finished")
	return nil
}

// Stop gracefully shuts down all components.
// It collects errors from each component and returns a combined error if any fail.
// Multiple calls to Stop() are safe and idempotent.
func (o *Orchestrator) Stop() error {
	// Make Stop() idempotent - only run once
	if o.stopped {
		return nil
	}
	o.stopped = true

	logger.Info("Stopping orchestrator")

	// Use MultiError to collect all shutdown errors
	multiErr := &ierr.MultiError{}

	// Cancel context to signal all goroutines to stop
	if o.cancel != nil {
		o.cancel()
	}

	// Ask the TUI to quit and wait for the run loop to finish
	if o.tuiProgram != nil {
		logger.Debug("Stopping TUI")
		o.tuiProgram.Quit()
		select {
		case <-o.tuiDone:
			logger.Debug("TUI stopped successfully")
		case <-time.After(2 * time.Second):
			// TUI didn't finish in time, continue with shutdown
			logger.Warn("TUI shutdown timed out after 2s")
			multiErr.Append(ierr.NewTransientError("TUI shutdown", fmt.Errorf("timed out after 2s")))
		}
		o.tuiProgram = nil
	}

	// Stop the MCP server
	if o.mcp != nil {
		logger.Debug("Stopping MCP server")
		if err := o.mcp.Stop(); err != nil {
			logger.Error("MCP server stop failed: %v", err)
			multiErr.Append(fmt.Errorf("MCP server stop failed: %w", err))
		}
		o.mcp = nil
	}

	// Close NATS connection (and server if primary)
	if o.isPrimary {
		// Primary mode: shut down the server we own
		logger.Debug("Shutting down NATS server (primary mode)")
		if err := nats.Shutdown(o.nc, o.ns); err != nil {
			logger.Error("NATS shutdown failed: %v", err)
			multiErr.Append(fmt.Errorf("NATS shutdown failed: %w", err))
		} else {
			logger.Debug("NATS shut down successfully")
		}
		nats.RemovePortFile(o.natsDataDir())
	} else {
		// Node mode: just close the connection, don't kill the server
		logger.Debug("Closing NATS connection (node mode)")
		if o.nc != nil {
			o.nc.Close()
		}
	}

	// Clear references
	o.nc = nil
	o.ns = nil

	logger.Info("Orchestrator stopped")

	// Return combined errors if any
	return multiErr.ErrorOrNil()
}

// Store exposes the record store for headless callers.
func (o *Orchestrator) Store() *record.Store {
	return o.store
}

// Catalog exposes the loaded schema catalog.
func (o *Orchestrator) Catalog() *schema.Catalog {
	return o.catalog
}

// MCPURL returns the MCP endpoint URL. Empty before Start.
func (o *Orchestrator) MCPURL() string {
	if o.mcp == nil {
		return ""
	}
	return o.mcp.URL()
}

func (o *Orchestrator) natsDataDir() string {
	return filepath.Join(o.cfg.DataDir, "nats")
}

// ensureNATS connects to an existing NATS server or starts a new one.
// If another pathway process is already running a server for this data
// directory, this instance runs in "node mode" and connects to it.
// Otherwise it starts a new embedded server and runs in "primary mode".
func (o *Orchestrator) ensureNATS() error {
	// Ensure data directory exists
	dataDir := o.natsDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create NATS data directory: %w", err)
	}

	// Try to connect to existing server first
	if nc := nats.TryConnectExisting(dataDir); nc != nil {
		logger.Info("Connected to existing NATS server (node mode)")
		o.nc = nc
		o.isPrimary = false
		return nil
	}

	// No server running, start one (primary mode)
	logger.Info("Starting NATS server (primary mode)")
	ns, port, err := nats.StartSharedNATS(dataDir)
	if err != nil {
		return fmt.Errorf("failed to start NATS server: %w", err)
	}
	o.ns = ns
	o.natsPort = port
	o.isPrimary = true

	// Connect to our own server
	nc, err := nats.ConnectToPort(port)
	if err != nil {
		// Failed to connect to server we just started - shut it down
		ns.Shutdown()
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	o.nc = nc
	return nil
}

// setupJetStream creates the JetStream stream and initializes the record store.
func (o *Orchestrator) setupJetStream() error {
	// Create JetStream context using modern API
	js, err := jetstream.New(o.nc)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Setup stream
	stream, err := nats.SetupStream(o.ctx, js)
	if err != nil {
		return fmt.Errorf("failed to setup stream: %w", err)
	}

	// Create record store
	o.store = record.NewStore(js, stream)
	return nil
}

// startTUI initializes and starts the Bubbletea TUI.
func (o *Orchestrator) startTUI() error {
	o.tuiApp = tui.NewApp(o.ctx, tui.AppConfig{
		Catalog:  o.catalog,
		Store:    o.store,
		Object:   o.cfg.Object,
		RecordID: o.cfg.RecordID,
		DataDir:  o.cfg.DataDir,
		NC:       o.nc,
		MCPURL:   o.mcp.URL(),
	})

	o.tuiProgram = tea.NewProgram(o.tuiApp)

	// Run the program in background with panic recovery
	go func() {
		err := ierr.Recover(func() error {
			_, runErr := o.tuiProgram.Run()
			return runErr
		})
		if err != nil {
			var panicErr *ierr.PanicError
			if errors.As(err, &panicErr) {
				logger.Error("TUI panicked with stack trace: %s", panicErr.StackTrace)
			} else {
				logger.Error("TUI error: %v", err)
			}
			o.tuiErr = err
		}
		// Signal TUI is done
		close(o.tuiDone)
	}()

	// Monitor TUI quit and cancel orchestrator context
	go func() {
		<-o.tuiDone
		logger.Debug("TUI quit detected, cancelling orchestrator context")
		if o.cancel != nil {
			o.cancel()
		}
	}()

	return nil
}
