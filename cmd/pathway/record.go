package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/pathway/internal/config"
	"github.com/mark3labs/pathway/internal/nats"
	"github.com/mark3labs/pathway/internal/record"
	"github.com/mark3labs/pathway/internal/schema"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/spf13/cobra"
)

var recordFlags struct {
	dataDir string
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Work with records from the command line (no TUI)",
	Long: `Work with records from the command line without opening the TUI.

When a pathway instance is already running against the same data directory,
these commands publish through it so the TUI updates live. Otherwise they
open the store directly.`,
}

func init() {
	// Add record subcommand to root
	rootCmd.AddCommand(recordCmd)

	recordCmd.AddCommand(recordNewCmd)
	recordCmd.AddCommand(recordListCmd)
	recordCmd.AddCommand(recordShowCmd)
	recordCmd.AddCommand(recordSetCmd)
	recordCmd.AddCommand(recordNoteCmd)
	recordCmd.AddCommand(recordDeleteCmd)

	recordCmd.PersistentFlags().StringVar(&recordFlags.dataDir, "data-dir", "", "Data directory (default: from PATHWAY_DATA_DIR or .pathway)")
}

// openStore opens the record store, preferring a running pathway
// instance over a private embedded server.
func openStore() (*record.Store, func(), error) {
	dataDir := recordFlags.dataDir
	if dataDir == "" {
		dataDir = os.Getenv("PATHWAY_DATA_DIR")
	}
	if dataDir == "" {
		dataDir = ".pathway"
	}
	natsDataDir := filepath.Join(dataDir, "nats")

	var ns *server.Server
	nc := nats.TryConnectExisting(natsDataDir)
	if nc == nil {
		// No running instance, start a private in-process server
		var err error
		ns, err = nats.StartEmbeddedNATS(natsDataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start embedded NATS (is another pathway instance holding the store?): %w", err)
		}
		nc, err = nats.ConnectInProcess(ns)
		if err != nil {
			_ = nats.Shutdown(nil, ns)
			return nil, nil, fmt.Errorf("failed to connect to embedded NATS: %w", err)
		}
	}

	js, err := nats.CreateJetStream(nc)
	if err != nil {
		_ = nats.Shutdown(nc, ns)
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := nats.SetupStream(ctx, js)
	if err != nil {
		_ = nats.Shutdown(nc, ns)
		return nil, nil, fmt.Errorf("failed to set up stream: %w", err)
	}

	store := record.NewStore(js, stream)

	cleanup := func() {
		_ = nats.Shutdown(nc, ns)
	}

	return store, cleanup, nil
}

// resolveObject picks the object for a record command: flag value, then
// config, then the first object in the schema.
func resolveObject(flagValue string) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	name := flagValue
	if name == "" {
		name = cfg.Object
	}

	catalog, err := schema.LoadOrDefault(cfg.SchemaPath())
	if err != nil {
		return "", fmt.Errorf("failed to load schema: %w", err)
	}
	if name == "" {
		if len(catalog.Objects) == 0 {
			return "", fmt.Errorf("schema defines no objects")
		}
		return catalog.Objects[0].Name, nil
	}
	if _, ok := catalog.Object(name); !ok {
		return "", fmt.Errorf("unknown object: %s", name)
	}
	return name, nil
}

// record new command
var recordNewCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Create a record",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		object, _ := cmd.Flags().GetString("object")
		recordType, _ := cmd.Flags().GetString("type")
		description, _ := cmd.Flags().GetString("description")

		object, err := resolveObject(object)
		if err != nil {
			return err
		}

		store, cleanup, err := openStore()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := context.Background()
		rec, err := store.RecordAdd(ctx, record.RecordAddParams{
			Name:        name,
			Object:      object,
			RecordType:  recordType,
			Description: description,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created record: %s\n", rec.ID)
		return nil
	},
}

func init() {
	recordNewCmd.Flags().StringP("object", "o", "", "Object to create the record under (default: from config or schema)")
	recordNewCmd.Flags().String("type", "", "Record type (default: the object's master record type)")
	recordNewCmd.Flags().String("description", "", "Record description, rendered as markdown in the TUI")
}

// record list command
var recordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records",
	RunE: func(cmd *cobra.Command, args []string) error {
		object, _ := cmd.Flags().GetString("object")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		catalog, err := schema.LoadOrDefault(cfg.SchemaPath())
		if err != nil {
			return fmt.Errorf("failed to load schema: %w", err)
		}

		store, cleanup, err := openStore()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := context.Background()
		set, err := store.LoadSet(ctx)
		if err != nil {
			return err
		}

		var lines []string
		for _, rec := range set.List() {
			if object != "" && rec.Object != object {
				continue
			}
			stage := ""
			if obj, ok := catalog.Object(rec.Object); ok && obj.Path.Field != "" {
				stage = rec.Fields[obj.Path.Field]
			}
			if stage != "" {
				lines = append(lines, fmt.Sprintf("[%s] %s (%s)", rec.ID, rec.Name, stage))
			} else {
				lines = append(lines, fmt.Sprintf("[%s] %s", rec.ID, rec.Name))
			}
		}

		if len(lines) == 0 {
			fmt.Println("No records")
		} else {
			fmt.Println(strings.Join(lines, "\n"))
		}
		return nil
	},
}

func init() {
	recordListCmd.Flags().StringP("object", "o", "", "Filter by object")
}

// record show command
var recordShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one record in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		store, cleanup, err := openStore()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := context.Background()
		set, err := store.LoadSet(ctx)
		if err != nil {
			return err
		}

		rec, ok := set.Records[id]
		if !ok {
			return fmt.Errorf("record not found: %s", id)
		}

		fmt.Printf("%s (%s)\n", rec.Name, rec.ID)
		fmt.Printf("Object: %s\n", rec.Object)
		if rec.RecordType != "" {
			fmt.Printf("Type: %s\n", rec.RecordType)
		}
		if len(rec.Fields) > 0 {
			fmt.Println("Fields:")
			for _, field := range sortedKeys(rec.Fields) {
				fmt.Printf("  %s: %s\n", field, rec.Fields[field])
			}
		}
		if rec.Description != "" {
			fmt.Printf("\n%s\n", rec.Description)
		}
		if len(rec.Notes) > 0 {
			fmt.Println("\nNotes:")
			for _, note := range rec.Notes {
				fmt.Printf("  [%s] %s\n", note.CreatedAt.Format("2006-01-02"), note.Content)
			}
		}
		return nil
	},
}

// record set command
var recordSetCmd = &cobra.Command{
	Use:   "set ID FIELD VALUE",
	Short: "Set a field on a record",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openStore()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := context.Background()
		err = store.FieldUpdate(ctx, record.FieldUpdateParams{
			RecordID: args[0],
			Field:    args[1],
			Value:    args[2],
		})
		if err != nil {
			return err
		}

		fmt.Println("OK")
		return nil
	},
}

// record delete command
var recordDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a record",
	Long:  "Delete a record from the reduced state. Its event history stays in the log.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openStore()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := store.RecordDelete(context.Background(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Deleted record: %s\n", args[0])
		return nil
	},
}

// record note command
var recordNoteCmd = &cobra.Command{
	Use:   "note ID CONTENT",
	Short: "Add a note to a record",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.Join(args[1:], " ")

		store, cleanup, err := openStore()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := context.Background()
		note, err := store.NoteAdd(ctx, record.NoteAddParams{
			RecordID: args[0],
			Content:  content,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Note added: %s\n", note.ID)
		return nil
	},
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
