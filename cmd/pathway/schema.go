package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/pathway/internal/config"
	"github.com/mark3labs/pathway/internal/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var schemaFlags struct {
	path    string
	dataDir string
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the object schema",
	Long: `Manage the object schema.

The schema file describes objects, their picklist fields and record types,
and which field each object's path renders. pathway falls back to a built-in
demo catalog when no schema file exists.`,
}

func init() {
	schemaCmd.AddCommand(schemaInitCmd)
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaEditCmd)

	schemaCmd.PersistentFlags().StringVar(&schemaFlags.path, "schema", "", "Schema file path (default: <data-dir>/schema.yml)")
	schemaCmd.PersistentFlags().StringVar(&schemaFlags.dataDir, "data-dir", "", "Data directory (default: from config or .pathway)")
}

// resolveSchemaPath picks the schema file path: flag, then config.
func resolveSchemaPath() (string, error) {
	if schemaFlags.path != "" {
		return schemaFlags.path, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if schemaFlags.dataDir != "" {
		cfg.DataDir = schemaFlags.dataDir
	}
	return cfg.SchemaPath(), nil
}

// schema init command
var schemaInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the starter schema file",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path, err := resolveSchemaPath()
		if err != nil {
			return err
		}

		if fileExists(path) && !force {
			return fmt.Errorf("schema file already exists at %s\n\nUse --force to overwrite", path)
		}

		if err := schema.Write(path, schema.Default()); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}

		fmt.Printf("Schema written to: %s\n", path)
		fmt.Println("Edit it to describe your objects, then run 'pathway'.")
		return nil
	},
}

func init() {
	schemaInitCmd.Flags().Bool("force", false, "Overwrite existing schema file")
}

// schema show command
var schemaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveSchemaPath()
		if err != nil {
			return err
		}

		var source string
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			source = string(data)
		case os.IsNotExist(err):
			data, err := yaml.Marshal(schema.Default())
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			source = string(data)
			fmt.Fprintf(os.Stderr, "No schema at %s, showing the built-in catalog\n\n", path)
		default:
			return fmt.Errorf("failed to read schema: %w", err)
		}

		if isTerminal(os.Stdout) {
			fmt.Println(highlightYAML(source))
		} else {
			fmt.Print(source)
		}
		return nil
	},
}

// schema edit command
var schemaEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the schema in $EDITOR and validate it",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveSchemaPath()
		if err != nil {
			return err
		}

		// Seed the file so the editor opens something real
		if !fileExists(path) {
			if err := schema.Write(path, schema.Default()); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}
		}

		ed, err := editor.Command("pathway", path)
		if err != nil {
			return fmt.Errorf("no editor available, set $EDITOR: %w", err)
		}
		ed.Stdin = os.Stdin
		ed.Stdout = os.Stdout
		ed.Stderr = os.Stderr
		if err := ed.Run(); err != nil {
			return fmt.Errorf("editor failed: %w", err)
		}

		if _, err := schema.Load(path); err != nil {
			return fmt.Errorf("schema has errors, rerun 'pathway schema edit' to fix: %w", err)
		}

		fmt.Println("Schema OK")
		return nil
	},
}

// isTerminal reports whether f is attached to a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// highlightYAML renders YAML source with ANSI colors for terminal output.
func highlightYAML(source string) string {
	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	// Use terminal16m formatter for true color output
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Get("terminal256")
	}
	if formatter == nil {
		return source
	}

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}

	return strings.TrimRight(buf.String(), "\n")
}
