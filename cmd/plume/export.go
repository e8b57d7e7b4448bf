package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/plumehq/plume/pkg/notebooks"
	"github.com/plumehq/plume/pkg/notes"
	"github.com/plumehq/plume/pkg/tasks"
)

var exportFormat string

// exportDump mirrors the three durable snapshots in one document.
type exportDump struct {
	Notes     notes.State     `json:"notes" yaml:"notes"`
	Tasks     tasks.State     `json:"tasks" yaml:"tasks"`
	Notebooks notebooks.State `json:"notebooks" yaml:"notebooks"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump all collections to stdout",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		dump := exportDump{
			Notes:     app.Notes.State(),
			Tasks:     app.Tasks.State(),
			Notebooks: app.Notebooks.State(),
		}

		switch exportFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(dump); err != nil {
				fatal("Failed to encode JSON", err)
			}
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(dump); err != nil {
				fatal("Failed to encode YAML", err)
			}
			// Close performs the final flush; a discarded error here would
			// truncate the export silently.
			if err := enc.Close(); err != nil {
				fatal("Failed to flush YAML", err)
			}
		default:
			fatal("Unknown format", fmt.Errorf("%q (want json or yaml)", exportFormat))
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format (json|yaml)")
}
