package main

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/plumehq/plume/pkg/core"
	"github.com/plumehq/plume/pkg/notes"
)

var (
	noteTitle   string
	noteContent string
	noteTag     string
	noteByDate  bool
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		note := app.Notes.AddNote(notes.NewNote{
			Title:   noteTitle,
			Content: noteContent,
			Tag:     noteTag,
		})
		fmt.Printf("Note created: %s\n", note.ID)
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		for _, n := range displayOrder(app.Notes.Notes(), noteByDate) {
			pin := " "
			if n.IsPinned {
				pin = "*"
			}
			fmt.Printf("%s %s  [%s]  %s\n", pin, n.ID, n.Tag, n.Title)
		}
	},
}

var noteRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		app.Notes.RemoveNote(args[0])
		fmt.Printf("Note removed: %s\n", args[0])
	},
}

var notePinCmd = &cobra.Command{
	Use:   "pin [id]",
	Short: "Toggle a note's pinned flag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		app.Notes.TogglePin(args[0])
		if n, ok := app.Notes.Note(args[0]); ok {
			fmt.Printf("Note %s pinned=%v\n", n.ID, n.IsPinned)
		} else {
			fmt.Fprintf(os.Stderr, "No note with id %s\n", args[0])
		}
	},
}

// displayOrder returns the notes in presentation order. Stores keep insertion
// order and their slices share backing with live state, so chronological
// sorting happens on a copy.
func displayOrder(list []core.Note, byDate bool) []core.Note {
	list = slices.Clone(list)
	if byDate {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].ModifiedAt.After(list[j].ModifiedAt)
		})
	}
	return list
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd, noteListCmd, noteRmCmd, notePinCmd)

	noteAddCmd.Flags().StringVar(&noteTitle, "title", "", "Note title")
	noteAddCmd.Flags().StringVar(&noteContent, "content", "", "Note content")
	noteAddCmd.Flags().StringVar(&noteTag, "tag", "", "Tag name (defaults to untagged)")
	noteAddCmd.MarkFlagRequired("title")

	noteListCmd.Flags().BoolVar(&noteByDate, "by-date", false, "Sort by last modification")
}
