package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plumehq/plume/pkg/notebooks"
)

var (
	notebookColor string
	pageContent   string
)

var notebookCmd = &cobra.Command{
	Use:   "notebook",
	Short: "Manage notebooks and their pages",
}

var notebookAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a notebook",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		nb, err := app.Notebooks.AddNotebook(notebooks.NewNotebook{
			Title: args[0],
			Color: notebookColor,
		})
		if err != nil {
			fatal("Failed to add notebook", err)
		}
		fmt.Printf("Notebook created: %s\n", nb.ID)
	},
}

var notebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notebooks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		for _, nb := range app.Notebooks.Notebooks() {
			fmt.Printf("%s  %s (%d pages)\n", nb.ID, nb.Title, len(nb.Pages))
			for _, p := range nb.Pages {
				fmt.Printf("    %s  %s\n", p.ID, p.Title)
			}
		}
	},
}

var notebookRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a notebook and all of its pages",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		app.Notebooks.DeleteNotebook(args[0])
		fmt.Printf("Notebook deleted: %s\n", args[0])
	},
}

var pageAddCmd = &cobra.Command{
	Use:   "page [notebook-id] [title]",
	Short: "Append a page to a notebook",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		page, ok := app.Notebooks.AddPage(args[0], notebooks.NewPage{
			Title:   args[1],
			Content: pageContent,
		})
		if !ok {
			fatal("Failed to add page", fmt.Errorf("no notebook with id %s", args[0]))
		}
		fmt.Printf("Page created: %s\n", page.ID)
	},
}

func init() {
	rootCmd.AddCommand(notebookCmd)
	notebookCmd.AddCommand(notebookAddCmd, notebookListCmd, notebookRmCmd, pageAddCmd)

	notebookAddCmd.Flags().StringVar(&notebookColor, "color", "#ffffff", "Cover color")
	pageAddCmd.Flags().StringVar(&pageContent, "content", "", "Page content")
}
