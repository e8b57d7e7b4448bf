package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show activity streak and collection stats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		overview := app.Stats()

		fmt.Printf("Streak: %d day(s)\n", overview.Streak.Days)
		fmt.Printf("Notes: %d total, %d this week, %d this month\n",
			overview.Notes.Total, overview.Notes.ThisWeek, overview.Notes.ThisMonth)
		fmt.Printf("Tasks: %d total, %d completed, %d pending, %d overdue (%d%% done)\n",
			overview.Tasks.Total, overview.Tasks.Completed, overview.Tasks.Pending,
			overview.Tasks.Overdue, overview.Tasks.CompletionRate)
		fmt.Printf("Notebooks: %d total, %d pages, %d non-empty, %d active this week\n",
			overview.Notebooks.Total, overview.Notebooks.TotalPages,
			overview.Notebooks.WithPages, overview.Notebooks.ActiveThisWeek)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
