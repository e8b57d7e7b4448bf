package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plumehq/plume/pkg/core"
)

var (
	tagColor string
	tagEmoji string
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Register a tag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		err := app.Notes.AddTag(core.Tag{
			Name:  args[0],
			Color: tagColor,
			Emoji: tagEmoji,
		})
		if err != nil {
			fatal("Failed to add tag", err)
		}
		fmt.Printf("Tag added: %s\n", args[0])
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm [name]",
	Short: "Remove a tag (notes keep the dangling name)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		if err := app.Notes.RemoveTag(args[0]); err != nil {
			fatal("Failed to remove tag", err)
		}
		fmt.Printf("Tag removed: %s\n", args[0])
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		for _, t := range app.Notes.Tags() {
			fmt.Printf("%s %s %s\n", t.Color, t.Emoji, t.Name)
		}
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagAddCmd, tagRmCmd, tagListCmd)

	tagAddCmd.Flags().StringVar(&tagColor, "color", "#888888", "Hex color")
	tagAddCmd.Flags().StringVar(&tagEmoji, "emoji", "", "Optional emoji")
}
