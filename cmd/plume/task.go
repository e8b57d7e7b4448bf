package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/plumehq/plume/pkg/core"
	"github.com/plumehq/plume/pkg/tasks"
)

var (
	taskDescription string
	taskDue         string
	taskPriority    string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a task",
	Long: `Create a task. The task store expects caller-supplied ids, so the CLI
generates one here and prints it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()

		task := core.Task{
			ID:          uuid.NewString(),
			Title:       args[0],
			Description: taskDescription,
			Priority:    core.Priority(taskPriority),
		}
		if taskDue != "" {
			due, err := time.ParseInLocation("2006-01-02", taskDue, time.Local)
			if err != nil {
				fatal("Invalid --due (want YYYY-MM-DD)", err)
			}
			task.DueDate = &due
		}

		if err := app.Tasks.AddTask(task); err != nil {
			fatal("Failed to add task", err)
		}
		fmt.Printf("Task created: %s\n", task.ID)
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		for _, t := range app.Tasks.Tasks() {
			due := "-"
			if t.DueDate != nil {
				due = t.DueDate.Format("2006-01-02")
			}
			fmt.Printf("%s  %-9s %-6s due:%s  %s\n", t.ID, t.Status, t.Priority, due, t.Title)
		}
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		status := core.StatusCompleted
		app.Tasks.UpdateTask(args[0], tasks.Update{Status: &status})
		fmt.Printf("Task completed: %s\n", args[0])
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		app.Tasks.DeleteTask(args[0])
		fmt.Printf("Task deleted: %s\n", args[0])
	},
}

var taskSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Recompute overdue status for pending tasks",
	Long: `Overdue-ness is a function of wall-clock time, not of any mutation, so it
is recomputed on demand rather than on every read. Run sweep at session start
or from a scheduler.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()
		n := app.Tasks.RecomputeOverdue()
		fmt.Printf("%d task(s) transitioned to overdue\n", n)
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskRmCmd, taskSweepCmd)

	taskAddCmd.Flags().StringVar(&taskDescription, "desc", "", "Description")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", string(core.PriorityMedium), "Priority (low|medium|high)")
}
