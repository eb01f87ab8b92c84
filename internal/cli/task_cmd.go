package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/whiteindia/selftrack-sub002/internal/cli/formatter"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and subtasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var title, parent string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task, or a subtask with --parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if parent == "" {
				t, err := app.Subjects.CreateTask(ctx, title)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added task %s (%s)\n", formatter.Bold(t.Title), t.ID)
				return nil
			}

			st, err := app.Subjects.CreateSubtask(ctx, parent, title)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Added subtask %s (%s) under %s\n", formatter.Bold(st.Title), st.ID, parent)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task ID; creates a subtask")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks with their subtasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := app.Subjects.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSubjectList(subjects))
			return nil
		},
	}
}
