/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/RobjayMella/Nexus-Web-App/internal/app"
	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
	"github.com/RobjayMella/Nexus-Web-App/internal/files"
	"github.com/RobjayMella/Nexus-Web-App/internal/llm"
	"github.com/RobjayMella/Nexus-Web-App/internal/task"
	"github.com/RobjayMella/Nexus-Web-App/internal/ui"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks", "t"},
	Short:   "Create, list and move tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a task",
	Long: `Create an ad-hoc or recurring BAU task. A BAU task with a frequency
schedules its next occurrence when it is moved to Done.`,
	Example: `  nexus task add --title "Weekly KPI Report" --kind BAU --freq weekly --due 2024-01-02 --time 10:00
  nexus task add --title "Competitor analysis" --due 2024-01-03 --enhance`,
	RunE: runTaskAdd,
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	title, _ := flags.GetString("title")
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("--title is required")
	}
	t := task.Task{Title: title}
	t.Description, _ = flags.GetString("desc")
	t.DueTime, _ = flags.GetString("time")
	t.FileIDs, _ = flags.GetStringSlice("file")

	var err error
	kind, _ := flags.GetString("kind")
	if t.Kind, err = task.ParseKind(kind); err != nil {
		return err
	}
	if freq, _ := flags.GetString("freq"); freq != "" {
		if t.Frequency, err = task.ParseFrequency(freq); err != nil {
			return err
		}
	}
	if p, _ := flags.GetString("priority"); p != "" {
		if t.Priority, err = task.ParsePriority(p); err != nil {
			return err
		}
	}
	due, _ := flags.GetString("due")
	if t.DueDate, err = calendar.Parse(due); err != nil {
		return fmt.Errorf("--due: %w", err)
	}
	enhance, _ := flags.GetBool("enhance")

	run := withApp
	if enhance {
		run = withAIApp
	}
	return run(cmd, func(ctx context.Context, a *app.App) error {
		if ref, _ := flags.GetString("assignee"); ref != "" {
			u, err := a.ResolveUser(ref)
			if err != nil {
				return err
			}
			t.AssigneeID = u.ID
		}
		if enhance {
			t = applyEnhancement(ctx, cmd, a, t)
		}
		created, err := a.AddTask(ctx, t)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(cmd.OutOrStdout(), created)
		}
		out(cmd, "%s Task %q created (%s).\n", ui.Icon("✓", ui.StyleSuccess), created.Title, created.ID)
		return nil
	})
}

// applyEnhancement fills the description, and the priority when not set on
// the command line, from an AI suggestion.
func applyEnhancement(ctx context.Context, cmd *cobra.Command, a *app.App, t task.Task) task.Task {
	sp := ui.NewSpinner("Enhancing description...")
	sp.Start()
	e := a.Enhance(ctx, t.Title, string(t.Kind))
	sp.Stop()

	if e.Description == llm.MsgKeyMissing || e.Description == llm.MsgDescriptionFailed {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderWarningPanel("AI", e.Description))
		return t
	}
	desc := e.Description
	if len(e.Subtasks) > 0 {
		desc += "\n\nSubtasks:\n- " + strings.Join(e.Subtasks, "\n- ")
	}
	if t.Description != "" {
		desc = t.Description + "\n\n" + desc
	}
	t.Description = desc
	if !cmd.Flags().Changed("priority") {
		if p, err := task.ParsePriority(e.Priority); err == nil {
			t.Priority = p
		}
	}
	return t
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Example: `  nexus task list --mine
  nexus task list --completed --sort priority --desc
  nexus task list --kind bau --search kpi`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, mine, err := listQuery(cmd.Flags())
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			tasks, err := a.Tasks(q, mine)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), tasks)
			}
			out(cmd, "%s", ui.RenderTaskTable(tasks, a.UserName))
			return nil
		})
	},
}

func listQuery(flags *pflag.FlagSet) (task.Query, bool, error) {
	var q task.Query
	var err error
	q.View = task.ViewOngoing
	if completed, _ := flags.GetBool("completed"); completed {
		q.View = task.ViewCompleted
	}
	if all, _ := flags.GetBool("all"); all {
		q.View = task.ViewAll
	}
	q.Search, _ = flags.GetString("search")
	if s, _ := flags.GetString("status"); s != "" {
		if q.Status, err = task.ParseStatus(s); err != nil {
			return q, false, err
		}
	}
	if p, _ := flags.GetString("priority"); p != "" {
		if q.Priority, err = task.ParsePriority(p); err != nil {
			return q, false, err
		}
	}
	if k, _ := flags.GetString("kind"); k != "" {
		if q.Kind, err = task.ParseKind(k); err != nil {
			return q, false, err
		}
	}
	q.AssigneeID, _ = flags.GetString("assignee")
	sortBy, _ := flags.GetString("sort")
	if q.SortBy, err = task.ParseSortField(sortBy); err != nil {
		return q, false, err
	}
	q.Desc, _ = flags.GetBool("desc")
	mine, _ := flags.GetBool("mine")
	return q, mine, nil
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			t, err := a.Task(args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), t)
			}
			var attached []files.Item
			for _, id := range t.FileIDs {
				if f, err := a.File(id); err == nil {
					attached = append(attached, f)
				}
			}
			out(cmd, "%s", ui.RenderTaskDetail(t, a.UserName, attached))
			return nil
		})
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit task fields",
	Long: `Edit task fields. Only the flags given are changed. Use 'task move' to
change the status of a recurring task so its next occurrence is scheduled.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, assignee, err := taskPatch(cmd.Flags())
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if assignee != "" {
				u, err := a.ResolveUser(assignee)
				if err != nil {
					return err
				}
				p.AssigneeID = &u.ID
			}
			t, err := a.UpdateTask(ctx, args[0], p)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), t)
			}
			out(cmd, "%s Task %q updated.\n", ui.Icon("✓", ui.StyleSuccess), t.Title)
			return nil
		})
	},
}

func taskPatch(flags *pflag.FlagSet) (task.Patch, string, error) {
	var p task.Patch
	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	p.Title = str("title")
	p.Description = str("desc")
	p.DueTime = str("time")
	if v := str("kind"); v != nil {
		k, err := task.ParseKind(*v)
		if err != nil {
			return p, "", err
		}
		p.Kind = &k
	}
	if v := str("freq"); v != nil {
		f, err := task.ParseFrequency(*v)
		if err != nil {
			return p, "", err
		}
		p.Frequency = &f
	}
	if v := str("priority"); v != nil {
		pr, err := task.ParsePriority(*v)
		if err != nil {
			return p, "", err
		}
		p.Priority = &pr
	}
	if v := str("status"); v != nil {
		s, err := task.ParseStatus(*v)
		if err != nil {
			return p, "", err
		}
		p.Status = &s
	}
	if v := str("due"); v != nil {
		d, err := calendar.Parse(*v)
		if err != nil {
			return p, "", fmt.Errorf("--due: %w", err)
		}
		p.DueDate = &d
	}
	if flags.Changed("file") {
		ids, _ := flags.GetStringSlice("file")
		p.FileIDs = &ids
	}
	assignee, _ := flags.GetString("assignee")
	return p, assignee, nil
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <id> <status>",
	Short: "Change a task's status",
	Long: `Change a task's status to todo, in-progress, review or done. Moving a
recurring BAU task to done schedules its next occurrence unless one already
exists on that date.`,
	Example: `  nexus task move t1 done`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := task.ParseStatus(args[1])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			change, err := a.MoveTask(ctx, args[0], status)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), change)
			}
			out(cmd, "%s %q moved to %s.\n", ui.Icon("✓", ui.StyleSuccess), change.Task.Title, ui.StatusStyle(status).Render(string(status)))
			if change.Spawned != nil {
				out(cmd, "%s Next occurrence scheduled for %s (%s).\n", ui.Icon("↻", ui.StylePrimary), change.Spawned.DueDate, change.Spawned.ID)
			}
			return nil
		})
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			t, err := a.Task(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirmOrAbort(cmd, fmt.Sprintf("Are you sure you want to delete %q? [y/N]: ", t.Title)) {
				return nil
			}
			removed, err := a.DeleteTask(ctx, t.ID)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), removed)
			}
			out(cmd, "Task deleted.\n")
			return nil
		})
	},
}

func addTaskFieldFlags(flags *pflag.FlagSet) {
	flags.String("title", "", "task title")
	flags.String("desc", "", "description")
	flags.String("kind", "Ad-hoc", "BAU or Ad-hoc")
	flags.String("freq", "", "BAU frequency: daily, weekly, bi-weekly, monthly, quarterly")
	flags.String("priority", "", "low, medium, high or critical")
	flags.String("assignee", "", "assignee id, e-mail or name (default: you)")
	flags.String("due", "", "due date (YYYY-MM-DD)")
	flags.String("time", "", "due time (HH:mm)")
	flags.StringSlice("file", nil, "attach a repository item by id (repeatable)")
}

func addListFlags(flags *pflag.FlagSet) {
	flags.Bool("completed", false, "show completed tasks")
	flags.Bool("all", false, "show open and completed tasks")
	flags.String("search", "", "match title or description")
	flags.String("status", "", "filter by status")
	flags.String("priority", "", "filter by priority")
	flags.String("kind", "", "filter by BAU or Ad-hoc")
	flags.String("assignee", "", "filter by assignee id")
	flags.Bool("mine", false, "only tasks assigned to you")
	flags.String("sort", "dueDate", "dueDate, createdAt or priority")
	flags.Bool("desc", false, "sort descending")
}

func init() {
	addTaskFieldFlags(taskAddCmd.Flags())
	taskAddCmd.Flags().Bool("enhance", false, "let AI draft the description and priority")

	addTaskFieldFlags(taskUpdateCmd.Flags())
	taskUpdateCmd.Flags().String("status", "", "status (does not schedule recurrences; use 'task move')")

	addListFlags(taskListCmd.Flags())

	taskDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskUpdateCmd, taskMoveCmd, taskDeleteCmd)
	rootCmd.AddCommand(taskCmd)
}
