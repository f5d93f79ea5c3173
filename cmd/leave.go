/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RobjayMella/Nexus-Web-App/internal/app"
	"github.com/RobjayMella/Nexus-Web-App/internal/leave"
	"github.com/RobjayMella/Nexus-Web-App/internal/ui"
)

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Book time off and hand over the work it collides with",
	Long: `Book time off and hand over the work it collides with.

Conflicts include open tasks due inside the leave and the future occurrences
of recurring BAU tasks that have not been created yet. Assign each one to a
colleague with --assign KEY=USER, where KEY is the id printed by
'leave conflicts' (a task id, or virtual_<task>_<date> for a projection).`,
}

var leaveConflictsCmd = &cobra.Command{
	Use:     "conflicts",
	Short:   "Preview the work a leave would collide with",
	Example: `  nexus leave conflicts --start 2024-01-08 --end 2024-01-12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			conflicts, err := a.Conflicts(start, end)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), conflicts)
			}
			printConflicts(cmd, a, conflicts)
			return nil
		})
	},
}

func printConflicts(cmd *cobra.Command, a *app.App, conflicts []leave.Conflict) {
	if len(conflicts) == 0 {
		out(cmd, "%s No conflicting tasks found for these dates.\n", ui.Icon("✓", ui.StyleSuccess))
		return
	}
	out(cmd, "%s %d conflicting task(s) found:\n\n", ui.Icon("!", ui.StyleWarning), len(conflicts))
	out(cmd, "%s", ui.RenderConflicts(conflicts, a.UserName))
}

var leaveBookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book a leave for yourself",
	Example: `  nexus leave book --start 2024-01-08 --end 2024-01-12 --type vacation
  nexus leave book --start 2024-01-08 --end 2024-01-12 --assign virtual_t1_2024-01-09=bob@nexus.com
  nexus leave book --start 2024-01-08 --end 2024-01-12 --interactive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var req app.LeaveRequest
		req.Start, _ = flags.GetString("start")
		req.End, _ = flags.GetString("end")
		req.Reason, _ = flags.GetString("reason")
		typ, _ := flags.GetString("type")
		var err error
		if req.Type, err = leave.ParseType(typ); err != nil {
			return err
		}
		decisions, err := assignFlags(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if interactive(cmd) {
				conflicts, err := a.Conflicts(req.Start, req.End)
				if err != nil {
					return err
				}
				if decisions, err = pickCoverage(a, conflicts, decisions); err != nil {
					return err
				}
			}
			res, err := a.BookLeave(ctx, req, decisions)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		})
	},
}

var leaveEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Move or relabel a booked leave",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var changes app.LeaveChanges
		flags := cmd.Flags()
		if flags.Changed("start") {
			v, _ := flags.GetString("start")
			changes.Start = &v
		}
		if flags.Changed("end") {
			v, _ := flags.GetString("end")
			changes.End = &v
		}
		if flags.Changed("reason") {
			v, _ := flags.GetString("reason")
			changes.Reason = &v
		}
		if flags.Changed("type") {
			v, _ := flags.GetString("type")
			typ, err := leave.ParseType(v)
			if err != nil {
				return err
			}
			changes.Type = &typ
		}
		decisions, err := assignFlags(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if interactive(cmd) {
				_, conflicts, err := a.LeaveConflicts(args[0], changes)
				if err != nil {
					return err
				}
				if decisions, err = pickCoverage(a, conflicts, decisions); err != nil {
					return err
				}
			}
			res, err := a.EditLeave(ctx, args[0], changes, decisions)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		})
	},
}

var leaveListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List booked leaves, latest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		mine, _ := cmd.Flags().GetBool("mine")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			records, err := a.Leaves(mine)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), records)
			}
			out(cmd, "%s", ui.RenderLeaves(records, a.UserName))
			return nil
		})
	},
}

var leaveCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a booked leave",
	Long:  "Cancel a booked leave. Tasks already handed over stay with their new assignees.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			rec, err := a.Leave(args[0])
			if err != nil {
				return err
			}
			prompt := fmt.Sprintf("Cancel %s leave %s to %s? [y/N]: ", rec.Type, rec.StartDate, rec.EndDate)
			if !yes && !confirmOrAbort(cmd, prompt) {
				return nil
			}
			removed, err := a.CancelLeave(ctx, rec.ID)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), removed)
			}
			out(cmd, "Leave request cancelled.\n")
			return nil
		})
	},
}

func assignFlags(cmd *cobra.Command) ([]leave.Decision, error) {
	values, _ := cmd.Flags().GetStringArray("assign")
	return parseAssignments(values)
}

func interactive(cmd *cobra.Command) bool {
	on, _ := cmd.Flags().GetBool("interactive")
	return on && !isJSON() && ui.IsInteractive()
}

// pickCoverage lets the user assign each conflict to a colleague, starting
// from the decisions given on the command line.
func pickCoverage(a *app.App, conflicts []leave.Conflict, decisions []leave.Decision) ([]leave.Decision, error) {
	if len(conflicts) == 0 {
		return decisions, nil
	}
	me, err := a.CurrentUser()
	if err != nil {
		return nil, err
	}
	var colleagues []ui.Colleague
	for _, u := range a.Users() {
		if u.ID != me.ID {
			colleagues = append(colleagues, ui.Colleague{ID: u.ID, Name: u.Name})
		}
	}
	preset := make(map[string]string, len(decisions))
	for _, d := range decisions {
		u, err := a.ResolveUser(d.AssigneeID)
		if err != nil {
			return nil, err
		}
		preset[d.Target.Key()] = u.ID
	}
	return ui.RunCoveragePicker(conflicts, colleagues, preset)
}

func printResult(cmd *cobra.Command, res leave.Result) error {
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), res)
	}
	out(cmd, "%s %s\n", ui.Icon("✓", ui.StyleSuccess), res.Summary)
	for _, err := range res.Skipped {
		out(cmd, "%s %v\n", ui.Icon("!", ui.StyleWarning), err)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{leaveConflictsCmd, leaveBookCmd, leaveEditCmd} {
		c.Flags().String("start", "", "first day of leave (YYYY-MM-DD)")
		c.Flags().String("end", "", "last day of leave (YYYY-MM-DD)")
	}
	for _, c := range []*cobra.Command{leaveBookCmd, leaveEditCmd} {
		c.Flags().String("type", "Vacation", "Vacation, Sick Leave, Personal or Other")
		c.Flags().String("reason", "", "reason shown to the team")
		c.Flags().StringArray("assign", nil, "hand a conflict to a colleague: KEY=USER (repeatable)")
		c.Flags().BoolP("interactive", "i", false, "pick cover for each conflict in a full-screen list")
	}
	leaveListCmd.Flags().Bool("mine", false, "only your leaves")
	leaveCancelCmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	leaveCmd.AddCommand(leaveConflictsCmd, leaveBookCmd, leaveEditCmd, leaveListCmd, leaveCancelCmd)
	rootCmd.AddCommand(leaveCmd)
}
