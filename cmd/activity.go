/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RobjayMella/Nexus-Web-App/internal/app"
	"github.com/RobjayMella/Nexus-Web-App/internal/audit"
	"github.com/RobjayMella/Nexus-Web-App/internal/calendar"
	"github.com/RobjayMella/Nexus-Web-App/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Your workload, who is away today and recent team activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			d, err := a.Dashboard()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), d)
			}
			me, _ := a.CurrentUser()
			ui.RenderPageHeader("Nexus", "Welcome back, "+me.Name)

			var b strings.Builder
			fmt.Fprintln(&b, ui.RenderStat("pending tasks", d.Pending, ui.StyleWarning.Render))
			fmt.Fprintln(&b, ui.RenderStat("BAU workload", d.BAUWorkload, ui.StylePrimary.Render))
			fmt.Fprintln(&b, ui.RenderStat("completed", d.Completed, ui.StyleSuccess.Render))
			out(cmd, "%s\n", b.String())

			if away := a.Away(calendar.Today()); len(away) > 0 {
				names := make([]string, 0, len(away))
				for _, r := range away {
					names = append(names, fmt.Sprintf("%s (%s)", a.UserName(r.UserID), r.Type))
				}
				out(cmd, "%s %s\n\n", ui.StyleSectionTitle.Render("Away today:"), strings.Join(names, ", "))
			}

			out(cmd, "%s\n", ui.StyleSectionTitle.Render("Recent activity"))
			out(cmd, "%s", ui.RenderActivity(d.Recent, a.UserName))
			if n := a.UnreadNotifications(); n > 0 {
				out(cmd, "\n%s\n", ui.StyleSubtle.Render(fmt.Sprintf("%d unread notification(s). Run 'nexus notifications'.", n)))
			}
			return nil
		})
	},
}

var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"log"},
	Short:   "Show the team activity log",
	Example: `  nexus activity --limit 20
  nexus activity --user bob@nexus.com --action "Task Reassigned"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var f audit.Filter
		f.Limit, _ = cmd.Flags().GetInt("limit")
		f.Action, _ = cmd.Flags().GetString("action")
		f.Search, _ = cmd.Flags().GetString("search")
		who, _ := cmd.Flags().GetString("user")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if who != "" {
				u, err := a.ResolveUser(who)
				if err != nil {
					return err
				}
				f.UserID = u.ID
			}
			entries := a.Activity(f)
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			out(cmd, "%s", ui.RenderActivity(entries, a.UserName))
			return nil
		})
	},
}

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"inbox"},
	Short:   "Show notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		markRead, _ := cmd.Flags().GetBool("read")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			items := a.Notifications()
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), items)
			}
			out(cmd, "%s", ui.RenderNotifications(items))
			if markRead {
				return a.MarkNotificationsRead(ctx)
			}
			return nil
		})
	},
}

func init() {
	activityCmd.Flags().Int("limit", 25, "maximum entries (0 for all)")
	activityCmd.Flags().String("user", "", "only entries by this user (id, e-mail or name)")
	activityCmd.Flags().String("action", "", "only this action, e.g. \"Move Task\"")
	activityCmd.Flags().String("search", "", "match the details text")
	notificationsCmd.Flags().Bool("read", false, "mark all as read after listing")

	rootCmd.AddCommand(dashboardCmd, activityCmd, notificationsCmd)
}
