/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RobjayMella/Nexus-Web-App/internal/app"
	"github.com/RobjayMella/Nexus-Web-App/internal/ui"
	"github.com/RobjayMella/Nexus-Web-App/internal/user"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in by e-mail, registering a new analyst if needed",
	Example: `  nexus login --email alice@nexus.com
  nexus login --email dana.lee@corp.com --name "Dana Lee"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.Login(ctx, name, email)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), res)
			}
			if res.Registered {
				out(cmd, "%s Welcome to Nexus, %s! Registered as %s.\n", ui.Icon("✓", ui.StyleSuccess), res.User.Name, res.User.Role)
			} else {
				out(cmd, "%s Welcome back, %s!\n", ui.Icon("✓", ui.StyleSuccess), res.User.Name)
			}
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Logout(ctx); err != nil {
				return err
			}
			out(cmd, "Logged out.\n")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			u, err := a.CurrentUser()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), u)
			}
			out(cmd, "%s <%s>\n%s · theme %s\n", ui.StyleTitle.Render(u.Name), u.Email, u.Role, u.ThemePreference)
			return nil
		})
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Browse the team, switch user and edit your profile",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			users := a.Users()
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), users)
			}
			current, _ := a.CurrentUser()
			t := &ui.Table{Headers: []string{"", "ID", "Name", "Email", "Role"}}
			for _, u := range users {
				marker := ""
				if u.ID == current.ID {
					marker = ui.StyleSuccess.Render("●")
				}
				t.Rows = append(t.Rows, []string{marker, u.ID, u.Name, u.Email, u.Role})
			}
			out(cmd, "%s", t.Render())
			return nil
		})
	},
}

var userSwitchCmd = &cobra.Command{
	Use:   "switch <id|email|name>",
	Short: "Act as another team member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			u, err := a.Switch(ctx, args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), u)
			}
			out(cmd, "Switched to %s.\n", u.Name)
			return nil
		})
	},
}

var userProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your name, role, theme or avatar",
	RunE: func(cmd *cobra.Command, args []string) error {
		var p user.Profile
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			p.Name = &v
		}
		if cmd.Flags().Changed("role") {
			v, _ := cmd.Flags().GetString("role")
			p.Role = &v
		}
		if cmd.Flags().Changed("avatar") {
			v, _ := cmd.Flags().GetString("avatar")
			p.Avatar = &v
		}
		if cmd.Flags().Changed("theme") {
			v, _ := cmd.Flags().GetString("theme")
			theme := user.Theme(v)
			p.Theme = &theme
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			u, err := a.UpdateProfile(ctx, p)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), u)
			}
			out(cmd, "%s Profile updated.\n", ui.Icon("✓", ui.StyleSuccess))
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().String("email", "", "e-mail address")
	loginCmd.Flags().String("name", "", "display name for a new account (defaults to the e-mail local part)")

	userProfileCmd.Flags().String("name", "", "display name")
	userProfileCmd.Flags().String("role", "", "job title")
	userProfileCmd.Flags().String("avatar", "", "avatar URL or data URI")
	userProfileCmd.Flags().String("theme", "", "light, dark or system")

	userCmd.AddCommand(userListCmd, userSwitchCmd, userProfileCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, userCmd)
}
