/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RobjayMella/Nexus-Web-App/internal/app"
	"github.com/RobjayMella/Nexus-Web-App/internal/files"
	"github.com/RobjayMella/Nexus-Web-App/internal/ui"
)

var fileCmd = &cobra.Command{
	Use:     "file",
	Aliases: []string{"files", "repo"},
	Short:   "Manage the shared repository of links and documents",
}

var fileAddCmd = &cobra.Command{
	Use:     "add <name> <url>",
	Short:   "Add a link or document",
	Example: `  nexus file add "Weekly Sales Dashboard" https://bi.example.com/sales --type dashboard`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := fileTypeFlag(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			it, err := a.AddFile(ctx, files.Item{Name: args[0], URL: args[1], Type: typ})
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), it)
			}
			out(cmd, "%s %s added as %s (%s).\n", ui.Icon("✓", ui.StyleSuccess), it.Name, it.Type, it.ID)
			return nil
		})
	},
}

var fileEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Rename, re-point or retype an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := fileTypeFlag(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		url, _ := cmd.Flags().GetString("url")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			it, err := a.EditFile(ctx, args[0], files.Item{Name: name, URL: url, Type: typ})
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), it)
			}
			out(cmd, "%s Resource updated.\n", ui.Icon("✓", ui.StyleSuccess))
			return nil
		})
	},
}

var fileDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Remove an item and detach it from tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			it, err := a.File(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirmOrAbort(cmd, fmt.Sprintf("Delete %q? [y/N]: ", it.Name)) {
				return nil
			}
			removed, err := a.DeleteFile(ctx, it.ID)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), removed)
			}
			out(cmd, "Resource deleted.\n")
			return nil
		})
	},
}

var fileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List repository items",
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := fileTypeFlag(cmd)
		if err != nil {
			return err
		}
		search, _ := cmd.Flags().GetString("search")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			items := a.Files(search, typ)
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), items)
			}
			out(cmd, "%s", ui.RenderFiles(items, a.UserName))
			return nil
		})
	},
}

func fileTypeFlag(cmd *cobra.Command) (files.Type, error) {
	v, _ := cmd.Flags().GetString("type")
	if v == "" {
		return "", nil
	}
	return files.ParseType(v)
}

func init() {
	typeHelp := "Link, Document, Image, Dashboard or Report"
	fileAddCmd.Flags().String("type", "", typeHelp+" (guessed from the URL when omitted)")
	fileEditCmd.Flags().String("name", "", "new name")
	fileEditCmd.Flags().String("url", "", "new URL")
	fileEditCmd.Flags().String("type", "", typeHelp)
	fileDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	fileListCmd.Flags().String("search", "", "match item names")
	fileListCmd.Flags().String("type", "", "filter by "+typeHelp)

	fileCmd.AddCommand(fileAddCmd, fileEditCmd, fileDeleteCmd, fileListCmd)
	rootCmd.AddCommand(fileCmd)
}
