/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RobjayMella/Nexus-Web-App/internal/app"
	"github.com/RobjayMella/Nexus-Web-App/internal/memory"
	"github.com/RobjayMella/Nexus-Web-App/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write the whole workspace to a JSON or YAML file",
	Long: `Write users, tasks, leaves, files, activity and notifications to a file.
The encoding follows the extension (.json, .yaml, .yml); --format adds the
extension when the path has none.`,
	Example: `  nexus export backup.json
  nexus export backup --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		path, err := exportPath(args[0], format)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Export(path); err != nil {
				return err
			}
			out(cmd, "%s Workspace exported to %s.\n", ui.Icon("✓", ui.StyleSuccess), path)
			return nil
		})
	},
}

func exportPath(path, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		return path, nil
	case string(memory.FormatJSON), string(memory.FormatYAML), "yml":
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	if filepath.Ext(path) == "" {
		return path + "." + strings.ToLower(format), nil
	}
	return path, nil
}

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Replace the workspace with an exported file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmOrAbort(cmd, "Importing replaces all current data. Continue? [y/N]: ") {
			return nil
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			snap, err := a.Import(ctx, args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), map[string]int{
					"users":  len(snap.Users),
					"tasks":  len(snap.Tasks),
					"leaves": len(snap.Leaves),
					"files":  len(snap.Files),
					"logs":   len(snap.Logs),
				})
			}
			out(cmd, "%s Imported %d users, %d tasks, %d leaves and %d files.\n",
				ui.Icon("✓", ui.StyleSuccess), len(snap.Users), len(snap.Tasks), len(snap.Leaves), len(snap.Files))
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().String("format", "", "json or yaml, used when the path has no extension")
	importCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	rootCmd.AddCommand(exportCmd, importCmd)
}
