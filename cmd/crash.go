/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RobjayMella/Nexus-Web-App/internal/logger"
	"github.com/RobjayMella/Nexus-Web-App/internal/ui"
)

var crashLogsCmd = &cobra.Command{
	Use:    "crash-logs",
	Short:  "List saved crash logs",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := logger.ListCrashLogs()
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(cmd.OutOrStdout(), paths)
		}
		if len(paths) == 0 {
			out(cmd, "%s\n", ui.StyleSubtle.Render("No crash logs."))
			return nil
		}
		for _, p := range paths {
			out(cmd, "%s\n", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crashLogsCmd)
}
