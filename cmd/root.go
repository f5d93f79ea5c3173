/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RobjayMella/Nexus-Web-App/internal/config"
	"github.com/RobjayMella/Nexus-Web-App/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// version is the application version.
	version = "1.0.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus - task tracking and leave planning for analyst teams",
	Long: `Nexus tracks ad-hoc and recurring business-as-usual work, plans leave
with task coverage, keeps a shared repository of links and documents, and
drafts standups, e-mails, documentation and infographics with AI.

Closing a recurring task schedules its next occurrence. Booking leave lists
every task due while you are away, including future occurrences that have
not been created yet, so each can be handed to a colleague.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile); err != nil {
			return err
		}
		logger.Setup(os.Stderr, viper.GetBool("verbose"))
		logger.SetVersion(version)
		logger.SetCommand(cmd.CommandPath())
		logger.SetLastInput(strings.Join(os.Args[1:], " "))
		logger.SetBasePath(config.GetDataDir())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		HandleFatalError(userMessage(err), err)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.nexus/nexus.yaml or $HOME/.nexus/nexus.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "print machine-readable JSON")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// out is where commands print results.
func out(cmd *cobra.Command, format string, a ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}
