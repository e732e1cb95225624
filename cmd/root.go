/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/orien/stackpilot/internal/config/file"
	"github.com/orien/stackpilot/internal/logging"
	"github.com/orien/stackpilot/internal/version"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	configFile string
	profile    string
	region     string
	verbose    bool
	debug      bool
	noColor    bool
}

var globals globalOptions

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stackpilot",
	Short: "Deploy AWS CloudFormation stacks and stack sets from a YAML file",
	Long: `Stackpilot deploys CloudFormation stacks and stack sets described in a
YAML deploy file:

• Change sets are previewed and confirmed before they are executed
• Parameters can reference outputs of other stacks
• Stacks are deployed in dependency order
• Stack set instances are rolled out per region and followed until they settle

Use stackpilot to deploy, delete and inspect stacks with consistent,
repeatable configuration.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(logging.Config{
			Output:  cmd.ErrOrStderr(),
			Verbose: globals.verbose,
			Debug:   globals.debug,
			NoColor: globals.noColor,
		})
		cmd.SetContext(logging.WithContext(cmd.Context(), logger))
		return nil
	},
}

// RootCommand exposes the command tree for documentation generation
func RootCommand() *cobra.Command {
	return rootCmd
}

// Execute runs the root command through fang and exits non-zero on error
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version.Short())); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&globals.configFile, "config", "c", file.DefaultFilename, "deploy configuration file")
	flags.StringVarP(&globals.profile, "profile", "p", "", "AWS profile (overrides config)")
	flags.StringVarP(&globals.region, "region", "r", "", "AWS region (overrides config)")
	flags.BoolVarP(&globals.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&globals.debug, "debug", false, "debug logging")
	flags.BoolVar(&globals.noColor, "no-color", false, "disable coloured output")
}
