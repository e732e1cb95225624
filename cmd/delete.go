/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"errors"

	"github.com/orien/stackpilot/internal/delete"
	"github.com/spf13/cobra"
)

var (
	// deleter can be injected for testing
	deleter delete.Deleter

	deleteOpts struct {
		waitOptions
		all bool
	}
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [stack-name]",
	Short: "Delete CloudFormation stacks",
	Long: `Delete CloudFormation stacks named in the deploy file.

The stack is shown before you are asked to confirm. With --all every stack
in the deploy file is deleted, dependants before their dependencies, and
stacks that no longer exist are skipped.

Examples:
  stackpilot delete app             # Delete one stack with confirmation
  stackpilot delete --all -y        # Delete every stack without prompting

CAUTION: Deletion is destructive and cannot be undone. Always verify what
will be deleted before confirming.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if deleteOpts.all == (len(args) == 1) {
			return errors.New("specify either a stack name or --all")
		}

		d, err := getDeleter(cmd)
		if err != nil {
			return err
		}

		opts := delete.Options{
			SkipPrompt: deleteOpts.skipPrompt,
			Wait:       !deleteOpts.noWait,
			Delays:     deleteOpts.delays,
			Timeout:    deleteOpts.timeout,
		}
		if deleteOpts.all {
			return d.DeleteAllStacks(cmd.Context(), opts)
		}
		if err := d.DeleteSingleStack(cmd.Context(), args[0], opts); err != nil {
			printConsoleHint(cmd.OutOrStdout(), err)
			return err
		}
		return nil
	},
}

// getDeleter returns the injected deleter or one wired to the deploy file
func getDeleter(cmd *cobra.Command) (delete.Deleter, error) {
	if deleter != nil {
		return deleter, nil
	}
	env, err := newEnvironment(cmd)
	if err != nil {
		return nil, err
	}
	d := delete.NewStackDeleter(env.provider, env.resolver, env.deployers)
	d.SetOutput(cmd.OutOrStdout())
	return d, nil
}

// SetDeleter allows injection of a deleter (for testing)
func SetDeleter(d delete.Deleter) {
	deleter = d
}

func init() {
	deleteOpts.register(deleteCmd)
	deleteCmd.Flags().BoolVar(&deleteOpts.all, "all", false, "delete every stack in the deploy file")
	rootCmd.AddCommand(deleteCmd)
}
