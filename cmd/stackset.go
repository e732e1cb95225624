/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"

	"github.com/orien/stackpilot/internal/deploy"
	"github.com/orien/stackpilot/internal/describe"
	"github.com/spf13/cobra"
)

var stackSetOpts struct {
	waitOptions
	failFast     bool
	retainStacks bool
}

// stackSetCmd groups the stack set commands
var stackSetCmd = &cobra.Command{
	Use:     "stackset",
	Aliases: []string{"stack-set"},
	Short:   "Deploy, delete and describe CloudFormation stack sets",
}

var stackSetDeployCmd = &cobra.Command{
	Use:   "deploy <stack-set-name>",
	Short: "Create or update a stack set and its instances",
	Long: `Create or update a stack set from the deploy file.

Instances are added for every account in each target region, one region at a
time. Existing instances are updated with the stack set. Stackpilot then
follows every instance until it settles.

With --fail-fast the command returns on the first failed instance instead of
waiting for the rest to stop.

Examples:
  stackpilot stackset deploy baseline
  stackpilot stackset deploy baseline -y --fail-fast`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		name := args[0]

		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		resolved, err := env.resolver.ResolveStackSet(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to resolve stack set %s: %w", name, err)
		}

		input := resolved.Input
		input.SkipPrompt = stackSetOpts.skipPrompt
		input.Wait = !stackSetOpts.noWait
		input.RaiseErrorUntilExecStopped = stackSetOpts.failFast
		input.Delays = stackSetOpts.delays
		input.Timeout = stackSetOpts.timeout

		d, err := env.deployers(ctx, resolved.Region)
		if err != nil {
			return err
		}
		result, err := d.DeployStackSet(ctx, input)
		if err != nil {
			printConsoleHint(out, err)
			return fmt.Errorf("error deploying stack set %s: %w", name, err)
		}

		switch {
		case result.Declined:
			fmt.Fprintf(out, "Deployment of stack set %s cancelled\n", name)
		case !input.Wait:
			fmt.Fprintf(out, "Deployment of stack set %s started\n", name)
		default:
			fmt.Fprintf(out, "Stack set %s deployed to %d instance(s)\n", name, len(result.Instances))
		}
		return nil
	},
}

var stackSetDeleteCmd = &cobra.Command{
	Use:   "delete <stack-set-name>",
	Short: "Delete a stack set and all of its instances",
	Long: `Delete every instance of a stack set, then the stack set itself.

With --retain-stacks the instances are removed from the stack set but their
stacks are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := args[0]

		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		setConfig, err := env.provider.GetStackSet(name)
		if err != nil {
			return err
		}
		resolved, err := env.resolver.ResolveStackSet(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to resolve stack set %s: %w", name, err)
		}

		d, err := env.deployers(ctx, setConfig.Region)
		if err != nil {
			return err
		}
		err = d.RemoveStackSet(ctx, deploy.RemoveStackSetInput{
			StackSetName: name,
			RetainStacks: stackSetOpts.retainStacks,
			SkipPrompt:   stackSetOpts.skipPrompt,
			Preferences:  resolved.Input.Preferences,
			Delays:       stackSetOpts.delays,
			Timeout:      stackSetOpts.timeout,
		})
		if err != nil {
			printConsoleHint(cmd.OutOrStdout(), err)
			return fmt.Errorf("error deleting stack set %s: %w", name, err)
		}
		return nil
	},
}

var stackSetDescribeCmd = &cobra.Command{
	Use:   "describe <stack-set-name>",
	Short: "Display a stack set and the status of its instances",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		setConfig, err := env.provider.GetStackSet(name)
		if err != nil {
			return err
		}

		desc, err := getDescriber(env).DescribeStackSet(cmd.Context(), env.region(setConfig.Region), name)
		if err != nil {
			return fmt.Errorf("failed to describe stack set %s: %w", name, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), describe.FormatStackSetDescription(desc))
		return nil
	},
}

func init() {
	stackSetOpts.register(stackSetDeployCmd)
	stackSetDeployCmd.Flags().BoolVar(&stackSetOpts.failFast, "fail-fast", false, "return on the first failed instance")

	stackSetDeleteCmd.Flags().BoolVarP(&stackSetOpts.skipPrompt, "skip-prompt", "y", false, "do not ask for confirmation")
	stackSetDeleteCmd.Flags().BoolVar(&stackSetOpts.retainStacks, "retain-stacks", false, "keep the stacks of deleted instances")
	stackSetDeleteCmd.Flags().DurationVar(&stackSetOpts.delays, "delays", deploy.DefaultDelays, "interval between status checks")
	stackSetDeleteCmd.Flags().DurationVar(&stackSetOpts.timeout, "timeout", deploy.DefaultTimeout, "how long to wait for each operation")

	stackSetCmd.AddCommand(stackSetDeployCmd, stackSetDeleteCmd, stackSetDescribeCmd)
	rootCmd.AddCommand(stackSetCmd)
}
