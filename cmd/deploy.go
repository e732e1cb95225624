/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/orien/stackpilot/internal/deploy"
	"github.com/spf13/cobra"
)

// waitOptions are the polling flags shared by commands that wait
type waitOptions struct {
	skipPrompt bool
	noWait     bool
	delays     time.Duration
	timeout    time.Duration
}

func (o *waitOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.skipPrompt, "skip-prompt", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&o.noWait, "no-wait", false, "return once the operation has started")
	cmd.Flags().DurationVar(&o.delays, "delays", deploy.DefaultDelays, "interval between status checks")
	cmd.Flags().DurationVar(&o.timeout, "timeout", deploy.DefaultTimeout, "how long to wait for an operation")
}

type deployOptions struct {
	waitOptions
	all              bool
	skipPlan         bool
	includeNested    bool
	waitUntilStopped bool
}

var deployOpts deployOptions

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy [stack-name...]",
	Short: "Deploy CloudFormation stacks",
	Long: `Deploy CloudFormation stacks from the deploy file.

By default each stack is deployed through a change set. The change set is
shown before you are asked to confirm:

• Resources added, modified, removed or imported, with replacement warnings
• Parameter changes (current vs new values)
• Tag changes
• Changes inside nested stacks with --include-nested

Declining the creation of a new stack deletes the stack that the change set
created. With --skip-plan the stack is created or updated directly.

Stacks named together, or all stacks with --all, are deployed in dependency
order.

Examples:
  stackpilot deploy vpc                 # Deploy one stack with a preview
  stackpilot deploy --all -y            # Deploy every stack without prompting
  stackpilot deploy app --skip-plan     # Update directly, without a change set`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deployOpts.all && len(args) == 0 {
			return errors.New("specify at least one stack name or --all")
		}
		return deployStacks(cmd, args)
	},
}

func deployStacks(cmd *cobra.Command, stackNames []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}

	if deployOpts.all {
		stackNames, err = env.provider.ListStacks()
		if err != nil {
			return fmt.Errorf("failed to list stacks: %w", err)
		}
		if len(stackNames) == 0 {
			fmt.Fprintln(out, "No stacks found")
			return nil
		}
	}

	order, err := env.resolver.GetDependencyOrder(stackNames)
	if err != nil {
		return fmt.Errorf("failed to resolve stack dependencies: %w", err)
	}

	for _, stackName := range order {
		if err := deployStackWithFeedback(ctx, out, env, stackName); err != nil {
			return err
		}
	}
	return nil
}

// deployStackWithFeedback deploys a stack and reports how it ended
func deployStackWithFeedback(ctx context.Context, out io.Writer, env *environment, stackName string) error {
	resolved, err := env.resolver.ResolveStack(ctx, stackName)
	if err != nil {
		return fmt.Errorf("failed to resolve stack %s: %w", stackName, err)
	}

	input := resolved.Input
	input.Strategy = deploy.StrategyFor(deployOpts.skipPlan)
	input.SkipPrompt = deployOpts.skipPrompt
	input.Wait = !deployOpts.noWait
	input.WaitUntilExecStoppedOnFailure = deployOpts.waitUntilStopped
	input.IncludeNestedStacks = input.IncludeNestedStacks || deployOpts.includeNested
	input.Delays = deployOpts.delays
	input.Timeout = deployOpts.timeout

	d, err := env.deployers(ctx, resolved.Region)
	if err != nil {
		return err
	}

	result, err := d.DeployStack(ctx, input)
	if err != nil {
		printConsoleHint(out, err)
		return fmt.Errorf("error deploying stack %s: %w", stackName, err)
	}

	switch result.Outcome {
	case deploy.OutcomeNoChanges:
		fmt.Fprintf(out, "Stack %s is up to date\n", stackName)
	case deploy.OutcomeDeclined:
		fmt.Fprintf(out, "Deployment of stack %s cancelled\n", stackName)
	default:
		if input.Wait {
			fmt.Fprintf(out, "Stack %s %s\n", stackName, result.Outcome)
		} else {
			fmt.Fprintf(out, "Deployment of stack %s started\n", stackName)
		}
	}
	return nil
}

func init() {
	deployOpts.register(deployCmd)
	deployCmd.Flags().BoolVar(&deployOpts.all, "all", false, "deploy every stack in the deploy file")
	deployCmd.Flags().BoolVar(&deployOpts.skipPlan, "skip-plan", false, "create or update directly instead of through a change set")
	deployCmd.Flags().BoolVar(&deployOpts.includeNested, "include-nested", false, "show changes inside nested stacks")
	deployCmd.Flags().BoolVar(&deployOpts.waitUntilStopped, "wait-until-stopped", false, "on failure, keep waiting until the stack stops before returning")
	rootCmd.AddCommand(deployCmd)
}
