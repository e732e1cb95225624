/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"

	"github.com/orien/stackpilot/internal/describe"
	"github.com/spf13/cobra"
)

var (
	// describer can be injected for testing
	describer describe.Describer
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <stack-name>",
	Short: "Display detailed information about a CloudFormation stack",
	Long: `Display information about a deployed CloudFormation stack:

• Status and reason, creation and last update time
• Parameters with their current values
• Outputs and tags
• A link to the stack in the AWS console

The stack is looked up in the region the deploy file names for it.

Examples:
  stackpilot describe vpc
  stackpilot describe app --region eu-west-1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stackName := args[0]

		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		stackConfig, err := env.provider.GetStack(stackName)
		if err != nil {
			return err
		}

		desc, err := getDescriber(env).DescribeStack(cmd.Context(), env.region(stackConfig.Region), stackName)
		if err != nil {
			return fmt.Errorf("failed to describe stack %s: %w", stackName, err)
		}

		fmt.Fprint(cmd.OutOrStdout(), describe.FormatStackDescription(desc))
		return nil
	},
}

func getDescriber(env *environment) describe.Describer {
	if describer != nil {
		return describer
	}
	return describe.NewStackDescriber(env.clients)
}

// SetDescriber allows injection of a describer (for testing)
func SetDescriber(d describe.Describer) {
	describer = d
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
