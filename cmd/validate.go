/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"

	"github.com/orien/stackpilot/internal/validate"
	"github.com/spf13/cobra"
)

var (
	// validator can be injected for testing
	validator validate.Validator
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [stack-name]",
	Short: "Validate the deploy file and its CloudFormation templates",
	Long: `Validate the deploy file, then validate templates with the
CloudFormation API.

The deploy file is checked for missing templates, undefined dependencies and
incomplete stack set targets before any template is sent to AWS. If no stack
name is given, every stack and stack set is validated.

Examples:
  stackpilot validate               # Validate everything
  stackpilot validate vpc           # Validate one stack`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd)
		if err != nil {
			return err
		}
		if err := env.provider.Validate(); err != nil {
			return fmt.Errorf("invalid deploy file %s: %w", globals.configFile, err)
		}

		v := getValidator(cmd, env)
		if len(args) == 1 {
			return v.ValidateSingleStack(cmd.Context(), args[0])
		}
		return v.ValidateAllStacks(cmd.Context())
	},
}

func getValidator(cmd *cobra.Command, env *environment) validate.Validator {
	if validator != nil {
		return validator
	}
	v := validate.NewTemplateValidator(env.provider, env.resolver, env.deployers)
	v.SetOutput(cmd.OutOrStdout())
	return v
}

// SetValidator allows injection of a validator (for testing)
func SetValidator(v validate.Validator) {
	validator = v
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
