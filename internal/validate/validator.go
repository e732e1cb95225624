/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package validate checks deploy file templates with CloudFormation before
// anything is deployed.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/orien/stackpilot/internal/config"
	"github.com/orien/stackpilot/internal/deploy"
	"github.com/orien/stackpilot/internal/resolve"
)

// ErrValidationFailed is returned when one or more templates are invalid
var ErrValidationFailed = errors.New("validation failed for one or more templates")

// Validator validates the templates of configured stacks
type Validator interface {
	ValidateSingleStack(ctx context.Context, stackName string) error
	ValidateAllStacks(ctx context.Context) error
}

// TemplateValidator resolves stacks and validates their templates in their region
type TemplateValidator struct {
	configProvider config.ConfigProvider
	resolver       resolve.Resolver
	deployers      deploy.Factory
	out            io.Writer
}

// NewTemplateValidator creates a validator writing progress to stdout
func NewTemplateValidator(configProvider config.ConfigProvider, resolver resolve.Resolver, deployers deploy.Factory) *TemplateValidator {
	return &TemplateValidator{
		configProvider: configProvider,
		resolver:       resolver,
		deployers:      deployers,
		out:            os.Stdout,
	}
}

// SetOutput redirects progress output
func (v *TemplateValidator) SetOutput(out io.Writer) {
	v.out = out
}

// ValidateSingleStack validates one stack's template
func (v *TemplateValidator) ValidateSingleStack(ctx context.Context, stackName string) error {
	fmt.Fprintf(v.out, "Validating template for stack '%s'...\n", stackName)

	if err := v.validateStack(ctx, stackName); err != nil {
		fmt.Fprintf(v.out, "✗ Validation failed for stack '%s'\n  Error: %v\n", stackName, err)
		return err
	}

	fmt.Fprintf(v.out, "✓ Template is valid for stack '%s'\n", stackName)
	return nil
}

// ValidateAllStacks validates every stack and stack set, reporting all failures
func (v *TemplateValidator) ValidateAllStacks(ctx context.Context) error {
	stackNames, err := v.configProvider.ListStacks()
	if err != nil {
		return fmt.Errorf("failed to list stacks: %w", err)
	}
	stackSetNames, err := v.configProvider.ListStackSets()
	if err != nil {
		return fmt.Errorf("failed to list stack sets: %w", err)
	}

	total := len(stackNames) + len(stackSetNames)
	if total == 0 {
		fmt.Fprintln(v.out, "No stacks defined")
		return nil
	}
	fmt.Fprintf(v.out, "Validating %d template(s)...\n\n", total)

	results := make([]ValidationResult, 0, total)
	for _, name := range stackNames {
		results = append(results, v.check(name, v.validateStack(ctx, name)))
	}
	for _, name := range stackSetNames {
		results = append(results, v.check(name, v.validateStackSet(ctx, name)))
	}

	invalid := v.printSummary(results)
	if invalid > 0 {
		return ErrValidationFailed
	}
	return nil
}

func (v *TemplateValidator) check(name string, err error) ValidationResult {
	if err != nil {
		fmt.Fprintf(v.out, "→ %s ✗\n", name)
		return ValidationResult{StackName: name, Error: err.Error()}
	}
	fmt.Fprintf(v.out, "→ %s ✓\n", name)
	return ValidationResult{StackName: name, Valid: true}
}

func (v *TemplateValidator) validateStack(ctx context.Context, stackName string) error {
	resolved, err := v.resolver.ResolveStack(ctx, stackName)
	if err != nil {
		return fmt.Errorf("failed to resolve stack %s: %w", stackName, err)
	}
	return v.validateTemplate(ctx, resolved.Region, resolved.Input.TemplateBody)
}

func (v *TemplateValidator) validateStackSet(ctx context.Context, stackSetName string) error {
	resolved, err := v.resolver.ResolveStackSet(ctx, stackSetName)
	if err != nil {
		return fmt.Errorf("failed to resolve stack set %s: %w", stackSetName, err)
	}
	return v.validateTemplate(ctx, resolved.Region, resolved.Input.TemplateBody)
}

func (v *TemplateValidator) validateTemplate(ctx context.Context, region, body string) error {
	d, err := v.deployers(ctx, region)
	if err != nil {
		return fmt.Errorf("failed to get deployer for region %s: %w", region, err)
	}
	return d.ValidateTemplate(ctx, body)
}

// printSummary prints the results and returns the number of invalid templates
func (v *TemplateValidator) printSummary(results []ValidationResult) int {
	invalid := 0
	fmt.Fprintln(v.out, "\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	for _, result := range results {
		if result.Valid {
			fmt.Fprintf(v.out, "✓ %s\n", result.StackName)
			continue
		}
		invalid++
		fmt.Fprintf(v.out, "✗ %s\n  Error: %s\n", result.StackName, result.Error)
	}
	fmt.Fprintln(v.out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintf(v.out, "Total:   %d\nValid:   %d\nInvalid: %d\n", len(results), len(results)-invalid, invalid)
	return invalid
}

// ValidationResult contains the outcome of a single template validation
type ValidationResult struct {
	StackName string
	Valid     bool
	Error     string
}

var _ Validator = (*TemplateValidator)(nil)
