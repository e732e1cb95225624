/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package delete removes configured stacks, dependents before dependencies.
package delete

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/orien/stackpilot/internal/config"
	"github.com/orien/stackpilot/internal/deploy"
	"github.com/orien/stackpilot/internal/opt"
	"github.com/orien/stackpilot/internal/resolve"
)

// Options control how each stack is removed
type Options struct {
	SkipPrompt     bool
	Wait           bool
	IgnoreNotExist bool
	Delays         time.Duration
	Timeout        time.Duration
}

// Deleter removes configured stacks
type Deleter interface {
	DeleteSingleStack(ctx context.Context, stackName string, opts Options) error
	DeleteAllStacks(ctx context.Context, opts Options) error
}

// StackDeleter removes stacks through a region-bound deploy.Deployer
type StackDeleter struct {
	configProvider config.ConfigProvider
	resolver       resolve.Resolver
	deployers      deploy.Factory
	out            io.Writer
}

// NewStackDeleter creates a new StackDeleter
func NewStackDeleter(configProvider config.ConfigProvider, resolver resolve.Resolver, deployers deploy.Factory) *StackDeleter {
	return &StackDeleter{
		configProvider: configProvider,
		resolver:       resolver,
		deployers:      deployers,
		out:            os.Stdout,
	}
}

// SetOutput redirects progress output
func (d *StackDeleter) SetOutput(out io.Writer) {
	d.out = out
}

// DeleteSingleStack removes one configured stack
func (d *StackDeleter) DeleteSingleStack(ctx context.Context, stackName string, opts Options) error {
	return d.deleteStack(ctx, stackName, opts)
}

// DeleteAllStacks removes every configured stack in reverse dependency order.
// Stacks that are already gone are skipped.
func (d *StackDeleter) DeleteAllStacks(ctx context.Context, opts Options) error {
	stackNames, err := d.configProvider.ListStacks()
	if err != nil {
		return fmt.Errorf("failed to list stacks: %w", err)
	}
	if len(stackNames) == 0 {
		fmt.Fprintln(d.out, "No stacks found")
		return nil
	}

	order, err := d.resolver.GetDependencyOrder(stackNames)
	if err != nil {
		return err
	}
	slices.Reverse(order)

	opts.IgnoreNotExist = true
	for _, stackName := range order {
		if err := d.deleteStack(ctx, stackName, opts); err != nil {
			return err
		}
	}
	return nil
}

func (d *StackDeleter) deleteStack(ctx context.Context, stackName string, opts Options) error {
	stackConfig, err := d.configProvider.GetStack(stackName)
	if err != nil {
		return fmt.Errorf("failed to get stack %s: %w", stackName, err)
	}

	deployer, err := d.deployers(ctx, stackConfig.Region)
	if err != nil {
		return fmt.Errorf("failed to get deployer for region %s: %w", stackConfig.Region, err)
	}

	result, err := deployer.RemoveStack(ctx, deploy.RemoveStackInput{
		StackName:      stackName,
		RoleARN:        roleARN(stackConfig.RoleARN),
		IgnoreNotExist: opts.IgnoreNotExist,
		SkipPrompt:     opts.SkipPrompt,
		Wait:           opts.Wait,
		Delays:         opts.Delays,
		Timeout:        opts.Timeout,
	})
	if err != nil {
		var notExist *deploy.StackNotExistError
		if errors.As(err, &notExist) {
			return err
		}
		return fmt.Errorf("error deleting stack %s: %w", stackName, err)
	}

	switch {
	case result.IsDeleteHappened && opts.Wait:
		fmt.Fprintf(d.out, "Deleted stack %s\n", stackName)
	case result.IsDeleteHappened:
		fmt.Fprintf(d.out, "Deletion of stack %s started\n", stackName)
	case result.Stack != nil:
		fmt.Fprintf(d.out, "Deletion of stack %s cancelled\n", stackName)
	}
	return nil
}

func roleARN(arn string) opt.Value[string] {
	if arn == "" {
		return opt.None[string]()
	}
	return opt.Some(arn)
}

var _ Deleter = (*StackDeleter)(nil)
