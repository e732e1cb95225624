/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package deploy orchestrates stack and stack set deployments: it creates or
// updates through a change set or directly, asks for confirmation, and waits
// for CloudFormation to reach a terminal state.
package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/console"
	"github.com/orien/stackpilot/internal/diff"
	"github.com/orien/stackpilot/internal/prompt"
	"github.com/orien/stackpilot/internal/waiter"
)

const (
	DefaultDelays  = 5 * time.Second
	DefaultTimeout = time.Hour
)

// Deployer defines the interface for stack and stack set operations
type Deployer interface {
	DeployStack(ctx context.Context, input DeployStackInput) (*DeployStackResult, error)
	RemoveStack(ctx context.Context, input RemoveStackInput) (*RemoveStackResult, error)
	DeployStackSet(ctx context.Context, input DeployStackSetInput) (*DeployStackSetResult, error)
	RemoveStackSet(ctx context.Context, input RemoveStackSetInput) error
	ValidateTemplate(ctx context.Context, templateBody string) error
}

// Factory returns a Deployer bound to a region
type Factory func(ctx context.Context, region string) (Deployer, error)

// StackDeployer implements Deployer using CloudFormation
type StackDeployer struct {
	ops        aws.CloudFormationOperations
	uploader   aws.ArtifactUploader
	prompter   prompt.Prompter
	out        io.Writer
	styles     *diff.Styles
	visualizer *diff.Visualizer
	region     string
	now        waiter.Clock
	waitOpts   []waiter.Option
}

// Option configures a StackDeployer
type Option func(*StackDeployer)

// WithUploader routes oversized templates and policies through uploader
func WithUploader(uploader aws.ArtifactUploader) Option {
	return func(d *StackDeployer) {
		d.uploader = uploader
	}
}

func WithPrompter(p prompt.Prompter) Option {
	return func(d *StackDeployer) {
		d.prompter = p
	}
}

// WithOutput sets where change set previews are written
func WithOutput(w io.Writer) Option {
	return func(d *StackDeployer) {
		d.out = w
	}
}

func WithStyles(styles *diff.Styles) Option {
	return func(d *StackDeployer) {
		d.styles = styles
	}
}

// WithRegion sets the region used in console links
func WithRegion(region string) Option {
	return func(d *StackDeployer) {
		d.region = region
	}
}

// WithClock sets the clock used for change set names and waiting
func WithClock(now waiter.Clock) Option {
	return func(d *StackDeployer) {
		d.now = now
		d.waitOpts = append(d.waitOpts, waiter.WithClock(now))
	}
}

// WithWaiterOptions passes options to every waiter the deployer creates
func WithWaiterOptions(opts ...waiter.Option) Option {
	return func(d *StackDeployer) {
		d.waitOpts = append(d.waitOpts, opts...)
	}
}

// NewStackDeployer creates a new StackDeployer
func NewStackDeployer(ops aws.CloudFormationOperations, opts ...Option) *StackDeployer {
	d := &StackDeployer{
		ops:      ops,
		prompter: prompt.GetDefaultPrompter(),
		out:      os.Stdout,
		styles:   diff.NewStyles(false),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.visualizer = diff.NewVisualizer(ops)
	return d
}

// ValidateTemplate asks CloudFormation to validate a template body
func (d *StackDeployer) ValidateTemplate(ctx context.Context, templateBody string) error {
	source, err := aws.StageArtifact(ctx, d.uploader, aws.ArtifactTemplate, templateBody)
	if err != nil {
		return err
	}
	if err := d.ops.ValidateTemplate(ctx, source); err != nil {
		return fmt.Errorf("template validation failed: %w", err)
	}
	return nil
}

func (d *StackDeployer) newWaiter(delays, timeout time.Duration) *waiter.Waiter {
	if delays <= 0 {
		delays = DefaultDelays
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return waiter.New(delays, timeout, d.waitOpts...)
}

func (d *StackDeployer) confirm(skip bool, message string) (bool, error) {
	if skip {
		return true, nil
	}
	ok, err := d.prompter.Confirm(message)
	if err != nil {
		return false, fmt.Errorf("failed to get user confirmation: %w", err)
	}
	return ok, nil
}

// regionOf prefers the configured region and falls back to the one in an ARN
func (d *StackDeployer) regionOf(arn string) string {
	if d.region != "" {
		return d.region
	}
	return console.RegionFromARN(arn)
}

func (d *StackDeployer) stackURL(stackID string) string {
	return console.StackURL(d.regionOf(stackID), stackID)
}

func (d *StackDeployer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(d.out, format, args...)
}
