/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"errors"
	"time"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/console"
	"github.com/orien/stackpilot/internal/logging"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/opt"
	"github.com/orien/stackpilot/internal/status"
)

// RemoveStackInput describes a stack deletion
type RemoveStackInput struct {
	StackName       string
	RoleARN         opt.Value[string]
	RetainResources []string
	IgnoreNotExist  bool
	SkipPrompt      bool
	Wait            bool
	Delays          time.Duration
	Timeout         time.Duration
}

// RemoveStackResult reports what a deletion did
type RemoveStackResult struct {
	IsDeleteHappened bool
	Stack            *model.Stack
}

// RemoveStack deletes a stack after confirmation
func (d *StackDeployer) RemoveStack(ctx context.Context, input RemoveStackInput) (*RemoveStackResult, error) {
	if input.StackName == "" {
		return nil, errors.New("stack name is required")
	}
	log := logging.FromContext(ctx)

	stack, err := d.ops.DescribeStack(ctx, input.StackName)
	if err != nil {
		return nil, err
	}
	if stack == nil || !stack.Status.IsLive() {
		if input.IgnoreNotExist {
			log.Info().Str("stack", input.StackName).Msg("Stack does not exist, skipping deletion")
			return &RemoveStackResult{}, nil
		}
		return nil, &StackNotExistError{StackName: input.StackName, URL: d.stackURL(input.StackName)}
	}

	d.printf("Stack %s is %s\n", stack.Name, stack.Status)
	ok, err := d.confirm(input.SkipPrompt, "Do you want to delete stack "+stack.Name+"? This cannot be undone.")
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Info().Str("stack", stack.Name).Msg("Deletion cancelled")
		return &RemoveStackResult{Stack: stack}, nil
	}

	if err := d.ops.DeleteStack(ctx, aws.DeleteStackInput{
		StackName:       stack.ID,
		RoleARN:         input.RoleARN,
		RetainResources: input.RetainResources,
	}); err != nil {
		return nil, err
	}
	result := &RemoveStackResult{IsDeleteHappened: true, Stack: stack}

	if !input.Wait {
		return result, nil
	}

	w := d.newWaiter(input.Delays, input.Timeout)
	err = w.Wait(ctx, func(attempt int) (bool, error) {
		current, err := d.ops.DescribeStack(ctx, stack.ID)
		if err != nil {
			return false, err
		}
		if current == nil {
			return true, nil
		}
		result.Stack = current
		log.Debug().Str("stack", current.Name).Stringer("status", current.Status).Int("attempt", attempt).Msg("Polled stack")

		switch current.Status {
		case status.StackDeleteComplete:
			return true, nil
		case status.StackDeleteFailed:
			return false, &DeleteStackFailedError{
				StackName: current.Name,
				Status:    current.Status,
				Reason:    current.StatusReason,
				URL:       console.StackEventsURL(d.regionOf(current.ID), current.ID),
			}
		}
		return false, nil
	})
	if err != nil {
		return result, err
	}

	log.Info().Str("stack", stack.Name).Msg("Stack deleted")
	return result, nil
}
