/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package describe fetches deployed stacks and formats them for the terminal.
package describe

import (
	"context"
	"fmt"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/console"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/status"
)

// StackDescriber implements the Describer interface using AWS CloudFormation operations
type StackDescriber struct {
	clientFactory aws.ClientFactory
}

// NewStackDescriber creates a new describer with the provided client factory
func NewStackDescriber(clientFactory aws.ClientFactory) *StackDescriber {
	return &StackDescriber{clientFactory: clientFactory}
}

// DescribeStack fetches a stack. A stack that does not exist is an error.
func (d *StackDescriber) DescribeStack(ctx context.Context, region, stackName string) (*StackDescription, error) {
	ops, err := d.clientFactory.GetCloudFormationOperations(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("failed to get CloudFormation operations for region %s: %w", region, err)
	}

	stack, err := ops.DescribeStack(ctx, stackName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}
	if stack == nil {
		return nil, fmt.Errorf("stack %s does not exist", stackName)
	}

	if r := console.RegionFromARN(stack.ID); r != "" {
		region = r
	}

	desc := &StackDescription{
		Name:                  stack.Name,
		StackID:               stack.ID,
		Status:                string(stack.Status),
		StatusReason:          stack.StatusReason,
		CreatedTime:           stack.CreationTime,
		UpdatedTime:           stack.LastUpdatedTime,
		Description:           stack.Description,
		TerminationProtection: stack.EnableTerminationProtection,
		DriftStatus:           stack.DriftStatus,
		Parameters:            make(map[string]string, len(stack.Params)),
		Outputs:               make(map[string]string, len(stack.Outputs)),
		Tags:                  stack.Tags,
		Region:                region,
		ConsoleURL:            console.StackURL(region, stack.ID),
	}
	for key, p := range stack.Params {
		desc.Parameters[key] = parameterDisplay(p)
	}
	for key, o := range stack.Outputs {
		desc.Outputs[key] = o.Value
	}
	return desc, nil
}

// DescribeStackSet fetches a stack set with its instances
func (d *StackDescriber) DescribeStackSet(ctx context.Context, region, stackSetName string) (*StackSetDescription, error) {
	ops, err := d.clientFactory.GetCloudFormationOperations(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("failed to get CloudFormation operations for region %s: %w", region, err)
	}

	set, err := ops.DescribeStackSet(ctx, stackSetName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe stack set %s: %w", stackSetName, err)
	}
	if set == nil {
		return nil, fmt.Errorf("stack set %s does not exist", stackSetName)
	}

	instances, err := ops.ListStackInstances(ctx, stackSetName)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances of stack set %s: %w", stackSetName, err)
	}

	// summaries can truncate the reason an instance is out of date
	for i, inst := range instances {
		if inst.Status == status.InstanceCurrent {
			continue
		}
		detailed, err := ops.DescribeStackInstance(ctx, stackSetName, inst.Account, inst.Region)
		if err != nil {
			return nil, err
		}
		if detailed != nil {
			instances[i] = detailed
		}
	}

	desc := &StackSetDescription{
		Name:            set.Name,
		Status:          string(set.Status),
		Description:     set.Description,
		PermissionModel: set.PermissionModel,
		Parameters:      make(map[string]string, len(set.Params)),
		Tags:            set.Tags,
		Instances:       instances,
		Region:          region,
		ConsoleURL:      console.StackSetURL(region, set.Name),
	}
	for key, p := range set.Params {
		desc.Parameters[key] = parameterDisplay(p)
	}
	return desc, nil
}

// parameterDisplay shows the SSM-resolved value next to the parameter path
func parameterDisplay(p model.Parameter) string {
	value := p.Value.OrElse("")
	if p.ResolvedValue != "" {
		return fmt.Sprintf("%s (%s)", value, p.ResolvedValue)
	}
	return value
}

var _ Describer = (*StackDescriber)(nil)
