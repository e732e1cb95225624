/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/opt"
	"github.com/orien/stackpilot/internal/status"
)

// StackSetInput contains parameters for creating or updating a stack set
type StackSetInput struct {
	StackSetName          string
	Description           opt.Value[string]
	Template              TemplateSource
	Parameters            []model.Parameter
	Tags                  map[string]string
	Capabilities          []string
	PermissionModel       opt.Value[string]
	AdministrationRoleARN opt.Value[string]
	ExecutionRoleName     opt.Value[string]
	Preferences           OperationPreferences
}

// OperationPreferences tunes how a stack set operation fans out
type OperationPreferences struct {
	MaxConcurrentCount    opt.Value[int32]
	FailureToleranceCount opt.Value[int32]
	RegionConcurrency     opt.Value[string]
}

// StackInstancesInput addresses stack instances by account and region
type StackInstancesInput struct {
	StackSetName string
	Accounts     []string
	Regions      []string
	Parameters   []model.Parameter
	Preferences  OperationPreferences
}

func (p OperationPreferences) toSDK() *types.StackSetOperationPreferences {
	if !p.MaxConcurrentCount.IsSet() && !p.FailureToleranceCount.IsSet() && !p.RegionConcurrency.IsSet() {
		return nil
	}
	out := &types.StackSetOperationPreferences{
		MaxConcurrentCount:    p.MaxConcurrentCount.Ptr(),
		FailureToleranceCount: p.FailureToleranceCount.Ptr(),
	}
	if rc, ok := p.RegionConcurrency.Get(); ok {
		out.RegionConcurrencyType = types.RegionConcurrencyType(rc)
	}
	return out
}

// DescribeStackSet returns the named stack set, or nil when it does not exist
func (cf *DefaultCloudFormationOperations) DescribeStackSet(ctx context.Context, stackSetName string) (*model.StackSet, error) {
	out, err := cf.client.DescribeStackSet(ctx, &cloudformation.DescribeStackSetInput{
		StackSetName: aws.String(stackSetName),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe stack set %s: %w", stackSetName, err)
	}
	if out.StackSet == nil {
		return nil, nil
	}

	stackSet, err := model.StackSetFromSDK(out.StackSet)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stack set %s: %w", stackSetName, err)
	}
	return stackSet, nil
}

// CreateStackSet creates a stack set and returns its ID
func (cf *DefaultCloudFormationOperations) CreateStackSet(ctx context.Context, input StackSetInput) (string, error) {
	params, err := model.ParametersToSDK(input.Parameters)
	if err != nil {
		return "", fmt.Errorf("invalid parameters for stack set %s: %w", input.StackSetName, err)
	}

	req := &cloudformation.CreateStackSetInput{
		StackSetName:          aws.String(input.StackSetName),
		Description:           input.Description.Ptr(),
		TemplateBody:          input.Template.Body.Ptr(),
		TemplateURL:           input.Template.URL.Ptr(),
		Parameters:            params,
		Tags:                  tagsToSDK(input.Tags),
		Capabilities:          capabilitiesToSDK(input.Capabilities),
		AdministrationRoleARN: input.AdministrationRoleARN.Ptr(),
		ExecutionRoleName:     input.ExecutionRoleName.Ptr(),
		ClientRequestToken:    cf.token(opt.None[string]()),
	}
	if pm, ok := input.PermissionModel.Get(); ok {
		req.PermissionModel = types.PermissionModels(pm)
	}

	out, err := cf.client.CreateStackSet(ctx, req)
	if err != nil {
		if isAlreadyExistsError(err) {
			return "", fmt.Errorf("failed to create stack set %s: %w: %w", input.StackSetName, ErrAlreadyExists, err)
		}
		return "", fmt.Errorf("failed to create stack set %s: %w", input.StackSetName, err)
	}
	return aws.ToString(out.StackSetId), nil
}

// UpdateStackSet updates a stack set and every instance it owns, returning the
// operation ID
func (cf *DefaultCloudFormationOperations) UpdateStackSet(ctx context.Context, input StackSetInput) (string, error) {
	params, err := model.ParametersToSDK(input.Parameters)
	if err != nil {
		return "", fmt.Errorf("invalid parameters for stack set %s: %w", input.StackSetName, err)
	}

	req := &cloudformation.UpdateStackSetInput{
		StackSetName:          aws.String(input.StackSetName),
		Description:           input.Description.Ptr(),
		TemplateBody:          input.Template.Body.Ptr(),
		TemplateURL:           input.Template.URL.Ptr(),
		Parameters:            params,
		Tags:                  tagsToSDK(input.Tags),
		Capabilities:          capabilitiesToSDK(input.Capabilities),
		AdministrationRoleARN: input.AdministrationRoleARN.Ptr(),
		ExecutionRoleName:     input.ExecutionRoleName.Ptr(),
		OperationPreferences:  input.Preferences.toSDK(),
		OperationId:           aws.String(cf.newToken()),
	}
	if pm, ok := input.PermissionModel.Get(); ok {
		req.PermissionModel = types.PermissionModels(pm)
	}

	out, err := cf.client.UpdateStackSet(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to update stack set %s: %w", input.StackSetName, err)
	}
	return aws.ToString(out.OperationId), nil
}

// DeleteStackSet deletes an empty stack set
func (cf *DefaultCloudFormationOperations) DeleteStackSet(ctx context.Context, stackSetName string) error {
	_, err := cf.client.DeleteStackSet(ctx, &cloudformation.DeleteStackSetInput{
		StackSetName: aws.String(stackSetName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete stack set %s: %w", stackSetName, err)
	}
	return nil
}

// CreateStackInstances adds instances to a stack set, returning the operation ID
func (cf *DefaultCloudFormationOperations) CreateStackInstances(ctx context.Context, input StackInstancesInput) (string, error) {
	params, err := model.ParametersToSDK(input.Parameters)
	if err != nil {
		return "", fmt.Errorf("invalid parameter overrides for stack set %s: %w", input.StackSetName, err)
	}

	out, err := cf.client.CreateStackInstances(ctx, &cloudformation.CreateStackInstancesInput{
		StackSetName:         aws.String(input.StackSetName),
		Accounts:             input.Accounts,
		Regions:              input.Regions,
		ParameterOverrides:   params,
		OperationPreferences: input.Preferences.toSDK(),
		OperationId:          aws.String(cf.newToken()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create stack instances for stack set %s: %w", input.StackSetName, err)
	}
	return aws.ToString(out.OperationId), nil
}

// UpdateStackInstances applies parameter overrides to existing instances
func (cf *DefaultCloudFormationOperations) UpdateStackInstances(ctx context.Context, input StackInstancesInput) (string, error) {
	params, err := model.ParametersToSDK(input.Parameters)
	if err != nil {
		return "", fmt.Errorf("invalid parameter overrides for stack set %s: %w", input.StackSetName, err)
	}

	out, err := cf.client.UpdateStackInstances(ctx, &cloudformation.UpdateStackInstancesInput{
		StackSetName:         aws.String(input.StackSetName),
		Accounts:             input.Accounts,
		Regions:              input.Regions,
		ParameterOverrides:   params,
		OperationPreferences: input.Preferences.toSDK(),
		OperationId:          aws.String(cf.newToken()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to update stack instances for stack set %s: %w", input.StackSetName, err)
	}
	return aws.ToString(out.OperationId), nil
}

// DeleteStackInstances removes instances from a stack set
func (cf *DefaultCloudFormationOperations) DeleteStackInstances(ctx context.Context, input StackInstancesInput, retainStacks bool) (string, error) {
	out, err := cf.client.DeleteStackInstances(ctx, &cloudformation.DeleteStackInstancesInput{
		StackSetName:         aws.String(input.StackSetName),
		Accounts:             input.Accounts,
		Regions:              input.Regions,
		RetainStacks:         aws.Bool(retainStacks),
		OperationPreferences: input.Preferences.toSDK(),
		OperationId:          aws.String(cf.newToken()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to delete stack instances for stack set %s: %w", input.StackSetName, err)
	}
	return aws.ToString(out.OperationId), nil
}

// ListStackInstances returns every instance of a stack set
func (cf *DefaultCloudFormationOperations) ListStackInstances(ctx context.Context, stackSetName string) ([]*model.StackInstance, error) {
	var instances []*model.StackInstance
	paginator := cloudformation.NewListStackInstancesPaginator(cf.client, &cloudformation.ListStackInstancesInput{
		StackSetName: aws.String(stackSetName),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list stack instances for stack set %s: %w", stackSetName, err)
		}

		for _, summary := range page.Summaries {
			instance, err := model.StackInstanceFromSummary(summary)
			if err != nil {
				return nil, fmt.Errorf("failed to parse stack instance of %s: %w", stackSetName, err)
			}
			instances = append(instances, instance)
		}
	}

	return instances, nil
}

// DescribeStackInstance returns one instance, or nil when it does not exist
func (cf *DefaultCloudFormationOperations) DescribeStackInstance(ctx context.Context, stackSetName, account, region string) (*model.StackInstance, error) {
	out, err := cf.client.DescribeStackInstance(ctx, &cloudformation.DescribeStackInstanceInput{
		StackSetName:         aws.String(stackSetName),
		StackInstanceAccount: aws.String(account),
		StackInstanceRegion:  aws.String(region),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe stack instance %s/%s of %s: %w", account, region, stackSetName, err)
	}
	if out.StackInstance == nil {
		return nil, nil
	}

	instance, err := model.StackInstanceFromSDK(out.StackInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stack instance %s/%s of %s: %w", account, region, stackSetName, err)
	}
	return instance, nil
}

// DescribeStackSetOperation returns the status of a stack set operation
func (cf *DefaultCloudFormationOperations) DescribeStackSetOperation(ctx context.Context, stackSetName, operationID string) (status.StackSetOperationStatus, error) {
	out, err := cf.client.DescribeStackSetOperation(ctx, &cloudformation.DescribeStackSetOperationInput{
		StackSetName: aws.String(stackSetName),
		OperationId:  aws.String(operationID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe operation %s of stack set %s: %w", operationID, stackSetName, err)
	}
	if out.StackSetOperation == nil {
		return "", fmt.Errorf("operation %s of stack set %s has no details", operationID, stackSetName)
	}

	st, err := status.ParseStackSetOperationStatus(string(out.StackSetOperation.Status))
	if err != nil {
		return "", fmt.Errorf("operation %s of stack set %s: %w", operationID, stackSetName, err)
	}
	return st, nil
}
