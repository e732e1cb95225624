/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/google/uuid"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/opt"
)

// ErrAlreadyExists is returned when creating a stack or stack set that exists
var ErrAlreadyExists = errors.New("already exists")

// UpdateOutcome distinguishes a started update from one with nothing to do
type UpdateOutcome int

const (
	UpdateStarted UpdateOutcome = iota
	UpdateNoChanges
)

func (o UpdateOutcome) String() string {
	if o == UpdateNoChanges {
		return "no changes"
	}
	return "started"
}

// ChangeSetType selects whether a change set creates or updates its stack
type ChangeSetType string

const (
	ChangeSetTypeCreate ChangeSetType = "CREATE"
	ChangeSetTypeUpdate ChangeSetType = "UPDATE"
)

// TemplateSource holds either an inline body or an S3 URL
type TemplateSource struct {
	Body opt.Value[string]
	URL  opt.Value[string]
}

// IsSet reports whether a body or URL was given
func (t TemplateSource) IsSet() bool {
	return t.Body.IsSet() || t.URL.IsSet()
}

// StackRequest holds the fields shared by create, update and change set calls
type StackRequest struct {
	StackName        string
	Template         TemplateSource
	Parameters       []model.Parameter
	Tags             map[string]string
	Capabilities     []string
	RoleARN          opt.Value[string]
	NotificationARNs []string
}

// CreateStackInput contains parameters for creating a stack
type CreateStackInput struct {
	StackRequest
	StackPolicy                 TemplateSource
	EnableTerminationProtection opt.Value[bool]
	DisableRollback             opt.Value[bool]
	OnFailure                   opt.Value[string]
	TimeoutInMinutes            opt.Value[int32]
	ClientRequestToken          opt.Value[string]
}

// UpdateStackInput contains parameters for updating a stack
type UpdateStackInput struct {
	StackRequest
	StackPolicy                 TemplateSource
	EnableTerminationProtection opt.Value[bool]
	DisableRollback             opt.Value[bool]
	ClientRequestToken          opt.Value[string]
}

// DeleteStackInput contains parameters for deleting a stack
type DeleteStackInput struct {
	StackName          string
	RoleARN            opt.Value[string]
	RetainResources    []string
	ClientRequestToken opt.Value[string]
}

// CreateChangeSetInput contains parameters for creating a change set
type CreateChangeSetInput struct {
	StackRequest
	ChangeSetName       string
	ChangeSetType       ChangeSetType
	Description         opt.Value[string]
	IncludeNestedStacks bool
	OnStackFailure      opt.Value[string]
	ClientToken         opt.Value[string]
}

// ExecuteChangeSetInput contains parameters for executing a change set
type ExecuteChangeSetInput struct {
	ChangeSetID     string
	DisableRollback opt.Value[bool]
}

// CreateChangeSetOutput identifies a newly created change set
type CreateChangeSetOutput struct {
	ChangeSetID string
	StackID     string
}

// DefaultCloudFormationOperations provides CloudFormation-specific operations
type DefaultCloudFormationOperations struct {
	client   CloudFormationClient
	newToken func() string
}

// NewCloudFormationOperationsWithClient creates operations with a custom client (for testing)
func NewCloudFormationOperationsWithClient(client CloudFormationClient) *DefaultCloudFormationOperations {
	return &DefaultCloudFormationOperations{
		client:   client,
		newToken: uuid.NewString,
	}
}

func (cf *DefaultCloudFormationOperations) token(explicit opt.Value[string]) *string {
	return aws.String(explicit.OrElse(cf.newToken()))
}

// DescribeStack returns the named stack, or nil when it does not exist
func (cf *DefaultCloudFormationOperations) DescribeStack(ctx context.Context, stackName string) (*model.Stack, error) {
	result, err := cf.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}

	if len(result.Stacks) == 0 {
		return nil, nil
	}

	stack, err := model.StackFromSDK(result.Stacks[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse stack %s: %w", stackName, err)
	}
	return stack, nil
}

// CreateStack creates a new CloudFormation stack and returns its ID
func (cf *DefaultCloudFormationOperations) CreateStack(ctx context.Context, input CreateStackInput) (string, error) {
	params, err := model.ParametersToSDK(input.Parameters)
	if err != nil {
		return "", fmt.Errorf("invalid parameters for stack %s: %w", input.StackName, err)
	}

	req := &cloudformation.CreateStackInput{
		StackName:                   aws.String(input.StackName),
		TemplateBody:                input.Template.Body.Ptr(),
		TemplateURL:                 input.Template.URL.Ptr(),
		Parameters:                  params,
		Tags:                        tagsToSDK(input.Tags),
		Capabilities:                capabilitiesToSDK(input.Capabilities),
		RoleARN:                     input.RoleARN.Ptr(),
		NotificationARNs:            input.NotificationARNs,
		StackPolicyBody:             input.StackPolicy.Body.Ptr(),
		StackPolicyURL:              input.StackPolicy.URL.Ptr(),
		EnableTerminationProtection: input.EnableTerminationProtection.Ptr(),
		DisableRollback:             input.DisableRollback.Ptr(),
		TimeoutInMinutes:            input.TimeoutInMinutes.Ptr(),
		ClientRequestToken:          cf.token(input.ClientRequestToken),
	}
	if onFailure, ok := input.OnFailure.Get(); ok {
		req.OnFailure = types.OnFailure(onFailure)
	}

	out, err := cf.client.CreateStack(ctx, req)
	if err != nil {
		if isAlreadyExistsError(err) {
			return "", fmt.Errorf("failed to create stack %s: %w: %w", input.StackName, ErrAlreadyExists, err)
		}
		return "", fmt.Errorf("failed to create stack %s: %w", input.StackName, err)
	}

	return aws.ToString(out.StackId), nil
}

// UpdateStack updates an existing stack. A request that would change nothing
// yields UpdateNoChanges rather than an error.
func (cf *DefaultCloudFormationOperations) UpdateStack(ctx context.Context, input UpdateStackInput) (UpdateOutcome, error) {
	params, err := model.ParametersToSDK(input.Parameters)
	if err != nil {
		return UpdateStarted, fmt.Errorf("invalid parameters for stack %s: %w", input.StackName, err)
	}

	if enable, ok := input.EnableTerminationProtection.Get(); ok {
		if err := cf.UpdateTerminationProtection(ctx, input.StackName, enable); err != nil {
			return UpdateStarted, err
		}
	}

	_, err = cf.client.UpdateStack(ctx, &cloudformation.UpdateStackInput{
		StackName:          aws.String(input.StackName),
		TemplateBody:       input.Template.Body.Ptr(),
		TemplateURL:        input.Template.URL.Ptr(),
		Parameters:         params,
		Tags:               tagsToSDK(input.Tags),
		Capabilities:       capabilitiesToSDK(input.Capabilities),
		RoleARN:            input.RoleARN.Ptr(),
		NotificationARNs:   input.NotificationARNs,
		StackPolicyBody:    input.StackPolicy.Body.Ptr(),
		StackPolicyURL:     input.StackPolicy.URL.Ptr(),
		DisableRollback:    input.DisableRollback.Ptr(),
		ClientRequestToken: cf.token(input.ClientRequestToken),
	})
	if err != nil {
		if isNoUpdatesError(err) {
			return UpdateNoChanges, nil
		}
		return UpdateStarted, fmt.Errorf("failed to update stack %s: %w", input.StackName, err)
	}

	return UpdateStarted, nil
}

// UpdateTerminationProtection turns termination protection on or off
func (cf *DefaultCloudFormationOperations) UpdateTerminationProtection(ctx context.Context, stackName string, enabled bool) error {
	_, err := cf.client.UpdateTerminationProtection(ctx, &cloudformation.UpdateTerminationProtectionInput{
		StackName:                   aws.String(stackName),
		EnableTerminationProtection: aws.Bool(enabled),
	})
	if err != nil {
		return fmt.Errorf("failed to update termination protection for stack %s: %w", stackName, err)
	}
	return nil
}

// SetStackPolicy replaces the stack policy of an existing stack
func (cf *DefaultCloudFormationOperations) SetStackPolicy(ctx context.Context, stackName string, policy TemplateSource) error {
	_, err := cf.client.SetStackPolicy(ctx, &cloudformation.SetStackPolicyInput{
		StackName:       aws.String(stackName),
		StackPolicyBody: policy.Body.Ptr(),
		StackPolicyURL:  policy.URL.Ptr(),
	})
	if err != nil {
		return fmt.Errorf("failed to set stack policy for stack %s: %w", stackName, err)
	}
	return nil
}

// DeleteStack deletes a CloudFormation stack
func (cf *DefaultCloudFormationOperations) DeleteStack(ctx context.Context, input DeleteStackInput) error {
	_, err := cf.client.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName:          aws.String(input.StackName),
		RoleARN:            input.RoleARN.Ptr(),
		RetainResources:    input.RetainResources,
		ClientRequestToken: cf.token(input.ClientRequestToken),
	})

	if err != nil {
		return fmt.Errorf("failed to delete stack %s: %w", input.StackName, err)
	}

	return nil
}

// ValidateTemplate validates a CloudFormation template
func (cf *DefaultCloudFormationOperations) ValidateTemplate(ctx context.Context, template TemplateSource) error {
	_, err := cf.client.ValidateTemplate(ctx, &cloudformation.ValidateTemplateInput{
		TemplateBody: template.Body.Ptr(),
		TemplateURL:  template.URL.Ptr(),
	})

	if err != nil {
		return fmt.Errorf("template validation failed: %w", err)
	}

	return nil
}

// CreateChangeSet creates a CloudFormation change set
func (cf *DefaultCloudFormationOperations) CreateChangeSet(ctx context.Context, input CreateChangeSetInput) (*CreateChangeSetOutput, error) {
	params, err := model.ParametersToSDK(input.Parameters)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters for stack %s: %w", input.StackName, err)
	}

	changeSetType := input.ChangeSetType
	if changeSetType == "" {
		changeSetType = ChangeSetTypeUpdate
	}

	req := &cloudformation.CreateChangeSetInput{
		StackName:           aws.String(input.StackName),
		ChangeSetName:       aws.String(input.ChangeSetName),
		ChangeSetType:       types.ChangeSetType(changeSetType),
		TemplateBody:        input.Template.Body.Ptr(),
		TemplateURL:         input.Template.URL.Ptr(),
		Parameters:          params,
		Tags:                tagsToSDK(input.Tags),
		Capabilities:        capabilitiesToSDK(input.Capabilities),
		RoleARN:             input.RoleARN.Ptr(),
		NotificationARNs:    input.NotificationARNs,
		Description:         input.Description.Ptr(),
		IncludeNestedStacks: aws.Bool(input.IncludeNestedStacks),
		ClientToken:         cf.token(input.ClientToken),
	}
	if onFailure, ok := input.OnStackFailure.Get(); ok {
		req.OnStackFailure = types.OnStackFailure(onFailure)
	}

	out, err := cf.client.CreateChangeSet(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create change set %s for stack %s: %w", input.ChangeSetName, input.StackName, err)
	}

	return &CreateChangeSetOutput{
		ChangeSetID: aws.ToString(out.Id),
		StackID:     aws.ToString(out.StackId),
	}, nil
}

// DescribeChangeSet fetches a single page of a change set
func (cf *DefaultCloudFormationOperations) DescribeChangeSet(ctx context.Context, changeSetID string, nextToken opt.Value[string]) (*model.ChangeSet, error) {
	out, err := cf.client.DescribeChangeSet(ctx, &cloudformation.DescribeChangeSetInput{
		ChangeSetName: aws.String(changeSetID),
		NextToken:     nextToken.Ptr(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe change set %s: %w", changeSetID, err)
	}

	cs, err := model.ChangeSetFromSDK(out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse change set %s: %w", changeSetID, err)
	}
	return cs, nil
}

// DescribeChangeSetAll fetches a change set and every remaining page of changes
func (cf *DefaultCloudFormationOperations) DescribeChangeSetAll(ctx context.Context, changeSetID string) (*model.ChangeSet, error) {
	first, err := cf.DescribeChangeSet(ctx, changeSetID, opt.None[string]())
	if err != nil {
		return nil, err
	}
	return CollectChangeSetPages(ctx, cf, first)
}

// CollectChangeSetPages follows the continuation token of an already fetched
// page until the change set is complete
func CollectChangeSetPages(ctx context.Context, describer ChangeSetPageDescriber, cs *model.ChangeSet) (*model.ChangeSet, error) {
	for cs.HasMorePages() {
		token, _ := cs.NextToken.Get()
		page, err := describer.DescribeChangeSet(ctx, cs.ID, opt.Some(token))
		if err != nil {
			return nil, err
		}
		cs = cs.AppendPage(page)
	}
	return cs, nil
}

// ExecuteChangeSet starts execution of a change set
func (cf *DefaultCloudFormationOperations) ExecuteChangeSet(ctx context.Context, input ExecuteChangeSetInput) error {
	_, err := cf.client.ExecuteChangeSet(ctx, &cloudformation.ExecuteChangeSetInput{
		ChangeSetName:      aws.String(input.ChangeSetID),
		DisableRollback:    input.DisableRollback.Ptr(),
		ClientRequestToken: cf.token(opt.None[string]()),
	})
	if err != nil {
		return fmt.Errorf("failed to execute change set %s: %w", input.ChangeSetID, err)
	}
	return nil
}

// DeleteChangeSet deletes a change set
func (cf *DefaultCloudFormationOperations) DeleteChangeSet(ctx context.Context, changeSetID string) error {
	_, err := cf.client.DeleteChangeSet(ctx, &cloudformation.DeleteChangeSetInput{
		ChangeSetName: aws.String(changeSetID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete change set %s: %w", changeSetID, err)
	}
	return nil
}

// tagsToSDK converts tags in key order so requests are reproducible
func tagsToSDK(tags map[string]string) []types.Tag {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Tag{
			Key:   aws.String(k),
			Value: aws.String(tags[k]),
		})
	}
	return out
}

func capabilitiesToSDK(capabilities []string) []types.Capability {
	if len(capabilities) == 0 {
		return nil
	}
	out := make([]types.Capability, len(capabilities))
	for i, c := range capabilities {
		out[i] = types.Capability(c)
	}
	return out
}
