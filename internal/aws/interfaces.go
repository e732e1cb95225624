/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/opt"
	"github.com/orien/stackpilot/internal/status"
)

// CloudFormationClient defines the interface for CloudFormation client operations
// This allows for easier testing with mock implementations
type CloudFormationClient interface {
	CreateStack(ctx context.Context, params *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	UpdateStack(ctx context.Context, params *cloudformation.UpdateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error)
	DeleteStack(ctx context.Context, params *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	UpdateTerminationProtection(ctx context.Context, params *cloudformation.UpdateTerminationProtectionInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateTerminationProtectionOutput, error)
	SetStackPolicy(ctx context.Context, params *cloudformation.SetStackPolicyInput, optFns ...func(*cloudformation.Options)) (*cloudformation.SetStackPolicyOutput, error)
	ValidateTemplate(ctx context.Context, params *cloudformation.ValidateTemplateInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ValidateTemplateOutput, error)
	CreateChangeSet(ctx context.Context, params *cloudformation.CreateChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateChangeSetOutput, error)
	DescribeChangeSet(ctx context.Context, params *cloudformation.DescribeChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeChangeSetOutput, error)
	ExecuteChangeSet(ctx context.Context, params *cloudformation.ExecuteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ExecuteChangeSetOutput, error)
	DeleteChangeSet(ctx context.Context, params *cloudformation.DeleteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteChangeSetOutput, error)
	DescribeStackSet(ctx context.Context, params *cloudformation.DescribeStackSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackSetOutput, error)
	CreateStackSet(ctx context.Context, params *cloudformation.CreateStackSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackSetOutput, error)
	UpdateStackSet(ctx context.Context, params *cloudformation.UpdateStackSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackSetOutput, error)
	DeleteStackSet(ctx context.Context, params *cloudformation.DeleteStackSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackSetOutput, error)
	CreateStackInstances(ctx context.Context, params *cloudformation.CreateStackInstancesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackInstancesOutput, error)
	UpdateStackInstances(ctx context.Context, params *cloudformation.UpdateStackInstancesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackInstancesOutput, error)
	DeleteStackInstances(ctx context.Context, params *cloudformation.DeleteStackInstancesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackInstancesOutput, error)
	ListStackInstances(ctx context.Context, params *cloudformation.ListStackInstancesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStackInstancesOutput, error)
	DescribeStackInstance(ctx context.Context, params *cloudformation.DescribeStackInstanceInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackInstanceOutput, error)
	DescribeStackSetOperation(ctx context.Context, params *cloudformation.DescribeStackSetOperationInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackSetOperationOutput, error)
}

// S3Client captures the subset of the S3 API used to stage large artifacts
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Ensure that the actual SDK clients implement our interfaces
var (
	_ CloudFormationClient = (*cloudformation.Client)(nil)
	_ S3Client             = (*s3.Client)(nil)
)

// Ensure that DefaultCloudFormationOperations implements CloudFormationOperations
var _ CloudFormationOperations = (*DefaultCloudFormationOperations)(nil)

// Ensure that DefaultClientFactory implements ClientFactory
var _ ClientFactory = (*DefaultClientFactory)(nil)

// ChangeSetPageDescriber fetches a single page of a change set
type ChangeSetPageDescriber interface {
	DescribeChangeSet(ctx context.Context, changeSetID string, nextToken opt.Value[string]) (*model.ChangeSet, error)
}

// ChangeSetDescriber fetches a change set with all of its pages
type ChangeSetDescriber interface {
	DescribeChangeSetAll(ctx context.Context, changeSetID string) (*model.ChangeSet, error)
}

// StackOperations covers the single-stack lifecycle
type StackOperations interface {
	DescribeStack(ctx context.Context, stackName string) (*model.Stack, error)
	CreateStack(ctx context.Context, input CreateStackInput) (string, error)
	UpdateStack(ctx context.Context, input UpdateStackInput) (UpdateOutcome, error)
	DeleteStack(ctx context.Context, input DeleteStackInput) error
	UpdateTerminationProtection(ctx context.Context, stackName string, enabled bool) error
	SetStackPolicy(ctx context.Context, stackName string, policy TemplateSource) error
	ValidateTemplate(ctx context.Context, template TemplateSource) error
	CreateChangeSet(ctx context.Context, input CreateChangeSetInput) (*CreateChangeSetOutput, error)
	ExecuteChangeSet(ctx context.Context, input ExecuteChangeSetInput) error
	DeleteChangeSet(ctx context.Context, changeSetID string) error
	ChangeSetPageDescriber
	ChangeSetDescriber
}

// StackSetOperations covers stack sets and their instances
type StackSetOperations interface {
	DescribeStackSet(ctx context.Context, stackSetName string) (*model.StackSet, error)
	CreateStackSet(ctx context.Context, input StackSetInput) (string, error)
	UpdateStackSet(ctx context.Context, input StackSetInput) (string, error)
	DeleteStackSet(ctx context.Context, stackSetName string) error
	CreateStackInstances(ctx context.Context, input StackInstancesInput) (string, error)
	UpdateStackInstances(ctx context.Context, input StackInstancesInput) (string, error)
	DeleteStackInstances(ctx context.Context, input StackInstancesInput, retainStacks bool) (string, error)
	ListStackInstances(ctx context.Context, stackSetName string) ([]*model.StackInstance, error)
	DescribeStackInstance(ctx context.Context, stackSetName, account, region string) (*model.StackInstance, error)
	DescribeStackSetOperation(ctx context.Context, stackSetName, operationID string) (status.StackSetOperationStatus, error)
}

// CloudFormationOperations defines the interface for CloudFormation operations
type CloudFormationOperations interface {
	StackOperations
	StackSetOperations
}

// ArtifactUploader stages template and policy bodies that are too large to
// send inline
type ArtifactUploader interface {
	Upload(ctx context.Context, kind ArtifactKind, body string) (string, error)
}
