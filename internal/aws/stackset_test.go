/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/opt"
	"github.com/orien/stackpilot/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDescribeStackSet_NotFoundIsNil(t *testing.T) {
	ops, client := newTestOperations()
	client.On("DescribeStackSet", mock.Anything, mock.Anything).
		Return(nil, &types.StackSetNotFoundException{Message: aws.String("StackSet base not found")})

	stackSet, err := ops.DescribeStackSet(context.Background(), "base")

	require.NoError(t, err)
	assert.Nil(t, stackSet)
}

func TestDescribeStackSet_Found(t *testing.T) {
	ops, client := newTestOperations()
	client.On("DescribeStackSet", mock.Anything, &cloudformation.DescribeStackSetInput{StackSetName: aws.String("base")}).
		Return(&cloudformation.DescribeStackSetOutput{StackSet: &types.StackSet{
			StackSetId:   aws.String("base:1234"),
			StackSetName: aws.String("base"),
			Status:       types.StackSetStatusActive,
		}}, nil)

	stackSet, err := ops.DescribeStackSet(context.Background(), "base")

	require.NoError(t, err)
	require.NotNil(t, stackSet)
	assert.Equal(t, "base:1234", stackSet.ID)
	assert.True(t, stackSet.Status.IsLive())
}

func TestUpdateStackSet_ReturnsOperationID(t *testing.T) {
	ops, client := newTestOperations()
	client.On("UpdateStackSet", mock.Anything, mock.MatchedBy(func(in *cloudformation.UpdateStackSetInput) bool {
		return aws.ToString(in.OperationId) == "token-1" &&
			in.PermissionModel == types.PermissionModelsSelfManaged &&
			in.OperationPreferences != nil &&
			aws.ToInt32(in.OperationPreferences.MaxConcurrentCount) == 2 &&
			in.OperationPreferences.FailureToleranceCount == nil
	})).Return(&cloudformation.UpdateStackSetOutput{OperationId: aws.String("token-1")}, nil)

	id, err := ops.UpdateStackSet(context.Background(), StackSetInput{
		StackSetName:    "base",
		Template:        TemplateSource{Body: opt.Some("{}")},
		PermissionModel: opt.Some("SELF_MANAGED"),
		Preferences:     OperationPreferences{MaxConcurrentCount: opt.Some(int32(2))},
	})

	require.NoError(t, err)
	assert.Equal(t, "token-1", id)
	client.AssertExpectations(t)
}

func TestOperationPreferences_EmptyIsNil(t *testing.T) {
	assert.Nil(t, OperationPreferences{}.toSDK())
}

func TestCreateStackInstances(t *testing.T) {
	ops, client := newTestOperations()
	client.On("CreateStackInstances", mock.Anything, mock.MatchedBy(func(in *cloudformation.CreateStackInstancesInput) bool {
		return assert.ObjectsAreEqual([]string{"111111111111"}, in.Accounts) &&
			assert.ObjectsAreEqual([]string{"us-east-1", "eu-west-1"}, in.Regions)
	})).Return(&cloudformation.CreateStackInstancesOutput{OperationId: aws.String("op-1")}, nil)

	id, err := ops.CreateStackInstances(context.Background(), StackInstancesInput{
		StackSetName: "base",
		Accounts:     []string{"111111111111"},
		Regions:      []string{"us-east-1", "eu-west-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "op-1", id)
}

func TestDeleteStackInstances_RetainFlag(t *testing.T) {
	ops, client := newTestOperations()
	client.On("DeleteStackInstances", mock.Anything, mock.MatchedBy(func(in *cloudformation.DeleteStackInstancesInput) bool {
		return aws.ToBool(in.RetainStacks)
	})).Return(&cloudformation.DeleteStackInstancesOutput{OperationId: aws.String("op-2")}, nil)

	id, err := ops.DeleteStackInstances(context.Background(), StackInstancesInput{StackSetName: "base"}, true)

	require.NoError(t, err)
	assert.Equal(t, "op-2", id)
}

func TestListStackInstances_AllPages(t *testing.T) {
	ops, client := newTestOperations()
	client.On("ListStackInstances", mock.Anything, mock.MatchedBy(func(in *cloudformation.ListStackInstancesInput) bool {
		return in.NextToken == nil
	})).Return(&cloudformation.ListStackInstancesOutput{
		Summaries: []types.StackInstanceSummary{{
			StackSetId: aws.String("base:1"),
			Account:    aws.String("111111111111"),
			Region:     aws.String("us-east-1"),
			Status:     types.StackInstanceStatusCurrent,
			StackInstanceStatus: &types.StackInstanceComprehensiveStatus{
				DetailedStatus: types.StackInstanceDetailedStatusSucceeded,
			},
		}},
		NextToken: aws.String("more"),
	}, nil).Once()
	client.On("ListStackInstances", mock.Anything, mock.MatchedBy(func(in *cloudformation.ListStackInstancesInput) bool {
		return aws.ToString(in.NextToken) == "more"
	})).Return(&cloudformation.ListStackInstancesOutput{
		Summaries: []types.StackInstanceSummary{{
			StackSetId: aws.String("base:1"),
			Account:    aws.String("111111111111"),
			Region:     aws.String("eu-west-1"),
			Status:     types.StackInstanceStatusOutdated,
			StackInstanceStatus: &types.StackInstanceComprehensiveStatus{
				DetailedStatus: types.StackInstanceDetailedStatusRunning,
			},
		}},
	}, nil).Once()

	instances, err := ops.ListStackInstances(context.Background(), "base")

	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, status.LogicalSucceeded, instances[0].LogicalStatus())
	assert.Equal(t, status.LogicalInProgress, instances[1].LogicalStatus())
	client.AssertExpectations(t)
}

func TestDescribeStackInstance_NotFoundIsNil(t *testing.T) {
	ops, client := newTestOperations()
	client.On("DescribeStackInstance", mock.Anything, mock.Anything).
		Return(nil, &types.StackInstanceNotFoundException{Message: aws.String("not found")})

	instance, err := ops.DescribeStackInstance(context.Background(), "base", "111111111111", "us-east-1")

	require.NoError(t, err)
	assert.Nil(t, instance)
}

func TestDescribeStackSetOperation(t *testing.T) {
	ops, client := newTestOperations()
	client.On("DescribeStackSetOperation", mock.Anything, &cloudformation.DescribeStackSetOperationInput{
		StackSetName: aws.String("base"),
		OperationId:  aws.String("op-1"),
	}).Return(&cloudformation.DescribeStackSetOperationOutput{
		StackSetOperation: &types.StackSetOperation{Status: types.StackSetOperationStatusSucceeded},
	}, nil).Once()
	client.On("DescribeStackSetOperation", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

	st, err := ops.DescribeStackSetOperation(context.Background(), "base", "op-1")
	require.NoError(t, err)
	assert.True(t, st.IsSuccessful())

	_, err = ops.DescribeStackSetOperation(context.Background(), "base", "op-2")
	require.Error(t, err)
}
