/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRemoveStack_NotExist(t *testing.T) {
	td := newTestDeployer()
	td.ops.On("DescribeStack", mock.Anything, "app").Return(nil, nil)

	result, err := td.RemoveStack(context.Background(), RemoveStackInput{StackName: "app", SkipPrompt: true})

	assert.Nil(t, result)
	var notExist *StackNotExistError
	require.ErrorAs(t, err, &notExist)
	td.ops.AssertNotCalled(t, "DeleteStack", mock.Anything, mock.Anything)
}

func TestRemoveStack_IgnoreNotExist(t *testing.T) {
	td := newTestDeployer()
	td.ops.On("DescribeStack", mock.Anything, "app").Return(testStack(types.StackStatusDeleteComplete), nil)

	result, err := td.RemoveStack(context.Background(), RemoveStackInput{StackName: "app", IgnoreNotExist: true})

	require.NoError(t, err)
	assert.False(t, result.IsDeleteHappened)
	td.ops.AssertNotCalled(t, "DeleteStack", mock.Anything, mock.Anything)
}

func TestRemoveStack_Declined(t *testing.T) {
	td := newTestDeployer()
	td.ops.On("DescribeStack", mock.Anything, "app").Return(testStack(types.StackStatusCreateComplete), nil)
	td.prompter.On("Confirm", "Do you want to delete stack app? This cannot be undone.").Return(false, nil)

	result, err := td.RemoveStack(context.Background(), RemoveStackInput{StackName: "app"})

	require.NoError(t, err)
	assert.False(t, result.IsDeleteHappened)
	td.ops.AssertNotCalled(t, "DeleteStack", mock.Anything, mock.Anything)
	td.prompter.AssertExpectations(t)
}

func TestRemoveStack_WaitUntilGone(t *testing.T) {
	td := newTestDeployer()
	td.ops.On("DescribeStack", mock.Anything, "app").Return(testStack(types.StackStatusCreateComplete), nil)
	td.ops.On("DeleteStack", mock.Anything, aws.DeleteStackInput{StackName: testStackID}).Return(nil)
	td.ops.On("DescribeStack", mock.Anything, testStackID).Return(testStack(types.StackStatusDeleteInProgress), nil).Once()
	td.ops.On("DescribeStack", mock.Anything, testStackID).Return(nil, nil).Once()

	result, err := td.RemoveStack(context.Background(), RemoveStackInput{StackName: "app", SkipPrompt: true, Wait: true})

	require.NoError(t, err)
	assert.True(t, result.IsDeleteHappened)
	assert.Equal(t, 1, td.clock.Sleeps())
	td.ops.AssertExpectations(t)
}

func TestRemoveStack_WaitUntilDeleteComplete(t *testing.T) {
	td := newTestDeployer()
	td.ops.On("DescribeStack", mock.Anything, "app").Return(testStack(types.StackStatusUpdateComplete), nil)
	td.ops.On("DeleteStack", mock.Anything, mock.Anything).Return(nil)
	td.ops.On("DescribeStack", mock.Anything, testStackID).Return(testStack(types.StackStatusDeleteComplete), nil)

	result, err := td.RemoveStack(context.Background(), RemoveStackInput{StackName: "app", SkipPrompt: true, Wait: true})

	require.NoError(t, err)
	assert.True(t, result.IsDeleteHappened)
	assert.Equal(t, 0, td.clock.Sleeps())
}

func TestRemoveStack_DeleteFailed(t *testing.T) {
	td := newTestDeployer()
	td.ops.On("DescribeStack", mock.Anything, "app").Return(testStack(types.StackStatusUpdateComplete), nil)
	td.ops.On("DeleteStack", mock.Anything, mock.Anything).Return(nil)
	td.ops.On("DescribeStack", mock.Anything, testStackID).Return(testStack(types.StackStatusDeleteFailed), nil)

	_, err := td.RemoveStack(context.Background(), RemoveStackInput{StackName: "app", SkipPrompt: true, Wait: true})

	var failed *DeleteStackFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "app", failed.StackName)
	assert.Contains(t, failed.Error(), "DELETE_FAILED")
}
