/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackFromSDK_AllFields(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	raw := types.Stack{
		StackId:           aws.String("arn:aws:cloudformation:us-east-1:123456789012:stack/app/abc"),
		StackName:         aws.String("app"),
		StackStatus:       types.StackStatusUpdateComplete,
		StackStatusReason: aws.String("done"),
		ChangeSetId:       aws.String("arn:aws:cloudformation:us-east-1:123456789012:changeSet/cs/def"),
		Description:       aws.String("application stack"),
		CreationTime:      aws.Time(created),
		LastUpdatedTime:   aws.Time(updated),
		Outputs: []types.Output{
			{OutputKey: aws.String("BucketName"), OutputValue: aws.String("my-bucket"), ExportName: aws.String("app-bucket")},
		},
		Parameters: []types.Parameter{
			{ParameterKey: aws.String("Env"), ParameterValue: aws.String("prod")},
			{ParameterKey: aws.String("AmiId"), ParameterValue: aws.String("/aws/ami"), ResolvedValue: aws.String("ami-123")},
		},
		Tags:                        []types.Tag{{Key: aws.String("team"), Value: aws.String("platform")}},
		Capabilities:                []types.Capability{types.CapabilityCapabilityIam},
		EnableTerminationProtection: aws.Bool(true),
		ParentId:                    aws.String("arn:parent"),
		RootId:                      aws.String("arn:root"),
		DriftInformation:            &types.StackDriftInformation{StackDriftStatus: types.StackDriftStatusInSync},
	}

	stack, err := StackFromSDK(raw)
	require.NoError(t, err)

	assert.Equal(t, "app", stack.Name)
	assert.Equal(t, status.StackUpdateComplete, stack.Status)
	assert.Equal(t, "done", stack.StatusReason)
	assert.True(t, stack.ChangeSetID.IsSet())
	assert.Equal(t, created, stack.CreationTime)
	assert.Equal(t, updated, stack.LastUpdatedTime.OrElse(time.Time{}))
	assert.False(t, stack.DeletionTime.IsSet())

	value, ok := stack.OutputValue("BucketName")
	assert.True(t, ok)
	assert.Equal(t, "my-bucket", value)
	assert.Equal(t, "app-bucket", stack.Outputs["BucketName"].ExportName)

	assert.Equal(t, "prod", stack.Params["Env"].Value.OrElse(""))
	assert.Equal(t, "ami-123", stack.Params["AmiId"].ResolvedValue)
	assert.Equal(t, "platform", stack.Tags["team"])
	assert.Equal(t, []string{"CAPABILITY_IAM"}, stack.Capabilities)
	assert.True(t, stack.EnableTerminationProtection)
	assert.True(t, stack.IsNested())
	assert.Equal(t, "arn:root", stack.RootID.OrElse(""))
	assert.Equal(t, "IN_SYNC", stack.DriftStatus)
}

func TestStackFromSDK_RequiredFields(t *testing.T) {
	_, err := StackFromSDK(types.Stack{StackName: aws.String("app"), StackStatus: types.StackStatusCreateComplete})
	assert.ErrorContains(t, err, "StackId")

	_, err = StackFromSDK(types.Stack{StackId: aws.String("arn"), StackStatus: types.StackStatusCreateComplete})
	assert.ErrorContains(t, err, "StackName")
}

func TestStackFromSDK_UnknownStatus(t *testing.T) {
	raw := NewTestSDKStack("app", types.StackStatus("SOMETHING_NEW"))

	_, err := StackFromSDK(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrUnknownStatus)
}

func TestStackFromSDK_MinimalStack(t *testing.T) {
	stack := NewTestStack("app", types.StackStatusCreateInProgress)

	assert.False(t, stack.IsNested())
	assert.Empty(t, stack.Outputs)
	assert.Empty(t, stack.Params)
	assert.Empty(t, stack.Tags)
	assert.Equal(t, "", stack.DriftStatus)
}
