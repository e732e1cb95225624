/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func describeOutput(changes ...types.Change) *cloudformation.DescribeChangeSetOutput {
	return &cloudformation.DescribeChangeSetOutput{
		ChangeSetId:     aws.String("arn:cs"),
		ChangeSetName:   aws.String("cs"),
		StackId:         aws.String("arn:stack"),
		StackName:       aws.String("app"),
		Status:          types.ChangeSetStatusCreateComplete,
		ExecutionStatus: types.ExecutionStatusAvailable,
		Changes:         changes,
	}
}

func TestChangeSetFromSDK(t *testing.T) {
	out := describeOutput(NewTestChange(types.ChangeActionAdd, "Bucket", "AWS::S3::Bucket"))
	out.NextToken = aws.String("page-2")
	out.ParentChangeSetId = aws.String("arn:parent-cs")
	out.IncludeNestedStacks = aws.Bool(true)

	cs, err := ChangeSetFromSDK(out)
	require.NoError(t, err)

	assert.Equal(t, "arn:cs", cs.ID)
	assert.Equal(t, "app", cs.StackName)
	assert.Equal(t, status.ChangeSetCreateComplete, cs.Status)
	assert.True(t, cs.ExecutionStatus.IsExecutable())
	assert.True(t, cs.HasMorePages())
	assert.Equal(t, "arn:parent-cs", cs.ParentChangeSetID.OrElse(""))
	assert.True(t, cs.IncludeNestedStacks)
	assert.Len(t, cs.Changes, 1)
}

func TestChangeSetFromSDK_Failures(t *testing.T) {
	_, err := ChangeSetFromSDK(nil)
	assert.Error(t, err)

	missingID := describeOutput()
	missingID.ChangeSetId = nil
	_, err = ChangeSetFromSDK(missingID)
	assert.ErrorContains(t, err, "ChangeSetId")

	missingStack := describeOutput()
	missingStack.StackId = nil
	_, err = ChangeSetFromSDK(missingStack)
	assert.ErrorContains(t, err, "StackId")

	unknown := describeOutput()
	unknown.Status = types.ChangeSetStatus("BROKEN")
	_, err = ChangeSetFromSDK(unknown)
	assert.ErrorIs(t, err, status.ErrUnknownStatus)
}

func TestChangeSetFromSDK_MissingExecutionStatus(t *testing.T) {
	out := describeOutput()
	out.Status = types.ChangeSetStatusFailed
	out.ExecutionStatus = ""
	out.StatusReason = aws.String("The submitted information didn't contain changes. Submit different information to create a change set.")

	cs, err := ChangeSetFromSDK(out)
	require.NoError(t, err)
	assert.Equal(t, status.ExecutionUnavailable, cs.ExecutionStatus)
	assert.True(t, cs.IsNoChanges())
}

func TestChangeSet_HasMorePages_RequiresChanges(t *testing.T) {
	out := describeOutput()
	out.NextToken = aws.String("token")

	cs, err := ChangeSetFromSDK(out)
	require.NoError(t, err)
	assert.False(t, cs.HasMorePages())
}

func TestChangeSet_AppendPage_PreservesOrder(t *testing.T) {
	first := describeOutput(
		NewTestChange(types.ChangeActionRemove, "A", "AWS::SNS::Topic"),
		NewTestChange(types.ChangeActionAdd, "B", "AWS::SQS::Queue"),
	)
	first.NextToken = aws.String("t1")
	second := describeOutput(NewTestChange(types.ChangeActionModify, "C", "AWS::S3::Bucket"))

	cs1, err := ChangeSetFromSDK(first)
	require.NoError(t, err)
	cs2, err := ChangeSetFromSDK(second)
	require.NoError(t, err)

	merged := cs1.AppendPage(cs2)

	ids := make([]string, 0)
	for _, rc := range merged.ResourceChanges() {
		ids = append(ids, rc.LogicalID)
	}
	assert.Equal(t, []string{"A", "B", "C"}, ids)
	assert.False(t, merged.NextToken.IsSet())
	assert.Len(t, cs1.Changes, 2, "original snapshot is not modified")
}

func TestResourceChangeFromSDK(t *testing.T) {
	change := types.Change{
		ResourceChange: &types.ResourceChange{
			Action:             types.ChangeActionModify,
			LogicalResourceId:  aws.String("Nested"),
			PhysicalResourceId: aws.String("arn:nested"),
			ResourceType:       aws.String("AWS::CloudFormation::Stack"),
			Replacement:        types.ReplacementConditional,
			Scope:              []types.ResourceAttribute{types.ResourceAttributeProperties},
			ChangeSetId:        aws.String("arn:nested-cs"),
			Details: []types.ResourceChangeDetail{
				{
					Target: &types.ResourceTargetDefinition{
						Attribute:          types.ResourceAttributeProperties,
						Name:               aws.String("TemplateURL"),
						RequiresRecreation: types.RequiresRecreationNever,
					},
					Evaluation:    types.EvaluationTypeStatic,
					ChangeSource:  types.ChangeSourceDirectModification,
					CausingEntity: aws.String("Param"),
				},
			},
		},
	}

	rc, ok := ResourceChangeFromSDK(change)
	require.True(t, ok)
	assert.Equal(t, "Modify", rc.Action)
	assert.Equal(t, "Conditional", rc.Replacement)
	assert.Equal(t, []string{"Properties"}, rc.Scope)
	assert.Equal(t, "arn:nested-cs", rc.ChangeSetID.OrElse(""))
	require.Len(t, rc.Details, 1)
	assert.Equal(t, Detail{
		Attribute:          "Properties",
		Name:               "TemplateURL",
		RequiresRecreation: "Never",
		Evaluation:         "Static",
		ChangeSource:       "DirectModification",
		CausingEntity:      "Param",
	}, rc.Details[0])

	_, ok = ResourceChangeFromSDK(types.Change{})
	assert.False(t, ok)
}
