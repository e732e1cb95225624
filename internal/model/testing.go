/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// NewTestSDKStack builds a describe-stacks entry for testing
func NewTestSDKStack(name string, st types.StackStatus) types.Stack {
	return types.Stack{
		StackId:     aws.String(fmt.Sprintf("arn:aws:cloudformation:us-east-1:123456789012:stack/%s/0a1b2c3d", name)),
		StackName:   aws.String(name),
		StackStatus: st,
	}
}

// NewTestStack builds a parsed Stack for testing
func NewTestStack(name string, st types.StackStatus) *Stack {
	stack, err := StackFromSDK(NewTestSDKStack(name, st))
	if err != nil {
		panic(err)
	}
	return stack
}

// NewTestChange builds a raw resource change for testing
func NewTestChange(action types.ChangeAction, logicalID, resourceType string, attributes ...types.ResourceAttribute) types.Change {
	details := make([]types.ResourceChangeDetail, 0, len(attributes))
	for _, attr := range attributes {
		details = append(details, types.ResourceChangeDetail{
			Target: &types.ResourceTargetDefinition{Attribute: attr},
		})
	}
	return types.Change{
		Type: types.ChangeTypeResource,
		ResourceChange: &types.ResourceChange{
			Action:            action,
			LogicalResourceId: aws.String(logicalID),
			ResourceType:      aws.String(resourceType),
			Details:           details,
		},
	}
}
