/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/opt"
	"github.com/orien/stackpilot/internal/status"
)

// Output is a stack output
type Output struct {
	Key         string
	Value       string
	Description string
	ExportName  string
}

// Stack is a snapshot of a CloudFormation stack taken from a describe call.
// It is never mutated; pollers re-fetch a fresh snapshot instead.
type Stack struct {
	ID                          string
	Name                        string
	Status                      status.StackStatus
	StatusReason                string
	ChangeSetID                 opt.Value[string]
	Description                 string
	CreationTime                time.Time
	LastUpdatedTime             opt.Value[time.Time]
	DeletionTime                opt.Value[time.Time]
	Outputs                     map[string]Output
	Params                      map[string]Parameter
	Tags                        map[string]string
	Capabilities                []string
	RoleARN                     string
	EnableTerminationProtection bool
	ParentID                    opt.Value[string]
	RootID                      opt.Value[string]
	DriftStatus                 string
}

// StackFromSDK parses a describe-stacks entry. StackId, StackName and a known
// StackStatus are required.
func StackFromSDK(s types.Stack) (*Stack, error) {
	if s.StackId == nil {
		return nil, fmt.Errorf("stack is missing StackId")
	}
	if s.StackName == nil {
		return nil, fmt.Errorf("stack %s is missing StackName", aws.ToString(s.StackId))
	}

	st, err := status.ParseStackStatus(string(s.StackStatus))
	if err != nil {
		return nil, fmt.Errorf("stack %s: %w", aws.ToString(s.StackName), err)
	}

	stack := &Stack{
		ID:                          aws.ToString(s.StackId),
		Name:                        aws.ToString(s.StackName),
		Status:                      st,
		StatusReason:                aws.ToString(s.StackStatusReason),
		ChangeSetID:                 opt.FromPtr(s.ChangeSetId),
		Description:                 aws.ToString(s.Description),
		CreationTime:                aws.ToTime(s.CreationTime),
		LastUpdatedTime:             opt.FromPtr(s.LastUpdatedTime),
		DeletionTime:                opt.FromPtr(s.DeletionTime),
		Outputs:                     make(map[string]Output, len(s.Outputs)),
		Params:                      make(map[string]Parameter, len(s.Parameters)),
		Tags:                        make(map[string]string, len(s.Tags)),
		RoleARN:                     aws.ToString(s.RoleARN),
		EnableTerminationProtection: aws.ToBool(s.EnableTerminationProtection),
		ParentID:                    opt.FromPtr(s.ParentId),
		RootID:                      opt.FromPtr(s.RootId),
	}

	for _, o := range s.Outputs {
		key := aws.ToString(o.OutputKey)
		stack.Outputs[key] = Output{
			Key:         key,
			Value:       aws.ToString(o.OutputValue),
			Description: aws.ToString(o.Description),
			ExportName:  aws.ToString(o.ExportName),
		}
	}

	for _, p := range s.Parameters {
		param := parameterFromSDK(p)
		stack.Params[param.Key] = param
	}

	for _, tag := range s.Tags {
		stack.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}

	for _, c := range s.Capabilities {
		stack.Capabilities = append(stack.Capabilities, string(c))
	}

	if s.DriftInformation != nil {
		stack.DriftStatus = string(s.DriftInformation.StackDriftStatus)
	}

	return stack, nil
}

// IsNested returns true when the stack was created by a parent stack
func (s *Stack) IsNested() bool {
	return s.ParentID.IsSet()
}

// OutputValue returns the value of an output and whether it exists
func (s *Stack) OutputValue(key string) (string, bool) {
	o, ok := s.Outputs[key]
	return o.Value, ok
}
