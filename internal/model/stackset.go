/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/status"
)

// StackSet is a snapshot of a stack set
type StackSet struct {
	ID              string
	Name            string
	Status          status.StackSetStatus
	Description     string
	Params          map[string]Parameter
	Tags            map[string]string
	Capabilities    []string
	PermissionModel string
}

// StackSetFromSDK parses a describe-stack-set response
func StackSetFromSDK(s *types.StackSet) (*StackSet, error) {
	if s == nil || s.StackSetName == nil {
		return nil, fmt.Errorf("stack set is missing StackSetName")
	}

	st, err := status.ParseStackSetStatus(string(s.Status))
	if err != nil {
		return nil, fmt.Errorf("stack set %s: %w", aws.ToString(s.StackSetName), err)
	}

	out := &StackSet{
		ID:              aws.ToString(s.StackSetId),
		Name:            aws.ToString(s.StackSetName),
		Status:          st,
		Description:     aws.ToString(s.Description),
		Params:          make(map[string]Parameter, len(s.Parameters)),
		Tags:            make(map[string]string, len(s.Tags)),
		PermissionModel: string(s.PermissionModel),
	}
	for _, p := range s.Parameters {
		param := parameterFromSDK(p)
		out.Params[param.Key] = param
	}
	for _, tag := range s.Tags {
		out.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	for _, c := range s.Capabilities {
		out.Capabilities = append(out.Capabilities, string(c))
	}
	return out, nil
}

// StackInstance is one account/region deployment of a stack set
type StackInstance struct {
	StackSetID     string
	Account        string
	Region         string
	StackID        string
	Status         status.StackInstanceStatus
	DetailedStatus status.StackInstanceDetailedStatus
	StatusReason   string
	DriftStatus    string
}

// LogicalStatus derives the simplified state used for waiting
func (i *StackInstance) LogicalStatus() status.LogicalStatus {
	return status.LogicalStatusOf(i.Status, i.DetailedStatus)
}

// String identifies the instance for messages
func (i *StackInstance) String() string {
	return fmt.Sprintf("%s/%s", i.Account, i.Region)
}

// StackInstanceFromSummary parses a list-stack-instances entry
func StackInstanceFromSummary(s types.StackInstanceSummary) (*StackInstance, error) {
	var detailed types.StackInstanceDetailedStatus
	if s.StackInstanceStatus != nil {
		detailed = s.StackInstanceStatus.DetailedStatus
	}
	return newStackInstance(
		aws.ToString(s.StackSetId),
		aws.ToString(s.Account),
		aws.ToString(s.Region),
		aws.ToString(s.StackId),
		string(s.Status),
		string(detailed),
		aws.ToString(s.StatusReason),
		string(s.DriftStatus),
	)
}

// StackInstanceFromSDK parses a describe-stack-instance response
func StackInstanceFromSDK(s *types.StackInstance) (*StackInstance, error) {
	if s == nil {
		return nil, fmt.Errorf("stack instance response is empty")
	}
	var detailed types.StackInstanceDetailedStatus
	if s.StackInstanceStatus != nil {
		detailed = s.StackInstanceStatus.DetailedStatus
	}
	return newStackInstance(
		aws.ToString(s.StackSetId),
		aws.ToString(s.Account),
		aws.ToString(s.Region),
		aws.ToString(s.StackId),
		string(s.Status),
		string(detailed),
		aws.ToString(s.StatusReason),
		string(s.DriftStatus),
	)
}

func newStackInstance(stackSetID, account, region, stackID, rawStatus, rawDetailed, reason, drift string) (*StackInstance, error) {
	if account == "" || region == "" {
		return nil, fmt.Errorf("stack instance of %s is missing account or region", stackSetID)
	}
	st, err := status.ParseStackInstanceStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("stack instance %s/%s: %w", account, region, err)
	}
	detailed, err := status.ParseStackInstanceDetailedStatus(rawDetailed)
	if err != nil {
		return nil, fmt.Errorf("stack instance %s/%s: %w", account, region, err)
	}
	return &StackInstance{
		StackSetID:     stackSetID,
		Account:        account,
		Region:         region,
		StackID:        stackID,
		Status:         st,
		DetailedStatus: detailed,
		StatusReason:   reason,
		DriftStatus:    drift,
	}, nil
}
