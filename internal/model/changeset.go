/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/opt"
	"github.com/orien/stackpilot/internal/status"
)

// ChangeSet is one page of a describe-change-set response. Changes keep the
// order the API returned them in.
type ChangeSet struct {
	ID                  string
	Name                string
	StackID             string
	StackName           string
	Description         string
	Status              status.ChangeSetStatus
	StatusReason        string
	ExecutionStatus     status.ChangeSetExecutionStatus
	Changes             []types.Change
	NextToken           opt.Value[string]
	ParentChangeSetID   opt.Value[string]
	RootChangeSetID     opt.Value[string]
	IncludeNestedStacks bool
	CreationTime        time.Time
}

// ChangeSetFromSDK parses a describe-change-set response
func ChangeSetFromSDK(out *cloudformation.DescribeChangeSetOutput) (*ChangeSet, error) {
	if out == nil {
		return nil, fmt.Errorf("change set response is empty")
	}
	if out.ChangeSetId == nil {
		return nil, fmt.Errorf("change set is missing ChangeSetId")
	}
	if out.StackId == nil {
		return nil, fmt.Errorf("change set %s is missing StackId", aws.ToString(out.ChangeSetId))
	}

	st, err := status.ParseChangeSetStatus(string(out.Status))
	if err != nil {
		return nil, fmt.Errorf("change set %s: %w", aws.ToString(out.ChangeSetName), err)
	}

	// A change set that failed to create may omit the execution status
	rawExec := string(out.ExecutionStatus)
	if rawExec == "" {
		rawExec = string(status.ExecutionUnavailable)
	}
	execStatus, err := status.ParseChangeSetExecutionStatus(rawExec)
	if err != nil {
		return nil, fmt.Errorf("change set %s: %w", aws.ToString(out.ChangeSetName), err)
	}

	changes := make([]types.Change, len(out.Changes))
	copy(changes, out.Changes)

	return &ChangeSet{
		ID:                  aws.ToString(out.ChangeSetId),
		Name:                aws.ToString(out.ChangeSetName),
		StackID:             aws.ToString(out.StackId),
		StackName:           aws.ToString(out.StackName),
		Description:         aws.ToString(out.Description),
		Status:              st,
		StatusReason:        aws.ToString(out.StatusReason),
		ExecutionStatus:     execStatus,
		Changes:             changes,
		NextToken:           opt.FromPtr(out.NextToken),
		ParentChangeSetID:   opt.FromPtr(out.ParentChangeSetId),
		RootChangeSetID:     opt.FromPtr(out.RootChangeSetId),
		IncludeNestedStacks: aws.ToBool(out.IncludeNestedStacks),
		CreationTime:        aws.ToTime(out.CreationTime),
	}, nil
}

// HasMorePages returns true when further pages of changes must be fetched
func (c *ChangeSet) HasMorePages() bool {
	return c.NextToken.IsSet() && len(c.Changes) > 0
}

// AppendPage returns a copy of c with the changes of the next page appended
// and the continuation token taken from that page
func (c *ChangeSet) AppendPage(page *ChangeSet) *ChangeSet {
	merged := *c
	merged.Changes = make([]types.Change, 0, len(c.Changes)+len(page.Changes))
	merged.Changes = append(merged.Changes, c.Changes...)
	merged.Changes = append(merged.Changes, page.Changes...)
	merged.NextToken = page.NextToken
	return &merged
}

// ResourceChanges parses the raw changes in their original order
func (c *ChangeSet) ResourceChanges() []ResourceChange {
	out := make([]ResourceChange, 0, len(c.Changes))
	for _, change := range c.Changes {
		if rc, ok := ResourceChangeFromSDK(change); ok {
			out = append(out, rc)
		}
	}
	return out
}

// IsNoChanges returns true when the change set failed only because the
// template and parameters matched what is deployed
func (c *ChangeSet) IsNoChanges() bool {
	return c.Status.IsFailed() && isNoChangesReason(c.StatusReason)
}

// ResourceChange is a parsed entry of a change set's change list
type ResourceChange struct {
	Action       string
	LogicalID    string
	PhysicalID   string
	ResourceType string
	Replacement  string
	Scope        []string
	Details      []Detail
	ChangeSetID  opt.Value[string] // nested stack change set
}

// Detail describes one attribute affected by a resource change
type Detail struct {
	Attribute          string
	Name               string
	RequiresRecreation string
	Evaluation         string
	ChangeSource       string
	CausingEntity      string
}

// ResourceChangeFromSDK parses a raw change. It returns false for changes
// that carry no resource change.
func ResourceChangeFromSDK(c types.Change) (ResourceChange, bool) {
	rc := c.ResourceChange
	if rc == nil {
		return ResourceChange{}, false
	}

	out := ResourceChange{
		Action:       string(rc.Action),
		LogicalID:    aws.ToString(rc.LogicalResourceId),
		PhysicalID:   aws.ToString(rc.PhysicalResourceId),
		ResourceType: aws.ToString(rc.ResourceType),
		Replacement:  string(rc.Replacement),
		ChangeSetID:  opt.FromPtr(rc.ChangeSetId),
		Details:      make([]Detail, 0, len(rc.Details)),
	}

	for _, scope := range rc.Scope {
		out.Scope = append(out.Scope, string(scope))
	}

	for _, d := range rc.Details {
		detail := Detail{
			Evaluation:    string(d.Evaluation),
			ChangeSource:  string(d.ChangeSource),
			CausingEntity: aws.ToString(d.CausingEntity),
		}
		if d.Target != nil {
			detail.Attribute = string(d.Target.Attribute)
			detail.Name = aws.ToString(d.Target.Name)
			detail.RequiresRecreation = string(d.Target.RequiresRecreation)
		}
		out.Details = append(out.Details, detail)
	}

	return out, true
}
