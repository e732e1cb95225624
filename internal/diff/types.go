/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"context"

	"github.com/orien/stackpilot/internal/model"
)

// Change set actions
const (
	ActionAdd     = "Add"
	ActionModify  = "Modify"
	ActionRemove  = "Remove"
	ActionImport  = "Import"
	ActionDynamic = "Dynamic"
)

// actionPriority orders resource changes; unknown actions sort last
var actionPriority = map[string]int{
	ActionAdd:     1,
	ActionModify:  2,
	ActionRemove:  3,
	ActionImport:  4,
	ActionDynamic: 5,
}

// attributePriority orders the details of a resource change; unknown
// attributes sort last
var attributePriority = map[string]int{
	"Properties":          0,
	"Metadata":            1,
	"CreationPolicy":      2,
	"UpdatePolicy":        3,
	"DeletionPolicy":      4,
	"Tags":                5,
	"UpdateReplacePolicy": 6,
}

// DefaultMaxNestedDepth bounds how deep nested stack change sets are followed
const DefaultMaxNestedDepth = 10

// ChangeSetDescriber fetches a change set with all of its pages
type ChangeSetDescriber interface {
	DescribeChangeSetAll(ctx context.Context, changeSetID string) (*model.ChangeSet, error)
}

// ActionCount is one entry of a change set summary
type ActionCount struct {
	Action string
	Count  int
}

// Plan is the sorted, structured form of a change set
type Plan struct {
	ChangeSetID string
	Name        string
	StackName   string
	Changes     []model.ResourceChange
	Tally       []ActionCount
	Nested      []*NestedPlan
}

// NestedPlan is the plan of a nested stack's change set, or a note on why it
// was not followed
type NestedPlan struct {
	LogicalID string
	Plan      *Plan
	Skipped   string
}

// IsEmpty returns true when neither the plan nor any nested plan changes anything
func (p *Plan) IsEmpty() bool {
	if len(p.Changes) > 0 {
		return false
	}
	for _, n := range p.Nested {
		if n.Plan != nil && !n.Plan.IsEmpty() {
			return false
		}
	}
	return true
}

// ChangeType indicates the type of change detected
type ChangeType string

const (
	ChangeTypeAdd    ChangeType = "ADD"
	ChangeTypeModify ChangeType = "MODIFY"
	ChangeTypeRemove ChangeType = "REMOVE"
)

// ValueDiff represents a difference in a stack parameter or tag
type ValueDiff struct {
	Key           string
	CurrentValue  string
	ProposedValue string
	ChangeType    ChangeType
}
