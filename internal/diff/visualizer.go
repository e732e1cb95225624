/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/model"
)

// Visualizer turns change sets into sorted plans
type Visualizer struct {
	describer      ChangeSetDescriber
	maxNestedDepth int
}

// VisualizerOption configures a Visualizer
type VisualizerOption func(*Visualizer)

// WithMaxNestedDepth limits how many levels of nested change sets are followed
func WithMaxNestedDepth(depth int) VisualizerOption {
	return func(v *Visualizer) {
		v.maxNestedDepth = depth
	}
}

// NewVisualizer creates a visualizer. The describer is only used to follow
// nested stacks and may be nil when they are never included.
func NewVisualizer(describer ChangeSetDescriber, opts ...VisualizerOption) *Visualizer {
	v := &Visualizer{
		describer:      describer,
		maxNestedDepth: DefaultMaxNestedDepth,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ParseChanges parses raw changes, sorts each change's details by attribute
// and then the changes by action. Both sorts are stable.
func ParseChanges(raw []types.Change) []model.ResourceChange {
	changes := make([]model.ResourceChange, 0, len(raw))
	for _, c := range raw {
		rc, ok := model.ResourceChangeFromSDK(c)
		if !ok {
			continue
		}
		slices.SortStableFunc(rc.Details, func(a, b model.Detail) int {
			return cmp.Compare(priority(attributePriority, a.Attribute), priority(attributePriority, b.Attribute))
		})
		changes = append(changes, rc)
	}

	slices.SortStableFunc(changes, func(a, b model.ResourceChange) int {
		return cmp.Compare(priority(actionPriority, a.Action), priority(actionPriority, b.Action))
	})
	return changes
}

func priority(table map[string]int, key string) int {
	if p, ok := table[key]; ok {
		return p
	}
	return math.MaxInt
}

// Tally counts changes per action in action order
func Tally(changes []model.ResourceChange) []ActionCount {
	counts := make(map[string]int)
	var actions []string
	for _, c := range changes {
		if _, seen := counts[c.Action]; !seen {
			actions = append(actions, c.Action)
		}
		counts[c.Action]++
	}

	slices.SortStableFunc(actions, func(a, b string) int {
		if c := cmp.Compare(priority(actionPriority, a), priority(actionPriority, b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	out := make([]ActionCount, 0, len(actions))
	for _, a := range actions {
		out = append(out, ActionCount{Action: a, Count: counts[a]})
	}
	return out
}

// Build creates the plan of a change set. With includeNested, the change sets
// of nested stacks are fetched and planned too.
func (v *Visualizer) Build(ctx context.Context, cs *model.ChangeSet, includeNested bool) (*Plan, error) {
	visited := map[string]bool{cs.ID: true}
	return v.build(ctx, cs, includeNested, 0, visited)
}

func (v *Visualizer) build(ctx context.Context, cs *model.ChangeSet, includeNested bool, depth int, visited map[string]bool) (*Plan, error) {
	changes := ParseChanges(cs.Changes)
	plan := &Plan{
		ChangeSetID: cs.ID,
		Name:        cs.Name,
		StackName:   cs.StackName,
		Changes:     changes,
		Tally:       Tally(changes),
	}

	if !includeNested {
		return plan, nil
	}

	for _, change := range changes {
		nestedID, ok := change.ChangeSetID.Get()
		if !ok {
			continue
		}

		nested := &NestedPlan{LogicalID: change.LogicalID}
		plan.Nested = append(plan.Nested, nested)

		switch {
		case visited[nestedID]:
			nested.Skipped = fmt.Sprintf("change set %s already shown", nestedID)
			continue
		case depth+1 > v.maxNestedDepth:
			nested.Skipped = fmt.Sprintf("nested deeper than %d levels", v.maxNestedDepth)
			continue
		case v.describer == nil:
			nested.Skipped = "nested change sets not available"
			continue
		}
		visited[nestedID] = true

		nestedCS, err := v.describer.DescribeChangeSetAll(ctx, nestedID)
		if err != nil {
			return nil, fmt.Errorf("failed to describe nested change set of %s: %w", change.LogicalID, err)
		}

		nested.Plan, err = v.build(ctx, nestedCS, includeNested, depth+1, visited)
		if err != nil {
			return nil, err
		}
	}

	return plan, nil
}
