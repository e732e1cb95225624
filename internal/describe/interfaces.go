/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"context"
	"time"

	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/opt"
)

// Describer retrieves deployed stacks and stack sets for display
type Describer interface {
	DescribeStack(ctx context.Context, region, stackName string) (*StackDescription, error)
	DescribeStackSet(ctx context.Context, region, stackSetName string) (*StackSetDescription, error)
}

// StackDescription is the display form of a deployed stack
type StackDescription struct {
	Name                  string
	StackID               string
	Status                string
	StatusReason          string
	CreatedTime           time.Time
	UpdatedTime           opt.Value[time.Time]
	Description           string
	TerminationProtection bool
	DriftStatus           string

	Parameters map[string]string
	Outputs    map[string]string
	Tags       map[string]string

	Region     string
	ConsoleURL string
}

// StackSetDescription is the display form of a stack set and its instances
type StackSetDescription struct {
	Name            string
	Status          string
	Description     string
	PermissionModel string
	Parameters      map[string]string
	Tags            map[string]string
	Instances       []*model.StackInstance

	Region     string
	ConsoleURL string
}
