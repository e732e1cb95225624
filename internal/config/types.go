/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package config defines the resolved, provider-independent form of a deploy
// file.
package config

import (
	"context"

	"github.com/orien/stackpilot/internal/opt"
)

// ConfigProvider loads deploy configuration
type ConfigProvider interface {
	// LoadConfig loads the whole configuration
	LoadConfig(ctx context.Context) (*Config, error)

	// GetStack returns the configuration of one stack
	GetStack(stackName string) (*StackConfig, error)

	// ListStacks returns every stack name, sorted
	ListStacks() ([]string, error)

	// GetStackSet returns the configuration of one stack set
	GetStackSet(stackSetName string) (*StackSetConfig, error)

	// ListStackSets returns every stack set name, sorted
	ListStackSets() ([]string, error)

	// Validate checks the configuration for consistency and errors
	Validate() error
}

// Config is the resolved configuration
type Config struct {
	Region    string
	Profile   string
	Artifacts ArtifactConfig
	Tags      map[string]string
	Vars      map[string]any
	Stacks    []*StackConfig
	StackSets []*StackSetConfig
}

// ArtifactConfig locates the bucket used for bodies too large to send inline
type ArtifactConfig struct {
	Bucket string
	Prefix string
}

// Resolution types of a ParameterValue
const (
	ResolutionLiteral  = "literal"
	ResolutionList     = "list"
	ResolutionPrevious = "previous"
	ResolutionOutput   = "output"
)

// ParameterValue describes how a parameter value is obtained
type ParameterValue struct {
	ResolutionType   string
	ResolutionConfig map[string]string
	ListItems        []*ParameterValue
}

// StackConfig is the configuration of one stack with file defaults applied
type StackConfig struct {
	Name                        string
	Template                    string
	Region                      string
	Parameters                  map[string]*ParameterValue
	Tags                        map[string]string
	Vars                        map[string]any
	Capabilities                []string
	RoleARN                     string
	NotificationARNs            []string
	StackPolicy                 string
	Dependencies                []string
	EnableTerminationProtection opt.Value[bool]
	DisableRollback             opt.Value[bool]
	OnFailure                   string
	TimeoutInMinutes            opt.Value[int32]
	IncludeNestedStacks         bool
	ChangeSetNamePrefix         string
}

// StackSetConfig is the configuration of one stack set with file defaults applied
type StackSetConfig struct {
	Name                  string
	Template              string
	Region                string
	Description           string
	Parameters            map[string]*ParameterValue
	Tags                  map[string]string
	Vars                  map[string]any
	Capabilities          []string
	PermissionModel       string
	AdministrationRoleARN string
	ExecutionRoleName     string
	Accounts              []string
	Regions               []string
	MaxConcurrentCount    opt.Value[int32]
	FailureToleranceCount opt.Value[int32]
	RegionConcurrency     string
}
