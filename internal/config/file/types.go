/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package file reads deploy configuration from a YAML file. The types here
// mirror the file layout before defaults are applied.
package file

import (
	"errors"
	"fmt"

	"github.com/orien/stackpilot/internal/config"
	"gopkg.in/yaml.v3"
)

// Config represents the raw YAML configuration file structure
type Config struct {
	Region    string               `yaml:"region"`
	Profile   string               `yaml:"profile"`
	Artifacts *Artifacts           `yaml:"artifacts"`
	Templates *Templates           `yaml:"templates"`
	Tags      map[string]string    `yaml:"tags"`
	Vars      map[string]any       `yaml:"vars"`
	Stacks    map[string]*Stack    `yaml:"stacks"`
	StackSets map[string]*StackSet `yaml:"stack_sets"`
}

// Artifacts names the bucket that receives oversized templates and policies
type Artifacts struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// Templates represents global template configuration
type Templates struct {
	Directory string `yaml:"directory"`
}

// Stack represents stack configuration as it appears in YAML
type Stack struct {
	Template              string                         `yaml:"template"`
	Region                string                         `yaml:"region"`
	Parameters            map[string]*yamlParameterValue `yaml:"parameters"`
	Tags                  map[string]string              `yaml:"tags"`
	Vars                  map[string]any                 `yaml:"vars"`
	Capabilities          []string                       `yaml:"capabilities"`
	RoleARN               string                         `yaml:"role_arn"`
	NotificationARNs      []string                       `yaml:"notification_arns"`
	StackPolicy           string                         `yaml:"stack_policy"`
	Dependencies          []string                       `yaml:"depends_on"`
	TerminationProtection *bool                          `yaml:"termination_protection"`
	DisableRollback       *bool                          `yaml:"disable_rollback"`
	OnFailure             string                         `yaml:"on_failure"`
	TimeoutInMinutes      *int32                         `yaml:"timeout_in_minutes"`
	IncludeNestedStacks   bool                           `yaml:"include_nested_stacks"`
	ChangeSetPrefix       string                         `yaml:"change_set_prefix"`
}

// StackSet represents stack set configuration as it appears in YAML
type StackSet struct {
	Template              string                         `yaml:"template"`
	Region                string                         `yaml:"region"`
	Description           string                         `yaml:"description"`
	Parameters            map[string]*yamlParameterValue `yaml:"parameters"`
	Tags                  map[string]string              `yaml:"tags"`
	Vars                  map[string]any                 `yaml:"vars"`
	Capabilities          []string                       `yaml:"capabilities"`
	PermissionModel       string                         `yaml:"permission_model"`
	AdministrationRoleARN string                         `yaml:"administration_role_arn"`
	ExecutionRoleName     string                         `yaml:"execution_role_name"`
	Targets               *Targets                       `yaml:"targets"`
	Preferences           *Preferences                   `yaml:"preferences"`
}

// Targets lists where stack instances are deployed
type Targets struct {
	Accounts []string `yaml:"accounts"`
	Regions  []string `yaml:"regions"`
}

// Preferences tunes stack set operations
type Preferences struct {
	MaxConcurrentCount    *int32 `yaml:"max_concurrent_count"`
	FailureToleranceCount *int32 `yaml:"failure_tolerance_count"`
	RegionConcurrency     string `yaml:"region_concurrency"`
}

// yamlParameterValue is a literal, a list of literals, or a resolver mapping
type yamlParameterValue struct {
	Literal        string
	IsLiteralValue bool // distinguishes an empty literal from no value

	Resolver *yamlParameterResolver

	ListItems   []*yamlParameterValue
	IsListValue bool
}

// yamlParameterResolver is the mapping form of a parameter value
type yamlParameterResolver struct {
	Type             string         `yaml:"type"`
	UsePreviousValue bool           `yaml:"use_previous_value"`
	Config           map[string]any `yaml:",inline"`
}

// UnmarshalYAML implements custom YAML unmarshalling for yamlParameterValue
func (pv *yamlParameterValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		pv.Literal = node.Value
		pv.IsLiteralValue = true
		return nil

	case yaml.MappingNode:
		pv.Resolver = &yamlParameterResolver{}
		if err := node.Decode(pv.Resolver); err != nil {
			return err
		}
		return pv.Resolver.validate()

	case yaml.SequenceNode:
		pv.IsListValue = true
		pv.ListItems = make([]*yamlParameterValue, len(node.Content))
		for i, itemNode := range node.Content {
			if itemNode.Kind != yaml.ScalarNode {
				return fmt.Errorf("list item %d must be a string literal", i)
			}
			pv.ListItems[i] = &yamlParameterValue{Literal: itemNode.Value, IsLiteralValue: true}
		}
		return nil

	default:
		return errors.New("parameter value must be a string literal, resolver object, or array")
	}
}

func (r *yamlParameterResolver) validate() error {
	switch {
	case r.UsePreviousValue && r.Type != "":
		return fmt.Errorf("use_previous_value cannot be combined with type %q", r.Type)
	case r.UsePreviousValue:
		return nil
	case r.Type == "":
		return errors.New("parameter mapping needs a type or use_previous_value: true")
	}
	return nil
}

// MarshalYAML implements custom YAML marshalling for yamlParameterValue
func (pv *yamlParameterValue) MarshalYAML() (any, error) {
	switch {
	case pv.IsLiteralValue:
		return pv.Literal, nil
	case pv.IsListValue:
		return pv.ListItems, nil
	case pv.Resolver != nil:
		return pv.Resolver, nil
	}
	return nil, errors.New("parameter value has no valid content")
}

// ToConfigParameterValue converts the YAML form into the provider-independent form
func (pv *yamlParameterValue) ToConfigParameterValue() *config.ParameterValue {
	switch {
	case pv.IsLiteralValue:
		return &config.ParameterValue{
			ResolutionType:   config.ResolutionLiteral,
			ResolutionConfig: map[string]string{"value": pv.Literal},
		}

	case pv.IsListValue:
		items := make([]*config.ParameterValue, len(pv.ListItems))
		for i, item := range pv.ListItems {
			items[i] = item.ToConfigParameterValue()
		}
		return &config.ParameterValue{
			ResolutionType:   config.ResolutionList,
			ResolutionConfig: map[string]string{},
			ListItems:        items,
		}

	case pv.Resolver != nil && pv.Resolver.UsePreviousValue:
		return &config.ParameterValue{
			ResolutionType:   config.ResolutionPrevious,
			ResolutionConfig: map[string]string{},
		}

	case pv.Resolver != nil:
		settings := make(map[string]string, len(pv.Resolver.Config))
		for key, value := range pv.Resolver.Config {
			if s, ok := value.(string); ok {
				settings[key] = s
			} else {
				settings[key] = fmt.Sprintf("%v", value)
			}
		}
		return &config.ParameterValue{
			ResolutionType:   pv.Resolver.Type,
			ResolutionConfig: settings,
		}
	}
	return nil
}

func (pv *yamlParameterValue) IsLiteral() bool {
	return pv.IsLiteralValue
}

func (pv *yamlParameterValue) IsResolver() bool {
	return pv.Resolver != nil
}

func (pv *yamlParameterValue) IsList() bool {
	return pv.IsListValue
}
