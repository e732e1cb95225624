/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package file

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/orien/stackpilot/internal/config"
	"github.com/orien/stackpilot/internal/opt"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the deploy file looked up when none is given
const DefaultFilename = "stackpilot.yaml"

// Provider implements config.ConfigProvider by reading from a YAML file
type Provider struct {
	filename  string
	rawConfig *Config
}

// NewProvider creates a new file-based ConfigProvider for the given filename
func NewProvider(filename string) *Provider {
	return &Provider{filename: filename}
}

// NewDefaultProvider reads DefaultFilename from the working directory
func NewDefaultProvider() *Provider {
	return NewProvider(DefaultFilename)
}

// NewProviderFromBytes parses data as if it had been read from filename
func NewProviderFromBytes(filename string, data []byte) (*Provider, error) {
	p := NewProvider(filename)
	if err := p.parse(data); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadConfig resolves the whole file
func (fp *Provider) LoadConfig(ctx context.Context) (*config.Config, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Region:  fp.rawConfig.Region,
		Profile: fp.rawConfig.Profile,
		Tags:    maps.Clone(fp.rawConfig.Tags),
		Vars:    maps.Clone(fp.rawConfig.Vars),
	}
	if a := fp.rawConfig.Artifacts; a != nil {
		cfg.Artifacts = config.ArtifactConfig{Bucket: a.Bucket, Prefix: a.Prefix}
	}

	for _, name := range slices.Sorted(maps.Keys(fp.rawConfig.Stacks)) {
		cfg.Stacks = append(cfg.Stacks, fp.resolveStack(name, fp.rawConfig.Stacks[name]))
	}
	for _, name := range slices.Sorted(maps.Keys(fp.rawConfig.StackSets)) {
		cfg.StackSets = append(cfg.StackSets, fp.resolveStackSet(name, fp.rawConfig.StackSets[name]))
	}
	return cfg, nil
}

// GetStack returns the configuration of one stack
func (fp *Provider) GetStack(stackName string) (*config.StackConfig, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}
	raw, ok := fp.rawConfig.Stacks[stackName]
	if !ok {
		return nil, fmt.Errorf("stack '%s' not found in configuration", stackName)
	}
	return fp.resolveStack(stackName, raw), nil
}

// ListStacks returns every stack name, sorted
func (fp *Provider) ListStacks() ([]string, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(fp.rawConfig.Stacks)), nil
}

// GetStackSet returns the configuration of one stack set
func (fp *Provider) GetStackSet(stackSetName string) (*config.StackSetConfig, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}
	raw, ok := fp.rawConfig.StackSets[stackSetName]
	if !ok {
		return nil, fmt.Errorf("stack set '%s' not found in configuration", stackSetName)
	}
	return fp.resolveStackSet(stackSetName, raw), nil
}

// ListStackSets returns every stack set name, sorted
func (fp *Provider) ListStackSets() ([]string, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(fp.rawConfig.StackSets)), nil
}

// Validate checks the configuration for consistency and errors
func (fp *Provider) Validate() error {
	if err := fp.ensureLoaded(); err != nil {
		return err
	}

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(fp.rawConfig.Stacks)) {
		stack := fp.rawConfig.Stacks[name]
		if stack == nil || stack.Template == "" {
			errs = append(errs, fmt.Errorf("stack '%s' has no template", name))
			continue
		}
		for _, dep := range stack.Dependencies {
			if _, ok := fp.rawConfig.Stacks[dep]; !ok {
				errs = append(errs, fmt.Errorf("stack '%s' depends on undefined stack '%s'", name, dep))
			}
		}
		errs = append(errs, fp.checkFile("template", name, stack.Template))
		if stack.StackPolicy != "" {
			errs = append(errs, fp.checkFile("stack policy", name, stack.StackPolicy))
		}
	}

	for _, name := range slices.Sorted(maps.Keys(fp.rawConfig.StackSets)) {
		set := fp.rawConfig.StackSets[name]
		if set == nil || set.Template == "" {
			errs = append(errs, fmt.Errorf("stack set '%s' has no template", name))
			continue
		}
		if set.Targets != nil && (len(set.Targets.Accounts) == 0) != (len(set.Targets.Regions) == 0) {
			errs = append(errs, fmt.Errorf("stack set '%s' targets need both accounts and regions", name))
		}
		errs = append(errs, fp.checkFile("template", name, set.Template))
	}

	return errors.Join(errs...)
}

func (fp *Provider) checkFile(kind, owner, path string) error {
	resolved := fp.resolveTemplatePath(path)
	if _, err := os.Stat(resolved); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("%s file not found for '%s': %s", kind, owner, resolved)
	}
	return nil
}

// ensureLoaded loads the raw configuration from file if not already loaded
func (fp *Provider) ensureLoaded() error {
	if fp.rawConfig != nil {
		return nil
	}

	data, err := os.ReadFile(fp.filename)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", fp.filename, err)
	}
	return fp.parse(data)
}

func (fp *Provider) parse(data []byte) error {
	var raw Config
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML config file '%s': %w", fp.filename, err)
	}
	fp.rawConfig = &raw
	return nil
}

func (fp *Provider) resolveStack(name string, raw *Stack) *config.StackConfig {
	if raw == nil {
		raw = &Stack{}
	}
	resolved := &config.StackConfig{
		Name:                        name,
		Template:                    fp.resolveTemplatePath(raw.Template),
		Region:                      fp.regionOr(raw.Region),
		Parameters:                  convertParameters(raw.Parameters),
		Tags:                        mergeMaps(fp.rawConfig.Tags, raw.Tags),
		Vars:                        mergeMaps(fp.rawConfig.Vars, raw.Vars),
		Capabilities:                slices.Clone(raw.Capabilities),
		RoleARN:                     raw.RoleARN,
		NotificationARNs:            slices.Clone(raw.NotificationARNs),
		Dependencies:                slices.Clone(raw.Dependencies),
		EnableTerminationProtection: opt.FromPtr(raw.TerminationProtection),
		DisableRollback:             opt.FromPtr(raw.DisableRollback),
		OnFailure:                   raw.OnFailure,
		TimeoutInMinutes:            opt.FromPtr(raw.TimeoutInMinutes),
		IncludeNestedStacks:         raw.IncludeNestedStacks,
		ChangeSetNamePrefix:         raw.ChangeSetPrefix,
	}
	if raw.StackPolicy != "" {
		resolved.StackPolicy = fp.resolveTemplatePath(raw.StackPolicy)
	}
	return resolved
}

func (fp *Provider) resolveStackSet(name string, raw *StackSet) *config.StackSetConfig {
	if raw == nil {
		raw = &StackSet{}
	}
	resolved := &config.StackSetConfig{
		Name:                  name,
		Template:              fp.resolveTemplatePath(raw.Template),
		Region:                fp.regionOr(raw.Region),
		Description:           raw.Description,
		Parameters:            convertParameters(raw.Parameters),
		Tags:                  mergeMaps(fp.rawConfig.Tags, raw.Tags),
		Vars:                  mergeMaps(fp.rawConfig.Vars, raw.Vars),
		Capabilities:          slices.Clone(raw.Capabilities),
		PermissionModel:       raw.PermissionModel,
		AdministrationRoleARN: raw.AdministrationRoleARN,
		ExecutionRoleName:     raw.ExecutionRoleName,
	}
	if t := raw.Targets; t != nil {
		resolved.Accounts = slices.Clone(t.Accounts)
		resolved.Regions = slices.Clone(t.Regions)
	}
	if p := raw.Preferences; p != nil {
		resolved.MaxConcurrentCount = opt.FromPtr(p.MaxConcurrentCount)
		resolved.FailureToleranceCount = opt.FromPtr(p.FailureToleranceCount)
		resolved.RegionConcurrency = p.RegionConcurrency
	}
	return resolved
}

func (fp *Provider) regionOr(region string) string {
	if region != "" {
		return region
	}
	return fp.rawConfig.Region
}

// resolveTemplatePath resolves a path relative to the templates directory,
// which is itself relative to the config file
func (fp *Provider) resolveTemplatePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	dir := filepath.Dir(fp.filename)
	if fp.rawConfig.Templates != nil && fp.rawConfig.Templates.Directory != "" {
		dir = filepath.Join(dir, fp.rawConfig.Templates.Directory)
	}
	return filepath.Join(dir, path)
}

func convertParameters(raw map[string]*yamlParameterValue) map[string]*config.ParameterValue {
	if raw == nil {
		return nil
	}
	out := make(map[string]*config.ParameterValue, len(raw))
	for key, value := range raw {
		if value == nil {
			continue
		}
		out[key] = value.ToConfigParameterValue()
	}
	return out
}

// mergeMaps copies base and applies override on top
func mergeMaps[V any](base, override map[string]V) map[string]V {
	if base == nil && override == nil {
		return nil
	}
	out := make(map[string]V, len(base)+len(override))
	maps.Copy(out, base)
	maps.Copy(out, override)
	return out
}
