/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/config"
	"github.com/orien/stackpilot/internal/deploy"
	"github.com/orien/stackpilot/internal/logging"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/opt"
)

// StackResolver resolves configuration into deployment-ready inputs
type StackResolver struct {
	configProvider config.ConfigProvider
	clientFactory  aws.ClientFactory
	fileReader     FileReader
	processor      TemplateProcessor
}

// NewStackResolver creates a resolver. The client factory is used to look up
// outputs of other stacks.
func NewStackResolver(configProvider config.ConfigProvider, clientFactory aws.ClientFactory) *StackResolver {
	return &StackResolver{
		configProvider: configProvider,
		clientFactory:  clientFactory,
		fileReader:     DefaultFileReader{},
		processor:      NewSprigTemplateProcessor(),
	}
}

// SetFileReader allows injecting a custom file reader (for testing)
func (r *StackResolver) SetFileReader(fileReader FileReader) {
	r.fileReader = fileReader
}

// SetTemplateProcessor replaces the Sprig template processor
func (r *StackResolver) SetTemplateProcessor(processor TemplateProcessor) {
	r.processor = processor
}

// ResolveStack resolves a single stack configuration
func (r *StackResolver) ResolveStack(ctx context.Context, stackName string) (*ResolvedStack, error) {
	stackConfig, err := r.configProvider.GetStack(stackName)
	if err != nil {
		return nil, fmt.Errorf("failed to get stack %s: %w", stackName, err)
	}
	region := r.regionOr(stackConfig.Region)

	templateBody, err := r.loadTemplate(stackConfig.Template, templateVars(stackConfig.Vars, stackName, region))
	if err != nil {
		return nil, fmt.Errorf("stack %s: %w", stackName, err)
	}

	parameters, err := r.resolveParameters(ctx, region, stackConfig.Parameters)
	if err != nil {
		return nil, fmt.Errorf("stack %s: %w", stackName, err)
	}

	var policy string
	if stackConfig.StackPolicy != "" {
		policy, err = r.fileReader.ReadFile(stackConfig.StackPolicy)
		if err != nil {
			return nil, fmt.Errorf("stack %s: failed to read stack policy: %w", stackName, err)
		}
	}

	logging.FromContext(ctx).Debug().
		Str("stack", stackName).
		Str("region", region).
		Int("parameters", len(parameters)).
		Msg("resolved stack")

	return &ResolvedStack{
		Name:   stackName,
		Region: region,
		Input: deploy.DeployStackInput{
			StackName:                   stackName,
			TemplateBody:                templateBody,
			Parameters:                  parameters,
			Tags:                        maps.Clone(stackConfig.Tags),
			Capabilities:                slices.Clone(stackConfig.Capabilities),
			RoleARN:                     nonEmpty(stackConfig.RoleARN),
			NotificationARNs:            slices.Clone(stackConfig.NotificationARNs),
			StackPolicyBody:             policy,
			EnableTerminationProtection: stackConfig.EnableTerminationProtection,
			DisableRollback:             stackConfig.DisableRollback,
			OnFailure:                   nonEmpty(stackConfig.OnFailure),
			TimeoutInMinutes:            stackConfig.TimeoutInMinutes,
			IncludeNestedStacks:         stackConfig.IncludeNestedStacks,
			ChangeSetNamePrefix:         stackConfig.ChangeSetNamePrefix,
		},
		Dependencies: slices.Clone(stackConfig.Dependencies),
	}, nil
}

// ResolveStackSet resolves a single stack set configuration
func (r *StackResolver) ResolveStackSet(ctx context.Context, stackSetName string) (*ResolvedStackSet, error) {
	setConfig, err := r.configProvider.GetStackSet(stackSetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get stack set %s: %w", stackSetName, err)
	}
	region := r.regionOr(setConfig.Region)

	templateBody, err := r.loadTemplate(setConfig.Template, templateVars(setConfig.Vars, stackSetName, region))
	if err != nil {
		return nil, fmt.Errorf("stack set %s: %w", stackSetName, err)
	}

	parameters, err := r.resolveParameters(ctx, region, setConfig.Parameters)
	if err != nil {
		return nil, fmt.Errorf("stack set %s: %w", stackSetName, err)
	}

	return &ResolvedStackSet{
		Name:   stackSetName,
		Region: region,
		Input: deploy.DeployStackSetInput{
			StackSetName:          stackSetName,
			Description:           nonEmpty(setConfig.Description),
			TemplateBody:          templateBody,
			Parameters:            parameters,
			Tags:                  maps.Clone(setConfig.Tags),
			Capabilities:          slices.Clone(setConfig.Capabilities),
			PermissionModel:       nonEmpty(setConfig.PermissionModel),
			AdministrationRoleARN: nonEmpty(setConfig.AdministrationRoleARN),
			ExecutionRoleName:     nonEmpty(setConfig.ExecutionRoleName),
			Accounts:              slices.Clone(setConfig.Accounts),
			Regions:               slices.Clone(setConfig.Regions),
			Preferences: aws.OperationPreferences{
				MaxConcurrentCount:    setConfig.MaxConcurrentCount,
				FailureToleranceCount: setConfig.FailureToleranceCount,
				RegionConcurrency:     nonEmpty(setConfig.RegionConcurrency),
			},
		},
	}, nil
}

// GetDependencyOrder returns stackNames sorted so dependencies come first
func (r *StackResolver) GetDependencyOrder(stackNames []string) ([]string, error) {
	return dependencyOrder(r.configProvider, stackNames)
}

func (r *StackResolver) regionOr(region string) string {
	if region == "" && r.clientFactory != nil {
		return r.clientFactory.DefaultRegion()
	}
	return region
}

// loadTemplate reads a template, rendering it when the name ends in TemplateSuffix
func (r *StackResolver) loadTemplate(path string, vars map[string]any) (string, error) {
	content, err := r.fileReader.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	if !NeedsRendering(path) {
		return content, nil
	}
	return r.processor.Process(path, content, vars)
}

func (r *StackResolver) resolveParameters(ctx context.Context, region string, params map[string]*config.ParameterValue) ([]model.Parameter, error) {
	if len(params) == 0 {
		return nil, nil
	}
	resolved := make([]model.Parameter, 0, len(params))
	for _, key := range slices.Sorted(maps.Keys(params)) {
		p, err := r.resolveParameter(ctx, region, key, params[key])
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parameter %s: %w", key, err)
		}
		resolved = append(resolved, p)
	}
	return resolved, nil
}

func (r *StackResolver) resolveParameter(ctx context.Context, region, key string, pv *config.ParameterValue) (model.Parameter, error) {
	switch pv.ResolutionType {
	case config.ResolutionLiteral:
		return model.ValueParameter(key, pv.ResolutionConfig["value"]), nil

	case config.ResolutionList:
		values := make([]string, 0, len(pv.ListItems))
		for i, item := range pv.ListItems {
			if item.ResolutionType != config.ResolutionLiteral {
				return model.Parameter{}, fmt.Errorf("list item %d is not a literal", i)
			}
			values = append(values, item.ResolutionConfig["value"])
		}
		return model.ValueParameter(key, strings.Join(values, ",")), nil

	case config.ResolutionPrevious:
		return model.PreviousValueParameter(key), nil

	case config.ResolutionOutput:
		value, err := r.resolveOutput(ctx, region, pv.ResolutionConfig)
		if err != nil {
			return model.Parameter{}, err
		}
		return model.ValueParameter(key, value), nil
	}
	return model.Parameter{}, fmt.Errorf("unsupported resolution type %q", pv.ResolutionType)
}

// resolveOutput reads an output of a deployed stack. The stack is looked up
// in the resolving stack's region unless the config names another.
func (r *StackResolver) resolveOutput(ctx context.Context, region string, settings map[string]string) (string, error) {
	stackName, outputKey := settings["stack_name"], settings["output_key"]
	if stackName == "" || outputKey == "" {
		return "", fmt.Errorf("output resolution needs stack_name and output_key")
	}
	if r.clientFactory == nil {
		return "", fmt.Errorf("no AWS client available to read outputs of %s", stackName)
	}
	if settings["region"] != "" {
		region = settings["region"]
	}

	ops, err := r.clientFactory.GetCloudFormationOperations(ctx, region)
	if err != nil {
		return "", err
	}
	stack, err := ops.DescribeStack(ctx, stackName)
	if err != nil {
		return "", fmt.Errorf("failed to describe stack %s: %w", stackName, err)
	}
	if stack == nil {
		return "", fmt.Errorf("stack %s does not exist", stackName)
	}
	value, ok := stack.OutputValue(outputKey)
	if !ok {
		return "", fmt.Errorf("stack %s has no output %s", stackName, outputKey)
	}
	return value, nil
}

// templateVars merges the configured vars with the stack name and region.
// Configured vars win.
func templateVars(vars map[string]any, name, region string) map[string]any {
	out := map[string]any{
		"StackName": name,
		"Region":    region,
	}
	maps.Copy(out, vars)
	return out
}

func nonEmpty(s string) opt.Value[string] {
	if s == "" {
		return opt.None[string]()
	}
	return opt.Some(s)
}

var _ Resolver = (*StackResolver)(nil)
