/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/config"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func literal(value string) *config.ParameterValue {
	return &config.ParameterValue{
		ResolutionType:   config.ResolutionLiteral,
		ResolutionConfig: map[string]string{"value": value},
	}
}

type resolverFixture struct {
	*StackResolver
	provider *config.MockConfigProvider
	files    *MockFileReader
	clients  *aws.MockClientFactory
}

func newResolverFixture() *resolverFixture {
	f := &resolverFixture{
		provider: &config.MockConfigProvider{},
		files:    &MockFileReader{},
		clients:  &aws.MockClientFactory{},
	}
	f.StackResolver = NewStackResolver(f.provider, f.clients)
	f.SetFileReader(f.files)
	return f
}

func TestStackResolver_ResolveStack(t *testing.T) {
	f := newResolverFixture()
	f.provider.On("GetStack", "vpc").Return(&config.StackConfig{
		Name:     "vpc",
		Template: "/deploy/templates/vpc.yaml",
		Region:   "eu-west-1",
		Parameters: map[string]*config.ParameterValue{
			"VpcCidr": literal("10.0.0.0/16"),
			"Azs": {
				ResolutionType: config.ResolutionList,
				ListItems:      []*config.ParameterValue{literal("eu-west-1a"), literal("eu-west-1b")},
			},
			"DbPassword": {ResolutionType: config.ResolutionPrevious},
		},
		Tags:                        map[string]string{"Owner": "platform"},
		Capabilities:                []string{"CAPABILITY_IAM"},
		RoleARN:                     "arn:aws:iam::123456789012:role/deployer",
		StackPolicy:                 "/deploy/templates/policy.json",
		Dependencies:                []string{"base"},
		EnableTerminationProtection: opt.Some(true),
		IncludeNestedStacks:         true,
	}, nil)
	f.files.On("ReadFile", "/deploy/templates/vpc.yaml").Return("Resources: {}", nil)
	f.files.On("ReadFile", "/deploy/templates/policy.json").Return(`{"Statement": []}`, nil)

	resolved, err := f.ResolveStack(context.Background(), "vpc")

	require.NoError(t, err)
	assert.Equal(t, "vpc", resolved.Name)
	assert.Equal(t, "eu-west-1", resolved.Region)
	assert.Equal(t, []string{"base"}, resolved.Dependencies)

	in := resolved.Input
	assert.Equal(t, "vpc", in.StackName)
	assert.Equal(t, "Resources: {}", in.TemplateBody)
	assert.Equal(t, `{"Statement": []}`, in.StackPolicyBody)
	assert.Equal(t, []model.Parameter{
		model.ValueParameter("Azs", "eu-west-1a,eu-west-1b"),
		model.PreviousValueParameter("DbPassword"),
		model.ValueParameter("VpcCidr", "10.0.0.0/16"),
	}, in.Parameters)
	assert.Equal(t, "arn:aws:iam::123456789012:role/deployer", in.RoleARN.OrElse(""))
	assert.False(t, in.OnFailure.IsSet())
	assert.True(t, in.EnableTerminationProtection.OrElse(false))
	assert.True(t, in.IncludeNestedStacks)
	assert.NoError(t, in.Validate())
}

func TestStackResolver_RendersTmplTemplates(t *testing.T) {
	f := newResolverFixture()
	f.clients.On("DefaultRegion").Return("us-east-1")
	f.provider.On("GetStack", "web").Return(&config.StackConfig{
		Name:     "web",
		Template: "web.yaml.tmpl",
		Vars:     map[string]any{"replicas": 3},
	}, nil)
	f.files.On("ReadFile", "web.yaml.tmpl").Return("# {{ .StackName }} in {{ .Region }} x{{ .replicas }}", nil)

	resolved, err := f.ResolveStack(context.Background(), "web")

	require.NoError(t, err)
	assert.Equal(t, "us-east-1", resolved.Region)
	assert.Equal(t, "# web in us-east-1 x3", resolved.Input.TemplateBody)
}

func TestStackResolver_PlainTemplatesAreNotRendered(t *testing.T) {
	f := newResolverFixture()
	f.provider.On("GetStack", "web").Return(&config.StackConfig{
		Name:     "web",
		Template: "web.yaml",
		Region:   "us-east-1",
	}, nil)
	f.files.On("ReadFile", "web.yaml").Return("Value: {{resolve:ssm:/app/key}}", nil)

	resolved, err := f.ResolveStack(context.Background(), "web")

	require.NoError(t, err)
	assert.Equal(t, "Value: {{resolve:ssm:/app/key}}", resolved.Input.TemplateBody)
}

func TestStackResolver_OutputParameter(t *testing.T) {
	f := newResolverFixture()
	f.provider.On("GetStack", "app").Return(&config.StackConfig{
		Name:     "app",
		Template: "app.yaml",
		Region:   "us-east-1",
		Parameters: map[string]*config.ParameterValue{
			"VpcId": {
				ResolutionType:   config.ResolutionOutput,
				ResolutionConfig: map[string]string{"stack_name": "vpc", "output_key": "VpcId"},
			},
			"ZoneId": {
				ResolutionType:   config.ResolutionOutput,
				ResolutionConfig: map[string]string{"stack_name": "dns", "output_key": "ZoneId", "region": "us-west-2"},
			},
		},
	}, nil)
	f.files.On("ReadFile", "app.yaml").Return("Resources: {}", nil)

	vpc := model.NewTestStack("vpc", types.StackStatusCreateComplete)
	vpc.Outputs = map[string]model.Output{"VpcId": {Key: "VpcId", Value: "vpc-123"}}
	dns := model.NewTestStack("dns", types.StackStatusUpdateComplete)
	dns.Outputs = map[string]model.Output{"ZoneId": {Key: "ZoneId", Value: "Z42"}}

	east := &aws.MockCloudFormationOperations{}
	east.On("DescribeStack", mock.Anything, "vpc").Return(vpc, nil)
	west := &aws.MockCloudFormationOperations{}
	west.On("DescribeStack", mock.Anything, "dns").Return(dns, nil)
	f.clients.On("GetCloudFormationOperations", mock.Anything, "us-east-1").Return(east, nil)
	f.clients.On("GetCloudFormationOperations", mock.Anything, "us-west-2").Return(west, nil)

	resolved, err := f.ResolveStack(context.Background(), "app")

	require.NoError(t, err)
	assert.Equal(t, []model.Parameter{
		model.ValueParameter("VpcId", "vpc-123"),
		model.ValueParameter("ZoneId", "Z42"),
	}, resolved.Input.Parameters)
	east.AssertExpectations(t)
	west.AssertExpectations(t)
}

func TestStackResolver_OutputParameterErrors(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]string
		stack    *model.Stack
		want     string
	}{
		{"missing settings", map[string]string{"stack_name": "vpc"}, nil, "needs stack_name and output_key"},
		{"stack missing", map[string]string{"stack_name": "vpc", "output_key": "VpcId"}, nil, "stack vpc does not exist"},
		{"output missing", map[string]string{"stack_name": "vpc", "output_key": "VpcId"}, model.NewTestStack("vpc", types.StackStatusCreateComplete), "stack vpc has no output VpcId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newResolverFixture()
			f.provider.On("GetStack", "app").Return(&config.StackConfig{
				Name:     "app",
				Template: "app.yaml",
				Region:   "us-east-1",
				Parameters: map[string]*config.ParameterValue{
					"VpcId": {ResolutionType: config.ResolutionOutput, ResolutionConfig: tt.settings},
				},
			}, nil)
			f.files.On("ReadFile", "app.yaml").Return("Resources: {}", nil)
			ops := &aws.MockCloudFormationOperations{}
			if tt.stack != nil {
				ops.On("DescribeStack", mock.Anything, "vpc").Return(tt.stack, nil)
			} else {
				ops.On("DescribeStack", mock.Anything, "vpc").Return(nil, nil)
			}
			f.clients.On("GetCloudFormationOperations", mock.Anything, "us-east-1").Return(ops, nil)

			_, err := f.ResolveStack(context.Background(), "app")

			assert.ErrorContains(t, err, "failed to resolve parameter VpcId")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestStackResolver_UnsupportedResolutionType(t *testing.T) {
	f := newResolverFixture()
	f.provider.On("GetStack", "app").Return(&config.StackConfig{
		Name:     "app",
		Template: "app.yaml",
		Region:   "us-east-1",
		Parameters: map[string]*config.ParameterValue{
			"Secret": {ResolutionType: "vault"},
		},
	}, nil)
	f.files.On("ReadFile", "app.yaml").Return("Resources: {}", nil)

	_, err := f.ResolveStack(context.Background(), "app")

	assert.ErrorContains(t, err, `unsupported resolution type "vault"`)
}

func TestStackResolver_Errors(t *testing.T) {
	f := newResolverFixture()
	f.provider.On("GetStack", "missing").Return(nil, errors.New("stack 'missing' not found in configuration"))
	f.provider.On("GetStack", "app").Return(&config.StackConfig{Name: "app", Template: "app.yaml", Region: "us-east-1"}, nil)
	f.files.On("ReadFile", "app.yaml").Return("", errors.New("permission denied"))

	_, err := f.ResolveStack(context.Background(), "missing")
	assert.ErrorContains(t, err, "failed to get stack missing")

	_, err = f.ResolveStack(context.Background(), "app")
	assert.ErrorContains(t, err, "stack app: failed to read template: permission denied")
}

func TestStackResolver_ResolveStackSet(t *testing.T) {
	f := newResolverFixture()
	f.provider.On("GetStackSet", "baseline").Return(&config.StackSetConfig{
		Name:               "baseline",
		Template:           "baseline.yaml",
		Region:             "us-east-1",
		Description:        "account baseline",
		Parameters:         map[string]*config.ParameterValue{"Env": literal("prod")},
		Tags:               map[string]string{"Owner": "security"},
		PermissionModel:    "SELF_MANAGED",
		Accounts:           []string{"111111111111"},
		Regions:            []string{"us-east-1", "eu-west-1"},
		MaxConcurrentCount: opt.Some(int32(2)),
		RegionConcurrency:  "PARALLEL",
	}, nil)
	f.files.On("ReadFile", "baseline.yaml").Return("Resources: {}", nil)

	resolved, err := f.ResolveStackSet(context.Background(), "baseline")

	require.NoError(t, err)
	in := resolved.Input
	assert.Equal(t, "baseline", in.StackSetName)
	assert.Equal(t, "account baseline", in.Description.OrElse(""))
	assert.Equal(t, "SELF_MANAGED", in.PermissionModel.OrElse(""))
	assert.False(t, in.ExecutionRoleName.IsSet())
	assert.Equal(t, []model.Parameter{model.ValueParameter("Env", "prod")}, in.Parameters)
	assert.Equal(t, int32(2), in.Preferences.MaxConcurrentCount.OrElse(0))
	assert.False(t, in.Preferences.FailureToleranceCount.IsSet())
	assert.Equal(t, "PARALLEL", in.Preferences.RegionConcurrency.OrElse(""))
	assert.NoError(t, in.Validate())
}
