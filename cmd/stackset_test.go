/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"testing"

	"github.com/orien/stackpilot/internal/deploy"
	"github.com/orien/stackpilot/internal/describe"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/opt"
	"github.com/orien/stackpilot/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStackSetDeploy(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	var got deploy.DeployStackSetInput
	h.deployer.On("DeployStackSet", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(deploy.DeployStackSetInput) }).
		Return(&deploy.DeployStackSetResult{
			IsCreate:     true,
			OperationIDs: []string{"op-1"},
			Instances: []*model.StackInstance{
				{Account: "111111111111", Region: "us-east-1", Status: status.InstanceCurrent},
				{Account: "222222222222", Region: "us-east-1", Status: status.InstanceCurrent},
			},
		}, nil)

	require.NoError(t, h.run("stackset", "deploy", "baseline", "-y", "--fail-fast"))

	assert.Equal(t, "baseline", got.StackSetName)
	assert.Equal(t, h.template("baseline.yaml"), got.TemplateBody)
	assert.Equal(t, []string{"111111111111", "222222222222"}, got.Accounts)
	assert.Equal(t, []string{"us-east-1"}, got.Regions)
	assert.Equal(t, opt.Some(int32(2)), got.Preferences.MaxConcurrentCount)
	assert.True(t, got.SkipPrompt)
	assert.True(t, got.Wait)
	assert.True(t, got.RaiseErrorUntilExecStopped)
	assert.Contains(t, h.out.String(), "Stack set baseline deployed to 2 instance(s)")
}

func TestStackSetDeploy_FailureShowsInstanceLink(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	h.deployer.On("DeployStackSet", mock.Anything, mock.Anything).Return(nil, &deploy.StackInstanceFailedError{
		StackSetName: "baseline",
		Instance:     &model.StackInstance{Account: "111111111111", Region: "us-east-1", Status: status.InstanceInoperable},
		Failed:       1,
		Total:        2,
		URL:          "https://console/stacksets/baseline",
	})

	err := h.run("stackset", "deploy", "baseline")

	var instErr *deploy.StackInstanceFailedError
	require.ErrorAs(t, err, &instErr)
	assert.Contains(t, h.out.String(), "See https://console/stacksets/baseline")
}

func TestStackSetDelete(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	h.deployer.On("RemoveStackSet", mock.Anything, mock.MatchedBy(func(in deploy.RemoveStackSetInput) bool {
		return in.StackSetName == "baseline" && in.RetainStacks && in.SkipPrompt &&
			in.Preferences.MaxConcurrentCount == opt.Some(int32(2))
	})).Return(nil)

	require.NoError(t, h.run("stackset", "delete", "baseline", "--retain-stacks", "-y"))

	assert.Equal(t, []string{"us-east-1"}, h.regions)
	h.deployer.AssertExpectations(t)
}

func TestStackSetDescribe(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	d := &describe.MockDescriber{}
	d.On("DescribeStackSet", mock.Anything, "us-east-1", "baseline").Return(&describe.StackSetDescription{
		Name:   "baseline",
		Status: "ACTIVE",
		Instances: []*model.StackInstance{
			{Account: "111111111111", Region: "us-east-1", Status: status.InstanceCurrent},
		},
	}, nil)
	SetDescriber(d)

	require.NoError(t, h.run("stackset", "describe", "baseline"))

	assert.Contains(t, h.out.String(), "baseline")
	assert.Contains(t, h.out.String(), "111111111111/us-east-1")
}

func TestStackSetDeploy_UnknownStackSet(t *testing.T) {
	h := newCLIHarness(t, testConfig)

	err := h.run("stackset", "deploy", "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack set 'missing' not found in configuration")
}
