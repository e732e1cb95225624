/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"testing"
	"time"

	"github.com/orien/stackpilot/internal/deploy"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stackNamed(name string) any {
	return mock.MatchedBy(func(in deploy.DeployStackInput) bool { return in.StackName == name })
}

func TestDeployCommand_Flags(t *testing.T) {
	cmd := findCommand(rootCmd, "deploy")
	require.NotNil(t, cmd)

	for _, name := range []string{"all", "skip-prompt", "skip-plan", "no-wait", "include-nested", "wait-until-stopped", "delays", "timeout"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "y", cmd.Flags().Lookup("skip-prompt").Shorthand)
	assert.Equal(t, "5s", cmd.Flags().Lookup("delays").DefValue)
}

func TestDeployCommand_RequiresStackOrAll(t *testing.T) {
	h := newCLIHarness(t, testConfig)

	err := h.run("deploy")

	assert.EqualError(t, err, "specify at least one stack name or --all")
	h.deployer.AssertNotCalled(t, "DeployStack", mock.Anything, mock.Anything)
}

func TestDeployCommand_DeploysAllInDependencyOrder(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	var order []string
	h.deployer.On("DeployStack", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			order = append(order, args.Get(1).(deploy.DeployStackInput).StackName)
		}).
		Return(&deploy.DeployStackResult{IsCreate: true, IsDeployHappened: true, Outcome: deploy.OutcomeCreated}, nil)

	require.NoError(t, h.run("deploy", "--all", "-y"))

	assert.Equal(t, []string{"network", "app"}, order)
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, h.regions)
	assert.Contains(t, h.out.String(), "Stack network created")
	assert.Contains(t, h.out.String(), "Stack app created")
}

func TestDeployCommand_PassesResolvedInput(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	var got deploy.DeployStackInput
	h.deployer.On("DeployStack", mock.Anything, stackNamed("app")).
		Run(func(args mock.Arguments) { got = args.Get(1).(deploy.DeployStackInput) }).
		Return(&deploy.DeployStackResult{IsDeployHappened: true, Outcome: deploy.OutcomeUpdated}, nil)

	require.NoError(t, h.run("deploy", "app", "--skip-prompt", "--include-nested", "--delays", "1s", "--timeout", "10m"))

	assert.Equal(t, h.template("app.yaml"), got.TemplateBody)
	assert.Equal(t, []model.Parameter{model.ValueParameter("Environment", "prod")}, got.Parameters)
	assert.Equal(t, map[string]string{"Team": "platform"}, got.Tags)
	assert.Equal(t, deploy.StrategyChangeSet, got.Strategy)
	assert.True(t, got.SkipPrompt)
	assert.True(t, got.Wait)
	assert.True(t, got.IncludeNestedStacks)
	assert.Equal(t, time.Second, got.Delays)
	assert.Equal(t, 10*time.Minute, got.Timeout)
	assert.Contains(t, h.out.String(), "Stack app updated")
}

func TestDeployCommand_SkipPlanNoWait(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	h.deployer.On("DeployStack", mock.Anything, mock.MatchedBy(func(in deploy.DeployStackInput) bool {
		return in.StackName == "network" && in.Strategy == deploy.StrategyDirect && !in.Wait
	})).Return(&deploy.DeployStackResult{IsDeployHappened: true, Outcome: deploy.OutcomeUpdated}, nil)

	require.NoError(t, h.run("deploy", "network", "--skip-plan", "--no-wait"))

	assert.Contains(t, h.out.String(), "Deployment of stack network started")
	h.deployer.AssertExpectations(t)
}

func TestDeployCommand_ReportsNoChangesAndDeclined(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	h.deployer.On("DeployStack", mock.Anything, stackNamed("network")).
		Return(&deploy.DeployStackResult{Outcome: deploy.OutcomeNoChanges}, nil)
	h.deployer.On("DeployStack", mock.Anything, stackNamed("app")).
		Return(&deploy.DeployStackResult{IsCreate: true, Outcome: deploy.OutcomeDeclined}, nil)

	require.NoError(t, h.run("deploy", "network", "app"))

	assert.Contains(t, h.out.String(), "Stack network is up to date")
	assert.Contains(t, h.out.String(), "Deployment of stack app cancelled")
}

func TestDeployCommand_RegionOverride(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	h.deployer.On("DeployStack", mock.Anything, stackNamed("app")).
		Return(&deploy.DeployStackResult{Outcome: deploy.OutcomeNoChanges}, nil)

	require.NoError(t, h.run("deploy", "app", "--region", "ap-southeast-2"))

	assert.Equal(t, []string{"ap-southeast-2"}, h.regions)
}

func TestDeployCommand_StopsOnFailureWithConsoleLink(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	h.deployer.On("DeployStack", mock.Anything, stackNamed("network")).
		Return(nil, &deploy.DeployStackFailedError{
			StackName: "network",
			Status:    status.StackRollbackComplete,
			URL:       "https://console.aws.amazon.com/network",
		})

	err := h.run("deploy", "--all")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error deploying stack network")
	var failed *deploy.DeployStackFailedError
	assert.ErrorAs(t, err, &failed)
	assert.Contains(t, h.out.String(), "See https://console.aws.amazon.com/network")
	h.deployer.AssertNotCalled(t, "DeployStack", mock.Anything, stackNamed("app"))
}

func TestDeployCommand_UnknownStack(t *testing.T) {
	h := newCLIHarness(t, testConfig)

	err := h.run("deploy", "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack 'missing' not found in configuration")
}
