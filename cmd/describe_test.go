/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/describe"
	"github.com/orien/stackpilot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDescribeCommand_UsesConfiguredRegion(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	d := &describe.MockDescriber{}
	d.On("DescribeStack", mock.Anything, "eu-west-1", "app").Return(&describe.StackDescription{
		Name:    "app",
		Status:  "UPDATE_COMPLETE",
		Outputs: map[string]string{"Url": "https://app.example.com"},
	}, nil)
	SetDescriber(d)

	require.NoError(t, h.run("describe", "app"))

	assert.Contains(t, h.out.String(), "Stack: app")
	assert.Contains(t, h.out.String(), "https://app.example.com")
	d.AssertExpectations(t)
}

func TestDescribeCommand_RegionFlagWins(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	d := &describe.MockDescriber{}
	d.On("DescribeStack", mock.Anything, "ap-southeast-2", "app").Return(&describe.StackDescription{Name: "app"}, nil)
	SetDescriber(d)

	require.NoError(t, h.run("describe", "app", "-r", "ap-southeast-2"))
	d.AssertExpectations(t)
}

func TestDescribeCommand_Errors(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	d := &describe.MockDescriber{}
	d.On("DescribeStack", mock.Anything, "us-east-1", "network").Return(nil, errors.New("stack network does not exist"))
	SetDescriber(d)

	err := h.run("describe", "network")
	assert.EqualError(t, err, "failed to describe stack network: stack network does not exist")

	err = h.run("describe", "unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in configuration")
}

func TestDescribeCommand_DefaultDescriberReadsStack(t *testing.T) {
	h := newCLIHarness(t, testConfig)
	ops := &aws.MockCloudFormationOperations{}
	ops.On("DescribeStack", mock.Anything, "network").Return(model.NewTestStack("network", types.StackStatusCreateComplete), nil)
	h.clients.On("GetCloudFormationOperations", mock.Anything, "us-east-1").Return(ops, nil)

	require.NoError(t, h.run("describe", "network"))

	assert.Contains(t, h.out.String(), "Stack: network")
	assert.Contains(t, h.out.String(), "CREATE_COMPLETE")
}
