/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDeployer implements Deployer for testing
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) DeployStack(ctx context.Context, input DeployStackInput) (*DeployStackResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DeployStackResult), args.Error(1)
}

func (m *MockDeployer) RemoveStack(ctx context.Context, input RemoveStackInput) (*RemoveStackResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RemoveStackResult), args.Error(1)
}

func (m *MockDeployer) DeployStackSet(ctx context.Context, input DeployStackSetInput) (*DeployStackSetResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DeployStackSetResult), args.Error(1)
}

func (m *MockDeployer) RemoveStackSet(ctx context.Context, input RemoveStackSetInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockDeployer) ValidateTemplate(ctx context.Context, templateBody string) error {
	args := m.Called(ctx, templateBody)
	return args.Error(0)
}

var _ Deployer = (*MockDeployer)(nil)
var _ Deployer = (*StackDeployer)(nil)
