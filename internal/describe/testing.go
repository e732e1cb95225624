/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDescriber implements Describer for testing
type MockDescriber struct {
	mock.Mock
}

func (m *MockDescriber) DescribeStack(ctx context.Context, region, stackName string) (*StackDescription, error) {
	args := m.Called(ctx, region, stackName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StackDescription), args.Error(1)
}

func (m *MockDescriber) DescribeStackSet(ctx context.Context, region, stackSetName string) (*StackSetDescription, error) {
	args := m.Called(ctx, region, stackSetName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StackSetDescription), args.Error(1)
}

var _ Describer = (*MockDescriber)(nil)
