/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockFileReader implements FileReader for testing
type MockFileReader struct {
	mock.Mock
}

func (m *MockFileReader) ReadFile(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

// MockResolver implements Resolver for testing
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveStack(ctx context.Context, stackName string) (*ResolvedStack, error) {
	args := m.Called(ctx, stackName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ResolvedStack), args.Error(1)
}

func (m *MockResolver) ResolveStackSet(ctx context.Context, stackSetName string) (*ResolvedStackSet, error) {
	args := m.Called(ctx, stackSetName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ResolvedStackSet), args.Error(1)
}

func (m *MockResolver) GetDependencyOrder(stackNames []string) ([]string, error) {
	args := m.Called(stackNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var (
	_ FileReader = (*MockFileReader)(nil)
	_ Resolver   = (*MockResolver)(nil)
)
