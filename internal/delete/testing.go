/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package delete

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDeleter implements Deleter for testing
type MockDeleter struct {
	mock.Mock
}

func (m *MockDeleter) DeleteSingleStack(ctx context.Context, stackName string, opts Options) error {
	args := m.Called(ctx, stackName, opts)
	return args.Error(0)
}

func (m *MockDeleter) DeleteAllStacks(ctx context.Context, opts Options) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

var _ Deleter = (*MockDeleter)(nil)
