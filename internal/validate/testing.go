/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package validate

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockValidator implements Validator for testing
type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) ValidateSingleStack(ctx context.Context, stackName string) error {
	args := m.Called(ctx, stackName)
	return args.Error(0)
}

func (m *MockValidator) ValidateAllStacks(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ Validator = (*MockValidator)(nil)
