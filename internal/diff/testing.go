/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"context"

	"github.com/orien/stackpilot/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockChangeSetDescriber implements ChangeSetDescriber for testing
type MockChangeSetDescriber struct {
	mock.Mock
}

func (m *MockChangeSetDescriber) DescribeChangeSetAll(ctx context.Context, changeSetID string) (*model.ChangeSet, error) {
	args := m.Called(ctx, changeSetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChangeSet), args.Error(1)
}
