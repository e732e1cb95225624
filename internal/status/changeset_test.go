/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeSetStatus_Predicates(t *testing.T) {
	tests := []struct {
		raw        string
		inProgress bool
		complete   bool
		failed     bool
		deletion   bool
	}{
		{"CREATE_PENDING", true, false, false, false},
		{"CREATE_IN_PROGRESS", true, false, false, false},
		{"CREATE_COMPLETE", false, true, false, false},
		{"DELETE_PENDING", true, false, false, true},
		{"DELETE_IN_PROGRESS", true, false, false, true},
		{"DELETE_COMPLETE", false, true, false, true},
		{"DELETE_FAILED", false, false, true, true},
		{"FAILED", false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s, err := ParseChangeSetStatus(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.inProgress, s.IsInProgress())
			assert.Equal(t, tt.complete, s.IsComplete())
			assert.Equal(t, tt.failed, s.IsFailed())
			assert.Equal(t, tt.deletion, s.IsDeletion())
			assert.Equal(t, !tt.inProgress, s.IsStopped())
		})
	}

	_, err := ParseChangeSetStatus("CREATED")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestChangeSetExecutionStatus_Predicates(t *testing.T) {
	tests := []struct {
		raw        string
		executable bool
		inProgress bool
		stopped    bool
		failed     bool
	}{
		{"UNAVAILABLE", false, false, false, false},
		{"AVAILABLE", true, false, false, false},
		{"EXECUTE_IN_PROGRESS", false, true, false, false},
		{"EXECUTE_COMPLETE", false, false, true, false},
		{"EXECUTE_FAILED", false, false, true, true},
		{"OBSOLETE", false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s, err := ParseChangeSetExecutionStatus(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.executable, s.IsExecutable())
			assert.Equal(t, tt.inProgress, s.IsInProgress())
			assert.Equal(t, tt.stopped, s.IsStopped())
			assert.Equal(t, tt.failed, s.IsFailed())
		})
	}

	_, err := ParseChangeSetExecutionStatus("")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
