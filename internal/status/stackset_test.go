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

func TestLogicalStatusOf(t *testing.T) {
	tests := []struct {
		name     string
		status   StackInstanceStatus
		detailed StackInstanceDetailedStatus
		want     LogicalStatus
		stopped  bool
		failed   bool
	}{
		{"pending", InstanceOutdated, DetailedPending, LogicalInProgress, false, false},
		{"running", InstanceOutdated, DetailedRunning, LogicalInProgress, false, false},
		{"succeeded", InstanceCurrent, DetailedSucceeded, LogicalSucceeded, true, false},
		{"failed", InstanceOutdated, DetailedFailed, LogicalFailed, true, true},
		{"failed import", InstanceOutdated, DetailedFailedImport, LogicalFailed, true, true},
		{"cancelled", InstanceOutdated, DetailedCancelled, LogicalCancelled, true, true},
		{"inoperable", InstanceInoperable, DetailedInoperable, LogicalInoperable, true, true},
		{"skipped", InstanceOutdated, DetailedSkippedSuspendedAccount, LogicalSkipped, true, false},
		{"current without detail", InstanceCurrent, "", LogicalSucceeded, true, false},
		{"outdated without detail", InstanceOutdated, "", LogicalOutdated, true, false},
		{"inoperable without detail", InstanceInoperable, "", LogicalInoperable, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogicalStatusOf(tt.status, tt.detailed)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.stopped, got.IsStopped())
			assert.Equal(t, tt.failed, got.IsFailed())
		})
	}
}

func TestParseStackInstanceDetailedStatus(t *testing.T) {
	s, err := ParseStackInstanceDetailedStatus("")
	require.NoError(t, err)
	assert.Equal(t, StackInstanceDetailedStatus(""), s)

	s, err = ParseStackInstanceDetailedStatus("RUNNING")
	require.NoError(t, err)
	assert.Equal(t, DetailedRunning, s)

	_, err = ParseStackInstanceDetailedStatus("WALKING")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStackSetOperationStatus(t *testing.T) {
	tests := []struct {
		raw        string
		completed  bool
		successful bool
	}{
		{"RUNNING", false, false},
		{"QUEUED", false, false},
		{"STOPPING", false, false},
		{"SUCCEEDED", true, true},
		{"FAILED", true, false},
		{"STOPPED", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s, err := ParseStackSetOperationStatus(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.completed, s.IsCompleted())
			assert.Equal(t, tt.successful, s.IsSuccessful())
		})
	}
}

func TestParseStackSetStatus(t *testing.T) {
	s, err := ParseStackSetStatus("ACTIVE")
	require.NoError(t, err)
	assert.True(t, s.IsLive())

	s, err = ParseStackSetStatus("DELETED")
	require.NoError(t, err)
	assert.False(t, s.IsLive())

	_, err = ParseStackSetStatus("GONE")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
