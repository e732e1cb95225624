/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package status

// ChangeSetStatus represents the creation status of a change set
type ChangeSetStatus string

const (
	ChangeSetCreatePending    ChangeSetStatus = "CREATE_PENDING"
	ChangeSetCreateInProgress ChangeSetStatus = "CREATE_IN_PROGRESS"
	ChangeSetCreateComplete   ChangeSetStatus = "CREATE_COMPLETE"
	ChangeSetDeletePending    ChangeSetStatus = "DELETE_PENDING"
	ChangeSetDeleteInProgress ChangeSetStatus = "DELETE_IN_PROGRESS"
	ChangeSetDeleteComplete   ChangeSetStatus = "DELETE_COMPLETE"
	ChangeSetDeleteFailed     ChangeSetStatus = "DELETE_FAILED"
	ChangeSetFailed           ChangeSetStatus = "FAILED"
)

var allChangeSetStatuses = newSet(
	ChangeSetCreatePending,
	ChangeSetCreateInProgress,
	ChangeSetCreateComplete,
	ChangeSetDeletePending,
	ChangeSetDeleteInProgress,
	ChangeSetDeleteComplete,
	ChangeSetDeleteFailed,
	ChangeSetFailed,
)

var changeSetInProgress = newSet(
	ChangeSetCreatePending,
	ChangeSetCreateInProgress,
	ChangeSetDeletePending,
	ChangeSetDeleteInProgress,
)

var changeSetComplete = newSet(ChangeSetCreateComplete, ChangeSetDeleteComplete)

var changeSetFailed = newSet(ChangeSetFailed, ChangeSetDeleteFailed)

var changeSetDeletion = newSet(
	ChangeSetDeletePending,
	ChangeSetDeleteInProgress,
	ChangeSetDeleteComplete,
	ChangeSetDeleteFailed,
)

// ParseChangeSetStatus converts a raw status string into a ChangeSetStatus
func ParseChangeSetStatus(raw string) (ChangeSetStatus, error) {
	return parse("change set status", raw, allChangeSetStatuses)
}

func (s ChangeSetStatus) String() string {
	return string(s)
}

func (s ChangeSetStatus) IsInProgress() bool {
	return changeSetInProgress.has(s)
}

func (s ChangeSetStatus) IsComplete() bool {
	return changeSetComplete.has(s)
}

func (s ChangeSetStatus) IsFailed() bool {
	return changeSetFailed.has(s)
}

func (s ChangeSetStatus) IsSuccess() bool {
	return s.IsComplete()
}

// IsDeletion reports whether the change set is being or has been deleted
func (s ChangeSetStatus) IsDeletion() bool {
	return changeSetDeletion.has(s)
}

func (s ChangeSetStatus) IsStopped() bool {
	return allChangeSetStatuses.has(s) && !s.IsInProgress()
}

// ChangeSetExecutionStatus represents whether a change set can be or has been executed
type ChangeSetExecutionStatus string

const (
	ExecutionUnavailable ChangeSetExecutionStatus = "UNAVAILABLE"
	ExecutionAvailable   ChangeSetExecutionStatus = "AVAILABLE"
	ExecutionInProgress  ChangeSetExecutionStatus = "EXECUTE_IN_PROGRESS"
	ExecutionComplete    ChangeSetExecutionStatus = "EXECUTE_COMPLETE"
	ExecutionFailed      ChangeSetExecutionStatus = "EXECUTE_FAILED"
	ExecutionObsolete    ChangeSetExecutionStatus = "OBSOLETE"
)

var allExecutionStatuses = newSet(
	ExecutionUnavailable,
	ExecutionAvailable,
	ExecutionInProgress,
	ExecutionComplete,
	ExecutionFailed,
	ExecutionObsolete,
)

var executionStopped = newSet(ExecutionComplete, ExecutionFailed, ExecutionObsolete)

// ParseChangeSetExecutionStatus converts a raw string into a ChangeSetExecutionStatus
func ParseChangeSetExecutionStatus(raw string) (ChangeSetExecutionStatus, error) {
	return parse("change set execution status", raw, allExecutionStatuses)
}

func (s ChangeSetExecutionStatus) String() string {
	return string(s)
}

// IsExecutable returns true when the change set can be executed now
func (s ChangeSetExecutionStatus) IsExecutable() bool {
	return s == ExecutionAvailable
}

func (s ChangeSetExecutionStatus) IsInProgress() bool {
	return s == ExecutionInProgress
}

func (s ChangeSetExecutionStatus) IsFailed() bool {
	return s == ExecutionFailed
}

func (s ChangeSetExecutionStatus) IsSuccess() bool {
	return s == ExecutionComplete
}

func (s ChangeSetExecutionStatus) IsStopped() bool {
	return executionStopped.has(s)
}
