/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package status

// StackSetStatus represents the status of a stack set
type StackSetStatus string

const (
	StackSetActive  StackSetStatus = "ACTIVE"
	StackSetDeleted StackSetStatus = "DELETED"
)

var allStackSetStatuses = newSet(StackSetActive, StackSetDeleted)

// ParseStackSetStatus converts a raw string into a StackSetStatus
func ParseStackSetStatus(raw string) (StackSetStatus, error) {
	return parse("stack set status", raw, allStackSetStatuses)
}

// IsLive returns true when the stack set has not been deleted
func (s StackSetStatus) IsLive() bool {
	return s == StackSetActive
}

// StackSetOperationStatus represents the status of a stack set operation
type StackSetOperationStatus string

const (
	OperationRunning   StackSetOperationStatus = "RUNNING"
	OperationSucceeded StackSetOperationStatus = "SUCCEEDED"
	OperationFailed    StackSetOperationStatus = "FAILED"
	OperationStopping  StackSetOperationStatus = "STOPPING"
	OperationStopped   StackSetOperationStatus = "STOPPED"
	OperationQueued    StackSetOperationStatus = "QUEUED"
)

var allOperationStatuses = newSet(
	OperationRunning,
	OperationSucceeded,
	OperationFailed,
	OperationStopping,
	OperationStopped,
	OperationQueued,
)

// ParseStackSetOperationStatus converts a raw string into a StackSetOperationStatus
func ParseStackSetOperationStatus(raw string) (StackSetOperationStatus, error) {
	return parse("stack set operation status", raw, allOperationStatuses)
}

// IsCompleted returns true if the operation is in a final state.
func (s StackSetOperationStatus) IsCompleted() bool {
	return s.IsSuccessful() || s.IsFailure()
}

// IsSuccessful returns true if the operation is completed successfully.
func (s StackSetOperationStatus) IsSuccessful() bool {
	return s == OperationSucceeded
}

// IsFailure returns true if the operation terminated in failure.
func (s StackSetOperationStatus) IsFailure() bool {
	return s == OperationStopped || s == OperationFailed
}

// StackInstanceStatus is the coarse status of a stack instance
type StackInstanceStatus string

const (
	InstanceCurrent    StackInstanceStatus = "CURRENT"
	InstanceOutdated   StackInstanceStatus = "OUTDATED"
	InstanceInoperable StackInstanceStatus = "INOPERABLE"
)

var allInstanceStatuses = newSet(InstanceCurrent, InstanceOutdated, InstanceInoperable)

// ParseStackInstanceStatus converts a raw string into a StackInstanceStatus
func ParseStackInstanceStatus(raw string) (StackInstanceStatus, error) {
	return parse("stack instance status", raw, allInstanceStatuses)
}

// StackInstanceDetailedStatus is the per-operation status of a stack instance
type StackInstanceDetailedStatus string

const (
	DetailedPending                 StackInstanceDetailedStatus = "PENDING"
	DetailedRunning                 StackInstanceDetailedStatus = "RUNNING"
	DetailedSucceeded               StackInstanceDetailedStatus = "SUCCEEDED"
	DetailedFailed                  StackInstanceDetailedStatus = "FAILED"
	DetailedCancelled               StackInstanceDetailedStatus = "CANCELLED"
	DetailedInoperable              StackInstanceDetailedStatus = "INOPERABLE"
	DetailedSkippedSuspendedAccount StackInstanceDetailedStatus = "SKIPPED_SUSPENDED_ACCOUNT"
	DetailedFailedImport            StackInstanceDetailedStatus = "FAILED_IMPORT"
)

var allDetailedStatuses = newSet(
	DetailedPending,
	DetailedRunning,
	DetailedSucceeded,
	DetailedFailed,
	DetailedCancelled,
	DetailedInoperable,
	DetailedSkippedSuspendedAccount,
	DetailedFailedImport,
)

// ParseStackInstanceDetailedStatus converts a raw string into a StackInstanceDetailedStatus.
// An empty string is accepted and means the API did not report a detailed status.
func ParseStackInstanceDetailedStatus(raw string) (StackInstanceDetailedStatus, error) {
	if raw == "" {
		return "", nil
	}
	return parse("stack instance detailed status", raw, allDetailedStatuses)
}

// LogicalStatus is the simplified state of a stack instance derived from its
// status and detailed status
type LogicalStatus string

const (
	LogicalInProgress LogicalStatus = "IN_PROGRESS"
	LogicalSucceeded  LogicalStatus = "SUCCEEDED"
	LogicalFailed     LogicalStatus = "FAILED"
	LogicalCancelled  LogicalStatus = "CANCELLED"
	LogicalSkipped    LogicalStatus = "SKIPPED"
	LogicalOutdated   LogicalStatus = "OUTDATED"
	LogicalInoperable LogicalStatus = "INOPERABLE"
)

// LogicalStatusOf derives the logical status of a stack instance
func LogicalStatusOf(s StackInstanceStatus, detailed StackInstanceDetailedStatus) LogicalStatus {
	switch detailed {
	case DetailedPending, DetailedRunning:
		return LogicalInProgress
	case DetailedSucceeded:
		return LogicalSucceeded
	case DetailedFailed, DetailedFailedImport:
		return LogicalFailed
	case DetailedCancelled:
		return LogicalCancelled
	case DetailedInoperable:
		return LogicalInoperable
	case DetailedSkippedSuspendedAccount:
		return LogicalSkipped
	}

	switch s {
	case InstanceCurrent:
		return LogicalSucceeded
	case InstanceInoperable:
		return LogicalInoperable
	default:
		return LogicalOutdated
	}
}

func (s LogicalStatus) IsInProgress() bool {
	return s == LogicalInProgress
}

func (s LogicalStatus) IsStopped() bool {
	return s != LogicalInProgress
}

// IsFailed returns true when the last operation on the instance did not apply
func (s LogicalStatus) IsFailed() bool {
	return s == LogicalFailed || s == LogicalCancelled || s == LogicalInoperable
}

func (s LogicalStatus) IsSuccess() bool {
	return s == LogicalSucceeded
}
