/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package status

// StackStatus represents the status of a CloudFormation stack
type StackStatus string

const (
	StackCreateInProgress                        StackStatus = "CREATE_IN_PROGRESS"
	StackCreateFailed                            StackStatus = "CREATE_FAILED"
	StackCreateComplete                          StackStatus = "CREATE_COMPLETE"
	StackRollbackInProgress                      StackStatus = "ROLLBACK_IN_PROGRESS"
	StackRollbackFailed                          StackStatus = "ROLLBACK_FAILED"
	StackRollbackComplete                        StackStatus = "ROLLBACK_COMPLETE"
	StackDeleteInProgress                        StackStatus = "DELETE_IN_PROGRESS"
	StackDeleteFailed                            StackStatus = "DELETE_FAILED"
	StackDeleteComplete                          StackStatus = "DELETE_COMPLETE"
	StackUpdateInProgress                        StackStatus = "UPDATE_IN_PROGRESS"
	StackUpdateCompleteCleanupInProgress         StackStatus = "UPDATE_COMPLETE_CLEANUP_IN_PROGRESS"
	StackUpdateComplete                          StackStatus = "UPDATE_COMPLETE"
	StackUpdateFailed                            StackStatus = "UPDATE_FAILED"
	StackUpdateRollbackInProgress                StackStatus = "UPDATE_ROLLBACK_IN_PROGRESS"
	StackUpdateRollbackFailed                    StackStatus = "UPDATE_ROLLBACK_FAILED"
	StackUpdateRollbackCompleteCleanupInProgress StackStatus = "UPDATE_ROLLBACK_COMPLETE_CLEANUP_IN_PROGRESS"
	StackUpdateRollbackComplete                  StackStatus = "UPDATE_ROLLBACK_COMPLETE"
	StackReviewInProgress                        StackStatus = "REVIEW_IN_PROGRESS"
	StackImportInProgress                        StackStatus = "IMPORT_IN_PROGRESS"
	StackImportComplete                          StackStatus = "IMPORT_COMPLETE"
	StackImportRollbackInProgress                StackStatus = "IMPORT_ROLLBACK_IN_PROGRESS"
	StackImportRollbackFailed                    StackStatus = "IMPORT_ROLLBACK_FAILED"
	StackImportRollbackComplete                  StackStatus = "IMPORT_ROLLBACK_COMPLETE"
)

var allStackStatuses = newSet(
	StackCreateInProgress,
	StackCreateFailed,
	StackCreateComplete,
	StackRollbackInProgress,
	StackRollbackFailed,
	StackRollbackComplete,
	StackDeleteInProgress,
	StackDeleteFailed,
	StackDeleteComplete,
	StackUpdateInProgress,
	StackUpdateCompleteCleanupInProgress,
	StackUpdateComplete,
	StackUpdateFailed,
	StackUpdateRollbackInProgress,
	StackUpdateRollbackFailed,
	StackUpdateRollbackCompleteCleanupInProgress,
	StackUpdateRollbackComplete,
	StackReviewInProgress,
	StackImportInProgress,
	StackImportComplete,
	StackImportRollbackInProgress,
	StackImportRollbackFailed,
	StackImportRollbackComplete,
)

var stackInProgress = newSet(
	StackCreateInProgress,
	StackRollbackInProgress,
	StackDeleteInProgress,
	StackUpdateInProgress,
	StackUpdateCompleteCleanupInProgress,
	StackUpdateRollbackInProgress,
	StackUpdateRollbackCompleteCleanupInProgress,
	StackReviewInProgress,
	StackImportInProgress,
	StackImportRollbackInProgress,
)

var stackComplete = newSet(
	StackCreateComplete,
	StackRollbackComplete,
	StackDeleteComplete,
	StackUpdateComplete,
	StackUpdateRollbackComplete,
	StackImportComplete,
	StackImportRollbackComplete,
)

// Rollback states count as failed while still in progress so callers can
// report a failure without waiting for the rollback to settle.
var stackFailed = newSet(
	StackCreateFailed,
	StackRollbackInProgress,
	StackRollbackFailed,
	StackRollbackComplete,
	StackDeleteFailed,
	StackUpdateFailed,
	StackUpdateRollbackInProgress,
	StackUpdateRollbackFailed,
	StackUpdateRollbackCompleteCleanupInProgress,
	StackUpdateRollbackComplete,
	StackImportRollbackInProgress,
	StackImportRollbackFailed,
	StackImportRollbackComplete,
)

var stackSuccess = newSet(
	StackCreateComplete,
	StackDeleteComplete,
	StackUpdateComplete,
	StackImportComplete,
)

// ParseStackStatus converts a raw status string into a StackStatus
func ParseStackStatus(raw string) (StackStatus, error) {
	return parse("stack status", raw, allStackStatuses)
}

// AllStackStatuses returns every known stack status
func AllStackStatuses() []StackStatus {
	out := make([]StackStatus, 0, len(allStackStatuses))
	for s := range allStackStatuses {
		out = append(out, s)
	}
	return out
}

func (s StackStatus) String() string {
	return string(s)
}

// IsInProgress returns true while CloudFormation is still working on the stack
func (s StackStatus) IsInProgress() bool {
	return stackInProgress.has(s)
}

// IsComplete returns true for every *_COMPLETE status
func (s StackStatus) IsComplete() bool {
	return stackComplete.has(s)
}

// IsFailed returns true for failed and rolled-back (or rolling back) statuses
func (s StackStatus) IsFailed() bool {
	return stackFailed.has(s)
}

// IsSuccess returns true when the last operation succeeded
func (s StackStatus) IsSuccess() bool {
	return stackSuccess.has(s)
}

// IsStopped returns true when no operation is running on the stack
func (s StackStatus) IsStopped() bool {
	return allStackStatuses.has(s) && !s.IsInProgress()
}

// IsLive returns true when the stack exists. Deleted stacks are not live.
func (s StackStatus) IsLive() bool {
	return allStackStatuses.has(s) && s != StackDeleteComplete
}
