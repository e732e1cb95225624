/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"fmt"

	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/status"
)

// ConsoleLinker is implemented by errors that point at a console page useful
// for diagnosing them
type ConsoleLinker interface {
	ConsoleURL() string
}

// StackNotExistError is returned when an operation needs a live stack
type StackNotExistError struct {
	StackName string
	URL       string
}

func (e *StackNotExistError) Error() string {
	return fmt.Sprintf("stack %s does not exist", e.StackName)
}

func (e *StackNotExistError) ConsoleURL() string { return e.URL }

// ReviewInProgressError is returned when a stack was created by a change set
// that never executed. Such a stack can only be deleted.
type ReviewInProgressError struct {
	StackName string
	URL       string
}

func (e *ReviewInProgressError) Error() string {
	return fmt.Sprintf("stack %s is in %s: delete it and deploy again", e.StackName, status.StackReviewInProgress)
}

func (e *ReviewInProgressError) ConsoleURL() string { return e.URL }

// DeployStackFailedError is returned when a stack reaches a failed status
type DeployStackFailedError struct {
	StackName string
	Status    status.StackStatus
	Reason    string
	URL       string
}

func (e *DeployStackFailedError) Error() string {
	msg := fmt.Sprintf("deploy of stack %s failed with status %s", e.StackName, e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *DeployStackFailedError) ConsoleURL() string { return e.URL }

// DeleteStackFailedError is returned when a stack deletion fails
type DeleteStackFailedError struct {
	StackName string
	Status    status.StackStatus
	Reason    string
	URL       string
}

func (e *DeleteStackFailedError) Error() string {
	msg := fmt.Sprintf("delete of stack %s failed with status %s", e.StackName, e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *DeleteStackFailedError) ConsoleURL() string { return e.URL }

// ChangeSetFailedError is returned when a change set could not be created for
// a reason other than there being nothing to change
type ChangeSetFailedError struct {
	StackName     string
	ChangeSetName string
	Reason        string
	URL           string
}

func (e *ChangeSetFailedError) Error() string {
	return fmt.Sprintf("change set %s for stack %s failed: %s", e.ChangeSetName, e.StackName, e.Reason)
}

func (e *ChangeSetFailedError) ConsoleURL() string { return e.URL }

// StackInstanceFailedError aggregates stack instance failures, naming one
// representative instance
type StackInstanceFailedError struct {
	StackSetName string
	Instance     *model.StackInstance
	Failed       int
	Total        int
	URL          string
}

func (e *StackInstanceFailedError) Error() string {
	msg := fmt.Sprintf("%d of %d stack instances of %s failed; %s is %s",
		e.Failed, e.Total, e.StackSetName, e.Instance, e.Instance.LogicalStatus())
	if e.Instance.StatusReason != "" {
		msg += ": " + e.Instance.StatusReason
	}
	return msg
}

func (e *StackInstanceFailedError) ConsoleURL() string { return e.URL }

// StackSetOperationFailedError is returned when a stack set operation ends
// without succeeding
type StackSetOperationFailedError struct {
	StackSetName string
	OperationID  string
	Status       status.StackSetOperationStatus
	URL          string
}

func (e *StackSetOperationFailedError) Error() string {
	return fmt.Sprintf("operation %s on stack set %s ended with status %s", e.OperationID, e.StackSetName, e.Status)
}

func (e *StackSetOperationFailedError) ConsoleURL() string { return e.URL }

// StackSetNotExistError is returned when an operation needs a live stack set
type StackSetNotExistError struct {
	StackSetName string
	URL          string
}

func (e *StackSetNotExistError) Error() string {
	return fmt.Sprintf("stack set %s does not exist", e.StackSetName)
}

func (e *StackSetNotExistError) ConsoleURL() string { return e.URL }
