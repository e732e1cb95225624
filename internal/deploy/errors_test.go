/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/status"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&StackNotExistError{StackName: "app"}, "stack app does not exist"},
		{&ReviewInProgressError{StackName: "app"}, "stack app is in REVIEW_IN_PROGRESS: delete it and deploy again"},
		{&DeployStackFailedError{StackName: "app", Status: status.StackRollbackComplete}, "deploy of stack app failed with status ROLLBACK_COMPLETE"},
		{&DeployStackFailedError{StackName: "app", Status: status.StackCreateFailed, Reason: "Bucket exists"}, "deploy of stack app failed with status CREATE_FAILED: Bucket exists"},
		{&DeleteStackFailedError{StackName: "app", Status: status.StackDeleteFailed, Reason: "in use"}, "delete of stack app failed with status DELETE_FAILED: in use"},
		{&ChangeSetFailedError{StackName: "app", ChangeSetName: "cs", Reason: "bad"}, "change set cs for stack app failed: bad"},
		{&StackSetOperationFailedError{StackSetName: "set", OperationID: "op", Status: status.OperationFailed}, "operation op on stack set set ended with status FAILED"},
		{
			&StackInstanceFailedError{
				StackSetName: "set",
				Instance:     &model.StackInstance{Account: "111", Region: "us-east-1", Status: status.InstanceInoperable},
				Failed:       1,
				Total:        3,
			},
			"1 of 3 stack instances of set failed; 111/us-east-1 is INOPERABLE",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestErrorsCarryConsoleURL(t *testing.T) {
	err := fmt.Errorf("deploy: %w", &DeployStackFailedError{StackName: "app", URL: "https://console"})

	var linker ConsoleLinker
	assert.True(t, errors.As(err, &linker))
	assert.Equal(t, "https://console", linker.ConsoleURL())
}
