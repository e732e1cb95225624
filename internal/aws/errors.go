/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
	"github.com/orien/stackpilot/internal/model"
)

// isNotFoundError reports whether err means the addressed stack, stack set or
// stack instance does not exist
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var stackSetNotFound *types.StackSetNotFoundException
	if errors.As(err, &stackSetNotFound) {
		return true
	}
	var instanceNotFound *types.StackInstanceNotFoundException
	if errors.As(err, &instanceNotFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == "ValidationError" {
			return model.IsNotExistMessage(apiErr.ErrorMessage())
		}
		return false
	}

	return model.IsNotExistMessage(err.Error())
}

// isNoUpdatesError reports whether an update was rejected only because the
// stack already matches the request
func isNoUpdatesError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ValidationError" && model.IsNoUpdatesMessage(apiErr.ErrorMessage())
	}
	return model.IsNoUpdatesMessage(err.Error())
}

// isAlreadyExistsError reports whether a create failed because the target exists
func isAlreadyExistsError(err error) bool {
	var exists *types.AlreadyExistsException
	if errors.As(err, &exists) {
		return true
	}
	var nameExists *types.NameAlreadyExistsException
	if errors.As(err, &nameExists) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "already exists")
}
