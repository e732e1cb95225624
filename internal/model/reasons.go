/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import "strings"

// CloudFormation reports benign "nothing to do" conditions only through
// free-text reasons. These substring checks are tied to the service's wording.
const (
	noChangesReason = "didn't contain changes"
	noUpdatesReason = "No updates are to be performed"
	notExistReason  = "does not exist"
)

func isNoChangesReason(reason string) bool {
	return strings.Contains(reason, noChangesReason)
}

// IsNoUpdatesMessage reports whether an update error means nothing changed
func IsNoUpdatesMessage(msg string) bool {
	return strings.Contains(msg, noUpdatesReason)
}

// IsNotExistMessage reports whether an error message means the resource is missing
func IsNotExistMessage(msg string) bool {
	return strings.Contains(msg, notExistReason)
}
