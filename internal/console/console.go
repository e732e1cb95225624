/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package console builds AWS console deep links printed alongside deploy
// progress and failures. Links are informational only.
package console

import (
	"fmt"
	"net/url"
	"strings"
)

// DNSSuffix returns the service domain of the partition a region belongs to
func DNSSuffix(region string) string {
	switch {
	case strings.HasPrefix(region, "cn-"):
		return "amazonaws.com.cn"
	default:
		return "amazonaws.com"
	}
}

// consoleHost returns the console host for the region's partition
func consoleHost(region string) string {
	switch {
	case strings.HasPrefix(region, "cn-"):
		return fmt.Sprintf("%s.console.amazonaws.cn", region)
	case strings.HasPrefix(region, "us-gov-"):
		return "console.amazonaws-us-gov.com"
	default:
		return fmt.Sprintf("%s.console.aws.amazon.com", region)
	}
}

func cloudFormationURL(region, fragment string) string {
	return fmt.Sprintf("https://%s/cloudformation/home?region=%s#%s", consoleHost(region), region, fragment)
}

// StackURL links to the stack info page. stackID may be a name or an ARN.
func StackURL(region, stackID string) string {
	return cloudFormationURL(region, "/stacks/stackinfo?stackId="+url.QueryEscape(stackID))
}

// StackEventsURL links to the events tab of a stack
func StackEventsURL(region, stackID string) string {
	return cloudFormationURL(region, "/stacks/events?stackId="+url.QueryEscape(stackID))
}

// ChangeSetURL links to the changes tab of a change set
func ChangeSetURL(region, stackID, changeSetID string) string {
	return cloudFormationURL(region, fmt.Sprintf("/stacks/changesets/changes?stackId=%s&changeSetId=%s",
		url.QueryEscape(stackID), url.QueryEscape(changeSetID)))
}

// StackSetURL links to a self-managed stack set's info page
func StackSetURL(region, stackSetName string) string {
	return cloudFormationURL(region, fmt.Sprintf("/stacksets/%s/info?permissions=self", url.PathEscape(stackSetName)))
}

// StackInstancesURL links to the instances tab of a stack set
func StackInstancesURL(region, stackSetName string) string {
	return cloudFormationURL(region, fmt.Sprintf("/stacksets/%s/stacks?permissions=self", url.PathEscape(stackSetName)))
}

// RegionFromARN extracts the region from a CloudFormation ARN, or "" when the
// value is not an ARN
func RegionFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 || parts[0] != "arn" {
		return ""
	}
	return parts[3]
}
