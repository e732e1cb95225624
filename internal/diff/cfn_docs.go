/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"fmt"
	"strings"

	"github.com/orien/stackpilot/internal/console"
)

// CloudFormationDocsBaseURL is the base URL for CloudFormation resource documentation
const CloudFormationDocsBaseURL = "https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/"

// GetResourceTypeURL returns the CloudFormation documentation URL for a
// resource type such as "AWS::S3::Bucket", or "" when the type does not follow
// the AWS::Service::Resource pattern.
//
//	GetResourceTypeURL("AWS::S3::Bucket")
//	// https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-s3-bucket.html
func GetResourceTypeURL(resourceType string) string {
	parts := strings.Split(resourceType, "::")
	if len(parts) != 3 || parts[0] != "AWS" {
		return ""
	}

	service := strings.ToLower(parts[1])
	resource := strings.ToLower(parts[2])

	return CloudFormationDocsBaseURL + fmt.Sprintf("aws-resource-%s-%s.html", service, resource)
}

// HyperlinkResourceType links a resource type to its documentation
func HyperlinkResourceType(resourceType string) string {
	url := GetResourceTypeURL(resourceType)
	if url == "" {
		return resourceType
	}
	return console.Hyperlink(url, resourceType)
}
