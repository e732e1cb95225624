/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetResourceTypeURL(t *testing.T) {
	tests := []struct {
		name         string
		resourceType string
		expected     string
	}{
		{"S3 Bucket", "AWS::S3::Bucket", CloudFormationDocsBaseURL + "aws-resource-s3-bucket.html"},
		{"DynamoDB Table", "AWS::DynamoDB::Table", CloudFormationDocsBaseURL + "aws-resource-dynamodb-table.html"},
		{"nested stack", "AWS::CloudFormation::Stack", CloudFormationDocsBaseURL + "aws-resource-cloudformation-stack.html"},
		{"custom resource", "Custom::Thing", ""},
		{"third party", "Acme::Widget::Thing", ""},
		{"too few parts", "AWS::S3", ""},
		{"too many parts", "AWS::S3::Bucket::Extra", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetResourceTypeURL(tt.resourceType))
		})
	}
}

func TestHyperlinkResourceType(t *testing.T) {
	assert.Equal(t,
		"\033]8;;https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-s3-bucket.html\033\\AWS::S3::Bucket\033]8;;\033\\",
		HyperlinkResourceType("AWS::S3::Bucket"))
	assert.Equal(t, "Custom::Thing", HyperlinkResourceType("Custom::Thing"))
}
