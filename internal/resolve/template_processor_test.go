/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSprigTemplateProcessor_Substitution(t *testing.T) {
	processor := NewSprigTemplateProcessor()

	content := `Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: {{ .StackName }}-{{ .Region }}-{{ .domain | replace "." "-" }}`

	result, err := processor.Process("bucket.yaml.tmpl", content, map[string]any{
		"StackName": "assets",
		"Region":    "us-east-1",
		"domain":    "example.com",
	})

	require.NoError(t, err)
	assert.Contains(t, result, "BucketName: assets-us-east-1-example-com")
}

func TestSprigTemplateProcessor_UserDataIndentation(t *testing.T) {
	processor := NewSprigTemplateProcessor()

	content := `      UserData:
        Fn::Base64: |
{{- .script | nindent 10 }}`

	result, err := processor.Process("web.yaml.tmpl", content, map[string]any{
		"script": "#!/bin/bash\nyum update -y",
	})

	require.NoError(t, err)
	assert.Contains(t, result, "          #!/bin/bash")
	assert.Contains(t, result, "          yum update -y")
}

func TestSprigTemplateProcessor_ControlFlow(t *testing.T) {
	processor := NewSprigTemplateProcessor()

	content := `Resources:
{{- if .monitoring }}
  Alarm:
    Type: AWS::CloudWatch::Alarm
{{- end }}
{{- range $i, $az := .zones }}
  Subnet{{ $i }}:
    Type: AWS::EC2::Subnet
    Properties:
      AvailabilityZone: {{ $az | quote }}
{{- end }}`

	result, err := processor.Process("net.yaml.tmpl", content, map[string]any{
		"monitoring": true,
		"zones":      []any{"us-east-1a", "us-east-1b"},
	})

	require.NoError(t, err)
	assert.Contains(t, result, "Alarm:")
	assert.Contains(t, result, `Subnet1:`)
	assert.Contains(t, result, `AvailabilityZone: "us-east-1b"`)
}

func TestSprigTemplateProcessor_Defaults(t *testing.T) {
	processor := NewSprigTemplateProcessor()

	result, err := processor.Process("t.tmpl", `Env: {{ .env | default "dev" }}`, map[string]any{})

	require.NoError(t, err)
	assert.Equal(t, "Env: dev", result)
}

func TestSprigTemplateProcessor_Errors(t *testing.T) {
	processor := NewSprigTemplateProcessor()

	_, err := processor.Process("broken.tmpl", `{{ .unclosed`, nil)
	assert.ErrorContains(t, err, "failed to parse template broken.tmpl")

	_, err = processor.Process("unknown.tmpl", `{{ .x | notAFunction }}`, nil)
	assert.ErrorContains(t, err, "failed to parse template unknown.tmpl")

	_, err = processor.Process("fail.tmpl", `{{ fail "region is required" }}`, nil)
	assert.ErrorContains(t, err, "failed to render template fail.tmpl")
	assert.ErrorContains(t, err, "region is required")
}

func TestNeedsRendering(t *testing.T) {
	assert.True(t, NeedsRendering("templates/app.yaml.tmpl"))
	assert.False(t, NeedsRendering("templates/app.yaml"))
	assert.False(t, NeedsRendering("templates/tmpl.yaml"))
}
