/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateSuffix marks template files that are rendered before deployment
const TemplateSuffix = ".tmpl"

// TemplateProcessor renders a CloudFormation template against variables
type TemplateProcessor interface {
	Process(name, content string, vars map[string]any) (string, error)
}

// SprigTemplateProcessor renders with text/template and the Sprig function map
type SprigTemplateProcessor struct{}

// NewSprigTemplateProcessor creates a new template processor
func NewSprigTemplateProcessor() *SprigTemplateProcessor {
	return &SprigTemplateProcessor{}
}

// Process renders content; name is used in error messages only
func (tp *SprigTemplateProcessor) Process(name, content string, vars map[string]any) (string, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// NeedsRendering reports whether a template path carries TemplateSuffix
func NeedsRendering(path string) bool {
	return strings.HasSuffix(path, TemplateSuffix)
}
