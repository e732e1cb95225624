/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package resolve

import (
	"fmt"
	"os"
	"strings"
)

// FileReader reads templates and policy documents
type FileReader interface {
	ReadFile(path string) (string, error)
}

// DefaultFileReader reads local paths, accepting an optional file:// scheme
type DefaultFileReader struct{}

// ReadFile returns the file content as a string
func (DefaultFileReader) ReadFile(path string) (string, error) {
	path = strings.TrimPrefix(path, "file://")
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(content), nil
}
