/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// FormatStackDescription formats stack information for display
func FormatStackDescription(desc *StackDescription) string {
	var output strings.Builder

	fmt.Fprintf(&output, "Stack: %s\n", desc.Name)
	if desc.StatusReason != "" {
		fmt.Fprintf(&output, "Status: %s (%s)\n", desc.Status, desc.StatusReason)
	} else {
		fmt.Fprintf(&output, "Status: %s\n", desc.Status)
	}
	if !desc.CreatedTime.IsZero() {
		fmt.Fprintf(&output, "Created: %s\n", formatTime(desc.CreatedTime))
	}
	if updated, ok := desc.UpdatedTime.Get(); ok {
		fmt.Fprintf(&output, "Updated: %s\n", formatTime(updated))
	}
	if desc.StackID != "" && desc.StackID != desc.Name {
		fmt.Fprintf(&output, "Stack ID: %s\n", desc.StackID)
	}
	if desc.Description != "" {
		fmt.Fprintf(&output, "Description: %s\n", desc.Description)
	}
	if desc.TerminationProtection {
		output.WriteString("Termination protection: enabled\n")
	}
	if desc.DriftStatus != "" && desc.DriftStatus != "NOT_CHECKED" {
		fmt.Fprintf(&output, "Drift: %s\n", desc.DriftStatus)
	}
	if desc.ConsoleURL != "" {
		fmt.Fprintf(&output, "Console: %s\n", desc.ConsoleURL)
	}

	writeSection(&output, "Parameters", desc.Parameters)
	writeSection(&output, "Outputs", desc.Outputs)
	writeSection(&output, "Tags", desc.Tags)

	return output.String()
}

// FormatStackSetDescription formats a stack set and its instances for display
func FormatStackSetDescription(desc *StackSetDescription) string {
	var output strings.Builder

	fmt.Fprintf(&output, "Stack set: %s\n", desc.Name)
	fmt.Fprintf(&output, "Status: %s\n", desc.Status)
	if desc.PermissionModel != "" {
		fmt.Fprintf(&output, "Permission model: %s\n", desc.PermissionModel)
	}
	if desc.Description != "" {
		fmt.Fprintf(&output, "Description: %s\n", desc.Description)
	}
	if desc.ConsoleURL != "" {
		fmt.Fprintf(&output, "Console: %s\n", desc.ConsoleURL)
	}

	writeSection(&output, "Parameters", desc.Parameters)
	writeSection(&output, "Tags", desc.Tags)

	if len(desc.Instances) > 0 {
		output.WriteString("\nInstances:\n")
		for _, inst := range desc.Instances {
			fmt.Fprintf(&output, "  %s: %s", inst, inst.Status)
			if inst.DetailedStatus != "" {
				fmt.Fprintf(&output, " (%s)", inst.DetailedStatus)
			}
			if inst.StatusReason != "" {
				fmt.Fprintf(&output, " %s", inst.StatusReason)
			}
			output.WriteString("\n")
		}
	}

	return output.String()
}

// formatTime formats time in a human-readable format
func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}

// writeSection writes a titled, key-sorted map; empty maps are skipped
func writeSection(output *strings.Builder, title string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	fmt.Fprintf(output, "\n%s:\n", title)
	for _, key := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(output, "  %s: %s\n", key, m[key])
	}
}
