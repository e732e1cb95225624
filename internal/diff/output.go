/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"fmt"
	"strings"

	"github.com/orien/stackpilot/internal/model"
)

const indentUnit = "    "

var actionLabels = map[string]string{
	ActionAdd:     "to add",
	ActionModify:  "to modify",
	ActionRemove:  "to remove",
	ActionImport:  "to import",
	ActionDynamic: "dynamic",
}

// Render returns the plan as text
func (p *Plan) Render(styles *Styles) string {
	return strings.Join(p.Lines(styles), "\n") + "\n"
}

// Lines returns the plan as text lines: a summary, one line per resource
// change followed by one indented line per detail, then nested plans
func (p *Plan) Lines(styles *Styles) []string {
	var lines []string
	p.appendLines(&lines, styles, "")
	return lines
}

func (p *Plan) appendLines(lines *[]string, styles *Styles, indent string) {
	title := fmt.Sprintf("Change set %s for stack %s", p.Name, p.StackName)
	*lines = append(*lines, indent+styles.Header.Render(title))

	if len(p.Changes) == 0 {
		*lines = append(*lines, indent+styles.Subtle.Render("No resource changes"))
	} else {
		*lines = append(*lines, indent+styles.Bold.Render(SummaryLine(p.Tally)))
	}

	for _, change := range p.Changes {
		*lines = append(*lines, indent+"  "+changeLine(change, styles))
		for _, detail := range change.Details {
			*lines = append(*lines, indent+indentUnit+"  "+detailLine(change, detail, styles))
		}
	}

	for _, nested := range p.Nested {
		header := fmt.Sprintf("Nested stack %s", nested.LogicalID)
		if nested.Plan == nil {
			*lines = append(*lines, indent+indentUnit+styles.Subtle.Render(fmt.Sprintf("%s: %s", header, nested.Skipped)))
			continue
		}
		*lines = append(*lines, indent+indentUnit+styles.Key.Render(header))
		nested.Plan.appendLines(lines, styles, indent+indentUnit)
	}
}

// SummaryLine formats a tally, e.g. "2 to add, 1 to remove"
func SummaryLine(tally []ActionCount) string {
	parts := make([]string, 0, len(tally))
	for _, t := range tally {
		label, ok := actionLabels[t.Action]
		if !ok {
			label = strings.ToLower(t.Action)
		}
		parts = append(parts, fmt.Sprintf("%d %s", t.Count, label))
	}
	return strings.Join(parts, ", ")
}

func changeLine(change model.ResourceChange, styles *Styles) string {
	resourceType := change.ResourceType
	if styles.UseColour {
		resourceType = HyperlinkResourceType(resourceType)
	}

	line := fmt.Sprintf("%s %s %s", styles.ActionSymbol(change.Action), styles.Key.Render(change.LogicalID), styles.Value.Render("("+resourceType+")"))

	if change.PhysicalID != "" {
		line += " " + styles.Subtle.Render("["+change.PhysicalID+"]")
	}
	if change.Replacement != "" && change.Replacement != "False" {
		line += " " + styles.RiskHigh.Render("⚠ Replacement: "+change.Replacement)
	}
	return line
}

func detailLine(change model.ResourceChange, detail model.Detail, styles *Styles) string {
	target := detail.Name
	if target == "" {
		target = change.ResourceType
	}

	line := fmt.Sprintf("%s: %s", detail.Attribute, target)
	if detail.RequiresRecreation != "" && detail.RequiresRecreation != "Never" {
		line += " " + styles.Warning.Render("(recreation: "+detail.RequiresRecreation+")")
	}
	if detail.CausingEntity != "" {
		line += " " + styles.Arrow.Render("←") + " " + detail.CausingEntity
	}
	return styles.Subtle.Render(line)
}

// RenderValueDiffs renders parameter or tag differences under a title
func RenderValueDiffs(title string, diffs []ValueDiff, styles *Styles) string {
	if len(diffs) == 0 {
		return ""
	}

	var output strings.Builder
	output.WriteString(styles.Header.Render(title))
	output.WriteString("\n")

	for _, diff := range diffs {
		symbol := styles.ChangeSymbol(diff.ChangeType)
		key := styles.Key.Render(diff.Key)

		switch diff.ChangeType {
		case ChangeTypeAdd:
			fmt.Fprintf(&output, "  %s %s: %s\n", symbol, key, styles.Value.Render(diff.ProposedValue))
		case ChangeTypeModify:
			arrow := styles.Arrow.Render("→")
			fmt.Fprintf(&output, "  %s %s: %s %s %s\n", symbol, key, styles.Value.Render(diff.CurrentValue), arrow, styles.Value.Render(diff.ProposedValue))
		case ChangeTypeRemove:
			fmt.Fprintf(&output, "  %s %s: %s\n", symbol, key, styles.Value.Render(diff.CurrentValue))
		}
	}
	return output.String()
}
