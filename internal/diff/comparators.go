/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package diff

import (
	"sort"

	"github.com/orien/stackpilot/internal/model"
)

// CompareValues compares current and proposed key/value pairs, returning
// differences sorted by key
func CompareValues(current, proposed map[string]string) []ValueDiff {
	var diffs []ValueDiff

	allKeys := make(map[string]bool)
	for key := range current {
		allKeys[key] = true
	}
	for key := range proposed {
		allKeys[key] = true
	}

	for key := range allKeys {
		currentValue, currentExists := current[key]
		proposedValue, proposedExists := proposed[key]

		switch {
		case !currentExists && proposedExists:
			diffs = append(diffs, ValueDiff{Key: key, ProposedValue: proposedValue, ChangeType: ChangeTypeAdd})
		case currentExists && !proposedExists:
			diffs = append(diffs, ValueDiff{Key: key, CurrentValue: currentValue, ChangeType: ChangeTypeRemove})
		case currentValue != proposedValue:
			diffs = append(diffs, ValueDiff{Key: key, CurrentValue: currentValue, ProposedValue: proposedValue, ChangeType: ChangeTypeModify})
		}
	}

	sort.Slice(diffs, func(i, j int) bool {
		return diffs[i].Key < diffs[j].Key
	})

	return diffs
}

// CompareParameters compares deployed parameters with proposed ones.
// Parameters that keep their previous value are never reported.
func CompareParameters(current map[string]model.Parameter, proposed []model.Parameter) []ValueDiff {
	currentValues := make(map[string]string, len(current))
	for key, p := range current {
		currentValues[key] = displayValue(p)
	}

	proposedValues := make(map[string]string, len(proposed))
	for _, p := range proposed {
		if p.UsePreviousValue {
			if v, ok := currentValues[p.Key]; ok {
				proposedValues[p.Key] = v
			}
			continue
		}
		proposedValues[p.Key] = displayValue(p)
	}

	return CompareValues(currentValues, proposedValues)
}

func displayValue(p model.Parameter) string {
	return p.Value.OrElse("")
}
