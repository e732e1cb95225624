/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package status classifies raw CloudFormation status strings.
//
// Every status type is a closed set: parsing a value outside the set fails
// with ErrUnknownStatus. The predicates on each type are the only decision
// surface the deploy orchestrator uses.
package status

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus is returned when a raw status string is not part of the known set
var ErrUnknownStatus = errors.New("unknown status")

type set[T comparable] map[T]struct{}

func newSet[T comparable](values ...T) set[T] {
	s := make(set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}

func parse[T ~string](kind string, raw string, known set[T]) (T, error) {
	v := T(raw)
	if !known.has(v) {
		return "", fmt.Errorf("%w: %s %q", ErrUnknownStatus, kind, raw)
	}
	return v, nil
}
