/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package opt provides a tagged optional value that distinguishes "not set"
// from an explicit zero value. Request builders only forward set fields.
package opt

// Value holds either nothing (unset) or a value of type T
type Value[T any] struct {
	v   T
	set bool
}

// Some returns a set Value holding v
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// None returns an unset Value
func None[T any]() Value[T] {
	return Value[T]{}
}

// FromPtr returns Some(*p) for a non-nil pointer and None otherwise
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// IsSet reports whether a value is present
func (o Value[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it was set
func (o Value[T]) Get() (T, bool) {
	return o.v, o.set
}

// OrElse returns the value when set, otherwise fallback
func (o Value[T]) OrElse(fallback T) T {
	if o.set {
		return o.v
	}
	return fallback
}

// Ptr returns a pointer to a copy of the value, or nil when unset
func (o Value[T]) Ptr() *T {
	if !o.set {
		return nil
	}
	v := o.v
	return &v
}
