// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer handles optional values on the wire.

The API spells some fields two ways and omits others entirely, so decoders
read them into pointers and collapse them here. A nil pointer means "absent",
which is distinct from a present zero value in partial profile updates.
*/
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, yielding the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// First returns the value of the first non-nil pointer, or the zero value.
func First[T any](candidates ...*T) T {
	for _, p := range candidates {
		if p != nil {
			return *p
		}
	}
	var zero T
	return zero
}
