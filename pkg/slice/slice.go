// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds the generic helpers the controllers use to derive card
// lists and drop moderated entries.
package slice

// Map returns transform applied to each element. A nil input stays nil.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter returns a new slice of the elements keep accepts. The input is
// never modified, so a published snapshot stays valid.
func Filter[T any](input []T, keep func(T) bool) []T {
	if input == nil {
		return nil
	}

	result := make([]T, 0, len(input))
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// Find returns the first element match accepts.
func Find[T any](input []T, match func(T) bool) (T, bool) {
	for _, v := range input {
		if match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
