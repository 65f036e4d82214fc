// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

// indexOf returns the position of the entity with identifier id, or -1.
func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}

// Collides reports whether any entity other than the one at index replacing
// already uses id. replacing is -1 for a create.
func Collides[T any](items []T, id string, replacing int, key func(T) string) bool {
	for i, item := range items {
		if i != replacing && key(item) == id {
			return true
		}
	}
	return false
}
