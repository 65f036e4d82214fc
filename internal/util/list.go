// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "strings"

// ParseList collects list entries from one or more raw form values.
// Each value may itself hold several newline-delimited entries. Entries are
// trimmed and blanks dropped; nil is returned when nothing remains.
func ParseList(values ...string) []string {
	var items []string
	for _, v := range values {
		for _, line := range strings.Split(v, "\n") {
			line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
			if line != "" {
				items = append(items, line)
			}
		}
	}
	return items
}
