// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides identifier normalization, link validation and
// form list parsing shared by every content kind.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonAlnumRun matches any run of characters outside [a-z0-9].
var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a string to a canonical identifier.
// Accents are stripped, remaining non-ASCII text is transliterated, the result
// is lowercased, runs of non-alphanumeric characters collapse to a single
// hyphen and leading/trailing hyphens are removed. Slugify is idempotent.
func Slugify(s string) string {
	// Decompose and drop combining marks first so "é" becomes "e"
	// rather than whatever the transliteration table picks.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	result = unidecode.Unidecode(result)
	result = strings.ToLower(result)
	result = nonAlnumRun.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// IsValidSlug checks if a string is already in canonical identifier form.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}
