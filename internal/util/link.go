// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidLink is returned by NormalizeLink for values that are neither
// absolute URLs nor site-relative paths/anchors.
var ErrInvalidLink = errors.New("Link must be a valid URL or start with / or #")

// NormalizeLink validates and normalizes an optional link value.
// Blank input yields "" and no error. Values starting with "/" or "#" are kept
// as-is (trimmed). Anything else must parse as an absolute URL.
func NormalizeLink(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "#") {
		return trimmed, nil
	}

	u, err := url.Parse(trimmed)
	if err != nil || !u.IsAbs() {
		return "", ErrInvalidLink
	}
	// "https:" or "https:///path" carry no destination.
	if u.Opaque == "" && u.Host == "" {
		return "", ErrInvalidLink
	}

	return u.String(), nil
}
