// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"strings"

	"github.com/olegiv/contentdesk/internal/util"
)

// ResolveIdentifier returns the canonical identifier for a submission.
// A non-blank supplied identifier is normalized; otherwise the identifier is
// derived from source (usually the title).
func ResolveIdentifier(supplied, source string) string {
	if strings.TrimSpace(supplied) != "" {
		return util.Slugify(supplied)
	}
	return util.Slugify(source)
}

// ResolveTarget returns the identifier used to find the entity being edited.
// When the caller declares an edit (non-blank original), the original is used
// verbatim so a rename can still find the old entity; otherwise the freshly
// resolved identifier is the target.
func ResolveTarget(original, resolved string) string {
	if o := strings.TrimSpace(original); o != "" {
		return o
	}
	return resolved
}
