// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinBase ensures that targetPath resolves inside basePath.
func ValidatePathWithinBase(basePath, targetPath string) error {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}

	absTarget, err := filepath.Abs(filepath.Clean(targetPath))
	if err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	// Trailing separator so /content-evil does not match /content.
	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: %q escapes %q", targetPath, basePath)
	}

	return nil
}

// ResolveDocumentPath resolves a document file name against the content
// directory. Absolute names are returned cleaned and unchanged; relative names
// must stay within baseDir.
func ResolveDocumentPath(baseDir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("document name is empty")
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}

	full := filepath.Join(baseDir, name)
	if err := ValidatePathWithinBase(baseDir, full); err != nil {
		return "", err
	}
	return full, nil
}
