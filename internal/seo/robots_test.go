// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestRobotsBuilderBuildDefault(t *testing.T) {
	result := NewRobotsBuilder(RobotsConfig{SiteURL: "https://example.com"}).Build()

	for _, want := range []string{
		"User-agent: *\n",
		"Disallow: /admin\n",
		"Disallow: /metrics\n",
		"Disallow: /health\n",
		"Allow: /\n",
		"Sitemap: https://example.com/sitemap.xml\n",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Build() missing %q:\n%s", want, result)
		}
	}
}

func TestRobotsBuilderBuildDisallowAll(t *testing.T) {
	result := NewRobotsBuilder(RobotsConfig{SiteURL: "https://example.com", DisallowAll: true}).Build()

	if result != "User-agent: *\nDisallow: /\n" {
		t.Errorf("Build() = %q", result)
	}
}

func TestRobotsBuilderBuildExtraRules(t *testing.T) {
	tests := []struct {
		name  string
		rules string
	}{
		{"without newline", "User-agent: GPTBot\nDisallow: /"},
		{"with newline", "User-agent: GPTBot\nDisallow: /\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewRobotsBuilder(RobotsConfig{ExtraRules: tt.rules}).Build()
			if !strings.Contains(result, "\nUser-agent: GPTBot\nDisallow: /\n") {
				t.Errorf("Build() = %q", result)
			}
			if strings.Contains(result, "\n\n\n") {
				t.Errorf("Build() has a doubled blank line: %q", result)
			}
		})
	}
}

func TestRobotsBuilderBuildWithCustomDisallowPaths(t *testing.T) {
	result := NewRobotsBuilder(RobotsConfig{DisallowPaths: []string{"/drafts"}}).Build()

	if !strings.Contains(result, "Disallow: /admin\n") || !strings.Contains(result, "Disallow: /drafts\n") {
		t.Errorf("Build() = %q", result)
	}
	if len(DefaultDisallow) != 3 {
		t.Errorf("DefaultDisallow was modified: %v", DefaultDisallow)
	}
}

func TestRobotsBuilderBuildNoSiteURL(t *testing.T) {
	result := NewRobotsBuilder(RobotsConfig{}).Build()

	if strings.Contains(result, "Sitemap:") {
		t.Errorf("Build() without site URL should omit the sitemap: %q", result)
	}
}

func TestRobotsBuilderBuildSiteURLWithTrailingSlash(t *testing.T) {
	result := NewRobotsBuilder(RobotsConfig{SiteURL: "https://example.com/"}).Build()

	if !strings.Contains(result, "Sitemap: https://example.com/sitemap.xml\n") {
		t.Errorf("Build() = %q", result)
	}
}
