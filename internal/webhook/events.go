// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package webhook notifies external consumers, such as the frontend that
// renders the public site, when content changes.
package webhook

import (
	"time"
)

// EventRevalidate asks the receiver to refresh the listed paths.
const EventRevalidate = "content.revalidate"

// Event represents a webhook event to be dispatched.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent creates a new webhook event.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// RevalidateData lists the site paths whose rendering is stale.
type RevalidateData struct {
	Paths []string `json:"paths"`
}

// merge returns the union of both path lists, keeping first-seen order.
func (d RevalidateData) merge(other RevalidateData) RevalidateData {
	seen := make(map[string]struct{}, len(d.Paths)+len(other.Paths))
	out := make([]string, 0, len(d.Paths)+len(other.Paths))
	for _, p := range append(append([]string{}, d.Paths...), other.Paths...) {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return RevalidateData{Paths: out}
}
