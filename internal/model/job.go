// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// JobRole is one entry of the careers collection.
type JobRole struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}

// ValidateJobs checks a full jobs collection.
func ValidateJobs(jobs []JobRole) error {
	return validateAll("jobs", jobs,
		func(j JobRole) string { return j.ID },
		func(i int, j JobRole) error {
			return required("jobs", i, "id", j.ID, "title", j.Title)
		})
}
