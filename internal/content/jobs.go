// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"net/url"

	"github.com/olegiv/contentdesk/internal/model"
)

// JobKind describes job listings on the careers page.
func JobKind() Kind[model.JobRole] {
	return Kind[model.JobRole]{
		Resource:      "careers",
		IDField:       "id",
		OriginalField: "originalId",
		IDRequired:    "ID is required",
		Duplicate:     "Another role already uses this ID",
		NotFound:      "Role not found",
		AdminPath:     "/admin/careers",
		PublicPath:    "/careers",
		Decode:        decodeJobRole,
		Source:        func(j model.JobRole) string { return j.Title },
		ID:            func(j model.JobRole) string { return j.ID },
		WithID: func(j model.JobRole, id string) model.JobRole {
			j.ID = id
			return j
		},
	}
}

func decodeJobRole(values url.Values) (model.JobRole, FieldErrors) {
	f := newFormReader(values)
	job := model.JobRole{
		Title:       f.Required("title", "Title is required"),
		Location:    f.Required("location", "Location is required"),
		Type:        f.Required("type", "Type is required"),
		Description: f.Required("description", "Description is required"),
		Link:        f.Link("link"),
	}
	return job, f.Errors()
}
