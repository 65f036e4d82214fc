// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"net/url"

	"github.com/olegiv/contentdesk/internal/model"
)

// BlogKind describes blog posts, identified by slug.
func BlogKind() Kind[model.BlogPost] {
	return Kind[model.BlogPost]{
		Resource:      "blog",
		IDField:       "slug",
		OriginalField: "originalSlug",
		IDRequired:    "Slug is required",
		Duplicate:     "Another post already uses this slug",
		NotFound:      "Post not found",
		AdminPath:     "/admin/blog",
		PublicPath:    "/blog",
		Decode:        decodeBlogPost,
		Source:        func(p model.BlogPost) string { return p.Title },
		ID:            func(p model.BlogPost) string { return p.Slug },
		WithID: func(p model.BlogPost, slug string) model.BlogPost {
			p.Slug = slug
			return p
		},
	}
}

func decodeBlogPost(values url.Values) (model.BlogPost, FieldErrors) {
	f := newFormReader(values)
	post := model.BlogPost{
		Title:                 f.Required("title", "Title is required"),
		Blurb:                 f.Required("blurb", "Excerpt is required"),
		Author:                f.Text("author"),
		PublishedAt:           f.Text("published_at"),
		PublicationDate:       f.Text("publication_date"),
		EstimatedReadDuration: f.Text("estimated_read_duration"),
		DescriptionPoints: f.List("description_points", model.MaxDescriptionPoints,
			"Only five description points are allowed"),
	}
	return post, f.Errors()
}
