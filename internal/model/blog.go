// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// MaxDescriptionPoints is the most description points a blog post may carry.
const MaxDescriptionPoints = 5

// BlogPost is one entry of the blog collection.
type BlogPost struct {
	Slug                  string   `json:"slug"`
	Title                 string   `json:"title"`
	Blurb                 string   `json:"blurb"`
	Author                string   `json:"author,omitempty"`
	PublishedAt           string   `json:"published_at,omitempty"`
	PublicationDate       string   `json:"publication_date,omitempty"`
	EstimatedReadDuration string   `json:"estimated_read_duration,omitempty"`
	DescriptionPoints     []string `json:"description_points,omitempty"`
}

// ValidateBlogPosts checks a full blog collection.
func ValidateBlogPosts(posts []BlogPost) error {
	return validateAll("blog", posts,
		func(p BlogPost) string { return p.Slug },
		func(i int, p BlogPost) error {
			if err := required("blog", i, "slug", p.Slug, "title", p.Title); err != nil {
				return err
			}
			if len(p.DescriptionPoints) > MaxDescriptionPoints {
				return &SchemaError{Collection: "blog", Index: i, Field: "description_points", Reason: "has more than 5 entries"}
			}
			return nil
		})
}
