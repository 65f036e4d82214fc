// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/store"
)

const (
	researchResource   = "research"
	researchAdminPath  = "/admin/research"
	researchPublicPath = "/research"
	collectionField    = "collection"
)

// section exposes one array of the research catalogue as a Collection.
// Every update rewrites the whole catalogue under the catalogue's lock.
type section[T any] struct {
	doc *store.Document[model.ResearchCatalogue]
	get func(model.ResearchCatalogue) []T
	set func(*model.ResearchCatalogue, []T)
}

func (s section[T]) Read(ctx context.Context) ([]T, error) {
	catalogue, err := s.doc.Read(ctx)
	if err != nil {
		return nil, err
	}
	return s.get(catalogue), nil
}

func (s section[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	return s.doc.Update(ctx, func(catalogue model.ResearchCatalogue) (model.ResearchCatalogue, error) {
		next, err := fn(s.get(catalogue))
		if err != nil {
			return catalogue, err
		}
		s.set(&catalogue, next)
		return catalogue, nil
	})
}

func researchKind[T any](name string, decode func(url.Values) (T, FieldErrors),
	title func(T) string, id func(T) string, withID func(T, string) T) Kind[T] {
	return Kind[T]{
		Resource:       researchResource + "-" + name,
		IDField:        "id",
		OriginalField:  "originalId",
		IDRequired:     "ID is required",
		Duplicate:      "Another entry already uses this ID",
		NotFound:       "Entry not found",
		AdminPath:      researchAdminPath,
		PublicPath:     researchPublicPath,
		RedirectPrefix: name + ":",
		Decode:         decode,
		Source:         title,
		ID:             id,
		WithID:         withID,
	}
}

// PublishedKind describes peer-reviewed publications.
func PublishedKind() Kind[model.PublishedEntry] {
	return researchKind(model.SectionPublished, decodePublished,
		func(e model.PublishedEntry) string { return e.Title },
		func(e model.PublishedEntry) string { return e.ID },
		func(e model.PublishedEntry, id string) model.PublishedEntry { e.ID = id; return e })
}

// PreprintKind describes preprints.
func PreprintKind() Kind[model.PreprintEntry] {
	return researchKind(model.SectionPreprints, decodePreprint,
		func(e model.PreprintEntry) string { return e.Title },
		func(e model.PreprintEntry) string { return e.ID },
		func(e model.PreprintEntry, id string) model.PreprintEntry { e.ID = id; return e })
}

// OngoingKind describes research in progress.
func OngoingKind() Kind[model.OngoingEntry] {
	return researchKind(model.SectionOngoing, decodeOngoing,
		func(e model.OngoingEntry) string { return e.Title },
		func(e model.OngoingEntry) string { return e.ID },
		func(e model.OngoingEntry, id string) model.OngoingEntry { e.ID = id; return e })
}

func decodePublished(values url.Values) (model.PublishedEntry, FieldErrors) {
	f := newFormReader(values)
	entry := model.PublishedEntry{
		Title:      f.Required("title", "Title is required"),
		Authors:    f.List("authors", 0, ""),
		Venue:      f.Required("venue", "Venue is required"),
		DOI:        f.Text("doi"),
		OpenAccess: f.Flag("open_access"),
		Domain:     f.List("domain", 0, ""),
	}
	return entry, f.Errors()
}

func decodePreprint(values url.Values) (model.PreprintEntry, FieldErrors) {
	f := newFormReader(values)
	entry := model.PreprintEntry{
		Title:       f.Required("title", "Title is required"),
		Authors:     f.List("authors", 0, ""),
		Server:      f.Required("server", "Server is required"),
		Identifier:  f.Text("identifier"),
		VersionDate: f.Text("version_date"),
		Abstract:    f.Text("abstract"),
		PDF:         f.Text("pdf"),
		Domain:      f.List("domain", 0, ""),
	}

	var modal model.PreprintModal
	if f.JSON("modal", &modal) {
		entry.Modal = &modal
	}
	return entry, f.Errors()
}

func decodeOngoing(values url.Values) (model.OngoingEntry, FieldErrors) {
	f := newFormReader(values)
	entry := model.OngoingEntry{
		Title:         f.Required("title", "Title is required"),
		MilestoneNext: f.Text("milestone_next"),
		ETA:           f.Text("eta"),
	}
	return entry, f.Errors()
}

// Research routes submissions to one of the catalogue sections by the
// collection field. All sections share one document.
type Research struct {
	doc      *store.Document[model.ResearchCatalogue]
	sections map[string]Mutator
	opts     Options
}

// NewResearch creates the research mutator over the catalogue document.
func NewResearch(doc *store.Document[model.ResearchCatalogue], opts Options) *Research {
	opts = opts.withDefaults()
	return &Research{
		doc:  doc,
		opts: opts,
		sections: map[string]Mutator{
			model.SectionPublished: NewEngine(PublishedKind(), section[model.PublishedEntry]{
				doc: doc,
				get: func(c model.ResearchCatalogue) []model.PublishedEntry { return c.Published },
				set: func(c *model.ResearchCatalogue, v []model.PublishedEntry) { c.Published = v },
			}, opts),
			model.SectionPreprints: NewEngine(PreprintKind(), section[model.PreprintEntry]{
				doc: doc,
				get: func(c model.ResearchCatalogue) []model.PreprintEntry { return c.Preprints },
				set: func(c *model.ResearchCatalogue, v []model.PreprintEntry) { c.Preprints = v },
			}, opts),
			model.SectionOngoing: NewEngine(OngoingKind(), section[model.OngoingEntry]{
				doc: doc,
				get: func(c model.ResearchCatalogue) []model.OngoingEntry { return c.Ongoing },
				set: func(c *model.ResearchCatalogue, v []model.OngoingEntry) { c.Ongoing = v },
			}, opts),
		},
	}
}

// Resource returns the name used for the research family in routes and logs.
func (r *Research) Resource() string {
	return researchResource
}

// Catalogue returns the whole research catalogue.
func (r *Research) Catalogue(ctx context.Context) (model.ResearchCatalogue, error) {
	catalogue, err := r.doc.Read(ctx)
	if err != nil {
		return model.ResearchCatalogue{}, fmt.Errorf("reading research: %w", err)
	}
	return catalogue, nil
}

// Upsert creates or replaces an entry in the section named by the
// collection field.
func (r *Research) Upsert(ctx context.Context, actor *Actor, form url.Values) (Result, error) {
	if !actor.authorized() {
		r.opts.Observer.MutationRejected(researchResource, "unauthorized")
		return Result{}, ErrUnauthorized
	}
	m, ok := r.sections[strings.TrimSpace(form.Get(collectionField))]
	if !ok {
		r.opts.Observer.MutationRejected(researchResource, "validation")
		return Result{}, &ValidationError{Fields: FieldErrors{collectionField: "Unsupported collection"}}
	}
	return m.Upsert(ctx, actor, form)
}

// Delete removes an entry from the section named by the collection field.
func (r *Research) Delete(ctx context.Context, actor *Actor, form url.Values) (Result, error) {
	if !actor.authorized() {
		r.opts.Observer.MutationRejected(researchResource, "unauthorized")
		return Result{}, ErrUnauthorized
	}
	m, ok := r.sections[strings.TrimSpace(form.Get(collectionField))]
	if !ok {
		r.opts.Observer.MutationRejected(researchResource, "invalid")
		return Result{}, ErrInvalidRequest
	}
	return m.Delete(ctx, actor, form)
}
