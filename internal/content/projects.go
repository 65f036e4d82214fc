// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/olegiv/contentdesk/internal/model"
	"github.com/olegiv/contentdesk/internal/util"
)

// ProjectKind describes the project showcase. Identifiers derive from the
// project name.
func ProjectKind() Kind[model.Project] {
	return Kind[model.Project]{
		Resource:      "projects",
		IDField:       "id",
		OriginalField: "originalId",
		IDRequired:    "ID is required",
		Duplicate:     "Another project already uses this ID",
		NotFound:      "Project not found",
		AdminPath:     "/admin/projects",
		PublicPath:    "/projects",
		Decode:        decodeProject,
		Source:        func(p model.Project) string { return p.Name },
		ID:            func(p model.Project) string { return p.ID },
		WithID: func(p model.Project, id string) model.Project {
			p.ID = id
			return p
		},
	}
}

func decodeProject(values url.Values) (model.Project, FieldErrors) {
	f := newFormReader(values)
	project := model.Project{
		Name:          f.Required("name", "Name is required"),
		Summary:       f.Required("summary", "Summary is required"),
		Status:        f.Required("status", "Status is required"),
		Domain:        f.Text("domain"),
		KeyFeatures:   f.List("keyFeatures", 0, ""),
		Link:          f.Link("link"),
		SpotlightNote: f.Text("spotlightNote"),
	}

	var ctas []model.ProjectCTA
	if f.JSON("ctas", &ctas) {
		project.CTAs = normalizeCTAs(f, ctas)
	}
	return project, f.Errors()
}

func normalizeCTAs(f *formReader, ctas []model.ProjectCTA) []model.ProjectCTA {
	out := make([]model.ProjectCTA, 0, len(ctas))
	for i, cta := range ctas {
		label := strings.TrimSpace(cta.Label)
		if label == "" {
			f.Fail("ctas", fmt.Sprintf("Call to action %d needs a label", i+1))
			return nil
		}
		href, err := util.NormalizeLink(cta.Href)
		if err != nil || href == "" {
			f.Fail("ctas", util.ErrInvalidLink.Error())
			return nil
		}
		out = append(out, model.ProjectCTA{Label: label, Href: href})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
