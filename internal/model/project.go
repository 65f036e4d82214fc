// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// ProjectCTA is a call-to-action button on a project card.
type ProjectCTA struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Project is one entry of the project showcase.
type Project struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Summary       string       `json:"summary"`
	Status        string       `json:"status"`
	Domain        string       `json:"domain,omitempty"`
	KeyFeatures   []string     `json:"keyFeatures,omitempty"`
	CTAs          []ProjectCTA `json:"ctas,omitempty"`
	Link          string       `json:"link,omitempty"`
	SpotlightNote string       `json:"spotlightNote,omitempty"`
}

// ValidateProjects checks a full project collection.
func ValidateProjects(projects []Project) error {
	return validateAll("projects", projects,
		func(p Project) string { return p.ID },
		func(i int, p Project) error {
			if err := required("projects", i, "id", p.ID, "name", p.Name); err != nil {
				return err
			}
			for _, cta := range p.CTAs {
				if err := required("projects", i, "ctas.label", cta.Label, "ctas.href", cta.Href); err != nil {
					return err
				}
			}
			return nil
		})
}
