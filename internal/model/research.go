// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Research catalogue sections.
const (
	SectionPublished = "published"
	SectionPreprints = "preprints"
	SectionOngoing   = "ongoing"
)

// ResearchSections lists every catalogue section in display order.
var ResearchSections = []string{SectionPublished, SectionPreprints, SectionOngoing}

// IsResearchSection reports whether s names a catalogue section.
func IsResearchSection(s string) bool {
	for _, section := range ResearchSections {
		if s == section {
			return true
		}
	}
	return false
}

// PublishedEntry is a peer-reviewed publication.
type PublishedEntry struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors,omitempty"`
	Venue      string   `json:"venue"`
	DOI        string   `json:"doi,omitempty"`
	OpenAccess *bool    `json:"open_access,omitempty"`
	Domain     []string `json:"domain,omitempty"`
}

// ModalAction is a button rendered inside a preprint's detail modal.
type ModalAction struct {
	Label    string `json:"label"`
	Href     string `json:"href"`
	Target   string `json:"target,omitempty"`
	Download *bool  `json:"download,omitempty"`
	Variant  string `json:"variant,omitempty"`
}

// PreprintModal configures the detail modal of a preprint.
type PreprintModal struct {
	Layout   string          `json:"layout,omitempty"`
	Sections map[string]bool `json:"sections,omitempty"`
	Actions  []ModalAction   `json:"actions,omitempty"`
}

// PreprintEntry is a preprint hosted on a preprint server.
type PreprintEntry struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Authors     []string       `json:"authors,omitempty"`
	Server      string         `json:"server"`
	Identifier  string         `json:"identifier,omitempty"`
	VersionDate string         `json:"version_date,omitempty"`
	Abstract    string         `json:"abstract,omitempty"`
	PDF         string         `json:"pdf,omitempty"`
	Domain      []string       `json:"domain,omitempty"`
	Modal       *PreprintModal `json:"modal,omitempty"`
}

// OngoingEntry is research still in progress.
type OngoingEntry struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	MilestoneNext string `json:"milestone_next,omitempty"`
	ETA           string `json:"eta,omitempty"`
}

// ResearchCatalogue holds the three independent research sections.
// All three live in one document and are written together.
type ResearchCatalogue struct {
	Published []PublishedEntry `json:"published,omitempty"`
	Preprints []PreprintEntry  `json:"preprints,omitempty"`
	Ongoing   []OngoingEntry   `json:"ongoing,omitempty"`
}

// ValidateResearchCatalogue checks every section of the catalogue.
func ValidateResearchCatalogue(c ResearchCatalogue) error {
	err := validateAll("research.published", c.Published,
		func(e PublishedEntry) string { return e.ID },
		func(i int, e PublishedEntry) error {
			return required("research.published", i, "id", e.ID, "title", e.Title)
		})
	if err != nil {
		return err
	}

	err = validateAll("research.preprints", c.Preprints,
		func(e PreprintEntry) string { return e.ID },
		func(i int, e PreprintEntry) error {
			return required("research.preprints", i, "id", e.ID, "title", e.Title)
		})
	if err != nil {
		return err
	}

	return validateAll("research.ongoing", c.Ongoing,
		func(e OngoingEntry) string { return e.ID },
		func(i int, e OngoingEntry) error {
			return required("research.ongoing", i, "id", e.ID, "title", e.Title)
		})
}
