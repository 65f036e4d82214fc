// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateBlogPosts(t *testing.T) {
	tests := []struct {
		name    string
		posts   []BlogPost
		wantErr bool
	}{
		{name: "empty", posts: nil},
		{name: "valid", posts: []BlogPost{{Slug: "a", Title: "A", Blurb: "x"}, {Slug: "b", Title: "B"}}},
		{name: "missing slug", posts: []BlogPost{{Title: "A"}}, wantErr: true},
		{name: "duplicate slug", posts: []BlogPost{{Slug: "a", Title: "A"}, {Slug: "a", Title: "B"}}, wantErr: true},
		{
			name:    "too many points",
			posts:   []BlogPost{{Slug: "a", Title: "A", DescriptionPoints: []string{"1", "2", "3", "4", "5", "6"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlogPosts(tt.posts)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBlogPosts() error = %v, wantErr %v", err, tt.wantErr)
			}
			var schemaErr *SchemaError
			if tt.wantErr && !errors.As(err, &schemaErr) {
				t.Errorf("error %v is not a *SchemaError", err)
			}
		})
	}
}

func TestValidateResearchCatalogue(t *testing.T) {
	valid := ResearchCatalogue{
		Published: []PublishedEntry{{ID: "p1", Title: "Paper", Venue: "NeurIPS"}},
		Preprints: []PreprintEntry{{ID: "p1", Title: "Preprint", Server: "arXiv"}},
		Ongoing:   []OngoingEntry{{ID: "o1", Title: "Ongoing"}},
	}
	if err := ValidateResearchCatalogue(valid); err != nil {
		t.Fatalf("ids may repeat across sections: %v", err)
	}

	dup := valid
	dup.Ongoing = []OngoingEntry{{ID: "o1", Title: "A"}, {ID: "o1", Title: "B"}}
	if err := ValidateResearchCatalogue(dup); err == nil {
		t.Error("expected duplicate id error in ongoing section")
	}

	// Modal actions are free-form strings; blank values are stored as given.
	looseModal := valid
	looseModal.Preprints = []PreprintEntry{{ID: "p1", Title: "P", Server: "arXiv", Modal: &PreprintModal{
		Actions: []ModalAction{{Label: "PDF"}, {Href: "/p.pdf"}},
	}}}
	if err := ValidateResearchCatalogue(looseModal); err != nil {
		t.Errorf("modal actions with blank fields rejected: %v", err)
	}
}

func TestAuditEntryJSON(t *testing.T) {
	created := AuditEntry{
		ID:        "1",
		Resource:  "careers",
		Action:    ActionCreate,
		UserID:    "admin",
		After:     json.RawMessage(`{"id":"x"}`),
		Timestamp: "2026-01-01T00:00:00.000Z",
	}
	data, err := json.Marshal(created)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["before"]; ok {
		t.Error("create entry should omit before")
	}

	deleted := created
	deleted.Action = ActionDelete
	deleted.Before = json.RawMessage(`{"id":"x"}`)
	deleted.After = json.RawMessage("null")
	data, err = json.Marshal(deleted)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	raw = nil
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	after, ok := raw["after"]
	if !ok || after != nil {
		t.Errorf("delete entry after = %v (present %v), want explicit null", after, ok)
	}
}

func TestValidateAuditLog(t *testing.T) {
	entries := []AuditEntry{{ID: "1", Resource: "blog", Action: "publish", Timestamp: "t"}}
	if err := ValidateAuditLog(entries); err == nil {
		t.Error("expected unknown action to fail")
	}
}

func TestIsResearchSection(t *testing.T) {
	for _, s := range ResearchSections {
		if !IsResearchSection(s) {
			t.Errorf("IsResearchSection(%q) = false", s)
		}
	}
	if IsResearchSection("drafts") {
		t.Error("IsResearchSection(\"drafts\") = true")
	}
}
