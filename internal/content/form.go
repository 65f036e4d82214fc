// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/olegiv/contentdesk/internal/util"
)

// formReader pulls typed fields out of a submission and collects
// per-field errors as it goes.
type formReader struct {
	values url.Values
	errs   FieldErrors
}

func newFormReader(values url.Values) *formReader {
	if values == nil {
		values = url.Values{}
	}
	return &formReader{values: values, errs: FieldErrors{}}
}

// Text returns the trimmed value of field.
func (f *formReader) Text(field string) string {
	return strings.TrimSpace(f.values.Get(field))
}

// Required returns the trimmed value of field and records msg when blank.
func (f *formReader) Required(field, msg string) string {
	v := f.Text(field)
	if v == "" {
		f.errs.Add(field, msg)
	}
	return v
}

// List gathers repeated values and newline-delimited text for field.
// max <= 0 means unbounded.
func (f *formReader) List(field string, max int, msg string) []string {
	items := util.ParseList(f.values[field]...)
	if max > 0 && len(items) > max {
		f.errs.Add(field, msg)
	}
	return items
}

// Link returns the normalized link in field, or "" when blank.
func (f *formReader) Link(field string) string {
	link, err := util.NormalizeLink(f.values.Get(field))
	if err != nil {
		f.errs.Add(field, err.Error())
		return ""
	}
	return link
}

// Flag interprets a checkbox-style field. An absent field yields nil.
func (f *formReader) Flag(field string) *bool {
	raw, present := f.values[field]
	if !present || len(raw) == 0 {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(raw[len(raw)-1]))
	on := v == "on" || v == "true" || v == "1" || v == "yes"
	return &on
}

// JSON decodes the structured text in field into dst. It reports whether a
// value was present and decoded; malformed text records a field error.
func (f *formReader) JSON(field string, dst any) bool {
	raw := f.Text(field)
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		f.errs.Add(field, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// Fail records msg for field.
func (f *formReader) Fail(field, msg string) {
	f.errs.Add(field, msg)
}

// Errors returns the collected field errors, or nil when there are none.
func (f *formReader) Errors() FieldErrors {
	if len(f.errs) == 0 {
		return nil
	}
	return f.errs
}
