// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
)

// submission reads a mutation request body as form values. URL-encoded and
// multipart forms are parsed as usual. A JSON object is flattened: scalars
// become single values, arrays of scalars become repeated values, and
// objects or arrays of objects are kept as JSON text.
func submission(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return jsonValues(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	default:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	}
}

func jsonValues(r *http.Request) (url.Values, error) {
	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding JSON body: %w", err)
	}

	values := url.Values{}
	for key, v := range body {
		if err := addValue(values, key, v); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
	}
	return values, nil
}

func addValue(values url.Values, key string, v any) error {
	switch t := v.(type) {
	case nil:
	case string:
		values.Add(key, t)
	case bool:
		values.Add(key, strconv.FormatBool(t))
	case json.Number:
		values.Add(key, t.String())
	case []any:
		if !allScalar(t) {
			return addRaw(values, key, t)
		}
		for _, item := range t {
			if err := addValue(values, key, item); err != nil {
				return err
			}
		}
	default:
		return addRaw(values, key, t)
	}
	return nil
}

func addRaw(values url.Values, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	values.Set(key, string(raw))
	return nil
}

func allScalar(items []any) bool {
	for _, item := range items {
		switch item.(type) {
		case nil, string, bool, json.Number:
		default:
			return false
		}
	}
	return true
}
