package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the canonical list envelope: {data, current_page, last_page}.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page,omitempty"`
	Total       int `json:"total,omitempty"`

	// Bare is set when the body was a plain JSON array.
	Bare bool `json:"-"`
}

// HasMore returns true if the server reports pages after the current one.
func (p *Page[T]) HasMore() bool {
	return p != nil && p.CurrentPage < p.LastPage
}

type pageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

type envelope[T any] struct {
	Data []T `json:"data"`
	pageMeta
	Meta *pageMeta `json:"meta,omitempty"`
}

// DecodePage decodes a list response body. The envelope may carry its
// pagination at the top level or under "meta". A bare JSON array is treated
// as the final page of the requested page number.
func DecodePage[T any](data []byte, requested int) (*Page[T], error) {
	if requested < 1 {
		requested = 1
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &Page[T]{CurrentPage: requested, LastPage: requested}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		return &Page[T]{Data: items, CurrentPage: requested, LastPage: requested, Total: len(items), Bare: true}, nil
	}
	var env envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	meta := env.pageMeta
	if env.Meta != nil {
		meta = *env.Meta
	}
	ret := &Page[T]{
		Data:        env.Data,
		CurrentPage: meta.CurrentPage,
		LastPage:    meta.LastPage,
		PerPage:     meta.PerPage,
		Total:       meta.Total,
	}
	if ret.CurrentPage == 0 {
		ret.CurrentPage = requested
	}
	if ret.LastPage < ret.CurrentPage {
		ret.LastPage = ret.CurrentPage
	}
	return ret, nil
}
