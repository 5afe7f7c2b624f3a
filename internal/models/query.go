package models

import (
	"net/url"
	"strings"
)

// AnyCategory is the UI's "no category" choice; it is never sent.
const AnyCategory = "Any"

// Query holds the optional filters for a job listing request.
type Query struct {
	Title    string
	Location string
	Category string
}

// Values encodes the non-empty filters as request parameters.
func (q Query) Values() url.Values {
	values := url.Values{}
	if title := strings.TrimSpace(q.Title); title != "" {
		values.Set("title", title)
	}
	if location := strings.TrimSpace(q.Location); location != "" {
		values.Set("location", location)
	}
	if category := strings.TrimSpace(q.Category); category != "" && !strings.EqualFold(category, AnyCategory) {
		values.Set("category", category)
	}
	return values
}
