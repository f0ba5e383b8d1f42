// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

// Package catalog holds the display rules shared by product cards and the
// product details modal: image list resolution and price formatting.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/metrics"
	"github.com/tomtom215/atelier/internal/models"
)

// PlaceholderImage is shown whenever a product has no usable image.
const PlaceholderImage = "https://via.placeholder.com/150"

// ErrMalformedImages is returned by ParseImages when the images field is not
// a JSON array of strings after quote normalisation.
var ErrMalformedImages = errors.New("malformed images field")

// ParseImages decodes the images field. Input that is already a JSON array
// is decoded as is. Otherwise single quotes are rewritten to double quotes,
// which turns the Python list literals the API emits into JSON. Blank
// entries are dropped.
//
// A single-quoted literal holding a URL with an apostrophe cannot survive
// the rewrite and makes the whole field malformed.
func ParseImages(raw models.ImageList) ([]string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedImages)
	}

	var urls []string
	if err := json.Unmarshal([]byte(s), &urls); err != nil {
		urls = nil
		if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &urls); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedImages, err)
		}
	}

	out := urls[:0]
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out, nil
}

// ResolveImages returns the product's image URLs, or a single placeholder
// when the field is malformed or empty. The result is never empty.
func ResolveImages(raw models.ImageList) []string {
	urls, err := ParseImages(raw)
	if err != nil {
		metrics.ImageFallbacks.WithLabelValues("malformed").Inc()
		logging.Debug().Err(err).Str("raw", truncate(string(raw), 200)).Msg("using placeholder image")
		return []string{PlaceholderImage}
	}
	if len(urls) == 0 {
		metrics.ImageFallbacks.WithLabelValues("empty").Inc()
		return []string{PlaceholderImage}
	}
	return urls
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
