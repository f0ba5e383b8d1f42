// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package models

import (
	"bytes"
	"math"
	"strings"

	"github.com/goccy/go-json"
)

// NotAvailable is the placeholder value the recommendation API uses for
// optional product attributes it could not determine.
const NotAvailable = "N/A"

// Product is one recommended product as returned by POST /recommend.
//
// The upstream is not strict about shape: the display name arrives as
// either name or title, price may be missing or non-numeric, and images is
// a string holding a Python-style list literal.
type Product struct {
	Name                 string    `json:"name,omitempty"`
	Title                string    `json:"title,omitempty"`
	Brand                string    `json:"brand"`
	Price                Price     `json:"price"`
	GeneratedDescription string    `json:"generated_description"`
	Images               ImageList `json:"images"`
	Dimensions           string    `json:"dimensions,omitempty"`
	CountryOfOrigin      string    `json:"countryOfOrigin,omitempty"`
	Material             string    `json:"material,omitempty"`
	Color                string    `json:"color,omitempty"`
	Manufacturer         string    `json:"manufacturer,omitempty"`
}

// DisplayName returns Name, falling back to Title.
func (p Product) DisplayName() string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return strings.TrimSpace(p.Title)
}

// Attribute is a labelled optional product field.
type Attribute struct {
	Label string
	Value string
}

// Attributes returns the optional fields that carry a real value, in
// display order. Empty and "N/A" values are omitted.
func (p Product) Attributes() []Attribute {
	candidates := []Attribute{
		{"Dimensions", p.Dimensions},
		{"Country of Origin", p.CountryOfOrigin},
		{"Material", p.Material},
		{"Color", p.Color},
		{"Manufacturer", p.Manufacturer},
	}
	out := make([]Attribute, 0, len(candidates))
	for _, a := range candidates {
		if present(a.Value) {
			out = append(out, Attribute{Label: a.Label, Value: strings.TrimSpace(a.Value)})
		}
	}
	return out
}

// HasColor reports whether Color carries a real value.
func (p Product) HasColor() bool {
	return present(p.Color)
}

func present(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, NotAvailable)
}

// Price is a product price that tolerates missing and malformed values.
// A price that is absent, null, a string, or not finite decodes as invalid
// instead of failing the whole response.
type Price struct {
	Value float64
	Valid bool
}

// NewPrice returns a valid price for finite v and an invalid one otherwise.
func NewPrice(v float64) Price {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Price{}
	}
	return Price{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	*p = Price{}
	data = bytes.TrimSpace(data)
	// Decoding null into a float64 succeeds and leaves 0, which would read
	// back as a valid $0.00.
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*p = NewPrice(v)
	return nil
}

// MarshalJSON implements json.Marshaler. Invalid prices encode as null.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// ImageList is the raw images field. The API normally sends a string such
// as "['https://a/1.jpg', 'https://a/2.jpg']"; a bare JSON array is kept
// in its encoded form so both reach the same resolver.
type ImageList string

// UnmarshalJSON implements json.Unmarshaler.
func (l *ImageList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*l = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*l = ""
			return nil
		}
		*l = ImageList(s)
	default:
		*l = ImageList(data)
	}
	return nil
}
