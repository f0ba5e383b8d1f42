// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package models

import (
	"errors"
	"fmt"
)

// ErrIncompleteAggregate is returned by AnalyticsAggregate.Validate when a
// series is missing or the upstream reported an error in-band.
var ErrIncompleteAggregate = errors.New("analytics aggregate incomplete")

// AnalyticsAggregate is the GET /analytics response body.
//
// The upstream answers read failures with {"error": "..."} and status 200,
// so Error is decoded too and treated as a malformed response.
type AnalyticsAggregate struct {
	TopBrands    *BrandSeries    `json:"top_brands"`
	TopMaterials *MaterialSeries `json:"top_materials"`
	Error        string          `json:"error,omitempty"`
}

// BrandSeries holds brand names and their counts by index.
type BrandSeries struct {
	Brands []string `json:"brands"`
	Counts []int    `json:"counts"`
}

// MaterialSeries holds material names and their counts by index.
type MaterialSeries struct {
	Materials []string `json:"materials"`
	Counts    []int    `json:"counts"`
}

// Validate checks that both series are present.
// Length mismatches inside a series are tolerated; consumers truncate.
func (a *AnalyticsAggregate) Validate() error {
	if a.Error != "" {
		return fmt.Errorf("%w: upstream reported %q", ErrIncompleteAggregate, a.Error)
	}
	if a.TopBrands == nil {
		return fmt.Errorf("%w: top_brands missing", ErrIncompleteAggregate)
	}
	if a.TopMaterials == nil {
		return fmt.Errorf("%w: top_materials missing", ErrIncompleteAggregate)
	}
	return nil
}

// NamedCount is one bar of a distribution chart.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
