// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package storefront

import "strconv"

// Carousel tracks the image shown in a product details modal. Index stays in
// [0, Count) whenever Count > 0. Navigation is disabled for zero or one
// image.
type Carousel struct {
	Index int `json:"index"`
	Count int `json:"count"`
}

// NewCarousel returns a carousel over n images positioned at the first.
func NewCarousel(n int) Carousel {
	if n < 0 {
		n = 0
	}
	return Carousel{Count: n}
}

// Enabled reports whether there is more than one image to move between.
func (c *Carousel) Enabled() bool {
	return c.Count > 1
}

// Next advances one image, wrapping from the last to the first.
func (c *Carousel) Next() bool {
	if !c.Enabled() {
		return false
	}
	c.Index = (c.Index + 1) % c.Count
	return true
}

// Prev moves back one image, wrapping from the first to the last.
func (c *Carousel) Prev() bool {
	if !c.Enabled() {
		return false
	}
	c.Index = (c.Index - 1 + c.Count) % c.Count
	return true
}

// Select jumps to image i. Out-of-range indexes are ignored.
func (c *Carousel) Select(i int) bool {
	if i < 0 || i >= c.Count {
		return false
	}
	c.Index = i
	return true
}

// Reset returns to the first image.
func (c *Carousel) Reset() {
	c.Index = 0
}

// Position renders the "2 / 5" counter.
func (c *Carousel) Position() string {
	if c.Count == 0 {
		return ""
	}
	return strconv.Itoa(c.Index+1) + " / " + strconv.Itoa(c.Count)
}
