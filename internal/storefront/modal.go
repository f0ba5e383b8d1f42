// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package storefront

import (
	"github.com/tomtom215/atelier/internal/catalog"
	"github.com/tomtom215/atelier/internal/models"
)

// Modal is the product details overlay. Its visibility is controlled by the
// owning Card; while open it holds one reference on the page ScrollLock.
type Modal struct {
	Open      bool     `json:"open"`
	HoldsLock bool     `json:"holds_lock"`
	Images    []string `json:"images"`
	Carousel  Carousel `json:"carousel"`
}

// NewModal builds a closed modal for p with its image list resolved.
func NewModal(p models.Product) Modal {
	images := catalog.ResolveImages(p.Images)
	return Modal{
		Images:   images,
		Carousel: NewCarousel(len(images)),
	}
}

// SetOpen applies a visibility change and reports whether it was a
// transition. Opening acquires the scroll lock and rewinds the carousel to
// the first image. Closing releases the lock if this modal holds it, whether
// or not the modal was open and whatever its image list.
func (m *Modal) SetOpen(open bool, lock *ScrollLock) bool {
	if open {
		if m.Open {
			return false
		}
		m.Open = true
		m.Carousel.Reset()
		if !m.HoldsLock {
			lock.Acquire()
			m.HoldsLock = true
		}
		return true
	}

	if m.HoldsLock {
		lock.Release()
		m.HoldsLock = false
	}
	changed := m.Open
	m.Open = false
	return changed
}

// CurrentImage returns the URL at the carousel position.
func (m *Modal) CurrentImage() string {
	if len(m.Images) == 0 {
		return catalog.PlaceholderImage
	}
	i := m.Carousel.Index
	if i < 0 || i >= len(m.Images) {
		i = 0
	}
	return m.Images[i]
}

// Next, Prev and Select move the carousel. They are no-ops while the modal
// is closed.
func (m *Modal) Next() bool {
	return m.Open && m.Carousel.Next()
}

// Prev moves to the previous image.
func (m *Modal) Prev() bool {
	return m.Open && m.Carousel.Prev()
}

// Select shows image i.
func (m *Modal) Select(i int) bool {
	return m.Open && m.Carousel.Select(i)
}
