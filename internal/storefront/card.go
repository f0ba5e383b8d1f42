// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

// Package storefront holds the view state of the product grid: one Card per
// recommended product, the details Modal each card owns, the image Carousel
// inside it, and the page-wide ScrollLock the modals share.
package storefront

import (
	"github.com/tomtom215/atelier/internal/catalog"
	"github.com/tomtom215/atelier/internal/models"
)

// Card is one product summary in the recommendation grid.
type Card struct {
	Product     models.Product `json:"product"`
	Image       string         `json:"image"`
	PriceLabel  string         `json:"price_label"`
	DetailsOpen bool           `json:"details_open"`
	Modal       Modal          `json:"modal"`
}

// NewCard derives the display fields for p.
func NewCard(p models.Product) Card {
	m := NewModal(p)
	return Card{
		Product:    p,
		Image:      m.Images[0],
		PriceLabel: catalog.PriceLabel(p.Price),
		Modal:      m,
	}
}

// NewCards builds one card per product, preserving order.
func NewCards(products []models.Product) []Card {
	cards := make([]Card, len(products))
	for i, p := range products {
		cards[i] = NewCard(p)
	}
	return cards
}

// Title is the product display name.
func (c *Card) Title() string {
	return c.Product.DisplayName()
}

// PriceText is the modal's price rendering ("N/A" when unavailable).
func (c *Card) PriceText() string {
	return catalog.FormatPrice(c.Product.Price)
}

// OpenDetails shows the details modal. Both the card body and its "View
// Details" control route here, so a click that reaches both opens the
// modal once; the second call reports false and takes no lock.
func (c *Card) OpenDetails(lock *ScrollLock) bool {
	if c.DetailsOpen {
		return false
	}
	c.DetailsOpen = true
	c.Modal.SetOpen(true, lock)
	return true
}

// CloseDetails hides the modal and releases its lock.
func (c *Card) CloseDetails(lock *ScrollLock) {
	c.DetailsOpen = false
	c.Modal.SetOpen(false, lock)
}

// Unmount is called when the card leaves the grid, e.g. on a new submit.
func (c *Card) Unmount(lock *ScrollLock) {
	c.CloseDetails(lock)
}
