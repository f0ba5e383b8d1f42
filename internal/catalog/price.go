// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package catalog

import (
	"fmt"
	"math"

	"github.com/tomtom215/atelier/internal/models"
)

// Sentinels shown instead of a price that cannot be displayed.
const (
	PriceUnavailable      = "N/A"
	PriceLabelUnavailable = "Price N/A"
)

// FormatPrice renders a valid price as dollars with two decimals, e.g.
// "$199.99", and anything else as "N/A".
func FormatPrice(p models.Price) string {
	if !displayable(p) {
		return PriceUnavailable
	}
	return fmt.Sprintf("$%.2f", p.Value)
}

// PriceLabel is FormatPrice for product cards, which spell out the
// unavailable case as "Price N/A".
func PriceLabel(p models.Price) string {
	if !displayable(p) {
		return PriceLabelUnavailable
	}
	return FormatPrice(p)
}

func displayable(p models.Price) bool {
	return p.Valid && !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0)
}
