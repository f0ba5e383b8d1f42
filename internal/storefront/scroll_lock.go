// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package storefront

// ScrollLock suppresses background page scrolling while any modal is shown.
// It is reference counted: each Acquire must be paired with one Release and
// the page stays locked while at least one holder remains. Release on an
// unlocked ScrollLock is a no-op, so a surplus release can never leave the
// count negative.
//
// ScrollLock is part of a session's persisted view state and is not safe for
// concurrent use; callers serialise access through the session store.
type ScrollLock struct {
	Holders int `json:"holders"`
}

// Acquire adds a holder.
func (l *ScrollLock) Acquire() {
	if l == nil {
		return
	}
	l.Holders++
}

// Release removes a holder.
func (l *ScrollLock) Release() {
	if l == nil || l.Holders <= 0 {
		return
	}
	l.Holders--
}

// Locked reports whether background scrolling is suppressed.
func (l *ScrollLock) Locked() bool {
	return l != nil && l.Holders > 0
}
