package item

import (
	"time"

	"github.com/google/uuid"
)

// TemporalStatus represents the derived lifecycle state of an auction item
type TemporalStatus string

const (
	StatusActive  TemporalStatus = "active"
	StatusExpired TemporalStatus = "expired"
)

// AuctionItem represents an item listed for auction
type AuctionItem struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EndDate     *WireTime `json:"end_date,omitempty"`
	OwnerID     uuid.UUID `json:"user_id"`
	Image       *string   `json:"image,omitempty"`
}

// StatusAt computes the temporal status of the item against the given
// wall-clock time. The status is never persisted; callers re-evaluate it on
// every render or query. An item without an end date is open-ended and
// always active.
func (i AuctionItem) StatusAt(now time.Time) TemporalStatus {
	if i.EndDate == nil || i.EndDate.Time().IsZero() {
		return StatusActive
	}
	if i.EndDate.Time().After(now) {
		return StatusActive
	}
	return StatusExpired
}

// IsActiveAt returns true if the item is biddable at the given time
func (i AuctionItem) IsActiveAt(now time.Time) bool {
	return i.StatusAt(now) == StatusActive
}

// FilterActive returns the items that are active at the given time,
// preserving backend order. Items with a missing or unparseable end date
// are never excluded.
func FilterActive(items []AuctionItem, now time.Time) []AuctionItem {
	filtered := make([]AuctionItem, 0, len(items))
	for _, it := range items {
		if it.IsActiveAt(now) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}
