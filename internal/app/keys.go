package app

import (
	"fmt"

	"github.com/google/uuid"
)

// Query cache key space. Invalidation is prefix-based, so every item read
// lives under keyItemsPrefix and every bid read under keyBidsPrefix.
const (
	keyItemsPrefix = "items"
	keyBidsPrefix  = "bids"

	keyAllItems = "items:all"
)

func keyItemsPage(page int) string {
	return fmt.Sprintf("items:page:%d", page)
}

func keyItem(id uuid.UUID) string {
	return fmt.Sprintf("items:item:%s", id)
}

func keyBidsByUser(id uuid.UUID) string {
	return fmt.Sprintf("bids:user:%s", id)
}
