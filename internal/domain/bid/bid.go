package bid

import (
	"auctionbay-client/internal/domain/item"

	"github.com/google/uuid"
)

// Bid is a read-only projection of a user's participation in an auction.
// The client never mutates bids; it only lists them.
type Bid struct {
	ID       uuid.UUID        `json:"id"`
	Item     item.AuctionItem `json:"item"`
	BidderID uuid.UUID        `json:"user_id"`
	Amount   float64          `json:"amount"`
}

// IsWinningAgainst reports whether this bid beats the given amount
func (b Bid) IsWinningAgainst(amount float64) bool {
	return b.Amount > amount
}
