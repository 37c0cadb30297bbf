package inbound

import (
	"context"
	"io"
	"time"

	"auctionbay-client/internal/domain/bid"
	"auctionbay-client/internal/domain/item"
	"auctionbay-client/internal/ports/outbound"

	"github.com/google/uuid"
)

// AuthFlows defines the authentication operations consumed by the UI
type AuthFlows interface {
	// Login authenticates with credentials; a success stores the identity
	// in the session
	Login(ctx context.Context, req LoginRequest) outbound.Outcome

	// Register creates an account; a success stores the identity like login
	Register(ctx context.Context, req RegisterRequest) outbound.Outcome

	// Signout asks the backend to end the session; only a success clears
	// the local session
	Signout(ctx context.Context) outbound.Outcome

	// FetchCurrent refreshes the stored identity from the backend
	FetchCurrent(ctx context.Context) outbound.Outcome
}

// ItemFlows defines the item mutation operations
type ItemFlows interface {
	// Create performs the two-phase create: metadata, then optional image
	Create(ctx context.Context, req CreateUpdateItemRequest) MutationResult

	// Update performs the two-phase update for an existing item
	Update(ctx context.Context, itemID uuid.UUID, req CreateUpdateItemRequest) MutationResult

	// Delete removes an item
	Delete(ctx context.Context, itemID uuid.UUID) outbound.Outcome
}

// ProfileFlows defines the user profile operations
type ProfileFlows interface {
	// Update performs the two-phase profile update: metadata, then optional
	// avatar; a full success re-fetches the identity into the session
	Update(ctx context.Context, req UpdateProfileRequest) MutationResult

	// ChangePassword updates the password for the authenticated user
	ChangePassword(ctx context.Context, req ChangePasswordRequest) outbound.Outcome

	// DeleteAccount removes the authenticated user's account
	DeleteAccount(ctx context.Context) outbound.Outcome
}

// DirectoryReader fetches the auction item collection
type DirectoryReader interface {
	// List retrieves all items in backend order
	List(ctx context.Context) ([]item.AuctionItem, outbound.Outcome)

	// Page retrieves one bounded page of items
	Page(ctx context.Context, page int) ([]item.AuctionItem, outbound.Outcome)
}

// BidReader fetches a user's participated auctions
type BidReader interface {
	// ListForUser retrieves the bids placed by a user
	ListForUser(ctx context.Context, userID uuid.UUID) ([]bid.Bid, outbound.Outcome)
}

// ImageSelection is a file the user picked for upload
type ImageSelection struct {
	Filename string
	Content  io.Reader
}

// request to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// request to register an account
type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// request to create or update an item; EndDate is the user's local time and
// is normalized to the UTC wire format before submission
type CreateUpdateItemRequest struct {
	Title       string
	Description string
	EndDate     *time.Time
	Image       *ImageSelection
}

// request to update profile metadata
type UpdateProfileRequest struct {
	FirstName string
	LastName  string
	Email     string
	Avatar    *ImageSelection
}

// request to change the password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// MutationResult reports the two phases of a mutation flow independently.
// The metadata phase and the image phase fail on their own; a committed
// metadata change is never rolled back because the image upload failed.
type MutationResult struct {
	Metadata outbound.Outcome
	Image    *outbound.Outcome
	EntityID uuid.UUID
}

// Succeeded returns true when every attempted phase succeeded
func (r MutationResult) Succeeded() bool {
	if !r.Metadata.IsSuccess() {
		return false
	}
	return r.Image == nil || r.Image.IsSuccess()
}

// ImageFailed returns true when the metadata committed but the image
// phase did not
func (r MutationResult) ImageFailed() bool {
	return r.Metadata.IsSuccess() && r.Image != nil && !r.Image.IsSuccess()
}
