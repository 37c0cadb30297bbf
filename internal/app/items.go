package app

import (
	"context"
	"net/http"

	"auctionbay-client/internal/adapters/gateway"
	"auctionbay-client/internal/adapters/query"
	"auctionbay-client/internal/domain/item"
	"auctionbay-client/internal/ports/inbound"
	"auctionbay-client/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ItemService implements the two-phase item mutation flow: the metadata
// mutation commits on its own, then an optional image upload runs as an
// independent second phase. The image phase failing never rolls back the
// metadata.
type ItemService struct {
	gateway outbound.Gateway
	session outbound.SessionStore
	cache   *query.Cache
	logger  zerolog.Logger
}

type ItemServiceParams struct {
	Gateway outbound.Gateway
	Session outbound.SessionStore
	Cache   *query.Cache
	Logger  zerolog.Logger
}

// NewItemService creates a new item service
func NewItemService(params ItemServiceParams) *ItemService {
	return &ItemService{
		gateway: params.Gateway,
		session: params.Session,
		cache:   params.Cache,
		logger:  params.Logger.With().Str("component", "item_service").Logger(),
	}
}

// itemPayload is the metadata body submitted to the backend. The end date
// is already normalized to the UTC wire format.
type itemPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EndDate     *string   `json:"end_date,omitempty"`
	OwnerID     uuid.UUID `json:"user_id"`
}

// Create lists a new item for auction
func (s *ItemService) Create(ctx context.Context, req inbound.CreateUpdateItemRequest) inbound.MutationResult {
	return s.mutate(ctx, http.MethodPost, gateway.RouteItems, uuid.Nil, req)
}

// Update edits an existing item's metadata and optionally its image
func (s *ItemService) Update(ctx context.Context, itemID uuid.UUID, req inbound.CreateUpdateItemRequest) inbound.MutationResult {
	return s.mutate(ctx, http.MethodPatch, gateway.ItemPath(itemID), itemID, req)
}

// Delete removes an item
func (s *ItemService) Delete(ctx context.Context, itemID uuid.UUID) outbound.Outcome {
	outcome := s.gateway.Call(ctx, http.MethodDelete, gateway.ItemPath(itemID), nil)
	applyAuthGuard(s.session, outcome)

	if outcome.IsSuccess() {
		s.cache.Invalidate(keyItemsPrefix)
		s.logger.Info().Str("item_id", itemID.String()).Msg("Item deleted")
	}

	return outcome
}

func (s *ItemService) mutate(ctx context.Context, method, path string, knownID uuid.UUID, req inbound.CreateUpdateItemRequest) inbound.MutationResult {
	owner, ok := s.session.Current()
	if !ok {
		s.logger.Warn().Msg("Item mutation attempted without a session")
		return inbound.MutationResult{Metadata: anonymousOutcome()}
	}

	payload := itemPayload{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     owner.ID,
	}
	if req.EndDate != nil {
		wire := item.NewWireTime(*req.EndDate).String()
		payload.EndDate = &wire
	}

	metadata := s.gateway.Call(ctx, method, path, payload)
	applyAuthGuard(s.session, metadata)
	if !metadata.IsSuccess() {
		// Abort: the selected image stays un-uploaded
		s.logger.Warn().Str("class", string(metadata.Class)).Msg("Item metadata mutation rejected")
		return inbound.MutationResult{Metadata: metadata}
	}

	result := inbound.MutationResult{Metadata: metadata, EntityID: knownID}
	if result.EntityID == uuid.Nil {
		var created item.AuctionItem
		if err := metadata.Decode(&created); err != nil {
			s.logger.Error().Err(err).Msg("Created item payload carried no id")
		} else {
			result.EntityID = created.ID
		}
	}

	if req.Image != nil {
		result.Image = s.uploadImage(ctx, result.EntityID, *req.Image)
	}

	if result.Succeeded() {
		// Read-after-write: re-fetch rather than trusting the mutation
		// response, since the image phase may have changed fields the
		// metadata response does not include
		s.cache.Invalidate(keyItemsPrefix)
		s.refetch(result.EntityID)
		s.logger.Info().Str("item_id", result.EntityID.String()).Msg("Item mutation committed")
	}

	return result
}

// uploadImage runs the second phase. The metadata from phase one is
// committed regardless of what happens here.
func (s *ItemService) uploadImage(ctx context.Context, itemID uuid.UUID, image inbound.ImageSelection) *outbound.Outcome {
	if itemID == uuid.Nil {
		s.logger.Error().Msg("Image selected but entity id unknown, upload skipped")
		return &outbound.Outcome{
			Class:   outbound.ClassServerError,
			Message: "item was saved but the image could not be uploaded: missing item id",
		}
	}

	outcome := s.gateway.Upload(ctx, http.MethodPost, gateway.ItemImagePath(itemID), gateway.FieldItemImage, image.Filename, image.Content)
	applyAuthGuard(s.session, outcome)
	if !outcome.IsSuccess() {
		s.logger.Warn().
			Str("item_id", itemID.String()).
			Str("class", string(outcome.Class)).
			Msg("Image upload failed, metadata stays committed")
	}

	return &outcome
}

func (s *ItemService) refetch(itemID uuid.UUID) {
	if itemID == uuid.Nil {
		return
	}

	s.cache.Prefetch(keyItem(itemID), func(ctx context.Context) (any, outbound.Outcome) {
		outcome := s.gateway.Call(ctx, http.MethodGet, gateway.ItemPath(itemID), nil)
		if !outcome.IsSuccess() {
			return nil, outcome
		}

		var fresh item.AuctionItem
		if err := outcome.Decode(&fresh); err != nil {
			s.logger.Warn().Err(err).Str("item_id", itemID.String()).Msg("Item refetch payload malformed")
			return nil, outcome
		}
		return fresh, outcome
	})
}
