package app

import (
	"context"
	"net/http"

	"auctionbay-client/internal/adapters/gateway"
	"auctionbay-client/internal/adapters/query"
	"auctionbay-client/internal/domain/bid"
	"auctionbay-client/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BidService lists a user's participated auctions. Read-only, no retries;
// loading, empty and populated are the only caller-visible states.
type BidService struct {
	gateway outbound.Gateway
	session outbound.SessionWriter
	cache   *query.Cache
	logger  zerolog.Logger
}

type BidServiceParams struct {
	Gateway outbound.Gateway
	Session outbound.SessionWriter
	Cache   *query.Cache
	Logger  zerolog.Logger
}

// NewBidService creates a new bid service
func NewBidService(params BidServiceParams) *BidService {
	return &BidService{
		gateway: params.Gateway,
		session: params.Session,
		cache:   params.Cache,
		logger:  params.Logger.With().Str("component", "bid_service").Logger(),
	}
}

// ListForUser retrieves the bids placed by a user
func (s *BidService) ListForUser(ctx context.Context, userID uuid.UUID) ([]bid.Bid, outbound.Outcome) {
	value, outcome := s.cache.Get(ctx, keyBidsByUser(userID), func(ctx context.Context) (any, outbound.Outcome) {
		fetched := s.gateway.Call(ctx, http.MethodGet, gateway.BidsByUserPath(userID), nil)
		applyAuthGuard(s.session, fetched)
		if !fetched.IsSuccess() {
			s.logger.Warn().Str("user_id", userID.String()).Str("class", string(fetched.Class)).Msg("Bid listing failed")
			return nil, fetched
		}

		var bids []bid.Bid
		if err := fetched.Decode(&bids); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("Bid listing payload malformed")
			return nil, outbound.Outcome{
				Class:      outbound.ClassServerError,
				StatusCode: fetched.StatusCode,
				Message:    "backend returned a malformed bid listing",
			}
		}
		return bids, fetched
	})

	bids, _ := value.([]bid.Bid)
	return bids, outcome
}
