package app

import (
	"context"
	"net/http"

	"auctionbay-client/internal/adapters/gateway"
	"auctionbay-client/internal/adapters/query"
	"auctionbay-client/internal/domain/item"
	"auctionbay-client/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// DirectoryService fetches the auction item collection. Ordering is
// whatever the backend returns; the active/expired filter is a pure
// function the caller applies at render time, never cached here.
type DirectoryService struct {
	gateway outbound.Gateway
	session outbound.SessionWriter
	cache   *query.Cache
	logger  zerolog.Logger
}

type DirectoryServiceParams struct {
	Gateway outbound.Gateway
	Session outbound.SessionWriter
	Cache   *query.Cache
	Logger  zerolog.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(params DirectoryServiceParams) *DirectoryService {
	return &DirectoryService{
		gateway: params.Gateway,
		session: params.Session,
		cache:   params.Cache,
		logger:  params.Logger.With().Str("component", "directory_service").Logger(),
	}
}

// List retrieves all items in backend order
func (s *DirectoryService) List(ctx context.Context) ([]item.AuctionItem, outbound.Outcome) {
	return s.fetchItems(ctx, keyAllItems, gateway.RouteItems)
}

// Page retrieves one bounded page of items
func (s *DirectoryService) Page(ctx context.Context, page int) ([]item.AuctionItem, outbound.Outcome) {
	return s.fetchItems(ctx, keyItemsPage(page), gateway.ItemsPagePath(page))
}

func (s *DirectoryService) fetchItems(ctx context.Context, key, path string) ([]item.AuctionItem, outbound.Outcome) {
	value, outcome := s.cache.Get(ctx, key, func(ctx context.Context) (any, outbound.Outcome) {
		fetched := s.gateway.Call(ctx, http.MethodGet, path, nil)
		applyAuthGuard(s.session, fetched)
		if !fetched.IsSuccess() {
			s.logger.Warn().Str("path", path).Str("class", string(fetched.Class)).Msg("Item listing failed")
			return nil, fetched
		}

		var items []item.AuctionItem
		if err := fetched.Decode(&items); err != nil {
			s.logger.Error().Err(err).Str("path", path).Msg("Item listing payload malformed")
			return nil, outbound.Outcome{
				Class:      outbound.ClassServerError,
				StatusCode: fetched.StatusCode,
				Message:    "backend returned a malformed item listing",
			}
		}
		return items, fetched
	})

	items, _ := value.([]item.AuctionItem)
	return items, outcome
}
