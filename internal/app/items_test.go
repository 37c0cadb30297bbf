package app

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"auctionbay-client/internal/adapters/gateway"
	"auctionbay-client/internal/domain/item"
	"auctionbay-client/internal/domain/shared"
	"auctionbay-client/internal/ports/inbound"
	"auctionbay-client/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newItemService(fake *fakeGateway, t *testing.T) (*ItemService, *session.Store) {
	store := newTestSession()
	service := NewItemService(ItemServiceParams{
		Gateway: fake,
		Session: store,
		Cache:   newTestCache(t),
		Logger:  zerolog.Nop(),
	})
	return service, store
}

func imageSelection(content string) *inbound.ImageSelection {
	return &inbound.ImageSelection{Filename: "photo.png", Content: strings.NewReader(content)}
}

// A rejected metadata mutation must never trigger the image upload
func TestItemService_Create_MetadataRejectionSkipsUpload(t *testing.T) {
	fake := newFakeGateway()
	service, store := newItemService(fake, t)
	store.Login(testIdentity())

	fake.respond(http.MethodPost, gateway.RouteItems, badRequest("title must not be empty"))

	result := service.Create(context.Background(), inbound.CreateUpdateItemRequest{
		Title: "",
		Image: imageSelection("bytes"),
	})

	require.False(t, result.Metadata.IsSuccess())
	require.Equal(t, "title must not be empty", result.Metadata.Message)
	require.Nil(t, result.Image)
	require.Empty(t, fake.uploads())
}

// A committed metadata change stays committed when the image phase fails,
// and the failure is reported on the image phase alone
func TestItemService_Create_ImageFailureLeavesMetadataCommitted(t *testing.T) {
	fake := newFakeGateway()
	service, store := newItemService(fake, t)
	store.Login(testIdentity())

	created := item.AuctionItem{ID: uuid.New(), Title: "lamp"}
	fake.respond(http.MethodPost, gateway.RouteItems, successWith(t, created))
	fake.respond(http.MethodPost, gateway.ItemImagePath(created.ID), badRequest("image too large"))

	result := service.Create(context.Background(), inbound.CreateUpdateItemRequest{
		Title: "lamp",
		Image: imageSelection("bytes"),
	})

	require.True(t, result.Metadata.IsSuccess())
	require.True(t, result.ImageFailed())
	require.False(t, result.Succeeded())
	require.Equal(t, "image too large", result.Image.Message)
	require.Equal(t, created.ID, result.EntityID)

	uploads := fake.uploads()
	require.Len(t, uploads, 1)
	require.Equal(t, gateway.FieldItemImage, uploads[0].Field)
}

func TestItemService_Create_FullSuccess(t *testing.T) {
	fake := newFakeGateway()
	service, store := newItemService(fake, t)
	store.Login(testIdentity())

	created := item.AuctionItem{ID: uuid.New(), Title: "lamp"}
	fake.respond(http.MethodPost, gateway.RouteItems, successWith(t, created))

	result := service.Create(context.Background(), inbound.CreateUpdateItemRequest{
		Title: "lamp",
		Image: imageSelection("fake image bytes"),
	})

	require.True(t, result.Succeeded())
	require.Equal(t, created.ID, result.EntityID)

	uploads := fake.uploads()
	require.Len(t, uploads, 1)
	require.Equal(t, gateway.ItemImagePath(created.ID), uploads[0].Path)
	require.Equal(t, "fake image bytes", uploads[0].Content)
}

// The user's local end date is normalized to the UTC millisecond wire
// format before submission
func TestItemService_Create_NormalizesEndDate(t *testing.T) {
	fake := newFakeGateway()
	service, store := newItemService(fake, t)
	owner := testIdentity()
	store.Login(owner)

	zone := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2024, 3, 1, 10, 15, 0, 0, zone)

	service.Create(context.Background(), inbound.CreateUpdateItemRequest{Title: "lamp", EndDate: &local})

	metadata := fake.callsTo(gateway.RouteItems)
	require.Len(t, metadata, 1)

	payload, ok := metadata[0].Body.(itemPayload)
	require.True(t, ok)
	require.NotNil(t, payload.EndDate)
	require.Equal(t, "2024-03-01T08:15:00.000Z", *payload.EndDate)
	require.Equal(t, owner.ID, payload.OwnerID)
}

func TestItemService_Create_RequiresSession(t *testing.T) {
	fake := newFakeGateway()
	service, _ := newItemService(fake, t)

	result := service.Create(context.Background(), inbound.CreateUpdateItemRequest{Title: "lamp"})

	require.True(t, result.Metadata.IsAuthFailure())
	require.Equal(t, shared.ErrNotAuthenticated.Error(), result.Metadata.Message)
	require.Empty(t, fake.recorded())
}

func TestItemService_Update_UsesKnownEntityID(t *testing.T) {
	fake := newFakeGateway()
	service, store := newItemService(fake, t)
	store.Login(testIdentity())

	itemID := uuid.New()
	result := service.Update(context.Background(), itemID, inbound.CreateUpdateItemRequest{
		Title: "lamp, revised",
		Image: imageSelection("bytes"),
	})

	require.True(t, result.Succeeded())
	require.Equal(t, itemID, result.EntityID)

	metadata := fake.callsTo(gateway.ItemPath(itemID))
	require.NotEmpty(t, metadata)
	require.Equal(t, http.MethodPatch, metadata[0].Method)

	uploads := fake.uploads()
	require.Len(t, uploads, 1)
	require.Equal(t, gateway.ItemImagePath(itemID), uploads[0].Path)
}

// An auth-failure classification on the metadata phase forces the session
// back to anonymous
func TestItemService_Update_AuthFailureForcesLogout(t *testing.T) {
	fake := newFakeGateway()
	service, store := newItemService(fake, t)
	store.Login(testIdentity())

	itemID := uuid.New()
	fake.respond(http.MethodPatch, gateway.ItemPath(itemID), authFailure("session expired"))

	result := service.Update(context.Background(), itemID, inbound.CreateUpdateItemRequest{Title: "x"})

	require.True(t, result.Metadata.IsAuthFailure())
	_, ok := store.Current()
	require.False(t, ok)
}

func TestItemService_Delete(t *testing.T) {
	fake := newFakeGateway()
	service, store := newItemService(fake, t)
	store.Login(testIdentity())

	itemID := uuid.New()
	outcome := service.Delete(context.Background(), itemID)

	require.True(t, outcome.IsSuccess())
	calls := fake.callsTo(gateway.ItemPath(itemID))
	require.Len(t, calls, 1)
	require.Equal(t, http.MethodDelete, calls[0].Method)
}
