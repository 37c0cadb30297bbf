package app

import (
	"context"
	"net/http"
	"testing"

	"auctionbay-client/internal/adapters/gateway"
	"auctionbay-client/internal/ports/inbound"
	"auctionbay-client/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newAuthService(fake *fakeGateway) (*AuthService, *session.Store) {
	store := newTestSession()
	service := NewAuthService(AuthServiceParams{
		Gateway: fake,
		Session: store,
		Logger:  zerolog.Nop(),
	})
	return service, store
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success_stores_identity", func(t *testing.T) {
		fake := newFakeGateway()
		service, store := newAuthService(fake)

		id := testIdentity()
		fake.respond(http.MethodPost, gateway.RouteLogin, successWith(t, id))

		outcome := service.Login(context.Background(), inbound.LoginRequest{Email: id.Email, Password: "hunter2"})
		require.True(t, outcome.IsSuccess())

		current, ok := store.Current()
		require.True(t, ok)
		require.Equal(t, id, current)
	})

	t.Run("bad_request_leaves_session_anonymous", func(t *testing.T) {
		fake := newFakeGateway()
		service, store := newAuthService(fake)

		fake.respond(http.MethodPost, gateway.RouteLogin, badRequest("wrong password"))

		outcome := service.Login(context.Background(), inbound.LoginRequest{Email: "a@b.c", Password: "nope"})
		require.Equal(t, "wrong password", outcome.Message)
		require.False(t, outcome.IsSuccess())

		_, ok := store.Current()
		require.False(t, ok)
	})

	t.Run("malformed_identity_is_reported_as_server_error", func(t *testing.T) {
		fake := newFakeGateway()
		service, store := newAuthService(fake)

		fake.respond(http.MethodPost, gateway.RouteLogin, successWith(t, "not an identity"))

		outcome := service.Login(context.Background(), inbound.LoginRequest{Email: "a@b.c", Password: "pw"})
		require.False(t, outcome.IsSuccess())

		_, ok := store.Current()
		require.False(t, ok)
	})
}

func TestAuthService_Register(t *testing.T) {
	fake := newFakeGateway()
	service, store := newAuthService(fake)

	id := testIdentity()
	fake.respond(http.MethodPost, gateway.RouteSignup, successWith(t, id))

	outcome := service.Register(context.Background(), inbound.RegisterRequest{
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Email:     id.Email,
		Password:  "hunter2",
	})
	require.True(t, outcome.IsSuccess())

	current, ok := store.Current()
	require.True(t, ok)
	require.Equal(t, id.ID, current.ID)
}

func TestAuthService_Signout(t *testing.T) {
	tests := []struct {
		name            string
		respond         func(fake *fakeGateway, t *testing.T)
		expectAnonymous bool
	}{
		{
			name: "success_clears_session",
			respond: func(fake *fakeGateway, t *testing.T) {
				fake.respond(http.MethodPost, gateway.RouteSignout, successWith(t, map[string]string{}))
			},
			expectAnonymous: true,
		},
		{
			name: "bad_request_keeps_session",
			respond: func(fake *fakeGateway, t *testing.T) {
				fake.respond(http.MethodPost, gateway.RouteSignout, badRequest("cannot sign out"))
			},
			expectAnonymous: false,
		},
		{
			name: "server_error_keeps_session",
			respond: func(fake *fakeGateway, t *testing.T) {
				fake.respond(http.MethodPost, gateway.RouteSignout, serverError("boom"))
			},
			expectAnonymous: false,
		},
		{
			name: "auth_failure_forces_logout",
			respond: func(fake *fakeGateway, t *testing.T) {
				fake.respond(http.MethodPost, gateway.RouteSignout, authFailure("token expired"))
			},
			expectAnonymous: true,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeGateway()
			service, store := newAuthService(fake)
			store.Login(testIdentity())

			tc.respond(fake, t)
			service.Signout(context.Background())

			_, ok := store.Current()
			require.Equal(t, !tc.expectAnonymous, ok)
		})
	}
}

func TestAuthService_FetchCurrent(t *testing.T) {
	t.Run("success_replaces_identity", func(t *testing.T) {
		fake := newFakeGateway()
		service, store := newAuthService(fake)
		store.Login(testIdentity())

		refreshed := testIdentity()
		fake.respond(http.MethodGet, gateway.RouteCurrentUser, successWith(t, refreshed))

		outcome := service.FetchCurrent(context.Background())
		require.True(t, outcome.IsSuccess())

		current, ok := store.Current()
		require.True(t, ok)
		require.Equal(t, refreshed.ID, current.ID)
	})

	t.Run("auth_failure_forces_logout", func(t *testing.T) {
		fake := newFakeGateway()
		service, store := newAuthService(fake)
		store.Login(testIdentity())

		fake.respond(http.MethodGet, gateway.RouteCurrentUser, authFailure("session expired"))

		outcome := service.FetchCurrent(context.Background())
		require.True(t, outcome.IsAuthFailure())

		_, ok := store.Current()
		require.False(t, ok)
	})
}
