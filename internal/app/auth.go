package app

import (
	"context"
	"net/http"

	"auctionbay-client/internal/adapters/gateway"
	"auctionbay-client/internal/domain/identity"
	"auctionbay-client/internal/domain/shared"
	"auctionbay-client/internal/ports/inbound"
	"auctionbay-client/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// AuthService implements the authentication flows. Identity-affecting
// outcomes are propagated into the session store here; the gateway itself
// never touches the session.
type AuthService struct {
	gateway outbound.Gateway
	session outbound.SessionStore
	logger  zerolog.Logger
}

type AuthServiceParams struct {
	Gateway outbound.Gateway
	Session outbound.SessionStore
	Logger  zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(params AuthServiceParams) *AuthService {
	return &AuthService{
		gateway: params.Gateway,
		session: params.Session,
		logger:  params.Logger.With().Str("component", "auth_service").Logger(),
	}
}

// Login authenticates with credentials and stores the identity on success
func (s *AuthService) Login(ctx context.Context, req inbound.LoginRequest) outbound.Outcome {
	outcome := s.gateway.Call(ctx, http.MethodPost, gateway.RouteLogin, req)
	if !outcome.IsSuccess() {
		s.logger.Warn().Str("class", string(outcome.Class)).Str("email", req.Email).Msg("Login rejected")
		return outcome
	}

	return s.storeIdentity(outcome, "login")
}

// Register creates an account; the backend responds with the new identity,
// which is stored like a login
func (s *AuthService) Register(ctx context.Context, req inbound.RegisterRequest) outbound.Outcome {
	outcome := s.gateway.Call(ctx, http.MethodPost, gateway.RouteSignup, req)
	if !outcome.IsSuccess() {
		s.logger.Warn().Str("class", string(outcome.Class)).Str("email", req.Email).Msg("Registration rejected")
		return outcome
	}

	return s.storeIdentity(outcome, "registration")
}

// Signout asks the backend to end the session. Only a success
// classification clears the local session; a rejected sign-out leaves it
// intact so the caller can surface the message instead.
func (s *AuthService) Signout(ctx context.Context) outbound.Outcome {
	outcome := s.gateway.Call(ctx, http.MethodPost, gateway.RouteSignout, nil)

	switch {
	case outcome.IsSuccess():
		s.session.Signout()
	case outcome.IsAuthFailure():
		// The backend no longer recognizes the session at all
		s.session.ForceLogout(outcome.Message)
	default:
		s.logger.Warn().Str("class", string(outcome.Class)).Msg("Sign-out rejected, session kept")
	}

	return outcome
}

// FetchCurrent refreshes the stored identity from the backend. Mutation
// flows use it for read-after-write instead of trusting mutation response
// bodies.
func (s *AuthService) FetchCurrent(ctx context.Context) outbound.Outcome {
	outcome := s.gateway.Call(ctx, http.MethodGet, gateway.RouteCurrentUser, nil)
	applyAuthGuard(s.session, outcome)
	if !outcome.IsSuccess() {
		return outcome
	}

	return s.storeIdentity(outcome, "identity refresh")
}

// storeIdentity decodes the identity payload and replaces the session. A
// success response without a decodable identity is reported as a server
// error so callers never observe a success they cannot act on.
func (s *AuthService) storeIdentity(outcome outbound.Outcome, flow string) outbound.Outcome {
	var id identity.Identity
	if err := outcome.Decode(&id); err != nil {
		s.logger.Error().Err(err).Str("flow", flow).Msg("Identity payload malformed")
		return outbound.Outcome{
			Class:      outbound.ClassServerError,
			StatusCode: outcome.StatusCode,
			Message:    "backend returned a malformed identity",
		}
	}

	s.session.Login(id)
	s.logger.Info().Str("user_id", id.ID.String()).Str("flow", flow).Msg("Identity stored")
	return outcome
}

// applyAuthGuard forces the session back to anonymous when any call comes
// back with an auth-failure classification
func applyAuthGuard(session outbound.SessionWriter, outcome outbound.Outcome) {
	if outcome.IsAuthFailure() {
		session.ForceLogout(outcome.Message)
	}
}

// anonymousOutcome is returned by guarded flows invoked without a session
func anonymousOutcome() outbound.Outcome {
	return outbound.Outcome{
		Class:   outbound.ClassAuthFailure,
		Message: shared.ErrNotAuthenticated.Error(),
	}
}
