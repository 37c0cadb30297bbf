package app

import (
	"context"
	"net/http"

	"auctionbay-client/internal/adapters/gateway"
	"auctionbay-client/internal/ports/inbound"
	"auctionbay-client/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// ProfileService implements the user profile flows. Profile and avatar
// updates follow the same two-phase pattern as items; a full success
// re-fetches the identity into the session store so every region renders
// the replaced identity, avatar included.
type ProfileService struct {
	gateway outbound.Gateway
	session outbound.SessionStore
	auth    *AuthService
	logger  zerolog.Logger
}

type ProfileServiceParams struct {
	Gateway outbound.Gateway
	Session outbound.SessionStore
	Auth    *AuthService
	Logger  zerolog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(params ProfileServiceParams) *ProfileService {
	return &ProfileService{
		gateway: params.Gateway,
		session: params.Session,
		auth:    params.Auth,
		logger:  params.Logger.With().Str("component", "profile_service").Logger(),
	}
}

type profilePayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Update edits the profile metadata and optionally the avatar
func (s *ProfileService) Update(ctx context.Context, req inbound.UpdateProfileRequest) inbound.MutationResult {
	current, ok := s.session.Current()
	if !ok {
		s.logger.Warn().Msg("Profile update attempted without a session")
		return inbound.MutationResult{Metadata: anonymousOutcome()}
	}

	payload := profilePayload{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}

	metadata := s.gateway.Call(ctx, http.MethodPatch, gateway.UserPath(current.ID), payload)
	applyAuthGuard(s.session, metadata)
	if !metadata.IsSuccess() {
		s.logger.Warn().Str("class", string(metadata.Class)).Msg("Profile metadata mutation rejected")
		return inbound.MutationResult{Metadata: metadata}
	}

	result := inbound.MutationResult{Metadata: metadata, EntityID: current.ID}

	if req.Avatar != nil {
		outcome := s.gateway.Upload(ctx, http.MethodPost, gateway.AvatarPath(current.ID), gateway.FieldAvatar, req.Avatar.Filename, req.Avatar.Content)
		applyAuthGuard(s.session, outcome)
		if !outcome.IsSuccess() {
			s.logger.Warn().
				Str("class", string(outcome.Class)).
				Msg("Avatar upload failed, profile change stays committed")
		}
		result.Image = &outcome
	}

	if result.Succeeded() {
		// Read-after-write: the avatar phase changes fields the metadata
		// response does not carry, so refresh the identity from the backend
		if refresh := s.auth.FetchCurrent(ctx); !refresh.IsSuccess() {
			s.logger.Warn().Str("class", string(refresh.Class)).Msg("Identity refresh after profile update failed")
		}
	}

	return result
}

// ChangePassword updates the password for the authenticated user
func (s *ProfileService) ChangePassword(ctx context.Context, req inbound.ChangePasswordRequest) outbound.Outcome {
	current, ok := s.session.Current()
	if !ok {
		return anonymousOutcome()
	}

	outcome := s.gateway.Call(ctx, http.MethodPatch, gateway.PasswordPath(current.ID), req)
	applyAuthGuard(s.session, outcome)

	if outcome.IsSuccess() {
		s.logger.Info().Str("user_id", current.ID.String()).Msg("Password changed")
	}

	return outcome
}

// DeleteAccount removes the authenticated user's account. The backend
// invalidates the session with it, so a success clears the local session.
func (s *ProfileService) DeleteAccount(ctx context.Context) outbound.Outcome {
	current, ok := s.session.Current()
	if !ok {
		return anonymousOutcome()
	}

	outcome := s.gateway.Call(ctx, http.MethodDelete, gateway.UserPath(current.ID), nil)
	applyAuthGuard(s.session, outcome)

	if outcome.IsSuccess() {
		s.session.Signout()
		s.logger.Info().Str("user_id", current.ID.String()).Msg("Account deleted")
	}

	return outcome
}
