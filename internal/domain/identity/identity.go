package identity

import "github.com/google/uuid"

// Identity represents the authenticated user as returned by the backend.
// It is replaced wholesale on profile-update success, never patched field
// by field.
type Identity struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar,omitempty"`
}

// FullName returns the display name for the identity
func (i Identity) FullName() string {
	if i.FirstName == "" {
		return i.LastName
	}
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

// HasAvatar returns true if an avatar image reference is attached
func (i Identity) HasAvatar() bool {
	return i.Avatar != nil && *i.Avatar != ""
}
