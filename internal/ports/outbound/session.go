package outbound

import "auctionbay-client/internal/domain/identity"

// SessionWriter is the mutation surface of the session store. Each
// transition is driven by exactly one completed backend call.
type SessionWriter interface {
	// Login replaces the stored identity atomically
	Login(id identity.Identity)

	// Signout clears the session to anonymous; callers must only invoke it
	// after the backend confirmed the sign-out
	Signout()

	// ForceLogout clears the session after an auth-failure classification
	ForceLogout(reason string)
}

// SessionReader is the read surface shared by all UI regions
type SessionReader interface {
	// Current returns the authenticated identity, if any
	Current() (identity.Identity, bool)
}

// SessionStore combines both surfaces for flows that read the current
// identity and propagate identity-affecting call results
type SessionStore interface {
	SessionWriter
	SessionReader
}
