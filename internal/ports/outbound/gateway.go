package outbound

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"auctionbay-client/internal/domain/shared"
)

// Class is the classification of a backend call outcome. Callers branch on
// the class; thrown-error control flow is reserved for programmer mistakes,
// never for expected backend responses.
type Class string

const (
	// ClassSuccess covers every 2xx response
	ClassSuccess Class = "success"

	// ClassBadRequest covers a 400 response with a client-correctable message
	ClassBadRequest Class = "bad_request"

	// ClassAuthFailure covers 401 and 403; receiving it on any call forces
	// the session back to anonymous
	ClassAuthFailure Class = "auth_failure"

	// ClassServerError covers 5xx responses, treated as non-retriable
	ClassServerError Class = "server_error"

	// ClassTransportFailure covers DNS/connection/timeout failures where no
	// backend response was produced at all
	ClassTransportFailure Class = "transport_failure"
)

// Outcome is the typed envelope every gateway call returns
type Outcome struct {
	Class      Class
	StatusCode int
	Message    string
	Payload    json.RawMessage
}

// IsSuccess returns true for a 2xx classification
func (o Outcome) IsSuccess() bool {
	return o.Class == ClassSuccess
}

// IsAuthFailure returns true when the backend rejected the session
func (o Outcome) IsAuthFailure() bool {
	return o.Class == ClassAuthFailure
}

// Decode unmarshals the success payload into v
func (o Outcome) Decode(v any) error {
	if !o.IsSuccess() {
		return fmt.Errorf("%w: %s", shared.ErrNotSuccess, o.Class)
	}
	if len(o.Payload) == 0 {
		return shared.ErrEmptyPayload
	}
	if err := json.Unmarshal(o.Payload, v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// Gateway is the single chokepoint for backend calls. Implementations must
// classify every backend-produced HTTP response into an Outcome and reserve
// ClassTransportFailure for failures where no response exists.
type Gateway interface {
	// Call performs a JSON request; body may be nil
	Call(ctx context.Context, method, path string, body any) Outcome

	// Upload performs a multipart form request with a single file part
	// under the given field name
	Upload(ctx context.Context, method, path, field, filename string, content io.Reader) Outcome
}
