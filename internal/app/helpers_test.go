package app

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"auctionbay-client/internal/adapters/query"
	"auctionbay-client/internal/config"
	"auctionbay-client/internal/domain/identity"
	"auctionbay-client/internal/ports/outbound"
	"auctionbay-client/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// recordedCall captures one gateway invocation for assertions
type recordedCall struct {
	Method   string
	Path     string
	Body     any
	Upload   bool
	Field    string
	Filename string
	Content  string
}

// fakeGateway implements outbound.Gateway with canned outcomes per
// method+path and records every call
type fakeGateway struct {
	mu        sync.Mutex
	calls     []recordedCall
	responses map[string]outbound.Outcome
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{responses: make(map[string]outbound.Outcome)}
}

func (f *fakeGateway) respond(method, path string, outcome outbound.Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = outcome
}

func (f *fakeGateway) Call(_ context.Context, method, path string, body any) outbound.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, recordedCall{Method: method, Path: path, Body: body})
	return f.lookup(method, path)
}

func (f *fakeGateway) Upload(_ context.Context, method, path, field, filename string, content io.Reader) outbound.Outcome {
	raw, _ := io.ReadAll(content)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, recordedCall{
		Method:   method,
		Path:     path,
		Upload:   true,
		Field:    field,
		Filename: filename,
		Content:  string(raw),
	})
	return f.lookup(method, path)
}

func (f *fakeGateway) lookup(method, path string) outbound.Outcome {
	if outcome, ok := f.responses[method+" "+path]; ok {
		return outcome
	}
	return outbound.Outcome{Class: outbound.ClassSuccess, StatusCode: 200, Payload: json.RawMessage(`{}`)}
}

func (f *fakeGateway) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func (f *fakeGateway) uploads() []recordedCall {
	var uploads []recordedCall
	for _, call := range f.recorded() {
		if call.Upload {
			uploads = append(uploads, call)
		}
	}
	return uploads
}

func (f *fakeGateway) callsTo(path string) []recordedCall {
	var matched []recordedCall
	for _, call := range f.recorded() {
		if call.Path == path {
			matched = append(matched, call)
		}
	}
	return matched
}

func successWith(t *testing.T, payload any) outbound.Outcome {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return outbound.Outcome{Class: outbound.ClassSuccess, StatusCode: 200, Payload: raw}
}

func badRequest(message string) outbound.Outcome {
	return outbound.Outcome{Class: outbound.ClassBadRequest, StatusCode: 400, Message: message}
}

func serverError(message string) outbound.Outcome {
	return outbound.Outcome{Class: outbound.ClassServerError, StatusCode: 500, Message: message}
}

func authFailure(message string) outbound.Outcome {
	return outbound.Outcome{Class: outbound.ClassAuthFailure, StatusCode: 401, Message: message}
}

func newTestCache(t *testing.T) *query.Cache {
	t.Helper()

	cfg := &config.Config{Query: config.QueryConfig{Workers: 2, Capacity: 16, TTL: time.Minute}}
	cache := query.NewCache(query.CacheParams{Config: cfg, Logger: zerolog.Nop()})
	t.Cleanup(cache.Stop)
	return cache
}

func newTestSession() *session.Store {
	return session.NewStore(session.StoreParams{Logger: zerolog.Nop()})
}

func testIdentity() identity.Identity {
	return identity.Identity{
		ID:        uuid.New(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	}
}
