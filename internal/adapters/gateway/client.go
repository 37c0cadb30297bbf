package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"auctionbay-client/internal/config"
	"auctionbay-client/internal/domain/shared"
	"auctionbay-client/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 4 << 20

// Client implements the outbound.Gateway port over HTTP. Every backend
// response, including 4xx and 5xx, is classified into an Outcome; the
// transport-failure class is reserved for calls that produced no response
// at all.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

type ClientParams struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewClient creates a new gateway client
func NewClient(params ClientParams) (*Client, error) {
	base := strings.TrimRight(params.Config.API.BaseURL, "/")
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidBaseURL, params.Config.API.BaseURL)
	}

	// Auth is cookie-based; the jar carries the session cookie set on login
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: params.Config.API.Timeout,
			Jar:     jar,
		},
		logger: params.Logger.With().Str("component", "gateway").Logger(),
	}, nil
}

// Call performs a JSON request and classifies the result
func (c *Client) Call(ctx context.Context, method, path string, body any) outbound.Outcome {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			c.logger.Error().Err(err).Str("path", path).Msg("Failed to encode request body")
			return transportFailure(fmt.Sprintf("failed to encode request: %v", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return transportFailure(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}

// Upload performs a multipart form request with a single file part
func (c *Client) Upload(ctx context.Context, method, path, field, filename string, content io.Reader) outbound.Outcome {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return transportFailure(fmt.Sprintf("failed to build form: %v", err))
	}
	if _, err := io.Copy(part, content); err != nil {
		return transportFailure(fmt.Sprintf("failed to read selected file: %v", err))
	}
	if err := writer.Close(); err != nil {
		return transportFailure(fmt.Sprintf("failed to finalize form: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return transportFailure(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

func (c *Client) do(req *http.Request) outbound.Outcome {
	c.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("Calling backend")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", req.URL.String()).Msg("Backend unreachable")
		return transportFailure(fmt.Sprintf("backend unreachable: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Warn().Err(err).Str("url", req.URL.String()).Msg("Failed to read response body")
		return transportFailure(fmt.Sprintf("failed to read response: %v", err))
	}

	outcome := classify(resp.StatusCode, raw)

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", outcome.StatusCode).
		Str("class", string(outcome.Class)).
		Msg("Backend call settled")

	return outcome
}

// envelope is the wire shape every backend response carries. Error
// responses put the cause in message; success responses may nest the
// resource under data or return it as the body itself.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// classify maps an HTTP response to its Outcome. The envelope's own
// statusCode wins over the transport status when present, because the
// backend reports some failures inside a 200 body.
func classify(httpStatus int, raw []byte) outbound.Outcome {
	var env envelope
	_ = json.Unmarshal(raw, &env)

	status := httpStatus
	if env.StatusCode != 0 {
		status = env.StatusCode
	}

	switch {
	case status == http.StatusBadRequest:
		return outbound.Outcome{
			Class:      outbound.ClassBadRequest,
			StatusCode: status,
			Message:    messageText(env.Message),
		}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return outbound.Outcome{
			Class:      outbound.ClassAuthFailure,
			StatusCode: status,
			Message:    messageText(env.Message),
		}
	case status >= http.StatusInternalServerError:
		return outbound.Outcome{
			Class:      outbound.ClassServerError,
			StatusCode: status,
			Message:    messageText(env.Message),
		}
	default:
		payload := env.Data
		if len(payload) == 0 {
			payload = raw
		}
		return outbound.Outcome{
			Class:      outbound.ClassSuccess,
			StatusCode: status,
			Message:    messageText(env.Message),
			Payload:    payload,
		}
	}
}

// messageText extracts a human-readable message from the envelope. The
// backend sends either a single string or an array of validation strings.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, "; ")
	}

	return string(raw)
}

func transportFailure(message string) outbound.Outcome {
	return outbound.Outcome{
		Class:   outbound.ClassTransportFailure,
		Message: message,
	}
}
