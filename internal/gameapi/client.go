package gameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/adventure-client/internal/logger"
	"github.com/jwebster45206/adventure-client/pkg/snapshot"
)

// Endpoints of the game service.
const (
	EndpointStart   = "/start"
	EndpointCommand = "/command"
	EndpointReset   = "/reset"
)

// RequestIDHeader carries the id each request is logged under.
const RequestIDHeader = "X-Request-ID"

// CommandRequest is the body posted to /command.
type CommandRequest struct {
	Command string `json:"command"`
}

// ErrorResponse is the error body some game services return.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusError is returned when the game service answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Client talks to the game service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a game service client. A nil httpClient gets a client
// with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Start fetches the current game state.
func (c *Client) Start(ctx context.Context) (snapshot.Snapshot, error) {
	return c.do(ctx, http.MethodGet, EndpointStart, nil)
}

// Command submits a player command and returns the resulting state.
func (c *Client) Command(ctx context.Context, command string) (snapshot.Snapshot, error) {
	body, err := json.Marshal(CommandRequest{Command: command})
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to marshal command: %w", err)
	}
	return c.do(ctx, http.MethodPost, EndpointCommand, body)
}

// Reset restarts the game and returns the fresh state.
func (c *Client) Reset(ctx context.Context) (snapshot.Snapshot, error) {
	return c.do(ctx, http.MethodGet, EndpointReset, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (snapshot.Snapshot, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := logger.WithRequestID(c.logger, requestID).With("endpoint", endpoint)
	log.Debug("Sending game service request", "method", method)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to send request to %s: %w", endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}

	log.Debug("Received game service response",
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return snapshot.Snapshot{}, newStatusError(endpoint, resp.StatusCode, respBody)
	}

	s, err := snapshot.Decode(respBody)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("invalid response from %s: %w", endpoint, err)
	}
	return s, nil
}

func newStatusError(endpoint string, status int, body []byte) *StatusError {
	serr := &StatusError{Endpoint: endpoint, StatusCode: status}

	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error != "" {
		serr.Message = errorResp.Error
		return serr
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	serr.Message = msg
	return serr
}
