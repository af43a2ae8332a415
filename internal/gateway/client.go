// Package gateway executes requests against the LIGA admin API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
)

const authPreviewLen = 20

var _ model.Requester = (*Client)(nil)

// Client is the single request executor of the admin console. It injects
// the bearer token, encodes JSON bodies and maps every failure to a
// *model.RequestError. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     model.TokenSource
	logger     *logger.Logger
	debug      bool
}

// New creates a Client for baseURL. tokens may be nil, in which case only
// per-request tokens are sent.
func New(baseURL string, timeout time.Duration, debug bool, tokens model.TokenSource, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
		debug:      debug,
	}
}

// Do sends req to endpoint and returns the raw 2xx body. An empty body is
// returned as JSON null.
func (c *Client) Do(ctx context.Context, endpoint string, req model.APIRequest) (json.RawMessage, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + endpoint
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		target += sep + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if !req.SkipAuth {
		if token := c.bearer(ctx, req.Token); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logRequest(httpReq, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("API gateway: request failed",
			"request_id", requestID,
			"method", method,
			"endpoint", endpoint,
			"error", err.Error())
		return nil, model.NewTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("API gateway: failed to read response body",
			"request_id", requestID,
			"endpoint", endpoint,
			"error", err.Error())
		return nil, model.NewTransportError(err)
	}

	c.logResponse(resp.StatusCode, data, requestID, time.Since(start))

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		c.logger.Error("API gateway: malformed response body",
			"request_id", requestID,
			"endpoint", endpoint,
			"status", resp.StatusCode)
		return nil, model.NewTransportError(fmt.Errorf("malformed JSON in %d response", resp.StatusCode))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("API gateway: non-success status",
			"request_id", requestID,
			"endpoint", endpoint,
			"status", resp.StatusCode)
		return nil, model.NewHTTPError(resp.StatusCode, errorMessage(trimmed))
	}

	return json.RawMessage(trimmed), nil
}

func (c *Client) bearer(ctx context.Context, override string) string {
	if override != "" {
		return override
	}
	if c.tokens == nil {
		return ""
	}
	token, _ := c.tokens.Token(ctx)
	return token
}

func (c *Client) logRequest(req *http.Request, requestID string) {
	if !c.debug {
		return
	}
	c.logger.Info("API gateway: request",
		"request_id", requestID,
		"method", req.Method,
		"url", req.URL.String(),
		"authorization", previewAuthorization(req.Header.Get("Authorization")))
}

func (c *Client) logResponse(status int, body []byte, requestID string, elapsed time.Duration) {
	if !c.debug {
		return
	}
	c.logger.Info("API gateway: response",
		"request_id", requestID,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
		"body", string(body))
}

func previewAuthorization(value string) string {
	if value == "" {
		return "NENHUM"
	}
	if len(value) <= authPreviewLen {
		return value
	}
	return value[:authPreviewLen] + "..."
}

func errorMessage(body []byte) string {
	var payload struct {
		Message  string `json:"message"`
		Mensagem string `json:"mensagem"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Mensagem
}
