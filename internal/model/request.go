package model

import (
	"context"
	"encoding/json"
	"net/url"
)

// APIRequest describes a single backend call.
type APIRequest struct {
	Method string
	Body   any
	Query  url.Values
	// SkipAuth disables bearer injection, as the login call requires.
	SkipAuth bool
	// Token overrides the stored token for this call only.
	Token string
}

// Requester executes backend calls and returns the raw JSON body.
type Requester interface {
	Do(ctx context.Context, endpoint string, req APIRequest) (json.RawMessage, error)
}

// TokenSource yields the current bearer token, if any.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}
