package model

import "context"

// SessionState is the lifecycle position of the operator session.
type SessionState int

const (
	// StateUnknown is the initial state before restore completes.
	StateUnknown SessionState = iota
	// StateAnonymous means no session is held.
	StateAnonymous
	// StateAuthenticated means both token and user are held.
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Credential slot names.
const (
	SlotToken = "auth_token"
	SlotUser  = "user_data"
)

// CredentialStore keeps the durable copy of the session.
type CredentialStore interface {
	SaveToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, bool)
	SaveUser(ctx context.Context, user User) error
	User(ctx context.Context) (User, bool)
	Clear(ctx context.Context) error
}
