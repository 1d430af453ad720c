package model

import "github.com/google/uuid"

// Scope identifies who issued a command and over which conversation. The
// session key partitions conversational state (such as the last referenced
// event) so concurrent users never see each other's context.
type Scope struct {
	SessionID string // chat or API session identifier
	UserID    string
	Username  string
	RequestID string // correlation id, one per incoming command
}

// NewScope builds a scope for a session, minting a fresh request id.
func NewScope(sessionID, userID, username string) Scope {
	return Scope{
		SessionID: sessionID,
		UserID:    userID,
		Username:  username,
		RequestID: uuid.NewString(),
	}
}
