package id

import "github.com/google/uuid"

// NewSessionID returns a fresh random session token. Tokens are 128-bit
// UUIDs; collisions are not defended against.
func NewSessionID() string {
	return uuid.NewString()
}
