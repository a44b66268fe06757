package models

import "time"

// Identity is the opaque authenticated-user handle issued by the auth
// provider. Presence gates protected operations; the backend never mints one.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the identity is past its expiry. A zero ExpiresAt
// means the provider issued a non-expiring session.
func (i *Identity) Expired(now time.Time) bool {
	if i == nil {
		return true
	}
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}
