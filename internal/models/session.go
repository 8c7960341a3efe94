package models

import "time"

// UserProfile holds the identity fields returned by the upstream login.
type UserProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Session is the authenticated state for a single browser session. Token is
// the opaque upstream bearer; its presence defines authentication. Profile may
// be nil when the persisted copy could not be decoded; the session remains
// usable for admission decisions.
type Session struct {
	ID        string       `json:"id"`
	Token     string       `json:"-"`
	Role      Role         `json:"role"`
	Profile   *UserProfile `json:"profile,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Expired reports whether the session lifetime has elapsed at the given time.
// A zero ExpiresAt means no expiry was recorded.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
