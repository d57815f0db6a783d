package domain

import "time"

// User represents a registered account. Re-identification happens through the
// opaque SessionID issued at registration; there is no password.
type User struct {
	ID        string
	Name      string
	Email     string
	SessionID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
