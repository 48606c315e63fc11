package domain

import "time"

// Location is the last place a user asked about or shared.
type Location struct {
	Lat  float64 `validate:"latitude"`
	Lon  float64 `validate:"longitude"`
	Name string  // display name shown in messages
}

// User represents per-chat subscription settings.
type User struct {
	ID                   int64
	NotificationsEnabled bool
	Location             *Location  // nil until the user supplies one
	LastNotifiedAt       *time.Time // nil until the first toggle-on or alert pass
}

// NewUser returns the default record created on first interaction.
func NewUser(id int64) User {
	return User{ID: id}
}

// HasLocation reports whether the user has supplied a location.
func (u User) HasLocation() bool { return u.Location != nil }

// NotifiedWithin reports whether the last alert pass happened less than d ago.
func (u User) NotifiedWithin(now time.Time, d time.Duration) bool {
	return u.LastNotifiedAt != nil && now.Sub(*u.LastNotifiedAt) < d
}

// Clone returns a deep copy so callers never share pointers with the store.
func (u User) Clone() User {
	c := u
	if u.Location != nil {
		loc := *u.Location
		c.Location = &loc
	}
	if u.LastNotifiedAt != nil {
		t := *u.LastNotifiedAt
		c.LastNotifiedAt = &t
	}
	return c
}
