package models

import "time"

// User holds the display attributes resolved from the identity directory.
// Account management lives outside this service; users are read-only here.
type User struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	City      string    `json:"city" db:"city"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
