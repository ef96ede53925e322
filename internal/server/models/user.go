// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. PasswordHash always holds a bcrypt digest and must
// never be serialised into a response.
type User struct {
	ID           string
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
}
