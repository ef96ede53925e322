package models

import "time"

// Post is a text post owned by exactly one user. UserID is fixed at
// creation. Nickname is the owner's nickname and is only filled by reads
// that join users.
type Post struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	Nickname string
}

// PostSummary is a listing row.
type PostSummary struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Nickname  string
}
