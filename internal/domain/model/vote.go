package model

import "time"

// Vote is one user's up (true) or down (false) vote on a place.
type Vote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlaceID   string    `json:"place_id"`
	Vote      bool      `json:"vote"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VoteTally struct {
	PlaceID   string `json:"place_id"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}
