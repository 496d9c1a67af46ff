package model

import (
	"time"
)

type Place struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"` // creator
	PlaceName    string    `json:"place_name"`
	PlaceAddress string    `json:"place_address"`
	Pincode      int       `json:"pincode"`
	Slug         string    `json:"slug"`
	Upvotes      int       `json:"upvotes"`
	Downvotes    int       `json:"downvotes"`
	CreatedAt    time.Time `json:"created_at"`
}

// PlaceDetail is a place as seen by one user, with that user's vote.
type PlaceDetail struct {
	Place *Place `json:"place"`
	Vote  *bool  `json:"vote"`
}
