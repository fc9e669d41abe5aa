package models

import "time"

// Product belongs to the account that created it. CreatorID is stamped
// from the authenticated principal at creation and never changes.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsAvailable bool      `json:"is_available"`
	CreatorID   int64     `json:"creator_id"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
