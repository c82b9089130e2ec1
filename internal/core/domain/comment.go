package domain

import "time"

// CommentMinLength is the minimum trimmed length of a comment body.
const CommentMinLength = 2

// Comment is a user-authored note attached to an inventory item.
// AccountID is fixed at creation and decides who may edit or delete it.
type Comment struct {
	ID          int64     `json:"comment_id"`
	AccountID   int64     `json:"account_id"`
	InventoryID int64     `json:"inv_id"`
	Text        string    `json:"comment_text"`
	CreatedAt   time.Time `json:"created_at"`

	// Populated by list queries that join the author account.
	AuthorName string `json:"author_name,omitempty"`
	// Populated by list queries that join the vehicle.
	VehicleName string `json:"vehicle_name,omitempty"`
}
