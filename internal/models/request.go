package models

import "time"

// ItemRequest is a wish for an item nobody has listed yet. Items created
// in response carry the request id.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items,omitempty"`
}
