package models

// Item is a thing offered for lending by its owner.
type Item struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Available   bool   `json:"available" yaml:"available"`
	OwnerID     int64  `json:"owner_id" yaml:"owner_id"`
	RequestID   int64  `json:"request_id,omitempty" yaml:"request_id"`
}

// ItemPatch carries a partial item update; nil fields are left untouched.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"request_id"`
}

// ItemView is an item augmented with booking-derived scheduling info and
// comments. LastBooking and NextBooking are only populated for the owner.
type ItemView struct {
	Item
	LastBooking *BookingRef `json:"last_booking"`
	NextBooking *BookingRef `json:"next_booking"`
	Comments    []Comment   `json:"comments"`
}
