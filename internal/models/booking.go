package models

import "time"

// Booking is a time-bounded reservation of an item by a user.
type Booking struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	ItemID   int64     `json:"item_id"`
	BookerID int64     `json:"booker_id"`
	Status   string    `json:"status"`
	Item     *Item     `json:"item,omitempty"`
	Booker   *User     `json:"booker,omitempty"`
}

// BookingRequest carries the caller-supplied fields of a new booking.
// Start and End are pointers so absent values can be told apart from
// the zero time during validation.
type BookingRequest struct {
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
	ItemID int64      `json:"item_id"`
}

// BookingRef is the short booking form embedded into item views.
type BookingRef struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"booker_id"`
}

func (b *Booking) Ref() *BookingRef {
	if b == nil {
		return nil
	}
	return &BookingRef{ID: b.ID, BookerID: b.BookerID}
}
