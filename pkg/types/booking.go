package types

import "time"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

type Service struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ProviderName  string  `json:"providerName"`
	ProviderPhone string  `json:"providerPhone,omitempty"`
	ProviderEmail string  `json:"providerEmail,omitempty"`
}

type Booking struct {
	ID        string        `json:"id"`
	Service   *Service      `json:"service"`
	Date      time.Time     `json:"date"`
	Note      string        `json:"note"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Editable reports whether date and note may still be changed. Only pending
// bookings are editable or cancellable from the front end.
func (b *Booking) Editable() bool {
	return b.Status == BookingStatusPending
}

// BookingUpdate is the edit form for a pending booking.
type BookingUpdate struct {
	Date string `form:"date" json:"date"`
	Note string `form:"note" json:"note"`
}
