package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"investportal/internal/api"
	"investportal/pkg/types"
)

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrNotEditable          = errors.New("booking can no longer be changed")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidDate          = errors.New("invalid booking date")
)

const dateLayout = "2006-01-02"

type Backend interface {
	Bookings(ctx context.Context, creds api.Credentials) ([]*types.Booking, error)
	UpdateBooking(ctx context.Context, creds api.Credentials, id string, update types.BookingUpdate) error
	CancelBooking(ctx context.Context, creds api.Credentials, id string) error
	DeleteBooking(ctx context.Context, creds api.Credentials, id string) error
}

// Manager holds the fetched bookings of one user. Every successful mutation
// is followed by a full refetch; the held list is never patched locally.
type Manager struct {
	backend Backend

	mu       sync.RWMutex
	bookings []*types.Booking
}

func NewManager(backend Backend) *Manager {
	return &Manager{backend: backend}
}

func (m *Manager) Refresh(ctx context.Context, creds api.Credentials) error {
	bookings, err := m.backend.Bookings(ctx, creds)
	if err != nil {
		return fmt.Errorf("failed to fetch bookings: %w", err)
	}

	m.mu.Lock()
	m.bookings = bookings
	m.mu.Unlock()

	return nil
}

func (m *Manager) List() []*types.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out
}

func (m *Manager) Find(id string) (*types.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrBookingNotFound
}

// Update changes date and note. The pending-only rule is checked against the
// held copy so the page can refuse early; the backend remains the authority.
func (m *Manager) Update(ctx context.Context, creds api.Credentials, id string, update types.BookingUpdate) error {
	if b, err := m.Find(id); err == nil && !b.Editable() {
		return ErrNotEditable
	}

	update.Date = strings.TrimSpace(update.Date)
	if _, err := time.Parse(dateLayout, update.Date); err != nil {
		return ErrInvalidDate
	}
	update.Note = strings.TrimSpace(update.Note)

	if err := m.backend.UpdateBooking(ctx, creds, id, update); err != nil {
		return fmt.Errorf("failed to update booking %s: %w", id, err)
	}

	return m.Refresh(ctx, creds)
}

// Cancel moves a pending booking to cancelled. Nothing is sent unless the
// user confirmed.
func (m *Manager) Cancel(ctx context.Context, creds api.Credentials, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if b, err := m.Find(id); err == nil && !b.Editable() {
		return ErrNotEditable
	}

	if err := m.backend.CancelBooking(ctx, creds, id); err != nil {
		return fmt.Errorf("failed to cancel booking %s: %w", id, err)
	}

	return m.Refresh(ctx, creds)
}

// Delete removes the booking whatever its status. Nothing is sent unless
// the user confirmed.
func (m *Manager) Delete(ctx context.Context, creds api.Credentials, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := m.backend.DeleteBooking(ctx, creds, id); err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}

	return m.Refresh(ctx, creds)
}
