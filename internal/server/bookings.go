package server

import (
	"errors"
	"fmt"
	"net/http"

	"investportal/internal/api"
	"investportal/internal/bookings"
	"investportal/pkg/types"

	"github.com/sirupsen/logrus"
)

type BookingsPageData struct {
	types.BasePageData
	Bookings []*types.Booking
	Banner   string
}

type BookingEditPageData struct {
	types.BasePageData
	Booking *types.Booking
	Values  types.BookingUpdate
	Error   string
}

type confirmForm struct {
	Confirm string `form:"confirm"`
}

func (c confirmForm) confirmed() bool {
	return c.Confirm == "yes"
}

// loadBookings fetches the current user's bookings into a fresh manager.
func (s *Service) loadBookings(r *http.Request) (*bookings.Manager, error) {
	ctx, cancel := s.backendContext(r.Context())
	defer cancel()

	manager := bookings.NewManager(s.api)
	return manager, manager.Refresh(ctx, credentialsFromContext(r.Context()))
}

func (s *Service) renderBookings(w http.ResponseWriter, r *http.Request, manager *bookings.Manager, banner string, status int) {
	data := &BookingsPageData{
		BasePageData: types.BasePageData{Title: "My bookings"},
		Bookings:     manager.List(),
		Banner:       banner,
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	s.render(w, r, "page.bookings", data)
}

func (s *Service) handleGetBookings(w http.ResponseWriter, r *http.Request) {
	manager, err := s.loadBookings(r)
	if err != nil {
		s.logger.WithError(err).Error("failed to load bookings")
		s.renderBookings(w, r, manager, api.UserMessage(err, "Your bookings could not be loaded."), http.StatusBadGateway)
		return
	}

	s.renderBookings(w, r, manager, "", http.StatusOK)
}

func (s *Service) handleGetBookingEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	manager, err := s.loadBookings(r)
	if err != nil {
		s.logger.WithError(err).Error("failed to load bookings")
		s.renderBookings(w, r, manager, api.UserMessage(err, "Your bookings could not be loaded."), http.StatusBadGateway)
		return
	}

	booking, err := manager.Find(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !booking.Editable() {
		s.notice(r, types.SeverityWarning, "Booking locked", "Only pending bookings can be changed.")
		http.Redirect(w, r, "/bookings", http.StatusSeeOther)
		return
	}

	data := &BookingEditPageData{
		BasePageData: types.BasePageData{Title: "Edit booking"},
		Booking:      booking,
		Values: types.BookingUpdate{
			Date: booking.Date.Format("2006-01-02"),
			Note: booking.Note,
		},
	}

	s.render(w, r, "page.bookings.edit", data)
}

func (s *Service) handlePostBookingEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	creds := credentialsFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse booking form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var update types.BookingUpdate
	if err := decoder.Decode(&update, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode booking form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	manager, err := s.loadBookings(r)
	if err != nil {
		s.logger.WithError(err).Error("failed to load bookings")
		s.renderBookings(w, r, manager, api.UserMessage(err, "Your bookings could not be loaded."), http.StatusBadGateway)
		return
	}

	booking, err := manager.Find(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := s.backendContext(r.Context())
	defer cancel()

	err = manager.Update(ctx, creds, id, update)
	switch {
	case err == nil:
		s.notice(r, types.SeveritySuccess, "Booking updated", "Your booking has been updated.")
		http.Redirect(w, r, "/bookings", http.StatusSeeOther)
		return
	case errors.Is(err, bookings.ErrNotEditable):
		s.notice(r, types.SeverityWarning, "Booking locked", "Only pending bookings can be changed.")
		http.Redirect(w, r, "/bookings", http.StatusSeeOther)
		return
	}

	data := &BookingEditPageData{
		BasePageData: types.BasePageData{Title: "Edit booking"},
		Booking:      booking,
		Values:       update,
	}

	status := http.StatusBadGateway
	if errors.Is(err, bookings.ErrInvalidDate) {
		status = http.StatusUnprocessableEntity
		data.Error = "Enter the date as YYYY-MM-DD."
	} else {
		s.logger.WithError(err).WithField("booking_id", id).Error("failed to update booking")
		data.Error = api.UserMessage(err, "Your booking could not be updated.")
		s.notice(r, types.SeverityError, "Update failed", data.Error)
	}

	w.WriteHeader(status)
	s.render(w, r, "page.bookings.edit", data)
}

func (s *Service) handleGetBookingCancel(w http.ResponseWriter, r *http.Request) {
	s.renderBookingConfirm(w, r, "cancel")
}

func (s *Service) handleGetBookingDelete(w http.ResponseWriter, r *http.Request) {
	s.renderBookingConfirm(w, r, "delete")
}

func (s *Service) renderBookingConfirm(w http.ResponseWriter, r *http.Request, action string) {
	id := r.PathValue("id")

	manager, err := s.loadBookings(r)
	if err != nil {
		s.logger.WithError(err).Error("failed to load bookings")
		s.renderBookings(w, r, manager, api.UserMessage(err, "Your bookings could not be loaded."), http.StatusBadGateway)
		return
	}

	booking, err := manager.Find(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	name := "this booking"
	if booking.Service != nil && booking.Service.Name != "" {
		name = booking.Service.Name
	}

	data := &types.ConfirmPageData{
		BasePageData: types.BasePageData{Title: "Confirm"},
		Action:       fmt.Sprintf("/bookings/%s/%s", booking.ID, action),
		CancelHref:   "/bookings",
	}

	switch action {
	case "cancel":
		if !booking.Editable() {
			s.notice(r, types.SeverityWarning, "Booking locked", "Only pending bookings can be cancelled.")
			http.Redirect(w, r, "/bookings", http.StatusSeeOther)
			return
		}
		data.Heading = "Cancel booking?"
		data.Body = fmt.Sprintf("Your booking for %s on %s will be cancelled.", name, booking.Date.Format("2006-01-02"))
		data.SubmitLabel = "Yes, cancel it"
	case "delete":
		data.Heading = "Delete booking?"
		data.Body = fmt.Sprintf("Your booking for %s will be removed. This cannot be undone.", name)
		data.SubmitLabel = "Yes, delete it"
	}

	s.render(w, r, "page.confirm", data)
}

func (s *Service) handlePostBookingCancel(w http.ResponseWriter, r *http.Request) {
	s.applyBookingAction(w, r, "cancel")
}

func (s *Service) handlePostBookingDelete(w http.ResponseWriter, r *http.Request) {
	s.applyBookingAction(w, r, "delete")
}

func (s *Service) applyBookingAction(w http.ResponseWriter, r *http.Request, action string) {
	id := r.PathValue("id")
	creds := credentialsFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse confirmation form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var confirm confirmForm
	if err := decoder.Decode(&confirm, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode confirmation form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	if !confirm.confirmed() {
		http.Redirect(w, r, fmt.Sprintf("/bookings/%s/%s", id, action), http.StatusSeeOther)
		return
	}

	manager, err := s.loadBookings(r)
	if err != nil {
		s.logger.WithError(err).Error("failed to load bookings")
		s.renderBookings(w, r, manager, api.UserMessage(err, "Your bookings could not be loaded."), http.StatusBadGateway)
		return
	}

	ctx, cancel := s.backendContext(r.Context())
	defer cancel()

	var title, message string
	switch action {
	case "cancel":
		err = manager.Cancel(ctx, creds, id, true)
		title, message = "Booking cancelled", "Your booking has been cancelled."
	default:
		err = manager.Delete(ctx, creds, id, true)
		title, message = "Booking deleted", "Your booking has been removed."
	}

	if errors.Is(err, bookings.ErrNotEditable) {
		s.notice(r, types.SeverityWarning, "Booking locked", "Only pending bookings can be cancelled.")
		http.Redirect(w, r, "/bookings", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"booking_id": id, "action": action}).Error("failed to change booking")
		msg := api.UserMessage(err, "Your booking could not be changed.")
		s.notice(r, types.SeverityError, "Request failed", msg)
		s.renderBookings(w, r, manager, msg, http.StatusBadGateway)
		return
	}

	s.notice(r, types.SeveritySuccess, title, message)
	s.renderBookings(w, r, manager, "", http.StatusOK)
}
