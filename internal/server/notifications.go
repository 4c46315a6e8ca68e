package server

import (
	"encoding/json"
	"net/http"

	"investportal/pkg/types"

)

type notificationsResponse struct {
	Notifications []types.Notification `json:"notifications"`
}

func (s *Service) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	s.writeNotifications(w, r, http.StatusOK)
}

func (s *Service) handlePostDismissNotification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	status := http.StatusOK
	if !s.notices.Dismiss(sessionFromContext(r.Context()), id) {
		status = http.StatusNotFound
	}

	if wantsHTML(r) {
		redirectBack(w, r)
		return
	}
	s.writeNotifications(w, r, status)
}

func (s *Service) handlePostClearNotifications(w http.ResponseWriter, r *http.Request) {
	s.notices.ClearAll(sessionFromContext(r.Context()))

	if wantsHTML(r) {
		redirectBack(w, r)
		return
	}
	s.writeNotifications(w, r, http.StatusOK)
}

func (s *Service) writeNotifications(w http.ResponseWriter, r *http.Request, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := notificationsResponse{Notifications: s.notices.List(sessionFromContext(r.Context()))}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.WithError(err).Error("failed to write notifications")
	}
}
