package server

import (
	"net/http"
	"time"

	"investportal/pkg/types"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) error {
	userID, _ := r.Context().Value(contextKeyUserID).(string)
	userEmail, _ := r.Context().Value(contextKeyEmail).(string)
	creds := credentialsFromContext(r.Context())

	if setter, ok := data.(types.NavbarDataSetter); ok {
		setter.SetNavbarData(types.NavbarData{
			IsAuthenticated: creds.Token != "",
			UserID:          userID,
			UserEmail:       userEmail,
		})
	}

	if setter, ok := data.(types.NotificationSetter); ok {
		setter.SetNotifications(s.notices.List(sessionFromContext(r.Context())))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.templates.ExecuteTemplate(w, templateName, data)
}

// render is renderTemplate for handlers that have nothing left to do when
// rendering fails.
func (s *Service) render(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	if err := s.renderTemplate(w, r, templateName, data); err != nil {
		s.logger.WithError(err).WithField("template", templateName).Error("failed to render template")
		s.internalServerError(w)
	}
}

func (s *Service) notice(r *http.Request, severity types.Severity, title, message string) {
	s.notices.Add(sessionFromContext(r.Context()), severity, title, message, time.Duration(0))
}
