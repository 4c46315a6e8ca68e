package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"investportal/internal"
	"investportal/internal/api"
	"investportal/internal/utils"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyUserID      contextKey = "user_id"
	contextKeyEmail       contextKey = "email"
	contextKeyCredentials contextKey = "credentials"
	contextKeySession     contextKey = "session"
	contextKeyNewSession  contextKey = "new_session"
)

const sessionMaxAge = 24 * time.Hour

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// WithSession makes sure every browser carries an opaque session id. The id
// keys notifications and form drafts and says nothing about who the user is.
func (s *Service) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			sessionID string
			fresh     bool
		)

		if cookie, err := r.Cookie(internal.COOKIE_SESSION_NAME); err == nil {
			if err := s.cookie.Decode(internal.COOKIE_SESSION_NAME, cookie.Value, &sessionID); err != nil {
				s.logger.WithError(err).Debug("discarding undecodable session cookie")
				sessionID = ""
			}
		}

		if sessionID == "" {
			sessionID = utils.NanoID()
			fresh = true

			encoded, err := s.cookie.Encode(internal.COOKIE_SESSION_NAME, sessionID)
			if err != nil {
				s.logger.WithError(err).Error("failed to encode session cookie")
				s.internalServerError(w)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     internal.COOKIE_SESSION_NAME,
				Value:    encoded,
				HttpOnly: true,
				Secure:   s.secureCookies(),
				SameSite: http.SameSiteLaxMode,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
			})
		}

		ctx := context.WithValue(r.Context(), contextKeySession, sessionID)
		ctx = context.WithValue(ctx, contextKeyNewSession, fresh)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth middleware reads the access token cookie and puts the bearer
// credentials on the context. The token is verified by the backend on every
// call; the claims read here only fill the navbar.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
		if err != nil {
			s.logger.WithError(err).Debug("no access token cookie found")

			s.setRedirectCookie(w, r.URL.RequestURI(), time.Minute*5)

			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		var accessToken string
		err = s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken)
		if err != nil || accessToken == "" {
			s.logger.WithError(err).Error("failed to decrypt access token")
			s.clearAccessTokenCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyCredentials, api.Credentials{Token: accessToken})

		token, err := jwt.ParseInsecure([]byte(accessToken))
		if err != nil {
			s.logger.WithError(err).Debug("access token is not a readable JWT")
		} else {
			if userID, ok := token.Subject(); ok && userID != "" {
				ctx = context.WithValue(ctx, contextKeyUserID, userID)
			}

			var email string
			if err := token.Get("email", &email); err == nil && email != "" {
				ctx = context.WithValue(ctx, contextKeyEmail, email)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func credentialsFromContext(ctx context.Context) api.Credentials {
	creds, _ := ctx.Value(contextKeyCredentials).(api.Credentials)
	return creds
}

func sessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeySession).(string)
	return id
}

// returningSession reports whether the request came with a session cookie
// issued earlier. Drafts are only kept for those, since a browser that
// ignores the cookie could never load them again.
func returningSession(ctx context.Context) bool {
	fresh, _ := ctx.Value(contextKeyNewSession).(bool)
	return !fresh
}
