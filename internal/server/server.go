package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"investportal/internal/api"
	"investportal/internal/forms"
	"investportal/internal/notify"
	"investportal/internal/storage"
	"investportal/internal/utils"
	"investportal/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS

const (
	draftTTL = 30 * time.Minute

	// draftOverhead is charged per draft on top of its files so text-only
	// drafts still count against the budget.
	draftOverhead    = 4 << 10
	maxSubmittedKept = 10000
)

// Backend is every backend call the front end makes.
type Backend interface {
	SubmitApplication(ctx context.Context, form types.ApplicationForm, files []types.FilePart) (*types.Application, error)
	SubmitWomenInitiative(ctx context.Context, form *types.WomenInitiativeForm, files []types.FilePart) error

	Applications(ctx context.Context, creds api.Credentials) ([]*types.Application, error)
	UpdateApplicationStatus(ctx context.Context, creds api.Credentials, id string, update api.StatusUpdate) (*types.Application, error)

	Bookings(ctx context.Context, creds api.Credentials) ([]*types.Booking, error)
	UpdateBooking(ctx context.Context, creds api.Credentials, id string, update types.BookingUpdate) error
	CancelBooking(ctx context.Context, creds api.Credentials, id string) error
	DeleteBooking(ctx context.Context, creds api.Credentials, id string) error
}

// Authenticator exchanges a username and password for an access token.
type Authenticator interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

// AttachmentLinker builds download links for stored attachments.
type AttachmentLinker interface {
	ForApplication(ctx context.Context, app *types.Application) ([]storage.AttachmentLink, error)
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	templates *template.Template

	api     Backend
	cognito Authenticator
	links   AttachmentLinker

	notices     *notify.Hub
	appDrafts   *forms.DraftStore[*forms.State]
	womenDrafts *forms.DraftStore[*forms.WomenInitiativeState]
	submitted   *forms.DraftStore[*types.Application]

	cookie *securecookie.SecureCookie

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	backend Backend,
	cognito Authenticator,
	links AttachmentLinker,
) (*Service, error) {
	mux := flow.New()

	hashKey, blockKey := cookieKeys(config, logger)

	s := &Service{
		logger:  logger,
		config:  config,
		api:     backend,
		cognito: cognito,
		links:   links,
		cookie:  securecookie.New(hashKey, blockKey),

		notices:     notify.NewHub(),
		appDrafts: forms.NewDraftStore(draftTTL, draftBudget(config), func(st *forms.State) int64 {
			return st.UploadBytes() + draftOverhead
		}),
		womenDrafts: forms.NewDraftStore(draftTTL, draftBudget(config), func(st *forms.WomenInitiativeState) int64 {
			return st.UploadBytes() + draftOverhead
		}),
		submitted: forms.NewDraftStore[*types.Application](draftTTL, maxSubmittedKept, nil),

		handler: mux,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	if err := s.buildRouter(mux); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) buildRouter(r *flow.Mux) error {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)
	r.Use(s.WithSession)

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)

	r.HandleFunc("/apply", s.handleGetApply, http.MethodGet)
	r.HandleFunc("/apply", s.handlePostApply, http.MethodPost)
	r.HandleFunc("/apply/submitted", s.handleGetApplySubmitted, http.MethodGet)

	r.HandleFunc("/women-initiative", s.handleGetWomenInitiative, http.MethodGet)
	r.HandleFunc("/women-initiative", s.handlePostWomenInitiative, http.MethodPost)

	r.HandleFunc("/notifications", s.handleGetNotifications, http.MethodGet)
	r.HandleFunc("/notifications/clear", s.handlePostClearNotifications, http.MethodPost)
	r.HandleFunc("/notifications/:id/dismiss", s.handlePostDismissNotification, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/admin/applications", s.handleGetAdminApplications, http.MethodGet)
		r.HandleFunc("/admin/applications/:id", s.handleGetAdminApplication, http.MethodGet)
		r.HandleFunc("/admin/applications/:id/status", s.handlePostAdminApplicationStatus, http.MethodPost)

		r.HandleFunc("/bookings", s.handleGetBookings, http.MethodGet)
		r.HandleFunc("/bookings/:id/edit", s.handleGetBookingEdit, http.MethodGet)
		r.HandleFunc("/bookings/:id/edit", s.handlePostBookingEdit, http.MethodPost)
		r.HandleFunc("/bookings/:id/cancel", s.handleGetBookingCancel, http.MethodGet)
		r.HandleFunc("/bookings/:id/cancel", s.handlePostBookingCancel, http.MethodPost)
		r.HandleFunc("/bookings/:id/delete", s.handleGetBookingDelete, http.MethodGet)
		r.HandleFunc("/bookings/:id/delete", s.handlePostBookingDelete, http.MethodPost)
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		return fmt.Errorf("failed to mount static assets: %w", err)
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)

	return nil
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"deref": utils.PtrString,
		"derefOr": func(s *string, defaultVal string) string {
			if s == nil || *s == "" {
				return defaultVal
			}
			return *s
		},
		"megabytes": func(n int64) int64 {
			return n >> 20
		},
		"kilobytes": func(n int64) int64 {
			return (n + 1023) >> 10
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"humanize": func(v string) string {
			return strings.ReplaceAll(v, "_", " ")
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// cookieKeys decodes the configured cookie keys. Missing keys are replaced
// with random ones, which means cookies do not survive a restart.
func cookieKeys(config *types.Config, logger *logrus.Logger) ([]byte, []byte) {
	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	if len(hashKey) == 0 {
		logger.Warn("COOKIE_HASH_KEY not set, using a random key")
		hashKey = securecookie.GenerateRandomKey(32)
	}
	if len(blockKey) == 0 {
		logger.Warn("COOKIE_BLOCK_KEY not set, using a random key")
		blockKey = securecookie.GenerateRandomKey(32)
	}

	return hashKey, blockKey
}

func draftBudget(config *types.Config) int64 {
	mb := config.DraftMemoryMB
	if mb == 0 {
		mb = 256
	}
	return int64(mb) << 20
}

func (s *Service) backendContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(s.config.APITimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
