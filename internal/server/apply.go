package server

import (
	"errors"
	"mime/multipart"
	"net/http"

	"investportal/internal/api"
	"investportal/internal/forms"
	"investportal/pkg/types"
)

const multipartMemory = 32 << 20

type ApplyPageData struct {
	types.BasePageData
	Variants []*forms.Variant
	State    *forms.State
	Values   map[string]string
	Banner   string
}

func (s *Service) newApplyPageData(state *forms.State) *ApplyPageData {
	variants := make([]*forms.Variant, 0, len(forms.VariantOrder))
	for _, kind := range forms.VariantOrder {
		variants = append(variants, forms.Variants[kind])
	}

	return &ApplyPageData{
		BasePageData: types.BasePageData{Title: "Apply"},
		Variants:     variants,
		State:        state,
		Values:       state.Values(),
	}
}

// handleGetApply renders the form for the selected type. A draft left by a
// failed submission of the same type is shown again with its accepted files.
func (s *Service) handleGetApply(w http.ResponseWriter, r *http.Request) {
	kind := types.ApplicationType(r.URL.Query().Get("type"))

	state := forms.NewState(kind)
	if draft, ok := s.appDrafts.Load(sessionFromContext(r.Context())); ok && draft.Variant.Type == state.Variant.Type {
		state = draft
	}

	s.render(w, r, "page.apply", s.newApplyPageData(state))
}

func (s *Service) handlePostApply(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	limit := int64(len(types.AllAttachmentSlots))*forms.InvestmentMaxFileBytes + 1<<20

	values, files, err := s.parseUploadForm(w, r, limit)
	if err != nil {
		s.logger.WithError(err).Warn("failed to parse application form")
		data := s.newApplyPageData(forms.NewState(types.ApplicationType(r.URL.Query().Get("type"))))
		data.Banner = "The upload could not be read. Files must be 10 MB or smaller."
		w.WriteHeader(uploadErrorStatus(err))
		s.render(w, r, "page.apply", data)
		return
	}

	state, err := forms.DecodeState(values)
	if err != nil {
		s.logger.WithError(err).Error("failed to decode application form")
		state.Errors["form"] = "Some of the submitted values could not be read."
	}

	state.AttachFromRequest(files)

	if prev, ok := s.appDrafts.Load(session); ok {
		state.Inherit(prev)
	}

	if !state.Validate() {
		s.saveAppDraft(r, state)

		data := s.newApplyPageData(state)
		data.Banner = state.Errors.Summary()
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "page.apply", data)
		return
	}

	ctx, cancel := s.backendContext(r.Context())
	defer cancel()

	app, err := s.api.SubmitApplication(ctx, state.Form, state.Parts())
	if err != nil {
		s.logger.WithError(err).WithField("type", state.Variant.Type).Error("failed to submit application")
		s.saveAppDraft(r, state)

		msg := api.UserMessage(err, "Your application could not be submitted. Please try again.")
		s.notice(r, types.SeverityError, "Submission failed", msg)

		data := s.newApplyPageData(state)
		data.Banner = msg
		w.WriteHeader(http.StatusBadGateway)
		s.render(w, r, "page.apply", data)
		return
	}

	s.appDrafts.Delete(session)
	s.submitted.Save(session, app)
	s.notice(r, types.SeveritySuccess, "Application submitted", "Thank you, we will be in touch soon.")

	http.Redirect(w, r, "/apply/submitted", http.StatusSeeOther)
}

func (s *Service) saveAppDraft(r *http.Request, state *forms.State) {
	if !returningSession(r.Context()) {
		return
	}
	if !s.appDrafts.Save(sessionFromContext(r.Context()), state) {
		s.logger.WithField("bytes", state.UploadBytes()).Warn("application draft too large to keep")
	}
}

func (s *Service) handleGetApplySubmitted(w http.ResponseWriter, r *http.Request) {
	app, ok := s.submitted.Load(sessionFromContext(r.Context()))
	if !ok {
		http.Redirect(w, r, "/apply", http.StatusSeeOther)
		return
	}

	data := &types.SubmittedPageData{
		BasePageData: types.BasePageData{Title: "Application received"},
		Heading:      "Your application has been received",
		Application:  app,
	}

	s.render(w, r, "page.apply.submitted", data)
}

// parseUploadForm reads a form body capped at limit bytes. Plain urlencoded
// bodies are accepted too and come back without files.
func (s *Service) parseUploadForm(w http.ResponseWriter, r *http.Request, limit int64) (map[string][]string, *multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		if err := r.ParseForm(); err != nil {
			return nil, nil, err
		}
		return r.PostForm, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	return r.MultipartForm.Value, r.MultipartForm, nil
}

func uploadErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
