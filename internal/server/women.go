package server

import (
	"net/http"

	"investportal/internal/api"
	"investportal/internal/forms"
	"investportal/pkg/types"
)

type WomenInitiativePageData struct {
	types.BasePageData
	Fields      []forms.FieldSpec
	Attachments []forms.WomenInitiativeAttachmentSpec
	MaxFileSize int64
	State       *forms.WomenInitiativeState
	Values      map[string]string
	Banner      string
	Sent        bool
}

func newWomenInitiativePageData(state *forms.WomenInitiativeState) *WomenInitiativePageData {
	return &WomenInitiativePageData{
		BasePageData: types.BasePageData{Title: "Women's Initiative"},
		Fields:       forms.WomenInitiativeFields,
		Attachments:  forms.WomenInitiativeAttachments,
		MaxFileSize:  forms.WomenInitiativeMaxFileBytes,
		State:        state,
		Values:       state.Values(),
	}
}

func (s *Service) handleGetWomenInitiative(w http.ResponseWriter, r *http.Request) {
	state := forms.NewWomenInitiativeState()
	if draft, ok := s.womenDrafts.Load(sessionFromContext(r.Context())); ok {
		state = draft
	}

	data := newWomenInitiativePageData(state)
	data.Sent = r.URL.Query().Get("sent") == "1"

	s.render(w, r, "page.women-initiative", data)
}

func (s *Service) handlePostWomenInitiative(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	limit := int64(len(types.AllWomenInitiativeSlots))*forms.WomenInitiativeMaxFileBytes + 1<<20

	values, files, err := s.parseUploadForm(w, r, limit)
	if err != nil {
		s.logger.WithError(err).Warn("failed to parse women's initiative form")
		data := newWomenInitiativePageData(forms.NewWomenInitiativeState())
		data.Banner = "The upload could not be read. Files must be 5 MB or smaller."
		w.WriteHeader(uploadErrorStatus(err))
		s.render(w, r, "page.women-initiative", data)
		return
	}

	state, err := forms.DecodeWomenInitiativeState(values)
	if err != nil {
		s.logger.WithError(err).Error("failed to decode women's initiative form")
		state.Errors["form"] = "Some of the submitted values could not be read."
	}

	state.AttachFromRequest(files)

	if prev, ok := s.womenDrafts.Load(session); ok {
		state.Inherit(prev)
	}

	if !state.Validate() {
		s.saveWomenDraft(r, state)

		data := newWomenInitiativePageData(state)
		data.Banner = state.Errors.Summary()
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.render(w, r, "page.women-initiative", data)
		return
	}

	ctx, cancel := s.backendContext(r.Context())
	defer cancel()

	if err := s.api.SubmitWomenInitiative(ctx, state.Form, state.Parts()); err != nil {
		s.logger.WithError(err).Error("failed to submit women's initiative application")
		s.saveWomenDraft(r, state)

		msg := api.UserMessage(err, "Your application could not be sent. Please try again.")
		s.notice(r, types.SeverityError, "Submission failed", msg)

		data := newWomenInitiativePageData(state)
		data.Banner = msg
		w.WriteHeader(http.StatusBadGateway)
		s.render(w, r, "page.women-initiative", data)
		return
	}

	s.womenDrafts.Delete(session)
	s.notice(r, types.SeveritySuccess, "Application sent", "Thank you for applying to the Women's Initiative.")

	http.Redirect(w, r, "/women-initiative?sent=1", http.StatusSeeOther)
}

func (s *Service) saveWomenDraft(r *http.Request, state *forms.WomenInitiativeState) {
	if !returningSession(r.Context()) {
		return
	}
	if !s.womenDrafts.Save(sessionFromContext(r.Context()), state) {
		s.logger.WithField("bytes", state.UploadBytes()).Warn("women's initiative draft too large to keep")
	}
}
