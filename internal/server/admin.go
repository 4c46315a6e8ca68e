package server

import (
	"errors"
	"html/template"
	"net/http"

	"investportal/internal/api"
	"investportal/internal/forms"
	"investportal/internal/review"
	"investportal/internal/storage"
	"investportal/pkg/types"

	"github.com/go-playground/form/v4"
)

var encoder = form.NewEncoder()

type AdminListPageData struct {
	types.BasePageData
	Filter       review.Filter
	FilterQuery  template.URL
	Applications []*types.Application
	Total        int
	Counts       map[types.ApplicationStatus]int
	Statuses     []types.ApplicationStatus
	Types        []types.ApplicationType
	Banner       string
}

type AdminDetailPageData struct {
	types.BasePageData
	Detail      *review.Detail
	Links       []storage.AttachmentLink
	Statuses    []types.ApplicationStatus
	FilterQuery template.URL
	Banner      string
}

type statusForm struct {
	Status types.ApplicationStatus `form:"status"`
	Notes  string                  `form:"notes"`
}

// decodeFilter reads the list filter from the query string and returns it
// together with a "?..." suffix that carries it on to the next link.
func (s *Service) decodeFilter(r *http.Request) (review.Filter, template.URL) {
	var filter review.Filter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		s.logger.WithError(err).Debug("ignoring undecodable filter")
		return review.Filter{}, ""
	}

	values, err := encoder.Encode(filter)
	if err != nil {
		return filter, ""
	}
	for k, v := range values {
		if len(v) == 0 || v[0] == "" {
			values.Del(k)
		}
	}
	if len(values) == 0 {
		return filter, ""
	}

	return filter, template.URL("?" + values.Encode())
}

func (s *Service) newAdminListPageData(board *review.Board, filter review.Filter, query template.URL) *AdminListPageData {
	return &AdminListPageData{
		BasePageData: types.BasePageData{Title: "Applications"},
		Filter:       filter,
		FilterQuery:  query,
		Applications: board.Visible(filter),
		Total:        len(board.All()),
		Counts:       board.Counts(),
		Statuses:     types.AllApplicationStatuses,
		Types:        forms.VariantOrder,
	}
}

func (s *Service) handleGetAdminApplications(w http.ResponseWriter, r *http.Request) {
	filter, query := s.decodeFilter(r)

	ctx, cancel := s.backendContext(r.Context())
	defer cancel()

	board := review.NewBoard(s.api)
	err := board.Refresh(ctx, credentialsFromContext(r.Context()))

	data := s.newAdminListPageData(board, filter, query)
	if err != nil {
		s.logger.WithError(err).Error("failed to load applications")
		data.Banner = api.UserMessage(err, "Applications could not be loaded.")
		w.WriteHeader(http.StatusBadGateway)
	}

	s.render(w, r, "page.admin.applications", data)
}

func (s *Service) handleGetAdminApplication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	_, query := s.decodeFilter(r)

	ctx, cancel := s.backendContext(r.Context())
	defer cancel()

	board := review.NewBoard(s.api)
	if err := board.Refresh(ctx, credentialsFromContext(r.Context())); err != nil {
		s.logger.WithError(err).Error("failed to load applications")
		s.notice(r, types.SeverityError, "Load failed", api.UserMessage(err, "Applications could not be loaded."))
		http.Redirect(w, r, "/admin/applications", http.StatusSeeOther)
		return
	}

	detail, err := board.Detail(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.render(w, r, "page.admin.application", s.newAdminDetailPageData(r, detail, query))
}

func (s *Service) newAdminDetailPageData(r *http.Request, detail *review.Detail, query template.URL) *AdminDetailPageData {
	data := &AdminDetailPageData{
		BasePageData: types.BasePageData{Title: detail.Application.Name},
		Detail:       detail,
		Statuses:     types.AllApplicationStatuses,
		FilterQuery:  query,
	}

	if s.links != nil {
		links, err := s.links.ForApplication(r.Context(), detail.Application)
		if err != nil {
			s.logger.WithError(err).WithField("application_id", detail.Application.ID).Warn("failed to build some attachment links")
		}
		data.Links = links
	}

	return data
}

// handlePostAdminApplicationStatus applies a transition and sends the admin
// back to the list, narrowed by the filter they came from.
func (s *Service) handlePostAdminApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	_, query := s.decodeFilter(r)
	creds := credentialsFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse status form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var input statusForm
	if err := decoder.Decode(&input, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode status form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := s.backendContext(r.Context())
	defer cancel()

	board := review.NewBoard(s.api)

	err := board.Transition(ctx, creds, id, input.Status, input.Notes)
	if err != nil {
		status := http.StatusBadGateway
		msg := api.UserMessage(err, "The status could not be updated.")
		if errors.Is(err, review.ErrInvalidStatus) {
			status = http.StatusUnprocessableEntity
			msg = "Choose one of the listed statuses."
		} else {
			s.logger.WithError(err).WithField("application_id", id).Error("failed to update application status")
		}
		s.notice(r, types.SeverityError, "Update failed", msg)

		if refreshErr := board.Refresh(ctx, creds); refreshErr == nil {
			if detail, findErr := board.Detail(id); findErr == nil {
				detail.Notes = input.Notes
				data := s.newAdminDetailPageData(r, detail, query)
				data.Banner = msg
				w.WriteHeader(status)
				s.render(w, r, "page.admin.application", data)
				return
			}
		}

		http.Error(w, msg, status)
		return
	}

	s.notice(r, types.SeveritySuccess, "Status updated", "The application is now "+string(input.Status)+".")

	http.Redirect(w, r, "/admin/applications"+string(query), http.StatusSeeOther)
}
