package server

import (
	"net/http"

	"investportal/internal/forms"
	"investportal/pkg/types"

	"github.com/go-playground/form/v4"
)

var decoder = form.NewDecoder()

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	data := &types.HomePageData{
		BasePageData:     types.BasePageData{Title: "Invest with us"},
		ApplicationTypes: forms.VariantOrder,
	}

	s.render(w, r, "page.home", data)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
