package forms

import (
	"errors"
	"fmt"
	"mime/multipart"

	"investportal/pkg/types"
)

// WomenInitiativeState is the form state for the women's initiative intake.
type WomenInitiativeState struct {
	Form    *types.WomenInitiativeForm
	Uploads map[types.WomenInitiativeSlot]*types.Upload
	Errors  FieldErrors
}

func NewWomenInitiativeState() *WomenInitiativeState {
	return &WomenInitiativeState{
		Form:    new(types.WomenInitiativeForm),
		Uploads: make(map[types.WomenInitiativeSlot]*types.Upload),
		Errors:  FieldErrors{},
	}
}

func DecodeWomenInitiativeState(values map[string][]string) (*WomenInitiativeState, error) {
	s := NewWomenInitiativeState()
	if err := Decode(s.Form, values); err != nil {
		return s, err
	}
	return s, nil
}

func (s *WomenInitiativeState) Attach(slot types.WomenInitiativeSlot, fh *multipart.FileHeader) error {
	if !slot.Valid() {
		return ErrSlotNotAccepted
	}

	upload, err := readUpload(fh, WomenInitiativeMaxFileBytes)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			s.Errors[string(slot)] = fmt.Sprintf("File must be %d MB or smaller.", WomenInitiativeMaxFileBytes>>20)
		} else {
			s.Errors[string(slot)] = "Could not read the uploaded file."
		}
		return err
	}

	s.Uploads[slot] = upload
	return nil
}

func (s *WomenInitiativeState) AttachFromRequest(form *multipart.Form) {
	if form == nil {
		return
	}
	for _, a := range WomenInitiativeAttachments {
		headers := form.File[string(a.Slot)]
		if len(headers) == 0 || headers[0].Size == 0 {
			continue
		}
		_ = s.Attach(a.Slot, headers[0])
	}
}

func (s *WomenInitiativeState) Validate() bool {
	for field, msg := range Validate(s.Form, labelsOf(WomenInitiativeFields)) {
		if _, exists := s.Errors[field]; !exists {
			s.Errors[field] = msg
		}
	}
	return !s.Errors.Any()
}

func (s *WomenInitiativeState) Parts() []types.FilePart {
	parts := make([]types.FilePart, 0, len(s.Uploads))
	for _, a := range WomenInitiativeAttachments {
		if u, ok := s.Uploads[a.Slot]; ok {
			parts = append(parts, types.FilePart{Name: string(a.Slot), Upload: u})
		}
	}
	return parts
}
