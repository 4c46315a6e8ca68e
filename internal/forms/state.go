package forms

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"investportal/pkg/types"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrSlotNotAccepted = errors.New("attachment slot not accepted for this application type")
)

// State is the form state for one application submission: the variant
// chosen by the type selector, its decoded fields, and the files accepted so
// far. Errors collects inline messages for both fields and files.
type State struct {
	Variant *Variant
	Form    types.ApplicationForm
	Uploads map[types.AttachmentSlot]*types.Upload
	Errors  FieldErrors
}

// NewState returns an empty form for the type. An unknown type falls back to
// the investor variant so the page can still render.
func NewState(kind types.ApplicationType) *State {
	variant, ok := VariantFor(kind)
	if !ok {
		variant = Variants[types.ApplicationTypeInvestor]
	}

	f, _ := types.NewApplicationForm(variant.Type)

	return &State{
		Variant: variant,
		Form:    f,
		Uploads: make(map[types.AttachmentSlot]*types.Upload),
		Errors:  FieldErrors{},
	}
}

// DecodeState builds form state from submitted values. The "type" value picks
// the variant; an unknown type is recorded as a field error.
func DecodeState(values map[string][]string) (*State, error) {
	var kind types.ApplicationType
	if v := values["type"]; len(v) > 0 {
		kind = types.ApplicationType(v[0])
	}

	s := NewState(kind)
	if _, ok := VariantFor(kind); !ok {
		s.Errors["type"] = "Choose an application type."
	}

	if err := Decode(s.Form, values); err != nil {
		return s, err
	}

	return s, nil
}

// Attach reads an uploaded file into the slot. Files over the variant's limit
// or for a slot the variant does not accept are rejected with an inline error
// and are not stored.
func (s *State) Attach(slot types.AttachmentSlot, fh *multipart.FileHeader) error {
	if !s.Variant.Accepts(slot) {
		s.Errors[string(slot)] = "This file is not accepted for the selected application type."
		return ErrSlotNotAccepted
	}

	upload, err := readUpload(fh, s.Variant.MaxFileBytes)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			s.Errors[string(slot)] = fmt.Sprintf("File must be %d MB or smaller.", s.Variant.MaxFileBytes>>20)
		} else {
			s.Errors[string(slot)] = "Could not read the uploaded file."
		}
		return err
	}

	s.Uploads[slot] = upload
	return nil
}

// AttachFromRequest attaches every file the variant accepts that is present
// in a parsed multipart request.
func (s *State) AttachFromRequest(form *multipart.Form) {
	if form == nil {
		return
	}
	for _, a := range s.Variant.Attachments {
		headers := form.File[string(a.Slot)]
		if len(headers) == 0 || headers[0].Size == 0 {
			continue
		}
		_ = s.Attach(a.Slot, headers[0])
	}
}

// Validate runs submit-time checks and reports whether the form may be sent.
func (s *State) Validate() bool {
	for field, msg := range Validate(s.Form, labelsOf(s.Variant.Fields)) {
		if _, exists := s.Errors[field]; !exists {
			s.Errors[field] = msg
		}
	}
	return !s.Errors.Any()
}

// Parts returns the accepted files in slot order.
func (s *State) Parts() []types.FilePart {
	parts := make([]types.FilePart, 0, len(s.Uploads))
	for _, a := range s.Variant.Attachments {
		if u, ok := s.Uploads[a.Slot]; ok {
			parts = append(parts, types.FilePart{Name: string(a.Slot), Upload: u})
		}
	}
	return parts
}

func readUpload(fh *multipart.FileHeader, limit int64) (*types.Upload, error) {
	if fh.Size > limit {
		return nil, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &types.Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
