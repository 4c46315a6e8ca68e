package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"investportal/pkg/types"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart writes each text field and each file part into a
// multipart/form-data body. Fields with an empty value and files without
// data are skipped.
func encodeMultipart(fields []types.FormField, files []types.FilePart) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	for _, fp := range files {
		if fp.Upload == nil {
			continue
		}

		contentType := fp.Upload.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(fp.Name), quoteEscaper.Replace(fp.Upload.Filename)))
		h.Set("Content-Type", contentType)

		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", fp.Name, err)
		}
		if _, err := w.Write(fp.Upload.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", fp.Name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return body, mw.FormDataContentType(), nil
}
