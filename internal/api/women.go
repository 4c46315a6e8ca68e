package api

import (
	"context"
	"fmt"
	"net/http"

	"investportal/pkg/types"
)

// SubmitWomenInitiative posts the intake form. Any 2xx counts as success;
// the backend answers 200 or 201.
func (c *Client) SubmitWomenInitiative(ctx context.Context, form *types.WomenInitiativeForm, files []types.FilePart) error {
	body, contentType, err := encodeMultipart(form.Fields(), files)
	if err != nil {
		return fmt.Errorf("failed to build women initiative payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/women-initiative", body, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req, nil)
}
