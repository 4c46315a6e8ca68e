package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"investportal/pkg/types"
)

type createdApplication struct {
	Investment *types.Application `json:"investment"`
}

// SubmitApplication posts one application with its attachments. It makes a
// single attempt.
func (c *Client) SubmitApplication(ctx context.Context, form types.ApplicationForm, files []types.FilePart) (*types.Application, error) {
	body, contentType, err := encodeMultipart(form.Fields(), files)
	if err != nil {
		return nil, fmt.Errorf("failed to build application payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/investments", body, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var out createdApplication
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	if out.Investment == nil {
		return nil, fmt.Errorf("backend response did not include the created application")
	}
	if out.Investment.Attachments == nil {
		out.Investment.Attachments = map[types.AttachmentSlot]string{}
	}

	return out.Investment, nil
}

// Applications fetches every application. There is no paging.
func (c *Client) Applications(ctx context.Context, creds Credentials) ([]*types.Application, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/investments", nil, &creds)
	if err != nil {
		return nil, err
	}

	apps := make([]*types.Application, 0)
	if err := c.do(req, &apps); err != nil {
		return nil, err
	}

	return apps, nil
}

type StatusUpdate struct {
	Status types.ApplicationStatus `json:"status"`
	Notes  *string                 `json:"notes,omitempty"`
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, creds Credentials, id string, update StatusUpdate) (*types.Application, error) {
	path := fmt.Sprintf("/investments/%s/status", url.PathEscape(id))

	req, err := c.newJSONRequest(ctx, http.MethodPut, path, update, &creds)
	if err != nil {
		return nil, err
	}

	var app = new(types.Application)
	if err := c.do(req, app); err != nil {
		return nil, err
	}

	return app, nil
}
