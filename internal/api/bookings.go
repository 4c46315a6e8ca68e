package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"investportal/pkg/types"
)

// Bookings lists the bookings owned by the credential holder.
func (c *Client) Bookings(ctx context.Context, creds Credentials) ([]*types.Booking, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/bookings/my", nil, &creds)
	if err != nil {
		return nil, err
	}

	bookings := make([]*types.Booking, 0)
	if err := c.do(req, &bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (c *Client) UpdateBooking(ctx context.Context, creds Credentials, id string, update types.BookingUpdate) error {
	path := fmt.Sprintf("/bookings/%s", url.PathEscape(id))

	req, err := c.newJSONRequest(ctx, http.MethodPut, path, update, &creds)
	if err != nil {
		return err
	}

	return c.do(req, nil)
}

func (c *Client) CancelBooking(ctx context.Context, creds Credentials, id string) error {
	path := fmt.Sprintf("/bookings/%s/cancel", url.PathEscape(id))

	req, err := c.newRequest(ctx, http.MethodPatch, path, nil, &creds)
	if err != nil {
		return err
	}

	return c.do(req, nil)
}

func (c *Client) DeleteBooking(ctx context.Context, creds Credentials, id string) error {
	path := fmt.Sprintf("/bookings/%s", url.PathEscape(id))

	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, &creds)
	if err != nil {
		return err
	}

	return c.do(req, nil)
}
