package omdb

import (
	"context"
	"net/url"
	"strings"

	"github.com/cinescope/cinescope-server/internal/domain"
)

// GetByID fetches the full record for a catalog id such as "tt0133093".
func (c *Client) GetByID(ctx context.Context, id string) (*domain.Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, wrapError("getByID", "", ErrBadRequest)
	}
	return c.detail(ctx, "getByID", "i", id)
}

// GetByTitle fetches the record whose title matches exactly. ErrEmptyResult means no such title.
func (c *Client) GetByTitle(ctx context.Context, title string) (*domain.Detail, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, wrapError("getByTitle", "", ErrBadRequest)
	}
	return c.detail(ctx, "getByTitle", "t", title)
}

func (c *Client) detail(ctx context.Context, op, param, key string) (*domain.Detail, error) {
	values := url.Values{}
	values.Set(param, key)

	var resp rawDetail
	if err := c.get(ctx, op, values, &resp); err != nil {
		return nil, wrapError(op, key, err)
	}
	if !succeeded(resp.Response) {
		return nil, wrapError(op, key, ErrEmptyResult)
	}
	return resp.toDomain(), nil
}
