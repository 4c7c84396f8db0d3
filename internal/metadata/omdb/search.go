package omdb

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/cinescope/cinescope-server/internal/domain"
)

// Search runs a free-text search and returns one page of results.
// A catalog answer of Response "False" yields ErrEmptyResult.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchPage, error) {
	const op = "search"

	query := strings.TrimSpace(params.Query)
	if query == "" {
		return nil, wrapError(op, "", ErrBadRequest)
	}

	page := max(params.Page, 1)

	values := url.Values{}
	values.Set("s", query)
	values.Set("page", strconv.Itoa(page))
	if t := strings.TrimSpace(params.Type); t != "" && t != "all" {
		values.Set("type", t)
	}

	var resp rawSearch
	if err := c.get(ctx, op, values, &resp); err != nil {
		return nil, wrapError(op, query, err)
	}
	if !succeeded(resp.Response) {
		c.logger.Debug("catalog search empty", "query", query, "page", page, "reason", resp.Error)
		return nil, wrapError(op, query, ErrEmptyResult)
	}

	out := &SearchPage{
		Items:      make([]domain.Summary, 0, len(resp.Search)),
		TotalCount: parseTotal(resp.TotalResults),
	}
	for _, item := range resp.Search {
		out.Items = append(out.Items, item.toDomain())
	}
	return out, nil
}
