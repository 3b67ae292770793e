package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"riot-reimagined/internal/constants"
)

// FetchNews searches NewsAPI for English articles, newest first.
func (c *Client) FetchNews(ctx context.Context, query string) (json.RawMessage, error) {
	if query = strings.TrimSpace(query); query == "" {
		query = constants.DefaultNewsQuery
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")

	raw, err := c.getRaw(ctx, c.news, "/v2/everything", params)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
