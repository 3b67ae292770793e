package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
)

type mmrHistoryEnvelope struct {
	Status int               `json:"status"`
	Data   []json.RawMessage `json:"data"`
}

// FetchMmrHistory returns the HenrikDev MMR history for a Riot ID, newest
// first. Entries are left raw; the provider has already aggregated them.
func (c *Client) FetchMmrHistory(ctx context.Context, gameName, tagLine string) ([]json.RawMessage, error) {
	gameName, tagLine = strings.TrimSpace(gameName), strings.TrimSpace(tagLine)
	if gameName == "" || tagLine == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "name and tag are required")
	}

	seg := escape(c.henrikRegion, gameName, tagLine)
	path := fmt.Sprintf("/valorant/v1/mmr-history/%s/%s/%s", seg[0], seg[1], seg[2])

	body, err := c.get(ctx, c.henrik, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeMmrHistory(body)
}

// decodeMmrHistory accepts both the {"data": [...]} envelope and a bare array.
func decodeMmrHistory(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	malformed := &UpstreamError{Provider: ProviderHenrik, Status: fasthttp.StatusOK, Detail: "undecodable mmr history"}
	if len(body) == 0 {
		return nil, malformed
	}

	switch body[0] {
	case '[':
		var entries []json.RawMessage
		if err := sonic.Unmarshal(body, &entries); err != nil {
			return nil, malformed
		}
		return entries, nil
	case '{':
		var env mmrHistoryEnvelope
		if err := sonic.Unmarshal(body, &env); err != nil {
			return nil, malformed
		}
		return env.Data, nil
	default:
		return nil, malformed
	}
}

// FetchEsportsSchedule proxies the HenrikDev esports schedule.
func (c *Client) FetchEsportsSchedule(ctx context.Context, region, league string) (json.RawMessage, error) {
	query := url.Values{}
	if region = strings.TrimSpace(region); region != "" {
		query.Set("region", region)
	}
	if league = strings.TrimSpace(league); league != "" {
		query.Set("league", league)
	}

	raw, err := c.getRaw(ctx, c.henrik, "/valorant/v1/esports/schedule", query)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
