package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"riot-reimagined/internal/domain"

	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
)

type accountResponse struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// FetchAccount resolves a Riot ID into a PlayerIdentity carrying the puuid.
func (c *Client) FetchAccount(ctx context.Context, gameName, tagLine string) (domain.PlayerIdentity, error) {
	gameName, tagLine = strings.TrimSpace(gameName), strings.TrimSpace(tagLine)
	if gameName == "" || tagLine == "" {
		return domain.PlayerIdentity{}, errors.Wrap(ErrInvalidArgument, "gameName and tagLine are required")
	}

	seg := escape(gameName, tagLine)
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s", seg[0], seg[1])

	var acc accountResponse
	if err := c.getJSON(ctx, c.riot, path, nil, &acc); err != nil {
		return domain.PlayerIdentity{}, err
	}
	if strings.TrimSpace(acc.Puuid) == "" {
		return domain.PlayerIdentity{}, &UpstreamError{Provider: ProviderRiot, Status: fasthttp.StatusOK, Detail: "account without puuid"}
	}

	identity := domain.PlayerIdentity{
		GameName: acc.GameName,
		TagLine:  acc.TagLine,
		Puuid:    acc.Puuid,
	}
	if identity.GameName == "" {
		identity.GameName = gameName
	}
	if identity.TagLine == "" {
		identity.TagLine = tagLine
	}
	return identity, nil
}

// FetchMatchIDs lists the most recent League match ids, newest first.
func (c *Client) FetchMatchIDs(ctx context.Context, puuid string, count int) ([]string, error) {
	puuid = strings.TrimSpace(puuid)
	if puuid == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "puuid is required")
	}
	if count < 1 || count > 100 {
		return nil, errors.Wrapf(ErrInvalidArgument, "count must be within 1..100, got %d", count)
	}

	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids", url.PathEscape(puuid))
	query := url.Values{}
	query.Set("start", "0")
	query.Set("count", strconv.Itoa(count))

	var ids []string
	if err := c.getJSON(ctx, c.riot, path, query, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// FetchMatchDetail returns one League match payload as received.
func (c *Client) FetchMatchDetail(ctx context.Context, matchID string) (json.RawMessage, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "matchId is required")
	}

	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)
	raw, err := c.getRaw(ctx, c.riot, path, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
