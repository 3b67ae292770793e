package service

import (
	"encoding/json"
	"strconv"
	"testing"

	"riot-reimagined/internal/domain"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leagueRaw(matchID string, mapID int, participants string) json.RawMessage {
	return json.RawMessage(`{"metadata":{"matchId":"` + matchID + `"},"info":{"gameCreation":1700000000000,"mapId":` +
		strconv.Itoa(mapID) + `,"participants":` + participants + `}}`)
}

func TestLeagueNormalizer_ResultFollowsWinFlag(t *testing.T) {
	player := domain.PlayerIdentity{GameName: "Faker", TagLine: "KR1", Puuid: "me"}

	won, err := leagueNormalizer{}.Normalize(
		leagueRaw("KR_1", 11, `[{"puuid":"other","win":false},{"puuid":"me","win":true,"kills":7,"deaths":2,"assists":9}]`),
		player,
	)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultWin, won.Result)
	assert.Equal(t, "KR_1", won.MatchID)
	assert.Equal(t, "Summoner's Rift", won.Map)
	assert.Equal(t, "2023-11-14T22:13:20Z", won.Timestamp)
	require.NotNil(t, won.KDA)
	assert.Equal(t, domain.KDA{Kills: 7, Deaths: 2, Assists: 9}, *won.KDA)
	assert.Nil(t, won.RatingDelta)

	lost, err := leagueNormalizer{}.Normalize(
		leagueRaw("KR_2", 12, `[{"puuid":"me","win":false},{"puuid":"other","win":true}]`),
		player,
	)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultLoss, lost.Result)
	assert.Equal(t, "Howling Abyss", lost.Map)
}

func TestLeagueNormalizer_MissingParticipant(t *testing.T) {
	_, err := leagueNormalizer{}.Normalize(
		leagueRaw("KR_1", 11, `[{"puuid":"someone","win":true}]`),
		domain.PlayerIdentity{Puuid: "me"},
	)

	var normErr *NormalizationError
	require.True(t, errors.As(err, &normErr))
	assert.Equal(t, "KR_1", normErr.MatchID)
	assert.Equal(t, domain.GameLeague, normErr.Game)
}

func TestLeagueNormalizer_RequiresPuuid(t *testing.T) {
	_, err := leagueNormalizer{}.Normalize(
		leagueRaw("KR_1", 11, `[{"puuid":"","win":true}]`),
		domain.PlayerIdentity{GameName: "Faker", TagLine: "KR1"},
	)

	var normErr *NormalizationError
	assert.True(t, errors.As(err, &normErr))
}

func TestLeagueNormalizer_Defaults(t *testing.T) {
	raw := json.RawMessage(`{"metadata":{"matchId":"KR_9"},"info":{"mapId":99,"participants":[{"puuid":"me","win":true}]}}`)

	summary, err := leagueNormalizer{}.Normalize(raw, domain.PlayerIdentity{Puuid: "me"})
	require.NoError(t, err)
	assert.Equal(t, "Unknown Map", summary.Map)
	assert.Empty(t, summary.Timestamp)
	assert.JSONEq(t, string(raw), string(summary.Raw))
}

func TestValorantNormalizer_ResultFollowsDeltaSign(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  domain.Result
		delta *int
	}{
		{name: "zero is a draw", entry: `{"mmr_change_to_last_game":0}`, want: domain.ResultDraw, delta: intPtr(0)},
		{name: "positive is a win", entry: `{"mmr_change_to_last_game":15}`, want: domain.ResultWin, delta: intPtr(15)},
		{name: "negative is a loss", entry: `{"mmr_change_to_last_game":-12}`, want: domain.ResultLoss, delta: intPtr(-12)},
		{name: "fraction rounds", entry: `{"mmr_change_to_last_game":2.6}`, want: domain.ResultWin, delta: intPtr(3)},
		{name: "fraction rounding to zero is a draw", entry: `{"mmr_change_to_last_game":0.4}`, want: domain.ResultDraw, delta: intPtr(0)},
		{name: "negative fraction rounding to zero is a draw", entry: `{"mmr_change_to_last_game":-0.3}`, want: domain.ResultDraw, delta: intPtr(0)},
		{name: "negative fraction rounds", entry: `{"mmr_change_to_last_game":-0.6}`, want: domain.ResultLoss, delta: intPtr(-1)},
		{name: "out of range is a draw", entry: `{"mmr_change_to_last_game":1e300}`, want: domain.ResultDraw},
		{name: "negative out of range is a draw", entry: `{"mmr_change_to_last_game":-1e300}`, want: domain.ResultDraw},
		{name: "string is a draw", entry: `{"mmr_change_to_last_game":"15"}`, want: domain.ResultDraw},
		{name: "null is a draw", entry: `{"mmr_change_to_last_game":null}`, want: domain.ResultDraw},
		{name: "missing is a draw", entry: `{}`, want: domain.ResultDraw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := valorantNormalizer{}.Normalize(json.RawMessage(tt.entry), domain.PlayerIdentity{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, summary.Result)
			assert.Equal(t, tt.delta, summary.RatingDelta)
		})
	}
}

func TestValorantNormalizer_Fields(t *testing.T) {
	raw := json.RawMessage(`{"match_id":"m-1","mmr_change_to_last_game":10,"map":{"name":"Ascent"},"date":"2024-01-01"}`)

	summary, err := valorantNormalizer{}.Normalize(raw, domain.PlayerIdentity{GameName: "Faker", TagLine: "KR1"})
	require.NoError(t, err)
	assert.Equal(t, "m-1", summary.MatchID)
	assert.Equal(t, "Ascent", summary.Map)
	assert.Equal(t, "2024-01-01", summary.Timestamp)
	assert.Nil(t, summary.KDA)

	noMap, err := valorantNormalizer{}.Normalize(json.RawMessage(`{"map":{"name":""}}`), domain.PlayerIdentity{})
	require.NoError(t, err)
	assert.Equal(t, "Unknown Map", noMap.Map)
}

func TestValorantNormalizer_RejectsNonObjects(t *testing.T) {
	for _, raw := range []string{`null`, `[1,2]`, `"x"`, `{`} {
		_, err := valorantNormalizer{}.Normalize(json.RawMessage(raw), domain.PlayerIdentity{})

		var normErr *NormalizationError
		assert.True(t, errors.As(err, &normErr), raw)
	}
}

func TestNormalizeMatches_DropsFailuresAndKeepsOrder(t *testing.T) {
	player := domain.PlayerIdentity{Puuid: "me"}
	raws := []json.RawMessage{
		leagueRaw("KR_3", 11, `[{"puuid":"me","win":true}]`),
		leagueRaw("KR_2", 11, `[{"puuid":"stranger","win":true}]`),
		json.RawMessage(`not json`),
		leagueRaw("KR_1", 30, `[{"puuid":"me","win":false}]`),
	}

	out := NormalizeMatches(domain.GameLeague, player, raws, zerolog.Nop())
	require.Len(t, out, 2)
	assert.Equal(t, "KR_3", out[0].MatchID)
	assert.Equal(t, "KR_1", out[1].MatchID)
	assert.Equal(t, "Rings of Wrath", out[1].Map)
}

func TestNormalizeMatches_UnknownGame(t *testing.T) {
	out := NormalizeMatches(domain.Game("tft"), domain.PlayerIdentity{}, []json.RawMessage{json.RawMessage(`{}`)}, zerolog.Nop())
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func intPtr(n int) *int { return &n }
