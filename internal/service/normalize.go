package service

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"riot-reimagined/internal/constants"
	"riot-reimagined/internal/domain"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// NormalizationError marks a single record that could not be mapped. It is
// logged and the record dropped; it never fails a batch.
type NormalizationError struct {
	Game    domain.Game
	MatchID string
	Reason  string
}

func (e *NormalizationError) Error() string {
	if e.MatchID != "" {
		return fmt.Sprintf("normalize %s match %s: %s", e.Game, e.MatchID, e.Reason)
	}
	return fmt.Sprintf("normalize %s match: %s", e.Game, e.Reason)
}

type matchNormalizer interface {
	Normalize(raw json.RawMessage, player domain.PlayerIdentity) (domain.MatchSummary, error)
}

var normalizers = map[domain.Game]matchNormalizer{
	domain.GameLeague:   leagueNormalizer{},
	domain.GameValorant: valorantNormalizer{},
}

// NormalizeMatches maps raw provider records into summaries, keeping input
// order and dropping records that fail to normalize.
func NormalizeMatches(game domain.Game, player domain.PlayerIdentity, raws []json.RawMessage, logger zerolog.Logger) []domain.MatchSummary {
	out := make([]domain.MatchSummary, 0, len(raws))

	n, ok := normalizers[game]
	if !ok {
		logger.Warn().Str("game", string(game)).Msg("no normalizer for game")
		return out
	}

	for i, raw := range raws {
		summary, err := n.Normalize(raw, player)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("game", string(game)).
				Int("index", i).
				Msg("dropping match that failed to normalize")
			continue
		}
		out = append(out, summary)
	}
	return out
}

var leagueMapNames = map[int]string{
	11: "Summoner's Rift",
	12: "Howling Abyss",
	21: "Nexus Blitz",
	30: "Rings of Wrath",
}

type leagueMatch struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		GameCreation int64               `json:"gameCreation"`
		MapID        int                 `json:"mapId"`
		Participants []leagueParticipant `json:"participants"`
	} `json:"info"`
}

type leagueParticipant struct {
	Puuid   string `json:"puuid"`
	Win     bool   `json:"win"`
	Kills   int    `json:"kills"`
	Deaths  int    `json:"deaths"`
	Assists int    `json:"assists"`
}

type leagueNormalizer struct{}

func (leagueNormalizer) Normalize(raw json.RawMessage, player domain.PlayerIdentity) (domain.MatchSummary, error) {
	var m leagueMatch
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return domain.MatchSummary{}, &NormalizationError{Game: domain.GameLeague, Reason: "malformed payload"}
	}
	matchID := m.Metadata.MatchID

	if player.Puuid == "" {
		return domain.MatchSummary{}, &NormalizationError{Game: domain.GameLeague, MatchID: matchID, Reason: "player has no puuid"}
	}

	// participants are matched by puuid, never by position
	var me *leagueParticipant
	for i := range m.Info.Participants {
		if m.Info.Participants[i].Puuid == player.Puuid {
			me = &m.Info.Participants[i]
			break
		}
	}
	if me == nil {
		return domain.MatchSummary{}, &NormalizationError{Game: domain.GameLeague, MatchID: matchID, Reason: "player not among participants"}
	}

	result := domain.ResultLoss
	if me.Win {
		result = domain.ResultWin
	}

	mapName, ok := leagueMapNames[m.Info.MapID]
	if !ok {
		mapName = constants.UnknownMap
	}

	var ts string
	if m.Info.GameCreation > 0 {
		ts = time.UnixMilli(m.Info.GameCreation).UTC().Format(time.RFC3339)
	}

	return domain.MatchSummary{
		MatchID:   matchID,
		Result:    result,
		Map:       mapName,
		Timestamp: ts,
		KDA: &domain.KDA{
			Kills:   me.Kills,
			Deaths:  me.Deaths,
			Assists: me.Assists,
		},
		Raw: raw,
	}, nil
}

// valorantNormalizer derives the result from the rounded rating change: a
// change that rounds to zero is a draw.
type valorantNormalizer struct{}

func (valorantNormalizer) Normalize(raw json.RawMessage, _ domain.PlayerIdentity) (domain.MatchSummary, error) {
	var entry map[string]any
	if err := sonic.Unmarshal(raw, &entry); err != nil || entry == nil {
		return domain.MatchSummary{}, &NormalizationError{Game: domain.GameValorant, Reason: "entry is not an object"}
	}

	summary := domain.MatchSummary{
		MatchID:   stringField(entry, "match_id"),
		Result:    domain.ResultDraw,
		Map:       constants.UnknownMap,
		Timestamp: stringField(entry, "date"),
		Raw:       raw,
	}

	if delta, ok := numericDelta(entry["mmr_change_to_last_game"]); ok {
		switch {
		case delta > 0:
			summary.Result = domain.ResultWin
		case delta < 0:
			summary.Result = domain.ResultLoss
		}
		summary.RatingDelta = &delta
	}

	if m, ok := entry["map"].(map[string]any); ok {
		if name := stringField(m, "name"); name != "" {
			summary.Map = name
		}
	}

	return summary, nil
}

// maxRatingDelta bounds plausible per-game rating changes; larger values are
// treated as non-numeric.
const maxRatingDelta = 1 << 20

// numericDelta returns the rating change rounded to a whole point.
func numericDelta(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	rounded := math.Round(f)
	if math.Abs(rounded) > maxRatingDelta {
		return 0, false
	}
	return int(rounded), true
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
