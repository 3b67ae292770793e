package service

import (
	"context"
	"encoding/json"
	"fmt"

	"riot-reimagined/internal/constants"
	"riot-reimagined/internal/domain"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrUnsupportedGame = errors.New("unsupported game")

// GameDataClient is the upstream surface the aggregator depends on.
type GameDataClient interface {
	FetchAccount(ctx context.Context, gameName, tagLine string) (domain.PlayerIdentity, error)
	FetchMatchIDs(ctx context.Context, puuid string, count int) ([]string, error)
	FetchMatchDetail(ctx context.Context, matchID string) (json.RawMessage, error)
	FetchMmrHistory(ctx context.Context, gameName, tagLine string) ([]json.RawMessage, error)
}

// HistoryError tags an aggregation failure with the game it was for.
type HistoryError struct {
	Game domain.Game
	Err  error
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("%s match history: %v", e.Game, e.Err)
}

func (e *HistoryError) Unwrap() error { return e.Err }

type MatchService struct {
	client GameDataClient
	logger zerolog.Logger
}

func NewMatchService(client GameDataClient, logger zerolog.Logger) *MatchService {
	return &MatchService{client: client, logger: logger}
}

// ResolveAccount looks up a Riot ID.
func (s *MatchService) ResolveAccount(ctx context.Context, gameName, tagLine string) (domain.PlayerIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	identity, err := s.client.FetchAccount(ctx, gameName, tagLine)
	if err != nil {
		s.logger.Error().Err(err).Str("name", gameName).Str("tag", tagLine).Msg("failed to fetch account")
		return domain.PlayerIdentity{}, err
	}
	return identity, nil
}

// GetMatchHistory builds the normalized history for a Riot ID. Valorant is a
// single MMR-history call; League resolves the account, lists match ids and
// fetches every detail, failing as a whole if any step fails.
func (s *MatchService) GetMatchHistory(ctx context.Context, game domain.Game, gameName, tagLine string) (*domain.MatchHistoryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().Str("game", string(game)).Str("name", gameName).Str("tag", tagLine).Msg("getting match history")

	switch game {
	case domain.GameValorant:
		return s.valorantHistory(ctx, domain.PlayerIdentity{GameName: gameName, TagLine: tagLine})
	case domain.GameLeague:
		identity, err := s.client.FetchAccount(ctx, gameName, tagLine)
		if err != nil {
			s.logger.Error().Err(err).Str("name", gameName).Str("tag", tagLine).Msg("failed to resolve league account")
			return nil, &HistoryError{Game: game, Err: errors.Wrap(err, "resolve account")}
		}
		return s.leagueHistory(ctx, identity)
	default:
		return nil, &HistoryError{Game: game, Err: ErrUnsupportedGame}
	}
}

// GetLeagueHistoryByPuuid runs the League chain for an already resolved player.
func (s *MatchService) GetLeagueHistoryByPuuid(ctx context.Context, puuid string) (*domain.MatchHistoryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().Str("puuid", puuid).Msg("getting league match history by puuid")
	return s.leagueHistory(ctx, domain.PlayerIdentity{Puuid: puuid})
}

func (s *MatchService) valorantHistory(ctx context.Context, player domain.PlayerIdentity) (*domain.MatchHistoryResult, error) {
	entries, err := s.client.FetchMmrHistory(ctx, player.GameName, player.TagLine)
	if err != nil {
		s.logger.Error().Err(err).Str("name", player.GameName).Str("tag", player.TagLine).Msg("failed to fetch mmr history")
		return nil, &HistoryError{Game: domain.GameValorant, Err: err}
	}

	matches := NormalizeMatches(domain.GameValorant, player, entries, s.logger)
	s.logger.Info().
		Str("name", player.GameName).
		Int("fetched", len(entries)).
		Int("normalized", len(matches)).
		Msg("valorant history fetched")

	return &domain.MatchHistoryResult{Player: player, Game: domain.GameValorant, Matches: matches}, nil
}

func (s *MatchService) leagueHistory(ctx context.Context, player domain.PlayerIdentity) (*domain.MatchHistoryResult, error) {
	ids, err := s.client.FetchMatchIDs(ctx, player.Puuid, constants.MatchHistoryCount)
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", player.Puuid).Msg("failed to fetch match ids")
		return nil, &HistoryError{Game: domain.GameLeague, Err: errors.Wrap(err, "list match ids")}
	}

	raws, err := s.fetchLeagueDetails(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", player.Puuid).Int("match_count", len(ids)).Msg("failed to fetch match details")
		return nil, &HistoryError{Game: domain.GameLeague, Err: err}
	}

	matches := NormalizeMatches(domain.GameLeague, player, raws, s.logger)
	s.logger.Info().
		Str("puuid", player.Puuid).
		Int("fetched", len(raws)).
		Int("normalized", len(matches)).
		Msg("league history fetched")

	return &domain.MatchHistoryResult{Player: player, Game: domain.GameLeague, Matches: matches}, nil
}

// fetchLeagueDetails joins on all detail calls. Each goroutine writes only its
// own slot, so upstream order is preserved. Any failure fails the batch.
func (s *MatchService) fetchLeagueDetails(ctx context.Context, ids []string) ([]json.RawMessage, error) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.MatchDetailConcurrency)

	raws := make([]json.RawMessage, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			raw, err := s.client.FetchMatchDetail(gCtx, id)
			if err != nil {
				return errors.Wrapf(err, "fetch match %s", id)
			}
			raws[i] = raw
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.logger.Debug().Int("match_count", len(ids)).Msg("match details fetched")
	return raws, nil
}
