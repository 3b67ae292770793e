package service

import (
	"context"
	"encoding/json"

	"riot-reimagined/internal/constants"

	"github.com/rs/zerolog"
)

type FeedClient interface {
	FetchNews(ctx context.Context, query string) (json.RawMessage, error)
	FetchEsportsSchedule(ctx context.Context, region, league string) (json.RawMessage, error)
}

// FeedService proxies single-call upstream feeds without reshaping them.
type FeedService struct {
	client FeedClient
	logger zerolog.Logger
}

func NewFeedService(client FeedClient, logger zerolog.Logger) *FeedService {
	return &FeedService{client: client, logger: logger}
}

func (s *FeedService) News(ctx context.Context, query string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Debug().Str("query", query).Msg("fetching news")
	body, err := s.client.FetchNews(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to fetch news")
		return nil, err
	}
	return body, nil
}

func (s *FeedService) EsportsSchedule(ctx context.Context, region, league string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Debug().Str("region", region).Str("league", league).Msg("fetching esports schedule")
	body, err := s.client.FetchEsportsSchedule(ctx, region, league)
	if err != nil {
		s.logger.Error().Err(err).Str("region", region).Str("league", league).Msg("failed to fetch esports schedule")
		return nil, err
	}
	return body, nil
}
