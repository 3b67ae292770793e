package domain

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RiotGameName string    `json:"riotGameName,omitempty"`
	RiotTagLine  string    `json:"riotTagLine,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Game string

const (
	GameLeague   Game = "lol"
	GameValorant Game = "val"
)

type Result string

const (
	ResultWin  Result = "WIN"
	ResultLoss Result = "LOSS"
	ResultDraw Result = "DRAW"
)

// PlayerIdentity is resolved per request and never persisted by the aggregator.
type PlayerIdentity struct {
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
	Puuid    string `json:"puuid,omitempty"`
}

type KDA struct {
	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`
}

type MatchSummary struct {
	MatchID     string          `json:"matchId"`
	Result      Result          `json:"result"`
	Map         string          `json:"map"`
	Timestamp   string          `json:"timestamp"`
	RatingDelta *int            `json:"ratingDelta,omitempty"`
	KDA         *KDA            `json:"kda,omitempty"`
	Raw         json.RawMessage `json:"raw"`
}

// MatchHistoryResult keeps matches in upstream order (most recent first).
type MatchHistoryResult struct {
	Player  PlayerIdentity `json:"player"`
	Game    Game           `json:"game"`
	Matches []MatchSummary `json:"matches"`
}
