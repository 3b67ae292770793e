package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"riot-reimagined/internal/config"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	riotKey   = "riot-secret-value"
	henrikKey = "henrik-secret-value"
	newsKey   = "news-secret-value"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		RiotAPIKey:      riotKey,
		RiotBaseURL:     baseURL,
		HenrikAPIKey:    henrikKey,
		HenrikBaseURL:   baseURL,
		HenrikRegion:    "eu",
		NewsAPIKey:      newsKey,
		NewsBaseURL:     baseURL,
		UpstreamTimeout: 2 * time.Second,
	}
}

func TestFetchAccount_EscapesPathAndSendsKey(t *testing.T) {
	var gotURI, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		gotKey = r.Header.Get("X-Riot-Token")
		w.Write([]byte(`{"puuid":"p-1","gameName":"Hide on bush","tagLine":"KR/1"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	identity, err := c.FetchAccount(context.Background(), "Hide on bush", "KR/1")
	require.NoError(t, err)

	assert.Equal(t, "/riot/account/v1/accounts/by-riot-id/Hide%20on%20bush/KR%2F1", gotURI)
	assert.Equal(t, riotKey, gotKey)
	assert.Equal(t, "p-1", identity.Puuid)
	assert.Equal(t, "Hide on bush", identity.GameName)
	assert.Equal(t, "KR/1", identity.TagLine)
}

func TestFetchAccount_FallsBackToRequestedName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"puuid":"p-1"}`))
	}))
	defer srv.Close()

	identity, err := NewClient(testConfig(srv.URL)).FetchAccount(context.Background(), " Faker ", "KR1")
	require.NoError(t, err)
	assert.Equal(t, "Faker", identity.GameName)
	assert.Equal(t, "KR1", identity.TagLine)
}

func TestFetchAccount_MissingPuuidIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gameName":"Faker","tagLine":"KR1"}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).FetchAccount(context.Background(), "Faker", "KR1")

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusOK, upstreamErr.Status)
	assert.False(t, errors.Is(err, ErrInvalidArgument))
}

func TestFetchAccount_RejectsEmptyInput(t *testing.T) {
	c := NewClient(testConfig("http://127.0.0.1:1"))

	_, err := c.FetchAccount(context.Background(), "  ", "KR1")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = c.FetchAccount(context.Background(), "Faker", "")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestGet_MissingKeyIsConfigurationError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.RiotAPIKey = ""
	_, err := NewClient(cfg).FetchAccount(context.Background(), "Faker", "KR1")
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ProviderRiot, cfgErr.Provider)
	assert.Equal(t, "RIOT_API_KEY", cfgErr.Setting)

	var upstreamErr *UpstreamError
	assert.False(t, errors.As(err, &upstreamErr))
	assert.Zero(t, calls.Load(), "no request is sent without a key")
}

func TestGet_NonSuccessIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"status":{"message":"Forbidden","status_code":403}}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).FetchAccount(context.Background(), "Faker", "KR1")
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusForbidden, upstreamErr.Status)
	assert.Equal(t, ProviderRiot, upstreamErr.Provider)

	var cfgErr *ConfigurationError
	assert.False(t, errors.As(err, &cfgErr))
	assert.NotContains(t, err.Error(), riotKey)
}

func TestGet_UndecodableBodyIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).FetchMatchDetail(context.Background(), "NA1_1")

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusOK, upstreamErr.Status)
}

func TestGet_UnreachableHostIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewClient(testConfig(base)).FetchAccount(context.Background(), "Faker", "KR1")

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, ProviderRiot, transportErr.Provider)
	assert.NotContains(t, err.Error(), riotKey)
}

func TestGet_TimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.UpstreamTimeout = 50 * time.Millisecond

	_, err := NewClient(cfg).FetchAccount(context.Background(), "Faker", "KR1")

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.True(t, transportErr.Timeout())
}

func TestGet_CancelledContextIsTransportError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(testConfig(srv.URL)).FetchMatchDetail(ctx, "NA1_1")

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, calls.Load())
}

func TestFetchMatchIDs_QueryAndBounds(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`["NA1_3","NA1_2","NA1_1"]`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	ids, err := c.FetchMatchIDs(context.Background(), "puuid-1", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"NA1_3", "NA1_2", "NA1_1"}, ids)
	assert.Equal(t, "/lol/match/v5/matches/by-puuid/puuid-1/ids", gotPath)
	assert.Equal(t, "count=5&start=0", gotQuery)

	_, err = c.FetchMatchIDs(context.Background(), "puuid-1", 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = c.FetchMatchIDs(context.Background(), "puuid-1", 101)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = c.FetchMatchIDs(context.Background(), "", 5)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestFetchMatchDetail_ReturnsBodyUntouched(t *testing.T) {
	payload := `{"metadata":{"matchId":"NA1_1"},"info":{"mapId":11}}`
	var gotURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		w.Write([]byte(payload + "\n"))
	}))
	defer srv.Close()

	raw, err := NewClient(testConfig(srv.URL)).FetchMatchDetail(context.Background(), "NA1_1")
	require.NoError(t, err)
	assert.Equal(t, payload, string(raw))
	assert.Equal(t, "/lol/match/v5/matches/NA1_1", gotURI)
}

func TestFetchMmrHistory_PathAndAuth(t *testing.T) {
	var gotURI, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":200,"data":[{"match_id":"a"},{"match_id":"b"}]}`))
	}))
	defer srv.Close()

	entries, err := NewClient(testConfig(srv.URL)).FetchMmrHistory(context.Background(), "Tenz Fan", "NA 1")
	require.NoError(t, err)

	assert.Len(t, entries, 2)
	assert.JSONEq(t, `{"match_id":"a"}`, string(entries[0]))
	assert.Equal(t, "/valorant/v1/mmr-history/eu/Tenz%20Fan/NA%201", gotURI)
	assert.Equal(t, henrikKey, gotAuth)
}

func TestDecodeMmrHistory(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "bare array", body: `[{"date":"2024-01-01"}]`, want: 1},
		{name: "envelope", body: `{"status":200,"data":[{},{},{}]}`, want: 3},
		{name: "envelope without data", body: `{"status":200}`, want: 0},
		{name: "leading whitespace", body: "  \n[]", want: 0},
		{name: "empty", body: ``, wantErr: true},
		{name: "scalar", body: `"nope"`, wantErr: true},
		{name: "broken array", body: `[{"date":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := decodeMmrHistory([]byte(tt.body))
			if tt.wantErr {
				var upstreamErr *UpstreamError
				require.True(t, errors.As(err, &upstreamErr))
				assert.Equal(t, ProviderHenrik, upstreamErr.Provider)
				return
			}
			require.NoError(t, err)
			assert.Len(t, entries, tt.want)
		})
	}
}

func TestFetchNews_DefaultsAndHeaderKey(t *testing.T) {
	var gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("X-Api-Key")
		w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer srv.Close()

	body, err := NewClient(testConfig(srv.URL)).FetchNews(context.Background(), "")
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":"ok","articles":[]}`, string(body))
	assert.Equal(t, "language=en&q=gaming&sortBy=publishedAt", gotQuery)
	assert.Equal(t, newsKey, gotKey)
	assert.NotContains(t, gotQuery, newsKey)
}

func TestFetchEsportsSchedule_OptionalFilters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	_, err := c.FetchEsportsSchedule(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, gotQuery)

	_, err = c.FetchEsportsSchedule(context.Background(), "emea", "vct_emea")
	require.NoError(t, err)
	assert.Equal(t, "league=vct_emea&region=emea", gotQuery)
}
