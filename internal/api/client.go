package api

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"riot-reimagined/internal/config"
	"riot-reimagined/internal/constants"

	"github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

// Client talks to every upstream provider. It holds no per-call state, so
// one instance is shared by all requests.
type Client struct {
	http    *fasthttp.Client
	timeout time.Duration

	riot   endpoint
	henrik endpoint
	news   endpoint

	henrikRegion string
}

type endpoint struct {
	provider   Provider
	baseURL    string
	authHeader string
	key        string
	setting    string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http: &fasthttp.Client{
			MaxConnsPerHost:        100,
			ReadTimeout:            cfg.UpstreamTimeout,
			WriteTimeout:           cfg.UpstreamTimeout,
			MaxIdleConnDuration:    1 * time.Minute,
			MaxResponseBodySize:    constants.MaxUpstreamBodyBytes,
			DisablePathNormalizing: true,
		},
		timeout: cfg.UpstreamTimeout,
		riot: endpoint{
			provider:   ProviderRiot,
			baseURL:    cfg.RiotBaseURL,
			authHeader: "X-Riot-Token",
			key:        cfg.RiotAPIKey,
			setting:    "RIOT_API_KEY",
		},
		henrik: endpoint{
			provider:   ProviderHenrik,
			baseURL:    cfg.HenrikBaseURL,
			authHeader: "Authorization",
			key:        cfg.HenrikAPIKey,
			setting:    "HENRIK_DEV_API_KEY",
		},
		news: endpoint{
			provider:   ProviderNews,
			baseURL:    cfg.NewsBaseURL,
			authHeader: "X-Api-Key",
			key:        cfg.NewsAPIKey,
			setting:    "NEWS_API_KEY",
		},
		henrikRegion: cfg.HenrikRegion,
	}
}

type fetchResult struct {
	status int
	body   []byte
	err    error
}

// get issues one GET and returns the raw body of a 2xx answer. The call is
// bounded by the client timeout and abandoned when ctx is done.
func (c *Client) get(ctx context.Context, ep endpoint, path string, query url.Values) ([]byte, error) {
	if ep.key == "" {
		return nil, &ConfigurationError{Provider: ep.provider, Setting: ep.setting}
	}
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Provider: ep.provider, Err: err}
	}

	target := ep.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// req/resp are owned by the goroutine so an abandoned call releases them itself
	done := make(chan fetchResult, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(target)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set("Accept", "application/json")
		req.Header.Set(ep.authHeader, ep.key)

		if err := c.http.DoDeadline(req, resp, deadline); err != nil {
			done <- fetchResult{err: err}
			return
		}
		done <- fetchResult{
			status: resp.StatusCode(),
			body:   append([]byte(nil), resp.Body()...),
		}
	}()

	select {
	case <-ctx.Done():
		return nil, &TransportError{Provider: ep.provider, Err: ctx.Err()}
	case res := <-done:
		if res.err != nil {
			return nil, &TransportError{Provider: ep.provider, Err: res.err}
		}
		if res.status < 200 || res.status > 299 {
			return nil, &UpstreamError{Provider: ep.provider, Status: res.status}
		}
		return res.body, nil
	}
}

func (c *Client) getJSON(ctx context.Context, ep endpoint, path string, query url.Values, target any) error {
	body, err := c.get(ctx, ep, path, query)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(body, target); err != nil {
		return &UpstreamError{Provider: ep.provider, Status: fasthttp.StatusOK, Detail: "undecodable response body"}
	}
	return nil
}

// getRaw returns the body untouched after checking it is JSON.
func (c *Client) getRaw(ctx context.Context, ep endpoint, path string, query url.Values) ([]byte, error) {
	body, err := c.get(ctx, ep, path, query)
	if err != nil {
		return nil, err
	}
	if !sonic.Valid(body) {
		return nil, &UpstreamError{Provider: ep.provider, Status: fasthttp.StatusOK, Detail: "undecodable response body"}
	}
	return bytes.TrimSpace(body), nil
}

func escape(segments ...string) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = url.PathEscape(s)
	}
	return out
}
