package api

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
)

type Provider string

const (
	ProviderRiot   Provider = "riot"
	ProviderHenrik Provider = "henrikdev"
	ProviderNews   Provider = "newsapi"
)

var ErrInvalidArgument = errors.New("invalid argument")

// ConfigurationError means a provider credential is missing. It names the
// setting, never its value.
type ConfigurationError struct {
	Provider Provider
	Setting  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s is not configured", e.Provider, e.Setting)
}

// UpstreamError is a provider answer we cannot use: a non-2xx status, or a
// 2xx whose body does not decode.
type UpstreamError struct {
	Provider Provider
	Status   int
	Detail   string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: upstream status %d: %s", e.Provider, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: upstream status %d", e.Provider, e.Status)
}

type TransportError struct {
	Provider Provider
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded) ||
		errors.Is(e.Err, fasthttp.ErrTimeout) ||
		errors.Is(e.Err, fasthttp.ErrDialTimeout)
}
