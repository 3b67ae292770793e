package server

import (
	"context"
	"io"
	"net/http"

	"riot-reimagined/internal/api"
	"riot-reimagined/internal/constants"
	"riot-reimagined/internal/service"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const (
	msgConfiguration = "Server configuration error"
	msgExternal      = "External API Error"
	msgBadUpstream   = "Invalid response from upstream provider"
	msgTimeout       = "Upstream request timed out"
	msgBadBody       = "Invalid request body"
	msgInternal      = "Internal server error"
)

var errMalformedBody = errors.New("malformed request body")

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"` + msgInternal + `"}`))
		return
	}
	writeRaw(w, status, body)
}

// writeRaw sends an already encoded JSON document.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// upstreamPolicy says how a route reports a provider that answered with an
// error status.
type upstreamPolicy struct {
	passthrough bool
	fallback    string
}

var (
	accountPolicy = upstreamPolicy{passthrough: true, fallback: "Failed to fetch account"}
	historyPolicy = upstreamPolicy{fallback: "Failed to fetch match history"}
	feedPolicy    = upstreamPolicy{passthrough: true, fallback: msgExternal}
	userPolicy    = upstreamPolicy{fallback: msgInternal}
)

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, policy upstreamPolicy) {
	status, message := statusFor(err, policy)

	evt := s.requestLogger(r).Warn()
	if status >= http.StatusInternalServerError {
		evt = s.requestLogger(r).Error()
	}
	evt.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")

	writeMessage(w, status, message)
}

// statusFor maps an error chain to a response status and a client-safe message.
func statusFor(err error, policy upstreamPolicy) (int, string) {
	var (
		cfgErr       *api.ConfigurationError
		upstreamErr  *api.UpstreamError
		transportErr *api.TransportError
		maxBytesErr  *http.MaxBytesError
	)

	switch {
	case errors.As(err, &cfgErr), errors.Is(err, service.ErrTokenSecretMissing):
		return http.StatusInternalServerError, msgConfiguration
	case errors.As(err, &upstreamErr):
		if upstreamErr.Status < http.StatusBadRequest {
			return http.StatusBadGateway, msgBadUpstream
		}
		if policy.passthrough {
			return upstreamErr.Status, msgExternal
		}
		return http.StatusInternalServerError, policy.fallback
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return http.StatusGatewayTimeout, msgTimeout
		}
		return http.StatusInternalServerError, policy.fallback
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, msgBadBody
	case errors.Is(err, api.ErrInvalidArgument), errors.Is(err, service.ErrUnsupportedGame):
		return http.StatusBadRequest, "Invalid request parameters"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input: " + fieldMessage(err)
	case errors.Is(err, service.ErrUserExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid credentials"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "Token is not valid"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msgTimeout
	default:
		return http.StatusInternalServerError, policy.fallback
	}
}

// fieldMessage extracts the "field failed rule" prefix of a validation error.
func fieldMessage(err error) string {
	msg := err.Error()
	suffix := ": " + service.ErrInvalidInput.Error()
	if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
		return msg[:len(msg)-len(suffix)]
	}
	return "malformed input"
}

// decodeBody reads a bounded JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return errors.Mark(errors.Wrap(err, "read request body"), errMalformedBody)
	}
	if err := sonic.Unmarshal(body, dst); err != nil {
		return errors.Mark(errors.Wrap(err, "decode request body"), errMalformedBody)
	}
	return nil
}

func (s *Server) requestLogger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}
