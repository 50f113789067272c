package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/jrsteele09/go-school-app/internal/errors"
	"github.com/jrsteele09/go-school-app/session"
	"github.com/pkg/errors"
)

// API routes. The login and OTP endpoints are the only ones reachable
// without a session.
const (
	EndpointLogin     = "/login.php"
	EndpointVerifyOTP = "/verify_otp.php"
	EndpointDashboard = "/dashboard.php"
)

// SessionExpiredMessage is shown whenever the server rejects the session.
const SessionExpiredMessage = "Session expired. Please login again."

const defaultTimeout = 15 * time.Second

// Sessions is what the gateway needs from the session layer.
type Sessions interface {
	GetSession() (session.Session, bool)
	ClearSession()
}

// Config is the immutable gateway configuration, fixed at construction.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	PublicEndpoints []string
}

// DefaultPublicEndpoints returns the allow-list of routes that do not
// require a session.
func DefaultPublicEndpoints() []string {
	return []string{EndpointLogin, EndpointVerifyOTP}
}

// Gateway is the single outbound interception point for the PHP API.
// Before sending it classifies the endpoint and either attaches the bearer
// token or rejects the call outright; after receiving it translates
// authorization failures into session invalidation. Centralizing both hooks
// means every call site gets the same enforcement and the same error shape.
type Gateway struct {
	cfg      Config
	sessions Sessions
	client   *http.Client
	log      zerolog.Logger
}

// GatewayOption defines a function type to modify the Gateway instance.
type GatewayOption func(*Gateway)

// WithLogger sets the gateway logger.
func WithLogger(log zerolog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.log = log
	}
}

// WithHTTPClient replaces the underlying HTTP client (primarily for testing).
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *Gateway) {
		g.client = client
	}
}

// NewGateway creates a gateway constructed once at process start. The
// session manager is an explicit dependency; there is no process-wide
// client state.
func NewGateway(cfg Config, sessions Sessions, options ...GatewayOption) (*Gateway, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("[NewGateway] base URL is required")
	}
	if sessions == nil {
		return nil, errors.New("[NewGateway] sessions is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if len(cfg.PublicEndpoints) == 0 {
		cfg.PublicEndpoints = DefaultPublicEndpoints()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	g := &Gateway{
		cfg:      cfg,
		sessions: sessions,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Post sends a JSON POST to endpoint and decodes the response body into out
// (out may be nil). All transport-level failures are translated here into
// the typed error kinds; no call site interprets raw transport errors.
func (g *Gateway) Post(ctx context.Context, endpoint string, body, out any) error {
	log := g.log.With().
		Str("request_id", uuid.NewString()).
		Str("endpoint", endpoint).
		Logger()

	var bearer string
	if !g.isPublic(endpoint) {
		sess, ok := g.sessions.GetSession()
		if !ok || !session.IsValidToken(sess.Token) {
			// No round-trip for a request that cannot possibly succeed.
			log.Debug().Msg("blocked protected call without a valid session")
			return apperrors.Auth("Session missing or invalid")
		}
		bearer = sess.Token
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.API(err.Error(), 0)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return apperrors.API(err.Error(), 0)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("transport failure")
		return apperrors.API(err.Error(), 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		g.sessions.ClearSession()
		log.Warn().Int("status", resp.StatusCode).Msg("server rejected session")
		return apperrors.Auth(SessionExpiredMessage)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.API(err.Error(), resp.StatusCode)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apperrors.API(serverMessage(data, resp.Status), resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			log.Debug().Err(err).Msg("undecodable response body")
			return apperrors.API("Unexpected error occurred", resp.StatusCode)
		}
	}
	return nil
}

func (g *Gateway) isPublic(endpoint string) bool {
	for _, public := range g.cfg.PublicEndpoints {
		if strings.Contains(endpoint, public) {
			return true
		}
	}
	return false
}

// serverMessage extracts the server-provided msg field if present, falling
// back to the transport-level status line, then to a generic message.
func serverMessage(data []byte, fallback string) string {
	var body struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(data, &body); err == nil && strings.TrimSpace(body.Msg) != "" {
		return body.Msg
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return "Unexpected error occurred"
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
