package flow

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-school-app/api"
	apperrors "github.com/jrsteele09/go-school-app/internal/errors"
	"github.com/jrsteele09/go-school-app/session"
)

// ErrInFlight is returned when a flow is invoked while a previous
// invocation of the same flow is still outstanding. Callers treat it as a
// no-op: nothing was sent and nothing changed.
var ErrInFlight = errors.New("operation already in flight")

// Guard gives a flow at-most-one-in-flight semantics, preventing duplicate
// network calls from rapid repeated user actions.
type Guard struct {
	busy atomic.Bool
}

// TryAcquire reports whether the caller now owns the guard.
func (g *Guard) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *Guard) Release() {
	g.busy.Store(false)
}

// Flow coordinates the three screen-level flows (login, verify, dashboard)
// over the auth and dashboard services. Each flow has its own guard; a
// completed call's results are always applied since every write underneath
// is an idempotent keyed write.
type Flow struct {
	auth      *api.AuthService
	dashboard *api.DashboardService
	sessions  *session.Manager
	log       zerolog.Logger

	loginGuard     Guard
	verifyGuard    Guard
	dashboardGuard Guard
}

// Option defines a function type to modify the Flow instance.
type Option func(*Flow)

// WithLogger sets the flow logger.
func WithLogger(log zerolog.Logger) Option {
	return func(f *Flow) {
		f.log = log
	}
}

func New(auth *api.AuthService, dashboard *api.DashboardService, sessions *session.Manager, options ...Option) *Flow {
	f := &Flow{
		auth:      auth,
		dashboard: dashboard,
		sessions:  sessions,
		log:       zerolog.Nop(),
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// Login runs the login flow and returns the provisional user id that keys
// the OTP step.
func (f *Flow) Login(ctx context.Context, userID, password string) (*api.LoginResult, error) {
	if !f.loginGuard.TryAcquire() {
		return nil, ErrInFlight
	}
	defer f.loginGuard.Release()

	return f.auth.Login(ctx, userID, password)
}

// VerifyOTP runs the OTP flow and, on success, persists the session. This
// is the only place a session is ever written.
func (f *Flow) VerifyOTP(ctx context.Context, userID, otp string) (*api.VerifyOTPResult, error) {
	if !f.verifyGuard.TryAcquire() {
		return nil, ErrInFlight
	}
	defer f.verifyGuard.Release()

	result, err := f.auth.VerifyOTP(ctx, userID, otp)
	if err != nil {
		return nil, err
	}
	if !session.IsValidToken(result.Token) {
		return nil, apperrors.API("Invalid token format from server", 0)
	}
	if !f.sessions.SetSession(result.Token, strings.TrimSpace(userID)) {
		f.log.Warn().Msg("session could not be persisted after OTP verification")
		return nil, apperrors.API("Could not save session", 0)
	}
	return result, nil
}

// Dashboard runs the dashboard-refresh flow.
func (f *Flow) Dashboard(ctx context.Context) (*api.Dashboard, error) {
	if !f.dashboardGuard.TryAcquire() {
		return nil, ErrInFlight
	}
	defer f.dashboardGuard.Release()

	return f.dashboard.Fetch(ctx)
}

// Restore is the app-boot session read. A stored session that fails the
// token sanity gate is cleared rather than reported.
func (f *Flow) Restore() (session.Session, bool) {
	sess, ok := f.sessions.GetSession()
	if !ok {
		return session.Session{}, false
	}
	if !session.IsValidToken(sess.Token) {
		f.sessions.ClearSession()
		return session.Session{}, false
	}
	return sess, true
}

// Logout destroys the stored session.
func (f *Flow) Logout() {
	f.sessions.ClearSession()
}
