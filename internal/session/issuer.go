// Package session authenticates credentials and issues session tokens.
package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/ratelimit"
)

type LoginRequest struct {
	Username string
	Password string

	// Origin keys the rate limiter; normally the client IP.
	Origin string
	// Device is a coarse client description kept in login history.
	Device string
}

type Result struct {
	Token    string
	Identity auth.Identity
}

type Recorder interface {
	Record(ctx context.Context, username, action, details string)
	RecordLogin(ctx context.Context, username, ip, device string)
}

// Metrics receives login outcomes. Optional.
type Metrics interface {
	LoginAttempt(outcome string)
}

type Config struct {
	AdminUsername string
	AdminPassword string
}

type Issuer struct {
	admin   bootstrapAccount
	editors EditorFinder
	tokens  *auth.Manager
	limiter ratelimit.Limiter
	audit   Recorder
	metrics Metrics
	log     *slog.Logger
	clock   func() time.Time
}

func NewIssuer(cfg Config, editors EditorFinder, tokens *auth.Manager, limiter ratelimit.Limiter, rec Recorder, log *slog.Logger) *Issuer {
	if log == nil {
		log = slog.Default()
	}
	return &Issuer{
		admin:   bootstrapAccount{username: cfg.AdminUsername, password: cfg.AdminPassword},
		editors: editors,
		tokens:  tokens,
		limiter: limiter,
		audit:   rec,
		log:     log,
		clock:   time.Now,
	}
}

// WithClock replaces the token issue time source. Used by tests.
func (s *Issuer) WithClock(clock func() time.Time) *Issuer {
	s.clock = clock
	return s
}

func (s *Issuer) WithMetrics(m Metrics) *Issuer {
	s.metrics = m
	return s
}

// Authenticate checks the rate limit, resolves the account and verifies the
// password. Unknown usernames and wrong passwords fail identically.
func (s *Issuer) Authenticate(ctx context.Context, req LoginRequest) (Result, error) {
	ok, err := s.limiter.Allow(ctx, req.Origin)
	if err != nil {
		// fail open on limiter outages; credentials are still checked
		s.log.WarnContext(ctx, "login limiter unavailable", "err", err)
	} else if !ok {
		s.observe("rate_limited")
		return Result{}, auth.ErrRateLimited
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		s.observe("invalid")
		return Result{}, auth.ErrInvalidCredentials
	}

	acct, err := s.resolve(ctx, username)
	if err != nil {
		s.observe("error")
		return Result{}, err
	}
	if !acct.checkPassword(req.Password) {
		s.observe("invalid")
		return Result{}, auth.ErrInvalidCredentials
	}

	id := acct.identity()
	tok, err := s.tokens.Issue(s.clock(), id)
	if err != nil {
		s.observe("error")
		return Result{}, err
	}

	s.audit.RecordLogin(ctx, id.Username, req.Origin, req.Device)
	s.audit.Record(ctx, id.Username, audit.ActionLogin, "User logged in")
	s.observe("success")

	return Result{Token: tok, Identity: id}, nil
}

func (s *Issuer) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginAttempt(outcome)
	}
}

// DeviceType buckets a User-Agent into mobile, tablet or desktop.
func DeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return "unknown"
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		return "tablet"
	case strings.Contains(ua, "mobi") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "mobile"
	default:
		return "desktop"
	}
}
