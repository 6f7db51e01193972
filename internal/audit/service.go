package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lawfirm-cms/internal/apperr"
)

// Repository is the persistence contract for audit entries.
//
// It MUST be append-only.
// No Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	// List returns at most limit entries, newest first.
	List(ctx context.Context, limit int) ([]Entry, error)
	AppendLogin(ctx context.Context, e LoginEntry) error
	// RecentLogins returns at most limit logins for username, newest first.
	RecentLogins(ctx context.Context, username string, limit int) ([]LoginEntry, error)
}

// Service records significant actions for traceability.
// Callers treat recording as best-effort: Record logs failures and returns nothing.
type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, clock: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

var ErrInvalidEntry = apperr.Validation("Username and action are required")

func (s *Service) Append(ctx context.Context, e Entry) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Username == "" || e.Action == "" {
		return ErrInvalidEntry
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Record appends an entry and swallows failures after logging them.
func (s *Service) Record(ctx context.Context, username, action, details string) {
	if err := s.Append(ctx, Entry{Username: username, Action: action, Details: details}); err != nil {
		s.log.WarnContext(ctx, "audit write failed", "action", action, "username", username, "err", err)
	}
}

// RecordLogin stores a login history row. Best-effort.
func (s *Service) RecordLogin(ctx context.Context, username, ip, device string) {
	if s.repo == nil {
		return
	}
	err := s.repo.AppendLogin(ctx, LoginEntry{
		Username:  username,
		Timestamp: s.clock().UTC(),
		IPAddress: ip,
		Device:    device,
	})
	if err != nil {
		s.log.WarnContext(ctx, "login history write failed", "username", username, "err", err)
	}
}

// Query returns entries newest first. limit is clamped to (0, MaxQueryLimit].
func (s *Service) Query(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	out, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// RecentLogins returns the last n logins of username.
func (s *Service) RecentLogins(ctx context.Context, username string, n int) ([]LoginEntry, error) {
	if n <= 0 {
		n = 5
	}
	return s.repo.RecentLogins(ctx, username, n)
}
