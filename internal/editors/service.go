package editors

import (
	"context"
	"strings"
	"time"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/rbac"
)

// bcrypt rejects inputs longer than 72 bytes.
const (
	minPasswordLen = 6
	maxPasswordLen = 72
)

var (
	ErrWrongPassword    = apperr.Validation("Current password is incorrect")
	ErrPasswordTooShort = apperr.Validation("Password must be at least 6 characters")
	ErrPasswordTooLong  = apperr.Validation("Password must be at most 72 bytes")
	ErrReservedUsername = apperr.Validation("Username is reserved")
)

// Service is the credential store for editor accounts.
type Service struct {
	repo     Repository
	clock    func() time.Time
	reserved map[string]struct{}
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// ReserveUsernames blocks editor accounts that would be shadowed at login,
// such as the bootstrap admin.
func (s *Service) ReserveUsernames(names ...string) *Service {
	if s.reserved == nil {
		s.reserved = make(map[string]struct{}, len(names))
	}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			s.reserved[n] = struct{}{}
		}
	}
	return s
}

func checkPasswordLength(p string) error {
	if len(p) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if len(p) > maxPasswordLen {
		return ErrPasswordTooLong
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Editor, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return Editor{}, apperr.Validation("Username and password are required")
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return Editor{}, err
	}
	if _, ok := s.reserved[username]; ok {
		return Editor{}, ErrReservedUsername
	}

	perms := make([]string, 0, len(in.Permissions))
	seen := make(map[string]struct{}, len(in.Permissions))
	for _, p := range in.Permissions {
		if !rbac.IsKnown(p) {
			return Editor{}, apperr.Validation("Unknown permission: " + p)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		perms = append(perms, p)
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return Editor{}, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Editor{}, err
	}

	e := Editor{
		Username:     username,
		PasswordHash: hash,
		Permissions:  perms,
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		return Editor{}, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]Editor, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.Validation("Editor id is required")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) FindByUsername(ctx context.Context, username string) (Editor, error) {
	return s.repo.FindByUsername(ctx, username)
}

// ChangePassword verifies current before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, username, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("Current and new password are required")
	}
	if err := checkPasswordLength(next); err != nil {
		return err
	}
	e, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if auth.VerifyPassword(e.PasswordHash, current) != nil {
		return ErrWrongPassword
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, e.ID, hash)
}
