package session

import (
	"context"
	"errors"
	"sync"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/editors"
	"lawfirm-cms/internal/rbac"

	"github.com/google/uuid"
)

// account is the resolved principal behind a username: either the
// environment-configured admin or a stored editor row.
type account interface {
	checkPassword(password string) bool
	identity() auth.Identity
}

type bootstrapAccount struct {
	username string
	password string
}

func (a bootstrapAccount) checkPassword(password string) bool {
	return auth.ConstantTimeEqual(a.password, password)
}

func (a bootstrapAccount) identity() auth.Identity {
	return auth.Identity{
		Username:    a.username,
		Role:        auth.RoleAdmin,
		Permissions: append([]string(nil), rbac.All...),
	}
}

type storedAccount struct {
	editor editors.Editor
}

func (a storedAccount) checkPassword(password string) bool {
	return auth.VerifyPassword(a.editor.PasswordHash, password) == nil
}

func (a storedAccount) identity() auth.Identity {
	return auth.Identity{
		Username:    a.editor.Username,
		Role:        auth.RoleEditor,
		Permissions: append([]string(nil), a.editor.Permissions...),
	}
}

// unknownAccount burns a bcrypt comparison so response time does not reveal
// whether the username exists.
type unknownAccount struct{}

// dummyHash is a bcrypt hash of a random string nobody knows.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword(uuid.NewString())
	return h
})

func (unknownAccount) checkPassword(password string) bool {
	_ = auth.VerifyPassword(dummyHash(), password)
	return false
}

func (unknownAccount) identity() auth.Identity { return auth.Identity{} }

// EditorFinder is the slice of the credential store the issuer needs.
type EditorFinder interface {
	FindByUsername(ctx context.Context, username string) (editors.Editor, error)
}

// resolve is the single lookup for a username. The bootstrap admin is checked
// first and never touches the database.
func (s *Issuer) resolve(ctx context.Context, username string) (account, error) {
	if s.admin.username != "" && auth.ConstantTimeEqual(s.admin.username, username) {
		return s.admin, nil
	}
	e, err := s.editors.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return unknownAccount{}, nil
		}
		return nil, err
	}
	return storedAccount{editor: e}, nil
}
