package services

import (
	"errors"
	"strings"

	"ktmobile/internal/domain"
	"ktmobile/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds  = errors.New("invalid email or password")
	ErrNoSession = errors.New("no active session")
)

// BcryptCost is used for every stored staff password.
const BcryptCost = 12

// AuthService logs staff in against bcrypt hashes and binds them to the sid cookie.
type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(strings.TrimSpace(email))
	if err != nil {
		// Burn a comparison so unknown emails take as long as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	if sid == "" {
		return nil, ErrNoSession
	}
	u, err := s.Users.SessionUser(sid)
	if err != nil {
		return nil, ErrNoSession
	}
	return u, nil
}

// EnsureAdmin creates the admin account on first start. It reports whether one was created.
func (s *AuthService) EnsureAdmin(email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return false, err
	}
	return s.Users.Create(strings.TrimSpace(email), "Admin", string(h), domain.RoleAdmin)
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)
