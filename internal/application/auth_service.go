package application

import (
	"context"
	"errors"
	"expvar"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/apperror"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

const (
	msgEmailInUse         = "Email already in use"
	msgInvalidCredentials = "Invalid credentials"
	msgUnauthorized       = "Unauthorized"
	msgUserNotFound       = "User not found"
)

// Served by the debug module under /api/debug/vars.
var (
	refreshRotated  = expvar.NewInt("auth_refresh_rotated")
	refreshRejected = expvar.NewInt("auth_refresh_rejected")
)

// Notifier is told about account events. Failures never fail the request.
type Notifier interface {
	UserRegistered(ctx context.Context, u *entity.User) error
}

type AuthService struct {
	Users    repo.UserRepository
	Sessions repo.SessionStore
	Hasher   *helpers.Hasher
	JWT      *helpers.JWTManager
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, sessions repo.SessionStore, hasher *helpers.Hasher, jwt *helpers.JWTManager, notifier Notifier, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		Sessions: sessions,
		Hasher:   hasher,
		JWT:      jwt,
		Notifier: notifier,
		Logger:   logger,
	}
}

// AuthResult is returned by every operation that starts or renews a session.
// RefreshToken is meant for the cookie only.
type AuthResult struct {
	User         entity.PublicUser
	AccessToken  string
	RefreshToken string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	existing, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, apperror.Conflict(msgEmailInUse)
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u := &entity.User{Name: strings.TrimSpace(in.Name), Email: email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, apperror.Conflict(msgEmailInUse)
		}
		return nil, apperror.Internal(err)
	}

	res, err := s.startSession(ctx, u)
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		if nErr := s.Notifier.UserRegistered(ctx, u); nErr != nil {
			s.log().WithError(nErr).WithField("user_id", u.ID).Warn("welcome mail not queued")
		}
	}
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		// burn the same bcrypt time as a real comparison
		s.Hasher.CompareDummy(password)
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	if !s.Hasher.Compare(u.Password, password) {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	return s.startSession(ctx, u)
}

// Refresh exchanges a refresh token for a new pair and rotates the slot.
// Each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, rejectRefresh()
	}
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, rejectRefresh()
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, rejectRefresh()
		}
		return nil, apperror.Internal(err)
	}
	stored, err := s.storedSlot(ctx, u)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if stored == "" || !s.Hasher.CompareToken(stored, refreshToken) {
		s.log().WithField("user_id", u.ID).Info("refresh rejected: token does not match session")
		return nil, rejectRefresh()
	}

	pair, hash, err := s.mint(u)
	if err != nil {
		return nil, err
	}
	ok, err := s.Sessions.Swap(ctx, u.ID, stored, hash)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !ok {
		// another refresh with the same token won
		return nil, rejectRefresh()
	}
	refreshRotated.Add(1)
	pair.User = u.ToPublic()
	return pair, nil
}

// Logout empties the session slot. Calling it again is harmless.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.Sessions.Clear(ctx, userID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*entity.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, apperror.Internal(err)
	}
	pu := u.ToPublic()
	return &pu, nil
}

func rejectRefresh() error {
	refreshRejected.Add(1)
	return apperror.Unauthorized(msgUnauthorized)
}

// storedSlot returns the user's refresh-token hash, reusing the loaded row
// when the store keeps the slot there.
func (s *AuthService) storedSlot(ctx context.Context, u *entity.User) (string, error) {
	if _, ok := s.Sessions.(repo.UserRowSlot); ok {
		if u.HashedRefreshToken == nil {
			return "", nil
		}
		return *u.HashedRefreshToken, nil
	}
	return s.Sessions.Get(ctx, u.ID)
}

// startSession mints a pair and overwrites the slot, ending any older session.
func (s *AuthService) startSession(ctx context.Context, u *entity.User) (*AuthResult, error) {
	pair, hash, err := s.mint(u)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, u.ID, hash); err != nil {
		return nil, apperror.Internal(err)
	}
	pair.User = u.ToPublic()
	return pair, nil
}

// mint returns a fresh token pair and the at-rest hash of its refresh token.
func (s *AuthService) mint(u *entity.User) (*AuthResult, string, error) {
	access, _, err := s.JWT.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		s.log().WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return nil, "", apperror.Internal(err)
	}
	refresh, _, err := s.JWT.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		s.log().WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return nil, "", apperror.Internal(err)
	}
	hash, err := s.Hasher.HashToken(refresh)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return &AuthResult{AccessToken: access, RefreshToken: refresh}, hash, nil
}

func (s *AuthService) log() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}
