package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-task-manager/internal/apperror"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/memory"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type AuthServiceSuite struct {
	suite.Suite
	ctx      context.Context
	users    *mockUserRepo
	sessions *memory.SessionStore
	notifier *mockNotifier
	hasher   *helpers.Hasher
	jwt      *helpers.JWTManager
	svc      *AuthService
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = new(mockUserRepo)
	s.sessions = memory.NewSessionStore()
	s.notifier = new(mockNotifier)
	s.hasher = helpers.NewHasher(bcrypt.MinCost)
	s.jwt = helpers.NewJWTManager("access-secret-123", "refresh-secret-123", 15*time.Minute, 7*24*time.Hour)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s.svc = NewAuthService(s.users, s.sessions, s.hasher, s.jwt, s.notifier, logger)
}

func (s *AuthServiceSuite) TearDownTest() {
	s.users.AssertExpectations(s.T())
	s.notifier.AssertExpectations(s.T())
}

func (s *AuthServiceSuite) existingUser(password string) *entity.User {
	hash, err := s.hasher.Hash(password)
	s.Require().NoError(err)
	return &entity.User{ID: "u1", Name: "Jane", Email: "jane@x.com", Password: hash, CreatedAt: time.Now()}
}

func (s *AuthServiceSuite) requireKind(err error, kind apperror.Kind, msg string) {
	s.Require().Error(err)
	e := apperror.From(err)
	s.Equal(kind, e.Kind)
	s.Equal(msg, e.Message)
}

func (s *AuthServiceSuite) TestRegister_StoresHashesNotSecrets() {
	var created *entity.User
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(nil, repo.ErrNotFound)
	s.users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*entity.User)
			created.ID = "u1"
		}).Return(nil)
	s.notifier.On("UserRegistered", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)

	res, err := s.svc.Register(s.ctx, RegisterInput{Name: "Jane", Email: "jane@x.com", Password: "password1"})
	s.Require().NoError(err)

	s.Equal("jane@x.com", res.User.Email)
	s.Equal("u1", res.User.ID)
	s.NotEqual("password1", created.Password)
	s.True(s.hasher.Compare(created.Password, "password1"))

	stored, _ := s.sessions.Get(s.ctx, "u1")
	s.NotEmpty(stored)
	s.NotEqual(res.RefreshToken, stored)
	s.True(s.hasher.CompareToken(stored, res.RefreshToken))

	claims, err := s.jwt.ParseAccessToken(res.AccessToken)
	s.Require().NoError(err)
	s.Equal("u1", claims.UserID)
	s.Equal("jane@x.com", claims.Email)
}

func (s *AuthServiceSuite) TestRegister_EmailInUse() {
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(s.existingUser("password1"), nil)

	_, err := s.svc.Register(s.ctx, RegisterInput{Name: "Jane", Email: "jane@x.com", Password: "password1"})
	s.requireKind(err, apperror.KindConflict, "Email already in use")
	s.users.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *AuthServiceSuite) TestRegister_UniqueViolationRace() {
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(nil, repo.ErrNotFound)
	s.users.On("Create", mock.Anything, mock.Anything).Return(repo.ErrDuplicateEmail)

	_, err := s.svc.Register(s.ctx, RegisterInput{Name: "Jane", Email: "jane@x.com", Password: "password1"})
	s.requireKind(err, apperror.KindConflict, "Email already in use")
}

func (s *AuthServiceSuite) TestRegister_NotifierFailureIsIgnored() {
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(nil, repo.ErrNotFound)
	s.users.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.User).ID = "u1" }).Return(nil)
	s.notifier.On("UserRegistered", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	res, err := s.svc.Register(s.ctx, RegisterInput{Name: "Jane", Email: "jane@x.com", Password: "password1"})
	s.Require().NoError(err)
	s.NotEmpty(res.AccessToken)
}

func (s *AuthServiceSuite) TestRegisterThenLogin_LongPassword() {
	long := strings.Repeat("correct horse battery staple ", 4) // 116 bytes
	var created *entity.User
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(nil, repo.ErrNotFound).Once()
	s.users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*entity.User)
			created.ID = "u1"
		}).Return(nil)
	s.notifier.On("UserRegistered", mock.Anything, mock.Anything).Return(nil)

	_, err := s.svc.Register(s.ctx, RegisterInput{Name: "Jane", Email: "jane@x.com", Password: long})
	s.Require().NoError(err)

	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(created, nil)
	res, err := s.svc.Login(s.ctx, "jane@x.com", long)
	s.Require().NoError(err)
	s.Equal("u1", res.User.ID)

	// same first 72 bytes, different tail
	_, err = s.svc.Login(s.ctx, "jane@x.com", long[:72])
	s.requireKind(err, apperror.KindUnauthorized, "Invalid credentials")
}

func (s *AuthServiceSuite) TestLogin_FailuresAreIndistinguishable() {
	s.users.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, repo.ErrNotFound)
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(s.existingUser("password1"), nil)

	_, errUnknown := s.svc.Login(s.ctx, "nobody@x.com", "password1")
	_, errWrong := s.svc.Login(s.ctx, "jane@x.com", "wrong-password")

	s.requireKind(errUnknown, apperror.KindUnauthorized, "Invalid credentials")
	s.requireKind(errWrong, apperror.KindUnauthorized, "Invalid credentials")
	s.Equal(errUnknown.Error(), errWrong.Error())
}

func (s *AuthServiceSuite) TestLogin_RepositoryFailureIsInternal() {
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(nil, errors.New("connection reset"))

	_, err := s.svc.Login(s.ctx, "jane@x.com", "password1")
	s.requireKind(err, apperror.KindInternal, "Something went wrong")
}

func (s *AuthServiceSuite) TestLogin_SecondLoginEndsFirstSession() {
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(s.existingUser("password1"), nil)
	s.users.On("GetByID", mock.Anything, "u1").Return(s.existingUser("password1"), nil)

	first, err := s.svc.Login(s.ctx, "jane@x.com", "password1")
	s.Require().NoError(err)
	second, err := s.svc.Login(s.ctx, "jane@x.com", "password1")
	s.Require().NoError(err)
	s.NotEqual(first.RefreshToken, second.RefreshToken)

	_, err = s.svc.Refresh(s.ctx, first.RefreshToken)
	s.requireKind(err, apperror.KindUnauthorized, "Unauthorized")

	_, err = s.svc.Refresh(s.ctx, second.RefreshToken)
	s.NoError(err)
}

func (s *AuthServiceSuite) TestRefresh_UsesSlotFromUserRow() {
	sessions := new(mockRowSessions)
	svc := NewAuthService(s.users, sessions, s.hasher, s.jwt, nil, s.svc.Logger)

	refresh, _, err := s.jwt.GenerateRefreshToken("u1", "jane@x.com")
	s.Require().NoError(err)
	slot, err := s.hasher.HashToken(refresh)
	s.Require().NoError(err)
	u := s.existingUser("password1")
	u.HashedRefreshToken = &slot

	s.users.On("GetByID", mock.Anything, "u1").Return(u, nil)
	sessions.On("Swap", mock.Anything, "u1", slot, mock.AnythingOfType("string")).Return(true, nil)

	res, err := svc.Refresh(s.ctx, refresh)
	s.Require().NoError(err)
	s.NotEqual(refresh, res.RefreshToken)
	sessions.AssertExpectations(s.T())
	sessions.AssertNotCalled(s.T(), "Get", mock.Anything, mock.Anything)

	// an empty column means no session
	u.HashedRefreshToken = nil
	_, err = svc.Refresh(s.ctx, refresh)
	s.requireKind(err, apperror.KindUnauthorized, "Unauthorized")
}

func (s *AuthServiceSuite) TestRefresh_CountsOutcomes() {
	u := s.existingUser("password1")
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(u, nil)
	s.users.On("GetByID", mock.Anything, "u1").Return(u, nil)
	rotated, rejected := refreshRotated.Value(), refreshRejected.Value()

	login, err := s.svc.Login(s.ctx, "jane@x.com", "password1")
	s.Require().NoError(err)
	_, err = s.svc.Refresh(s.ctx, login.RefreshToken)
	s.Require().NoError(err)
	_, err = s.svc.Refresh(s.ctx, login.RefreshToken)
	s.Require().Error(err)
	_, err = s.svc.Refresh(s.ctx, "")
	s.Require().Error(err)

	s.Equal(rotated+1, refreshRotated.Value())
	s.Equal(rejected+2, refreshRejected.Value())
}

func (s *AuthServiceSuite) TestRefresh_RotatesAndRejectsReuse() {
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(s.existingUser("password1"), nil)
	s.users.On("GetByID", mock.Anything, "u1").Return(s.existingUser("password1"), nil)

	login, err := s.svc.Login(s.ctx, "jane@x.com", "password1")
	s.Require().NoError(err)

	rotated, err := s.svc.Refresh(s.ctx, login.RefreshToken)
	s.Require().NoError(err)
	s.NotEqual(login.RefreshToken, rotated.RefreshToken)
	s.Equal("jane@x.com", rotated.User.Email)

	stored, _ := s.sessions.Get(s.ctx, "u1")
	s.True(s.hasher.CompareToken(stored, rotated.RefreshToken))

	_, err = s.svc.Refresh(s.ctx, login.RefreshToken)
	s.requireKind(err, apperror.KindUnauthorized, "Unauthorized")
}

func (s *AuthServiceSuite) TestRefresh_RejectsBadTokens() {
	access, _, err := s.jwt.GenerateAccessToken("u1", "jane@x.com")
	s.Require().NoError(err)
	other := helpers.NewJWTManager("access-secret-123", "other-refresh-secret", time.Minute, time.Hour)
	foreign, _, err := other.GenerateRefreshToken("u1", "jane@x.com")
	s.Require().NoError(err)

	for name, tok := range map[string]string{
		"empty":             "",
		"garbage":           "not-a-token",
		"access as refresh": access,
		"foreign secret":    foreign,
	} {
		s.Run(name, func() {
			_, err := s.svc.Refresh(s.ctx, tok)
			s.requireKind(err, apperror.KindUnauthorized, "Unauthorized")
		})
	}
	s.users.AssertNotCalled(s.T(), "GetByID", mock.Anything, mock.Anything)
}

func (s *AuthServiceSuite) TestRefresh_UnknownUser() {
	tok, _, err := s.jwt.GenerateRefreshToken("ghost", "ghost@x.com")
	s.Require().NoError(err)
	s.users.On("GetByID", mock.Anything, "ghost").Return(nil, repo.ErrNotFound)

	_, err = s.svc.Refresh(s.ctx, tok)
	s.requireKind(err, apperror.KindUnauthorized, "Unauthorized")
}

func (s *AuthServiceSuite) TestRefresh_ConcurrentReuseAtMostOneWins() {
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(s.existingUser("password1"), nil)
	s.users.On("GetByID", mock.Anything, "u1").Return(s.existingUser("password1"), nil)

	login, err := s.svc.Login(s.ctx, "jane@x.com", "password1")
	s.Require().NoError(err)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.svc.Refresh(s.ctx, login.RefreshToken); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.LessOrEqual(wins, 1)
}

func (s *AuthServiceSuite) TestLogout_IsIdempotentAndEndsSession() {
	s.users.On("GetByEmail", mock.Anything, "jane@x.com").Return(s.existingUser("password1"), nil)
	s.users.On("GetByID", mock.Anything, "u1").Return(s.existingUser("password1"), nil)

	login, err := s.svc.Login(s.ctx, "jane@x.com", "password1")
	s.Require().NoError(err)

	s.NoError(s.svc.Logout(s.ctx, "u1"))
	s.NoError(s.svc.Logout(s.ctx, "u1"))

	stored, _ := s.sessions.Get(s.ctx, "u1")
	s.Empty(stored)

	_, err = s.svc.Refresh(s.ctx, login.RefreshToken)
	s.requireKind(err, apperror.KindUnauthorized, "Unauthorized")
}

func (s *AuthServiceSuite) TestMe() {
	s.users.On("GetByID", mock.Anything, "u1").Return(s.existingUser("password1"), nil)
	s.users.On("GetByID", mock.Anything, "gone").Return(nil, repo.ErrNotFound)

	u, err := s.svc.Me(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("Jane", u.Name)

	_, err = s.svc.Me(s.ctx, "gone")
	s.requireKind(err, apperror.KindNotFound, "User not found")
}
