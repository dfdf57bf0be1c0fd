package identity

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"staffdir/internal/structs"
	"staffdir/pkg/config"
	"staffdir/pkg/logger"
	userRepo "staffdir/pkg/repository/postgres/user_repo"
	"staffdir/pkg/token"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	Module = fx.Provide(New)
)

const minPasswordLen = 6

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type (
	Params struct {
		fx.In

		Logger   logger.Logger
		Config   config.IConfig
		UserRepo userRepo.Repo
	}

	// Service wraps the backend identity operations and is the sole owner
	// of the session: created on Register/Login, destroyed on Logout,
	// published to Sessions subscribers on every change.
	Service interface {
		Register(ctx context.Context, req structs.RegisterRequest) (structs.Session, error)
		Login(ctx context.Context, req structs.LoginRequest) (structs.Session, error)
		Logout(ctx context.Context) error
		Current() *structs.Session
		Sessions() <-chan *structs.Session
		Me(ctx context.Context, tokenString string) (structs.User, error)
	}

	service struct {
		logger   logger.Logger
		config   config.IConfig
		userRepo userRepo.Repo

		mu          sync.Mutex
		session     *structs.Session
		subscribers []chan *structs.Session
	}
)

func New(p Params) Service {
	return &service{
		logger:   p.Logger,
		config:   p.Config,
		userRepo: p.UserRepo,
	}
}

func (s *service) Register(ctx context.Context, req structs.RegisterRequest) (structs.Session, error) {
	if !emailShape.MatchString(req.Email) {
		return structs.Session{}, structs.NewAuthError(structs.AuthInvalidEmail, nil)
	}
	if len(req.Password) < minPasswordLen {
		return structs.Session{}, structs.NewAuthError(structs.AuthWeakPassword, nil)
	}

	user, err := s.userRepo.Create(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) {
			return structs.Session{}, structs.NewAuthError(structs.AuthEmailAlreadyInUse, err)
		}
		s.logger.Error(ctx, "->userRepo.Create", zap.Error(err))
		return structs.Session{}, structs.NewAuthError(structs.AuthNetworkError, err)
	}

	return s.openSession(ctx, user)
}

func (s *service) Login(ctx context.Context, req structs.LoginRequest) (structs.Session, error) {
	user, passwordHash, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Session{}, structs.NewAuthError(structs.AuthUserNotFound, err)
		}
		s.logger.Error(ctx, "->userRepo.GetByEmail", zap.Error(err))
		return structs.Session{}, structs.NewAuthError(structs.AuthNetworkError, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return structs.Session{}, structs.NewAuthError(structs.AuthInvalidCredentials, err)
	}

	return s.openSession(ctx, user)
}

// Logout always succeeds locally.
func (s *service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	s.publish(nil)
	return nil
}

func (s *service) Current() *structs.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Sessions returns an observation channel. Every session change (login,
// register, logout) is published to it; a nil value means unauthenticated.
func (s *service) Sessions() <-chan *structs.Session {
	ch := make(chan *structs.Session, 1)

	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	ch <- s.session
	s.mu.Unlock()

	return ch
}

// Me resolves a bearer token back to its identity, for route protection.
func (s *service) Me(ctx context.Context, tokenString string) (structs.User, error) {
	userID, err := token.Parse(s.config.GetString("jwt.secret"), tokenString)
	if err != nil {
		return structs.User{}, structs.NewAuthError(structs.AuthInvalidCredentials, err)
	}

	user, err := s.userRepo.GetById(ctx, userID)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.User{}, structs.NewAuthError(structs.AuthUserNotFound, err)
		}
		s.logger.Error(ctx, "->userRepo.GetById", zap.Error(err))
		return structs.User{}, structs.NewAuthError(structs.AuthNetworkError, err)
	}
	return user, nil
}

func (s *service) openSession(ctx context.Context, user structs.User) (structs.Session, error) {
	signed, err := token.Generate(
		s.config.GetString("jwt.secret"),
		user.Id,
		s.config.GetDuration("jwt.ttl"),
	)
	if err != nil {
		s.logger.Error(ctx, "->token.Generate", zap.Error(err))
		return structs.Session{}, structs.NewAuthError(structs.AuthNetworkError, err)
	}

	session := structs.Session{User: user, Token: signed}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()

	s.publish(&session)
	return session, nil
}

func (s *service) publish(session *structs.Session) {
	s.mu.Lock()
	subs := make([]chan *structs.Session, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, ch := range subs {
		// never block on a lagging subscriber: evict the stale value so
		// the latest session state always lands (a dropped logout must
		// not leave the old session observable)
		select {
		case ch <- session:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- session:
		default:
		}
	}
}
