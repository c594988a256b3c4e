package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/pkg/validator"
	"kambafy/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	LoginLimit  int64
	LoginWindow time.Duration
}

// Service registers and authenticates sellers and admins.
type Service struct {
	users   UserRepository
	tokens  TokenIssuer
	limiter RateLimiter
	opts    Options
	log     zerolog.Logger
	now     func() time.Time
}

func NewService(users UserRepository, tokens TokenIssuer, limiter RateLimiter, opts Options, log zerolog.Logger) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		limiter: limiter,
		opts:    opts,
		log:     log.With().Str("component", "auth").Logger(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a seller account and signs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email, ok := validator.NormalizeEmail(req.Email)
	if !ok {
		return nil, ErrInvalidEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Role:         domain.RoleSeller,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("seller registered")
	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email, ok := validator.NormalizeEmail(req.Email)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := s.checkRate(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsBanned {
		return nil, ErrAccountBanned
	}
	return s.issue(user)
}

func (s *Service) Me(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID.String(), string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResponse{
		Token:     token,
		ExpiresAt: s.now().Add(s.tokens.TTL()),
		User:      *user,
	}, nil
}

// checkRate counts every login attempt per email. Limiter errors let the attempt through.
func (s *Service) checkRate(ctx context.Context, email string) error {
	if s.limiter == nil || s.opts.LoginLimit <= 0 {
		return nil
	}
	allowed, _, err := s.limiter.AllowRate(ctx, "auth:login:"+email, s.opts.LoginLimit, s.opts.LoginWindow)
	if err != nil {
		s.log.Warn().Err(err).Msg("login rate limiter unavailable")
		return nil
	}
	if !allowed {
		return ErrRateLimited
	}
	return nil
}
