package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Claims identify a seller or admin. Impersonation tokens also carry the admin that issued them.
type Claims struct {
	UserID         string `json:"user_id"`
	Role           string `json:"role"`
	ImpersonatorID string `json:"impersonator_id,omitempty"`
	ReadOnly       bool   `json:"read_only,omitempty"`
	jwtlib.RegisteredClaims
}

// MemberClaims identify a buyer logged into one member area or into the unified hub.
type MemberClaims struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Scope        string `json:"scope"`
	MemberAreaID string `json:"member_area_id,omitempty"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) GenerateToken(userID, role string) (string, error) {
	return s.sign(&Claims{
		UserID:           userID,
		Role:             role,
		RegisteredClaims: s.registered(s.ttl),
	})
}

// GenerateImpersonationToken issues a short-lived token acting as userID on behalf of adminID.
func (s *Service) GenerateImpersonationToken(userID, role, adminID string, ttl time.Duration, readOnly bool) (string, time.Time, error) {
	rc := s.registered(ttl)
	token, err := s.sign(&Claims{
		UserID:           userID,
		Role:             role,
		ImpersonatorID:   adminID,
		ReadOnly:         readOnly,
		RegisteredClaims: rc,
	})
	return token, rc.ExpiresAt.Time, err
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateMemberToken signs member claims; the returned jti is what the session table stores.
func (s *Service) GenerateMemberToken(email, name, scope, memberAreaID string) (string, string, time.Time, error) {
	rc := s.registered(s.ttl)
	token, err := s.sign(&MemberClaims{
		Email:            email,
		Name:             name,
		Scope:            scope,
		MemberAreaID:     memberAreaID,
		RegisteredClaims: rc,
	})
	return token, rc.ID, rc.ExpiresAt.Time, err
}

// ParseMemberToken checks the signature only. Expiry is enforced against the session row.
func (s *Service) ParseMemberToken(tokenStr string) (*MemberClaims, error) {
	claims := &MemberClaims{}
	if err := s.parse(tokenStr, claims, jwtlib.WithoutClaimsValidation()); err != nil {
		return nil, err
	}
	if claims.Email == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) registered(ttl time.Duration) jwtlib.RegisteredClaims {
	now := s.now()
	return jwtlib.RegisteredClaims{
		ID:        uuid.NewString(),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwtlib.NewNumericDate(now),
	}
}

func (s *Service) sign(claims jwtlib.Claims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parse(tokenStr string, claims jwtlib.Claims, opts ...jwtlib.ParserOption) error {
	opts = append(opts, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}), jwtlib.WithTimeFunc(s.now))
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
