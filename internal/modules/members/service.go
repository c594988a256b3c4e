package members

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/pkg/validator"
	"kambafy/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is the member session lifecycle as seen by a client.
type State string

const (
	StateLoggedOut State = "logged_out"
	StateLoggingIn State = "logging_in"
	StateLoggedIn  State = "logged_in"
)

// Scope selects between a single member area login and the unified hub login.
type Scope struct {
	Kind         domain.SessionScope
	MemberAreaID uuid.UUID
}

func AreaScope(id uuid.UUID) Scope { return Scope{Kind: domain.ScopeArea, MemberAreaID: id} }

func HubScope() Scope { return Scope{Kind: domain.ScopeHub} }

type Session struct {
	Token        string              `json:"token,omitempty"`
	Email        string              `json:"email"`
	Name         string              `json:"name"`
	Scope        domain.SessionScope `json:"scope"`
	MemberAreaID *uuid.UUID          `json:"member_area_id,omitempty"`
	ExpiresAt    time.Time           `json:"expires_at"`
	State        State               `json:"state"`
	Bypass       bool                `json:"-"`
}

// Entitlement is one course an email may access, with progress totals.
type Entitlement struct {
	MemberAreaID     uuid.UUID  `json:"member_area_id"`
	MemberAreaName   string     `json:"member_area_name"`
	ProductID        uuid.UUID  `json:"product_id"`
	ProductName      string     `json:"product_name"`
	CoverURL         string     `json:"cover_url,omitempty"`
	LogoURL          string     `json:"logo_url,omitempty"`
	TotalLessons     int        `json:"total_lessons"`
	CompletedLessons int        `json:"completed_lessons"`
	Percentage       int        `json:"percentage"`
	LastActivity     *time.Time `json:"last_activity,omitempty"`
}

type Options struct {
	BypassEmails []string
	LoginLimit   int64
	LoginWindow  time.Duration
}

// SessionManager issues and resolves member sessions for both scopes.
type SessionManager struct {
	grants   EntitlementReader
	areas    AreaReader
	progress ProgressLister
	sessions SessionStore
	audit    AuditLog
	limiter  RateLimiter
	tokens   TokenIssuer
	log      zerolog.Logger
	opts     Options
	bypass   map[string]bool
	now      func() time.Time
}

func NewSessionManager(
	grants EntitlementReader,
	areas AreaReader,
	progress ProgressLister,
	sessions SessionStore,
	audit AuditLog,
	limiter RateLimiter,
	tokens TokenIssuer,
	log zerolog.Logger,
	opts Options,
) *SessionManager {
	bypass := make(map[string]bool, len(opts.BypassEmails))
	for _, e := range opts.BypassEmails {
		if email, ok := validator.NormalizeEmail(e); ok {
			bypass[email] = true
		}
	}
	return &SessionManager{
		grants:   grants,
		areas:    areas,
		progress: progress,
		sessions: sessions,
		audit:    audit,
		limiter:  limiter,
		tokens:   tokens,
		log:      log.With().Str("component", "members").Logger(),
		opts:     opts,
		bypass:   bypass,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Login checks the entitlement for scope and issues a session token.
func (m *SessionManager) Login(ctx context.Context, scope Scope, rawEmail, name string) (*Session, error) {
	email, ok := validator.NormalizeEmail(rawEmail)
	if !ok {
		return nil, ErrInvalidEmail
	}

	if err := m.checkRate(ctx, email); err != nil {
		return nil, err
	}

	bypass := m.bypass[email]
	if bypass && scope.Kind == domain.ScopeArea {
		if _, err := m.areas.GetByID(ctx, scope.MemberAreaID); err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrNoAccess
			}
			return nil, fmt.Errorf("load member area: %w", err)
		}
	}
	if !bypass {
		rows, err := m.grants.ListEntitlements(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("list entitlements: %w", err)
		}
		row, granted := matchScope(rows, scope)
		if !granted {
			return nil, ErrNoAccess
		}
		if strings.TrimSpace(name) == "" {
			name = row.StudentName
		}
	}
	if strings.TrimSpace(name) == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	var areaID string
	var areaRef *uuid.UUID
	if scope.Kind == domain.ScopeArea {
		id := scope.MemberAreaID
		areaID, areaRef = id.String(), &id
	}

	token, _, expiresAt, err := m.tokens.GenerateMemberToken(email, name, string(scope.Kind), areaID)
	if err != nil {
		return nil, fmt.Errorf("sign member token: %w", err)
	}

	row := &domain.MemberSession{
		TokenHash:    hashToken(token),
		Email:        email,
		Name:         name,
		Scope:        scope.Kind,
		MemberAreaID: areaRef,
		ExpiresAt:    expiresAt.UTC(),
	}
	if err := m.sessions.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("store member session: %w", err)
	}

	if bypass {
		m.auditBypass(ctx, email, scope)
	}

	m.log.Info().Str("scope", string(scope.Kind)).Bool("bypass", bypass).Msg("member logged in")

	return &Session{
		Token:        token,
		Email:        email,
		Name:         name,
		Scope:        scope.Kind,
		MemberAreaID: areaRef,
		ExpiresAt:    row.ExpiresAt,
		State:        StateLoggedIn,
		Bypass:       bypass,
	}, nil
}

// Logout revokes the session. Unknown or already revoked tokens are not an error.
func (m *SessionManager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.Revoke(ctx, hashToken(token), m.now()); err != nil {
		return fmt.Errorf("revoke member session: %w", err)
	}
	return nil
}

// Current resolves a token to its session. This is the only place expiry is enforced.
func (m *SessionManager) Current(ctx context.Context, token string) (*Session, error) {
	claims, err := m.tokens.ParseMemberToken(token)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	row, err := m.sessions.GetByHash(ctx, hashToken(token))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load member session: %w", err)
	}
	if row.RevokedAt != nil || row.Email != claims.Email {
		return nil, ErrSessionNotFound
	}
	if !m.now().Before(row.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	return &Session{
		Email:        row.Email,
		Name:         row.Name,
		Scope:        row.Scope,
		MemberAreaID: row.MemberAreaID,
		ExpiresAt:    row.ExpiresAt,
		State:        StateLoggedIn,
		Bypass:       m.bypass[row.Email],
	}, nil
}

// ResolveEntitlements lists the courses an email may access. Zero grants is an empty list, not an error.
func (m *SessionManager) ResolveEntitlements(ctx context.Context, email string) ([]Entitlement, error) {
	return m.resolve(ctx, email, nil)
}

// SessionEntitlements is ResolveEntitlements narrowed to what the session may see:
// an area-scoped session only lists its own area.
func (m *SessionManager) SessionEntitlements(ctx context.Context, s *Session) ([]Entitlement, error) {
	if s.Scope != domain.ScopeArea {
		return m.resolve(ctx, s.Email, nil)
	}
	if s.MemberAreaID == nil {
		return []Entitlement{}, nil
	}
	return m.resolve(ctx, s.Email, s.MemberAreaID)
}

func (m *SessionManager) resolve(ctx context.Context, email string, only *uuid.UUID) ([]Entitlement, error) {
	rows, err := m.grants.ListEntitlements(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}
	if only != nil {
		rows = slices.DeleteFunc(rows, func(r repository.EntitlementRow) bool { return r.MemberAreaID != *only })
	}
	if len(rows) == 0 {
		return []Entitlement{}, nil
	}

	now := m.now()
	areaIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		areaIDs = append(areaIDs, r.MemberAreaID)
	}

	totals, err := m.areas.CountPublishedLessons(ctx, areaIDs, now)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	progress, err := m.progress.ListForAreas(ctx, email, areaIDs, now)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	completed := make(map[uuid.UUID]int)
	last := make(map[uuid.UUID]time.Time)
	for _, p := range progress {
		if p.Completed {
			completed[p.MemberAreaID]++
		}
		if p.LastWatchedAt != nil && p.LastWatchedAt.After(last[p.MemberAreaID]) {
			last[p.MemberAreaID] = *p.LastWatchedAt
		}
	}

	out := make([]Entitlement, 0, len(rows))
	for _, r := range rows {
		total := totals[r.MemberAreaID]
		done := min(completed[r.MemberAreaID], total)
		e := Entitlement{
			MemberAreaID:     r.MemberAreaID,
			MemberAreaName:   r.MemberAreaName,
			ProductID:        r.ProductID,
			ProductName:      r.ProductName,
			CoverURL:         r.CoverURL,
			LogoURL:          r.LogoURL,
			TotalLessons:     total,
			CompletedLessons: done,
			Percentage:       domain.Percentage(done, total),
		}
		if t, ok := last[r.MemberAreaID]; ok {
			e.LastActivity = &t
		}
		out = append(out, e)
	}
	return out, nil
}

// CanAccessArea reports whether the session may read content of areaID.
func (m *SessionManager) CanAccessArea(ctx context.Context, s *Session, areaID uuid.UUID) (bool, error) {
	if s.Bypass {
		return true, nil
	}
	if s.Scope == domain.ScopeArea && (s.MemberAreaID == nil || *s.MemberAreaID != areaID) {
		return false, nil
	}
	rows, err := m.grants.ListEntitlements(ctx, s.Email)
	if err != nil {
		return false, fmt.Errorf("list entitlements: %w", err)
	}
	_, ok := matchScope(rows, AreaScope(areaID))
	return ok, nil
}

func (m *SessionManager) checkRate(ctx context.Context, email string) error {
	if m.limiter == nil || m.opts.LoginLimit <= 0 {
		return nil
	}
	allowed, _, err := m.limiter.AllowRate(ctx, "members:login:"+email, m.opts.LoginLimit, m.opts.LoginWindow)
	if err != nil {
		m.log.Warn().Err(err).Msg("login rate limiter unavailable")
		return nil
	}
	if !allowed {
		return ErrRateLimited
	}
	return nil
}

func (m *SessionManager) auditBypass(ctx context.Context, email string, scope Scope) {
	details, _ := json.Marshal(map[string]string{
		"scope":          string(scope.Kind),
		"member_area_id": scope.MemberAreaID.String(),
	})
	err := m.audit.Append(ctx, &domain.AdminActionLog{
		AdminEmail: email,
		Action:     domain.ActionMemberBypass,
		TargetType: "member_session",
		TargetID:   email,
		Details:    details,
	})
	if err != nil {
		m.log.Error().Err(err).Msg("audit bypass login")
	}
}

func matchScope(rows []repository.EntitlementRow, scope Scope) (repository.EntitlementRow, bool) {
	for _, r := range rows {
		if scope.Kind == domain.ScopeHub || r.MemberAreaID == scope.MemberAreaID {
			return r, true
		}
	}
	return repository.EntitlementRow{}, false
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IsAccessDenied groups failures shown to the member as the same generic message.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrNoAccess)
}
