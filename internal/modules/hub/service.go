package hub

import (
	"context"

	"kambafy/internal/modules/members"
)

type EntitlementResolver interface {
	SessionEntitlements(ctx context.Context, s *members.Session) ([]members.Entitlement, error)
}

type Dashboard struct {
	Tab    Tab         `json:"tab"`
	Query  string      `json:"query,omitempty"`
	Cards  []Card      `json:"cards"`
	Counts map[Tab]int `json:"counts"`
}

type Service struct {
	resolver EntitlementResolver
}

func NewService(resolver EntitlementResolver) *Service {
	return &Service{resolver: resolver}
}

// Dashboard counts tabs over the searched cards, then applies the tab.
// An area-scoped session only sees the card of its own area.
func (s *Service) Dashboard(ctx context.Context, sess *members.Session, tab Tab, query string) (*Dashboard, error) {
	entitlements, err := s.resolver.SessionEntitlements(ctx, sess)
	if err != nil {
		return nil, err
	}
	cards := Search(Build(entitlements), query)
	return &Dashboard{
		Tab:    tab,
		Query:  query,
		Cards:  Filter(cards, tab),
		Counts: Counts(cards),
	}, nil
}
