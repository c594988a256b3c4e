// Package hub builds the unified course dashboard of a member.
package hub

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"kambafy/internal/modules/members"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Status string

const (
	StatusNotStarted Status = "Não iniciado"
	StatusInProgress Status = "Em andamento"
	StatusCompleted  Status = "Concluído"
)

type Tab string

const (
	TabAll        Tab = "todos"
	TabInProgress Tab = "em_andamento"
	TabNotStarted Tab = "nao_iniciado"
	TabCompleted  Tab = "concluido"
)

var Tabs = []Tab{TabAll, TabInProgress, TabNotStarted, TabCompleted}

// ParseTab maps unknown or empty values to TabAll.
func ParseTab(raw string) Tab {
	t := Tab(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(Tabs, t) {
		return t
	}
	return TabAll
}

type Card struct {
	MemberAreaID uuid.UUID  `json:"member_area_id"`
	Name         string     `json:"name"`
	ProductName  string     `json:"product_name"`
	CoverURL     string     `json:"cover_url,omitempty"`
	LogoURL      string     `json:"logo_url,omitempty"`
	Total        int        `json:"total_lessons"`
	Completed    int        `json:"completed_lessons"`
	Percentage   int        `json:"percentage"`
	Status       Status     `json:"status"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

func StatusOf(completed, total int) Status {
	switch {
	case completed <= 0:
		return StatusNotStarted
	case total > 0 && completed >= total:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// Build turns entitlements into cards, most recently active first, then by name.
func Build(entitlements []members.Entitlement) []Card {
	cards := make([]Card, 0, len(entitlements))
	for _, e := range entitlements {
		cards = append(cards, Card{
			MemberAreaID: e.MemberAreaID,
			Name:         e.MemberAreaName,
			ProductName:  e.ProductName,
			CoverURL:     e.CoverURL,
			LogoURL:      e.LogoURL,
			Total:        e.TotalLessons,
			Completed:    e.CompletedLessons,
			Percentage:   e.Percentage,
			Status:       StatusOf(e.CompletedLessons, e.TotalLessons),
			LastActivity: e.LastActivity,
		})
	}

	slices.SortStableFunc(cards, func(a, b Card) int {
		switch {
		case a.LastActivity != nil && b.LastActivity == nil:
			return -1
		case a.LastActivity == nil && b.LastActivity != nil:
			return 1
		case a.LastActivity != nil && !a.LastActivity.Equal(*b.LastActivity):
			return b.LastActivity.Compare(*a.LastActivity)
		}
		return strings.Compare(fold(a.Name), fold(b.Name))
	})
	return cards
}

func Filter(cards []Card, tab Tab) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if matchesTab(c, tab) {
			out = append(out, c)
		}
	}
	return out
}

// Search matches course and product names ignoring case and accents.
func Search(cards []Card, query string) []Card {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return cards
	}
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if strings.Contains(fold(c.Name), q) || strings.Contains(fold(c.ProductName), q) {
			out = append(out, c)
		}
	}
	return out
}

func Counts(cards []Card) map[Tab]int {
	counts := make(map[Tab]int, len(Tabs))
	for _, t := range Tabs {
		counts[t] = len(Filter(cards, t))
	}
	return counts
}

func matchesTab(c Card, tab Tab) bool {
	switch tab {
	case TabInProgress:
		return c.Status == StatusInProgress
	case TabNotStarted:
		return c.Status == StatusNotStarted
	case TabCompleted:
		return c.Status == StatusCompleted
	default:
		return true
	}
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
