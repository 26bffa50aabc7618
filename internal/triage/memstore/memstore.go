// Package memstore provides an in-memory implementation of triage.Store.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/linnemanlabs/vortex/internal/triage"
)

// Store holds tickets in memory. Suitable for dev/testing.
type Store struct {
	mu      sync.RWMutex
	tickets map[string]*triage.Ticket // ticket ID -> ticket
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		tickets: make(map[string]*triage.Ticket),
	}
}

// CreatePending stores a copy of a freshly submitted ticket.
func (s *Store) CreatePending(_ context.Context, t *triage.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tickets[t.ID] = &cp
	return nil
}

// Get retrieves a ticket by its ID. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*triage.Ticket, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, false, nil
	}
	cp := *t
	return &cp, true, nil
}

// Resolve records a triage result against id. An existing ticket is updated
// in place; an unknown id inserts a fresh resolved ticket.
func (s *Store) Resolve(_ context.Context, id, rawText string, res *triage.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		t = &triage.Ticket{
			ID:        id,
			Reference: res.Reference,
			RawText:   rawText,
			Name:      res.Name,
			Contact:   res.Contact,
			CreatedAt: res.CreatedAt,
		}
		s.tickets[id] = t
	}

	t.Status = triage.StatusResolved
	t.RedactedText = res.RedactedText
	t.Category = res.Category
	t.Risk = res.Risk
	t.Phishing = res.Phishing
	t.Action = res.Action
	t.Reply = res.Reply
	t.ResolvedAt = time.Now()
	return nil
}

// ListByStatus returns copies of all tickets in the given status, newest
// first.
func (s *Store) ListByStatus(_ context.Context, status triage.Status) ([]*triage.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*triage.Ticket, 0)
	for _, t := range s.tickets {
		if t.Status == status {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Counts computes the dashboard aggregates over all stored tickets.
func (s *Store) Counts(_ context.Context) (*triage.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := &triage.Counts{}
	for _, t := range s.tickets {
		switch t.Status {
		case triage.StatusPending:
			c.Pending++
		case triage.StatusResolved:
			c.Resolved++
			if t.Risk >= triage.CriticalRisk {
				c.Critical++
			}
			// Covers both the cascade category and a bare SALES intent.
			if strings.Contains(string(t.Category), "SALES") {
				c.Sales++
			}
		}
	}
	return c, nil
}
