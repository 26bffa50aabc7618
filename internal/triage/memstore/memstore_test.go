package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/linnemanlabs/vortex/internal/triage"
)

func pendingTicket(id string, created time.Time) *triage.Ticket {
	return &triage.Ticket{
		ID:        id,
		Reference: "REF-" + id,
		Status:    triage.StatusPending,
		RawText:   "mensaje de " + id,
		Name:      "Ana",
		Contact:   "ana@corp.com",
		CreatedAt: created,
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.CreatePending(ctx, pendingTicket("t-1", time.Now())); err != nil {
		t.Fatalf("CreatePending: %v", err)
	}

	got, ok, err := s.Get(ctx, "t-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected ticket to be found")
	}
	if got.Reference != "REF-t-1" {
		t.Errorf("Reference = %q, want %q", got.Reference, "REF-t-1")
	}
	if got.Status != triage.StatusPending {
		t.Errorf("Status = %q, want %q", got.Status, triage.StatusPending)
	}
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	s := New()
	_, ok, err := s.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing ID")
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	_ = s.CreatePending(ctx, pendingTicket("t-c", time.Now()))

	got, _, _ := s.Get(ctx, "t-c")
	got.Name = "mutated"

	again, _, _ := s.Get(ctx, "t-c")
	if again.Name != "Ana" {
		t.Errorf("stored ticket mutated through a returned copy: %q", again.Name)
	}
}

func TestStore_ResolveExisting(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	_ = s.CreatePending(ctx, pendingTicket("t-r", time.Now()))

	res := &triage.Result{
		Reference:    "REF-ignored",
		RedactedText: "texto redactado",
		Category:     triage.CategoryChurnImminent,
		Risk:         95,
		Action:       triage.ActionCriticalRetention,
		Reply:        "lo sentimos",
	}
	if err := s.Resolve(ctx, "t-r", "texto crudo", res); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	got, ok, _ := s.Get(ctx, "t-r")
	if !ok {
		t.Fatal("ticket disappeared after resolve")
	}
	if got.Status != triage.StatusResolved {
		t.Errorf("Status = %q, want %q", got.Status, triage.StatusResolved)
	}
	if got.Reference != "REF-t-r" {
		t.Errorf("Reference = %q, resolve must keep the intake reference", got.Reference)
	}
	if got.Risk != 95 || got.Category != triage.CategoryChurnImminent {
		t.Errorf("result fields not applied: %+v", got)
	}
	if got.ResolvedAt.IsZero() {
		t.Error("ResolvedAt not set")
	}
}

func TestStore_ResolveUnknownInserts(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	res := &triage.Result{
		Reference:    "REF-fresh",
		Name:         "Carlos",
		Contact:      "no-contact",
		RedactedText: "hola",
		Category:     triage.CategorySalesOpportunity,
		Risk:         10,
		Action:       triage.ActionSalesNotify,
		Reply:        "gracias",
		CreatedAt:    time.Now(),
	}
	if err := s.Resolve(ctx, "t-new", "hola", res); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	got, ok, _ := s.Get(ctx, "t-new")
	if !ok {
		t.Fatal("expected inserted ticket")
	}
	if got.Status != triage.StatusResolved {
		t.Errorf("Status = %q, want %q", got.Status, triage.StatusResolved)
	}
	if got.Reference != "REF-fresh" || got.Name != "Carlos" {
		t.Errorf("intake fields not carried: %+v", got)
	}
	if got.RawText != "hola" {
		t.Errorf("RawText = %q, want the analyzed text", got.RawText)
	}
}

func TestStore_ListByStatus(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	base := time.Now()

	_ = s.CreatePending(ctx, pendingTicket("t-old", base.Add(-2*time.Hour)))
	_ = s.CreatePending(ctx, pendingTicket("t-new", base))
	_ = s.CreatePending(ctx, pendingTicket("t-done", base.Add(-time.Hour)))
	_ = s.Resolve(ctx, "t-done", "texto", &triage.Result{Category: triage.CategorySalesOpportunity, Risk: 10})

	pending, err := s.ListByStatus(ctx, triage.StatusPending)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].ID != "t-new" || pending[1].ID != "t-old" {
		t.Errorf("order = [%s, %s], want newest first", pending[0].ID, pending[1].ID)
	}

	resolved, err := s.ListByStatus(ctx, triage.StatusResolved)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(resolved) != 1 || resolved[0].ID != "t-done" {
		t.Errorf("resolved = %+v, want only t-done", resolved)
	}
}

func TestStore_Counts(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	now := time.Now()

	_ = s.CreatePending(ctx, pendingTicket("t-p", now))
	_ = s.Resolve(ctx, "t-crit", "x", &triage.Result{Category: triage.CategoryChurnImminent, Risk: 90, CreatedAt: now})
	_ = s.Resolve(ctx, "t-sales", "y", &triage.Result{Category: triage.CategorySalesOpportunity, Risk: 10, CreatedAt: now})
	_ = s.Resolve(ctx, "t-mild", "z", &triage.Result{Category: triage.Category("SUPPORT"), Risk: 20, CreatedAt: now})

	c, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if c.Pending != 1 {
		t.Errorf("Pending = %d, want 1", c.Pending)
	}
	if c.Resolved != 3 {
		t.Errorf("Resolved = %d, want 3", c.Resolved)
	}
	if c.Critical != 1 {
		t.Errorf("Critical = %d, want 1", c.Critical)
	}
	if c.Sales != 1 {
		t.Errorf("Sales = %d, want 1", c.Sales)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n * 2)

	for i := range n {
		id := fmt.Sprintf("id-%d", i)

		go func() {
			defer wg.Done()
			_ = s.CreatePending(ctx, pendingTicket(id, time.Now()))
			_ = s.Resolve(ctx, id, "texto", &triage.Result{Category: triage.Category("SUPPORT"), Risk: 20})
		}()

		go func() {
			defer wg.Done()
			_, _, _ = s.Get(ctx, id)
			_, _ = s.ListByStatus(ctx, triage.StatusPending)
			_, _ = s.Counts(ctx)
		}()
	}

	wg.Wait()
}
