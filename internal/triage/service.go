package triage

import (
	"context"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/vortex/internal/extract"
	"github.com/linnemanlabs/vortex/internal/redact"
)

// Notifier receives resolved results the service considers urgent.
type Notifier interface {
	Notify(ctx context.Context, t *Ticket) error
}

// Service is the business boundary for ticket operations: intake, the
// triage entry point, privacy-filtered listings, and dashboard aggregates.
// The engine stays pure; all store and notifier I/O happens here.
type Service struct {
	store    Store
	engine   *Engine
	notifier Notifier
	metrics  *Metrics
	logger   log.Logger

	// notifyRisk is the risk floor for notifications; phishing always
	// notifies regardless.
	notifyRisk float64
}

// NewService creates a ticket service. notifier and metrics may be nil.
func NewService(store Store, engine *Engine, logger log.Logger, metrics *Metrics, notifier Notifier, notifyRisk float64) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:      store,
		engine:     engine,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger,
		notifyRisk: notifyRisk,
	}
}

// CreatePending registers a client-submitted ticket for later analysis and
// returns its id and reference.
func (s *Service) CreatePending(ctx context.Context, name, contact, message string) (id, reference string, err error) {
	id = ulid.Make().String()
	reference = "REF-" + ulid.Make().String()

	t := &Ticket{
		ID:        id,
		Reference: reference,
		Status:    StatusPending,
		RawText:   message,
		Name:      name,
		Contact:   contact,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreatePending(ctx, t); err != nil {
		s.count("error")
		return "", "", err
	}

	s.count("pending")
	s.logger.Info(ctx, "ticket created", "ticket_id", id, "reference", reference)
	return id, reference, nil
}

// Analyze is the triage entry point. rawText is the message to triage;
// priorID optionally names an existing pending ticket to resolve in place.
// The pipeline itself cannot fail; only persistence can.
func (s *Service) Analyze(ctx context.Context, rawText, priorID string) (*Result, error) {
	res := s.engine.Run(ctx, rawText)

	id := priorID
	if id == "" {
		id = ulid.Make().String()
	} else if prior, ok, err := s.store.Get(ctx, id); err == nil && ok && prior.Reference != "" {
		// Re-scoring an existing record keeps its reference.
		res.Reference = prior.Reference
	}

	if err := s.store.Resolve(ctx, id, rawText, res); err != nil {
		s.count("error")
		return nil, err
	}
	s.count("resolved")

	s.maybeNotify(ctx, id, res)
	return res, nil
}

// Get retrieves a stored ticket by id.
func (s *Service) Get(ctx context.Context, id string) (*Ticket, bool, error) {
	return s.store.Get(ctx, id)
}

// Pending lists pending tickets for agent consumption. Raw text and raw
// contact addresses are never exposed: text is redacted and the contact is
// replaced with the redaction sentinel.
func (s *Service) Pending(ctx context.Context) ([]*Ticket, error) {
	list, err := s.store.ListByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		t.RedactedText = redact.Apply(t.RawText)
		t.RawText = ""
		if t.Contact != "" && t.Contact != extract.DefaultContact {
			t.Contact = redact.TokenEmail
		}
	}
	return list, nil
}

// Resolved lists resolved tickets, newest first.
func (s *Service) Resolved(ctx context.Context) ([]*Ticket, error) {
	list, err := s.store.ListByStatus(ctx, StatusResolved)
	if err != nil {
		return nil, err
	}
	// History is an operator surface, but raw text still stays internal.
	for _, t := range list {
		t.RawText = ""
	}
	return list, nil
}

// Stats returns the dashboard aggregates.
func (s *Service) Stats(ctx context.Context) (*Counts, error) {
	return s.store.Counts(ctx)
}

func (s *Service) maybeNotify(ctx context.Context, id string, res *Result) {
	if s.notifier == nil {
		return
	}
	if !res.Phishing && res.Risk < s.notifyRisk {
		return
	}

	t := &Ticket{
		ID:           id,
		Reference:    res.Reference,
		Status:       StatusResolved,
		RedactedText: res.RedactedText,
		Name:         res.Name,
		Category:     res.Category,
		Risk:         res.Risk,
		Phishing:     res.Phishing,
		Action:       res.Action,
		Reply:        res.Reply,
		CreatedAt:    res.CreatedAt,
		ResolvedAt:   time.Now(),
	}
	if err := s.notifier.Notify(ctx, t); err != nil {
		// Notification failures never affect the triage outcome.
		s.logger.Error(ctx, err, "notification failed", "ticket_id", id, "reference", res.Reference)
	}
}

func (s *Service) count(result string) {
	if s.metrics != nil {
		s.metrics.SubmitsTotal.WithLabelValues(result).Inc()
	}
}
