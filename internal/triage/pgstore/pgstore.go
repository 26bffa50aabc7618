// Package pgstore provides a PostgreSQL implementation of triage.Store.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/vortex/internal/triage"
)

var tracer = otel.Tracer("github.com/linnemanlabs/vortex/internal/triage/pgstore")

//go:embed schema.sql
var schema string

// Store persists tickets in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store. The
// caller owns the pool lifecycle.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const ticketColumns = `id, reference, status, raw_text, redacted_text, name, contact,
	category, risk, phishing, action, reply, created_at, resolved_at`

// CreatePending inserts a freshly submitted ticket.
func (s *Store) CreatePending(ctx context.Context, t *triage.Ticket) error {
	ctx, span := tracer.Start(ctx, "pgstore.CreatePending", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO tickets (id, reference, status, raw_text, name, contact, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Reference, string(t.Status), t.RawText, t.Name, t.Contact, t.CreatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

// Get retrieves a ticket by ID.
func (s *Store) Get(ctx context.Context, id string) (*triage.Ticket, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	t, err := scanTicketRow(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if t == nil {
		return nil, false, nil
	}
	return t, true, nil
}

// Resolve records a triage result against id (upsert: an existing ticket is
// updated in place, an unknown id inserts a fresh resolved row).
func (s *Store) Resolve(ctx context.Context, id, rawText string, res *triage.Result) error {
	ctx, span := tracer.Start(ctx, "pgstore.Resolve", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is harmless

	if err := upsertResolved(ctx, tx, id, rawText, res); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListByStatus returns all tickets in the given status, newest first.
func (s *Store) ListByStatus(ctx context.Context, status triage.Status) ([]*triage.Ticket, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListByStatus", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE status = $1 ORDER BY created_at DESC, id DESC`
	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	out := make([]*triage.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return out, nil
}

// Counts computes the dashboard aggregates in a single query.
func (s *Store) Counts(ctx context.Context) (*triage.Counts, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Counts", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	var c triage.Counts
	err := s.pool.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $2 AND risk >= $3),
			COUNT(*) FILTER (WHERE status = $2 AND category LIKE '%SALES%')
		 FROM tickets`,
		string(triage.StatusPending), string(triage.StatusResolved),
		triage.CriticalRisk,
	).Scan(&c.Pending, &c.Resolved, &c.Critical, &c.Sales)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	return &c, nil
}

func upsertResolved(ctx context.Context, tx pgx.Tx, id, rawText string, res *triage.Result) error {
	createdAt := res.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO tickets (
		id, reference, status, raw_text, redacted_text, name, contact,
		category, risk, phishing, action, reply, reply_fallback, classifier_degraded,
		created_at, resolved_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	ON CONFLICT (id) DO UPDATE SET
		status              = EXCLUDED.status,
		redacted_text       = EXCLUDED.redacted_text,
		category            = EXCLUDED.category,
		risk                = EXCLUDED.risk,
		phishing            = EXCLUDED.phishing,
		action              = EXCLUDED.action,
		reply               = EXCLUDED.reply,
		reply_fallback      = EXCLUDED.reply_fallback,
		classifier_degraded = EXCLUDED.classifier_degraded,
		resolved_at         = EXCLUDED.resolved_at`

	_, err := tx.Exec(ctx, query,
		id, res.Reference, string(triage.StatusResolved), rawText, res.RedactedText,
		res.Name, res.Contact, string(res.Category), res.Risk, res.Phishing,
		string(res.Action), res.Reply, res.ReplyFromTemplate, res.ClassifierDegraded,
		createdAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert ticket: %w", err)
	}
	return nil
}

func scanTicket(row pgx.Row) (*triage.Ticket, error) {
	var (
		t          triage.Ticket
		status     string
		category   string
		action     string
		resolvedAt *time.Time
	)

	err := row.Scan(
		&t.ID, &t.Reference, &status, &t.RawText, &t.RedactedText, &t.Name, &t.Contact,
		&category, &t.Risk, &t.Phishing, &action, &t.Reply, &t.CreatedAt, &resolvedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	t.Status = triage.Status(status)
	t.Category = triage.Category(category)
	t.Action = triage.Action(action)
	if resolvedAt != nil {
		t.ResolvedAt = *resolvedAt
	}
	return &t, nil
}

// scanTicketRow scans a single row, returning (nil, nil) when no row is
// found.
func scanTicketRow(row pgx.Row) (*triage.Ticket, error) {
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}
