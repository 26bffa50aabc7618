package triage

import "context"

// Store is the persistence interface for ticket records. The triage core
// never touches it; only the Service does, on behalf of its callers.
// Implementations must serialize writes per ticket row; pending listings
// may race concurrent inserts.
type Store interface {
	// CreatePending inserts a new pending ticket.
	CreatePending(ctx context.Context, t *Ticket) error

	// Get retrieves a ticket by ID.
	Get(ctx context.Context, id string) (*Ticket, bool, error)

	// Resolve upserts a triage result: it updates the row when id exists
	// and inserts a fresh resolved row (carrying rawText) otherwise.
	Resolve(ctx context.Context, id, rawText string, res *Result) error

	// ListByStatus returns tickets in the given status, newest first.
	ListByStatus(ctx context.Context, status Status) ([]*Ticket, error)

	// Counts returns the dashboard aggregates.
	Counts(ctx context.Context) (*Counts, error)
}
