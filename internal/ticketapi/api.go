// Package ticketapi exposes the HTTP surface of the triage service: client
// ticket intake, triage analysis, and the agent-facing queue and dashboard
// endpoints.
package ticketapi

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
	"github.com/linnemanlabs/vortex/internal/triage"
)

// TriageService defines the business operations ticketapi needs.
type TriageService interface {
	CreatePending(ctx context.Context, name, contact, message string) (id, reference string, err error)
	Analyze(ctx context.Context, rawText, priorID string) (*triage.Result, error)
	Get(ctx context.Context, id string) (*triage.Ticket, bool, error)
	Pending(ctx context.Context) ([]*triage.Ticket, error)
	Resolved(ctx context.Context) ([]*triage.Ticket, error)
	Stats(ctx context.Context) (*triage.Counts, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger    log.Logger
	svc       TriageService
	agentAuth func(http.Handler) http.Handler
}

// New creates a new API handler. agentAuth guards the agent-facing
// endpoints; nil leaves them open (dev mode only).
func New(logger log.Logger, svc TriageService, agentAuth func(http.Handler) http.Handler) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("triage service is required"))
	}
	return &API{
		logger:    logger,
		svc:       svc,
		agentAuth: agentAuth,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tickets", a.handleCreateTicket)
		r.Post("/tickets/analyze", a.handleAnalyze)
		r.Get("/tickets/{id}", a.handleGetTicket)

		r.Group(func(r chi.Router) {
			if a.agentAuth != nil {
				r.Use(a.agentAuth)
			}
			r.Get("/tickets/pending", a.handleListPending)
			r.Get("/tickets/resolved", a.handleListResolved)
			r.Get("/tickets/stats", a.handleStats)
		})
	})
}

func (a *API) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("vortex.ticket.id", id))

	t, ok, err := a.svc.Get(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get ticket", "id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	span.SetAttributes(attribute.String("vortex.ticket.status", string(t.Status)))

	writeJSON(w, http.StatusOK, t)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
