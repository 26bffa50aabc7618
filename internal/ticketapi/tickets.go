package ticketapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxMessageBytes bounds ticket message size; LLM prompts inherit it.
const maxMessageBytes = 16 << 10

type createTicketRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type createTicketResponse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

func (a *API) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var req createTicketRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
		return
	}

	id, ref, err := a.svc.CreatePending(r.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Message)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to create ticket")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("vortex.ticket.id", id))

	writeJSON(w, http.StatusCreated, createTicketResponse{
		ID:        id,
		Reference: ref,
		Status:    "pending",
	})
}

type analyzeRequest struct {
	Text     string `json:"text"`
	TicketID string `json:"ticket_id,omitempty"`
}

func (a *API) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
		return
	}

	res, err := a.svc.Analyze(r.Context(), req.Text, req.TicketID)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to analyze ticket", "ticket_id", req.TicketID)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("vortex.ticket.category", string(res.Category)),
		attribute.Float64("vortex.ticket.risk", res.Risk),
	)

	writeJSON(w, http.StatusOK, res)
}

func (a *API) handleListPending(w http.ResponseWriter, r *http.Request) {
	list, err := a.svc.Pending(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list pending tickets")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tickets": list,
		"count":   len(list),
	})
}

func (a *API) handleListResolved(w http.ResponseWriter, r *http.Request) {
	list, err := a.svc.Resolved(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list resolved tickets")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tickets": list,
		"count":   len(list),
	})
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := a.svc.Stats(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to compute stats")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}
