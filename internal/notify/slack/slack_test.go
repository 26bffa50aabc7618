package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/linnemanlabs/vortex/internal/triage"
)

func TestNotify_PostsToWebhook(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content-type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL)
	ticket := &triage.Ticket{
		ID:         "01JN123",
		Reference:  "REF-445566",
		Status:     triage.StatusResolved,
		Name:       "Carlos",
		Category:   triage.CategoryChurnImminent,
		Risk:       95,
		Action:     triage.ActionCriticalRetention,
		Reply:      "Lamentamos mucho su experiencia.",
		ResolvedAt: time.Date(2026, 2, 26, 14, 23, 0, 0, time.UTC),
	}

	if err := n.Notify(context.Background(), ticket); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	blocks, ok := got["blocks"].([]any)
	if !ok {
		t.Fatal("expected blocks array in payload")
	}

	// header, divider, fields, divider, reply, divider, context = 7 blocks
	if len(blocks) != 7 {
		t.Errorf("blocks count = %d, want 7", len(blocks))
	}

	header := blocks[0].(map[string]any)
	headerText := header["text"].(map[string]any)["text"].(string)
	if !strings.Contains(headerText, "REF-445566") {
		t.Errorf("header text = %q, want to contain the ticket reference", headerText)
	}
	if !strings.Contains(headerText, "\U0001f534") {
		t.Errorf("header should contain red circle for risk 95")
	}
}

func TestNotify_PhishingHeader(t *testing.T) {
	t.Parallel()

	msg := buildMessage(&triage.Ticket{
		Reference: "REF-1",
		Category:  triage.CategoryPhishing,
		Risk:      100,
		Phishing:  true,
	})

	header := msg["blocks"].([]map[string]any)[0]
	text := header["text"].(map[string]any)["text"].(string)
	if !strings.Contains(text, "Phishing Detected") {
		t.Errorf("header = %q, want phishing title", text)
	}
}

func TestNotify_NoOpWithoutURL(t *testing.T) {
	t.Parallel()

	n := New("")
	if err := n.Notify(context.Background(), &triage.Ticket{}); err != nil {
		t.Fatalf("Notify with empty URL should be no-op, got: %v", err)
	}
}

func TestNotify_TruncatesLongReply(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	longReply := strings.Repeat("x", 4000)
	n := New(srv.URL)
	err := n.Notify(context.Background(), &triage.Ticket{
		ID:     "01JN456",
		Status: triage.StatusResolved,
		Reply:  longReply,
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	blocks := got["blocks"].([]any)
	replySection := blocks[4].(map[string]any)
	text := replySection["text"].(map[string]any)["text"].(string)

	// Text includes the "*Suggested reply*\n\n" prefix; the reply portion
	// should be truncated to maxReplyLen chars.
	if len(text) > maxReplyLen+len("*Suggested reply*\n\n") {
		t.Errorf("reply text length = %d, expected <= %d", len(text), maxReplyLen+len("*Suggested reply*\n\n"))
	}
	if !strings.HasSuffix(text, "...") {
		t.Error("expected truncated reply to end with ...")
	}
}

func TestRiskEmoji(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ticket triage.Ticket
		want   string
	}{
		{"phishing", triage.Ticket{Phishing: true, Risk: 10}, "\U0001f534"},
		{"retention level", triage.Ticket{Risk: 90}, "\U0001f534"},
		{"critical level", triage.Ticket{Risk: 70}, "\U0001f7e1"},
		{"low", triage.Ticket{Risk: 20}, "\U0001f7e2"},
		{"zero", triage.Ticket{}, "\U0001f7e2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := riskEmoji(&tt.ticket)
			if got != tt.want {
				t.Errorf("riskEmoji(%+v) = %q, want %q", tt.ticket, got, tt.want)
			}
		})
	}
}

func FuzzSlackBuild(f *testing.F) {
	f.Add("REF-123", "Carlos", "CHURN_IMMINENT", "Lamentamos su experiencia.", 95.0)
	f.Add("", "", "", "", 0.0)
	f.Add("<@U123> mention", "*bold*", "~strike~", "```code``` <http://x|link>", 50.0)
	f.Add("ref\x00\x01", "name\nline", "cat\ttab", "r\x00eply", -10.0)
	f.Add(strings.Repeat("A", 5000), "n", "c", strings.Repeat("x", 10000), 1e9)

	f.Fuzz(func(t *testing.T, ref, name, category, reply string, risk float64) {
		ticket := &triage.Ticket{
			ID:         "fuzz-id",
			Reference:  ref,
			Status:     triage.StatusResolved,
			Name:       name,
			Category:   triage.Category(category),
			Risk:       risk,
			Reply:      reply,
			ResolvedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		// Must not panic
		msg := buildMessage(ticket)

		// Must produce valid JSON
		data, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("buildMessage produced non-marshalable output: %v", err)
		}

		// Must round-trip
		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("buildMessage JSON does not round-trip: %v", err)
		}

		blocks, ok := decoded["blocks"].([]any)
		if !ok {
			t.Fatal("expected blocks array")
		}
		if len(blocks) != 7 {
			t.Fatalf("blocks count = %d, want 7", len(blocks))
		}
	})
}

func TestNotify_NonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	n := New(srv.URL)
	err := n.Notify(context.Background(), &triage.Ticket{
		ID:     "01JN789",
		Status: triage.StatusResolved,
	})
	if err == nil {
		t.Fatal("expected error on non-OK status")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error = %q, want to contain status code 500", err.Error())
	}
}
