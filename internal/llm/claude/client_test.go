package claude

import (
	"strings"
	"testing"

	"github.com/linnemanlabs/vortex/internal/triage"
)

func TestParseClassification_Valid(t *testing.T) {
	t.Parallel()

	cl, err := parseClassification(`{"emotion":"ANGER","intensity":8,"intent":"CHURN","phishing":false}`)
	if err != nil {
		t.Fatalf("parseClassification: %v", err)
	}
	if cl.Emotion != triage.EmotionAnger {
		t.Errorf("emotion = %q, want ANGER", cl.Emotion)
	}
	if cl.Intensity != 8 {
		t.Errorf("intensity = %d, want 8", cl.Intensity)
	}
	if cl.Intent != triage.IntentChurn {
		t.Errorf("intent = %q, want CHURN", cl.Intent)
	}
	if cl.Phishing {
		t.Error("phishing = true, want false")
	}
	if cl.Degraded {
		t.Error("degraded = true, want false")
	}
}

func TestParseClassification_MarkdownFences(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"emotion\":\"NEUTRAL\",\"intensity\":3,\"intent\":\"SUPPORT\",\"phishing\":false}\n```"
	cl, err := parseClassification(raw)
	if err != nil {
		t.Fatalf("parseClassification: %v", err)
	}
	if cl.Emotion != triage.EmotionNeutral || cl.Intensity != 3 {
		t.Errorf("got %+v", cl)
	}
}

func TestParseClassification_SurroundingProse(t *testing.T) {
	t.Parallel()

	raw := `Here is the analysis: {"emotion":"URGENCY","intensity":7,"intent":"SUPPORT","phishing":false} as requested.`
	cl, err := parseClassification(raw)
	if err != nil {
		t.Fatalf("parseClassification: %v", err)
	}
	if cl.Emotion != triage.EmotionUrgency {
		t.Errorf("emotion = %q, want URGENCY", cl.Emotion)
	}
}

func TestParseClassification_NormalizesCase(t *testing.T) {
	t.Parallel()

	cl, err := parseClassification(`{"emotion":" anger ","intensity":5,"intent":"sales","phishing":true}`)
	if err != nil {
		t.Fatalf("parseClassification: %v", err)
	}
	if cl.Emotion != triage.EmotionAnger {
		t.Errorf("emotion = %q, want ANGER", cl.Emotion)
	}
	if cl.Intent != triage.IntentSales {
		t.Errorf("intent = %q, want SALES", cl.Intent)
	}
	if !cl.Phishing {
		t.Error("phishing = false, want true")
	}
}

func TestParseClassification_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose only", "I cannot classify this message."},
		{"truncated json", `{"emotion":"ANGER","intensity":`},
		{"wrong types", `{"emotion":"ANGER","intensity":"high","intent":"CHURN"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := parseClassification(tt.raw); err == nil {
				t.Errorf("parseClassification(%q) succeeded, want error", tt.raw)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	got, err := extractJSON("noise {\"a\":1} trailing")
	if err != nil {
		t.Fatalf("extractJSON: %v", err)
	}
	if got != `{"a":1}` {
		t.Errorf("extractJSON = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 120); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	long := strings.Repeat("x", 200)
	if got := truncate(long, 120); len(got) != 123 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate length = %d", len(got))
	}
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	c := New(Options{APIKey: "test-key"}, nil)
	if c.model != defaultModel {
		t.Errorf("model = %q, want default", c.model)
	}
	if c.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want default", c.timeout)
	}
}
