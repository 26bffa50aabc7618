package triage

import "time"

// Status tracks where a ticket is in its lifecycle.
type Status string

const (
	// StatusPending means created by the intake form, not yet analyzed
	StatusPending Status = "pending"

	// StatusResolved means the triage pipeline has produced a result
	StatusResolved Status = "resolved"
)

// Emotion is the sentiment label reported by the semantic classifier.
type Emotion string

const (
	EmotionAnger       Emotion = "ANGER"
	EmotionFrustration Emotion = "FRUSTRATION"
	EmotionUrgency     Emotion = "URGENCY"
	EmotionSadness     Emotion = "SADNESS"
	EmotionNeutral     Emotion = "NEUTRAL"
	EmotionHappiness   Emotion = "HAPPINESS"
)

// Intent is the purpose label reported by the semantic classifier.
type Intent string

const (
	IntentSupport  Intent = "SUPPORT"
	IntentChurn    Intent = "CHURN"
	IntentSales    Intent = "SALES"
	IntentPhishing Intent = "PHISHING"
)

// Category is the final ticket classification after the rule cascade. It is
// either one of the fixed rule categories below (the technical-failure one
// optionally suffixed with the classifier emotion) or the classifier intent
// when no rule matched.
type Category string

const (
	CategoryPhishing         Category = "PHISHING"
	CategoryChurnImminent    Category = "CHURN_IMMINENT"
	CategoryTechnicalFailure Category = "TECHNICAL_FAILURE"
	CategorySalesOpportunity Category = "SALES_OPPORTUNITY"
)

// Action is the recommended handling for a triaged ticket.
type Action string

const (
	ActionSecurityBlock     Action = "SECURITY_BLOCK"
	ActionCriticalRetention Action = "CRITICAL_RETENTION"
	ActionPrioritySupport   Action = "PRIORITY_SUPPORT"
	ActionFollowUp          Action = "FOLLOW_UP"
	ActionSalesNotify       Action = "SALES_NOTIFY"
	ActionSalesFlag         Action = "SALES_OPPORTUNITY_FLAG"
	ActionStandardSupport   Action = "STANDARD_SUPPORT"
)

// Classification is the semantic classifier's estimate for a ticket. It is
// best-effort, never authoritative alone: the rule cascade bounds it.
// Degraded marks the safe default substituted when the classifier call
// failed or returned a malformed response; callers must treat a degraded
// classification as carrying no real signal.
type Classification struct {
	Emotion   Emotion `json:"emotion"`
	Intensity int     `json:"intensity"` // 1..10
	Intent    Intent  `json:"intent"`
	Phishing  bool    `json:"phishing"`
	Degraded  bool    `json:"degraded,omitempty"`
}

// Sentiment maps the 1..10 intensity onto [0,1].
func (c Classification) Sentiment() float64 {
	return float64(c.Intensity) / 10
}

// DegradedClassification is the defined fallback when the semantic
// classifier is unreachable or its response violates the schema.
func DegradedClassification() Classification {
	return Classification{
		Emotion:   EmotionNeutral,
		Intensity: 5,
		Intent:    IntentSupport,
		Phishing:  false,
		Degraded:  true,
	}
}

// Result is the complete outcome of one triage run. It is constructed
// inside a single pipeline invocation and never mutated afterwards; the
// caller owns persistence.
type Result struct {
	Reference          string         `json:"reference"`
	Name               string         `json:"name"`
	Contact            string         `json:"contact"`
	RedactedText       string         `json:"redacted_text"`
	Category           Category       `json:"category"`
	Risk               float64        `json:"risk"` // 0..100
	Emotion            Emotion        `json:"emotion"`
	Phishing           bool           `json:"phishing"`
	Action             Action         `json:"action"`
	Reply              string         `json:"reply"`
	ReplyFromTemplate  bool           `json:"reply_from_template,omitempty"`
	ClassifierDegraded bool           `json:"classifier_degraded,omitempty"`
	Classification     Classification `json:"classification"`
	CreatedAt          time.Time      `json:"created_at"`
	Duration           float64        `json:"duration_seconds,omitempty"`
}

// Ticket is a stored ticket record. Pending rows carry only intake fields;
// resolved rows carry the full triage result.
type Ticket struct {
	ID           string    `json:"id"`
	Reference    string    `json:"reference"`
	Status       Status    `json:"status"`
	RawText      string    `json:"-"` // never serialized to API consumers
	RedactedText string    `json:"redacted_text,omitempty"`
	Name         string    `json:"name,omitempty"`
	Contact      string    `json:"contact,omitempty"`
	Category     Category  `json:"category,omitempty"`
	Risk         float64   `json:"risk,omitempty"`
	Phishing     bool      `json:"phishing,omitempty"`
	Action       Action    `json:"action,omitempty"`
	Reply        string    `json:"reply,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ResolvedAt   time.Time `json:"resolved_at,omitempty"`
}

// Counts are the operator dashboard aggregates.
type Counts struct {
	Pending  int `json:"pending"`
	Resolved int `json:"resolved"`
	Critical int `json:"critical"` // resolved with risk >= CriticalRisk
	Sales    int `json:"sales"`    // resolved sales-opportunity tickets
}

// CriticalRisk is the risk floor above which a resolved ticket counts as
// critical in the dashboard aggregates.
const CriticalRisk = 60.0
