package triage

import (
	"context"
	"strings"
)

// ReplyGenerator drafts a customer-facing reply constrained by category and
// action. Implementations may fail; the pipeline substitutes a template.
type ReplyGenerator interface {
	Draft(ctx context.Context, text string, category Category, action Action) (string, error)
}

// Static templates keyed by category, used whenever the generative path is
// unavailable. Each is a complete professional reply, never an error
// message.
var replyTemplates = map[Category]string{
	CategoryPhishing:         "Security alert: we detected a dangerous link in this message. Do not click it or share any credentials, and change your password now.",
	CategoryChurnImminent:    "We are truly sorry about your experience. Your case has been escalated to management as a critical priority and a manager will contact you shortly.",
	CategoryTechnicalFailure: "We understand the technical issue you are facing. Our engineering team is already reviewing the logs for your account.",
	CategorySalesOpportunity: "Great to hear from you. An account executive will send you a tailored proposal shortly.",
}

const defaultReplyTemplate = "We have received your request. A specialist agent is reviewing the details and will get back to you."

// TemplateReply selects the static fallback reply for a category. Suffixed
// technical categories match on the TECHNICAL_FAILURE prefix.
func TemplateReply(category Category) string {
	if t, ok := replyTemplates[category]; ok {
		return t
	}
	if strings.HasPrefix(string(category), string(CategoryTechnicalFailure)) {
		return replyTemplates[CategoryTechnicalFailure]
	}
	return defaultReplyTemplate
}
