// Package claude adapts the Anthropic Messages API to the triage engine's
// Classifier and ReplyGenerator interfaces. Every call is a single attempt
// with a bounded timeout; the engine owns all degradation behavior, so this
// package only reports errors, it never substitutes defaults.
package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/vortex/internal/triage"
)

const (
	defaultModel   = "claude-sonnet-4-20250514"
	defaultTimeout = 20 * time.Second

	classifyMaxTokens = 256
	replyMaxTokens    = 512
)

const classifySystemPrompt = `You are a ticket triage classifier for customer support messages in Spanish or English.
Analyze the customer message and respond with ONLY a JSON object, no prose, no markdown fences:
{"emotion": one of ANGER|FRUSTRATION|URGENCY|SADNESS|NEUTRAL|HAPPINESS,
 "intensity": integer 1-10,
 "intent": one of SUPPORT|CHURN|SALES|PHISHING,
 "phishing": boolean, true only if the message itself looks like a phishing or credential-theft attempt}`

const replySystemPrompt = `You draft the suggested reply a support agent will send to a customer. Write in the customer's language.
Rules by situation:
- churn risk or an angry customer: apologize sincerely, say the case is escalated to management, never open with a generic thank-you.
- technical failure: be direct, confirm engineering is already investigating the issue.
- phishing: be authoritative, warn the customer not to click links or share credentials.
- anything else: be concise and professional.
Keep it to roughly 30 words. Respond with the reply text only.`

// Options configure a Client. Zero values fall back to package defaults.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is a thin, single-shot wrapper over the Anthropic SDK. It is safe
// for concurrent use.
type Client struct {
	api     anthropic.Client
	model   anthropic.Model
	timeout time.Duration
	logger  log.Logger
}

// New creates a Claude client. Retries are disabled at the SDK level: a slow
// or failing call must surface immediately so the pipeline can degrade.
func New(opts Options, logger log.Logger) *Client {
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Client{
		api: anthropic.NewClient(
			option.WithAPIKey(opts.APIKey),
			option.WithMaxRetries(0),
			option.WithRequestTimeout(opts.Timeout),
		),
		model:   anthropic.Model(opts.Model),
		timeout: opts.Timeout,
		logger:  logger,
	}
}

// Classify implements triage.Classifier. The model is asked for strict JSON;
// anything that does not parse into the schema is returned as an error and
// left to the engine's degradation path.
func (c *Client) Classify(ctx context.Context, text string) (triage.Classification, error) {
	out, err := c.send(ctx, classifySystemPrompt, text, classifyMaxTokens)
	if err != nil {
		return triage.Classification{}, err
	}
	return parseClassification(out)
}

// Draft implements triage.ReplyGenerator. Category and action give the model
// the situational context the tone rules key on.
func (c *Client) Draft(ctx context.Context, text string, category triage.Category, action triage.Action) (string, error) {
	user := fmt.Sprintf("Situation: category=%s action=%s\n\nCustomer message:\n%s", category, action, text)
	out, err := c.send(ctx, replySystemPrompt, user, replyMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) send(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("claude: empty response")
	}
	return sb.String(), nil
}

// parseClassification decodes the model's JSON verdict. Models occasionally
// wrap JSON in markdown fences or surrounding prose despite instructions, so
// extraction is tolerant of everything outside the outermost braces.
func parseClassification(raw string) (triage.Classification, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return triage.Classification{}, err
	}

	var cl triage.Classification
	if err := json.Unmarshal([]byte(body), &cl); err != nil {
		return triage.Classification{}, fmt.Errorf("classification not valid JSON: %w", err)
	}

	cl.Emotion = triage.Emotion(strings.ToUpper(strings.TrimSpace(string(cl.Emotion))))
	cl.Intent = triage.Intent(strings.ToUpper(strings.TrimSpace(string(cl.Intent))))
	cl.Degraded = false
	return cl, nil
}

func extractJSON(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in classifier output %q", truncate(raw, 120))
	}
	return raw[start : end+1], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
