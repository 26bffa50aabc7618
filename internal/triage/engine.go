package triage

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/vortex/internal/extract"
	"github.com/linnemanlabs/vortex/internal/redact"
)

var tracer = otel.Tracer("github.com/linnemanlabs/vortex/internal/triage")

// EngineHooks receive pipeline events, typically wired to metrics.
type EngineHooks struct {
	OnClassify func(degraded bool, duration float64)
	OnReply    func(fromTemplate bool, duration float64)
	OnComplete func(res *Result)
}

// Engine is the triage pipeline: redaction, metadata extraction, semantic
// classification with degradation, the risk rule cascade, action
// recommendation, and reply generation with a template fallback. It is
// pure with respect to storage: it only produces a Result.
type Engine struct {
	classifier Classifier
	replier    ReplyGenerator
	rules      []Rule
	logger     log.Logger
	hooks      EngineHooks
}

// NewEngine creates a triage engine. classifier and replier may be nil, in
// which case the degraded default and the template fallback are used
// unconditionally.
func NewEngine(classifier Classifier, replier ReplyGenerator, logger log.Logger, hooks EngineHooks) *Engine {
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{
		classifier: classifier,
		replier:    replier,
		rules:      CascadeRules(),
		logger:     logger,
		hooks:      hooks,
	}
}

// Run triages one ticket. It always returns a complete Result: every
// failure mode inside the pipeline has a defined degraded output, and no
// error escapes past this boundary.
func (e *Engine) Run(ctx context.Context, rawText string) *Result {
	start := time.Now()

	ctx, span := tracer.Start(ctx, "triage.run")
	defer span.End()

	redacted := redact.Apply(rawText)
	meta := extract.Extract(rawText)

	cl := e.classify(ctx, rawText)
	verdict := Evaluate(e.rules, Normalize(rawText), cl)

	action := verdict.Action
	if action == "" {
		action = Recommend(verdict.Risk, cl.Sentiment(), cl.Phishing)
	}

	reply, fromTemplate := e.reply(ctx, rawText, verdict.Category, action)

	res := &Result{
		Reference:          meta.Reference,
		Name:               meta.Name,
		Contact:            meta.Contact,
		RedactedText:       redacted,
		Category:           verdict.Category,
		Risk:               verdict.Risk,
		Emotion:            cl.Emotion,
		Phishing:           verdict.Category == CategoryPhishing || cl.Phishing,
		Action:             action,
		Reply:              reply,
		ReplyFromTemplate:  fromTemplate,
		ClassifierDegraded: cl.Degraded,
		Classification:     cl,
		CreatedAt:          start,
		Duration:           time.Since(start).Seconds(),
	}

	span.SetAttributes(
		attribute.String("vortex.ticket.reference", res.Reference),
		attribute.String("vortex.ticket.category", string(res.Category)),
		attribute.Float64("vortex.ticket.risk", res.Risk),
		attribute.Bool("vortex.ticket.phishing", res.Phishing),
	)

	if e.hooks.OnComplete != nil {
		e.hooks.OnComplete(res)
	}

	e.logger.Info(ctx, "triage complete",
		"reference", res.Reference,
		"category", res.Category,
		"risk", res.Risk,
		"action", res.Action,
		"classifier_degraded", res.ClassifierDegraded,
		"reply_from_template", res.ReplyFromTemplate,
		"duration", res.Duration,
	)

	return res
}

// classify calls the external classifier, substituting the degraded
// default on any failure. Single attempt, no retries.
func (e *Engine) classify(ctx context.Context, text string) Classification {
	if e.classifier == nil {
		return DegradedClassification()
	}

	start := time.Now()
	ctx, span := tracer.Start(ctx, "llm.classify", trace.WithAttributes(
		attribute.String("gen_ai.operation.name", "llm.classify"),
	))
	defer span.End()

	cl, err := e.classifier.Classify(ctx, text)
	dur := time.Since(start).Seconds()

	if err != nil {
		e.logger.Warn(ctx, "classifier unavailable, using degraded default", "error", err)
		cl = DegradedClassification()
	} else if err := validateClassification(cl); err != nil {
		e.logger.Warn(ctx, "classifier response out of schema, using degraded default", "error", err)
		cl = DegradedClassification()
	}

	span.SetAttributes(attribute.Bool("vortex.classify.degraded", cl.Degraded))
	if e.hooks.OnClassify != nil {
		e.hooks.OnClassify(cl.Degraded, dur)
	}
	return cl
}

// reply drafts the suggested answer, falling back to a static template on
// any generator failure. The fallback is always a complete reply.
func (e *Engine) reply(ctx context.Context, text string, category Category, action Action) (string, bool) {
	tmpl := TemplateReply(category)
	if e.replier == nil {
		return tmpl, true
	}

	start := time.Now()
	ctx, span := tracer.Start(ctx, "llm.reply", trace.WithAttributes(
		attribute.String("gen_ai.operation.name", "llm.reply"),
	))
	defer span.End()

	draft, err := e.replier.Draft(ctx, text, category, action)
	dur := time.Since(start).Seconds()

	fromTemplate := err != nil || draft == ""
	if fromTemplate {
		if err != nil {
			e.logger.Warn(ctx, "reply generator unavailable, using template", "error", err, "category", category)
		}
		draft = tmpl
	}

	span.SetAttributes(attribute.Bool("vortex.reply.from_template", fromTemplate))
	if e.hooks.OnReply != nil {
		e.hooks.OnReply(fromTemplate, dur)
	}
	return draft, fromTemplate
}
