// Package redact scrubs personally identifying content from free-form
// ticket text before it is shown to agents or stored for non-privileged
// consumers. Detection is pattern based, not exhaustive.
package redact

import "regexp"

// Sentinel tokens substituted for detected spans. None of them contain
// digits or '@', so no rule can re-match a sentinel and re-running the
// redactor over its own output is a no-op.
const (
	TokenSecret = "[REDACTED-SECRET]"
	TokenCard   = "[REDACTED-CARD]"
	TokenPhone  = "[REDACTED-PHONE]"
	TokenNumber = "[REDACTED-NUMBER]"
	TokenEmail  = "[REDACTED-EMAIL]"
)

// rule is a single pattern -> sentinel substitution.
type rule struct {
	name string
	re   *regexp.Regexp
	repl string
}

// rules are applied in order. Order matters because the patterns overlap:
// card-like digit groups must win over long digit runs, long runs over
// short numeric sequences, and all digit rules run before the email rule
// so a numeric local part is still recognizable as an address.
var rules = []rule{
	// Token following a word meaning password/PIN/key. The keyword itself
	// is kept so the data class stays visible to the agent.
	{
		name: "secret",
		re:   regexp.MustCompile(`(?i)\b(password|passwd|contrasena|contraseña|clave|pin|api[ -]?key|token)\b[ \t]*(?:is|es|=|:)?[ \t]*\S*[A-Za-z0-9]\S*`),
		repl: "$1 " + TokenSecret,
	},
	// Payment-card-like groups: 13-16 digits, optionally separated.
	{
		name: "card",
		re:   regexp.MustCompile(`\b(?:\d[ -]?){12,15}\d\b`),
		repl: TokenCard,
	},
	// Long digit runs read as phone numbers.
	{
		name: "phone",
		re:   regexp.MustCompile(`\b\d{7,10}\b`),
		repl: TokenPhone,
	},
	// Short numeric sequences (PINs, partial accounts).
	{
		name: "number",
		re:   regexp.MustCompile(`\b\d{4,6}\b`),
		repl: TokenNumber,
	},
	// Email-like tokens, matched last.
	{
		name: "email",
		re:   regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+`),
		repl: TokenEmail,
	},
}

// Apply returns a sanitized copy of text with every detected PII span
// replaced by its class sentinel. Pure function of its input; applying
// it to already-redacted text yields the same output.
func Apply(text string) string {
	for _, r := range rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}
