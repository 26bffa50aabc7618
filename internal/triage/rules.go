package triage

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Baseline risk per classifier emotion. Unknown emotions fall back to
// unknownEmotionBase.
var emotionBase = map[Emotion]float64{
	EmotionAnger:       90,
	EmotionFrustration: 70,
	EmotionUrgency:     60,
	EmotionSadness:     40,
	EmotionNeutral:     10,
	EmotionHappiness:   0,
}

const (
	unknownEmotionBase = 20
	degradedBase       = 50 // fixed contribution when the classifier degraded

	phishingRisk  = 100
	churnFloor    = 90
	techFloor     = 60
	salesRisk     = 10
	salesGate     = 0.8
	lowRiskCeil   = 40
	retentionRisk = 85
)

// Verdict is the rule engine's output for one ticket.
type Verdict struct {
	Category Category
	Risk     float64

	// Action is set when the matching rule fixes the handling directly.
	// Zero means no rule matched and the threshold ladder decides.
	Action Action
}

// Rule is one deterministic override: a named keyword set and the outcome
// it forces. Rules are evaluated in slice order, first match wins and
// short-circuits the rest. Keywords are substring-matched against the
// normalized (upper-cased, diacritic-stripped) text.
type Rule struct {
	Name     string
	Keywords []string
	Outcome  func(base float64, cl Classification) Verdict
}

// CascadeRules is the fixed-priority override cascade. A matching rule
// overrides the classifier's category and bounds its risk; phishing and
// churn rank above everything else.
func CascadeRules() []Rule {
	return []Rule{
		{
			Name: "phishing",
			Keywords: []string{
				"HTTP", "WWW.", "BIT.LY", "TINYURL",
				"PASSWORD", "CONTRASENA", "CREDENTIALS", "CREDENCIALES",
			},
			Outcome: func(_ float64, _ Classification) Verdict {
				return Verdict{Category: CategoryPhishing, Risk: phishingRisk, Action: ActionSecurityBlock}
			},
		},
		{
			Name: "churn",
			Keywords: []string{
				"CANCELAR", "CANCEL", "BAJA", "RENUNCIA", "ME VOY", "LEAVING",
				"ESTAFA", "SCAM", "FRAUD", "FRAUDE", "ROBO",
				"DEMANDA", "LAWSUIT", "LAWYER", "ABOGADO", "UNSUBSCRIBE",
			},
			Outcome: func(base float64, _ Classification) Verdict {
				return Verdict{Category: CategoryChurnImminent, Risk: max(base, churnFloor), Action: ActionCriticalRetention}
			},
		},
		{
			Name: "technical",
			Keywords: []string{
				"NO FUNCIONA", "NOT WORKING", "DOES NOT WORK", "DOESN'T WORK",
				"FALLA", "ERROR", "LENTO", "SLOW", "BUG", "PROBLEMA", "PROBLEM",
				"BROKEN", "CRASH", "CAIDO", "IS DOWN",
			},
			Outcome: func(base float64, cl Classification) Verdict {
				cat := CategoryTechnicalFailure
				// Surface a hot emotion to the operator.
				if cl.Emotion == EmotionFrustration || cl.Emotion == EmotionUrgency {
					cat = Category(string(cat) + " (" + string(cl.Emotion) + ")")
				}
				return Verdict{Category: cat, Risk: max(base, techFloor), Action: ActionPrioritySupport}
			},
		},
		{
			Name: "sales",
			Keywords: []string{
				"COMPRAR", "BUY", "PURCHASE", "CONTRATAR", "COTIZAR", "QUOTE",
				"PRECIO", "PRICE", "COSTO", "UPGRADE", "INTERESADO", "INTERESTED",
				"ADQUIRIR", "LICENCIA", "LICENSE",
			},
			Outcome: func(_ float64, _ Classification) Verdict {
				return Verdict{Category: CategorySalesOpportunity, Risk: salesRisk, Action: ActionSalesNotify}
			},
		},
	}
}

// BaseRisk computes the classifier-derived baseline: emotion base plus
// twice the intensity, clamped to [0,100]. A degraded classification
// contributes a fixed 50 instead.
func BaseRisk(cl Classification) float64 {
	if cl.Degraded {
		return degradedBase
	}
	base, ok := emotionBase[cl.Emotion]
	if !ok {
		base = unknownEmotionBase
	}
	return clamp(base+float64(cl.Intensity)*2, 0, 100)
}

// Evaluate runs the cascade over the normalized text. When no rule matches,
// the classifier stands alone: category is its intent and risk its
// baseline, with the action left to the threshold ladder.
func Evaluate(rules []Rule, normText string, cl Classification) Verdict {
	base := BaseRisk(cl)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(normText, kw) {
				return r.Outcome(base, cl)
			}
		}
	}
	return Verdict{Category: Category(cl.Intent), Risk: base}
}

// Recommend is the threshold ladder used when no cascade rule fixed the
// action. Evaluated top-down.
func Recommend(risk float64, sentiment float64, phishing bool) Action {
	switch {
	case phishing:
		return ActionSecurityBlock
	case risk >= retentionRisk:
		return ActionCriticalRetention
	case risk >= CriticalRisk:
		return ActionPrioritySupport
	case risk >= lowRiskCeil:
		return ActionFollowUp
	case sentiment > salesGate:
		return ActionSalesFlag
	default:
		return ActionStandardSupport
	}
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize upper-cases text and strips combining marks so keyword rules
// match accented and unaccented spellings alike.
func Normalize(text string) string {
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		out = text
	}
	return strings.ToUpper(out)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
