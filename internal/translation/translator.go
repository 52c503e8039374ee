// internal/translation/translator.go
package translation

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	commonerrors "labelforge/internal/common/errors"
	"labelforge/internal/common/logger"
	"labelforge/internal/markets"
	"labelforge/internal/models"
)

// Translator performs the deterministic dictionary pass for non-English
// markets. Field groups translate independently: a group that cannot be
// translated is left out of the result rather than failing the label.
type Translator struct {
	logger logger.Logger

	mu       sync.Mutex
	patterns map[string][]termPattern
}

type termPattern struct {
	re          *regexp.Regexp
	replacement string
}

func NewTranslator(log logger.Logger) *Translator {
	return &Translator{
		logger:   log,
		patterns: make(map[string][]termPattern),
	}
}

// Translate produces the translated sections for a market. English markets
// get nil with no error. A degraded translation (self-check failure on the
// regulatory groups) returns the successfully translated groups together
// with a TRANSLATION_DEGRADED error; callers treat that error as non-fatal.
func (t *Translator) Translate(result *models.GenerationResult, market markets.Market) (*models.TranslatedSections, error) {
	if !market.RequiresTranslation() {
		return nil, nil
	}

	patterns, ok := t.compiled(market.Language)
	if !ok {
		return nil, commonerrors.NewTranslationDegradedError(
			"no dictionary for language " + market.Language)
	}

	sections := &models.TranslatedSections{}

	sections.IngredientsText = applyTerms(result.LegalLabel.IngredientsText, patterns)
	sections.AllergensText = t.translateAllergens(result.LegalLabel.AllergensText, market, patterns)
	sections.Marketing = applyTerms(result.Marketing, patterns)
	if len(result.Warnings) > 0 {
		sections.Warnings = make([]string, len(result.Warnings))
		for i, w := range result.Warnings {
			sections.Warnings[i] = applyTerms(w, patterns)
		}
	}
	if len(result.ComplianceNotes) > 0 {
		sections.ComplianceNotes = make([]string, len(result.ComplianceNotes))
		for i, n := range result.ComplianceNotes {
			sections.ComplianceNotes[i] = applyTerms(n, patterns)
		}
	}

	if err := t.selfCheck(result, sections, market); err != nil {
		return sections, err
	}
	return sections, nil
}

// translateAllergens normalizes the English declaration prefix to the
// market's mandated one before running the term pass.
func (t *Translator) translateAllergens(text string, market markets.Market, patterns []termPattern) string {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "contains:") {
		trimmed = strings.TrimSpace(trimmed[len("contains:"):])
	} else if strings.HasPrefix(lower, "contains ") {
		trimmed = strings.TrimSpace(trimmed[len("contains "):])
	}
	translated := applyTerms(trimmed, patterns)
	if translated == "" {
		return ""
	}
	return market.AllergenPrefix + " " + translated
}

// selfCheck verifies the regulatory groups actually changed and that the
// allergen declaration carries at least one of the market's marker tokens.
func (t *Translator) selfCheck(src *models.GenerationResult, out *models.TranslatedSections, market markets.Market) error {
	if strings.TrimSpace(src.LegalLabel.IngredientsText) != "" &&
		out.IngredientsText == src.LegalLabel.IngredientsText {
		out.IngredientsText = ""
		return commonerrors.NewTranslationDegradedError(
			market.Code + ": ingredients text unchanged after translation")
	}
	if strings.TrimSpace(src.LegalLabel.AllergensText) != "" {
		if out.AllergensText == src.LegalLabel.AllergensText {
			out.AllergensText = ""
			return commonerrors.NewTranslationDegradedError(
				market.Code + ": allergens text unchanged after translation")
		}
		if !containsMarker(out.AllergensText, market.MarkerTokens) {
			degraded := out.AllergensText
			out.AllergensText = ""
			t.logger.Warn("Allergen declaration missing market marker token", map[string]interface{}{
				"market":    market.Code,
				"allergens": degraded,
			})
			return commonerrors.NewTranslationDegradedError(
				market.Code + ": allergen declaration missing required marker token")
		}
	}
	return nil
}

func containsMarker(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// compiled returns the cached, longest-first substitution patterns for a
// language.
func (t *Translator) compiled(lang string) ([]termPattern, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.patterns[lang]; ok {
		return p, true
	}
	dict, ok := dictionaries[lang]
	if !ok {
		return nil, false
	}
	terms := make([]string, 0, len(dict))
	for term := range dict {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	patterns := make([]termPattern, 0, len(terms))
	for _, term := range terms {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		patterns = append(patterns, termPattern{re: re, replacement: dict[term]})
	}
	t.patterns[lang] = patterns
	return patterns, true
}

func applyTerms(text string, patterns []termPattern) string {
	out := text
	for _, p := range patterns {
		out = p.re.ReplaceAllString(out, p.replacement)
	}
	return out
}
