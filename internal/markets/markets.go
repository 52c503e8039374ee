// internal/markets/markets.go
package markets

// SourceLanguage is the language every generation call produces. Markets
// whose language differs get the deterministic translation pass.
const SourceLanguage = "en"

// MandatoryNutrients is the market-independent nutrient set every standard
// label's nutrition table must contain.
var MandatoryNutrients = []string{
	"energy",
	"fat",
	"saturatedFat",
	"carbohydrates",
	"sugars",
	"protein",
	"salt",
}

// Market is the per-jurisdiction handler record: resolved once per request,
// read-only afterwards.
type Market struct {
	Code            string   `json:"code"`
	Language        string   `json:"language"`
	LanguageName    string   `json:"languageName"`
	AllergenPrefix  string   `json:"allergenPrefix"`
	MarkerTokens    []string `json:"markerTokens"`
	RegulationNotes []string `json:"regulationNotes"`
}

// RequiresTranslation reports whether labels for this market need the
// translation pass.
func (m Market) RequiresTranslation() bool {
	return m.Language != SourceLanguage
}

var registry = map[string]Market{
	"US": {
		Code:           "US",
		Language:       "en",
		LanguageName:   "English",
		AllergenPrefix: "Contains:",
		RegulationNotes: []string{
			"FDA 21 CFR 101 nutrition labeling",
			"FALCPA major allergen declaration",
		},
	},
	"EU": {
		Code:           "EU",
		Language:       "en",
		LanguageName:   "English",
		AllergenPrefix: "Contains:",
		RegulationNotes: []string{
			"Regulation (EU) 1169/2011 food information to consumers",
			"Annex II allergen emphasis in ingredient list",
		},
	},
	"UK": {
		Code:           "UK",
		Language:       "en",
		LanguageName:   "English",
		AllergenPrefix: "Contains:",
		RegulationNotes: []string{
			"Retained Regulation (EU) 1169/2011",
			"Natasha's Law for prepacked for direct sale",
		},
	},
	"BR": {
		Code:           "BR",
		Language:       "pt",
		LanguageName:   "Portuguese",
		AllergenPrefix: "Contém:",
		MarkerTokens:   []string{"Contém", "Alergênicos", "Ingredientes"},
		RegulationNotes: []string{
			"ANVISA RDC 727/2022 labeling",
			"RDC 26/2015 mandatory allergen statement",
		},
	},
	"CN": {
		Code:           "CN",
		Language:       "zh",
		LanguageName:   "Chinese",
		AllergenPrefix: "含有:",
		MarkerTokens:   []string{"含有", "过敏原", "配料"},
		RegulationNotes: []string{
			"GB 7718 prepackaged food labeling",
			"GB 28050 nutrition labeling",
		},
	},
	"JP": {
		Code:           "JP",
		Language:       "ja",
		LanguageName:   "Japanese",
		AllergenPrefix: "含む:",
		MarkerTokens:   []string{"含む", "アレルギー", "原材料"},
		RegulationNotes: []string{
			"Food Labeling Act standards",
			"Mandatory declaration of specified allergens",
		},
	},
}

// Resolve returns the handler record for a market code. Unknown codes are
// rejected, never defaulted.
func Resolve(code string) (Market, bool) {
	m, ok := registry[code]
	return m, ok
}

// IsSupported reports whether the code belongs to the closed market set.
func IsSupported(code string) bool {
	_, ok := registry[code]
	return ok
}

// Supported returns every supported market code.
func Supported() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
