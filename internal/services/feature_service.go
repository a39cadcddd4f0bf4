package services

import (
	"strings"

	"kayipbul/internal/config"
	"kayipbul/internal/models/db_models"
)

type FeatureServiceInterface interface {
	ExtractCategory(report *db_models.Report) string
	ExtractColor(report *db_models.Report) string
	ExtractBrand(report *db_models.Report) string
	TextSimilarity(a, b string) float64
}

func NewFeatureService(cfg *config.MatchConfig) FeatureServiceInterface {
	return &FeatureService{cfg: cfg}
}

// FeatureService derives a coarse category tag, a color and a brand from a
// report's free text, and scores word-set overlap between two texts.
type FeatureService struct {
	cfg *config.MatchConfig
}

// ExtractCategory resolves the report's category tag, or "" when nothing
// matches. Missing-person reports are always "cocuk"; an explicit
// "kategori: hayvan" annotation short-circuits to "hayvan"; otherwise the
// ordered taxonomy decides, first matching rule wins.
func (f *FeatureService) ExtractCategory(report *db_models.Report) string {
	if report.IsMissingChild {
		return config.CategoryChild
	}

	text := strings.ToLower(report.Title + " " + report.Description)

	if strings.Contains(text, "kategori: hayvan") || strings.Contains(text, "[kategori: hayvan") {
		return config.CategoryAnimal
	}

	for _, rule := range f.cfg.Categories {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				return rule.Tag
			}
		}
	}

	return ""
}

func (f *FeatureService) ExtractColor(report *db_models.Report) string {
	desc := strings.ToLower(report.Description)
	for _, color := range f.cfg.Colors {
		if strings.Contains(desc, color) {
			return color
		}
	}
	return ""
}

func (f *FeatureService) ExtractBrand(report *db_models.Report) string {
	desc := strings.ToLower(report.Description)
	for _, brand := range f.cfg.Brands {
		if strings.Contains(desc, brand) {
			return brand
		}
	}
	return ""
}

// TextSimilarity is the Jaccard coefficient over lowercase whitespace
// tokens. An empty side scores 0.
func (f *FeatureService) TextSimilarity(a, b string) float64 {
	wordsA := tokenSet(a)
	wordsB := tokenSet(b)

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}
