package services

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"kayipbul/internal/config"
	"kayipbul/internal/models/db_models"
	"kayipbul/internal/observability"
	"kayipbul/internal/repositories"
	"kayipbul/pkg/utils"
)

// MatchCandidate is one surfaced correspondence, with the image/feature
// component breakdown carried for observability.
type MatchCandidate struct {
	Report            *db_models.Report
	Similarity        float64
	ImageSimilarity   float64
	FeatureSimilarity float64
}

type MatchingServiceInterface interface {
	FeatureSimilarity(r1, r2 *db_models.Report) float64
	ImageSimilarity(ctx context.Context, cache EmbeddingCache, r1, r2 *db_models.Report) float64
	ChildSimilarity(ctx context.Context, cache EmbeddingCache, r1, r2 *db_models.Report) float64
	TotalSimilarity(ctx context.Context, cache EmbeddingCache, r1, r2 *db_models.Report) float64
	FindMatches(ctx context.Context, report *db_models.Report) ([]MatchCandidate, error)
	SaveMatches(ctx context.Context, report *db_models.Report) (int, error)
}

func NewMatchingService(
	cfg *config.MatchConfig,
	features FeatureServiceInterface,
	embeddings EmbeddingServiceInterface,
	embeddingRepo repositories.EmbeddingRepositoryInterface,
	reportRepo repositories.ReportRepositoryInterface,
	matchRepo repositories.MatchRepositoryInterface,
) MatchingServiceInterface {
	return &MatchingService{
		cfg:           cfg,
		features:      features,
		embeddings:    embeddings,
		embeddingRepo: embeddingRepo,
		reportRepo:    reportRepo,
		matchRepo:     matchRepo,
	}
}

type MatchingService struct {
	cfg           *config.MatchConfig
	features      FeatureServiceInterface
	embeddings    EmbeddingServiceInterface
	embeddingRepo repositories.EmbeddingRepositoryInterface
	reportRepo    repositories.ReportRepositoryInterface
	matchRepo     repositories.MatchRepositoryInterface
}

// FeatureSimilarity is the rule-based half of the total score: title and
// description word overlap, plus category/color/brand agreement extracted
// from the free text.
func (m *MatchingService) FeatureSimilarity(r1, r2 *db_models.Report) float64 {
	w := m.cfg.Weights

	score := 0.0
	totalWeight := 0.0

	score += m.features.TextSimilarity(r1.Title, r2.Title) * w.Title
	totalWeight += w.Title

	score += m.features.TextSimilarity(r1.Description, r2.Description) * w.Description
	totalWeight += w.Description

	cat1 := m.features.ExtractCategory(r1)
	cat2 := m.features.ExtractCategory(r2)
	var catSim float64
	switch {
	case cat1 != "" && cat2 != "":
		if cat1 == cat2 {
			catSim = 1.0
		}
	case cat1 != "" || cat2 != "":
		catSim = w.CategoryOneSided
	default:
		catSim = w.CategoryNeither
	}
	score += catSim * w.Category
	totalWeight += w.Category

	color1 := m.features.ExtractColor(r1)
	color2 := m.features.ExtractColor(r2)
	colorSim := w.AttributeUnknown
	if color1 != "" && color2 != "" {
		colorSim = 0.0
		if color1 == color2 {
			colorSim = 1.0
		}
	}
	score += colorSim * w.Color
	totalWeight += w.Color

	brand1 := m.features.ExtractBrand(r1)
	brand2 := m.features.ExtractBrand(r2)
	brandSim := w.AttributeUnknown
	if brand1 != "" && brand2 != "" {
		brandSim = 0.0
		if brand1 == brand2 {
			brandSim = 1.0
		}
	}
	score += brandSim * w.Brand
	totalWeight += w.Brand

	if totalWeight > 0 {
		return score / totalWeight
	}
	return 0.0
}

// ImageSimilarity resolves r1's index entry (creating it on demand), runs a
// nearest-neighbor search and scans the results for r2's entry. Any failure
// along the way degrades to 0.0, matching never propagates index errors.
func (m *MatchingService) ImageSimilarity(ctx context.Context, cache EmbeddingCache, r1, r2 *db_models.Report) float64 {
	if !r1.HasImage() || !r2.HasImage() {
		return 0.0
	}

	emb1, err := m.embeddings.GetOrCreate(ctx, cache, r1)
	if err != nil {
		log.Printf("Image similarity unavailable for report %s: %v", r1.ID, err)
		return 0.0
	}

	emb2, err := m.embeddings.Lookup(ctx, r2)
	if err != nil {
		log.Printf("Error looking up embedding for report %s: %v", r2.ID, err)
		return 0.0
	}
	if emb2 == nil {
		return 0.0
	}

	start := time.Now()
	neighbors, err := m.embeddingRepo.SearchSimilar(ctx, emb1.Embedding, m.cfg.Search.TopK)
	observability.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.IndexUnreachable.Inc()
		log.Printf("Vector search failed for reports %s <-> %s: %v", r1.ID, r2.ID, err)
		return 0.0
	}

	for _, n := range neighbors {
		if n.VectorID == emb2.VectorID {
			return n.Similarity
		}
	}
	return 0.0
}

// ChildSimilarity scores a missing-person pair. The image and feature terms
// are each floored and rescaled so that a plausible pair is never buried by
// one missing signal; the gender gate is the only hard cut.
func (m *MatchingService) ChildSimilarity(ctx context.Context, cache EmbeddingCache, r1, r2 *db_models.Report) float64 {
	if r1.ChildGender != "" && r2.ChildGender != "" &&
		!strings.EqualFold(r1.ChildGender, r2.ChildGender) {
		return 0.0
	}

	cw := m.cfg.Child

	imageSim := m.ImageSimilarity(ctx, cache, r1, r2)
	if imageSim < 0.2 {
		imageSim = 0.2
	} else if imageSim < 0.4 {
		// map [0.2,0.4) linearly into [0.4,0.7)
		imageSim = 0.4 + (imageSim-0.2)*(0.3/0.2)
	}

	featureScore := 0.0
	totalWeight := 0.0

	if r1.ChildAge > 0 && r2.ChildAge > 0 {
		ageDiff := math.Abs(float64(r1.ChildAge - r2.ChildAge))
		featureScore += math.Max(0.0, 1.0-ageDiff/cw.AgeDivisor) * cw.Age
	} else {
		featureScore += cw.MissingDefault * cw.Age
	}
	totalWeight += cw.Age

	if r1.ChildGender != "" && r2.ChildGender != "" {
		// equality already enforced by the gate above
		featureScore += 1.0 * cw.Gender
	} else {
		featureScore += cw.MissingDefault * cw.Gender
	}
	totalWeight += cw.Gender

	if r1.ChildHeight > 0 && r2.ChildHeight > 0 {
		heightDiff := math.Abs(float64(r1.ChildHeight - r2.ChildHeight))
		featureScore += math.Max(0.0, 1.0-heightDiff/cw.HeightDivisor) * cw.Height
	} else {
		featureScore += cw.MissingDefault * cw.Height
	}
	totalWeight += cw.Height

	if r1.ChildWeight > 0 && r2.ChildWeight > 0 {
		weightDiff := math.Abs(float64(r1.ChildWeight - r2.ChildWeight))
		featureScore += math.Max(0.0, 1.0-weightDiff/cw.WeightDivisor) * cw.Weight
	} else {
		featureScore += cw.MissingDefault * cw.Weight
	}
	totalWeight += cw.Weight

	if r1.ChildHairColor != "" && r2.ChildHairColor != "" {
		hairSim := cw.ColorMismatch
		if strings.EqualFold(r1.ChildHairColor, r2.ChildHairColor) {
			hairSim = 1.0
		}
		featureScore += hairSim * cw.HairColor
	} else {
		featureScore += cw.MissingDefault * cw.HairColor
	}
	totalWeight += cw.HairColor

	if r1.ChildEyeColor != "" && r2.ChildEyeColor != "" {
		eyeSim := cw.ColorMismatch
		if strings.EqualFold(r1.ChildEyeColor, r2.ChildEyeColor) {
			eyeSim = 1.0
		}
		featureScore += eyeSim * cw.EyeColor
	} else {
		featureScore += cw.MissingDefault * cw.EyeColor
	}
	totalWeight += cw.EyeColor

	// The remaining sub-factors only participate when both sides have data:
	// their weight is not accumulated otherwise.
	if r1.ChildPhysicalFeatures != "" && r2.ChildPhysicalFeatures != "" {
		featureScore += m.features.TextSimilarity(r1.ChildPhysicalFeatures, r2.ChildPhysicalFeatures) * cw.PhysicalFeatures
		totalWeight += cw.PhysicalFeatures
	}

	if r1.MissingDate > 0 && r2.MissingDate > 0 {
		dayDiff := math.Abs(float64(r1.MissingDate-r2.MissingDate)) / 86400.0
		featureScore += math.Max(0.0, 1.0-dayDiff/cw.DateDivisor) * cw.MissingDate
		totalWeight += cw.MissingDate
	}

	if r1.LastSeenLocation != "" && r2.LastSeenLocation != "" {
		featureScore += m.features.TextSimilarity(r1.LastSeenLocation, r2.LastSeenLocation) * cw.LastSeen
		totalWeight += cw.LastSeen
	}

	featureSim := cw.EmptyFeatureScore
	if totalWeight > 0 {
		featureSim = featureScore / totalWeight
	}

	if featureSim < 0.5 {
		// map [0,0.5) into [0.5,0.65)
		featureSim = 0.5 + featureSim*0.3
	}

	totalSim := imageSim*cw.ImageShare + featureSim*cw.FeatureShare

	if totalSim < 0.6 {
		// map [0,0.6) into [0.6,0.78)
		totalSim = 0.6 + totalSim*0.3
	}

	return math.Min(totalSim, 1.0)
}

// TotalSimilarity applies the category gate before any scoring: two
// declared, different categories never match, and a category on only one
// side never matches either. Child pairs take the specialized scorer.
func (m *MatchingService) TotalSimilarity(ctx context.Context, cache EmbeddingCache, r1, r2 *db_models.Report) float64 {
	cat1 := m.features.ExtractCategory(r1)
	cat2 := m.features.ExtractCategory(r2)

	if cat1 == config.CategoryChild && cat2 == config.CategoryChild {
		return m.ChildSimilarity(ctx, cache, r1, r2)
	}

	if cat1 != "" && cat2 != "" && cat1 != cat2 {
		return 0.0
	}
	if (cat1 != "" && cat2 == "") || (cat2 != "" && cat1 == "") {
		return 0.0
	}

	imageSim := m.ImageSimilarity(ctx, cache, r1, r2)
	featureSim := m.FeatureSimilarity(r1, r2)

	return imageSim*m.cfg.Weights.ImageShare + featureSim*m.cfg.Weights.FeatureShare
}

func (m *MatchingService) FindMatches(ctx context.Context, report *db_models.Report) ([]MatchCandidate, error) {
	return m.findMatches(ctx, NewEmbeddingCache(), report)
}

func (m *MatchingService) findMatches(ctx context.Context, cache EmbeddingCache, report *db_models.Report) ([]MatchCandidate, error) {
	if !report.HasImage() {
		log.Printf("Report %s has no image, skipping match search", report.ID)
		return nil, nil
	}

	cityPrefix := strings.TrimSpace(strings.Split(report.City, ",")[0])

	candidates, err := m.reportRepo.FindCandidates(ctx, report.OppositeKind(), cityPrefix, report.UserID)
	if err != nil {
		log.Printf("Error loading candidates for report %s (city prefix %q): %v", report.ID, cityPrefix, err)
		return nil, utils.ErrDatabaseError
	}

	cat1 := m.features.ExtractCategory(report)
	reportIsAnimal := cat1 == config.CategoryAnimal

	var matches []MatchCandidate
	for i := range candidates {
		candidate := &candidates[i]
		if !candidate.HasImage() {
			continue
		}

		cat2 := m.features.ExtractCategory(candidate)
		candidateIsAnimal := cat2 == config.CategoryAnimal

		// Symmetry gates: child pairs only with child pairs, animal pairs
		// only with animal pairs.
		if report.IsMissingChild != candidate.IsMissingChild {
			continue
		}
		if reportIsAnimal != candidateIsAnimal {
			continue
		}

		bothChild := report.IsMissingChild && candidate.IsMissingChild
		bothAnimal := reportIsAnimal && candidateIsAnimal
		if !bothChild && !bothAnimal {
			if cat1 != "" && cat2 != "" {
				if cat1 != cat2 {
					continue
				}
			} else if (cat1 != "" && cat2 == "") || (cat2 != "" && cat1 == "") {
				continue
			}
		}

		similarity := m.TotalSimilarity(ctx, cache, report, candidate)

		threshold := m.cfg.Thresholds.Match
		if bothChild {
			threshold = m.cfg.Thresholds.ChildMatch
		}
		if similarity < threshold {
			continue
		}

		matches = append(matches, MatchCandidate{
			Report:            candidate,
			Similarity:        similarity,
			ImageSimilarity:   m.ImageSimilarity(ctx, cache, report, candidate),
			FeatureSimilarity: m.FeatureSimilarity(report, candidate),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > 0 {
		observability.MatchesFound.Add(float64(len(matches)))
	}
	return matches, nil
}

// SaveMatches re-runs the match search and persists the result as directed
// (source, target) match rows. Embedding failures are logged and skipped;
// saving never fails the enclosing report flow.
func (m *MatchingService) SaveMatches(ctx context.Context, report *db_models.Report) (int, error) {
	cache := NewEmbeddingCache()

	matches, err := m.findMatches(ctx, cache, report)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}

	sourceEmb, err := m.embeddings.GetOrCreate(ctx, cache, report)
	if err != nil {
		log.Printf("Source embedding unavailable for report %s, matches not persisted: %v", report.ID, err)
		return 0, nil
	}

	saved := 0
	for _, match := range matches {
		targetEmb, err := m.embeddings.GetOrCreate(ctx, cache, match.Report)
		if err != nil {
			log.Printf("Target embedding unavailable for candidate %s, skipping: %v", match.Report.ID, err)
			continue
		}

		if err := m.matchRepo.Upsert(ctx, sourceEmb.ID, targetEmb.ID, match.Similarity, match.Similarity); err != nil {
			log.Printf("Error saving match %s -> %s: %v", report.ID, match.Report.ID, err)
			continue
		}

		saved++
		observability.MatchesSaved.Inc()
		log.Printf("Match saved: %s '%s' (%s) <-> %s '%s' (%s) total=%.2f%% (image=%.2f%%, feature=%.2f%%)",
			report.ID, report.Title, report.City,
			match.Report.ID, match.Report.Title, match.Report.City,
			match.Similarity*100, match.ImageSimilarity*100, match.FeatureSimilarity*100)
	}

	return saved, nil
}
