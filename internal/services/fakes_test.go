package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"kayipbul/internal/models/db_models"
	"kayipbul/internal/repositories"
)

// fakeReportRepo keeps reports in memory and mirrors the SQL filters.
type fakeReportRepo struct {
	reports []db_models.Report

	lastKind       string
	lastCityPrefix string
}

func (f *fakeReportRepo) Create(ctx context.Context, report *db_models.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Report, error) {
	for i := range f.reports {
		if f.reports[i].ID == id {
			return &f.reports[i], nil
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) FindCandidates(ctx context.Context, kind, cityPrefix string, excludeUserID uuid.UUID) ([]db_models.Report, error) {
	f.lastKind = kind
	f.lastCityPrefix = cityPrefix
	var out []db_models.Report
	for _, r := range f.reports {
		if r.Kind != kind || r.Status != db_models.ReportStatusActive {
			continue
		}
		if !strings.HasPrefix(r.City, cityPrefix) {
			continue
		}
		if r.UserID == excludeUserID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReportRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Report, error) {
	var out []db_models.Report
	for _, r := range f.reports {
		if r.UserID == userID && r.Status == db_models.ReportStatusActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) ListActiveWithImages(ctx context.Context) ([]db_models.Report, error) {
	var out []db_models.Report
	for _, r := range f.reports {
		if r.Status == db_models.ReportStatusActive && r.ImagePath != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	for i := range f.reports {
		if f.reports[i].ID == id {
			f.reports[i].Status = status
			return nil
		}
	}
	return errors.New("not found")
}

// fakeEmbeddingRepo stores embeddings by image path and serves a canned
// neighbor list for every search.
type fakeEmbeddingRepo struct {
	byPath         map[string]*db_models.ImageEmbedding
	searchResults  []repositories.Neighbor
	searchErr      error
	createConflict bool
	createCalls    int
	searchCalls    int
}

func newFakeEmbeddingRepo() *fakeEmbeddingRepo {
	return &fakeEmbeddingRepo{byPath: make(map[string]*db_models.ImageEmbedding)}
}

func (f *fakeEmbeddingRepo) Create(ctx context.Context, embedding *db_models.ImageEmbedding) error {
	f.createCalls++
	if f.createConflict {
		// simulate a concurrent writer having inserted the same image
		existing := *embedding
		existing.ID = uuid.New()
		existing.VectorID = "concurrent-" + embedding.ImagePath
		f.byPath[embedding.ImagePath] = &existing
		return errors.New("duplicate key value violates unique constraint")
	}
	if embedding.ID == uuid.Nil {
		embedding.ID = uuid.New()
	}
	f.byPath[embedding.ImagePath] = embedding
	return nil
}

func (f *fakeEmbeddingRepo) FindByImagePath(ctx context.Context, imagePath string) (*db_models.ImageEmbedding, error) {
	if emb, ok := f.byPath[imagePath]; ok {
		return emb, nil
	}
	return nil, nil
}

func (f *fakeEmbeddingRepo) SearchSimilar(ctx context.Context, vector pgvector.Vector, topK int) ([]repositories.Neighbor, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults, nil
}

func (f *fakeEmbeddingRepo) DeleteByImagePath(ctx context.Context, imagePath string) error {
	delete(f.byPath, imagePath)
	return nil
}

// fakeProvider returns a fixed vector, or fails.
type fakeProvider struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeProvider) Embed(ctx context.Context, imagePath string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]float32(nil), f.vector...), nil
}

// fakeMatchRepo records upserts keyed by the ordered embedding pair.
type fakeMatchRepo struct {
	rows    map[[2]uuid.UUID]*db_models.ImageMatch
	created int
	updated int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{rows: make(map[[2]uuid.UUID]*db_models.ImageMatch)}
}

func (f *fakeMatchRepo) Upsert(ctx context.Context, sourceID, targetID uuid.UUID, similarity, confidence float64) error {
	key := [2]uuid.UUID{sourceID, targetID}
	if existing, ok := f.rows[key]; ok {
		existing.SimilarityScore = similarity
		existing.MatchConfidence = confidence
		f.updated++
		return nil
	}
	f.rows[key] = &db_models.ImageMatch{
		SourceEmbeddingID: sourceID,
		TargetEmbeddingID: targetID,
		SimilarityScore:   similarity,
		MatchConfidence:   confidence,
	}
	f.created++
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*db_models.ImageMatch, error) {
	for _, m := range f.rows {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMatchRepo) Verify(ctx context.Context, id, verifierID uuid.UUID) error {
	return nil
}

func (f *fakeMatchRepo) CountVerifiedAbove(ctx context.Context, threshold float64) (int64, error) {
	var count int64
	for _, m := range f.rows {
		if m.IsVerified && m.SimilarityScore >= threshold {
			count++
		}
	}
	return count, nil
}

// fakeMatcher serves canned match candidates per source report.
type fakeMatcher struct {
	matchesByReport map[uuid.UUID][]MatchCandidate
}

func (f *fakeMatcher) FeatureSimilarity(r1, r2 *db_models.Report) float64 {
	return 0
}

func (f *fakeMatcher) ImageSimilarity(ctx context.Context, cache EmbeddingCache, r1, r2 *db_models.Report) float64 {
	return 0
}

func (f *fakeMatcher) ChildSimilarity(ctx context.Context, cache EmbeddingCache, r1, r2 *db_models.Report) float64 {
	return 0
}

func (f *fakeMatcher) TotalSimilarity(ctx context.Context, cache EmbeddingCache, r1, r2 *db_models.Report) float64 {
	return 0
}

func (f *fakeMatcher) FindMatches(ctx context.Context, report *db_models.Report) ([]MatchCandidate, error) {
	return f.matchesByReport[report.ID], nil
}

func (f *fakeMatcher) SaveMatches(ctx context.Context, report *db_models.Report) (int, error) {
	return len(f.matchesByReport[report.ID]), nil
}
