package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kayipbul/internal/config"
	"kayipbul/internal/models/db_models"
	"kayipbul/internal/repositories"
)

type matchingFixture struct {
	cfg       *config.MatchConfig
	reports   *fakeReportRepo
	embRepo   *fakeEmbeddingRepo
	matchRepo *fakeMatchRepo
	provider  *fakeProvider
	svc       MatchingServiceInterface
}

func newMatchingFixture() *matchingFixture {
	cfg := config.Default()
	reports := &fakeReportRepo{}
	embRepo := newFakeEmbeddingRepo()
	matchRepo := newFakeMatchRepo()
	provider := &fakeProvider{vector: []float32{1, 0, 0, 0}}

	features := NewFeatureService(cfg)
	embeddings := NewEmbeddingService(embRepo, reports, provider)
	svc := NewMatchingService(cfg, features, embeddings, embRepo, reports, matchRepo)

	return &matchingFixture{
		cfg:       cfg,
		reports:   reports,
		embRepo:   embRepo,
		matchRepo: matchRepo,
		provider:  provider,
		svc:       svc,
	}
}

func newReport(kind, city, title, desc, image string, userID uuid.UUID) db_models.Report {
	r := db_models.Report{
		Title:       title,
		Description: desc,
		Kind:        kind,
		Status:      db_models.ReportStatusActive,
		City:        city,
		ImagePath:   image,
		UserID:      userID,
	}
	r.ID = uuid.New()
	return r
}

func (f *matchingFixture) seedEmbedding(imagePath, vectorID string) {
	emb := &db_models.ImageEmbedding{
		ImagePath: imagePath,
		VectorID:  vectorID,
		Embedding: pgvector.NewVector([]float32{1, 0, 0, 0}),
	}
	emb.ID = uuid.New()
	f.embRepo.byPath[imagePath] = emb
}

func TestFeatureSimilarity(t *testing.T) {
	f := newMatchingFixture()

	r1 := newReport("lost", "Ankara", "kayıp telefon", "siyah telefon kayboldu", "", uuid.New())
	r2 := newReport("found", "Ankara", "telefon bulundu", "siyah telefon bulundu istasyonda", "", uuid.New())

	// title 1/3, description 2/5, category both "telefon" -> 1.0,
	// color both "siyah" -> 1.0, brand absent -> 0.5
	want := (1.0/3)*0.20 + 0.4*0.20 + 1.0*0.30 + 1.0*0.15 + 0.5*0.15
	assert.InDelta(t, want, f.svc.FeatureSimilarity(&r1, &r2), 1e-9)
}

func TestImageSimilarity(t *testing.T) {
	ctx := context.Background()

	t.Run("neighbor hit returns its similarity", func(t *testing.T) {
		f := newMatchingFixture()
		f.seedEmbedding("img-a.jpg", "vec-a")
		f.seedEmbedding("img-b.jpg", "vec-b")
		f.embRepo.searchResults = []repositories.Neighbor{
			{VectorID: "vec-b", ImagePath: "img-b.jpg", Similarity: 0.62},
		}

		r1 := newReport("lost", "Ankara", "xyz", "qwe", "img-a.jpg", uuid.New())
		r2 := newReport("found", "Ankara", "xyz", "qwe", "img-b.jpg", uuid.New())

		assert.InDelta(t, 0.62, f.svc.ImageSimilarity(ctx, NewEmbeddingCache(), &r1, &r2), 1e-9)
	})

	t.Run("counterpart not in neighbors", func(t *testing.T) {
		f := newMatchingFixture()
		f.seedEmbedding("img-a.jpg", "vec-a")
		f.seedEmbedding("img-b.jpg", "vec-b")

		r1 := newReport("lost", "Ankara", "xyz", "qwe", "img-a.jpg", uuid.New())
		r2 := newReport("found", "Ankara", "xyz", "qwe", "img-b.jpg", uuid.New())

		assert.Zero(t, f.svc.ImageSimilarity(ctx, NewEmbeddingCache(), &r1, &r2))
	})

	t.Run("search failure degrades to zero", func(t *testing.T) {
		f := newMatchingFixture()
		f.seedEmbedding("img-a.jpg", "vec-a")
		f.seedEmbedding("img-b.jpg", "vec-b")
		f.embRepo.searchErr = errors.New("index unreachable")

		r1 := newReport("lost", "Ankara", "xyz", "qwe", "img-a.jpg", uuid.New())
		r2 := newReport("found", "Ankara", "xyz", "qwe", "img-b.jpg", uuid.New())

		assert.Zero(t, f.svc.ImageSimilarity(ctx, NewEmbeddingCache(), &r1, &r2))
	})

	t.Run("missing image on either side", func(t *testing.T) {
		f := newMatchingFixture()
		r1 := newReport("lost", "Ankara", "xyz", "qwe", "", uuid.New())
		r2 := newReport("found", "Ankara", "xyz", "qwe", "img-b.jpg", uuid.New())

		assert.Zero(t, f.svc.ImageSimilarity(ctx, NewEmbeddingCache(), &r1, &r2))
		assert.Zero(t, f.svc.ImageSimilarity(ctx, NewEmbeddingCache(), &r2, &r1))
	})
}

func TestTotalSimilarityCategoryGates(t *testing.T) {
	ctx := context.Background()
	f := newMatchingFixture()
	cache := NewEmbeddingCache()

	phone := newReport("lost", "Ankara", "telefon kayboldu", "", "", uuid.New())
	laptop := newReport("found", "Ankara", "laptop bulundu", "", "", uuid.New())
	neutral := newReport("found", "Ankara", "xyz qwe", "asd zxc", "", uuid.New())

	assert.Zero(t, f.svc.TotalSimilarity(ctx, cache, &phone, &laptop), "different categories never match")
	assert.Zero(t, f.svc.TotalSimilarity(ctx, cache, &phone, &neutral), "one-sided category never matches")
	assert.Zero(t, f.svc.TotalSimilarity(ctx, cache, &neutral, &phone), "gate is symmetric")
}

func TestTotalSimilarityNoCategoryPair(t *testing.T) {
	ctx := context.Background()
	f := newMatchingFixture()

	r1 := newReport("lost", "Ankara", "xyz qwe", "asd zxc", "", uuid.New())
	r2 := newReport("found", "Ankara", "xyz qwe", "asd zxc", "", uuid.New())

	// identical text, no category on either side: feature score is
	// 0.2 + 0.2 + 0.5*0.3 + 0.5*0.15 + 0.5*0.15 = 0.7, no image signal
	assert.InDelta(t, 0.6*0.7, f.svc.TotalSimilarity(ctx, NewEmbeddingCache(), &r1, &r2), 1e-9)
}

func childReport(kind string, age int, gender string) db_models.Report {
	r := newReport(kind, "Ankara", "kayıp çocuk", "", "", uuid.New())
	r.IsMissingChild = true
	r.ChildAge = age
	r.ChildGender = gender
	return r
}

func TestChildSimilarity(t *testing.T) {
	ctx := context.Background()
	f := newMatchingFixture()
	cache := NewEmbeddingCache()

	t.Run("gender mismatch is a hard gate", func(t *testing.T) {
		r1 := childReport("lost", 7, "Erkek")
		r2 := childReport("found", 7, "kız")
		assert.Zero(t, f.svc.ChildSimilarity(ctx, cache, &r1, &r2))
	})

	t.Run("gender comparison is case-insensitive", func(t *testing.T) {
		r1 := childReport("lost", 7, "Erkek")
		r2 := childReport("found", 7, "erkek")
		assert.Greater(t, f.svc.ChildSimilarity(ctx, cache, &r1, &r2), 0.0)
	})

	t.Run("worked example", func(t *testing.T) {
		r1 := childReport("lost", 5, "erkek")
		r2 := childReport("found", 8, "erkek")

		// no image: floored to 0.2; feature sub-factors:
		// age 0.7*0.25, gender 1.0*0.20, height/weight defaults 0.5*0.15,
		// hair/eye defaults 0.5*0.10 over weight 0.95; then the final
		// low-total rescale applies.
		feature := (0.7*0.25 + 1.0*0.20 + 0.5*0.15 + 0.5*0.15 + 0.5*0.10 + 0.5*0.10) / 0.95
		total := 0.5*0.2 + 0.5*feature
		want := 0.6 + total*0.3
		assert.InDelta(t, want, f.svc.ChildSimilarity(ctx, cache, &r1, &r2), 1e-9)
	})

	t.Run("score stays within 0.6 and 1.0 when gates pass", func(t *testing.T) {
		r1 := childReport("lost", 0, "")
		r2 := childReport("found", 0, "")
		got := f.svc.ChildSimilarity(ctx, cache, &r1, &r2)
		assert.GreaterOrEqual(t, got, 0.6)
		assert.LessOrEqual(t, got, 1.0)
	})

	t.Run("child pair routed through child scorer", func(t *testing.T) {
		r1 := childReport("lost", 5, "erkek")
		r2 := childReport("found", 8, "erkek")
		assert.Equal(t,
			f.svc.ChildSimilarity(ctx, cache, &r1, &r2),
			f.svc.TotalSimilarity(ctx, cache, &r1, &r2))
	})
}

func TestFindMatchesCityPrefix(t *testing.T) {
	ctx := context.Background()
	f := newMatchingFixture()
	owner := uuid.New()
	other := uuid.New()

	source := newReport("lost", "Adıyaman, Kahta", "xyz qwe", "asd zxc", "img-a.jpg", owner)
	sameCity := newReport("found", "Adıyaman", "xyz qwe", "asd zxc", "img-b.jpg", other)
	farAway := newReport("found", "Ankara", "xyz qwe", "asd zxc", "img-c.jpg", other)
	f.reports.reports = []db_models.Report{sameCity, farAway}

	matches, err := f.svc.FindMatches(ctx, &source)
	require.NoError(t, err)

	assert.Equal(t, "Adıyaman", f.reports.lastCityPrefix)
	assert.Equal(t, "found", f.reports.lastKind)
	require.Len(t, matches, 1)
	assert.Equal(t, sameCity.ID, matches[0].Report.ID)
}

func TestFindMatchesSymmetryGates(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	t.Run("missing-child reports only pair with each other", func(t *testing.T) {
		f := newMatchingFixture()
		source := childReport("lost", 7, "erkek")
		source.UserID = owner
		source.ImagePath = "img-a.jpg"
		plain := newReport("found", "Ankara", "xyz qwe", "asd zxc", "img-b.jpg", other)
		f.reports.reports = []db_models.Report{plain}

		matches, err := f.svc.FindMatches(ctx, &source)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("animal reports only pair with each other", func(t *testing.T) {
		f := newMatchingFixture()
		source := newReport("lost", "Ankara", "köpek", "sarı köpek kayboldu parkta", "img-a.jpg", owner)
		plain := newReport("found", "Ankara", "xyz qwe", "asd zxc", "img-b.jpg", other)
		animal := newReport("found", "Ankara", "köpek", "sarı köpek kayboldu parkta", "img-c.jpg", other)
		f.reports.reports = []db_models.Report{plain, animal}

		matches, err := f.svc.FindMatches(ctx, &source)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, animal.ID, matches[0].Report.ID)
	})
}

func TestFindMatchesChildPairUsesChildThreshold(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	f := newMatchingFixture()
	source := childReport("lost", 5, "erkek")
	source.UserID = owner
	source.ImagePath = "img-a.jpg"
	candidate := childReport("found", 8, "erkek")
	candidate.UserID = other
	candidate.ImagePath = "img-b.jpg"
	f.reports.reports = []db_models.Report{candidate}

	matches, err := f.svc.FindMatches(ctx, &source)
	require.NoError(t, err)
	require.Len(t, matches, 1, "child scores never fall below the 0.50 child threshold")
	assert.GreaterOrEqual(t, matches[0].Similarity, 0.6)
	assert.LessOrEqual(t, matches[0].Similarity, 1.0)
}

func TestFindMatchesSkipsImagelessSides(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	t.Run("source without image yields nothing", func(t *testing.T) {
		f := newMatchingFixture()
		source := newReport("lost", "Ankara", "xyz qwe", "asd zxc", "", owner)
		f.reports.reports = []db_models.Report{
			newReport("found", "Ankara", "xyz qwe", "asd zxc", "img-b.jpg", other),
		}

		matches, err := f.svc.FindMatches(ctx, &source)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("imageless candidate is skipped", func(t *testing.T) {
		f := newMatchingFixture()
		source := newReport("lost", "Ankara", "xyz qwe", "asd zxc", "img-a.jpg", owner)
		f.reports.reports = []db_models.Report{
			newReport("found", "Ankara", "xyz qwe", "asd zxc", "", other),
		}

		matches, err := f.svc.FindMatches(ctx, &source)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestFindMatchesThresholdIsInclusive(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	f := newMatchingFixture()
	source := newReport("lost", "Ankara", "xyz qwe", "asd zxc", "img-a.jpg", owner)
	candidate := newReport("found", "Ankara", "xyz qwe", "asd zxc", "img-b.jpg", other)
	f.reports.reports = []db_models.Report{candidate}

	similarity := f.svc.TotalSimilarity(ctx, NewEmbeddingCache(), &source, &candidate)
	require.Greater(t, similarity, 0.0)

	f.cfg.Thresholds.Match = similarity
	matches, err := f.svc.FindMatches(ctx, &source)
	require.NoError(t, err)
	assert.Len(t, matches, 1, "a score exactly at the threshold is included")

	f.cfg.Thresholds.Match = similarity + 1e-9
	matches, err = f.svc.FindMatches(ctx, &source)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindMatchesSortsBySimilarity(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	f := newMatchingFixture()
	f.cfg.Thresholds.Match = 0.3
	source := newReport("lost", "Ankara", "xyz qwe", "asd zxc", "img-a.jpg", owner)
	weaker := newReport("found", "Ankara", "xyz qwe", "wsd zxc vbn", "img-b.jpg", other)
	stronger := newReport("found", "Ankara", "xyz qwe", "asd zxc", "img-c.jpg", other)
	f.reports.reports = []db_models.Report{weaker, stronger}

	matches, err := f.svc.FindMatches(ctx, &source)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, stronger.ID, matches[0].Report.ID)
	assert.Equal(t, weaker.ID, matches[1].Report.ID)
	assert.Greater(t, matches[0].Similarity, matches[1].Similarity)
}

func TestSaveMatchesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	f := newMatchingFixture()
	source := newReport("lost", "Ankara", "xyz qwe", "asd zxc", "img-a.jpg", owner)
	candidate := newReport("found", "Ankara", "xyz qwe", "asd zxc", "img-b.jpg", other)
	f.reports.reports = []db_models.Report{candidate}

	saved, err := f.svc.SaveMatches(ctx, &source)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.Equal(t, 1, f.matchRepo.created)
	assert.Zero(t, f.matchRepo.updated)

	saved, err = f.svc.SaveMatches(ctx, &source)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.Len(t, f.matchRepo.rows, 1, "re-running updates the existing row")
	assert.Equal(t, 1, f.matchRepo.created)
	assert.Equal(t, 1, f.matchRepo.updated)

	// both embeddings were created once and found on the second pass
	assert.Equal(t, 2, f.provider.calls)
}

func TestSaveMatchesEmbeddingFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	f := newMatchingFixture()
	f.provider.err = errors.New("clip sidecar down")
	source := newReport("lost", "Ankara", "xyz qwe", "asd zxc", "img-a.jpg", owner)
	f.reports.reports = []db_models.Report{
		newReport("found", "Ankara", "xyz qwe", "asd zxc", "img-b.jpg", other),
	}

	saved, err := f.svc.SaveMatches(ctx, &source)
	require.NoError(t, err)
	assert.Zero(t, saved)
	assert.Empty(t, f.matchRepo.rows)
}
