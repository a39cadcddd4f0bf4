package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"kayipbul/internal/models/db_models"
	"kayipbul/internal/observability"
	"kayipbul/internal/repositories"
	"kayipbul/pkg/clip"
	"kayipbul/pkg/utils"
)

// EmbeddingCache memoizes embedding lookups within one matching pass, so a
// report touched by several candidates costs at most one provider call.
// A nil entry records a failed resolution and suppresses retries in the
// same pass.
type EmbeddingCache map[uuid.UUID]*db_models.ImageEmbedding

func NewEmbeddingCache() EmbeddingCache {
	return make(EmbeddingCache)
}

type EmbeddingServiceInterface interface {
	Lookup(ctx context.Context, report *db_models.Report) (*db_models.ImageEmbedding, error)
	GetOrCreate(ctx context.Context, cache EmbeddingCache, report *db_models.Report) (*db_models.ImageEmbedding, error)
	Reindex(ctx context.Context) (int, error)
}

func NewEmbeddingService(
	embeddingRepo repositories.EmbeddingRepositoryInterface,
	reportRepo repositories.ReportRepositoryInterface,
	provider clip.Provider,
) EmbeddingServiceInterface {
	return &EmbeddingService{
		embeddingRepo: embeddingRepo,
		reportRepo:    reportRepo,
		provider:      provider,
	}
}

// EmbeddingService is the gateway between reports and the vector index:
// it finds a report's existing index entry or creates one from the CLIP
// provider output.
type EmbeddingService struct {
	embeddingRepo repositories.EmbeddingRepositoryInterface
	reportRepo    repositories.ReportRepositoryInterface
	provider      clip.Provider
}

func (e *EmbeddingService) Lookup(ctx context.Context, report *db_models.Report) (*db_models.ImageEmbedding, error) {
	if !report.HasImage() {
		return nil, nil
	}
	return e.embeddingRepo.FindByImagePath(ctx, report.ImagePath)
}

func (e *EmbeddingService) GetOrCreate(ctx context.Context, cache EmbeddingCache, report *db_models.Report) (*db_models.ImageEmbedding, error) {
	if cached, ok := cache[report.ID]; ok {
		if cached == nil {
			return nil, utils.ErrEmbeddingUnavailable
		}
		return cached, nil
	}

	embedding, err := e.resolve(ctx, report)
	if err != nil {
		cache[report.ID] = nil
		return nil, err
	}

	cache[report.ID] = embedding
	return embedding, nil
}

func (e *EmbeddingService) resolve(ctx context.Context, report *db_models.Report) (*db_models.ImageEmbedding, error) {
	if !report.HasImage() {
		return nil, utils.ErrEmbeddingUnavailable
	}

	existing, err := e.embeddingRepo.FindByImagePath(ctx, report.ImagePath)
	if err != nil {
		log.Printf("Error looking up embedding for report %s: %v", report.ID, err)
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return existing, nil
	}

	vector, err := e.provider.Embed(ctx, report.ImagePath)
	if err != nil || len(vector) == 0 {
		observability.EmbeddingFailures.Inc()
		log.Printf("Embedding provider failed for report %s (%s): %v", report.ID, report.ImagePath, err)
		return nil, utils.ErrEmbeddingUnavailable
	}
	normalize(vector)

	embedding := &db_models.ImageEmbedding{
		UserID:      report.UserID,
		ImagePath:   report.ImagePath,
		VectorID:    uuid.New().String(),
		Description: fmt.Sprintf("%s - %s", report.Title, report.Description),
		Embedding:   pgvector.NewVector(vector),
	}

	if err := e.embeddingRepo.Create(ctx, embedding); err != nil {
		// A concurrent pass may have inserted the same image; the unique
		// index on image_path makes the re-read authoritative.
		existing, findErr := e.embeddingRepo.FindByImagePath(ctx, report.ImagePath)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		log.Printf("Error inserting embedding for report %s: %v", report.ID, err)
		return nil, utils.ErrDatabaseError
	}

	observability.EmbeddingsCreated.Inc()
	return embedding, nil
}

// Reindex re-embeds every active report that carries an image, replacing
// stale index entries. Returns how many reports were reindexed.
func (e *EmbeddingService) Reindex(ctx context.Context) (int, error) {
	reports, err := e.reportRepo.ListActiveWithImages(ctx)
	if err != nil {
		log.Printf("Error listing reports for reindex: %v", err)
		return 0, utils.ErrDatabaseError
	}

	count := 0
	for i := range reports {
		report := &reports[i]
		if err := e.embeddingRepo.DeleteByImagePath(ctx, report.ImagePath); err != nil {
			log.Printf("Reindex: error deleting embedding for report %s: %v", report.ID, err)
			continue
		}
		if _, err := e.resolve(ctx, report); err != nil {
			log.Printf("Reindex: error re-embedding report %s: %v", report.ID, err)
			continue
		}
		count++
	}

	log.Printf("Reindex complete: %d/%d reports re-embedded", count, len(reports))
	return count, nil
}

// normalize performs L2 normalization in-place.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := float32(math.Sqrt(sum))
	if norm > 0 {
		for i := range v {
			v[i] /= norm
		}
	}
}
