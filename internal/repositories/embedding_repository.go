package repositories

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"kayipbul/internal/models/db_models"
)

// Neighbor is one nearest-neighbor hit from the vector index.
type Neighbor struct {
	VectorID   string  `gorm:"column:vector_id"`
	ImagePath  string  `gorm:"column:image_path"`
	Similarity float64 `gorm:"column:similarity"`
}

type EmbeddingRepositoryInterface interface {
	Create(ctx context.Context, embedding *db_models.ImageEmbedding) error
	FindByImagePath(ctx context.Context, imagePath string) (*db_models.ImageEmbedding, error)
	SearchSimilar(ctx context.Context, vector pgvector.Vector, topK int) ([]Neighbor, error)
	DeleteByImagePath(ctx context.Context, imagePath string) error
}

func NewEmbeddingRepository(db *gorm.DB) EmbeddingRepositoryInterface {
	return &EmbeddingRepository{db: db}
}

type EmbeddingRepository struct {
	db *gorm.DB
}

func (e *EmbeddingRepository) Create(ctx context.Context, embedding *db_models.ImageEmbedding) error {
	return e.db.WithContext(ctx).Create(embedding).Error
}

func (e *EmbeddingRepository) FindByImagePath(ctx context.Context, imagePath string) (*db_models.ImageEmbedding, error) {
	var embedding db_models.ImageEmbedding
	err := e.db.WithContext(ctx).Where("image_path = ?", imagePath).First(&embedding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &embedding, nil
}

// SearchSimilar runs an inner-product nearest-neighbor query. Stored vectors
// are L2-normalized, so the raw inner product is the cosine score in [-1,1];
// it is mapped into [0,1] via (score+1)/2 and clamped. Every similarity the
// rest of the system sees uses this convention.
func (e *EmbeddingRepository) SearchSimilar(ctx context.Context, vector pgvector.Vector, topK int) ([]Neighbor, error) {
	var results []Neighbor

	vecStr := vector.String()

	query := `
        SELECT vector_id, image_path,
               LEAST(1.0, GREATEST(0.0, (((embedding <#> $1) * -1) + 1) / 2)) AS similarity
        FROM image_embeddings
        ORDER BY embedding <#> $1
        LIMIT $2
    `

	err := e.db.WithContext(ctx).Raw(query, vecStr, topK).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (e *EmbeddingRepository) DeleteByImagePath(ctx context.Context, imagePath string) error {
	return e.db.WithContext(ctx).
		Where("image_path = ?", imagePath).
		Delete(&db_models.ImageEmbedding{}).Error
}
