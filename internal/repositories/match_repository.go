package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kayipbul/internal/models/db_models"
)

type MatchRepositoryInterface interface {
	Upsert(ctx context.Context, sourceID, targetID uuid.UUID, similarity, confidence float64) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.ImageMatch, error)
	Verify(ctx context.Context, id, verifierID uuid.UUID) error
	CountVerifiedAbove(ctx context.Context, threshold float64) (int64, error)
}

func NewMatchRepository(db *gorm.DB) MatchRepositoryInterface {
	return &MatchRepository{db: db}
}

type MatchRepository struct {
	db *gorm.DB
}

// Upsert writes one directed (source, target) match row. Concurrent calls
// for the same pair resolve atomically on the unique index, last write wins
// on score and confidence.
func (m *MatchRepository) Upsert(ctx context.Context, sourceID, targetID uuid.UUID, similarity, confidence float64) error {
	match := db_models.ImageMatch{
		SourceEmbeddingID: sourceID,
		TargetEmbeddingID: targetID,
		SimilarityScore:   similarity,
		MatchConfidence:   confidence,
	}

	return m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "source_embedding_id"},
			{Name: "target_embedding_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"similarity_score", "match_confidence", "updated_at"}),
	}).Create(&match).Error
}

func (m *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.ImageMatch, error) {
	var match db_models.ImageMatch
	err := m.db.WithContext(ctx).Where("id = ?", id).First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}

func (m *MatchRepository) Verify(ctx context.Context, id, verifierID uuid.UUID) error {
	res := m.db.WithContext(ctx).
		Model(&db_models.ImageMatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_verified": true,
			"verified_by": verifierID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (m *MatchRepository) CountVerifiedAbove(ctx context.Context, threshold float64) (int64, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&db_models.ImageMatch{}).
		Where("is_verified = ?", true).
		Where("similarity_score >= ?", threshold).
		Count(&count).Error
	return count, err
}
