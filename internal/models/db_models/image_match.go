package db_models

import "github.com/google/uuid"

// ImageMatch is a persisted, scored correspondence between two embeddings.
// Uniqueness is on the ordered (source, target) pair: (A,B) and (B,A) are
// two independent directed rows.
type ImageMatch struct {
	BaseModel
	SourceEmbeddingID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_match_pair"`
	TargetEmbeddingID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_match_pair"`
	SimilarityScore   float64
	MatchConfidence   float64
	IsVerified        bool
	VerifiedBy        *uuid.UUID `gorm:"type:uuid"`
}

func (ImageMatch) TableName() string {
	return "image_matches"
}
