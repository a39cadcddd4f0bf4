package db_models

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ImageEmbedding links a report image to its vector in the index. One row
// per unique image; the unique index on ImagePath serializes concurrent
// creation attempts for the same image.
type ImageEmbedding struct {
	BaseModel
	UserID      uuid.UUID       `gorm:"type:uuid;index"`
	ImagePath   string          `gorm:"uniqueIndex;size:500"`
	VectorID    string          `gorm:"uniqueIndex;size:100"`
	Description string          // report title+description copy, kept for logging only
	Embedding   pgvector.Vector `gorm:"type:vector(512)"`
}

func (ImageEmbedding) TableName() string {
	return "image_embeddings"
}
