package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kayipbul/internal/models/db_models"
)

type NotificationStateRepositoryInterface interface {
	GetViewed(ctx context.Context, userID uuid.UUID) ([]string, error)
	AddViewed(ctx context.Context, userID uuid.UUID, reportIDs []string) error
}

func NewNotificationStateRepository(db *gorm.DB) NotificationStateRepositoryInterface {
	return &NotificationStateRepository{db: db}
}

type NotificationStateRepository struct {
	db *gorm.DB
}

func (n *NotificationStateRepository) GetViewed(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var state db_models.NotificationState
	err := n.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return state.Viewed, nil
}

func (n *NotificationStateRepository) AddViewed(ctx context.Context, userID uuid.UUID, reportIDs []string) error {
	existing, err := n.GetViewed(ctx, userID)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(existing))
	merged := make(pq.StringArray, 0, len(existing)+len(reportIDs))
	for _, id := range existing {
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, id := range reportIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}

	state := db_models.NotificationState{
		UserID: userID,
		Viewed: merged,
	}
	return n.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"viewed", "updated_at"}),
	}).Create(&state).Error
}
