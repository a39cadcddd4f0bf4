package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kayipbul/internal/models/db_models"
)

type ReportRepositoryInterface interface {
	Create(ctx context.Context, report *db_models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Report, error)
	FindCandidates(ctx context.Context, kind, cityPrefix string, excludeUserID uuid.UUID) ([]db_models.Report, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Report, error)
	ListActiveWithImages(ctx context.Context) ([]db_models.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

func NewReportRepository(db *gorm.DB) ReportRepositoryInterface {
	return &ReportRepository{db: db}
}

type ReportRepository struct {
	db *gorm.DB
}

func (r *ReportRepository) Create(ctx context.Context, report *db_models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Report, error) {
	var report db_models.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// FindCandidates returns active reports of the given kind whose city starts
// with cityPrefix, excluding reports owned by excludeUserID.
func (r *ReportRepository) FindCandidates(ctx context.Context, kind, cityPrefix string, excludeUserID uuid.UUID) ([]db_models.Report, error) {
	var reports []db_models.Report
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Where("status = ?", db_models.ReportStatusActive).
		Where("city LIKE ?", cityPrefix+"%").
		Where("user_id <> ?", excludeUserID).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Report, error) {
	var reports []db_models.Report
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status = ?", db_models.ReportStatusActive).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) ListActiveWithImages(ctx context.Context) ([]db_models.Report, error) {
	var reports []db_models.Report
	err := r.db.WithContext(ctx).
		Where("status = ?", db_models.ReportStatusActive).
		Where("image_path <> ''").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).
		Model(&db_models.Report{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
