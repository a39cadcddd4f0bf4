package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"kayipbul/internal/models/db_models"
	"kayipbul/internal/models/request_models"
	"kayipbul/internal/models/response_models"
	"kayipbul/internal/repositories"
	"kayipbul/pkg/utils"
)

type ReportServiceInterface interface {
	CreateReport(ctx context.Context, userID uuid.UUID, req request_models.CreateReportRequest) (response_models.Report, error)
	ListOwnReports(ctx context.Context, userID uuid.UUID) ([]response_models.Report, error)
	UpdateStatus(ctx context.Context, userID, reportID uuid.UUID, status string) error
}

func NewReportService(
	reportRepo repositories.ReportRepositoryInterface,
	matching MatchingServiceInterface,
) ReportServiceInterface {
	return &ReportService{
		reportRepo: reportRepo,
		matching:   matching,
	}
}

type ReportService struct {
	reportRepo repositories.ReportRepositoryInterface
	matching   MatchingServiceInterface
}

// CreateReport persists a new report and runs matching inline. Matching
// failures are logged and swallowed: report creation never fails because
// matching failed.
func (r *ReportService) CreateReport(ctx context.Context, userID uuid.UUID, req request_models.CreateReportRequest) (response_models.Report, error) {
	kind := req.Kind
	if req.IsMissingChild {
		// Kind of a missing-person report is derived, never user-chosen:
		// a disappearance is lost, a sighting is found.
		kind = db_models.ReportKindLost
		if req.Sighting {
			kind = db_models.ReportKindFound
		}
	}
	if kind != db_models.ReportKindLost && kind != db_models.ReportKindFound {
		return response_models.Report{}, utils.ErrInvalidKind
	}

	var missingDate int64
	if req.MissingDate != "" {
		t, err := time.Parse("2006-01-02", req.MissingDate)
		if err != nil {
			log.Printf("Ignoring unparseable missing_date %q: %v", req.MissingDate, err)
		} else {
			missingDate = t.Unix()
		}
	}

	report := &db_models.Report{
		Title:                 req.Title,
		Description:           req.Description,
		Kind:                  kind,
		Status:                db_models.ReportStatusActive,
		Location:              req.Location,
		City:                  req.City,
		District:              req.District,
		ContactPhone:          req.ContactPhone,
		ContactEmail:          req.ContactEmail,
		ImagePath:             req.ImagePath,
		UserID:                userID,
		IsUrgent:              req.IsUrgent,
		IsMissingChild:        req.IsMissingChild,
		ChildName:             req.ChildName,
		ChildAge:              req.ChildAge,
		ChildGender:           req.ChildGender,
		ChildHeight:           req.ChildHeight,
		ChildWeight:           req.ChildWeight,
		ChildHairColor:        req.ChildHairColor,
		ChildEyeColor:         req.ChildEyeColor,
		ChildPhysicalFeatures: req.ChildPhysicalFeatures,
		MissingDate:           missingDate,
		LastSeenLocation:      req.LastSeenLocation,
		LastSeenClothing:      req.LastSeenClothing,
	}

	if err := r.reportRepo.Create(ctx, report); err != nil {
		log.Printf("Error creating report for user %s: %v", userID, err)
		return response_models.Report{}, utils.ErrDatabaseError
	}

	if report.HasImage() {
		saved, err := r.matching.SaveMatches(ctx, report)
		if err != nil {
			log.Printf("Matching failed for new report %s: %v", report.ID, err)
		} else if saved > 0 {
			log.Printf("Report %s: %d matches saved", report.ID, saved)
		}
	}

	return toReportResponse(report), nil
}

func (r *ReportService) ListOwnReports(ctx context.Context, userID uuid.UUID) ([]response_models.Report, error) {
	reports, err := r.reportRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		log.Printf("Error listing reports for user %s: %v", userID, err)
		return nil, utils.ErrDatabaseError
	}

	responses := make([]response_models.Report, 0, len(reports))
	for i := range reports {
		responses = append(responses, toReportResponse(&reports[i]))
	}
	return responses, nil
}

func (r *ReportService) UpdateStatus(ctx context.Context, userID, reportID uuid.UUID, status string) error {
	if status != db_models.ReportStatusActive &&
		status != db_models.ReportStatusResolved &&
		status != db_models.ReportStatusClosed {
		return utils.ErrInvalidStatus
	}

	report, err := r.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		log.Printf("Error fetching report %s: %v", reportID, err)
		return utils.ErrDatabaseError
	}
	if report == nil || report.UserID != userID {
		return utils.ErrReportNotFound
	}

	if err := r.reportRepo.UpdateStatus(ctx, reportID, status); err != nil {
		log.Printf("Error updating status of report %s: %v", reportID, err)
		return utils.ErrDatabaseError
	}
	return nil
}

func toReportResponse(report *db_models.Report) response_models.Report {
	return response_models.Report{
		ID:          report.ID.String(),
		Title:       report.Title,
		Description: report.Description,
		Kind:        report.Kind,
		Status:      report.Status,
		City:        report.City,
		District:    report.District,
		ImagePath:   report.ImagePath,
		IsUrgent:    report.IsUrgent,
		IsMissing:   report.IsMissingChild,
		CreatedAt:   report.CreatedAt,
	}
}
