package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kayipbul/internal/config"
	"kayipbul/internal/models/response_models"
	"kayipbul/internal/repositories"
	"kayipbul/internal/services"
	"kayipbul/pkg/utils"
)

type MatchController struct {
	cfg              *config.MatchConfig
	matchingService  services.MatchingServiceInterface
	embeddingService services.EmbeddingServiceInterface
	reportRepo       repositories.ReportRepositoryInterface
	matchRepo        repositories.MatchRepositoryInterface
}

func NewMatchController(
	cfg *config.MatchConfig,
	matchingService services.MatchingServiceInterface,
	embeddingService services.EmbeddingServiceInterface,
	reportRepo repositories.ReportRepositoryInterface,
	matchRepo repositories.MatchRepositoryInterface,
) *MatchController {
	return &MatchController{
		cfg:              cfg,
		matchingService:  matchingService,
		embeddingService: embeddingService,
		reportRepo:       reportRepo,
		matchRepo:        matchRepo,
	}
}

// FindMatches returns the live, ranked candidate list for a report.
func (m *MatchController) FindMatches(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("reportId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid report ID")
		return
	}

	report, err := m.reportRepo.GetByID(c.Request.Context(), reportID)
	if err != nil {
		utils.HandleServiceError(c, utils.ErrDatabaseError)
		return
	}
	if report == nil {
		utils.HandleServiceError(c, utils.ErrReportNotFound)
		return
	}

	matches, err := m.matchingService.FindMatches(c.Request.Context(), report)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	results := make([]response_models.MatchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, response_models.MatchResult{
			ReportID:          match.Report.ID.String(),
			Title:             match.Report.Title,
			Kind:              match.Report.Kind,
			City:              match.Report.City,
			Similarity:        match.Similarity,
			ImageSimilarity:   match.ImageSimilarity,
			FeatureSimilarity: match.FeatureSimilarity,
		})
	}

	utils.RespondSuccess(c, results, "Matches fetched successfully")
}

// SaveMatches re-runs matching for a report and persists the results.
func (m *MatchController) SaveMatches(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("reportId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid report ID")
		return
	}

	report, err := m.reportRepo.GetByID(c.Request.Context(), reportID)
	if err != nil {
		utils.HandleServiceError(c, utils.ErrDatabaseError)
		return
	}
	if report == nil {
		utils.HandleServiceError(c, utils.ErrReportNotFound)
		return
	}

	saved, err := m.matchingService.SaveMatches(c.Request.Context(), report)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.SaveMatchesResult{Saved: saved}, "Matches saved")
}

// VerifyMatch marks a persisted match as confirmed by the current user.
func (m *MatchController) VerifyMatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	matchID, err := uuid.Parse(c.Param("matchId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid match ID")
		return
	}

	match, err := m.matchRepo.GetByID(c.Request.Context(), matchID)
	if err != nil {
		utils.HandleServiceError(c, utils.ErrDatabaseError)
		return
	}
	if match == nil {
		utils.HandleServiceError(c, utils.ErrMatchNotFound)
		return
	}

	if err := m.matchRepo.Verify(c.Request.Context(), matchID, userID); err != nil {
		utils.HandleServiceError(c, utils.ErrDatabaseError)
		return
	}

	utils.RespondSuccess(c, nil, "Match verified")
}

// Stats reports how many verified matches sit above the notify threshold.
func (m *MatchController) Stats(c *gin.Context) {
	count, err := m.matchRepo.CountVerifiedAbove(c.Request.Context(), m.cfg.Thresholds.Notify)
	if err != nil {
		utils.HandleServiceError(c, utils.ErrDatabaseError)
		return
	}

	utils.RespondSuccess(c, gin.H{"verified_matches": count}, "Match stats fetched")
}

// Reindex re-embeds every active report image.
func (m *MatchController) Reindex(c *gin.Context) {
	count, err := m.embeddingService.Reindex(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"reindexed": count}, "Reindex complete")
}
