package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kayipbul/internal/models/request_models"
	"kayipbul/internal/models/response_models"
	"kayipbul/internal/repositories"
	"kayipbul/internal/services"
	"kayipbul/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	stateRepo           repositories.NotificationStateRepositoryInterface
}

func NewNotificationController(
	notificationService services.NotificationServiceInterface,
	stateRepo repositories.NotificationStateRepositoryInterface,
) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		stateRepo:           stateRepo,
	}
}

func (n *NotificationController) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-100)")
		return
	}

	items, err := n.notificationService.Notifications(c.Request.Context(), userID, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Notifications fetched successfully")
}

func (n *NotificationController) NotificationCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	viewedIDs, err := n.stateRepo.GetViewed(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, utils.ErrDatabaseError)
		return
	}
	viewed := make(map[string]struct{}, len(viewedIDs))
	for _, id := range viewedIDs {
		viewed[id] = struct{}{}
	}

	count, err := n.notificationService.NotificationCount(c.Request.Context(), userID, viewed)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.NotificationCount{Count: count}, "Notification count fetched")
}

func (n *NotificationController) MarkViewed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req request_models.MarkViewedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := n.stateRepo.AddViewed(c.Request.Context(), userID, req.ReportIDs); err != nil {
		utils.HandleServiceError(c, utils.ErrDatabaseError)
		return
	}

	utils.RespondSuccess(c, nil, "Notifications marked as viewed")
}
