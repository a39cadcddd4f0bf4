package notificationfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"kayipbul/internal/api/controllers"
	"kayipbul/internal/repositories"
	"kayipbul/internal/services"
)

var Module = fx.Provide(
	provideStateRepo, provideNotificationService, provideNotificationController)

func provideStateRepo(db *gorm.DB) repositories.NotificationStateRepositoryInterface {
	return repositories.NewNotificationStateRepository(db)
}

func provideNotificationService(
	features services.FeatureServiceInterface,
	matching services.MatchingServiceInterface,
	reportRepo repositories.ReportRepositoryInterface,
) services.NotificationServiceInterface {
	return services.NewNotificationService(features, matching, reportRepo)
}

func provideNotificationController(
	notificationService services.NotificationServiceInterface,
	stateRepo repositories.NotificationStateRepositoryInterface,
) *controllers.NotificationController {
	return controllers.NewNotificationController(notificationService, stateRepo)
}
