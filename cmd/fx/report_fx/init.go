package reportfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"kayipbul/internal/api/controllers"
	"kayipbul/internal/repositories"
	"kayipbul/internal/services"
)

var Module = fx.Provide(
	provideReportRepo, provideReportService, provideReportController)

func provideReportRepo(db *gorm.DB) repositories.ReportRepositoryInterface {
	return repositories.NewReportRepository(db)
}

func provideReportService(
	reportRepo repositories.ReportRepositoryInterface,
	matching services.MatchingServiceInterface,
) services.ReportServiceInterface {
	return services.NewReportService(reportRepo, matching)
}

func provideReportController(reportService services.ReportServiceInterface) *controllers.ReportController {
	return controllers.NewReportController(reportService)
}
