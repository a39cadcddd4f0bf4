package matchingfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"kayipbul/internal/api/controllers"
	"kayipbul/internal/config"
	"kayipbul/internal/repositories"
	"kayipbul/internal/services"
	"kayipbul/pkg/clip"
)

var Module = fx.Provide(
	provideEmbeddingRepo,
	provideMatchRepo,
	provideFeatureService,
	provideEmbeddingService,
	provideMatchingService,
	provideMatchController)

func provideEmbeddingRepo(db *gorm.DB) repositories.EmbeddingRepositoryInterface {
	return repositories.NewEmbeddingRepository(db)
}

func provideMatchRepo(db *gorm.DB) repositories.MatchRepositoryInterface {
	return repositories.NewMatchRepository(db)
}

func provideFeatureService(cfg *config.MatchConfig) services.FeatureServiceInterface {
	return services.NewFeatureService(cfg)
}

func provideEmbeddingService(
	embeddingRepo repositories.EmbeddingRepositoryInterface,
	reportRepo repositories.ReportRepositoryInterface,
	provider clip.Provider,
) services.EmbeddingServiceInterface {
	return services.NewEmbeddingService(embeddingRepo, reportRepo, provider)
}

func provideMatchingService(
	cfg *config.MatchConfig,
	features services.FeatureServiceInterface,
	embeddings services.EmbeddingServiceInterface,
	embeddingRepo repositories.EmbeddingRepositoryInterface,
	reportRepo repositories.ReportRepositoryInterface,
	matchRepo repositories.MatchRepositoryInterface,
) services.MatchingServiceInterface {
	return services.NewMatchingService(cfg, features, embeddings, embeddingRepo, reportRepo, matchRepo)
}

func provideMatchController(
	cfg *config.MatchConfig,
	matchingService services.MatchingServiceInterface,
	embeddingService services.EmbeddingServiceInterface,
	reportRepo repositories.ReportRepositoryInterface,
	matchRepo repositories.MatchRepositoryInterface,
) *controllers.MatchController {
	return controllers.NewMatchController(cfg, matchingService, embeddingService, reportRepo, matchRepo)
}
