package accountfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"kayipbul/internal/api/controllers"
	"kayipbul/internal/repositories"
	"kayipbul/internal/services"
)

var Module = fx.Provide(
	provideUserRepo, provideAccountService, provideAuthController)

func provideUserRepo(db *gorm.DB) repositories.UserRepositoryInterface {
	return repositories.NewUserRepository(db)
}

func provideAccountService(userRepo repositories.UserRepositoryInterface) services.AccountServiceInterface {
	return services.NewAccountService(userRepo)
}

func provideAuthController(accountService services.AccountServiceInterface) *controllers.AuthController {
	return controllers.NewAuthController(accountService)
}
