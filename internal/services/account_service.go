package services

import (
	"context"
	"log"

	"kayipbul/internal/models/db_models"
	"kayipbul/internal/models/request_models"
	"kayipbul/internal/repositories"
	"kayipbul/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, req request_models.RegisterRequest) (string, error)
	Login(ctx context.Context, req request_models.LoginRequest) (string, error)
}

func NewAccountService(userRepo repositories.UserRepositoryInterface) AccountServiceInterface {
	return &AccountService{userRepo: userRepo}
}

type AccountService struct {
	userRepo repositories.UserRepositoryInterface
}

func (a *AccountService) Register(ctx context.Context, req request_models.RegisterRequest) (string, error) {
	existing, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("Error checking email %s: %v", req.Email, err)
		return "", utils.ErrDatabaseError
	}
	if existing != nil {
		return "", utils.ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return "", utils.ErrDatabaseError
	}

	user := &db_models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
	}
	if err := a.userRepo.Create(ctx, user); err != nil {
		log.Printf("Error creating user %s: %v", req.Email, err)
		return "", utils.ErrDatabaseError
	}

	return utils.CreateToken(user.ID)
}

func (a *AccountService) Login(ctx context.Context, req request_models.LoginRequest) (string, error) {
	user, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("Error fetching user %s: %v", req.Email, err)
		return "", utils.ErrDatabaseError
	}
	if user == nil {
		return "", utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(user.PasswordHash, req.Password); err != nil {
		return "", utils.ErrInvalidCredentials
	}

	return utils.CreateToken(user.ID)
}
