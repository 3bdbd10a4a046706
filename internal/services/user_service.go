package services

import (
	"jobboard_backend/internal/apperrors"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

// GetProfile - профиль текущего пользователя
func (s *UserServiceImpl) GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return buildUserResponse(user), nil
}
