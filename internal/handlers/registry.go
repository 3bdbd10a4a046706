package handlers

import (
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/validator"
)

// AppHandlers содержит все HTTP-обработчики приложения.
type AppHandlers struct {
	Auth        *AuthHandler
	Job         *JobHandler
	Application *ApplicationHandler
	User        *UserHandler
}

// NewAppHandlers собирает обработчики поверх контейнера сервисов.
func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:        NewAuthHandler(base, sc.AuthService),
		Job:         NewJobHandler(base, sc.JobService),
		Application: NewApplicationHandler(base, sc.ApplicationService),
		User:        NewUserHandler(base, sc.UserService, sc.CompanyService),
	}
}
