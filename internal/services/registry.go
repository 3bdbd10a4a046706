package services

import "jobboard_backend/internal/email"

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService        AuthService
	UserService        UserService
	JobService         JobService
	ApplicationService ApplicationService
	CompanyService     CompanyService
	EmailService       email.Provider
}
