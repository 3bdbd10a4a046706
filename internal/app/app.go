package app

import (
	"context"
	"errors"
	"fmt"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/handlers"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/routes"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/validator"
	"jobboard_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := SeedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	// Фоновое автозакрытие вакансий с прошедшим дедлайном
	worker := workers.NewJobWorker(gormDB, repositories.NewJobRepository())
	worker.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// AutoMigrate приводит схему БД к моделям
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Job{},
		&models.Application{},
	)
}

// SetupRouter собирает полностью сконфигурированный gin.Engine.
// Вынесен отдельно, чтобы интеграционные тесты могли поднять
// тот же роутер поверх тестовой БД.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	tokenManager, err := auth.NewTokenManager(
		cfg.JWT.Secret,
		cfg.AccessTokenTTL(),
		cfg.RefreshTokenTTL(),
		cfg.TokenLeeway(),
	)
	if err != nil {
		logger.Fatal("Failed to initialize token manager", "error", err)
	}

	blacklist := auth.NewTokenBlacklist()

	serviceContainer := initializeServices(cfg, tokenManager, blacklist)
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter(cfg, gormDB)

	routes.RegisterRoutes(ginRouter, appHandlers, routes.Middlewares{
		Auth:         middleware.AuthMiddleware(tokenManager, blacklist),
		OptionalAuth: middleware.OptionalAuthMiddleware(tokenManager, blacklist),
		RateLimit:    middleware.RateLimitMiddleware(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst),
	})

	return ginRouter
}

func initializeServices(cfg *config.Config, tokenManager *auth.TokenManager, blacklist auth.TokenBlacklist) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPHost != "" {
		emailService = email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    cfg.Email.UseTLS,
		})
	} else {
		logger.Warn("SMTP is not configured, emails are mocked")
		emailService = &MockEmailProvider{}
	}

	userRepo := repositories.NewUserRepository()
	companyRepo := repositories.NewCompanyRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()

	authService := services.NewAuthService(userRepo, companyRepo, tokenManager, blacklist, emailService)
	userService := services.NewUserService(userRepo)
	jobService := services.NewJobService(jobRepo, userRepo, companyRepo, applicationRepo, emailService)
	applicationService := services.NewApplicationService(applicationRepo, jobRepo)
	companyService := services.NewCompanyService(companyRepo, userRepo)

	return &services.ServiceContainer{
		AuthService:        authService,
		UserService:        userService,
		JobService:         jobService,
		ApplicationService: applicationService,
		CompanyService:     companyService,
		EmailService:       emailService,
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	return handlers.NewAppHandlers(serviceContainer, customValidator)
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origin))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// SeedFirstAdmin создает первого администратора из конфигурации.
// Админы не регистрируются через публичный эндпоинт, поэтому без
// затравки в системе не было бы ни одного.
func SeedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Name:          "Administrator",
		Email:         adminEmail,
		PasswordHash:  hashedPassword,
		Role:          models.UserRoleAdmin,
		EmailVerified: true,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
