package services

import (
	"strings"
	"time"

	"jobboard_backend/internal/apperrors"
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(refreshToken string) error
	VerifyEmail(db *gorm.DB, token string) error
	RequestPasswordReset(db *gorm.DB, emailAddr string) error
	ResetPassword(db *gorm.DB, token, newPassword string) error
	ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	companyRepo   repositories.CompanyRepository
	tokens        *auth.TokenManager
	blacklist     auth.TokenBlacklist
	emailProvider email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	tokens *auth.TokenManager,
	blacklist auth.TokenBlacklist,
	emailProvider email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		companyRepo:   companyRepo,
		tokens:        tokens,
		blacklist:     blacklist,
		emailProvider: emailProvider,
	}
}

// Register - регистрация нового пользователя.
// Админы не регистрируются через публичный эндпоинт, только employer и jobseeker.
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	role := models.UserRole(strings.ToLower(string(req.Role)))
	if role != models.UserRoleEmployer && role != models.UserRoleJobseeker {
		return nil, apperrors.ErrInvalidUserRole
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:              req.Name,
		Email:             strings.ToLower(req.Email),
		PasswordHash:      hashedPassword,
		Role:              role,
		EmailVerified:     false,
		VerificationToken: generateRandomToken(),
	}

	// Пользователь и компания работодателя создаются атомарно
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}

		if role == models.UserRoleEmployer && req.CompanyName != "" {
			company := &models.Company{Name: req.CompanyName}
			if err := s.companyRepo.Create(tx, company); err != nil {
				return err
			}
			if err := s.userRepo.SetCompany(tx, user.ID, company.ID); err != nil {
				return err
			}
			user.CompanyID = &company.ID
			user.Company = company
		}

		return nil
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	tokenPair, err := s.tokens.Issue(user.ID, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.sendVerificationEmail(user.Email, user.VerificationToken)

	return &dto.AuthResponse{
		Message:      "Registration successful",
		User:         buildUserResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	}, nil
}

// Login - аутентификация пользователя.
// Роль из запроса сверяется с ролью аккаунта: логин работодателя
// через форму соискателя не проходит.
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, strings.ToLower(req.Email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	requestedRole := models.UserRole(strings.ToLower(string(req.Role)))
	if !models.ValidUserRole(requestedRole) {
		return nil, apperrors.ErrInvalidUserRole
	}
	if requestedRole != user.Role {
		return nil, apperrors.ErrRoleMismatch
	}

	tokenPair, err := s.tokens.Issue(user.ID, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Message:      "Login successful",
		User:         buildUserResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	}, nil
}

// RefreshToken - обновление пары токенов по refresh token с ротацией:
// старый refresh token попадает в blacklist на остаток своего TTL.
func (s *AuthServiceImpl) RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.tokens.ParseType(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if s.blacklist.IsRevoked(refreshToken) {
		return nil, apperrors.ErrTokenRevoked
	}

	user, err := s.userRepo.FindByID(db, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Токены, выпущенные до смены token_version (сброс пароля), отозваны
	if claims.TokenVersion != user.TokenVersion {
		return nil, apperrors.ErrTokenRevoked
	}

	// Ротация: старый токен отзывается до выпуска нового
	s.blacklist.Revoke(refreshToken, s.tokens.RemainingTTL(claims))

	tokenPair, err := s.tokens.Issue(user.ID, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Message:      "Token refreshed",
		User:         buildUserResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	}, nil
}

// Logout - выход: refresh token отзывается на остаток своего TTL.
// Идемпотентен: повторный logout с тем же токеном не ошибка.
func (s *AuthServiceImpl) Logout(refreshToken string) error {
	claims, err := s.tokens.ParseType(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		// Истекший или невалидный токен отзывать не нужно
		return nil
	}

	s.blacklist.Revoke(refreshToken, s.tokens.RemainingTTL(claims))
	return nil
}

// VerifyEmail - подтверждение email по токену верификации
func (s *AuthServiceImpl) VerifyEmail(db *gorm.DB, token string) error {
	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	return s.userRepo.VerifyEmail(db, user.ID)
}

// RequestPasswordReset - запрос сброса пароля.
// Существование email не раскрывается: при отсутствии аккаунта тоже успех.
func (s *AuthServiceImpl) RequestPasswordReset(db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, strings.ToLower(emailAddr))
	if err != nil {
		return nil
	}

	resetToken := generateRandomToken()
	resetTokenExp := time.Now().Add(1 * time.Hour)

	user.ResetToken = resetToken
	user.ResetTokenExp = &resetTokenExp

	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	s.sendPasswordResetEmail(user.Email, resetToken)

	return nil
}

// ResetPassword - сброс пароля по токену. Инкремент token_version
// отзывает все refresh токены, выданные до сброса.
func (s *AuthServiceImpl) ResetPassword(db *gorm.DB, token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(db, token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hashedPassword
	user.ResetToken = ""
	user.ResetTokenExp = nil
	user.TokenVersion++

	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	return nil
}

// ChangePassword - смена пароля при известном текущем
func (s *AuthServiceImpl) ChangePassword(db *gorm.DB, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hashedPassword
	return s.userRepo.Update(db, user)
}

// --- Helpers ---

func buildUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		Company:       user.Company,
	}
}

func (s *AuthServiceImpl) sendVerificationEmail(to, token string) {
	if s.emailProvider == nil {
		return
	}

	go func() {
		if err := s.emailProvider.SendVerification(to, token); err != nil {
			logger.Warn("Failed to send verification email", "error", err.Error())
		}
	}()
}

func (s *AuthServiceImpl) sendPasswordResetEmail(to, token string) {
	if s.emailProvider == nil {
		return
	}

	go func() {
		if err := s.emailProvider.SendPasswordReset(to, token); err != nil {
			logger.Warn("Failed to send password reset email", "error", err.Error())
		}
	}()
}

// generateRandomToken генерирует непредсказуемый одноразовый токен
func generateRandomToken() string {
	return uuid.NewString()
}
