package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError - основная структура ошибки приложения
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Конструктор
func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// Wrap оборачивает существующую ошибку в AppError
func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

// Вспомогательные методы
func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// MarshalJSON - для кастомного вывода JSON
func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is - обертка над стандартной функцией errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As - обертка над стандартной функцией errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Предопределенные ошибки
var (
	// Аутентификация
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid token", http.StatusUnauthorized)
	ErrTokenExpired       = New(CodeTokenExpired, "Token has expired", http.StatusUnauthorized)
	ErrTokenRevoked       = New(CodeTokenRevoked, "Token has been revoked", http.StatusUnauthorized)
	ErrNotAccessToken     = New(CodeInvalidToken, "Access token required", http.StatusUnauthorized)

	// Пользователи
	ErrUserNotFound            = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailAlreadyExists      = New(CodeEmailAlreadyExists, "Email already exists", http.StatusConflict)
	ErrWeakPassword            = New(CodeWeakPassword, "Password must be at least 6 characters", http.StatusBadRequest)
	ErrInvalidUserRole         = New(CodeInvalidUserRole, "Invalid user role", http.StatusBadRequest)
	ErrRoleMismatch            = New(CodeInvalidCredentials, "Invalid email or password for this role", http.StatusUnauthorized)
	ErrInsufficientPermissions = New(CodeInsufficientPermissions, "Insufficient permissions", http.StatusForbidden)

	// Компании
	ErrCompanyNotFound = New(CodeCompanyNotFound, "Company not found", http.StatusNotFound)

	// Вакансии
	ErrJobNotFound        = New(CodeJobNotFound, "Job not found", http.StatusNotFound)
	ErrInvalidJobStatus   = New(CodeInvalidJobStatus, "Invalid job status transition", http.StatusBadRequest)
	ErrJobNotOpen         = New(CodeJobNotOpen, "Job is not open for applications", http.StatusBadRequest)
	ErrSalaryRangeInvalid = New(CodeSalaryRangeInvalid, "Minimum salary cannot exceed maximum salary", http.StatusBadRequest)
	ErrDeadlineInPast     = New(CodeValidationFailed, "Application deadline must be in the future", http.StatusBadRequest)

	// Отклики
	ErrDeadlinePassed       = New(CodeDeadlinePassed, "Application deadline has passed", http.StatusBadRequest)
	ErrAlreadyApplied       = New(CodeAlreadyApplied, "You have already applied to this job", http.StatusConflict)
	ErrApplicationNotFound  = New(CodeApplicationNotFound, "Application not found", http.StatusNotFound)
	ErrApplicationWithdrawn = New(CodeApplicationWithdrawn, "Application has been withdrawn", http.StatusBadRequest)
	ErrCannotWithdraw       = New(CodeInvalidJobStatus, "Application can no longer be withdrawn", http.StatusBadRequest)
	ErrCannotApplyToOwnJob  = New(CodeInsufficientPermissions, "Cannot apply to your own job", http.StatusBadRequest)

	// Валидация
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)
)

// ValidationError создает ошибку валидации с деталями
func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

// InternalError оборачивает неизвестную системную ошибку
func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

// NewUnauthorizedError создает ошибку авторизации
func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

// NewForbiddenError создает ошибку доступа
func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

// NewBadRequestError создает ошибку 400
func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

// NewNotFoundError создает ошибку 404
func NewNotFoundError(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}
