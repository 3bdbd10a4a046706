package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Коды ошибок сгруппированные по доменам
const (
	// Аутентификация и авторизация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	CodeTokenRevoked       ErrorCode = "TOKEN_REVOKED"

	// Валидация
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"
	CodeInvalidUserRole  ErrorCode = "INVALID_USER_ROLE"

	// Ресурсы
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	CodeJobNotFound         ErrorCode = "JOB_NOT_FOUND"
	CodeCompanyNotFound     ErrorCode = "COMPANY_NOT_FOUND"
	CodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"

	// Бизнес-логика
	CodeEmailAlreadyExists      ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
	CodeInvalidJobStatus        ErrorCode = "INVALID_JOB_STATUS"
	CodeJobNotOpen              ErrorCode = "JOB_NOT_OPEN"
	CodeDeadlinePassed          ErrorCode = "DEADLINE_PASSED"
	CodeAlreadyApplied          ErrorCode = "ALREADY_APPLIED"
	CodeApplicationWithdrawn    ErrorCode = "APPLICATION_WITHDRAWN"
	CodeSalaryRangeInvalid      ErrorCode = "SALARY_RANGE_INVALID"

	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
)
