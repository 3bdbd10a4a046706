package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType различает access и refresh токены
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrSecretNotSet   = errors.New("jwt secret is not configured")
)

// Claims - полезная нагрузка токена
type Claims struct {
	UserID string    `json:"user_id"`
	Role   string    `json:"role"`
	Type   TokenType `json:"type"`
	// Версия токенов пользователя: инкремент на стороне аккаунта
	// инвалидирует все ранее выданные токены разом
	TokenVersion int `json:"token_version"`
	jwt.RegisteredClaims
}

// TokenPair - пара access/refresh токенов
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenManager выпускает и проверяет JWT токены.
// Допуск на рассинхронизацию часов (leeway) задается явно в конфигурации
// вместо повторного декодирования без проверки подписи.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration
}

// NewTokenManager создает менеджер токенов.
// Пустой секрет - ошибка конфигурации, дефолтный секрет не подставляется.
func NewTokenManager(secret string, accessTTL, refreshTTL, leeway time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrSecretNotSet
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		leeway:     leeway,
	}, nil
}

// Issue выпускает пару access/refresh токенов для пользователя.
// Роль нормализуется к нижнему регистру перед записью в claims.
func (m *TokenManager) Issue(userID, role string, tokenVersion int) (*TokenPair, error) {
	role = strings.ToLower(role)

	accessToken, err := m.generate(userID, role, tokenVersion, TokenTypeAccess, m.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := m.generate(userID, role, tokenVersion, TokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (m *TokenManager) generate(userID, role string, tokenVersion int, tokenType TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:       userID,
		Role:         role,
		Type:         tokenType,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			// Уникальный jti: iat/exp имеют секундную точность, и без него
			// два токена, выпущенные в одну секунду, были бы побайтово равны
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse проверяет подпись и срок действия токена и возвращает claims.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrTokenInvalid
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(m.leeway),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	// Старые токены несли id в subject вместо user_id
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// ParseType проверяет токен и дополнительно сверяет его тип.
func (m *TokenManager) ParseType(tokenStr string, tokenType TokenType) (*Claims, error) {
	claims, err := m.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// RemainingTTL возвращает оставшийся срок жизни токена.
// Для истекших токенов возвращает 0.
func (m *TokenManager) RemainingTTL(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}
