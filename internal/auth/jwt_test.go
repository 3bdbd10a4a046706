package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, accessTTL, refreshTTL, leeway time.Duration) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("unit-test-secret", accessTTL, refreshTTL, leeway)
	require.NoError(t, err)
	return m
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour, time.Hour, 0)
	assert.ErrorIs(t, err, ErrSecretNotSet)
}

func TestIssueAndParse_RoundTrip(t *testing.T) {
	m := newTestManager(t, time.Hour, 7*24*time.Hour, 0)

	pair, err := m.Issue("user-1", "Jobseeker", 0)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := m.Parse(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	// Роль нормализуется к нижнему регистру
	assert.Equal(t, "jobseeker", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)

	refreshClaims, err := m.Parse(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.Type)
}

func TestParse_WrongSecret(t *testing.T) {
	m := newTestManager(t, time.Hour, time.Hour, 0)
	other, err := NewTokenManager("different-secret", time.Hour, time.Hour, 0)
	require.NoError(t, err)

	pair, err := m.Issue("user-1", "admin", 0)
	require.NoError(t, err)

	_, err = other.Parse(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_Garbage(t *testing.T) {
	m := newTestManager(t, time.Hour, time.Hour, 0)

	_, err := m.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_Expired(t *testing.T) {
	m := newTestManager(t, -time.Minute, -time.Minute, 0)

	pair, err := m.Issue("user-1", "employer", 0)
	require.NoError(t, err)

	_, err = m.Parse(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_ExpiredWithinLeeway(t *testing.T) {
	// Токен истек 10 секунд назад, но допуск 30 секунд его еще принимает
	m := newTestManager(t, -10*time.Second, -10*time.Second, 30*time.Second)

	pair, err := m.Issue("user-1", "employer", 0)
	require.NoError(t, err)

	claims, err := m.Parse(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	// А без допуска тот же токен отклоняется
	strict := newTestManager(t, time.Hour, time.Hour, 0)
	_, err = strict.Parse(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseType(t *testing.T) {
	m := newTestManager(t, time.Hour, time.Hour, 0)

	pair, err := m.Issue("user-1", "jobseeker", 0)
	require.NoError(t, err)

	_, err = m.ParseType(pair.AccessToken, TokenTypeAccess)
	assert.NoError(t, err)

	_, err = m.ParseType(pair.AccessToken, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = m.ParseType(pair.RefreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRemainingTTL(t *testing.T) {
	m := newTestManager(t, time.Hour, time.Hour, 0)

	pair, err := m.Issue("user-1", "jobseeker", 0)
	require.NoError(t, err)

	claims, err := m.Parse(pair.AccessToken)
	require.NoError(t, err)

	remaining := m.RemainingTTL(claims)
	assert.Greater(t, remaining, 55*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)

	// Для истекших токенов - ноль, не отрицательное значение
	expired := newTestManager(t, -time.Minute, -time.Minute, 5*time.Minute)
	pair, err = expired.Issue("user-1", "jobseeker", 0)
	require.NoError(t, err)
	claims, err = expired.Parse(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), expired.RemainingTTL(claims))
}

// Два выпуска подряд дают разные токены даже в пределах одной секунды:
// iat/exp имеют секундную точность, уникальность обеспечивает jti.
func TestIssue_DistinctTokensPerIssue(t *testing.T) {
	m := newTestManager(t, time.Hour, time.Hour, 0)

	first, err := m.Issue("user-1", "jobseeker", 0)
	require.NoError(t, err)
	second, err := m.Issue("user-1", "jobseeker", 0)
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	claims, err := m.Parse(first.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

// Версия токенов переносится в claims без изменений
func TestIssue_TokenVersionClaim(t *testing.T) {
	m := newTestManager(t, time.Hour, time.Hour, 0)

	pair, err := m.Issue("user-1", "jobseeker", 3)
	require.NoError(t, err)

	claims, err := m.Parse(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.TokenVersion)
}
