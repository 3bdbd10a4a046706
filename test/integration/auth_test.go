package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"jobboard_backend/internal/models"
	"jobboard_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegisterAndLogin_Jobseeker - регистрация соискателя и повторный логин
// сохраняют роль и сразу выдают рабочую пару токенов.
func TestRegisterAndLogin_Jobseeker(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	registerBody := map[string]interface{}{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "password123",
		"role":     "jobseeker",
	}

	regRes, regBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	assert.Equal(t, http.StatusCreated, regRes.StatusCode, regBodyStr)

	var regResponse struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal([]byte(regBodyStr), &regResponse))
	assert.Equal(t, "jobseeker", regResponse.User.Role)
	assert.NotEmpty(t, regResponse.AccessToken)
	assert.NotEmpty(t, regResponse.RefreshToken)

	// Логин с теми же кредами
	loginBody := map[string]interface{}{
		"email":    "jane@example.com",
		"password": "password123",
		"role":     "jobseeker",
	}
	logRes, logBodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusOK, logRes.StatusCode, logBodyStr)
	assert.Contains(t, logBodyStr, "Login successful")

	// Access токен дает доступ к профилю с той же ролью
	var logResponse struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal([]byte(logBodyStr), &logResponse))

	meRes, meBodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", logResponse.AccessToken, nil)
	assert.Equal(t, http.StatusOK, meRes.StatusCode)
	assert.Contains(t, meBodyStr, `"role":"jobseeker"`)
}

// TestRegister_EmployerWithCompany - работодателю при регистрации создается компания
func TestRegister_EmployerWithCompany(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	registerBody := map[string]interface{}{
		"name":         "Bob",
		"email":        "bob@corp.com",
		"password":     "password123",
		"role":         "employer",
		"company_name": "Acme GmbH",
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	assert.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Acme GmbH")

	var count int64
	ts.DB.Model(&models.Company{}).Where("name = ?", "Acme GmbH").Count(&count)
	assert.Equal(t, int64(1), count)
}

// TestRegister_DuplicateEmail - повторная регистрация на тот же email отклоняется
func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	body := map[string]interface{}{
		"name":     "First",
		"email":    "dup@example.com",
		"password": "password123",
		"role":     "jobseeker",
	}
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	body["name"] = "Second"
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "Email already exists")
}

// TestRegister_AdminRoleRejected - роль admin не регистрируется публично
func TestRegister_AdminRoleRejected(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	body := map[string]interface{}{
		"name":     "Eve",
		"email":    "eve@example.com",
		"password": "password123",
		"role":     "admin",
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Invalid user role")
}

// TestLogin_WrongRole - валидные креды с чужой ролью не проходят
func TestLogin_WrongRole(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	email := fmt.Sprintf("seeker_%d@test.com", time.Now().UnixNano())
	helpers.CreateAndLoginUser(t, ts, "Seeker", email, "password123", models.UserRoleJobseeker)

	loginBody := map[string]interface{}{
		"email":    email,
		"password": "password123",
		"role":     "employer",
	}
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// TestLogin_WrongPassword - неверный пароль дает 401 без деталей
func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	email := fmt.Sprintf("seeker_%d@test.com", time.Now().UnixNano())
	helpers.CreateAndLoginUser(t, ts, "Seeker", email, "password123", models.UserRoleJobseeker)

	loginBody := map[string]interface{}{
		"email":    email,
		"password": "wrong-password",
		"role":     "jobseeker",
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, bodyStr, "Invalid email or password")
}

// TestRefreshToken_Rotation - refresh выдает новую пару, старый refresh
// токен отзывается и повторно не принимается.
func TestRefreshToken_Rotation(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	email := fmt.Sprintf("seeker_%d@test.com", time.Now().UnixNano())
	user := &models.User{Name: "Seeker", Email: email, Role: models.UserRoleJobseeker}
	helpers.CreateUser(t, ts.DB, user, "password123")
	_, refreshToken := helpers.LoginUser(t, ts, email, "password123", models.UserRoleJobseeker)

	// Первый refresh проходит
	refreshBody := map[string]interface{}{"refreshToken": refreshToken}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh-token", "", refreshBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	var refreshResponse struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &refreshResponse))
	assert.NotEmpty(t, refreshResponse.AccessToken)
	assert.NotEqual(t, refreshToken, refreshResponse.RefreshToken)

	// Старый refresh токен уже отозван
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh-token", "", refreshBody)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, bodyStr, "revoked")
}

// TestLogout_RevokesRefreshToken - после logout refresh токен не работает,
// повторный logout с тем же токеном не ошибка.
func TestLogout_RevokesRefreshToken(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	email := fmt.Sprintf("seeker_%d@test.com", time.Now().UnixNano())
	user := &models.User{Name: "Seeker", Email: email, Role: models.UserRoleJobseeker}
	helpers.CreateUser(t, ts.DB, user, "password123")
	_, refreshToken := helpers.LoginUser(t, ts, email, "password123", models.UserRoleJobseeker)

	logoutBody := map[string]interface{}{"refreshToken": refreshToken}
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/logout", "", logoutBody)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh-token", "", logoutBody)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Идемпотентность
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/logout", "", logoutBody)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

// TestAccessToken_RejectedForRefreshEndpointAndViceVersa - access токен
// не принимается как refresh, refresh не открывает защищенные маршруты.
func TestTokenTypeConfusion(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	email := fmt.Sprintf("seeker_%d@test.com", time.Now().UnixNano())
	user := &models.User{Name: "Seeker", Email: email, Role: models.UserRoleJobseeker}
	helpers.CreateUser(t, ts.DB, user, "password123")
	accessToken, refreshToken := helpers.LoginUser(t, ts, email, "password123", models.UserRoleJobseeker)

	// Access токен вместо refresh
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh-token", "",
		map[string]interface{}{"refreshToken": accessToken})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Refresh токен вместо access
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", refreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// TestProtectedRoute_RequiresToken
func TestProtectedRoute_RequiresToken(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// TestChangePassword - смена пароля: старый перестает работать, новый работает
func TestChangePassword(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	email := fmt.Sprintf("seeker_%d@test.com", time.Now().UnixNano())
	token, _ := helpers.CreateAndLoginUser(t, ts, "Seeker", email, "password123", models.UserRoleJobseeker)

	changeBody := map[string]interface{}{
		"currentPassword": "password123",
		"newPassword":     "newpassword456",
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/change-password", token, changeBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	oldLogin := map[string]interface{}{"email": email, "password": "password123", "role": "jobseeker"}
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", oldLogin)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	newLogin := map[string]interface{}{"email": email, "password": "newpassword456", "role": "jobseeker"}
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", newLogin)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

// TestResetPassword_RevokesRefreshTokens - сброс пароля отзывает
// все ранее выданные refresh токены, а не только будущие.
func TestResetPassword_RevokesRefreshTokens(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	email := fmt.Sprintf("reset_%d@test.com", time.Now().UnixNano())
	user := &models.User{Name: "Seeker", Email: email, Role: models.UserRoleJobseeker}
	helpers.CreateUser(t, ts.DB, user, "password123")
	_, refreshToken := helpers.LoginUser(t, ts, email, "password123", models.UserRoleJobseeker)

	resetReqBody := map[string]interface{}{"email": email}
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/request-password-reset", "", resetReqBody)
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Токен сброса уходит письмом; в тесте читаем его напрямую из БД
	var stored models.User
	require.NoError(t, ts.DB.First(&stored, "email = ?", email).Error)
	require.NotEmpty(t, stored.ResetToken)

	confirmBody := map[string]interface{}{
		"token":       stored.ResetToken,
		"newPassword": "newpassword456",
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/reset-password", "", confirmBody)
	require.Equal(t, http.StatusOK, res.StatusCode, bodyStr)

	// Выданный до сброса refresh токен больше не работает
	refreshBody := map[string]interface{}{"refreshToken": refreshToken}
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh-token", "", refreshBody)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "revoked")

	// Логин с новым паролем выдает рабочую пару
	_, newRefresh := helpers.LoginUser(t, ts, email, "newpassword456", models.UserRoleJobseeker)
	refreshBody = map[string]interface{}{"refreshToken": newRefresh}
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh-token", "", refreshBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
}
