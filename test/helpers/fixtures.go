package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateUser создает пользователя напрямую в БД, хешируя пароль.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User, rawPassword string) {
	t.Helper()

	hashed, err := auth.HashPassword(rawPassword)
	require.NoError(t, err, "Failed to hash test password")
	user.PasswordHash = hashed
	user.EmailVerified = true

	require.NoError(t, db.Create(user).Error, "Failed to create test user")
}

// LoginUser логинит пользователя через API и возвращает пару токенов.
func LoginUser(t *testing.T, ts *TestServer, email, password string, role models.UserRole) (accessToken, refreshToken string) {
	t.Helper()

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
		"role":     string(role),
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "Login should succeed, got: "+bodyStr)

	var loginResponse struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &loginResponse))
	require.NotEmpty(t, loginResponse.AccessToken)

	return loginResponse.AccessToken, loginResponse.RefreshToken
}

// CreateAndLoginUser создает пользователя и возвращает его access токен.
func CreateAndLoginUser(t *testing.T, ts *TestServer, name, email, password string, role models.UserRole) (string, *models.User) {
	t.Helper()

	user := &models.User{
		Name:  name,
		Email: email,
		Role:  role,
	}
	CreateUser(t, ts.DB, user, password)

	token, _ := LoginUser(t, ts, email, password, role)
	return token, user
}

// CreateAndLoginEmployer создает работодателя с компанией.
func CreateAndLoginEmployer(t *testing.T, ts *TestServer) (string, *models.User, *models.Company) {
	t.Helper()

	company := &models.Company{Name: "Test Company Inc.", Location: "Berlin"}
	require.NoError(t, ts.DB.Create(company).Error)

	email := fmt.Sprintf("employer_%d@test.com", time.Now().UnixNano())
	user := &models.User{
		Name:      "Test Employer",
		Email:     email,
		Role:      models.UserRoleEmployer,
		CompanyID: &company.ID,
	}
	CreateUser(t, ts.DB, user, "password123")

	token, _ := LoginUser(t, ts, email, "password123", models.UserRoleEmployer)
	return token, user, company
}

// CreateAndLoginJobseeker создает соискателя.
func CreateAndLoginJobseeker(t *testing.T, ts *TestServer) (string, *models.User) {
	t.Helper()

	email := fmt.Sprintf("jobseeker_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, "Test Jobseeker", email, "password123", models.UserRoleJobseeker)
}

// CreateAndLoginAdmin создает администратора.
// Через публичную регистрацию админа не создать, поэтому напрямую в БД.
func CreateAndLoginAdmin(t *testing.T, ts *TestServer) (string, *models.User) {
	t.Helper()

	email := fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, "Test Admin", email, "password123", models.UserRoleAdmin)
}

// CreateJob создает вакансию напрямую в БД в заданном статусе.
func CreateJob(t *testing.T, db *gorm.DB, employer *models.User, status models.JobStatus, deadline time.Time) *models.Job {
	t.Helper()

	require.NotNil(t, employer.CompanyID, "Employer fixture must have a company")

	reqs, _ := json.Marshal([]string{"Go", "SQL"})
	job := &models.Job{
		Title:               "Backend Engineer",
		CompanyID:           *employer.CompanyID,
		PostedByID:          employer.ID,
		Description:         "Build and operate backend services",
		Requirements:        datatypes.JSON(reqs),
		Location:            "Berlin",
		SalaryMin:           50000,
		SalaryMax:           70000,
		SalaryCurrency:      "EUR",
		JobType:             "full-time",
		Status:              status,
		ApplicationDeadline: deadline,
	}
	require.NoError(t, db.Create(job).Error, "Failed to create test job")
	return job
}
