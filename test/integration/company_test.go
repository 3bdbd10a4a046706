package integration_test

import (
	"net/http"
	"testing"
	"time"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompanyProfile_AutoProvisioned - у работодателя без компании
// первый запрос профиля создает заглушку.
func TestCompanyProfile_AutoProvisioned(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	// Работодатель без company_name при регистрации
	registerBody := map[string]interface{}{
		"name":     "Solo Founder",
		"email":    "solo@startup.com",
		"password": "password123",
		"role":     "employer",
	}
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	token, _ := helpers.LoginUser(t, ts, "solo@startup.com", "password123", models.UserRoleEmployer)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/users/employer/company", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Solo Founder's Company")

	var count int64
	ts.DB.Model(&models.Company{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

// TestCompanyProfile_Update - частичное обновление профиля компании
func TestCompanyProfile_Update(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	token, _, _ := helpers.CreateAndLoginEmployer(t, ts)

	updateBody := map[string]interface{}{
		"name":     "Renamed Corp",
		"industry": "Fintech",
		"website":  "https://renamed.example.com",
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPatch, "/api/v1/users/employer/company", token, updateBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Renamed Corp")
	assert.Contains(t, bodyStr, "Fintech")
}

// TestCompanyProfile_ForbiddenForJobseeker
func TestCompanyProfile_ForbiddenForJobseeker(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	token, _ := helpers.CreateAndLoginJobseeker(t, ts)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/users/employer/company", token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

// TestExpiredJobs_AutoClose - просроченные APPROVED вакансии закрываются
// той же операцией, которую гоняет фоновый воркер.
func TestExpiredJobs_AutoClose(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	_, employer, _ := helpers.CreateAndLoginEmployer(t, ts)

	expired := helpers.CreateJob(t, ts.DB, employer, models.JobStatusApproved, time.Now().Add(-1*time.Hour))
	active := helpers.CreateJob(t, ts.DB, employer, models.JobStatusApproved, time.Now().Add(7*24*time.Hour))
	rejected := helpers.CreateJob(t, ts.DB, employer, models.JobStatusRejected, time.Now().Add(-1*time.Hour))

	jobRepo := repositories.NewJobRepository()
	closed, err := jobRepo.CloseExpired(ts.DB, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	// Свежая структура на каждый First: GORM добавляет первичный ключ
	// заполненной структуры в условия запроса
	var closedJob models.Job
	require.NoError(t, ts.DB.First(&closedJob, "id = ?", expired.ID).Error)
	assert.Equal(t, models.JobStatusClosed, closedJob.Status)

	var activeJob models.Job
	require.NoError(t, ts.DB.First(&activeJob, "id = ?", active.ID).Error)
	assert.Equal(t, models.JobStatusApproved, activeJob.Status)

	var rejectedJob models.Job
	require.NoError(t, ts.DB.First(&rejectedJob, "id = ?", rejected.ID).Error)
	assert.Equal(t, models.JobStatusRejected, rejectedJob.Status)
}
