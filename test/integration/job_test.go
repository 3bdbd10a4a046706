package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"jobboard_backend/internal/models"
	"jobboard_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateJob_StartsPending - созданная вакансия уходит на модерацию
// независимо от того, что прислал клиент.
func TestCreateJob_StartsPending(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	token, _, _ := helpers.CreateAndLoginEmployer(t, ts)

	createBody := map[string]interface{}{
		"title":       "Go Developer",
		"description": "Write Go services",
		"salary_min":  60000,
		"salary_max":  80000,
		"job_type":    "full-time",
		"status":      "APPROVED", // попытка обойти модерацию
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", token, createBody)
	assert.Equal(t, http.StatusCreated, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, `"status":"PENDING"`)
}

// TestCreateJob_InvalidSalaryRange - min > max отклоняется, ничего не сохраняется
func TestCreateJob_InvalidSalaryRange(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	token, _, _ := helpers.CreateAndLoginEmployer(t, ts)

	createBody := map[string]interface{}{
		"title":       "Broken Salary",
		"description": "min exceeds max",
		"salary_min":  90000,
		"salary_max":  50000,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", token, createBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Minimum salary cannot exceed maximum salary")

	var count int64
	ts.DB.Model(&models.Job{}).Where("title = ?", "Broken Salary").Count(&count)
	assert.Equal(t, int64(0), count)
}

// TestCreateJob_DeadlineInPast
func TestCreateJob_DeadlineInPast(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	token, _, _ := helpers.CreateAndLoginEmployer(t, ts)

	createBody := map[string]interface{}{
		"title":                "Expired Before Birth",
		"description":          "deadline already passed",
		"application_deadline": time.Now().Add(-24 * time.Hour).Format(time.RFC3339),
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", token, createBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Application deadline must be in the future")
}

// TestCreateJob_ForbiddenForJobseeker - ролевой гейт на создании вакансий
func TestCreateJob_ForbiddenForJobseeker(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	token, _ := helpers.CreateAndLoginJobseeker(t, ts)

	createBody := map[string]interface{}{
		"title":       "Sneaky Job",
		"description": "posted by a jobseeker",
	}
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", token, createBody)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

// TestModeration_ApproveThenIdempotentRepeat - PENDING -> APPROVED ровно один раз,
// повторный перевод в тот же статус - no-op с тем же результатом.
func TestModeration_ApproveThenIdempotentRepeat(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	_, employer, _ := helpers.CreateAndLoginEmployer(t, ts)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)

	job := helpers.CreateJob(t, ts.DB, employer, models.JobStatusPending, time.Now().Add(7*24*time.Hour))

	transitionBody := map[string]interface{}{"status": "APPROVED"}
	res, bodyStr := ts.SendRequest(t, http.MethodPatch, "/api/v1/admin/jobs/"+job.ID+"/status", adminToken, transitionBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, `"status":"APPROVED"`)

	// Повтор - идемпотентный no-op
	res, bodyStr = ts.SendRequest(t, http.MethodPatch, "/api/v1/admin/jobs/"+job.ID+"/status", adminToken, transitionBody)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"APPROVED"`)

	var stored models.Job
	require.NoError(t, ts.DB.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, models.JobStatusApproved, stored.Status)
}

// TestModeration_InvalidTransition - REJECTED -> APPROVED запрещен
func TestModeration_InvalidTransition(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	_, employer, _ := helpers.CreateAndLoginEmployer(t, ts)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)

	job := helpers.CreateJob(t, ts.DB, employer, models.JobStatusRejected, time.Now().Add(7*24*time.Hour))

	transitionBody := map[string]interface{}{"status": "APPROVED"}
	res, bodyStr := ts.SendRequest(t, http.MethodPatch, "/api/v1/admin/jobs/"+job.ID+"/status", adminToken, transitionBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "Invalid job status transition")
}

// TestModeration_ForbiddenForEmployer - модерация только для админа
func TestModeration_ForbiddenForEmployer(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	employerToken, employer, _ := helpers.CreateAndLoginEmployer(t, ts)
	job := helpers.CreateJob(t, ts.DB, employer, models.JobStatusPending, time.Now().Add(7*24*time.Hour))

	transitionBody := map[string]interface{}{"status": "APPROVED"}
	res, _ := ts.SendRequest(t, http.MethodPatch, "/api/v1/admin/jobs/"+job.ID+"/status", employerToken, transitionBody)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

// TestPublicListing_OnlyApproved - каталог видит только APPROVED вакансии;
// отклоненная вакансия в выдачу не попадает.
func TestPublicListing_OnlyApproved(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	_, employer, _ := helpers.CreateAndLoginEmployer(t, ts)
	deadline := time.Now().Add(7 * 24 * time.Hour)

	approved := helpers.CreateJob(t, ts.DB, employer, models.JobStatusApproved, deadline)
	rejected := helpers.CreateJob(t, ts.DB, employer, models.JobStatusRejected, deadline)
	helpers.CreateJob(t, ts.DB, employer, models.JobStatusPending, deadline)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var listing struct {
		Jobs []struct {
			ID string `json:"id"`
		} `json:"jobs"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &listing))
	assert.Equal(t, int64(1), listing.Total)
	require.Len(t, listing.Jobs, 1)
	assert.Equal(t, approved.ID, listing.Jobs[0].ID)
	assert.NotContains(t, bodyStr, rejected.ID)
}

// TestPublicListing_Filters - текстовый поиск и фильтр по типу занятости
func TestPublicListing_Filters(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	_, employer, _ := helpers.CreateAndLoginEmployer(t, ts)
	deadline := time.Now().Add(7 * 24 * time.Hour)

	match := helpers.CreateJob(t, ts.DB, employer, models.JobStatusApproved, deadline)
	other := helpers.CreateJob(t, ts.DB, employer, models.JobStatusApproved, deadline)
	require.NoError(t, ts.DB.Model(other).Updates(map[string]interface{}{
		"title": "Accountant", "description": "Balance the books", "job_type": "part-time",
	}).Error)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs?q=backend", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, match.ID)
	assert.NotContains(t, bodyStr, other.ID)

	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs?job_type=part-time", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, other.ID)
	assert.NotContains(t, bodyStr, match.ID)
}

// TestGetJob_PendingHiddenFromPublic - чужая PENDING вакансия отдает 404,
// автор и админ ее видят.
func TestGetJob_PendingHiddenFromPublic(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	employerToken, employer, _ := helpers.CreateAndLoginEmployer(t, ts)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)
	seekerToken, _ := helpers.CreateAndLoginJobseeker(t, ts)

	job := helpers.CreateJob(t, ts.DB, employer, models.JobStatusPending, time.Now().Add(7*24*time.Hour))

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID, seekerToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID, employerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

// TestUpdateJob_OnlyOwnPending - редактирование чужих и уже одобренных запрещено
func TestUpdateJob_OnlyOwnPending(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	ownerToken, owner, _ := helpers.CreateAndLoginEmployer(t, ts)
	strangerToken, _, _ := helpers.CreateAndLoginEmployer(t, ts)

	pending := helpers.CreateJob(t, ts.DB, owner, models.JobStatusPending, time.Now().Add(7*24*time.Hour))
	approved := helpers.CreateJob(t, ts.DB, owner, models.JobStatusApproved, time.Now().Add(7*24*time.Hour))

	updateBody := map[string]interface{}{"title": "Renamed"}

	res, _ := ts.SendRequest(t, http.MethodPatch, "/api/v1/jobs/"+pending.ID, strangerToken, updateBody)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPatch, "/api/v1/jobs/"+approved.ID, ownerToken, updateBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, http.MethodPatch, "/api/v1/jobs/"+pending.ID, ownerToken, updateBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, "Renamed")
}

// TestCloseJob_ByEmployer - автор закрывает одобренную вакансию; повтор - no-op
func TestCloseJob_ByEmployer(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	ownerToken, owner, _ := helpers.CreateAndLoginEmployer(t, ts)
	job := helpers.CreateJob(t, ts.DB, owner, models.JobStatusApproved, time.Now().Add(7*24*time.Hour))

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/close", ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, `"status":"CLOSED"`)

	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/"+job.ID+"/close", ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"CLOSED"`)
}

// TestEmployerDashboard - сводка содержит вакансии компании и счетчики
func TestEmployerDashboard(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	ownerToken, owner, company := helpers.CreateAndLoginEmployer(t, ts)
	deadline := time.Now().Add(7 * 24 * time.Hour)
	helpers.CreateJob(t, ts.DB, owner, models.JobStatusPending, deadline)
	helpers.CreateJob(t, ts.DB, owner, models.JobStatusApproved, deadline)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/employer/dashboard", ownerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, bodyStr)
	assert.Contains(t, bodyStr, company.Name)

	var dashboard struct {
		Counts struct {
			Total    int64 `json:"total"`
			Pending  int64 `json:"pending"`
			Approved int64 `json:"approved"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &dashboard))
	assert.Equal(t, int64(2), dashboard.Counts.Total)
	assert.Equal(t, int64(1), dashboard.Counts.Pending)
	assert.Equal(t, int64(1), dashboard.Counts.Approved)
}

// TestAdminList_FilterByStatus
func TestAdminList_FilterByStatus(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	_, employer, _ := helpers.CreateAndLoginEmployer(t, ts)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)
	deadline := time.Now().Add(7 * 24 * time.Hour)

	pending := helpers.CreateJob(t, ts.DB, employer, models.JobStatusPending, deadline)
	approved := helpers.CreateJob(t, ts.DB, employer, models.JobStatusApproved, deadline)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/admin/jobs?status=PENDING", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, pending.ID)
	assert.NotContains(t, bodyStr, approved.ID)
}

// TestGetJob_ClosedHiddenFromPublic - закрытая вакансия, как и любая
// не-APPROVED, видна только автору и админу.
func TestGetJob_ClosedHiddenFromPublic(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	employerToken, employer, _ := helpers.CreateAndLoginEmployer(t, ts)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)
	seekerToken, _ := helpers.CreateAndLoginJobseeker(t, ts)

	job := helpers.CreateJob(t, ts.DB, employer, models.JobStatusClosed, time.Now().Add(-1*time.Hour))

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID, seekerToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID, employerToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
