package dto

import (
	"time"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
)

type CreateJobRequest struct {
	Title               string     `json:"title" binding:"required"`
	Description         string     `json:"description" binding:"required"`
	Requirements        []string   `json:"requirements"`
	Location            string     `json:"location"`
	SalaryMin           float64    `json:"salary_min"`
	SalaryMax           float64    `json:"salary_max"`
	SalaryCurrency      string     `json:"salary_currency"`
	JobType             string     `json:"job_type" validate:"omitempty,oneof=full-time part-time contract internship remote"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	Skills              []string   `json:"skills"`
}

type UpdateJobRequest struct {
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	Requirements        []string   `json:"requirements"`
	Location            *string    `json:"location"`
	SalaryMin           *float64   `json:"salary_min"`
	SalaryMax           *float64   `json:"salary_max"`
	SalaryCurrency      *string    `json:"salary_currency"`
	JobType             *string    `json:"job_type" validate:"omitempty,oneof=full-time part-time contract internship remote"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	Skills              []string   `json:"skills"`
}

type JobSearchQuery struct {
	Query     string   `form:"q"`
	Location  string   `form:"location"`
	JobType   string   `form:"job_type"`
	SalaryMin *float64 `form:"salary_min"`
	SalaryMax *float64 `form:"salary_max"`
	SortBy    string   `form:"sort_by"`
	SortOrder string   `form:"sort_order"`
}

type TransitionJobStatusRequest struct {
	Status     models.JobStatus `json:"status" binding:"required" validate:"oneof=APPROVED REJECTED CLOSED"`
	AdminNotes string           `json:"adminNotes"`
}

type JobResponse struct {
	ID                  string           `json:"id"`
	Title               string           `json:"title"`
	CompanyID           string           `json:"company_id"`
	Company             *models.Company  `json:"company,omitempty"`
	PostedByID          string           `json:"posted_by_id"`
	Description         string           `json:"description"`
	Requirements        []string         `json:"requirements"`
	Location            string           `json:"location"`
	SalaryMin           float64          `json:"salary_min"`
	SalaryMax           float64          `json:"salary_max"`
	SalaryCurrency      string           `json:"salary_currency"`
	JobType             string           `json:"job_type"`
	Status              models.JobStatus `json:"status"`
	ApplicationDeadline time.Time        `json:"application_deadline"`
	Skills              []string         `json:"skills"`
	ViewsCount          int              `json:"views_count"`
	AdminNotes          string           `json:"admin_notes,omitempty"`
	ApplicationsCount   int64            `json:"applications_count"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type JobListResponse struct {
	Jobs     []*JobResponse `json:"jobs"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type EmployerDashboardResponse struct {
	Company            *models.Company               `json:"company"`
	Jobs               []*JobResponse                `json:"jobs"`
	Counts             *repositories.JobStatusCounts `json:"counts"`
	RecentApplications []*ApplicationResponse        `json:"recent_applications"`
}
