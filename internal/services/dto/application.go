package dto

import (
	"time"

	"jobboard_backend/internal/models"
)

type ApplyRequest struct {
	Resume      string `json:"resume" binding:"required"`
	CoverLetter string `json:"coverLetter"`
}

type UpdateApplicationStatusRequest struct {
	Status        models.ApplicationStatus `json:"status" binding:"required"`
	EmployerNotes string                   `json:"employerNotes"`
}

type ApplicationResponse struct {
	ID            string                   `json:"id"`
	JobID         string                   `json:"job_id"`
	JobTitle      string                   `json:"job_title,omitempty"`
	ApplicantID   string                   `json:"applicant_id"`
	ApplicantName string                   `json:"applicant_name,omitempty"`
	Resume        string                   `json:"resume"`
	CoverLetter   string                   `json:"cover_letter"`
	Status        models.ApplicationStatus `json:"status"`
	EmployerNotes string                   `json:"employer_notes,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}
