package services

import (
	"time"

	"jobboard_backend/internal/apperrors"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"

	"gorm.io/gorm"
)

type ApplicationService interface {
	Apply(db *gorm.DB, jobID, applicantID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
	Withdraw(db *gorm.DB, jobID, applicantID string) (*dto.ApplicationResponse, error)
	UpdateStatus(db *gorm.DB, applicationID, employerID string, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error)
	ListForJob(db *gorm.DB, jobID, employerID string) ([]*dto.ApplicationResponse, error)
	ListForApplicant(db *gorm.DB, applicantID string) ([]*dto.ApplicationResponse, error)
}

type ApplicationServiceImpl struct {
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
) ApplicationService {
	return &ApplicationServiceImpl{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
	}
}

// Apply - отклик соискателя на вакансию. Вакансия должна быть APPROVED
// с непрошедшим дедлайном; повторный отклик на ту же вакансию запрещен.
// Проверка дубликата и вставка идут в одной транзакции, уникальный
// индекс (job_id, applicant_id) страхует от гонки.
func (s *ApplicationServiceImpl) Apply(db *gorm.DB, jobID, applicantID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	if job.PostedByID == applicantID {
		return nil, apperrors.ErrCannotApplyToOwnJob
	}
	if job.Status != models.JobStatusApproved {
		return nil, apperrors.ErrJobNotOpen
	}
	if time.Now().After(job.ApplicationDeadline) {
		return nil, apperrors.ErrDeadlinePassed
	}

	application := &models.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Resume:      req.Resume,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationStatusPending,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.applicationRepo.FindByJobAndApplicant(tx, jobID, applicantID)
		if err == nil && existing != nil {
			return repositories.ErrApplicationAlreadyExists
		}
		if err != nil && !apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return err
		}

		return s.applicationRepo.Create(tx, application)
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationAlreadyExists) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}

	return buildApplicationResponse(application, job), nil
}

// Withdraw - отзыв собственного отклика. Разрешен только из PENDING
// и пока вакансия не закрыта; статус становится WITHDRAWN и обратного пути нет.
func (s *ApplicationServiceImpl) Withdraw(db *gorm.DB, jobID, applicantID string) (*dto.ApplicationResponse, error) {
	application, err := s.applicationRepo.FindByJobAndApplicant(db, jobID, applicantID)
	if err != nil {
		return nil, apperrors.ErrApplicationNotFound
	}

	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	if job.Status == models.JobStatusClosed {
		return nil, apperrors.ErrCannotWithdraw
	}
	if application.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrCannotWithdraw
	}

	if err := s.applicationRepo.UpdateStatus(db, application.ID, models.ApplicationStatusWithdrawn, ""); err != nil {
		return nil, apperrors.InternalError(err)
	}
	application.Status = models.ApplicationStatusWithdrawn

	return buildApplicationResponse(application, job), nil
}

// UpdateStatus - смена статуса отклика работодателем-автором вакансии.
// WITHDRAWN терминален: вернуть отозванный отклик в работу нельзя.
func (s *ApplicationServiceImpl) UpdateStatus(db *gorm.DB, applicationID, employerID string, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error) {
	if !models.ValidApplicationStatus(req.Status) {
		return nil, apperrors.NewBadRequestError("Unknown application status")
	}
	if req.Status == models.ApplicationStatusWithdrawn {
		return nil, apperrors.NewBadRequestError("Only the applicant can withdraw an application")
	}

	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		return nil, apperrors.ErrApplicationNotFound
	}

	job := application.Job
	if job == nil {
		job, err = s.jobRepo.FindByID(db, application.JobID)
		if err != nil {
			return nil, apperrors.ErrJobNotFound
		}
	}

	if job.PostedByID != employerID {
		return nil, apperrors.NewForbiddenError("You can only manage applications to your own jobs")
	}
	if application.Status == models.ApplicationStatusWithdrawn {
		return nil, apperrors.ErrApplicationWithdrawn
	}

	if err := s.applicationRepo.UpdateStatus(db, application.ID, req.Status, req.EmployerNotes); err != nil {
		return nil, apperrors.InternalError(err)
	}
	application.Status = req.Status
	if req.EmployerNotes != "" {
		application.EmployerNotes = req.EmployerNotes
	}

	return buildApplicationResponse(application, job), nil
}

// ListForJob - отклики на вакансию для её автора
func (s *ApplicationServiceImpl) ListForJob(db *gorm.DB, jobID, employerID string) ([]*dto.ApplicationResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	if job.PostedByID != employerID {
		return nil, apperrors.NewForbiddenError("You can only view applications to your own jobs")
	}

	applications, err := s.applicationRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, buildApplicationResponse(&applications[i], job))
	}
	return responses, nil
}

// ListForApplicant - все отклики соискателя, включая отозванные
func (s *ApplicationServiceImpl) ListForApplicant(db *gorm.DB, applicantID string) ([]*dto.ApplicationResponse, error) {
	applications, err := s.applicationRepo.FindByApplicant(db, applicantID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, buildApplicationResponse(&applications[i], applications[i].Job))
	}
	return responses, nil
}

// --- Helpers ---

func buildApplicationResponse(application *models.Application, job *models.Job) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:            application.ID,
		JobID:         application.JobID,
		ApplicantID:   application.ApplicantID,
		Resume:        application.Resume,
		CoverLetter:   application.CoverLetter,
		Status:        application.Status,
		EmployerNotes: application.EmployerNotes,
		CreatedAt:     application.CreatedAt,
	}
	if job != nil {
		resp.JobTitle = job.Title
	}
	if application.Applicant != nil {
		resp.ApplicantName = application.Applicant.Name
	}
	return resp
}
