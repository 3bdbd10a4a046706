package services

import (
	"encoding/json"
	"time"

	"jobboard_backend/internal/apperrors"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Срок приёма откликов по умолчанию, когда работодатель его не указал
const defaultDeadlineDays = 30

type JobService interface {
	Create(db *gorm.DB, employerID string, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	Get(db *gorm.DB, jobID, requesterID string, requesterRole models.UserRole) (*dto.JobResponse, error)
	Update(db *gorm.DB, jobID, employerID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error)
	Delete(db *gorm.DB, jobID, employerID string) error
	ListPublic(db *gorm.DB, query *dto.JobSearchQuery, page, pageSize int) (*dto.JobListResponse, error)
	EmployerDashboard(db *gorm.DB, employerID string) (*dto.EmployerDashboardResponse, error)
	AdminList(db *gorm.DB, status models.JobStatus, page, pageSize int) (*dto.JobListResponse, error)
	TransitionStatus(db *gorm.DB, jobID string, req *dto.TransitionJobStatusRequest) (*dto.JobResponse, error)
	Close(db *gorm.DB, jobID, employerID string) (*dto.JobResponse, error)
}

type JobServiceImpl struct {
	jobRepo         repositories.JobRepository
	userRepo        repositories.UserRepository
	companyRepo     repositories.CompanyRepository
	applicationRepo repositories.ApplicationRepository
	emailProvider   email.Provider
}

func NewJobService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	applicationRepo repositories.ApplicationRepository,
	emailProvider email.Provider,
) JobService {
	return &JobServiceImpl{
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		companyRepo:     companyRepo,
		applicationRepo: applicationRepo,
		emailProvider:   emailProvider,
	}
}

// Create - создание вакансии работодателем. Статус всегда PENDING,
// что бы ни пришло в запросе: модерация обязательна.
func (s *JobServiceImpl) Create(db *gorm.DB, employerID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	employer, err := s.userRepo.FindByID(db, employerID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	if req.SalaryMin > 0 && req.SalaryMax > 0 && req.SalaryMin > req.SalaryMax {
		return nil, apperrors.ErrSalaryRangeInvalid
	}

	deadline := time.Now().AddDate(0, 0, defaultDeadlineDays)
	if req.ApplicationDeadline != nil {
		if req.ApplicationDeadline.Before(time.Now()) {
			return nil, apperrors.ErrDeadlineInPast
		}
		deadline = *req.ApplicationDeadline
	}

	companyID, err := s.resolveCompany(db, employer)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		Title:               req.Title,
		CompanyID:           companyID,
		PostedByID:          employer.ID,
		Description:         req.Description,
		Requirements:        toJSONArray(req.Requirements),
		Location:            req.Location,
		SalaryMin:           req.SalaryMin,
		SalaryMax:           req.SalaryMax,
		SalaryCurrency:      req.SalaryCurrency,
		JobType:             req.JobType,
		Status:              models.JobStatusPending,
		ApplicationDeadline: deadline,
		Skills:              toJSONArray(req.Skills),
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildJobResponse(db, job), nil
}

// Get - карточка вакансии. Не-APPROVED вакансии видят только автор и админ.
// Просмотр чужой вакансии увеличивает счетчик просмотров.
func (s *JobServiceImpl) Get(db *gorm.DB, jobID, requesterID string, requesterRole models.UserRole) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	if job.Status != models.JobStatusApproved {
		isOwner := requesterID != "" && requesterID == job.PostedByID
		isAdmin := requesterRole == models.UserRoleAdmin
		if !isOwner && !isAdmin {
			return nil, apperrors.ErrJobNotFound
		}
	}

	if requesterID != job.PostedByID {
		if err := s.jobRepo.IncrementViews(db, job.ID); err != nil {
			logger.Warn("Failed to increment job views", "job_id", job.ID, "error", err.Error())
		} else {
			job.ViewsCount++
		}
	}

	return s.buildJobResponse(db, job), nil
}

// Update - редактирование вакансии. Доступно автору и только пока
// вакансия на модерации: правки после одобрения потребовали бы повторной модерации.
func (s *JobServiceImpl) Update(db *gorm.DB, jobID, employerID string, req *dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	if job.PostedByID != employerID {
		return nil, apperrors.NewForbiddenError("You can only edit your own jobs")
	}
	if job.Status != models.JobStatusPending {
		return nil, apperrors.NewBadRequestError("Only pending jobs can be edited")
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = toJSONArray(req.Requirements)
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.SalaryMin != nil {
		job.SalaryMin = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = *req.SalaryMax
	}
	if req.SalaryCurrency != nil {
		job.SalaryCurrency = *req.SalaryCurrency
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.ApplicationDeadline != nil {
		if req.ApplicationDeadline.Before(time.Now()) {
			return nil, apperrors.ErrDeadlineInPast
		}
		job.ApplicationDeadline = *req.ApplicationDeadline
	}
	if req.Skills != nil {
		job.Skills = toJSONArray(req.Skills)
	}

	if job.SalaryMin > 0 && job.SalaryMax > 0 && job.SalaryMin > job.SalaryMax {
		return nil, apperrors.ErrSalaryRangeInvalid
	}

	if err := s.jobRepo.Update(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildJobResponse(db, job), nil
}

// Delete - удаление вакансии автором, пока она на модерации
func (s *JobServiceImpl) Delete(db *gorm.DB, jobID, employerID string) error {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return apperrors.ErrJobNotFound
	}

	if job.PostedByID != employerID {
		return apperrors.NewForbiddenError("You can only delete your own jobs")
	}
	if job.Status != models.JobStatusPending {
		return apperrors.NewBadRequestError("Only pending jobs can be deleted")
	}

	if err := s.jobRepo.Delete(db, jobID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ListPublic - публичный каталог: только APPROVED вакансии
func (s *JobServiceImpl) ListPublic(db *gorm.DB, query *dto.JobSearchQuery, page, pageSize int) (*dto.JobListResponse, error) {
	criteria := repositories.JobSearchCriteria{
		Query:     query.Query,
		Location:  query.Location,
		JobType:   query.JobType,
		Status:    models.JobStatusApproved,
		SalaryMin: query.SalaryMin,
		SalaryMax: query.SalaryMax,
		Page:      page,
		PageSize:  pageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}

	jobs, total, err := s.jobRepo.Search(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildJobListResponse(db, jobs, total, page, pageSize), nil
}

// EmployerDashboard - сводка работодателя: вакансии компании,
// счетчики по статусам и свежие отклики
func (s *JobServiceImpl) EmployerDashboard(db *gorm.DB, employerID string) (*dto.EmployerDashboardResponse, error) {
	employer, err := s.userRepo.FindByID(db, employerID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	companyID, err := s.resolveCompany(db, employer)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(db, companyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	jobs, err := s.jobRepo.FindByCompany(db, companyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	counts, err := s.jobRepo.CountByStatus(db, companyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	recent := make([]*dto.ApplicationResponse, 0)
	for i := range jobs {
		applications, err := s.applicationRepo.FindByJob(db, jobs[i].ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		for j := range applications {
			if len(recent) >= 10 {
				break
			}
			recent = append(recent, buildApplicationResponse(&applications[j], &jobs[i]))
		}
	}

	jobResponses := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		jobResponses = append(jobResponses, s.buildJobResponse(db, &jobs[i]))
	}

	return &dto.EmployerDashboardResponse{
		Company:            company,
		Jobs:               jobResponses,
		Counts:             counts,
		RecentApplications: recent,
	}, nil
}

// AdminList - список вакансий для модерации с фильтром по статусу
func (s *JobServiceImpl) AdminList(db *gorm.DB, status models.JobStatus, page, pageSize int) (*dto.JobListResponse, error) {
	criteria := repositories.JobSearchCriteria{
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	}

	jobs, total, err := s.jobRepo.Search(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildJobListResponse(db, jobs, total, page, pageSize), nil
}

// TransitionStatus - модерация: PENDING -> APPROVED|REJECTED, APPROVED -> CLOSED.
// Повторный перевод в текущий статус - идемпотентный no-op.
func (s *JobServiceImpl) TransitionStatus(db *gorm.DB, jobID string, req *dto.TransitionJobStatusRequest) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	if job.Status == req.Status {
		return s.buildJobResponse(db, job), nil
	}

	if !validJobTransition(job.Status, req.Status) {
		return nil, apperrors.ErrInvalidJobStatus.WithDetails(map[string]string{
			"from": string(job.Status),
			"to":   string(req.Status),
		})
	}

	if err := s.jobRepo.UpdateStatus(db, job.ID, req.Status, req.AdminNotes); err != nil {
		return nil, apperrors.InternalError(err)
	}
	job.Status = req.Status
	if req.AdminNotes != "" {
		job.AdminNotes = req.AdminNotes
	}

	s.notifyEmployer(db, job)

	return s.buildJobResponse(db, job), nil
}

// Close - работодатель закрывает собственную одобренную вакансию
func (s *JobServiceImpl) Close(db *gorm.DB, jobID, employerID string) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	if job.PostedByID != employerID {
		return nil, apperrors.NewForbiddenError("You can only close your own jobs")
	}
	if job.Status == models.JobStatusClosed {
		return s.buildJobResponse(db, job), nil
	}
	if job.Status != models.JobStatusApproved {
		return nil, apperrors.NewBadRequestError("Only approved jobs can be closed")
	}

	if err := s.jobRepo.UpdateStatus(db, job.ID, models.JobStatusClosed, ""); err != nil {
		return nil, apperrors.InternalError(err)
	}
	job.Status = models.JobStatusClosed

	return s.buildJobResponse(db, job), nil
}

// --- Helpers ---

// validJobTransition описывает разрешенные переходы жизненного цикла вакансии
func validJobTransition(from, to models.JobStatus) bool {
	switch from {
	case models.JobStatusPending:
		return to == models.JobStatusApproved || to == models.JobStatusRejected
	case models.JobStatusApproved:
		return to == models.JobStatusClosed
	}
	return false
}

// resolveCompany возвращает компанию работодателя, создавая заглушку,
// если профиль компании еще не заполнен
func (s *JobServiceImpl) resolveCompany(db *gorm.DB, employer *models.User) (string, error) {
	if employer.Role != models.UserRoleEmployer {
		return "", apperrors.NewForbiddenError("Only employers can manage jobs")
	}

	if employer.CompanyID != nil && *employer.CompanyID != "" {
		return *employer.CompanyID, nil
	}

	company := &models.Company{Name: employer.Name + "'s Company"}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.companyRepo.Create(tx, company); err != nil {
			return err
		}
		return s.userRepo.SetCompany(tx, employer.ID, company.ID)
	})
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	employer.CompanyID = &company.ID
	return company.ID, nil
}

func (s *JobServiceImpl) notifyEmployer(db *gorm.DB, job *models.Job) {
	if s.emailProvider == nil {
		return
	}

	poster, err := s.userRepo.FindByID(db, job.PostedByID)
	if err != nil {
		logger.Warn("Failed to load job poster for notification", "job_id", job.ID, "error", err.Error())
		return
	}

	go func(to, title, status, notes string) {
		if err := s.emailProvider.SendJobStatusUpdate(to, title, status, notes); err != nil {
			logger.Warn("Failed to send job status email", "error", err.Error())
		}
	}(poster.Email, job.Title, string(job.Status), job.AdminNotes)
}

func (s *JobServiceImpl) buildJobResponse(db *gorm.DB, job *models.Job) *dto.JobResponse {
	applicationsCount, err := s.applicationRepo.CountActiveByJob(db, job.ID)
	if err != nil {
		applicationsCount = 0
	}

	return &dto.JobResponse{
		ID:                  job.ID,
		Title:               job.Title,
		CompanyID:           job.CompanyID,
		Company:             job.Company,
		PostedByID:          job.PostedByID,
		Description:         job.Description,
		Requirements:        fromJSONArray(job.Requirements),
		Location:            job.Location,
		SalaryMin:           job.SalaryMin,
		SalaryMax:           job.SalaryMax,
		SalaryCurrency:      job.SalaryCurrency,
		JobType:             job.JobType,
		Status:              job.Status,
		ApplicationDeadline: job.ApplicationDeadline,
		Skills:              fromJSONArray(job.Skills),
		ViewsCount:          job.ViewsCount,
		AdminNotes:          job.AdminNotes,
		ApplicationsCount:   applicationsCount,
		CreatedAt:           job.CreatedAt,
		UpdatedAt:           job.UpdatedAt,
	}
}

func (s *JobServiceImpl) buildJobListResponse(db *gorm.DB, jobs []models.Job, total int64, page, pageSize int) *dto.JobListResponse {
	responses := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, s.buildJobResponse(db, &jobs[i]))
	}
	return &dto.JobListResponse{
		Jobs:     responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}

func toJSONArray(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}

func fromJSONArray(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return []string{}
	}
	return values
}
