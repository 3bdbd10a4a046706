package repositories

import (
	"errors"
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobSearchCriteria struct {
	Query     string
	Location  string
	JobType   string
	Status    models.JobStatus
	CompanyID string
	SalaryMin *float64
	SalaryMax *float64
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type JobStatusCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Closed   int64 `json:"closed"`
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	Update(db *gorm.DB, job *models.Job) error
	UpdateStatus(db *gorm.DB, jobID string, status models.JobStatus, adminNotes string) error
	Delete(db *gorm.DB, jobID string) error
	Search(db *gorm.DB, criteria JobSearchCriteria) ([]models.Job, int64, error)
	FindByCompany(db *gorm.DB, companyID string) ([]models.Job, error)
	CountByStatus(db *gorm.DB, companyID string) (*JobStatusCounts, error)
	IncrementViews(db *gorm.DB, jobID string) error
	CloseExpired(db *gorm.DB, now time.Time) (int64, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.Preload("Company").First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, job *models.Job) error {
	result := db.Model(job).Updates(map[string]interface{}{
		"title":                job.Title,
		"description":          job.Description,
		"requirements":         job.Requirements,
		"location":             job.Location,
		"salary_min":           job.SalaryMin,
		"salary_max":           job.SalaryMax,
		"salary_currency":      job.SalaryCurrency,
		"job_type":             job.JobType,
		"application_deadline": job.ApplicationDeadline,
		"skills":               job.Skills,
		"updated_at":           time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) UpdateStatus(db *gorm.DB, jobID string, status models.JobStatus, adminNotes string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if adminNotes != "" {
		updates["admin_notes"] = adminNotes
	}

	result := db.Model(&models.Job{}).Where("id = ?", jobID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(db *gorm.DB, jobID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Сначала отклики, затем сама вакансия
		if err := tx.Where("job_id = ?", jobID).Delete(&models.Application{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", jobID).Delete(&models.Job{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrJobNotFound
		}
		return nil
	})
}

func (r *JobRepositoryImpl) Search(db *gorm.DB, criteria JobSearchCriteria) ([]models.Job, int64, error) {
	var jobs []models.Job
	query := db.Model(&models.Job{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.CompanyID != "" {
		query = query.Where("company_id = ?", criteria.CompanyID)
	}
	if criteria.Query != "" {
		search := "%" + criteria.Query + "%"
		// LOWER + LIKE вместо ILIKE ради переносимости между СУБД
		query = query.Where("(LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?))", search, search)
	}
	if criteria.Location != "" {
		query = query.Where("LOWER(location) LIKE LOWER(?)", "%"+criteria.Location+"%")
	}
	if criteria.JobType != "" {
		query = query.Where("job_type = ?", criteria.JobType)
	}
	if criteria.SalaryMin != nil {
		query = query.Where("salary_max >= ?", *criteria.SalaryMin)
	}
	if criteria.SalaryMax != nil {
		query = query.Where("salary_min <= ?", *criteria.SalaryMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := criteria.SortBy
	switch sortBy {
	case "created_at", "application_deadline", "salary_min", "salary_max", "views_count":
	default:
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if criteria.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Preload("Company").
		Order(sortBy + " " + sortOrder).
		Limit(limit).Offset(offset).
		Find(&jobs).Error

	return jobs, total, err
}

func (r *JobRepositoryImpl) FindByCompany(db *gorm.DB, companyID string) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) CountByStatus(db *gorm.DB, companyID string) (*JobStatusCounts, error) {
	var counts JobStatusCounts

	base := func() *gorm.DB {
		return db.Model(&models.Job{}).Where("company_id = ?", companyID)
	}

	if err := base().Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.JobStatusPending).Count(&counts.Pending).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.JobStatusApproved).Count(&counts.Approved).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.JobStatusRejected).Count(&counts.Rejected).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.JobStatusClosed).Count(&counts.Closed).Error; err != nil {
		return nil, err
	}

	return &counts, nil
}

func (r *JobRepositoryImpl) IncrementViews(db *gorm.DB, jobID string) error {
	return db.Model(&models.Job{}).Where("id = ?", jobID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *JobRepositoryImpl) CloseExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.Job{}).
		Where("status = ? AND application_deadline < ?", models.JobStatusApproved, now).
		Updates(map[string]interface{}{
			"status":     models.JobStatusClosed,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
