package repositories

import (
	"errors"
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationAlreadyExists = errors.New("application already exists")
)

type ApplicationRepository interface {
	Create(db *gorm.DB, application *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindByJobAndApplicant(db *gorm.DB, jobID, applicantID string) (*models.Application, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Application, error)
	FindByApplicant(db *gorm.DB, applicantID string) ([]models.Application, error)
	UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus, employerNotes string) error
	CountActiveByJob(db *gorm.DB, jobID string) (int64, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, application *models.Application) error {
	err := db.Create(application).Error
	if err != nil {
		// Уникальный индекс (job_id, applicant_id) - страховка от гонки
		// между проверкой членства и вставкой
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrApplicationAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var application models.Application
	err := db.Preload("Job").First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByJobAndApplicant(db *gorm.DB, jobID, applicantID string) (*models.Application, error) {
	var application models.Application
	err := db.Where("job_id = ? AND applicant_id = ?", jobID, applicantID).First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Preload("Applicant").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) FindByApplicant(db *gorm.DB, applicantID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Preload("Job").Preload("Job.Company").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus, employerNotes string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if employerNotes != "" {
		updates["employer_notes"] = employerNotes
	}

	result := db.Model(&models.Application{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) CountActiveByJob(db *gorm.DB, jobID string) (int64, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("job_id = ? AND status != ?", jobID, models.ApplicationStatusWithdrawn).
		Count(&count).Error
	return count, err
}
