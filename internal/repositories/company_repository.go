package repositories

import (
	"errors"
	"time"

	"jobboard_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCompanyNotFound = errors.New("company not found")

type CompanyRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Company, error)
	Create(db *gorm.DB, company *models.Company) error
	Update(db *gorm.DB, company *models.Company) error
}

type CompanyRepositoryImpl struct{}

func NewCompanyRepository() CompanyRepository {
	return &CompanyRepositoryImpl{}
}

func (r *CompanyRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Company, error) {
	var company models.Company
	err := db.First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) Create(db *gorm.DB, company *models.Company) error {
	return db.Create(company).Error
}

func (r *CompanyRepositoryImpl) Update(db *gorm.DB, company *models.Company) error {
	result := db.Model(company).Updates(map[string]interface{}{
		"name":       company.Name,
		"location":   company.Location,
		"industry":   company.Industry,
		"website":    company.Website,
		"verified":   company.Verified,
		"updated_at": time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCompanyNotFound
	}
	return nil
}
