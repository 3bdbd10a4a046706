package services

import (
	"jobboard_backend/internal/apperrors"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services/dto"

	"gorm.io/gorm"
)

type CompanyService interface {
	GetForEmployer(db *gorm.DB, employerID string) (*models.Company, error)
	UpdateForEmployer(db *gorm.DB, employerID string, req *dto.UpdateCompanyRequest) (*models.Company, error)
}

type CompanyServiceImpl struct {
	companyRepo repositories.CompanyRepository
	userRepo    repositories.UserRepository
}

func NewCompanyService(companyRepo repositories.CompanyRepository, userRepo repositories.UserRepository) CompanyService {
	return &CompanyServiceImpl{
		companyRepo: companyRepo,
		userRepo:    userRepo,
	}
}

// GetForEmployer - компания работодателя. Если профиль компании
// еще не создавался, создается заглушка с именем-плейсхолдером.
func (s *CompanyServiceImpl) GetForEmployer(db *gorm.DB, employerID string) (*models.Company, error) {
	employer, err := s.userRepo.FindByID(db, employerID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if employer.Role != models.UserRoleEmployer {
		return nil, apperrors.NewForbiddenError("Only employers have a company profile")
	}

	if employer.CompanyID != nil && *employer.CompanyID != "" {
		return s.companyRepo.FindByID(db, *employer.CompanyID)
	}

	company := &models.Company{Name: employer.Name + "'s Company"}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.companyRepo.Create(tx, company); err != nil {
			return err
		}
		return s.userRepo.SetCompany(tx, employer.ID, company.ID)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return company, nil
}

// UpdateForEmployer - частичное обновление профиля компании
func (s *CompanyServiceImpl) UpdateForEmployer(db *gorm.DB, employerID string, req *dto.UpdateCompanyRequest) (*models.Company, error) {
	company, err := s.GetForEmployer(db, employerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Location != nil {
		company.Location = *req.Location
	}
	if req.Industry != nil {
		company.Industry = *req.Industry
	}
	if req.Website != nil {
		company.Website = *req.Website
	}

	if err := s.companyRepo.Update(db, company); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return company, nil
}
