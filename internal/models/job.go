package models

import (
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	BaseModel
	Title               string         `gorm:"not null" json:"title"`
	CompanyID           string         `gorm:"type:uuid;not null;index" json:"company_id"`
	PostedByID          string         `gorm:"type:uuid;not null;index" json:"posted_by_id"`
	Description         string         `gorm:"not null" json:"description"`
	Requirements        datatypes.JSON `json:"requirements"`
	Location            string         `json:"location"`
	SalaryMin           float64        `json:"salary_min"`
	SalaryMax           float64        `json:"salary_max"`
	SalaryCurrency      string         `gorm:"type:varchar(10)" json:"salary_currency"`
	JobType             string         `gorm:"type:varchar(30)" json:"job_type"`
	Status              JobStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	ApplicationDeadline time.Time      `json:"application_deadline"`
	Skills              datatypes.JSON `json:"skills"`
	ViewsCount          int            `gorm:"default:0" json:"views_count"`
	AdminNotes          string         `json:"admin_notes,omitempty"`

	// Relations
	Company      *Company      `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	PostedBy     *User         `gorm:"foreignKey:PostedByID" json:"posted_by,omitempty"`
	Applications []Application `gorm:"foreignKey:JobID" json:"-"`
}
