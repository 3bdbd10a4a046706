package models

type Application struct {
	BaseModel
	JobID         string            `gorm:"type:uuid;not null;uniqueIndex:idx_job_applicant" json:"job_id"`
	ApplicantID   string            `gorm:"type:uuid;not null;uniqueIndex:idx_job_applicant" json:"applicant_id"`
	Resume        string            `json:"resume"`
	CoverLetter   string            `json:"cover_letter"`
	Status        ApplicationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	EmployerNotes string            `json:"employer_notes,omitempty"`

	// Relations
	Job       *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Applicant *User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
}
