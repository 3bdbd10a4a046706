package models

import "time"

type User struct {
	BaseModel
	Name              string     `gorm:"not null" json:"name"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string     `gorm:"not null" json:"-"`
	Role              UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	EmailVerified     bool       `gorm:"default:false" json:"email_verified"`
	VerificationToken string     `json:"-"`
	ResetToken        string     `json:"-"`
	ResetTokenExp     *time.Time `json:"-"`
	// Инкремент отзывает все ранее выданные токены пользователя
	TokenVersion int     `gorm:"default:0" json:"-"`
	CompanyID    *string `gorm:"type:uuid" json:"company_id,omitempty"`

	// Relations
	Company      *Company      `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Applications []Application `gorm:"foreignKey:ApplicantID" json:"-"`
}
