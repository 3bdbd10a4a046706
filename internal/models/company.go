package models

type Company struct {
	BaseModel
	Name     string `gorm:"not null" json:"name"`
	Location string `json:"location"`
	Industry string `json:"industry"`
	Website  string `json:"website"`
	Verified bool   `gorm:"default:false" json:"verified"`
}
