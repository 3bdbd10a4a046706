package dto

type UpdateCompanyRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Industry *string `json:"industry"`
	Website  *string `json:"website" validate:"omitempty,url"`
}
