package models

type UserRole string
type JobStatus string
type ApplicationStatus string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleEmployer  UserRole = "employer"
	UserRoleJobseeker UserRole = "jobseeker"

	// Жизненный цикл вакансии: PENDING -> APPROVED | REJECTED, APPROVED -> CLOSED
	JobStatusPending  JobStatus = "PENDING"
	JobStatusApproved JobStatus = "APPROVED"
	JobStatusRejected JobStatus = "REJECTED"
	JobStatusClosed   JobStatus = "CLOSED"

	ApplicationStatusPending   ApplicationStatus = "PENDING"
	ApplicationStatusReviewing ApplicationStatus = "REVIEWING"
	ApplicationStatusAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn ApplicationStatus = "WITHDRAWN"
)

// ValidUserRole проверяет, что роль известна системе
func ValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleAdmin, UserRoleEmployer, UserRoleJobseeker:
		return true
	}
	return false
}

// ValidApplicationStatus проверяет, что статус отклика известен системе
func ValidApplicationStatus(status ApplicationStatus) bool {
	switch status {
	case ApplicationStatusPending, ApplicationStatusReviewing,
		ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}
