package employee

import "time"

type Employee struct {
	ID             string
	FullName       string
	Code           string
	Email          string
	DepartmentID   string
	DepartmentName string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
