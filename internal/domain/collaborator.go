package domain

import (
	"strings"
	"time"
)

// Department groups collaborators and drives their permissions.
type Department string

const (
	DepartmentManagement Department = "management"
	DepartmentSales      Department = "sales"
	DepartmentSupport    Department = "support"
)

// Departments lists every valid department in display order.
var Departments = []Department{DepartmentManagement, DepartmentSales, DepartmentSupport}

// Valid reports whether d is a known department.
func (d Department) Valid() bool {
	switch d {
	case DepartmentManagement, DepartmentSales, DepartmentSupport:
		return true
	}
	return false
}

// Collaborator is an Epic Events employee able to log into the CLI.
type Collaborator struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	Department   Department
	IsSuperuser  bool
	Created      time.Time
	Updated      time.Time
}

// FullName joins first and last name; it is empty for a bare superuser.
func (c *Collaborator) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// DisplayName falls back to the email when the collaborator has no name.
func (c *Collaborator) DisplayName() string {
	if name := c.FullName(); name != "" {
		return name
	}
	return c.Email
}
