package models

import "time"

// Organization is the top-level tenant grouping projects and members.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Project is a collaboration space with one chat stream, scoped under an
// organization.
type Project struct {
	ID             string
	OrganizationID string
	Name           string
	CreatedAt      time.Time
}
