package domain

import (
	"fmt"
	"regexp"
	"time"
)

var codePattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

type Project struct {
	ID           string
	Code         string
	Name         string
	Description  string
	StartDate    *time.Time
	EndDate      *time.Time
	AutoSchedule bool
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateCode checks that Code is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. WEB01, INFRA2026).
func (p *Project) ValidateCode() error {
	if p.Code == "" {
		return fmt.Errorf("project code is required (use --code flag)")
	}
	if !codePattern.MatchString(p.Code) {
		return fmt.Errorf("project code %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. WEB01)", p.Code)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers Code; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.Code != "" {
		return p.Code
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// IsDeleted reports whether the project has been soft-deleted.
func (p *Project) IsDeleted() bool {
	return p.DeletedAt != nil
}
