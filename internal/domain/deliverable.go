package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Deliverable is an artifact of a project, such as a document or a build,
// that tasks can be linked to.
type Deliverable struct {
	ID        string
	ProjectID string
	Name      string
	URL       string
	Type      string
	Note      string
	CreatedAt time.Time
}

func (d *Deliverable) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(d.Name) > MaxTitleLen {
		return fmt.Errorf("name must be at most %d characters", MaxTitleLen)
	}
	u, err := url.ParseRequestURI(d.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %q must be absolute", d.URL)
	}
	return nil
}
