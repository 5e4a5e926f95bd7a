package domain

import (
	"fmt"
	"regexp"
	"time"
)

var siteCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,7}$`)

type Site struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateCode checks that Code is non-empty and matches the required
// format: an uppercase letter followed by 1-7 uppercase letters or digits
// (e.g. KAL, MINE2).
func (s *Site) ValidateCode() error {
	if s.Code == "" {
		return fmt.Errorf("site code is required (use --code flag)")
	}
	if !siteCodePattern.MatchString(s.Code) {
		return fmt.Errorf("site code %q must be 2-8 uppercase letters or digits starting with a letter (e.g. KAL01)", s.Code)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
func (s *Site) DisplayID() string {
	if s.Code != "" {
		return s.Code
	}
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}
