package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

const dateLayout = "2006-01-02"

// resolveSite looks a site up by code or ID.
func resolveSite(ctx context.Context, app *App, ref string) (*domain.Site, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("site is required (use --site flag)")
	}
	site, err := app.Sites.Resolve(ctx, strings.TrimSpace(ref))
	if err != nil {
		return nil, fmt.Errorf("site %q: %w", ref, err)
	}
	return site, nil
}

func parseClass(s string) (domain.EquipmentClass, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidClasses[s] {
		return "", fmt.Errorf("invalid class %q (expected loader or truck)", s)
	}
	return domain.EquipmentClass(s), nil
}

// parseOptionalClass accepts an empty string as "all classes".
func parseOptionalClass(s string) (domain.EquipmentClass, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return parseClass(s)
}

func parseOptionalMonth(s string) (domain.Month, error) {
	if s == "" {
		return "", nil
	}
	return domain.ParseMonth(s)
}

func parseCategory(s string) (domain.Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidCategories[s] {
		return "", fmt.Errorf("invalid category %q (expected production or development)", s)
	}
	return domain.Category(s), nil
}

func parseKind(s string) (domain.ActivityKind, error) {
	if s == "" {
		return "", nil
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidActivityKinds[s] {
		return "", fmt.Errorf("invalid activity kind %q (expected hauling, loading, drilling or charging)", s)
	}
	return domain.ActivityKind(s), nil
}

func parseShiftDate(s string, now time.Time) (time.Time, error) {
	if s == "" || strings.EqualFold(s, "today") {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}
