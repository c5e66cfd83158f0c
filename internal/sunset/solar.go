package sunset

import (
	"context"
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// SolarCalculator computes sunset offline from the observer position.
type SolarCalculator struct {
	now func() time.Time
	loc *time.Location
}

// NewSolarCalculator uses now and loc to decide which local date is "today".
func NewSolarCalculator(now func() time.Time, loc *time.Location) *SolarCalculator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SolarCalculator{now: now, loc: loc}
}

func (s *SolarCalculator) Fetch(ctx context.Context, lat, lng float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	today := s.now().In(s.loc)
	_, set := sunrise.SunriseSunset(lat, lng, today.Year(), today.Month(), today.Day())
	if set.IsZero() {
		// polar day or night
		return "", fmt.Errorf("%w: no sunset at %.4f,%.4f on %s", ErrMalformed, lat, lng, today.Format("2006-01-02"))
	}
	return set.UTC().Format(time.RFC3339), nil
}
