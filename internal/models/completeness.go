// internal/models/completeness.go
package models

import "math"

type completenessField struct {
	weight int
	filled bool
}

// ProfileCompleteness scores how much of the onboarding checklist a profile
// fills in. Weights sum to 100.
func ProfileCompleteness(p *Profile) int {
	fields := []completenessField{
		{5, p.Bio != ""},
		{5, p.Location != ""},
		{10, p.LocationPref != ""},
		{10, p.AvailabilityHours > 0},
		{10, !p.StartDate.IsZero()},
		{10, len(p.Domains) > 0},
		{5, len(p.RoleCan) > 0},
		{5, len(p.RoleWant) > 0},
		{10, len(p.RoleNeed) > 0},
		{5, len(p.Skills) > 0},
		{5, p.CommChannel != ""},
		{5, p.ResponseSLA > 0},
		{5, p.MeetingFreq != ""},
		{10, p.Goal != ""},
	}

	totalWeight := 0
	filledWeight := 0
	for _, f := range fields {
		totalWeight += f.weight
		if f.filled {
			filledWeight += f.weight
		}
	}

	return int(math.Round(float64(filledWeight) / float64(totalWeight) * 100))
}
