// internal/matching/hardfilter/filter.go
package hardfilter

import (
	"sort"
	"time"

	"matchlab-workers/internal/models"
)

const (
	ReasonBlocked      = "차단된 사용자"
	ReasonStartDate    = "시작 시점 불일치"
	ReasonHours        = "투입시간 불일치"
	ReasonLocation     = "위치선호 불일치"
	ReasonRoleMismatch = "역할 불일치"
)

// DefaultTolerance allows the higher commitment to exceed the lower by 50%.
const DefaultTolerance = 0.5

type CandidateProfile struct {
	UserID            string    `json:"userId"`
	AvailabilityHours int       `json:"availabilityHours"`
	StartDate         time.Time `json:"startDate"`
	LocationPref      string    `json:"locationPref"`
	RoleCan           []string  `json:"roleCan"`
	RoleWant          []string  `json:"roleWant"`
	RoleNeed          []string  `json:"roleNeed"`
	Goal              string    `json:"goal"`
	IsBlocked         bool      `json:"isBlocked,omitempty"`
}

type FilterCriteria struct {
	AvailabilityHours int       `json:"availabilityHours"`
	StartDate         time.Time `json:"startDate"`
	LocationPref      string    `json:"locationPref"`
	RoleNeed          []string  `json:"roleNeed"`
	Goal              string    `json:"goal,omitempty"`
}

type FilterResult struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons"`
}

type RelaxationSuggestion struct {
	Condition     string `json:"condition"`
	PotentialGain int    `json:"potentialGain"`
}

// TimeCompatible reports whether two weekly commitments are close enough.
// Either the larger stays within (1+tolerance) of the smaller, or the
// absolute gap is at most 10 hours.
func TimeCompatible(hours1, hours2 int, tolerance float64) bool {
	min, max := hours1, hours2
	if min > max {
		min, max = max, min
	}
	return float64(max) <= float64(min)*(1+tolerance) || max-min <= 10
}

// LocationCompatible passes when either side is flexible or hybrid,
// otherwise requires the same preference.
func LocationCompatible(pref1, pref2 string) bool {
	if pref1 == models.LocationPrefFlexible || pref2 == models.LocationPrefFlexible {
		return true
	}
	if pref1 == models.LocationPrefHybrid || pref2 == models.LocationPrefHybrid {
		return true
	}
	return pref1 == pref2
}

// Apply runs every gate and collects the failed conditions. A blocked
// candidate short-circuits with a single reason.
func Apply(candidate CandidateProfile, criteria FilterCriteria) FilterResult {
	if candidate.IsBlocked {
		return FilterResult{Passed: false, Reasons: []string{ReasonBlocked}}
	}

	var reasons []string

	// Candidates who can only start more than a month after the viewer
	// are filtered out.
	oneMonthLater := criteria.StartDate.AddDate(0, 1, 0)
	if candidate.StartDate.After(oneMonthLater) {
		reasons = append(reasons, ReasonStartDate)
	}

	if !TimeCompatible(candidate.AvailabilityHours, criteria.AvailabilityHours, DefaultTolerance) {
		reasons = append(reasons, ReasonHours)
	}

	if !LocationCompatible(candidate.LocationPref, criteria.LocationPref) {
		reasons = append(reasons, ReasonLocation)
	}

	if len(criteria.RoleNeed) > 0 && !hasMatchingRole(criteria.RoleNeed, candidate.RoleCan, candidate.RoleWant) {
		reasons = append(reasons, ReasonRoleMismatch)
	}

	return FilterResult{Passed: len(reasons) == 0, Reasons: reasons}
}

func hasMatchingRole(needed, can, want []string) bool {
	for _, role := range needed {
		for _, c := range can {
			if c == role {
				return true
			}
		}
		for _, w := range want {
			if w == role {
				return true
			}
		}
	}
	return false
}

// FilterCandidates keeps only candidates that pass every gate, preserving
// input order.
func FilterCandidates(candidates []CandidateProfile, criteria FilterCriteria) []CandidateProfile {
	passed := make([]CandidateProfile, 0, len(candidates))
	for _, c := range candidates {
		if Apply(c, criteria).Passed {
			passed = append(passed, c)
		}
	}
	return passed
}

// GenerateRelaxationSuggestions estimates how many extra candidates each
// relaxed condition would let through, sorted by gain.
func GenerateRelaxationSuggestions(candidates []CandidateProfile, criteria FilterCriteria) []RelaxationSuggestion {
	suggestions := []RelaxationSuggestion{}
	currentCount := len(FilterCandidates(candidates, criteria))

	relaxedCriteria := criteria
	relaxedCriteria.LocationPref = models.LocationPrefFlexible
	relaxedLocation := len(FilterCandidates(candidates, relaxedCriteria))
	if relaxedLocation > currentCount {
		suggestions = append(suggestions, RelaxationSuggestion{
			Condition:     "원격/지역 허용 시",
			PotentialGain: relaxedLocation - currentCount,
		})
	}

	relaxedTime := 0
	for _, c := range candidates {
		if TimeCompatible(c.AvailabilityHours, criteria.AvailabilityHours, 1.0) &&
			LocationCompatible(c.LocationPref, criteria.LocationPref) {
			relaxedTime++
		}
	}
	if relaxedTime > currentCount {
		suggestions = append(suggestions, RelaxationSuggestion{
			Condition:     "시간 조건 완화 시",
			PotentialGain: relaxedTime - currentCount,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].PotentialGain > suggestions[j].PotentialGain
	})
	return suggestions
}
