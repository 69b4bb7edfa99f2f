// internal/matching/engine/engine.go
package engine

import (
	"sort"
	"strings"

	"matchlab-workers/internal/matching/explain"
	"matchlab-workers/internal/matching/hardfilter"
	"matchlab-workers/internal/matching/scoring"
	"matchlab-workers/internal/models"
)

// DefaultSeedEmailDomain marks synthetic accounts seeded for an empty pool.
const DefaultSeedEmailDomain = "@matchlab.test"

type ScoredCandidate struct {
	Candidate   *models.FullProfile
	Score       scoring.ScoreResult
	Explanation explain.Result
}

// Engine glues the filter, calculator, and explanation generator into the
// orchestration flows the workers expose.
type Engine struct {
	calc            *scoring.Calculator
	generator       explain.Generator
	seedEmailDomain string
}

func New(weights scoring.Weights, generator explain.Generator, seedEmailDomain string) *Engine {
	if seedEmailDomain == "" {
		seedEmailDomain = DefaultSeedEmailDomain
	}
	return &Engine{
		calc:            scoring.NewCalculator(weights),
		generator:       generator,
		seedEmailDomain: seedEmailDomain,
	}
}

// ScorePair computes score and explanation for one viewer/candidate pair.
func (e *Engine) ScorePair(viewer, candidate *models.FullProfile) (scoring.ScoreResult, explain.Result) {
	score := e.calc.Score(viewer.ToScoring(), candidate.ToScoring())
	explanation := e.generator.Generate(viewer.ToExplanation(), candidate.ToExplanation(), score.Breakdown)
	return score, explanation
}

// ScoreCandidates scores every candidate against the viewer. A candidate
// that cannot be scored degrades to a zero score instead of failing the
// whole batch.
func (e *Engine) ScoreCandidates(viewer *models.FullProfile, candidates []*models.FullProfile) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if viewer == nil {
			scored = append(scored, zeroScored(candidate))
			continue
		}
		scored = append(scored, e.scoreOne(viewer, candidate))
	}
	return scored
}

// scoreOne isolates a scoring panic to the one candidate that caused it.
func (e *Engine) scoreOne(viewer, candidate *models.FullProfile) (result ScoredCandidate) {
	defer func() {
		if r := recover(); r != nil {
			result = zeroScored(candidate)
		}
	}()
	score, explanation := e.ScorePair(viewer, candidate)
	return ScoredCandidate{
		Candidate:   candidate,
		Score:       score,
		Explanation: explanation,
	}
}

func zeroScored(candidate *models.FullProfile) ScoredCandidate {
	return ScoredCandidate{
		Candidate:   candidate,
		Explanation: explain.Result{ReasonsTop3: []string{}},
	}
}

// IsSeedAccount reports whether the email belongs to a synthetic seed user.
func (e *Engine) IsSeedAccount(email string) bool {
	return strings.HasSuffix(email, e.seedEmailDomain)
}

// Rank orders real users before seed accounts, then by total descending.
func (e *Engine) Rank(items []ScoredCandidate) {
	sort.SliceStable(items, func(i, j int) bool {
		iReal := !e.IsSeedAccount(items[i].Candidate.User.Email)
		jReal := !e.IsSeedAccount(items[j].Candidate.User.Email)
		if iReal != jReal {
			return iReal
		}
		return items[i].Score.Total > items[j].Score.Total
	})
}

// Recommend runs the full pipeline: filter, score, rank, trim.
func (e *Engine) Recommend(viewer *models.FullProfile, candidates []*models.FullProfile, limit int) ([]models.MatchRecommendation, []hardfilter.RelaxationSuggestion, int) {
	criteria := ToFilterCriteria(viewer)

	pool := make([]hardfilter.CandidateProfile, 0, len(candidates))
	byID := make(map[string]*models.FullProfile, len(candidates))
	for _, c := range candidates {
		pool = append(pool, ToCandidateProfile(c))
		byID[c.User.ID] = c
	}

	passed := hardfilter.FilterCandidates(pool, criteria)
	eligible := make([]*models.FullProfile, 0, len(passed))
	for _, p := range passed {
		eligible = append(eligible, byID[p.UserID])
	}

	scored := e.ScoreCandidates(viewer, eligible)
	e.Rank(scored)
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	recommendations := make([]models.MatchRecommendation, 0, len(scored))
	for _, item := range scored {
		recommendations = append(recommendations, e.ToRecommendation(item))
	}

	suggestions := hardfilter.GenerateRelaxationSuggestions(pool, criteria)
	return recommendations, suggestions, len(passed)
}

func (e *Engine) ToRecommendation(item ScoredCandidate) models.MatchRecommendation {
	return models.MatchRecommendation{
		UserID:   item.Candidate.User.ID,
		Nickname: item.Candidate.User.Nickname,
		Profile:  item.Candidate.ToPublic(),
		MatchScore: models.MatchScore{
			CandidateID: item.Candidate.User.ID,
			Stability:   item.Score.Stability,
			Synergy:     item.Score.Synergy,
			Trust:       item.Score.Trust,
			Penalties:   item.Score.Penalties,
			Total:       item.Score.Total,
			ReasonsTop3: item.Explanation.ReasonsTop3,
			Caution:     item.Explanation.Caution,
		},
		Explanation: models.Explanation{
			Reasons: item.Explanation.ReasonsTop3,
			Caution: item.Explanation.Caution,
		},
	}
}

func ToFilterCriteria(viewer *models.FullProfile) hardfilter.FilterCriteria {
	p := viewer.Profile
	return hardfilter.FilterCriteria{
		AvailabilityHours: p.AvailabilityHours,
		StartDate:         p.StartDate,
		LocationPref:      p.LocationPref,
		RoleNeed:          p.RoleNeed,
		Goal:              p.Goal,
	}
}

func ToCandidateProfile(candidate *models.FullProfile) hardfilter.CandidateProfile {
	p := candidate.Profile
	return hardfilter.CandidateProfile{
		UserID:            candidate.User.ID,
		AvailabilityHours: p.AvailabilityHours,
		StartDate:         p.StartDate,
		LocationPref:      p.LocationPref,
		RoleCan:           p.RoleCan,
		RoleWant:          p.RoleWant,
		RoleNeed:          p.RoleNeed,
		Goal:              p.Goal,
	}
}
