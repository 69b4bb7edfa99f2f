// internal/matching/scoring/weights.go
package scoring

// Weights drive the final score blend. WithMbti applies when both sides
// carry a psychometric vector, Base otherwise.
type Weights struct {
	Base     BlendWeights
	WithMbti BlendWeights

	Stability StabilityWeights
	Synergy   SynergyWeights
	Trust     TrustWeights
}

type BlendWeights struct {
	Stability float64
	Synergy   float64
	Trust     float64
	Mbti      float64
}

type StabilityWeights struct {
	Goal     float64
	Commit   float64
	Comm     float64
	Decision float64
	Conflict float64
}

type SynergyWeights struct {
	Role   float64
	Skill  float64
	Domain float64
}

type TrustWeights struct {
	Completeness float64
	Evidence     float64
	Activity     float64
	Reputation   float64
}

// Penalty constants.
const (
	PenaltyCommitGapHigh     = 15
	PenaltyGoalConflict      = 20
	PenaltyStyleClashCap     = 10
	commitGapPenaltyHours    = 30
	penaltyBothLeaders       = 5
	penaltyExecutionMismatch = 3
	penaltyConflictMismatch  = 2
)

func DefaultWeights() Weights {
	return Weights{
		Base:     BlendWeights{Stability: 0.60, Synergy: 0.30, Trust: 0.10},
		WithMbti: BlendWeights{Stability: 0.50, Synergy: 0.20, Trust: 0.10, Mbti: 0.20},
		Stability: StabilityWeights{
			Goal:     0.25,
			Commit:   0.25,
			Comm:     0.20,
			Decision: 0.15,
			Conflict: 0.15,
		},
		Synergy: SynergyWeights{Role: 0.50, Skill: 0.30, Domain: 0.20},
		Trust: TrustWeights{
			Completeness: 0.40,
			Evidence:     0.30,
			Activity:     0.20,
			Reputation:   0.10,
		},
	}
}
