// internal/models/profile.go
package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	Status       string    `json:"status"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// Profile holds the onboarding answers a user filled in. Decision axes are
// 1-5 scales; 0 means the question was never answered.
type Profile struct {
	UserID            string    `json:"userId"`
	Bio               string    `json:"bio"`
	Location          string    `json:"location"`
	LocationPref      string    `json:"locationPref"`
	AvailabilityHours int       `json:"availabilityHours"`
	StartDate         time.Time `json:"startDate"`
	Goal              string    `json:"goal"`
	Domains           []string  `json:"domains"`
	RoleCan           []string  `json:"roleCan"`
	RoleWant          []string  `json:"roleWant"`
	RoleNeed          []string  `json:"roleNeed"`
	Skills            []string  `json:"skills"`
	CommChannel       string    `json:"commChannel,omitempty"`
	ResponseSLA       int       `json:"responseSla,omitempty"`
	MeetingFreq       string    `json:"meetingFreq,omitempty"`
	ConflictStyle     string    `json:"conflictStyle,omitempty"`

	DecisionConsensus   int `json:"decisionConsensus,omitempty"`
	DecisionData        int `json:"decisionData,omitempty"`
	DecisionSpeed       int `json:"decisionSpeed,omitempty"`
	DecisionFlexibility int `json:"decisionFlexibility,omitempty"`
	DecisionRisk        int `json:"decisionRisk,omitempty"`

	IsPublic     bool `json:"isPublic"`
	Completeness int  `json:"completeness"`
}

// TraitResult is the short self-assessment; each axis is a categorical pick,
// not a scale.
type TraitResult struct {
	Leadership    int `json:"leadership"`
	Execution     int `json:"execution"`
	Communication int `json:"communication"`
	Risk          int `json:"risk"`
	Conflict      int `json:"conflict"`
	Flexibility   int `json:"flexibility"`
}

type TrustScore struct {
	Completeness     int `json:"completeness"`
	EvidenceStrength int `json:"evidenceStrength"`
	Activity         int `json:"activity"`
	Reputation       int `json:"reputation"`
	Total            int `json:"total"`
}

// FullProfile is the hydrated read model the matching flows operate on.
type FullProfile struct {
	User    User         `json:"user"`
	Profile Profile      `json:"profile"`
	Traits  *TraitResult `json:"traits,omitempty"`
	Trust   *TrustScore  `json:"trust,omitempty"`
	Mbti    *StartupMBTI `json:"startupMbti,omitempty"`
}

// ScoringProfile is the view of a profile the score calculator consumes.
type ScoringProfile struct {
	UserID              string       `json:"userId"`
	Goal                string       `json:"goal"`
	AvailabilityHours   int          `json:"availabilityHours"`
	RoleCan             []string     `json:"roleCan"`
	RoleWant            []string     `json:"roleWant"`
	RoleNeed            []string     `json:"roleNeed"`
	Skills              []string     `json:"skills"`
	Domains             []string     `json:"domains"`
	CommChannel         string       `json:"commChannel,omitempty"`
	ResponseSLA         int          `json:"responseSla,omitempty"`
	MeetingFreq         string       `json:"meetingFreq,omitempty"`
	ConflictStyle       string       `json:"conflictStyle,omitempty"`
	DecisionConsensus   int          `json:"decisionConsensus,omitempty"`
	DecisionData        int          `json:"decisionData,omitempty"`
	DecisionSpeed       int          `json:"decisionSpeed,omitempty"`
	DecisionFlexibility int          `json:"decisionFlexibility,omitempty"`
	DecisionRisk        int          `json:"decisionRisk,omitempty"`
	Traits              *TraitResult `json:"traits,omitempty"`
	Mbti                *StartupMBTI `json:"startupMbti,omitempty"`
	Trust               *TrustScore  `json:"trustScore,omitempty"`
}

// ExplanationProfile is the narrow view the explanation generator needs.
type ExplanationProfile struct {
	Nickname          string   `json:"nickname"`
	Goal              string   `json:"goal"`
	AvailabilityHours int      `json:"availabilityHours"`
	RoleCan           []string `json:"roleCan"`
	RoleWant          []string `json:"roleWant"`
	RoleNeed          []string `json:"roleNeed"`
	Domains           []string `json:"domains"`
	MeetingFreq       string   `json:"meetingFreq,omitempty"`
	ConflictStyle     string   `json:"conflictStyle,omitempty"`
}

// PublicProfile is the candidate card surfaced to other users.
type PublicProfile struct {
	UserID            string       `json:"userId"`
	Nickname          string       `json:"nickname"`
	Bio               string       `json:"bio"`
	Location          string       `json:"location"`
	LocationPref      string       `json:"locationPref"`
	AvailabilityHours int          `json:"availabilityHours"`
	StartDate         string       `json:"startDate"`
	Domains           []string     `json:"domains"`
	RoleCan           []string     `json:"roleCan"`
	RoleWant          []string     `json:"roleWant"`
	RoleNeed          []string     `json:"roleNeed"`
	Goal              string       `json:"goal"`
	Completeness      int          `json:"completeness"`
	Traits            *TraitResult `json:"traits"`
	TrustScore        int          `json:"trustScore"`
}

func (f *FullProfile) ToScoring() *ScoringProfile {
	p := f.Profile
	return &ScoringProfile{
		UserID:              f.User.ID,
		Goal:                p.Goal,
		AvailabilityHours:   p.AvailabilityHours,
		RoleCan:             p.RoleCan,
		RoleWant:            p.RoleWant,
		RoleNeed:            p.RoleNeed,
		Skills:              p.Skills,
		Domains:             p.Domains,
		CommChannel:         p.CommChannel,
		ResponseSLA:         p.ResponseSLA,
		MeetingFreq:         p.MeetingFreq,
		ConflictStyle:       p.ConflictStyle,
		DecisionConsensus:   p.DecisionConsensus,
		DecisionData:        p.DecisionData,
		DecisionSpeed:       p.DecisionSpeed,
		DecisionFlexibility: p.DecisionFlexibility,
		DecisionRisk:        p.DecisionRisk,
		Traits:              f.Traits,
		Mbti:                f.Mbti,
		Trust:               f.Trust,
	}
}

func (f *FullProfile) ToExplanation() *ExplanationProfile {
	p := f.Profile
	return &ExplanationProfile{
		Nickname:          f.User.Nickname,
		Goal:              p.Goal,
		AvailabilityHours: p.AvailabilityHours,
		RoleCan:           p.RoleCan,
		RoleWant:          p.RoleWant,
		RoleNeed:          p.RoleNeed,
		Domains:           p.Domains,
		MeetingFreq:       p.MeetingFreq,
		ConflictStyle:     p.ConflictStyle,
	}
}

func (f *FullProfile) ToPublic() *PublicProfile {
	p := f.Profile
	trustTotal := 0
	if f.Trust != nil {
		trustTotal = f.Trust.Total
	}
	return &PublicProfile{
		UserID:            f.User.ID,
		Nickname:          f.User.Nickname,
		Bio:               p.Bio,
		Location:          p.Location,
		LocationPref:      p.LocationPref,
		AvailabilityHours: p.AvailabilityHours,
		StartDate:         p.StartDate.Format("2006-01-02"),
		Domains:           p.Domains,
		RoleCan:           p.RoleCan,
		RoleWant:          p.RoleWant,
		RoleNeed:          p.RoleNeed,
		Goal:              p.Goal,
		Completeness:      p.Completeness,
		Traits:            f.Traits,
		TrustScore:        trustTotal,
	}
}
