package autoapply

import (
	"context"

	"github.com/hotgigs/automation/model"
)

type SalaryRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Criteria struct {
	JobCriteria           map[string]any `json:"job_criteria"`
	MaxApplicationsPerDay int            `json:"max_applications_per_day"`
	MinMatchScore         float64        `json:"min_match_score"`
	PreferredLocations    []string       `json:"preferred_locations"`
	SalaryRange           SalaryRange    `json:"salary_range"`
}

type CandidateProfile struct {
	Id                 string   `json:"id"`
	Skills             []string `json:"skills"`
	ExperienceYears    float64  `json:"experience_years"`
	Location           string   `json:"location"`
	PreferredLocations []string `json:"preferred_locations"`
}

type JobDescription struct {
	Id                 string   `json:"id"`
	Title              string   `json:"title"`
	RequiredSkills     []string `json:"required_skills"`
	MinExperienceYears float64  `json:"min_experience_years"`
	Location           string   `json:"location"`
	Remote             bool     `json:"remote"`
}

type Compatibility struct {
	Score               float64  `json:"score"`
	MatchingFactors     []string `json:"matching_factors"`
	MissingRequirements []string `json:"missing_requirements"`
	Recommendation      string   `json:"recommendation"`
}

type WorkflowCreator interface {
	CreateWorkflow(req model.WorkflowRequest) string
}

type CompatibilityScorer interface {
	ScoreCompatibility(ctx context.Context, profile CandidateProfile, job JobDescription) (Compatibility, error)
}
