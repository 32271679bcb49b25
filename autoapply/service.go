package autoapply

import (
	"context"
	"fmt"
	"math"

	"github.com/hotgigs/automation/action"
	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/model"
	"go.uber.org/zap"
)

const (
	STEP_FIND_JOBS   = "find_jobs"
	STEP_SCREEN_JOBS = "screen_jobs"
	STEP_APPLY       = "apply"
	STEP_NOTIFY      = "notify"

	DEFAULT_MIN_MATCH_SCORE          = 70.0
	DEFAULT_MAX_APPLICATIONS_PER_DAY = 10
	DEFAULT_SCHEDULE                 = "@daily"

	NEUTRAL_SCORE          = 50.0
	NEUTRAL_RECOMMENDATION = "manual review required"
)

type Service struct {
	workflows WorkflowCreator
	scorer    CompatibilityScorer
}

// NewService uses the local HeuristicScorer when scorer is nil.
func NewService(workflows WorkflowCreator, scorer CompatibilityScorer) *Service {
	if scorer == nil {
		scorer = HeuristicScorer{}
	}
	return &Service{
		workflows: workflows,
		scorer:    scorer,
	}
}

func gt(key string) map[string]any {
	return map[string]any{key: map[string]any{"operator": "greater_than", "value": 0}}
}

// SetupAutoApplyWorkflow registers the scheduled find, screen, apply, notify chain for one
// candidate. Each stage is gated on what the previous stage wrote into the context.
func (s *Service) SetupAutoApplyWorkflow(candidateId string, criteria Criteria) string {
	minScore := criteria.MinMatchScore
	if minScore <= 0 {
		minScore = DEFAULT_MIN_MATCH_SCORE
	}
	maxPerDay := criteria.MaxApplicationsPerDay
	if maxPerDay <= 0 {
		maxPerDay = DEFAULT_MAX_APPLICATIONS_PER_DAY
	}
	jobCriteria := criteria.JobCriteria
	if jobCriteria == nil {
		jobCriteria = map[string]any{}
	}
	locations := make([]any, 0, len(criteria.PreferredLocations))
	for _, l := range criteria.PreferredLocations {
		locations = append(locations, l)
	}

	steps := []model.WorkflowStep{
		{
			Id:          STEP_FIND_JOBS,
			Name:        "Find matching jobs",
			Description: "Search open jobs matching the candidate criteria",
			StepType:    "ai",
			Action:      string(action.AI_ANALYSIS),
			Parameters: map[string]any{
				"analysis_type":       "job_search",
				"candidate_id":        candidateId,
				"job_criteria":        jobCriteria,
				"preferred_locations": locations,
				"salary_range":        map[string]any{"min": criteria.SalaryRange.Min, "max": criteria.SalaryRange.Max},
				"max_results":         maxPerDay,
			},
			NextSteps: []string{STEP_SCREEN_JOBS},
		},
		{
			Id:          STEP_SCREEN_JOBS,
			Name:        "Screen matches",
			Description: "Score found jobs against the candidate profile",
			StepType:    "ai",
			Action:      string(action.AI_ANALYSIS),
			Conditions:  gt("jobs_found"),
			Parameters: map[string]any{
				"analysis_type":   "job_screening",
				"candidate_id":    candidateId,
				"min_match_score": minScore,
			},
			NextSteps: []string{STEP_APPLY},
		},
		{
			Id:          STEP_APPLY,
			Name:        "Auto-apply",
			Description: "Submit an application to the best suitable job",
			StepType:    "application",
			Action:      string(action.AUTO_APPLY),
			Conditions:  gt("suitable_jobs"),
			Parameters: map[string]any{
				"candidate_id": candidateId,
			},
			NextSteps: []string{STEP_NOTIFY},
		},
		{
			Id:          STEP_NOTIFY,
			Name:        "Notify candidate",
			Description: "Tell the candidate an application was submitted",
			StepType:    "notification",
			Action:      string(action.SEND_NOTIFICATION),
			Conditions:  map[string]any{action.CTX_APPLICATION_SUBMITTED: true},
			Parameters: map[string]any{
				"recipient": candidateId,
				"message":   "We applied to job {job_id} for you ({suitable_jobs} suitable matches found).",
				"type":      "auto_apply",
			},
		},
	}

	id := s.workflows.CreateWorkflow(model.WorkflowRequest{
		Name:        fmt.Sprintf("Auto-apply for candidate %s", candidateId),
		Description: "Automatically evaluate and apply to matching jobs",
		TriggerType: model.TriggerScheduled,
		TriggerConditions: map[string]any{
			"cron":                     DEFAULT_SCHEDULE,
			"candidate_id":             candidateId,
			"max_applications_per_day": maxPerDay,
			"min_match_score":          minScore,
		},
		Steps:     steps,
		CreatedBy: candidateId,
	})
	logger.Info("auto-apply workflow configured", zap.String("candidate", candidateId), zap.String("workflow", id))
	return id
}

// AnalyzeJobCompatibility never fails: a scorer error yields a neutral result that asks for
// manual review.
func (s *Service) AnalyzeJobCompatibility(ctx context.Context, profile CandidateProfile, job JobDescription) Compatibility {
	res, err := s.scorer.ScoreCompatibility(ctx, profile, job)
	if err != nil {
		logger.Error("error scoring job compatibility", zap.String("candidate", profile.Id), zap.String("job", job.Id), zap.Error(err))
		return Neutral()
	}
	res.Score = clampScore(res.Score)
	if res.MatchingFactors == nil {
		res.MatchingFactors = []string{}
	}
	if res.MissingRequirements == nil {
		res.MissingRequirements = []string{}
	}
	if res.Recommendation == "" {
		res.Recommendation = Recommend(res.Score)
	}
	return res
}

func Neutral() Compatibility {
	return Compatibility{
		Score:               NEUTRAL_SCORE,
		MatchingFactors:     []string{},
		MissingRequirements: []string{},
		Recommendation:      NEUTRAL_RECOMMENDATION,
	}
}

func clampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func Recommend(score float64) string {
	switch {
	case score >= 80:
		return "strong match - apply"
	case score >= 60:
		return "good match - consider applying"
	case score >= 40:
		return "partial match - review before applying"
	}
	return "weak match - not recommended"
}
