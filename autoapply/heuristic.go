package autoapply

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	SKILL_WEIGHT      = 70.0
	EXPERIENCE_WEIGHT = 20.0
	LOCATION_WEIGHT   = 10.0
)

var _ CompatibilityScorer = HeuristicScorer{}

// HeuristicScorer scores locally from skill overlap, experience and location.
type HeuristicScorer struct{}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func (HeuristicScorer) ScoreCompatibility(ctx context.Context, profile CandidateProfile, job JobDescription) (Compatibility, error) {
	res := Compatibility{
		MatchingFactors:     []string{},
		MissingRequirements: []string{},
	}

	required := normalize(job.RequiredSkills)
	have := normalize(profile.Skills)
	skillScore := SKILL_WEIGHT
	if len(required) > 0 {
		matched := 0
		for _, skill := range required {
			if slices.Contains(have, skill) {
				matched++
				res.MatchingFactors = append(res.MatchingFactors, "skill: "+skill)
			} else {
				res.MissingRequirements = append(res.MissingRequirements, "skill: "+skill)
			}
		}
		skillScore = SKILL_WEIGHT * float64(matched) / float64(len(required))
	}

	experienceScore := EXPERIENCE_WEIGHT
	if job.MinExperienceYears > 0 {
		if profile.ExperienceYears >= job.MinExperienceYears {
			res.MatchingFactors = append(res.MatchingFactors, "experience meets requirement")
		} else {
			experienceScore = EXPERIENCE_WEIGHT * profile.ExperienceYears / job.MinExperienceYears
			if experienceScore < 0 {
				experienceScore = 0
			}
			res.MissingRequirements = append(res.MissingRequirements, fmt.Sprintf("experience: %g years required", job.MinExperienceYears))
		}
	}

	locationScore := 0.0
	jobLocation := strings.ToLower(strings.TrimSpace(job.Location))
	switch {
	case job.Remote:
		locationScore = LOCATION_WEIGHT
		res.MatchingFactors = append(res.MatchingFactors, "remote position")
	case jobLocation == "":
		locationScore = LOCATION_WEIGHT / 2
	case jobLocation == strings.ToLower(strings.TrimSpace(profile.Location)) || slices.Contains(normalize(profile.PreferredLocations), jobLocation):
		locationScore = LOCATION_WEIGHT
		res.MatchingFactors = append(res.MatchingFactors, "location: "+jobLocation)
	default:
		res.MissingRequirements = append(res.MissingRequirements, "location: "+jobLocation)
	}

	res.Score = math.Round((skillScore+experienceScore+locationScore)*10) / 10
	res.Recommendation = Recommend(res.Score)
	return res, nil
}
