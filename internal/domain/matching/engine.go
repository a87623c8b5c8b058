// Package matching scores how well a worker fits a job posting.
//
// The score is a weighted sum of five normalized sub-scores (skills, experience,
// location, availability, rating). It is a pure function of its inputs and
// never fails: missing profile data degrades the score instead.
package matching

import (
	"math"
	"sort"

	"skilllink/internal/domain/geo"
	"skilllink/internal/domain/skill"

	"github.com/google/uuid"
)

const (
	WeightSkills       = 0.40
	WeightExperience   = 0.20
	WeightLocation     = 0.20
	WeightAvailability = 0.10
	WeightRating       = 0.10

	DefaultSearchRadiusKm = 25.0
	MaxRating             = 5.0
)

type WorkerSkill struct {
	SkillName       string
	YearsExperience float64
}

type WorkerProfile struct {
	Skills         []WorkerSkill
	Location       geo.Point
	SearchRadiusKm float64
	IsAvailableNow bool
	RatingAverage  float64
}

type JobPosting struct {
	ID                      uuid.UUID
	RequiredSkills          []string
	Location                geo.Point
	RequiredExperienceYears float64
}

// Breakdown holds the normalized [0,1] sub-scores and the final integer score.
type Breakdown struct {
	Skills       float64
	Experience   float64
	Location     float64
	Availability float64
	Rating       float64
	DistanceKm   float64
	Score        int
}

type MatchResult struct {
	JobID uuid.UUID
	Score int
}

func ComputeMatchScore(job JobPosting, worker WorkerProfile) int {
	return Calculate(job, worker).Score
}

func Calculate(job JobPosting, worker WorkerProfile) Breakdown {
	b := Breakdown{
		Skills:     skillsRatio(job.RequiredSkills, worker.Skills),
		Experience: experienceRatio(job.RequiredExperienceYears, worker.Skills),
		Rating:     clampFloat(worker.RatingAverage, 0, MaxRating) / MaxRating,
	}

	distance := geo.DistanceMeters(job.Location, worker.Location)
	b.DistanceKm = distance / 1000
	b.Location = locationRatio(distance, worker.SearchRadiusKm)

	if worker.IsAvailableNow {
		b.Availability = 1
	}

	total := WeightSkills*b.Skills +
		WeightExperience*b.Experience +
		WeightLocation*b.Location +
		WeightAvailability*b.Availability +
		WeightRating*b.Rating

	b.Score = clampInt(int(math.Round(total*100)), 0, 100)
	return b
}

// RankJobs scores every job and sorts by descending score. Equal scores keep
// their input order.
func RankJobs(jobs []JobPosting, worker WorkerProfile) []MatchResult {
	out := make([]MatchResult, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, MatchResult{JobID: j.ID, Score: ComputeMatchScore(j, worker)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// skillsRatio compares names by skill.Key, so "plumbing" satisfies a
// "Plumbing" requirement.
func skillsRatio(required []string, skills []WorkerSkill) float64 {
	req := skill.Keys(required)
	if len(req) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[skill.Key(s.SkillName)] = struct{}{}
	}

	matched := 0
	for _, r := range req {
		if _, ok := have[r]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(req))
}

func experienceRatio(requiredYears float64, skills []WorkerSkill) float64 {
	if requiredYears <= 0 {
		return 1
	}
	if len(skills) == 0 {
		return 0
	}

	sum := 0.0
	for _, s := range skills {
		sum += s.YearsExperience
	}
	avg := sum / float64(len(skills))
	if avg <= 0 {
		return 0
	}
	return math.Min(avg/requiredYears, 1)
}

func locationRatio(distanceMeters, radiusKm float64) float64 {
	if radiusKm <= 0 {
		radiusKm = DefaultSearchRadiusKm
	}
	return math.Max(0, 1-distanceMeters/(radiusKm*1000))
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func clampFloat(v, minV, maxV float64) float64 {
	if math.IsNaN(v) || v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
