// Package recommendation ranks skills a worker could learn next by merging
// two candidate pools: skills related to what the worker already knows and
// skills in high demand around the worker's location.
package recommendation

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

const (
	RelatedPoolWeight    = 0.6
	HighDemandPoolWeight = 0.4

	CurrentDemandWeight = 0.4
	GrowthRateWeight    = 0.3
	LocalDemandWeight   = 0.3

	FamiliarityBonus = 1.2

	ReasonRelated          = "Related to your current skills"
	ReasonHighDemand       = "High demand in your area"
	ReasonHighDemandSuffix = " and in high demand in your area"
)

type Skill struct {
	ID               uuid.UUID
	Name             string
	Category         string
	CurrentDemandPct float64
	GrowthRatePct    float64
}

// LocalSkill is a skill from the regional pool along with its share of nearby
// recent jobs.
type LocalSkill struct {
	Skill
	LocalDemandPct float64
}

// Worker carries what the engine needs to know about the worker: the
// categories of the skills they already have.
type Worker struct {
	SkillCategories []string
}

type Recommendation struct {
	Skill  Skill
	Score  float64
	Reason string
}

// Recommend merges both pools into a list deduplicated by skill ID and sorted
// by descending score. Entries with equal scores keep first-insertion order,
// so the related pool wins ties against the high-demand pool.
func Recommend(related []Skill, highDemand []LocalSkill, worker Worker) []Recommendation {
	familiar := make(map[string]struct{}, len(worker.SkillCategories))
	for _, c := range worker.SkillCategories {
		if c == "" {
			continue
		}
		familiar[c] = struct{}{}
	}

	out := make([]Recommendation, 0, len(related)+len(highDemand))
	index := make(map[uuid.UUID]int, cap(out))

	for _, s := range related {
		score := float64(BaseScore(s, 0, familiar)) * RelatedPoolWeight
		if i, ok := index[s.ID]; ok {
			// Duplicate inside the related pool: keep the first entry, best score.
			out[i].Score = math.Max(out[i].Score, score)
			continue
		}
		index[s.ID] = len(out)
		out = append(out, Recommendation{Skill: s, Score: score, Reason: ReasonRelated})
	}

	for _, ls := range highDemand {
		score := float64(BaseScore(ls.Skill, ls.LocalDemandPct, familiar)) * HighDemandPoolWeight
		if i, ok := index[ls.ID]; ok {
			out[i].Score = math.Max(out[i].Score, score)
			if out[i].Reason == ReasonRelated {
				out[i].Reason += ReasonHighDemandSuffix
			}
			continue
		}
		index[ls.ID] = len(out)
		out = append(out, Recommendation{Skill: ls.Skill, Score: score, Reason: ReasonHighDemand})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// BaseScore is the rounded, familiarity-adjusted demand blend of a skill.
// localDemandPct is 0 for skills without a regional signal.
func BaseScore(s Skill, localDemandPct float64, familiarCategories map[string]struct{}) int {
	raw := CurrentDemandWeight*s.CurrentDemandPct +
		GrowthRateWeight*s.GrowthRatePct +
		LocalDemandWeight*localDemandPct

	if _, ok := familiarCategories[s.Category]; ok && s.Category != "" {
		raw *= FamiliarityBonus
	}
	return int(math.Round(raw))
}
