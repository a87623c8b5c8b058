package skill

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Skill struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description string
	Status      string
	// CurrentDemandPct and GrowthRatePct are recomputed by the demand refresh.
	CurrentDemandPct int
	GrowthRatePct    int
	DemandUpdatedAt  *time.Time
	AvgHourlyRate    *float64
	RelatedIDs       []uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (s Skill) IsActive() bool { return s.Status == StatusActive }

// Key is the comparison form of a skill name. Skill names match
// case-insensitively everywhere: catalog lookups, job requirements and
// worker profiles.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Keys maps names to their keys, dropping blanks and duplicates.
func Keys(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		k := Key(n)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
