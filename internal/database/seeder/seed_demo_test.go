package seeder

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

func TestBuildDemoJobs_Deterministic(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	a := buildDemoJobs(rand.New(rand.NewSource(demoSeed)), now, 20)
	b := buildDemoJobs(rand.New(rand.NewSource(demoSeed)), now, 20)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different jobs")
	}
}

func TestBuildDemoJobs_WithinBounds(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	known := map[string]bool{}
	for _, s := range catalog {
		known[s.Name] = true
	}

	for _, j := range buildDemoJobs(rand.New(rand.NewSource(7)), now, 200) {
		if len(j.Skills) == 0 {
			t.Fatalf("%q has no skills", j.Title)
		}
		for _, s := range j.Skills {
			if !known[s] {
				t.Fatalf("%q requires unknown skill %q", j.Title, s)
			}
		}
		if j.CreatedAt.After(now) || now.Sub(j.CreatedAt) > 30*24*time.Hour {
			t.Fatalf("created at %v outside lookback", j.CreatedAt)
		}
		if d := j.Lat - demoCenter.Lat; d > demoJitterDeg || d < -demoJitterDeg {
			t.Fatalf("lat %v too far from center", j.Lat)
		}
		if j.Type != "one-time" && j.Type != "recurring" {
			t.Fatalf("job type %q", j.Type)
		}
	}
}

func TestDemoWorkersUseCatalogSkills(t *testing.T) {
	known := map[string]bool{}
	for _, s := range catalog {
		known[s.Name] = true
	}
	for _, w := range demoWorkers {
		for _, s := range w.Skills {
			if !known[s.Name] {
				t.Errorf("%s has unknown skill %q", w.Email, s.Name)
			}
		}
	}
}
