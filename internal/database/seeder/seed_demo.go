package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"skilllink/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	demoBusinessEmail = "demo-business@skilllink.local"
	demoPassword      = "demo-password"
	demoJobCount      = 40
	demoSeed          = 20240601
	// jitter around the center, roughly 9 km at Bengaluru's latitude
	demoJitterDeg = 0.08
)

var demoCenter = struct{ Lon, Lat float64 }{77.5946, 12.9716}

type demoWorker struct {
	Email     string
	FirstName string
	Skills    []demoWorkerSkill
	Rating    float64
}

type demoWorkerSkill struct {
	Name  string
	Years float64
	Rate  float64
}

var demoWorkers = []demoWorker{
	{Email: "ravi@skilllink.local", FirstName: "Ravi", Rating: 4.6, Skills: []demoWorkerSkill{{"Plumbing", 6, 350}, {"Pipe Fitting", 3, 300}}},
	{Email: "meena@skilllink.local", FirstName: "Meena", Rating: 4.9, Skills: []demoWorkerSkill{{"Electrical Wiring", 8, 450}}},
	{Email: "arjun@skilllink.local", FirstName: "Arjun", Rating: 3.8, Skills: []demoWorkerSkill{{"Carpentry", 4, 300}, {"Painting", 2, 250}}},
	{Email: "lakshmi@skilllink.local", FirstName: "Lakshmi", Rating: 4.2, Skills: []demoWorkerSkill{{"House Cleaning", 5, 200}}},
	{Email: "imran@skilllink.local", FirstName: "Imran", Rating: 4.4, Skills: []demoWorkerSkill{{"AC Servicing", 3, 400}, {"Appliance Repair", 2, 350}}},
}

type demoJobTemplate struct {
	Title    string
	Category string
	Skills   []string
	Budget   [2]int
}

var demoTemplates = []demoJobTemplate{
	{"Fix leaking kitchen pipe", "Home Repair", []string{"Plumbing", "Pipe Fitting"}, [2]int{500, 2000}},
	{"Install geyser", "Home Repair", []string{"Water Heater Installation", "Plumbing"}, [2]int{1500, 4000}},
	{"Rewire living room", "Electrical", []string{"Electrical Wiring"}, [2]int{3000, 9000}},
	{"Rooftop solar setup", "Electrical", []string{"Solar Panel Installation", "Electrical Wiring"}, [2]int{20000, 60000}},
	{"AC not cooling", "HVAC", []string{"AC Servicing"}, [2]int{600, 2500}},
	{"Assemble wardrobe", "Woodwork", []string{"Furniture Assembly", "Carpentry"}, [2]int{800, 3000}},
	{"Repaint 2BHK", "Finishing", []string{"Painting", "Wall Plastering"}, [2]int{12000, 30000}},
	{"Bathroom retiling", "Finishing", []string{"Tiling"}, [2]int{8000, 20000}},
	{"Move-out deep clean", "Cleaning", []string{"Deep Cleaning", "House Cleaning"}, [2]int{2000, 6000}},
	{"Weekly garden upkeep", "Outdoor", []string{"Gardening"}, [2]int{1000, 3000}},
}

var demoUrgencies = []string{"low", "medium", "high", "immediate"}

type demoJob struct {
	Title      string
	Category   string
	Skills     []string
	Experience float64
	Type       string
	Lon, Lat   float64
	Budget     float64
	Urgency    string
	CreatedAt  time.Time
}

// buildDemoJobs is deterministic for a given rng so reruns produce the same
// postings. CreatedAt spreads over the demand lookback window.
func buildDemoJobs(rng *rand.Rand, now time.Time, n int) []demoJob {
	out := make([]demoJob, 0, n)
	for i := 0; i < n; i++ {
		t := demoTemplates[rng.Intn(len(demoTemplates))]
		jobType := "one-time"
		if rng.Intn(4) == 0 {
			jobType = "recurring"
		}
		budget := t.Budget[0] + rng.Intn(t.Budget[1]-t.Budget[0]+1)
		out = append(out, demoJob{
			Title:      t.Title,
			Category:   t.Category,
			Skills:     append([]string(nil), t.Skills...),
			Experience: float64(rng.Intn(5)),
			Type:       jobType,
			Lon:        demoCenter.Lon + (rng.Float64()*2-1)*demoJitterDeg,
			Lat:        demoCenter.Lat + (rng.Float64()*2-1)*demoJitterDeg,
			Budget:     float64(budget),
			Urgency:    demoUrgencies[rng.Intn(len(demoUrgencies))],
			CreatedAt:  now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour),
		})
	}
	return out
}

// DemoSeeder creates a demo business, a handful of workers around Bengaluru
// and a month of open jobs so matching, recommendations and demand have
// data to work on. It depends on SkillsSeeder and is a no-op once the demo
// business has jobs.
type DemoSeeder struct{}

func (DemoSeeder) Name() string { return "demo" }

func (DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, tableColumns{
		"users": {"id", "email", "role", "longitude", "latitude"},
		"jobs":  {"id", "business_id", "required_skills", "urgency", "created_at"},
	}); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		businessID, err := upsertDemoUser(ctx, tx, demoBusinessEmail, string(hash), "business", "Demo", 0)
		if err != nil {
			return err
		}

		var existing int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM jobs WHERE business_id = $1`, businessID).Scan(&existing); err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		for _, w := range demoWorkers {
			id, err := upsertDemoUser(ctx, tx, w.Email, string(hash), "worker", w.FirstName, w.Rating)
			if err != nil {
				return err
			}
			for _, s := range w.Skills {
				if _, err := tx.Exec(ctx,
					`INSERT INTO worker_skills (id, user_id, skill_name, years_experience, hourly_rate)
					 VALUES ($1, $2, $3, $4, $5)
					 ON CONFLICT (user_id, (lower(skill_name))) DO NOTHING`,
					uuid.New(), id, s.Name, s.Years, s.Rate,
				); err != nil {
					return err
				}
			}
		}

		rng := rand.New(rand.NewSource(demoSeed))
		for _, j := range buildDemoJobs(rng, time.Now().UTC(), demoJobCount) {
			if _, err := tx.Exec(ctx,
				`INSERT INTO jobs (
					id, business_id, title, category, required_skills, experience_years, job_type,
					longitude, latitude, budget_amount, urgency, created_at, updated_at
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)`,
				uuid.New(), businessID, j.Title, j.Category, j.Skills, j.Experience, j.Type,
				j.Lon, j.Lat, j.Budget, j.Urgency, j.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertDemoUser(ctx context.Context, q database.Querier, email, hash, role, firstName string, rating float64) (uuid.UUID, error) {
	ratingCount := 0
	if rating > 0 {
		ratingCount = 10
	}
	var id uuid.UUID
	err := q.QueryRow(ctx,
		`INSERT INTO users (
			id, email, password_hash, role, first_name, business_name,
			longitude, latitude, search_radius_km, is_available_now, rating_average, rating_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 15, $9, $10, $11)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id`,
		uuid.New(), email, hash, role, firstName, businessNameFor(role),
		demoCenter.Lon, demoCenter.Lat, role == "worker", rating, ratingCount,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert demo user %s: %w", email, err)
	}
	return id, nil
}

func businessNameFor(role string) string {
	if role == "business" {
		return "SkillLink Demo Services"
	}
	return ""
}
