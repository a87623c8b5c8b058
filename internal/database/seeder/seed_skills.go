package seeder

import (
	"context"

	"skilllink/internal/database"

	"github.com/google/uuid"
)

type seedSkill struct {
	Name     string
	Category string
	Related  []string
}

// catalog is the starter trade taxonomy. Related edges point from a skill to
// skills a worker holding it can pick up next.
var catalog = []seedSkill{
	{Name: "Plumbing", Category: "Home Repair", Related: []string{"Pipe Fitting", "Water Heater Installation"}},
	{Name: "Pipe Fitting", Category: "Home Repair", Related: []string{"Plumbing"}},
	{Name: "Water Heater Installation", Category: "Home Repair", Related: []string{"Electrical Wiring"}},
	{Name: "Electrical Wiring", Category: "Electrical", Related: []string{"Solar Panel Installation", "Appliance Repair"}},
	{Name: "Solar Panel Installation", Category: "Electrical", Related: []string{"Electrical Wiring"}},
	{Name: "Appliance Repair", Category: "Electrical", Related: []string{"AC Servicing"}},
	{Name: "AC Servicing", Category: "HVAC", Related: []string{"Appliance Repair"}},
	{Name: "Carpentry", Category: "Woodwork", Related: []string{"Furniture Assembly", "Painting"}},
	{Name: "Furniture Assembly", Category: "Woodwork", Related: []string{"Carpentry"}},
	{Name: "Painting", Category: "Finishing", Related: []string{"Wall Plastering", "Carpentry"}},
	{Name: "Wall Plastering", Category: "Finishing", Related: []string{"Tiling"}},
	{Name: "Tiling", Category: "Finishing", Related: []string{"Wall Plastering"}},
	{Name: "House Cleaning", Category: "Cleaning", Related: []string{"Deep Cleaning"}},
	{Name: "Deep Cleaning", Category: "Cleaning", Related: []string{"House Cleaning", "Pest Control"}},
	{Name: "Pest Control", Category: "Cleaning", Related: []string{"Deep Cleaning"}},
	{Name: "Gardening", Category: "Outdoor", Related: []string{"Landscaping"}},
	{Name: "Landscaping", Category: "Outdoor", Related: []string{"Gardening"}},
	{Name: "Driving", Category: "Transport", Related: []string{"Delivery"}},
	{Name: "Delivery", Category: "Transport", Related: []string{"Driving"}},
}

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, tableColumns{
		"skills":          {"id", "name", "category", "status", "current_demand"},
		"skill_relations": {"skill_id", "related_skill_id"},
	}); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range catalog {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO skills (id, name, category) VALUES ($1, $2, $3) ON CONFLICT ((lower(name))) DO NOTHING`,
				uuid.New(), it.Name, it.Category,
			); err != nil {
				return err
			}
		}

		for _, it := range catalog {
			for _, rel := range it.Related {
				if _, err := tx.Exec(
					ctx,
					`INSERT INTO skill_relations (skill_id, related_skill_id)
					 SELECT s.id, r.id FROM skills s, skills r WHERE lower(s.name) = lower($1) AND lower(r.name) = lower($2)
					 ON CONFLICT DO NOTHING`,
					it.Name, rel,
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
