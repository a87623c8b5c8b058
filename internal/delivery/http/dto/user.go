package dto

import (
	"time"

	"skilllink/internal/domain/user"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	Role      string           `json:"role"`
	Status    string           `json:"status"`
	Profile   ProfileResponse  `json:"profile"`
	Business  *BusinessDetails `json:"business_details,omitempty"`
	Worker    *WorkerDetails   `json:"worker_details,omitempty"`
	Ratings   RatingsResponse  `json:"ratings"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type ProfileResponse struct {
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	Country        string   `json:"country"`
	Pincode        string   `json:"pincode"`
	Location       GeoPoint `json:"location"`
	SearchRadiusKm float64  `json:"search_radius_km"`
}

type BusinessDetails struct {
	BusinessName string `json:"business_name"`
	BusinessType string `json:"business_type"`
}

type WorkerDetails struct {
	Skills         []WorkerSkill `json:"skills"`
	IsAvailableNow bool          `json:"is_available_now"`
}

type WorkerSkill struct {
	SkillName       string  `json:"skill_name"`
	YearsExperience float64 `json:"years_experience"`
	HourlyRate      float64 `json:"hourly_rate"`
	Category        string  `json:"category,omitempty"`
}

type RatingsResponse struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

func NewUserProfileResponse(u user.User) UserProfileResponse {
	res := UserProfileResponse{
		ID:     u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		Status: u.Status,
		Profile: ProfileResponse{
			FirstName:      u.Profile.FirstName,
			LastName:       u.Profile.LastName,
			Phone:          u.Profile.Phone,
			Address:        u.Profile.Address,
			City:           u.Profile.City,
			State:          u.Profile.State,
			Country:        u.Profile.Country,
			Pincode:        u.Profile.Pincode,
			Location:       NewGeoPoint(u.Profile.Location),
			SearchRadiusKm: u.Profile.SearchRadiusKm,
		},
		Ratings:   RatingsResponse{Average: u.Ratings.Average, Count: u.Ratings.Count},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	switch u.Role {
	case user.RoleWorker:
		skills := make([]WorkerSkill, 0, len(u.Worker.Skills))
		for _, s := range u.Worker.Skills {
			skills = append(skills, WorkerSkill{
				SkillName:       s.SkillName,
				YearsExperience: s.YearsExperience,
				HourlyRate:      s.HourlyRate,
				Category:        s.Category,
			})
		}
		res.Worker = &WorkerDetails{Skills: skills, IsAvailableNow: u.Worker.IsAvailableNow}
	case user.RoleBusiness:
		res.Business = &BusinessDetails{
			BusinessName: u.Business.BusinessName,
			BusinessType: u.Business.BusinessType,
		}
	}
	return res
}
