package job

import (
	"net/url"
	"time"

	"skilllink/internal/domain/geo"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether an owner may move a job from s to next.
// Completion goes through the rating flow and is never set directly.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusOpen:
		return next == StatusAssigned || next == StatusCancelled
	case StatusAssigned:
		return next == StatusInProgress || next == StatusOpen || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCancelled
	default:
		return false
	}
}

type Type string

const (
	TypeOneTime   Type = "one-time"
	TypeRecurring Type = "recurring"
)

func (t Type) Valid() bool { return t == TypeOneTime || t == TypeRecurring }

type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyImmediate Urgency = "immediate"
)

func (u Urgency) Valid() bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh || u == UrgencyImmediate
}

type Budget struct {
	Amount   float64
	Currency string
}

type Job struct {
	ID                      uuid.UUID
	BusinessID              uuid.UUID
	Title                   string
	Description             string
	Category                string
	RequiredSkills          []string
	RequiredExperienceYears float64
	Type                    Type
	Location                geo.Point
	Address                 string
	Budget                  Budget
	Urgency                 Urgency
	Status                  Status
	AssignedWorkerID        *uuid.UUID
	Completion              Completion
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Completion holds the ratings both parties leave once the work is done.
type Completion struct {
	// BusinessRating is the owner's rating of the worker; it feeds the
	// worker's average once both sides have rated.
	BusinessRating *float64
	BusinessReview string
	WorkerRating   *float64
	WorkerReview   string
	// ProofOfWork is attached by the assigned worker when rating.
	ProofOfWork []ProofOfWork
	CompletedAt *time.Time
}

type ProofKind string

const (
	ProofImage    ProofKind = "image"
	ProofDocument ProofKind = "document"
	ProofVideo    ProofKind = "video"
)

// ProofOfWork links to evidence of the finished work. It is stored as JSON.
type ProofOfWork struct {
	Kind        ProofKind `json:"type"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
}

// Valid requires a known kind and an absolute URL.
func (p ProofOfWork) Valid() bool {
	switch p.Kind {
	case ProofImage, ProofDocument, ProofVideo:
	default:
		return false
	}
	u, err := url.Parse(p.URL)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func (c Completion) BothRated() bool {
	return c.BusinessRating != nil && c.WorkerRating != nil
}

type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	WorkerID    uuid.UUID
	Proposal    string
	QuotedPrice float64
	Status      string
	AppliedAt   time.Time
}

// ListFilter narrows job listings. Zero values mean "no filter" except Status,
// which callers default to open.
type ListFilter struct {
	Category  string
	Skills    []string
	Near      *geo.Point
	RadiusKm  float64
	Status    Status
	Type      Type
	MinBudget *float64
	MaxBudget *float64
	Urgency   Urgency
	Limit     int
	Offset    int
}
