package ws

import (
	"encoding/json"
	"time"

	"skilllink/internal/domain/skill"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventSkillDemandUpdated = "skill_demand_updated"

type SkillDemandUpdatedEvent struct {
	Type          string    `json:"type"`
	SkillID       uuid.UUID `json:"skill_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	CurrentDemand int       `json:"current_demand"`
	GrowthRate    int       `json:"growth_rate"`
	Timestamp     string    `json:"timestamp"`
}

// Notifier publishes demand refreshes to the hub.
type Notifier struct {
	hub *Hub
	log *zap.Logger
	now func() time.Time
}

func NewNotifier(hub *Hub, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{hub: hub, log: log, now: time.Now}
}

func (n *Notifier) SkillDemandUpdated(s skill.Skill) {
	if n == nil || n.hub == nil {
		return
	}
	ts := n.now()
	if s.DemandUpdatedAt != nil {
		ts = *s.DemandUpdatedAt
	}
	b, err := json.Marshal(SkillDemandUpdatedEvent{
		Type:          EventSkillDemandUpdated,
		SkillID:       s.ID,
		Name:          s.Name,
		Category:      s.Category,
		CurrentDemand: s.CurrentDemandPct,
		GrowthRate:    s.GrowthRatePct,
		Timestamp:     ts.UTC().Format(time.RFC3339),
	})
	if err != nil {
		n.log.Warn("encode demand event failed", zap.Error(err))
		return
	}
	n.hub.Broadcast(b)
}
