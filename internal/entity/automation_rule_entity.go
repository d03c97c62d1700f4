package entity

import (
	"time"

	"github.com/google/uuid"
)

type AutomationRule struct {
	Id             uuid.UUID
	Name           string
	TriggerKeyword string
	DmResponse     string
	RequireFollow  bool
	IsActive       bool
	TriggerCount   int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
