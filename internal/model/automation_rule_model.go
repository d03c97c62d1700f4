package model

import (
	"time"

	"github.com/google/uuid"
)

type AutomationRule struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string    `gorm:"type:varchar(255);not null"`
	TriggerKeyword string    `gorm:"type:varchar(255);not null;index"`
	DmResponse     string    `gorm:"type:text;not null"`
	RequireFollow  bool      `gorm:"default:false"`
	IsActive       bool      `gorm:"default:true;index"`
	TriggerCount   int       `gorm:"default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (AutomationRule) TableName() string {
	return "automation_rules"
}
