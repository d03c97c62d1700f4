package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AutomationRun struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TriggerType string         `gorm:"type:varchar(32);not null;index"`
	SourceId    string         `gorm:"type:varchar(255);not null"`
	Attempted   int            `gorm:"default:0"`
	Succeeded   int            `gorm:"default:0"`
	Failed      int            `gorm:"default:0"`
	Details     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
}

func (AutomationRun) TableName() string {
	return "automation_runs"
}
