package entity

import (
	"time"

	"github.com/google/uuid"
)

// AutomationRun records the outcome of one webhook delivery pass through
// the rule engine.
type AutomationRun struct {
	Id          uuid.UUID
	TriggerType string // "comment" or "dm"
	SourceId    string // comment id or sender id
	Attempted   int
	Succeeded   int
	Failed      int
	Details     map[string]interface{}
	CreatedAt   time.Time
}
