package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RULE_TRIGGERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the shared implementation for simple events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeRuleTriggered = "RULE_TRIGGERED"
	TypeDMSent        = "DM_SENT"
)

// NewRuleTriggered records a confirmed rule dispatch: the DM was delivered
// and the trigger counter advanced.
func NewRuleTriggered(ruleID, ruleName, commentID, commenter string) Event {
	return BaseEvent{
		Type: TypeRuleTriggered,
		Data: map[string]interface{}{
			"rule_id":    ruleID,
			"rule_name":  ruleName,
			"comment_id": commentID,
			"commenter":  commenter,
		},
		OccurredAt: time.Now(),
	}
}

// NewDMSent records an outbound direct message on the DM reply path.
func NewDMSent(recipientID string, contextDocs int) Event {
	return BaseEvent{
		Type: TypeDMSent,
		Data: map[string]interface{}{
			"recipient_id": recipientID,
			"context_docs": contextDocs,
		},
		OccurredAt: time.Now(),
	}
}
