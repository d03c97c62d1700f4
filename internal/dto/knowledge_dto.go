package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateKnowledgeRequest struct {
	Name    string `json:"name" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type CreateKnowledgeResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateKnowledgeRequest struct {
	Id      uuid.UUID
	Name    string `json:"name" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type ShowKnowledgeResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// PublishEmbedKnowledgeMessage is the pub/sub payload that asks the
// consumer to (re)embed one document.
type PublishEmbedKnowledgeMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type ShowRunResponse struct {
	Id          uuid.UUID              `json:"id"`
	TriggerType string                 `json:"trigger_type"`
	SourceId    string                 `json:"source_id"`
	Attempted   int                    `json:"attempted"`
	Succeeded   int                    `json:"succeeded"`
	Failed      int                    `json:"failed"`
	Details     map[string]interface{} `json:"details"`
	CreatedAt   time.Time              `json:"created_at"`
}
