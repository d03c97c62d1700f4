package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRuleRequest struct {
	Name           string `json:"name" validate:"required"`
	TriggerKeyword string `json:"trigger_keyword" validate:"required"`
	DmResponse     string `json:"dm_response" validate:"required"`
	RequireFollow  bool   `json:"require_follow"`
	IsActive       *bool  `json:"is_active"`
}

type CreateRuleResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateRuleRequest struct {
	Id             uuid.UUID
	Name           string `json:"name" validate:"required"`
	TriggerKeyword string `json:"trigger_keyword" validate:"required"`
	DmResponse     string `json:"dm_response" validate:"required"`
	RequireFollow  bool   `json:"require_follow"`
	IsActive       *bool  `json:"is_active"`
}

type ShowRuleResponse struct {
	Id             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	TriggerKeyword string     `json:"trigger_keyword"`
	DmResponse     string     `json:"dm_response"`
	RequireFollow  bool       `json:"require_follow"`
	IsActive       bool       `json:"is_active"`
	TriggerCount   int        `json:"trigger_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}
