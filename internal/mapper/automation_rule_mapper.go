package mapper

import (
	"time"

	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/model"
)

type AutomationRuleMapper struct{}

func NewAutomationRuleMapper() *AutomationRuleMapper {
	return &AutomationRuleMapper{}
}

func (m *AutomationRuleMapper) ToEntity(r *model.AutomationRule) *entity.AutomationRule {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.AutomationRule{
		Id:             r.Id,
		Name:           r.Name,
		TriggerKeyword: r.TriggerKeyword,
		DmResponse:     r.DmResponse,
		RequireFollow:  r.RequireFollow,
		IsActive:       r.IsActive,
		TriggerCount:   r.TriggerCount,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *AutomationRuleMapper) ToModel(r *entity.AutomationRule) *model.AutomationRule {
	if r == nil {
		return nil
	}

	return &model.AutomationRule{
		Id:             r.Id,
		Name:           r.Name,
		TriggerKeyword: r.TriggerKeyword,
		DmResponse:     r.DmResponse,
		RequireFollow:  r.RequireFollow,
		IsActive:       r.IsActive,
		TriggerCount:   r.TriggerCount,
	}
}
