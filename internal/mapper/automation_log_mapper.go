package mapper

import (
	"encoding/json"

	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/model"

	"gorm.io/datatypes"
)

type AutomationRunMapper struct{}

func NewAutomationRunMapper() *AutomationRunMapper {
	return &AutomationRunMapper{}
}

func (m *AutomationRunMapper) ToEntity(r *model.AutomationRun) *entity.AutomationRun {
	if r == nil {
		return nil
	}

	details := map[string]interface{}{}
	if len(r.Details) > 0 {
		_ = json.Unmarshal(r.Details, &details)
	}

	return &entity.AutomationRun{
		Id:          r.Id,
		TriggerType: r.TriggerType,
		SourceId:    r.SourceId,
		Attempted:   r.Attempted,
		Succeeded:   r.Succeeded,
		Failed:      r.Failed,
		Details:     details,
		CreatedAt:   r.CreatedAt,
	}
}

func (m *AutomationRunMapper) ToModel(r *entity.AutomationRun) *model.AutomationRun {
	if r == nil {
		return nil
	}

	var details datatypes.JSON
	if r.Details != nil {
		b, err := json.Marshal(r.Details)
		if err == nil {
			details = b
		}
	}

	return &model.AutomationRun{
		Id:          r.Id,
		TriggerType: r.TriggerType,
		SourceId:    r.SourceId,
		Attempted:   r.Attempted,
		Succeeded:   r.Succeeded,
		Failed:      r.Failed,
		Details:     details,
	}
}
