package contract

import (
	"context"

	"ig-engagement-be/internal/entity"

	"github.com/google/uuid"
)

type AutomationRuleRepository interface {
	Create(ctx context.Context, rule *entity.AutomationRule) error
	Update(ctx context.Context, rule *entity.AutomationRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.AutomationRule, error)
	FindAll(ctx context.Context) ([]*entity.AutomationRule, error)
	FindActive(ctx context.Context) ([]*entity.AutomationRule, error)
	IncrementTriggerCount(ctx context.Context, id uuid.UUID) error
}
