package contract

import (
	"context"

	"ig-engagement-be/internal/entity"
)

type AutomationRunRepository interface {
	Create(ctx context.Context, run *entity.AutomationRun) error
	FindRecent(ctx context.Context, limit int) ([]*entity.AutomationRun, error)
}
