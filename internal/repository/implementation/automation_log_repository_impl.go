package implementation

import (
	"context"

	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/mapper"
	"ig-engagement-be/internal/model"
	"ig-engagement-be/internal/repository/contract"

	"gorm.io/gorm"
)

type AutomationRunRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AutomationRunMapper
}

func NewAutomationRunRepository(db *gorm.DB) contract.AutomationRunRepository {
	return &AutomationRunRepositoryImpl{
		db:     db,
		mapper: mapper.NewAutomationRunMapper(),
	}
}

func (r *AutomationRunRepositoryImpl) Create(ctx context.Context, run *entity.AutomationRun) error {
	m := r.mapper.ToModel(run)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*run = *r.mapper.ToEntity(m)
	return nil
}

func (r *AutomationRunRepositoryImpl) FindRecent(ctx context.Context, limit int) ([]*entity.AutomationRun, error) {
	var models []*model.AutomationRun
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	runs := make([]*entity.AutomationRun, 0, len(models))
	for _, m := range models {
		runs = append(runs, r.mapper.ToEntity(m))
	}
	return runs, nil
}
