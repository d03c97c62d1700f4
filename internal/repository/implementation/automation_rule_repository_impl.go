package implementation

import (
	"context"
	"errors"

	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/mapper"
	"ig-engagement-be/internal/model"
	"ig-engagement-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AutomationRuleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AutomationRuleMapper
}

func NewAutomationRuleRepository(db *gorm.DB) contract.AutomationRuleRepository {
	return &AutomationRuleRepositoryImpl{
		db:     db,
		mapper: mapper.NewAutomationRuleMapper(),
	}
}

func (r *AutomationRuleRepositoryImpl) Create(ctx context.Context, rule *entity.AutomationRule) error {
	m := r.mapper.ToModel(rule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ToEntity(m)
	return nil
}

func (r *AutomationRuleRepositoryImpl) Update(ctx context.Context, rule *entity.AutomationRule) error {
	m := r.mapper.ToModel(rule)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*rule = *r.mapper.ToEntity(m)
	return nil
}

func (r *AutomationRuleRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AutomationRule{}, id).Error
}

func (r *AutomationRuleRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.AutomationRule, error) {
	var m model.AutomationRule
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AutomationRuleRepositoryImpl) FindAll(ctx context.Context) ([]*entity.AutomationRule, error) {
	var models []*model.AutomationRule
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	rules := make([]*entity.AutomationRule, 0, len(models))
	for _, m := range models {
		rules = append(rules, r.mapper.ToEntity(m))
	}
	return rules, nil
}

func (r *AutomationRuleRepositoryImpl) FindActive(ctx context.Context) ([]*entity.AutomationRule, error) {
	var models []*model.AutomationRule
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&models).Error; err != nil {
		return nil, err
	}
	rules := make([]*entity.AutomationRule, 0, len(models))
	for _, m := range models {
		rules = append(rules, r.mapper.ToEntity(m))
	}
	return rules, nil
}

// IncrementTriggerCount is a single UPDATE so concurrent deliveries don't
// lose counts to read-modify-write races.
func (r *AutomationRuleRepositoryImpl) IncrementTriggerCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.AutomationRule{}).
		Where("id = ?", id).
		UpdateColumn("trigger_count", gorm.Expr("trigger_count + 1")).Error
}
