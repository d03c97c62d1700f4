package service

import (
	"context"
	"fmt"
	"time"

	"ig-engagement-be/internal/dto"
	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/repository/contract"

	"github.com/google/uuid"
)

type IRuleService interface {
	Create(ctx context.Context, req *dto.CreateRuleRequest) (*dto.CreateRuleResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowRuleResponse, error)
	List(ctx context.Context) ([]*dto.ShowRuleResponse, error)
	Update(ctx context.Context, req *dto.UpdateRuleRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ruleService struct {
	ruleRepo contract.AutomationRuleRepository
}

func NewRuleService(ruleRepo contract.AutomationRuleRepository) IRuleService {
	return &ruleService{
		ruleRepo: ruleRepo,
	}
}

func (s *ruleService) Create(ctx context.Context, req *dto.CreateRuleRequest) (*dto.CreateRuleResponse, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	rule := entity.AutomationRule{
		Id:             uuid.New(),
		Name:           req.Name,
		TriggerKeyword: req.TriggerKeyword,
		DmResponse:     req.DmResponse,
		RequireFollow:  req.RequireFollow,
		IsActive:       isActive,
		CreatedAt:      time.Now(),
	}

	if err := s.ruleRepo.Create(ctx, &rule); err != nil {
		return nil, err
	}

	return &dto.CreateRuleResponse{Id: rule.Id}, nil
}

func (s *ruleService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowRuleResponse, error) {
	rule, err := s.ruleRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, fmt.Errorf("rule not found")
	}
	return toRuleResponse(rule), nil
}

func (s *ruleService) List(ctx context.Context) ([]*dto.ShowRuleResponse, error) {
	rules, err := s.ruleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ShowRuleResponse, 0, len(rules))
	for _, rule := range rules {
		res = append(res, toRuleResponse(rule))
	}
	return res, nil
}

func (s *ruleService) Update(ctx context.Context, req *dto.UpdateRuleRequest) error {
	rule, err := s.ruleRepo.FindById(ctx, req.Id)
	if err != nil {
		return err
	}
	if rule == nil {
		return fmt.Errorf("rule not found")
	}

	rule.Name = req.Name
	rule.TriggerKeyword = req.TriggerKeyword
	rule.DmResponse = req.DmResponse
	rule.RequireFollow = req.RequireFollow
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	return s.ruleRepo.Update(ctx, rule)
}

func (s *ruleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.ruleRepo.Delete(ctx, id)
}

func toRuleResponse(rule *entity.AutomationRule) *dto.ShowRuleResponse {
	return &dto.ShowRuleResponse{
		Id:             rule.Id,
		Name:           rule.Name,
		TriggerKeyword: rule.TriggerKeyword,
		DmResponse:     rule.DmResponse,
		RequireFollow:  rule.RequireFollow,
		IsActive:       rule.IsActive,
		TriggerCount:   rule.TriggerCount,
		CreatedAt:      rule.CreatedAt,
		UpdatedAt:      rule.UpdatedAt,
	}
}
