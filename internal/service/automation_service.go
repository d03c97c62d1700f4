package service

import (
	"context"
	"errors"
	"strings"

	"ig-engagement-be/internal/dto"
	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/pkg/logger"
	"ig-engagement-be/internal/repository/contract"
	"ig-engagement-be/internal/repository/memory"
	"ig-engagement-be/pkg/events"
	"ig-engagement-be/pkg/instagram"
	pktNats "ig-engagement-be/pkg/nats"
	"ig-engagement-be/pkg/resilience"

	"github.com/google/uuid"
)

type IAutomationService interface {
	HandleComment(ctx context.Context, value *dto.ChangeValue)
	// MatchRules returns every active rule whose trigger keyword occurs in
	// the text, case-insensitive.
	MatchRules(rules []*entity.AutomationRule, text string) []*entity.AutomationRule
}

type automationService struct {
	ruleRepo       contract.AutomationRuleRepository
	runRepo        contract.AutomationRunRepository
	dedupStore     *memory.DedupStore
	transport      instagram.Transport
	followOracle   instagram.FollowOracle
	eventPublisher *pktNats.Publisher
	followPrompt   string
	confirmReply   string
	logger         logger.ILogger
	runLogger      logger.ILogger
}

func NewAutomationService(
	ruleRepo contract.AutomationRuleRepository,
	runRepo contract.AutomationRunRepository,
	dedupStore *memory.DedupStore,
	transport instagram.Transport,
	followOracle instagram.FollowOracle,
	eventPublisher *pktNats.Publisher,
	followPrompt string,
	confirmReply string,
	log logger.ILogger,
	runLog logger.ILogger,
) IAutomationService {
	return &automationService{
		ruleRepo:       ruleRepo,
		runRepo:        runRepo,
		dedupStore:     dedupStore,
		transport:      transport,
		followOracle:   followOracle,
		eventPublisher: eventPublisher,
		followPrompt:   followPrompt,
		confirmReply:   confirmReply,
		logger:         log,
		runLogger:      runLog,
	}
}

func (s *automationService) MatchRules(rules []*entity.AutomationRule, text string) []*entity.AutomationRule {
	lowered := strings.ToLower(text)
	var matched []*entity.AutomationRule
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		keyword := strings.ToLower(strings.TrimSpace(rule.TriggerKeyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, keyword) {
			matched = append(matched, rule)
		}
	}
	return matched
}

func (s *automationService) HandleComment(ctx context.Context, value *dto.ChangeValue) {
	if value.Id != "" && !s.dedupStore.MarkSeen(ctx, "comment:"+value.Id) {
		s.logger.Debug("automation", "duplicate comment delivery, skipping", map[string]interface{}{
			"comment_id": value.Id,
		})
		return
	}

	rules, err := s.ruleRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("automation", "failed to load rules", map[string]interface{}{"error": err.Error()})
		return
	}

	matched := s.MatchRules(rules, value.Text)
	if len(matched) == 0 {
		return
	}

	outcomes := make([]resilience.Outcome, 0, len(matched))
	for _, rule := range matched {
		outcomes = append(outcomes, s.fireRule(ctx, rule, value))
	}

	summary := resilience.AggregatePartial(outcomes)
	s.recordRun(ctx, value, matched, summary)
}

// fireRule executes one matched rule against one comment. The outcome
// feeds the run summary, so gated and failed dispatches are reported,
// not swallowed.
func (s *automationService) fireRule(ctx context.Context, rule *entity.AutomationRule, value *dto.ChangeValue) resilience.Outcome {
	if value.From.Id == "" {
		s.logger.Warn("automation", "comment has no author id, cannot resolve recipient", map[string]interface{}{
			"rule_id":    rule.Id.String(),
			"comment_id": value.Id,
		})
		return resilience.Outcome{Success: false, Err: errors.New("recipient resolution failed: missing author id")}
	}

	if rule.RequireFollow {
		following, err := s.followOracle.IsFollowing(ctx, commenterHandle(value))
		if err != nil {
			// Cannot establish follow state, skip rather than DM a
			// possible non-follower.
			s.logger.Warn("automation", "follow check failed, skipping rule", map[string]interface{}{
				"rule_id":    rule.Id.String(),
				"comment_id": value.Id,
				"error":      err.Error(),
			})
			return resilience.Outcome{Success: false, Err: err}
		}
		if !following {
			// Non-followers get a public nudge instead of the DM. The
			// trigger counter stays untouched.
			outcome := s.transport.ReplyToComment(ctx, value.Id, s.followPrompt)
			if !outcome.Success {
				return resilience.Outcome{Success: false, Err: outcome.Error}
			}
			return resilience.Outcome{Success: true, Data: "follow_prompt"}
		}
	}

	_, err := resilience.Retry(ctx, func() (instagram.DispatchOutcome, error) {
		out := s.transport.SendDirectMessage(ctx, value.From.Id, rule.DmResponse)
		if !out.Success {
			return out, out.Error
		}
		return out, nil
	}, retryOptionsForDispatch())
	if err != nil {
		s.logger.Error("automation", "dm dispatch failed", map[string]interface{}{
			"rule_id":    rule.Id.String(),
			"comment_id": value.Id,
			"error":      err.Error(),
		})
		return resilience.Outcome{Success: false, Err: err}
	}

	if s.confirmReply != "" {
		if out := s.transport.ReplyToComment(ctx, value.Id, s.confirmReply); !out.Success {
			// The DM went out, a failed public confirmation is not a rule
			// failure.
			s.logger.Warn("automation", "confirmation reply failed", map[string]interface{}{
				"rule_id":    rule.Id.String(),
				"comment_id": value.Id,
			})
		}
	}

	if err := s.ruleRepo.IncrementTriggerCount(ctx, rule.Id); err != nil {
		s.logger.Error("automation", "failed to increment trigger count", map[string]interface{}{
			"rule_id": rule.Id.String(),
			"error":   err.Error(),
		})
	}

	if s.eventPublisher != nil {
		evt := events.NewRuleTriggered(rule.Id.String(), rule.Name, value.Id, value.From.Id)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("automation", "failed to publish rule event", map[string]interface{}{
				"rule_id": rule.Id.String(),
				"error":   err.Error(),
			})
		}
	}

	return resilience.Outcome{Success: true, Data: rule.Id.String()}
}

func (s *automationService) recordRun(ctx context.Context, value *dto.ChangeValue, matched []*entity.AutomationRule, summary resilience.Summary) {
	ruleIds := make([]interface{}, 0, len(matched))
	for _, r := range matched {
		ruleIds = append(ruleIds, r.Id.String())
	}

	run := &entity.AutomationRun{
		Id:          uuid.New(),
		TriggerType: "comment",
		SourceId:    value.Id,
		Attempted:   summary.Total,
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		Details: map[string]interface{}{
			"commenter": value.From.Id,
			"rules":     ruleIds,
			"summary":   summary.String(),
		},
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.Error("automation", "failed to persist run", map[string]interface{}{"error": err.Error()})
	}

	s.runLogger.Info("automation", "run complete", map[string]interface{}{
		"comment_id":   value.Id,
		"attempted":    summary.Total,
		"succeeded":    summary.Succeeded,
		"failed":       summary.Failed,
		"success_rate": summary.SuccessRate,
	})
}

func commenterHandle(value *dto.ChangeValue) string {
	if value.From.Username != "" {
		return value.From.Username
	}
	return value.From.Id
}

// retryOptionsForDispatch respects the platform error translation:
// classified errors carry their own retryability.
func retryOptionsForDispatch() resilience.RetryOptions {
	opts := resilience.DefaultRetryOptions()
	opts.ShouldRetry = func(err error) bool {
		var classified *resilience.ClassifiedError
		if errors.As(err, &classified) {
			return classified.Retryable
		}
		return resilience.DefaultShouldRetry(err)
	}
	return opts
}
