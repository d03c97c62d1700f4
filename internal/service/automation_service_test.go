package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ig-engagement-be/internal/dto"
	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/repository/memory"
	"ig-engagement-be/pkg/instagram"
	"ig-engagement-be/pkg/resilience"

	"github.com/google/uuid"
)

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type fakeRuleRepo struct {
	mu         sync.Mutex
	rules      []*entity.AutomationRule
	increments map[uuid.UUID]int
}

func newFakeRuleRepo(rules ...*entity.AutomationRule) *fakeRuleRepo {
	return &fakeRuleRepo{rules: rules, increments: map[uuid.UUID]int{}}
}

func (r *fakeRuleRepo) Create(_ context.Context, rule *entity.AutomationRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
	return nil
}

func (r *fakeRuleRepo) Update(_ context.Context, _ *entity.AutomationRule) error { return nil }
func (r *fakeRuleRepo) Delete(_ context.Context, _ uuid.UUID) error              { return nil }

func (r *fakeRuleRepo) FindById(_ context.Context, id uuid.UUID) (*entity.AutomationRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rule := range r.rules {
		if rule.Id == id {
			return rule, nil
		}
	}
	return nil, nil
}

func (r *fakeRuleRepo) FindAll(_ context.Context) ([]*entity.AutomationRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rules, nil
}

func (r *fakeRuleRepo) FindActive(_ context.Context) ([]*entity.AutomationRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []*entity.AutomationRule
	for _, rule := range r.rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}

func (r *fakeRuleRepo) IncrementTriggerCount(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.increments[id]++
	return nil
}

type fakeRunRepo struct {
	mu   sync.Mutex
	runs []*entity.AutomationRun
}

func (r *fakeRunRepo) Create(_ context.Context, run *entity.AutomationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRunRepo) FindRecent(_ context.Context, limit int) ([]*entity.AutomationRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.runs) > limit {
		return r.runs[:limit], nil
	}
	return r.runs, nil
}

type sentDM struct {
	recipient string
	text      string
}

type fakeTransport struct {
	mu       sync.Mutex
	dms      []sentDM
	replies  []sentDM
	dmErr    *resilience.ClassifiedError
	dmErrFor int // fail this many DM attempts before succeeding
}

func (t *fakeTransport) SendDirectMessage(_ context.Context, recipientID, text string) instagram.DispatchOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dmErr != nil && t.dmErrFor != 0 {
		if t.dmErrFor > 0 {
			t.dmErrFor--
		}
		return instagram.DispatchOutcome{Success: false, Error: t.dmErr}
	}
	t.dms = append(t.dms, sentDM{recipient: recipientID, text: text})
	return instagram.DispatchOutcome{Success: true}
}

func (t *fakeTransport) ReplyToComment(_ context.Context, commentID, text string) instagram.DispatchOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, sentDM{recipient: commentID, text: text})
	return instagram.DispatchOutcome{Success: true}
}

func (t *fakeTransport) dmCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.dms)
}

func (t *fakeTransport) replyCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.replies)
}

func testRule(keyword string, active, requireFollow bool) *entity.AutomationRule {
	return &entity.AutomationRule{
		Id:             uuid.New(),
		Name:           keyword + " rule",
		TriggerKeyword: keyword,
		DmResponse:     "Here are the details about " + keyword,
		RequireFollow:  requireFollow,
		IsActive:       active,
		CreatedAt:      time.Now(),
	}
}

func newTestAutomation(ruleRepo *fakeRuleRepo, runRepo *fakeRunRepo, transport *fakeTransport, oracle instagram.FollowOracle) IAutomationService {
	if oracle == nil {
		oracle = instagram.NewSimulatedFollowOracle(nil, true)
	}
	return NewAutomationService(
		ruleRepo,
		runRepo,
		memory.NewDedupStore(nil),
		transport,
		oracle,
		nil,
		"Follow us first, then comment again!",
		"Check your DMs!",
		noopLogger{},
		noopLogger{},
	)
}

func comment(id, text, userID, username string) *dto.ChangeValue {
	return &dto.ChangeValue{
		Id:   id,
		Verb: "add",
		Text: text,
		From: dto.Participant{Id: userID, Username: username},
	}
}

func TestMatchRules(t *testing.T) {
	active := testRule("price", true, false)
	inactive := testRule("ship", false, false)
	other := testRule("discount", true, false)

	svc := newTestAutomation(newFakeRuleRepo(active, inactive, other), &fakeRunRepo{}, &fakeTransport{}, nil)

	tests := []struct {
		name string
		text string
		want int
	}{
		{"case-insensitive substring", "What's the PRICE on this?", 1},
		{"no match", "love this!", 0},
		{"inactive rule never fires", "can you ship this?", 0},
		{"substring inside word", "priceless content", 1},
		{"multiple keywords", "price and discount please", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.MatchRules([]*entity.AutomationRule{active, inactive, other}, tt.text)
			if len(got) != tt.want {
				t.Errorf("matched %d rules, want %d", len(got), tt.want)
			}
		})
	}
}

func TestHandleCommentSendsDMAndCounts(t *testing.T) {
	rule := testRule("price", true, false)
	ruleRepo := newFakeRuleRepo(rule)
	runRepo := &fakeRunRepo{}
	transport := &fakeTransport{}

	svc := newTestAutomation(ruleRepo, runRepo, transport, nil)
	svc.HandleComment(context.Background(), comment("c-1", "what is the PRICE?", "u-1", "buyer"))

	if transport.dmCount() != 1 {
		t.Fatalf("dms sent = %d, want 1", transport.dmCount())
	}
	if transport.dms[0].recipient != "u-1" {
		t.Errorf("dm recipient = %q, want u-1", transport.dms[0].recipient)
	}
	if ruleRepo.increments[rule.Id] != 1 {
		t.Errorf("trigger count increments = %d, want 1", ruleRepo.increments[rule.Id])
	}
	// public confirmation reply after the DM
	if transport.replyCount() != 1 {
		t.Errorf("replies = %d, want 1", transport.replyCount())
	}
	if len(runRepo.runs) != 1 {
		t.Fatalf("runs persisted = %d, want 1", len(runRepo.runs))
	}
	if runRepo.runs[0].Succeeded != 1 || runRepo.runs[0].Failed != 0 {
		t.Errorf("run summary = %d/%d, want 1/0", runRepo.runs[0].Succeeded, runRepo.runs[0].Failed)
	}
}

func TestHandleCommentAllMatchingRulesFire(t *testing.T) {
	first := testRule("price", true, false)
	second := testRule("cost", true, false)
	ruleRepo := newFakeRuleRepo(first, second)
	transport := &fakeTransport{}

	svc := newTestAutomation(ruleRepo, &fakeRunRepo{}, transport, nil)
	svc.HandleComment(context.Background(), comment("c-2", "price or cost?", "u-2", "asker"))

	if transport.dmCount() != 2 {
		t.Errorf("dms sent = %d, want 2 (no priority, all matches fire)", transport.dmCount())
	}
	if ruleRepo.increments[first.Id] != 1 || ruleRepo.increments[second.Id] != 1 {
		t.Errorf("both counters must advance: %v", ruleRepo.increments)
	}
}

func TestHandleCommentFollowGate(t *testing.T) {
	rule := testRule("promo", true, true)
	ruleRepo := newFakeRuleRepo(rule)
	transport := &fakeTransport{}
	oracle := instagram.NewSimulatedFollowOracle(map[string]bool{"stranger": false}, false)

	svc := newTestAutomation(ruleRepo, &fakeRunRepo{}, transport, oracle)
	svc.HandleComment(context.Background(), comment("c-3", "promo please", "u-3", "stranger"))

	if transport.dmCount() != 0 {
		t.Errorf("non-follower must not receive a DM, got %d", transport.dmCount())
	}
	if transport.replyCount() != 1 {
		t.Fatalf("replies = %d, want 1 public follow prompt", transport.replyCount())
	}
	if transport.replies[0].text != "Follow us first, then comment again!" {
		t.Errorf("reply = %q, want follow prompt", transport.replies[0].text)
	}
	if ruleRepo.increments[rule.Id] != 0 {
		t.Errorf("gated dispatch must not advance the counter, got %d", ruleRepo.increments[rule.Id])
	}
}

func TestHandleCommentFollowerPassesGate(t *testing.T) {
	rule := testRule("promo", true, true)
	ruleRepo := newFakeRuleRepo(rule)
	transport := &fakeTransport{}
	oracle := instagram.NewSimulatedFollowOracle(map[string]bool{"loyal_fan": true}, false)

	svc := newTestAutomation(ruleRepo, &fakeRunRepo{}, transport, oracle)
	svc.HandleComment(context.Background(), comment("c-4", "promo please", "u-4", "loyal_fan"))

	if transport.dmCount() != 1 {
		t.Errorf("follower must receive the DM, got %d", transport.dmCount())
	}
	if ruleRepo.increments[rule.Id] != 1 {
		t.Errorf("counter = %d, want 1", ruleRepo.increments[rule.Id])
	}
}

func TestHandleCommentDuplicateDelivery(t *testing.T) {
	rule := testRule("price", true, false)
	transport := &fakeTransport{}

	svc := newTestAutomation(newFakeRuleRepo(rule), &fakeRunRepo{}, transport, nil)
	c := comment("c-5", "price?", "u-5", "repeat")
	svc.HandleComment(context.Background(), c)
	svc.HandleComment(context.Background(), c)

	if transport.dmCount() != 1 {
		t.Errorf("redelivered comment must be processed once, got %d dms", transport.dmCount())
	}
}

func TestHandleCommentRetriesTransientDispatch(t *testing.T) {
	rule := testRule("price", true, false)
	transport := &fakeTransport{
		dmErr:    instagram.Translate(&instagram.GraphError{Code: 4, Message: "throttled"}),
		dmErrFor: 2, // fail twice, then succeed
	}

	svc := newTestAutomation(newFakeRuleRepo(rule), &fakeRunRepo{}, transport, nil)
	svc.HandleComment(context.Background(), comment("c-6", "price?", "u-6", "patient"))

	if transport.dmCount() != 1 {
		t.Errorf("dm must go through after transient failures, got %d", transport.dmCount())
	}
}

func TestHandleCommentPermanentFailureRecorded(t *testing.T) {
	rule := testRule("price", true, false)
	ruleRepo := newFakeRuleRepo(rule)
	runRepo := &fakeRunRepo{}
	transport := &fakeTransport{
		dmErr:    instagram.Translate(&instagram.GraphError{Code: 190, Message: "token expired"}),
		dmErrFor: -1, // always fail
	}

	svc := newTestAutomation(ruleRepo, runRepo, transport, nil)
	svc.HandleComment(context.Background(), comment("c-7", "price?", "u-7", "unlucky"))

	if ruleRepo.increments[rule.Id] != 0 {
		t.Errorf("failed dispatch must not advance the counter")
	}
	if len(runRepo.runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runRepo.runs))
	}
	if runRepo.runs[0].Failed != 1 {
		t.Errorf("run Failed = %d, want 1", runRepo.runs[0].Failed)
	}
}

func TestHandleCommentFollowCheckFailureSkips(t *testing.T) {
	rule := testRule("promo", true, true)
	transport := &fakeTransport{}

	svc := newTestAutomation(newFakeRuleRepo(rule), &fakeRunRepo{}, transport, failingOracle{})
	svc.HandleComment(context.Background(), comment("c-8", "promo", "u-8", "ghost"))

	if transport.dmCount() != 0 || transport.replyCount() != 0 {
		t.Error("unresolvable follow state must skip the rule entirely")
	}
}

type failingOracle struct{}

func (failingOracle) IsFollowing(context.Context, string) (bool, error) {
	return false, errors.New("follow lookup unavailable")
}

func TestHandleCommentMissingAuthorRecordedAsFailure(t *testing.T) {
	rule := testRule("price", true, false)
	ruleRepo := newFakeRuleRepo(rule)
	runRepo := &fakeRunRepo{}
	transport := &fakeTransport{}

	svc := newTestAutomation(ruleRepo, runRepo, transport, nil)
	svc.HandleComment(context.Background(), comment("c-9", "price?", "", ""))

	if transport.dmCount() != 0 {
		t.Error("no recipient means no DM")
	}
	if ruleRepo.increments[rule.Id] != 0 {
		t.Error("unresolved recipient must not advance the counter")
	}
	if len(runRepo.runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runRepo.runs))
	}
	if runRepo.runs[0].Failed != 1 {
		t.Errorf("run Failed = %d, want 1", runRepo.runs[0].Failed)
	}
}
