package rule

import (
	"context"
	"errors"
	"testing"

	common_models "go-court/internal/common/models"
	"go-court/internal/oracle"

	"go.uber.org/zap"
)

type MockRuleRepository struct {
	rules   []Rule
	listErr error
}

func (m *MockRuleRepository) Create(_ context.Context, rule Rule) error {
	m.rules = append(m.rules, rule)
	return nil
}

func (m *MockRuleRepository) GetByID(_ context.Context, id string) (*Rule, error) {
	for i := range m.rules {
		if m.rules[i].ID.Hex() == id {
			return &m.rules[i], nil
		}
	}
	return nil, nil
}

func (m *MockRuleRepository) List(_ context.Context, _ map[string]interface{}) ([]Rule, error) {
	return m.rules, m.listErr
}

func (m *MockRuleRepository) ListActive(_ context.Context) ([]Rule, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var active []Rule
	for _, r := range m.rules {
		if r.Status == StatusActive {
			active = append(active, r)
		}
	}
	return active, nil
}

func (m *MockRuleRepository) Update(_ context.Context, _ string, _ Rule) error { return nil }

func (m *MockRuleRepository) UpdateStatus(_ context.Context, _ string, _ Status) error { return nil }

func (m *MockRuleRepository) Delete(_ context.Context, _ string) error { return nil }

type MockAuditService struct {
	actions []common_models.AuditAction
}

func (m *MockAuditService) LogChange(_ context.Context, action common_models.AuditAction, _ string, _ string, _ map[string]common_models.Change) error {
	m.actions = append(m.actions, action)
	return nil
}

func (m *MockAuditService) ListLogs(_ context.Context, _ map[string]interface{}, _, _ int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

type failingSelector struct{ err error }

func (f *failingSelector) Select(_ context.Context, _ CaseSummary, _ []Rule) (*Assignment, error) {
	return nil, f.err
}

func newTestService(repo *MockRuleRepository, selector RuleSelector) (*RuleServiceImpl, *MockAuditService) {
	auditMock := &MockAuditService{}
	return &RuleServiceImpl{
		Repo:         repo,
		Selector:     selector,
		Fallback:     NewDeterministicSelector(),
		AuditService: auditMock,
		Logger:       zap.NewNop(),
	}, auditMock
}

func TestMatchRuleUsesOracleChoice(t *testing.T) {
	theft := makeRule("Theft", PriorityHigh)
	repo := &MockRuleRepository{rules: []Rule{theft}}

	o := &fakeOracle{response: `{"rule_id": "` + theft.ID.Hex() + `"}`}
	svc, auditMock := newTestService(repo, NewOracleSelector(o, NewDeterministicSelector()))

	got, err := svc.MatchRule(context.Background(), CaseSummary{IncidentType: "Theft"})
	if err != nil {
		t.Fatalf("MatchRule: %v", err)
	}
	if got.RuleID != theft.ID.Hex() {
		t.Errorf("expected %s, got %s", theft.ID.Hex(), got.RuleID)
	}
	if got.SignerEmail != theft.SignerEmail || got.ReviewerEmail != theft.ReviewerEmail {
		t.Errorf("assignment must carry the rule's reviewer/signer pair")
	}
	if len(auditMock.actions) != 1 || auditMock.actions[0] != common_models.AuditActionMatch {
		t.Errorf("expected one MATCH audit entry, got %v", auditMock.actions)
	}
}

func TestMatchRuleDegradesWhenOracleDown(t *testing.T) {
	theft := makeRule("Theft", PriorityLow)
	assault := makeRule("Assault", PriorityHigh)
	repo := &MockRuleRepository{rules: []Rule{theft, assault}}

	svc, _ := newTestService(repo, &failingSelector{err: oracle.ErrUnavailable})

	got, err := svc.MatchRule(context.Background(), CaseSummary{IncidentType: "Theft"})
	if err != nil {
		t.Fatalf("MatchRule must degrade, not fail: %v", err)
	}
	if got.RuleID != theft.ID.Hex() {
		t.Errorf("fallback should pick the incident-type match, got %s", got.RuleID)
	}
}

func TestMatchRuleIgnoresInactiveRules(t *testing.T) {
	testing_ := makeRule("Theft", PriorityHigh)
	testing_.Status = StatusTesting
	disabled := makeRule("Theft", PriorityHigh)
	disabled.Status = StatusDisabled
	active := makeRule("Vandalism", PriorityLow)
	repo := &MockRuleRepository{rules: []Rule{testing_, disabled, active}}

	svc, _ := newTestService(repo, NewDeterministicSelector())

	got, err := svc.MatchRule(context.Background(), CaseSummary{IncidentType: "Theft"})
	if err != nil {
		t.Fatalf("MatchRule: %v", err)
	}
	if got.RuleID != active.ID.Hex() {
		t.Errorf("testing and disabled rules must not match, got %s", got.RuleID)
	}
}

func TestMatchRuleNoActiveRules(t *testing.T) {
	inactive := makeRule("Theft", PriorityHigh)
	inactive.Status = StatusDisabled
	repo := &MockRuleRepository{rules: []Rule{inactive}}

	svc, _ := newTestService(repo, NewDeterministicSelector())

	if _, err := svc.MatchRule(context.Background(), CaseSummary{}); !errors.Is(err, ErrNoActiveRules) {
		t.Errorf("expected ErrNoActiveRules, got %v", err)
	}
}

func TestCreateRuleDefaults(t *testing.T) {
	repo := &MockRuleRepository{}
	svc, auditMock := newTestService(repo, NewDeterministicSelector())

	err := svc.CreateRule(context.Background(), Rule{Name: "New intake"})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	created := repo.rules[0]
	if created.Priority != PriorityMedium {
		t.Errorf("expected default priority medium, got %s", created.Priority)
	}
	if created.Status != StatusTesting {
		t.Errorf("new rules must start in testing, got %s", created.Status)
	}
	if created.ID.IsZero() {
		t.Errorf("expected generated id")
	}
	if len(auditMock.actions) != 1 || auditMock.actions[0] != common_models.AuditActionCreate {
		t.Errorf("expected CREATE audit entry, got %v", auditMock.actions)
	}
}

func TestCreateRuleRequiresName(t *testing.T) {
	svc, _ := newTestService(&MockRuleRepository{}, NewDeterministicSelector())
	if err := svc.CreateRule(context.Background(), Rule{}); err == nil {
		t.Errorf("expected validation error for empty name")
	}
}

func TestToggleStatusFlips(t *testing.T) {
	r := makeRule("Theft", PriorityHigh)
	repo := &MockRuleRepository{rules: []Rule{r}}
	svc, _ := newTestService(repo, NewDeterministicSelector())

	got, err := svc.ToggleStatus(context.Background(), r.ID.Hex())
	if err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}
	if got.Status != StatusTesting {
		t.Errorf("active rule should flip to testing, got %s", got.Status)
	}
}
