package rule

import (
	"context"
	"errors"
	"time"

	common_models "go-court/internal/common/models"
	"go-court/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrNoActiveRules means matching was requested with an empty active
// rule set. Matching requires at least one active rule; this is a
// caller precondition violation, not an oracle failure.
var ErrNoActiveRules = errors.New("no active rules available")

type RuleService interface {
	CreateRule(ctx context.Context, rule Rule) error
	GetRule(ctx context.Context, id string) (*Rule, error)
	ListRules(ctx context.Context, status, category string) ([]Rule, error)
	UpdateRule(ctx context.Context, id string, rule Rule) error
	ToggleStatus(ctx context.Context, id string) (*Rule, error)
	DeleteRule(ctx context.Context, id string) error

	// MatchRule assigns a reviewer/signer pair for a case summary. It
	// never fails once at least one active rule exists: oracle outages
	// and malformed responses degrade to deterministic selection.
	MatchRule(ctx context.Context, summary CaseSummary) (*Assignment, error)
}

type RuleServiceImpl struct {
	Repo         RuleRepository
	Selector     RuleSelector
	Fallback     RuleSelector
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewRuleService(repo RuleRepository, selector RuleSelector, auditService audit.AuditService, logger *zap.Logger) RuleService {
	return &RuleServiceImpl{
		Repo:         repo,
		Selector:     selector,
		Fallback:     NewDeterministicSelector(),
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *RuleServiceImpl) CreateRule(ctx context.Context, rule Rule) error {
	if rule.Name == "" {
		return errors.New("rule name is required")
	}
	if rule.ID.IsZero() {
		rule.ID = primitive.NewObjectID()
	}
	if rule.Priority == "" {
		rule.Priority = PriorityMedium
	}
	if rule.Status == "" {
		rule.Status = StatusTesting
	}
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, rule); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "rules", rule.ID.Hex(), map[string]common_models.Change{
		"rule": {New: rule},
	})
	return nil
}

func (s *RuleServiceImpl) GetRule(ctx context.Context, id string) (*Rule, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *RuleServiceImpl) ListRules(ctx context.Context, status, category string) ([]Rule, error) {
	return s.Repo.List(ctx, map[string]interface{}{
		"status":   status,
		"category": category,
	})
}

func (s *RuleServiceImpl) UpdateRule(ctx context.Context, id string, rule Rule) error {
	old, _ := s.Repo.GetByID(ctx, id)

	if err := s.Repo.Update(ctx, id, rule); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "rules", id, map[string]common_models.Change{
		"rule": {Old: old, New: rule},
	})
	return nil
}

// ToggleStatus flips a rule between active and testing, the two states
// the admin console cycles through.
func (s *RuleServiceImpl) ToggleStatus(ctx context.Context, id string) (*Rule, error) {
	rule, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, errors.New("rule not found")
	}

	newStatus := StatusActive
	if rule.Status == StatusActive {
		newStatus = StatusTesting
	}
	if err := s.Repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "rules", id, map[string]common_models.Change{
		"status": {Old: rule.Status, New: newStatus},
	})

	rule.Status = newStatus
	return rule, nil
}

func (s *RuleServiceImpl) DeleteRule(ctx context.Context, id string) error {
	old, _ := s.Repo.GetByID(ctx, id)

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "rules", id, map[string]common_models.Change{
		"rule": {Old: old, New: "DELETED"},
	})
	return nil
}

func (s *RuleServiceImpl) MatchRule(ctx context.Context, summary CaseSummary) (*Assignment, error) {
	active, err := s.Repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, ErrNoActiveRules
	}

	candidates := sortByPriority(active)
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	assignment, err := s.Selector.Select(ctx, summary, candidates)
	if err != nil {
		// Oracle transport failure: log the outage and degrade to the
		// deterministic strategy over the same candidate set.
		s.Logger.Warn("rule selector failed, using deterministic fallback",
			zap.String("incident_type", summary.IncidentType),
			zap.Error(err))
		assignment, err = s.Fallback.Select(ctx, summary, candidates)
		if err != nil {
			return nil, err
		}
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionMatch, "rules", assignment.RuleID, map[string]common_models.Change{
		"assignment": {New: assignment},
	})
	return assignment, nil
}
