package cases

import (
	"context"
	"errors"
	"fmt"
	"testing"

	common_models "go-court/internal/common/models"
	"go-court/internal/features/rule"
	"go-court/internal/features/workflow"
	"go-court/internal/signcare"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MockCaseRepository struct {
	cases   map[primitive.ObjectID]*Case
	counter int
}

func (m *MockCaseRepository) Create(_ context.Context, c *Case) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if m.cases == nil {
		m.cases = map[primitive.ObjectID]*Case{}
	}
	cp := *c
	m.cases[c.ID] = &cp
	return nil
}

func (m *MockCaseRepository) FindByID(_ context.Context, id primitive.ObjectID) (*Case, error) {
	return m.cases[id], nil
}

func (m *MockCaseRepository) FindByCaseNumber(_ context.Context, caseNumber string) (*Case, error) {
	for _, c := range m.cases {
		if c.CaseNumber == caseNumber {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockCaseRepository) List(_ context.Context, _ map[string]interface{}, _, _ int64) ([]Case, int64, error) {
	var out []Case
	for _, c := range m.cases {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *MockCaseRepository) ListInFlight(_ context.Context) ([]Case, error) {
	return nil, nil
}

func (m *MockCaseRepository) NextCaseNumber(_ context.Context) (string, error) {
	m.counter++
	return fmt.Sprintf("SF-2026-%05d", m.counter), nil
}

func (m *MockCaseRepository) SetCaseStatus(_ context.Context, caseID primitive.ObjectID, status string) error {
	if c, ok := m.cases[caseID]; ok {
		c.Status = status
	}
	return nil
}

func (m *MockCaseRepository) GetCaseInfo(_ context.Context, caseID primitive.ObjectID) (*workflow.CaseInfo, error) {
	c, ok := m.cases[caseID]
	if !ok {
		return nil, nil
	}
	return &workflow.CaseInfo{
		ReviewerEmail: c.ReviewerEmail,
		SignerEmail:   c.SignerEmail,
		SignCareDocID: c.SignCareDocID,
		Status:        c.Status,
	}, nil
}

func (m *MockCaseRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(m.cases, id)
	return nil
}

func (m *MockCaseRepository) EnsureIndexes(_ context.Context) error { return nil }

type MockStepRepo struct {
	steps map[primitive.ObjectID][]workflow.WorkflowStep
}

func (m *MockStepRepo) Create(_ context.Context, step *workflow.WorkflowStep) error {
	if m.steps == nil {
		m.steps = map[primitive.ObjectID][]workflow.WorkflowStep{}
	}
	m.steps[step.CaseID] = append(m.steps[step.CaseID], *step)
	return nil
}

func (m *MockStepRepo) ListByCase(_ context.Context, caseID primitive.ObjectID) ([]workflow.WorkflowStep, error) {
	return m.steps[caseID], nil
}

func (m *MockStepRepo) SetStatus(_ context.Context, _ primitive.ObjectID, _ workflow.ActionStatus, _ string, _ workflow.StepMetadata, _ bool) (bool, error) {
	return false, nil
}

func (m *MockStepRepo) Activate(_ context.Context, _ primitive.ObjectID, _ workflow.StepMetadata) error {
	return nil
}

func (m *MockStepRepo) DeleteByCase(_ context.Context, caseID primitive.ObjectID) error {
	delete(m.steps, caseID)
	return nil
}

type MockRuleService struct {
	assignment *rule.Assignment
	err        error
	calls      int
}

func (m *MockRuleService) CreateRule(_ context.Context, _ rule.Rule) error { return nil }

func (m *MockRuleService) GetRule(_ context.Context, _ string) (*rule.Rule, error) {
	return nil, nil
}
func (m *MockRuleService) ListRules(_ context.Context, _, _ string) ([]rule.Rule, error) {
	return nil, nil
}
func (m *MockRuleService) UpdateRule(_ context.Context, _ string, _ rule.Rule) error { return nil }
func (m *MockRuleService) ToggleStatus(_ context.Context, _ string) (*rule.Rule, error) {
	return nil, nil
}
func (m *MockRuleService) DeleteRule(_ context.Context, _ string) error { return nil }

func (m *MockRuleService) MatchRule(_ context.Context, _ rule.CaseSummary) (*rule.Assignment, error) {
	m.calls++
	return m.assignment, m.err
}

type MockUserRepository struct {
	users map[string]*common_models.User
}

func (m *MockUserRepository) Create(_ context.Context, _ *common_models.User) error { return nil }
func (m *MockUserRepository) FindByID(_ context.Context, _ string) (*common_models.User, error) {
	return nil, nil
}
func (m *MockUserRepository) FindByEmail(_ context.Context, email string) (*common_models.User, error) {
	return m.users[email], nil
}
func (m *MockUserRepository) List(_ context.Context, _ map[string]interface{}, _, _ int64) ([]common_models.User, int64, error) {
	return nil, 0, nil
}
func (m *MockUserRepository) Update(_ context.Context, _ string, _ *common_models.User) error {
	return nil
}
func (m *MockUserRepository) Delete(_ context.Context, _ string) error { return nil }

func (m *MockUserRepository) EnsureIndexes(_ context.Context) error { return nil }

type MockESignClient struct {
	input *signcare.CreateRequestInput
	err   error
	calls int
}

func (m *MockESignClient) CreateRequest(_ context.Context, input signcare.CreateRequestInput) (*signcare.CreateRequestOutput, error) {
	m.calls++
	m.input = &input
	if m.err != nil {
		return nil, m.err
	}
	out := &signcare.CreateRequestOutput{Success: true}
	out.Data.DocumentId = "doc-" + input.ReferenceId
	return out, nil
}

func (m *MockESignClient) GetStatus(_ context.Context, _ signcare.StatusInput) (*signcare.StatusOutput, error) {
	out := &signcare.StatusOutput{Success: true}
	out.Data.DocumentStatus = signcare.DocumentStatusPending
	return out, nil
}

type MockWorkflowService struct {
	initCalls      int
	reconcileCalls int
	initErr        error
	reconcileErr   error
	docID          string
}

func (m *MockWorkflowService) InitializeWorkflow(_ context.Context, _ primitive.ObjectID, _, _, _, externalDocID string) error {
	m.initCalls++
	m.docID = externalDocID
	return m.initErr
}

func (m *MockWorkflowService) Reconcile(_ context.Context, _ primitive.ObjectID, _ string) error {
	m.reconcileCalls++
	return m.reconcileErr
}

func (m *MockWorkflowService) ListSteps(_ context.Context, _ primitive.ObjectID) ([]workflow.WorkflowStep, error) {
	return nil, nil
}

type MockCaseAudit struct{}

func (m *MockCaseAudit) LogChange(_ context.Context, _ common_models.AuditAction, _ string, _ string, _ map[string]common_models.Change) error {
	return nil
}

func (m *MockCaseAudit) ListLogs(_ context.Context, _ map[string]interface{}, _, _ int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func validInput() SubmitCaseInput {
	return SubmitCaseInput{
		FirstName:      "Jordan",
		LastName:       "Blake",
		DateOfIncident: "2026-08-15",
		TypeOfIncident: "Theft",
		ContactPhone:   "415-555-0101",
		ContactEmail:   "jordan.blake@example.com",
		PDFContent:     "JVBERi0xLjQK",
	}
}

type caseHarness struct {
	svc      *CaseServiceImpl
	repo     *MockCaseRepository
	steps    *MockStepRepo
	rules    *MockRuleService
	provider *MockESignClient
	wf       *MockWorkflowService
}

func newCaseHarness() *caseHarness {
	reviewerID := primitive.NewObjectID()
	signerID := primitive.NewObjectID()

	h := &caseHarness{
		repo:  &MockCaseRepository{},
		steps: &MockStepRepo{},
		rules: &MockRuleService{assignment: &rule.Assignment{
			RuleID:        primitive.NewObjectID().Hex(),
			Priority:      rule.PriorityHigh,
			ReviewerEmail: "reviewer@sfcourt.local",
			SignerEmail:   "signer@sfcourt.local",
		}},
		provider: &MockESignClient{},
		wf:       &MockWorkflowService{},
	}
	users := &MockUserRepository{users: map[string]*common_models.User{
		"reviewer@sfcourt.local": {ID: reviewerID, Name: "Dana Whitfield", Email: "reviewer@sfcourt.local", Phone: "415-555-0199"},
		"signer@sfcourt.local":   {ID: signerID, Name: "Marcus Obi", Email: "signer@sfcourt.local", Phone: "415-555-0188"},
	}}

	h.svc = &CaseServiceImpl{
		Repo:         h.repo,
		Steps:        h.steps,
		Rules:        h.rules,
		Users:        users,
		SignCare:     h.provider,
		Workflow:     h.wf,
		AuditService: &MockCaseAudit{},
		Logger:       zap.NewNop(),
	}
	return h
}

func TestSubmitCaseHappyPath(t *testing.T) {
	h := newCaseHarness()

	got, err := h.svc.SubmitCase(context.Background(), validInput())
	if err != nil {
		t.Fatalf("SubmitCase: %v", err)
	}

	if got.CaseNumber != "SF-2026-00001" {
		t.Errorf("expected first reserved case number, got %q", got.CaseNumber)
	}
	if got.SignCareDocID != "doc-SF-2026-00001" {
		t.Errorf("case must record the provider document id, got %q", got.SignCareDocID)
	}
	if got.ReviewerEmail != "reviewer@sfcourt.local" || got.SignerEmail != "signer@sfcourt.local" {
		t.Errorf("case must carry the matched assignment, got %q/%q", got.ReviewerEmail, got.SignerEmail)
	}
	if got.Status != workflow.CaseStatusNew {
		t.Errorf("expected initial status %q, got %q", workflow.CaseStatusNew, got.Status)
	}

	if h.wf.initCalls != 1 {
		t.Errorf("expected one workflow initialization, got %d", h.wf.initCalls)
	}
	if h.wf.docID != "doc-SF-2026-00001" {
		t.Errorf("workflow must receive the provider document id, got %q", h.wf.docID)
	}
	if h.wf.reconcileCalls != 1 {
		t.Errorf("expected the immediate first reconciliation, got %d", h.wf.reconcileCalls)
	}
}

func TestSubmitCaseBuildsSequentialSigningRequest(t *testing.T) {
	h := newCaseHarness()

	if _, err := h.svc.SubmitCase(context.Background(), validInput()); err != nil {
		t.Fatalf("SubmitCase: %v", err)
	}

	req := h.provider.input
	if req == nil {
		t.Fatalf("no e-sign request sent")
	}
	if !req.SequentialSigning {
		t.Errorf("signing must be sequential")
	}
	if len(req.UserInfo) != 2 {
		t.Fatalf("expected reviewer and signer, got %d participants", len(req.UserInfo))
	}

	reviewer, signer := req.UserInfo[0], req.UserInfo[1]
	if reviewer.UserType != "Reviewer" || reviewer.Order != 1 {
		t.Errorf("reviewer must act first: %+v", reviewer)
	}
	if reviewer.ElectronicOptions != nil {
		t.Errorf("reviewers approve, they do not draw signatures")
	}
	if signer.UserType != "Signer" || signer.Order != 2 {
		t.Errorf("signer must act second: %+v", signer)
	}
	if signer.ElectronicOptions == nil || !signer.ElectronicOptions.CanDraw {
		t.Errorf("signer needs electronic signature options")
	}
	if len(signer.PageCoordinates) != 1 || signer.PageCoordinates[0].PageNumber != 1 {
		t.Errorf("signature placement must target page 1, got %+v", signer.PageCoordinates)
	}
	if req.DocumentInfo.Content != validInput().PDFContent {
		t.Errorf("document content must be the submitted PDF")
	}
}

func TestSubmitCaseValidatesBeforeAnyCall(t *testing.T) {
	h := newCaseHarness()

	input := validInput()
	input.ContactEmail = ""

	_, err := h.svc.SubmitCase(context.Background(), input)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if h.rules.calls != 0 || h.provider.calls != 0 {
		t.Errorf("validation failure must short-circuit rule matching and provider calls")
	}
	if h.repo.counter != 0 {
		t.Errorf("no case number may be reserved for an invalid submission")
	}
}

func TestSubmitCaseNoActiveRules(t *testing.T) {
	h := newCaseHarness()
	h.rules.assignment = nil
	h.rules.err = rule.ErrNoActiveRules

	_, err := h.svc.SubmitCase(context.Background(), validInput())
	if !errors.Is(err, rule.ErrNoActiveRules) {
		t.Errorf("expected ErrNoActiveRules to propagate, got %v", err)
	}
	if h.provider.calls != 0 {
		t.Errorf("no provider call without an assignment")
	}
}

func TestSubmitCaseProviderFailureAbortsBeforePersist(t *testing.T) {
	h := newCaseHarness()
	h.provider.err = signcare.ErrProvider

	_, err := h.svc.SubmitCase(context.Background(), validInput())
	if !errors.Is(err, signcare.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if len(h.repo.cases) != 0 {
		t.Errorf("no case row may exist when the e-sign request failed")
	}
	if h.wf.initCalls != 0 {
		t.Errorf("no workflow without a case")
	}
}

func TestSubmitCaseInitialReconcileFailurePropagates(t *testing.T) {
	h := newCaseHarness()
	h.wf.reconcileErr = signcare.ErrProvider

	_, err := h.svc.SubmitCase(context.Background(), validInput())
	if !errors.Is(err, signcare.ErrProvider) {
		t.Errorf("expected reconciliation failure to surface, got %v", err)
	}
}

func TestGetCaseInvalidID(t *testing.T) {
	h := newCaseHarness()
	if _, err := h.svc.GetCase(context.Background(), "not-an-object-id"); !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestRefreshCaseReconcilesOnDemand(t *testing.T) {
	h := newCaseHarness()

	created, err := h.svc.SubmitCase(context.Background(), validInput())
	if err != nil {
		t.Fatalf("SubmitCase: %v", err)
	}
	before := h.wf.reconcileCalls

	if _, err := h.svc.RefreshCase(context.Background(), created.ID.Hex()); err != nil {
		t.Fatalf("RefreshCase: %v", err)
	}
	if h.wf.reconcileCalls != before+1 {
		t.Errorf("refresh must trigger exactly one reconciliation")
	}
}

func TestDeleteCaseRemovesWorkflowSteps(t *testing.T) {
	h := newCaseHarness()

	created, err := h.svc.SubmitCase(context.Background(), validInput())
	if err != nil {
		t.Fatalf("SubmitCase: %v", err)
	}
	for i := 1; i <= 6; i++ {
		step := workflow.WorkflowStep{ID: primitive.NewObjectID(), CaseID: created.ID, StepOrder: i}
		if err := h.steps.Create(context.Background(), &step); err != nil {
			t.Fatalf("seed step: %v", err)
		}
	}

	if err := h.svc.DeleteCase(context.Background(), created.ID.Hex()); err != nil {
		t.Fatalf("DeleteCase: %v", err)
	}

	if got, _ := h.repo.FindByID(context.Background(), created.ID); got != nil {
		t.Errorf("case row must be gone")
	}
	if rows, _ := h.steps.ListByCase(context.Background(), created.ID); len(rows) != 0 {
		t.Errorf("case deletion must cascade to its step rows, %d remain", len(rows))
	}
}

func TestRefreshCaseUnknownID(t *testing.T) {
	h := newCaseHarness()
	if _, err := h.svc.RefreshCase(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestValidateSubmissionFieldOrder(t *testing.T) {
	input := SubmitCaseInput{}
	err := validateSubmission(input)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err.Error() != "validation failed: first_name is required" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
