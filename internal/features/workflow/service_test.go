package workflow

import (
	"context"
	"errors"
	"testing"

	common_models "go-court/internal/common/models"
	"go-court/internal/signcare"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MockStepRepository struct {
	steps         []WorkflowStep
	createErr     error
	appliedWrites int
	activateCalls int
}

func (m *MockStepRepository) Create(_ context.Context, step *WorkflowStep) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.steps = append(m.steps, *step)
	return nil
}

func (m *MockStepRepository) ListByCase(_ context.Context, caseID primitive.ObjectID) ([]WorkflowStep, error) {
	var out []WorkflowStep
	for _, s := range m.steps {
		if s.CaseID == caseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockStepRepository) SetStatus(_ context.Context, id primitive.ObjectID, status ActionStatus, failureReason string, meta StepMetadata, activate bool) (bool, error) {
	for i := range m.steps {
		if m.steps[i].ID != id {
			continue
		}
		if m.steps[i].ActionStatus.Terminal() {
			return false, nil
		}
		m.steps[i].ActionStatus = status
		m.steps[i].FailureReason = failureReason
		m.steps[i].Metadata = meta
		if activate {
			m.steps[i].IsActive = true
		}
		m.appliedWrites++
		return true, nil
	}
	return false, nil
}

func (m *MockStepRepository) Activate(_ context.Context, id primitive.ObjectID, meta StepMetadata) error {
	for i := range m.steps {
		if m.steps[i].ID == id {
			m.steps[i].IsActive = true
			m.steps[i].Metadata = meta
			m.activateCalls++
		}
	}
	return nil
}

func (m *MockStepRepository) DeleteByCase(_ context.Context, caseID primitive.ObjectID) error {
	var kept []WorkflowStep
	for _, s := range m.steps {
		if s.CaseID != caseID {
			kept = append(kept, s)
		}
	}
	m.steps = kept
	return nil
}

func (m *MockStepRepository) byName(name string) *WorkflowStep {
	for i := range m.steps {
		if m.steps[i].StepName == name {
			return &m.steps[i]
		}
	}
	return nil
}

type MockCaseStore struct {
	info         *CaseInfo
	statusWrites []string
}

func (m *MockCaseStore) GetCaseInfo(_ context.Context, _ primitive.ObjectID) (*CaseInfo, error) {
	return m.info, nil
}

func (m *MockCaseStore) SetCaseStatus(_ context.Context, _ primitive.ObjectID, status string) error {
	m.statusWrites = append(m.statusWrites, status)
	m.info.Status = status
	return nil
}

type MockUserDirectory struct {
	users map[string]*common_models.User
}

func (m *MockUserDirectory) FindByEmail(_ context.Context, email string) (*common_models.User, error) {
	return m.users[email], nil
}

type MockSignCareClient struct {
	status *signcare.StatusOutput
	err    error
	calls  int
}

func (m *MockSignCareClient) CreateRequest(_ context.Context, _ signcare.CreateRequestInput) (*signcare.CreateRequestOutput, error) {
	return nil, errors.New("not used")
}

func (m *MockSignCareClient) GetStatus(_ context.Context, _ signcare.StatusInput) (*signcare.StatusOutput, error) {
	m.calls++
	return m.status, m.err
}

type MockBroadcaster struct {
	events []StatusEvent
}

func (m *MockBroadcaster) Broadcast(event StatusEvent) {
	m.events = append(m.events, event)
}

type MockWorkflowAudit struct{}

func (m *MockWorkflowAudit) LogChange(_ context.Context, _ common_models.AuditAction, _ string, _ string, _ map[string]common_models.Change) error {
	return nil
}

func (m *MockWorkflowAudit) ListLogs(_ context.Context, _ map[string]interface{}, _, _ int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

type harness struct {
	svc        *WorkflowServiceImpl
	repo       *MockStepRepository
	store      *MockCaseStore
	provider   *MockSignCareClient
	broadcasts *MockBroadcaster

	caseID     primitive.ObjectID
	reviewerID primitive.ObjectID
	signerID   primitive.ObjectID
}

const (
	testReviewerEmail = "reviewer@sfcourt.local"
	testSignerEmail   = "signer@sfcourt.local"
	testDocID         = "doc-123"
	testCaseNumber    = "SF-2026-00042"
)

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		repo:       &MockStepRepository{},
		provider:   &MockSignCareClient{},
		broadcasts: &MockBroadcaster{},
		caseID:     primitive.NewObjectID(),
		reviewerID: primitive.NewObjectID(),
		signerID:   primitive.NewObjectID(),
	}
	h.store = &MockCaseStore{info: &CaseInfo{
		ReviewerEmail: testReviewerEmail,
		SignerEmail:   testSignerEmail,
		SignCareDocID: testDocID,
		Status:        CaseStatusNew,
	}}
	users := &MockUserDirectory{users: map[string]*common_models.User{
		testReviewerEmail: {ID: h.reviewerID, Email: testReviewerEmail},
		testSignerEmail:   {ID: h.signerID, Email: testSignerEmail},
	}}

	h.svc = &WorkflowServiceImpl{
		Repo:         h.repo,
		CaseStore:    h.store,
		Users:        users,
		SignCare:     h.provider,
		AuditService: &MockWorkflowAudit{},
		Broadcaster:  h.broadcasts,
		Logger:       zap.NewNop(),
	}
	return h
}

func (h *harness) initialize(t *testing.T) {
	t.Helper()
	if err := h.svc.InitializeWorkflow(context.Background(), h.caseID, testCaseNumber, testReviewerEmail, testSignerEmail, testDocID); err != nil {
		t.Fatalf("InitializeWorkflow: %v", err)
	}
}

func (h *harness) providerStatus(docStatus, reviewerStatus, signerStatus string) {
	out := &signcare.StatusOutput{Success: true}
	out.Data.DocumentStatus = docStatus
	out.Data.SignerInfo = []signcare.SignerInfo{
		{SignerRefId: h.reviewerID.Hex(), SignerStatus: reviewerStatus, SignerId: "sc-reviewer", InvitationExpireTimeStamp: "2026-09-30T00:00:00Z"},
		{SignerRefId: h.signerID.Hex(), SignerStatus: signerStatus, SignerId: "sc-signer", InvitationExpireTimeStamp: "2026-09-30T00:00:00Z"},
	}
	h.provider.status = out
}

func TestInitializeWorkflowSeedsSixStepChain(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)

	if len(h.repo.steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(h.repo.steps))
	}

	wantNames := []string{
		StepCaseAssessment, StepDocumentPreparation, StepRuleMatching,
		StepReviewProcess, StepSignProcess, StepCourtFiling,
	}
	for i, s := range h.repo.steps {
		if s.StepName != wantNames[i] {
			t.Errorf("step %d: expected %q, got %q", i, wantNames[i], s.StepName)
		}
		if s.StepOrder != i+1 {
			t.Errorf("step %q: expected order %d, got %d", s.StepName, i+1, s.StepOrder)
		}
		if i == 0 {
			if s.DependsOnStepID != nil {
				t.Errorf("first step must not depend on anything")
			}
		} else if s.DependsOnStepID == nil || *s.DependsOnStepID != h.repo.steps[i-1].ID {
			t.Errorf("step %q must depend on its predecessor", s.StepName)
		}
	}

	for _, name := range wantNames[:3] {
		s := h.repo.byName(name)
		if s.ActionStatus != StatusCompleted || !s.IsActive {
			t.Errorf("%q: expected completed and active, got %s active=%v", name, s.ActionStatus, s.IsActive)
		}
		if s.ActionTimestamp == nil {
			t.Errorf("%q: completed step needs an action timestamp", name)
		}
	}

	review := h.repo.byName(StepReviewProcess)
	if review.ActionStatus != StatusPending || !review.IsActive {
		t.Errorf("review step: expected pending and active")
	}
	if review.Metadata.Review == nil || review.Metadata.Review.ReviewerEmail != testReviewerEmail || review.Metadata.Review.SignCareDocID != testDocID {
		t.Errorf("review metadata incomplete: %+v", review.Metadata.Review)
	}

	sign := h.repo.byName(StepSignProcess)
	if sign.ActionStatus != StatusPending || sign.IsActive {
		t.Errorf("sign step: expected pending and inactive")
	}
	if sign.Metadata.Sign == nil || sign.Metadata.Sign.SignerEmail != testSignerEmail {
		t.Errorf("sign metadata incomplete: %+v", sign.Metadata.Sign)
	}

	filing := h.repo.byName(StepCourtFiling)
	if filing.ActionStatus != StatusPending || filing.IsActive {
		t.Errorf("filing step: expected pending and inactive")
	}

	if len(h.broadcasts.events) != 1 || h.broadcasts.events[0].CaseStatus != CaseStatusNew {
		t.Errorf("initialization must announce the assignment")
	}
}

func TestInitializeWorkflowSurfacesInsertFailure(t *testing.T) {
	h := newHarness(t)
	h.repo.createErr = errors.New("write concern timeout")

	err := h.svc.InitializeWorkflow(context.Background(), h.caseID, testCaseNumber, testReviewerEmail, testSignerEmail, testDocID)
	if err == nil {
		t.Fatalf("expected insert failure to surface")
	}
}

func TestReconcileReviewerApproval(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)
	h.providerStatus(signcare.DocumentStatusPending, signcare.SignerStatusApproved, signcare.SignerStatusPending)

	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	review := h.repo.byName(StepReviewProcess)
	if review.ActionStatus != StatusCompleted {
		t.Errorf("review step: expected Completed, got %s", review.ActionStatus)
	}
	if review.Metadata.Review.SignerID != "sc-reviewer" {
		t.Errorf("review metadata must record the provider signer id")
	}

	sign := h.repo.byName(StepSignProcess)
	if !sign.IsActive {
		t.Errorf("sign step must activate once review completes")
	}
	if sign.Metadata.Sign == nil || sign.Metadata.Sign.SignCareDocID != testDocID {
		t.Errorf("sign step must receive the document id on activation")
	}

	if h.store.info.Status != CaseStatusReviewed {
		t.Errorf("expected case status %q, got %q", CaseStatusReviewed, h.store.info.Status)
	}
	if len(h.broadcasts.events) == 0 {
		t.Errorf("expected status events broadcast")
	}
}

func TestReconcileReviewerRejectionDefaultsReason(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)
	h.providerStatus(signcare.DocumentStatusPending, signcare.SignerStatusRejected, signcare.SignerStatusPending)

	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	review := h.repo.byName(StepReviewProcess)
	if review.ActionStatus != StatusRejected {
		t.Errorf("expected review step Rejected, got %s", review.ActionStatus)
	}
	if review.FailureReason != "Reviewer rejected the document" {
		t.Errorf("expected default reject reason, got %q", review.FailureReason)
	}
	if h.store.info.Status != CaseStatusRejectedReviewer {
		t.Errorf("expected case status %q, got %q", CaseStatusRejectedReviewer, h.store.info.Status)
	}

	// A rejected review dead-ends the chain: signing never unlocks.
	sign := h.repo.byName(StepSignProcess)
	if sign.ActionStatus != StatusPending {
		t.Errorf("sign step must stay pending after a review rejection, got %s", sign.ActionStatus)
	}
	if sign.IsActive {
		t.Errorf("sign step must not activate after a review rejection")
	}
}

func TestReconcileCarriesProviderRejectReason(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)
	h.providerStatus(signcare.DocumentStatusPending, signcare.SignerStatusRejected, signcare.SignerStatusPending)
	h.provider.status.Data.SignerInfo[0].RejectReason = "Missing exhibit B"

	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := h.repo.byName(StepReviewProcess).FailureReason; got != "Missing exhibit B" {
		t.Errorf("expected provider reason preserved, got %q", got)
	}
}

func TestReconcileFullySignedCompletesFiling(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)
	h.providerStatus(signcare.DocumentStatusSigned, signcare.SignerStatusApproved, signcare.SignerStatusSigned)

	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if got := h.repo.byName(StepSignProcess).ActionStatus; got != StatusCompleted {
		t.Errorf("sign step: expected Completed, got %s", got)
	}

	filing := h.repo.byName(StepCourtFiling)
	if filing.ActionStatus != StatusCompleted {
		t.Errorf("filing step: expected Completed, got %s", filing.ActionStatus)
	}
	if filing.Metadata.Filing == nil || filing.Metadata.Filing.FiledAt == nil {
		t.Errorf("filing completion must record the filing time")
	}
	if !filing.IsActive {
		t.Errorf("filing step activates when it completes")
	}

	if h.store.info.Status != CaseStatusCompleted {
		t.Errorf("expected case status %q, got %q", CaseStatusCompleted, h.store.info.Status)
	}
}

func TestReconcileSignGatedOnReview(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)
	// Provider claims the signer signed while the review is still
	// pending and the document overall is not yet Signed.
	h.providerStatus(signcare.DocumentStatusPending, signcare.SignerStatusPending, signcare.SignerStatusSigned)

	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if got := h.repo.byName(StepSignProcess).ActionStatus; got != StatusPending {
		t.Errorf("sign step must stay pending until review completes, got %s", got)
	}
}

func TestReconcileSignedDocumentBypassesReviewGate(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)
	// Document reported Signed overall while the reviewer entry lags.
	h.providerStatus(signcare.DocumentStatusSigned, signcare.SignerStatusPending, signcare.SignerStatusSigned)

	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if got := h.repo.byName(StepSignProcess).ActionStatus; got != StatusCompleted {
		t.Errorf("overall Signed document must unlock the sign step, got %s", got)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)
	h.providerStatus(signcare.DocumentStatusSigned, signcare.SignerStatusApproved, signcare.SignerStatusSigned)

	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	writes := h.repo.appliedWrites
	statusWrites := len(h.store.statusWrites)
	events := len(h.broadcasts.events)

	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}

	if h.repo.appliedWrites != writes {
		t.Errorf("second run applied %d extra step writes", h.repo.appliedWrites-writes)
	}
	if len(h.store.statusWrites) != statusWrites {
		t.Errorf("second run wrote case status again")
	}
	if len(h.broadcasts.events) != events {
		t.Errorf("second run broadcast %d extra events", len(h.broadcasts.events)-events)
	}
}

func TestReconcileNeverRegressesTerminalStep(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)

	h.providerStatus(signcare.DocumentStatusPending, signcare.SignerStatusRejected, signcare.SignerStatusPending)
	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	// Provider later flips the reviewer to Approved; the local rejection
	// must stand.
	h.providerStatus(signcare.DocumentStatusPending, signcare.SignerStatusApproved, signcare.SignerStatusPending)
	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if got := h.repo.byName(StepReviewProcess).ActionStatus; got != StatusRejected {
		t.Errorf("terminal rejection must never be overwritten, got %s", got)
	}
}

func TestReconcileSkipsUnprovisionedCase(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)
	h.store.info.SignCareDocID = ""

	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if h.provider.calls != 0 {
		t.Errorf("no provider call expected without a document id")
	}
}

func TestReconcileCaseNotFound(t *testing.T) {
	h := newHarness(t)
	h.store.info = nil

	err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber)
	if !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("expected ErrCaseNotFound, got %v", err)
	}
}

func TestReconcilePropagatesProviderError(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)
	h.provider.err = signcare.ErrProvider

	err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber)
	if !errors.Is(err, signcare.ErrProvider) {
		t.Errorf("expected provider error to propagate, got %v", err)
	}
}

func TestReconcilePendingDocumentMovesCaseInProgress(t *testing.T) {
	h := newHarness(t)
	h.initialize(t)
	h.providerStatus(signcare.DocumentStatusPending, signcare.SignerStatusPending, signcare.SignerStatusPending)

	if err := h.svc.Reconcile(context.Background(), h.caseID, testCaseNumber); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if h.store.info.Status != CaseStatusInProgress {
		t.Errorf("expected case status %q, got %q", CaseStatusInProgress, h.store.info.Status)
	}
}

func TestMapSignerStatus(t *testing.T) {
	cases := []struct {
		signerStatus string
		doneStatus   string
		want         ActionStatus
	}{
		{signcare.SignerStatusApproved, signcare.SignerStatusApproved, StatusCompleted},
		{signcare.SignerStatusSigned, signcare.SignerStatusSigned, StatusCompleted},
		{signcare.SignerStatusSigned, signcare.SignerStatusApproved, StatusPending},
		{signcare.SignerStatusRejected, signcare.SignerStatusApproved, StatusRejected},
		{signcare.SignerStatusPending, signcare.SignerStatusSigned, StatusPending},
		{"Viewed", signcare.SignerStatusSigned, StatusPending},
	}
	for _, tc := range cases {
		if got := mapSignerStatus(tc.signerStatus, tc.doneStatus); got != tc.want {
			t.Errorf("mapSignerStatus(%q, %q) = %s, want %s", tc.signerStatus, tc.doneStatus, got, tc.want)
		}
	}
}
