package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	common_models "go-court/internal/common/models"
	"go-court/internal/features/audit"
	"go-court/internal/signcare"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrCaseNotFound is returned when reconciliation is asked about a case
// that does not exist (deleted between trigger and run).
var ErrCaseNotFound = errors.New("case not found")

// CaseInfo is the slice of a case the reconciler needs. Empty reviewer,
// signer or document id means the workflow has not progressed far
// enough to have anything to reconcile.
type CaseInfo struct {
	ReviewerEmail string
	SignerEmail   string
	SignCareDocID string
	Status        string
}

// CaseStore is the read/write surface on cases the workflow needs,
// satisfied by the cases repository via an fx adapter.
type CaseStore interface {
	GetCaseInfo(ctx context.Context, caseID primitive.ObjectID) (*CaseInfo, error)
	SetCaseStatus(ctx context.Context, caseID primitive.ObjectID, status string) error
}

// UserDirectory resolves participant emails to the local user records
// whose ids double as the provider's signer reference ids.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*common_models.User, error)
}

type WorkflowService interface {
	// InitializeWorkflow creates the fixed six-step chain for a freshly
	// submitted case and announces the assignment. Called exactly once
	// per case, after both the case row and the e-signature request
	// exist.
	InitializeWorkflow(ctx context.Context, caseID primitive.ObjectID, caseNumber, reviewerEmail, signerEmail, externalDocID string) error

	// Reconcile pulls provider status and folds it into step and case
	// state. Idempotent: with no provider-side change, a second call
	// leaves every row untouched.
	Reconcile(ctx context.Context, caseID primitive.ObjectID, caseNumber string) error

	ListSteps(ctx context.Context, caseID primitive.ObjectID) ([]WorkflowStep, error)
}

type WorkflowServiceImpl struct {
	Repo         StepRepository
	CaseStore    CaseStore
	Users        UserDirectory
	SignCare     signcare.Client
	AuditService audit.AuditService
	Broadcaster  Broadcaster
	Notifier     Notifier
	Logger       *zap.Logger
}

func NewWorkflowService(
	repo StepRepository,
	caseStore CaseStore,
	users UserDirectory,
	signCare signcare.Client,
	auditService audit.AuditService,
	broadcaster Broadcaster,
	notifier Notifier,
	logger *zap.Logger,
) WorkflowService {
	return &WorkflowServiceImpl{
		Repo:         repo,
		CaseStore:    caseStore,
		Users:        users,
		SignCare:     signCare,
		AuditService: auditService,
		Broadcaster:  broadcaster,
		Notifier:     notifier,
		Logger:       logger,
	}
}

// stepSeed drives initialization of the fixed chain.
type stepSeed struct {
	name     string
	action   ActionType
	category StepCategory
	status   ActionStatus
	active   bool
	tasks    []string
	metadata func(reviewerEmail, signerEmail, docID string) StepMetadata
}

var stepSeeds = []stepSeed{
	{
		name: StepCaseAssessment, action: ActionApprove, category: CategoryUser,
		status: StatusCompleted, active: true,
		tasks: []string{
			"Review case information questionnaire",
			"Gather relevant documents and evidence",
		},
	},
	{
		name: StepDocumentPreparation, action: ActionApprove, category: CategoryUser,
		status: StatusCompleted, active: true,
		tasks: []string{
			"Upload supporting PDF evidence",
			"Generate composite filing document",
		},
	},
	{
		name: StepRuleMatching, action: ActionApprove, category: CategorySystem,
		status: StatusCompleted, active: true,
		tasks: []string{
			"Match case attributes against routing rules",
			"Assign reviewer and signer",
		},
	},
	{
		name: StepReviewProcess, action: ActionReview, category: CategoryExternal,
		status: StatusPending, active: true,
		tasks: []string{"Await reviewer approval of the filing document"},
		metadata: func(reviewerEmail, _, docID string) StepMetadata {
			return StepMetadata{Review: &ReviewMetadata{ReviewerEmail: reviewerEmail, SignCareDocID: docID}}
		},
	},
	{
		name: StepSignProcess, action: ActionSign, category: CategoryExternal,
		status: StatusPending, active: false,
		tasks: []string{"Await signer signature on the filing document"},
		metadata: func(_, signerEmail, docID string) StepMetadata {
			return StepMetadata{Sign: &SignMetadata{SignerEmail: signerEmail, SignCareDocID: docID}}
		},
	},
	{
		name: StepCourtFiling, action: ActionApprove, category: CategorySystem,
		status: StatusPending, active: false,
		tasks: []string{"File the signed document with the court"},
		metadata: func(_, _, docID string) StepMetadata {
			return StepMetadata{Filing: &FilingMetadata{SignCareDocID: docID}}
		},
	},
}

func (s *WorkflowServiceImpl) InitializeWorkflow(ctx context.Context, caseID primitive.ObjectID, caseNumber, reviewerEmail, signerEmail, externalDocID string) error {
	var prev *primitive.ObjectID

	now := time.Now()
	for i, seed := range stepSeeds {
		step := WorkflowStep{
			ID:              primitive.NewObjectID(),
			CaseID:          caseID,
			StepOrder:       i + 1,
			StepName:        seed.name,
			IsActive:        seed.active,
			DependsOnStepID: prev,
			ActionType:      seed.action,
			ActionStatus:    seed.status,
			Tasks:           seed.tasks,
			StepCategory:    seed.category,
			IsRequired:      true,
			CreatedAt:       now,
		}
		if seed.metadata != nil {
			step.Metadata = seed.metadata(reviewerEmail, signerEmail, externalDocID)
		}
		if seed.status == StatusCompleted {
			ts := now
			step.ActionTimestamp = &ts
		}

		if err := s.Repo.Create(ctx, &step); err != nil {
			// No rollback of previously inserted steps: the failure is
			// surfaced and the case is flagged by the caller.
			return fmt.Errorf("initialize workflow: insert step %q: %w", seed.name, err)
		}
		id := step.ID
		prev = &id
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionWorkflow, "workflow_steps", caseID.Hex(), map[string]common_models.Change{
		"steps": {New: "initialized"},
	})

	// Assignment announcement: the requester gets the confirmation mail,
	// reviewer and signer their in-app notice.
	s.publish(ctx, StatusEvent{
		CaseID:     caseID.Hex(),
		CaseNumber: caseNumber,
		CaseStatus: CaseStatusNew,
		Timestamp:  now,
	})
	return nil
}

func (s *WorkflowServiceImpl) ListSteps(ctx context.Context, caseID primitive.ObjectID) ([]WorkflowStep, error) {
	return s.Repo.ListByCase(ctx, caseID)
}

func (s *WorkflowServiceImpl) Reconcile(ctx context.Context, caseID primitive.ObjectID, caseNumber string) error {
	info, err := s.CaseStore.GetCaseInfo(ctx, caseID)
	if err != nil {
		return err
	}
	if info == nil {
		return ErrCaseNotFound
	}

	// Nothing to reconcile until the e-sign request exists and both
	// participants are assigned.
	if info.ReviewerEmail == "" || info.SignerEmail == "" || info.SignCareDocID == "" {
		return nil
	}

	steps, err := s.Repo.ListByCase(ctx, caseID)
	if err != nil {
		return err
	}

	reviewStep := findStep(steps, StepReviewProcess)
	signStep := findStep(steps, StepSignProcess)
	filingStep := findStep(steps, StepCourtFiling)

	if reviewStep == nil || reviewStep.Metadata.Review == nil || reviewStep.Metadata.Review.SignCareDocID == "" {
		return nil
	}

	status, err := s.SignCare.GetStatus(ctx, signcare.StatusInput{
		DocumentId:          info.SignCareDocID,
		DocumentReferenceId: caseNumber,
	})
	if err != nil {
		s.Logger.Warn("reconcile: provider status fetch failed",
			zap.String("case_number", caseNumber),
			zap.Error(err))
		return err
	}

	reviewer, err := s.Users.FindByEmail(ctx, info.ReviewerEmail)
	if err != nil || reviewer == nil {
		return fmt.Errorf("reconcile: reviewer %s not found", info.ReviewerEmail)
	}
	signer, err := s.Users.FindByEmail(ctx, info.SignerEmail)
	if err != nil || signer == nil {
		return fmt.Errorf("reconcile: signer %s not found", info.SignerEmail)
	}

	docStatus := status.Data.DocumentStatus
	reviewerInfo := findSigner(status.Data.SignerInfo, reviewer.ID.Hex())
	signerInfo := findSigner(status.Data.SignerInfo, signer.ID.Hex())

	caseStatus := ""

	// Review Process transition
	if reviewerInfo != nil {
		newStatus := mapSignerStatus(reviewerInfo.SignerStatus, signcare.SignerStatusApproved)

		if newStatus != reviewStep.ActionStatus && !reviewStep.ActionStatus.Terminal() {
			meta := reviewStep.Metadata
			review := *meta.Review
			review.SignerID = reviewerInfo.SignerId
			review.InvitationExpiry = reviewerInfo.InvitationExpireTimeStamp
			meta.Review = &review

			reason := ""
			if newStatus == StatusRejected {
				reason = reviewerInfo.RejectReason
				if reason == "" {
					reason = "Reviewer rejected the document"
				}
			}

			applied, err := s.Repo.SetStatus(ctx, reviewStep.ID, newStatus, reason, meta, false)
			if err != nil {
				return err
			}
			if applied {
				reviewStep.ActionStatus = newStatus
				s.recordTransition(ctx, caseID, caseNumber, StepReviewProcess, newStatus, reason)

				switch newStatus {
				case StatusCompleted:
					caseStatus = CaseStatusReviewed
				case StatusRejected:
					caseStatus = CaseStatusRejectedReviewer
				}

				// Review passed: unlock signing and hand it the document id.
				if newStatus == StatusCompleted && signStep != nil {
					signMeta := signStep.Metadata
					if signMeta.Sign == nil {
						signMeta.Sign = &SignMetadata{SignerEmail: info.SignerEmail}
					} else {
						sign := *signMeta.Sign
						signMeta.Sign = &sign
					}
					signMeta.Sign.SignCareDocID = info.SignCareDocID
					if err := s.Repo.Activate(ctx, signStep.ID, signMeta); err != nil {
						return err
					}
					signStep.IsActive = true
					signStep.Metadata = signMeta
				}
			}
		}
	}

	// Sign Process transition: gated on completed review, or on the
	// provider already reporting the document signed (tolerates races
	// in the provider's own bookkeeping).
	if signerInfo != nil && signStep != nil &&
		(reviewStep.ActionStatus == StatusCompleted || docStatus == signcare.DocumentStatusSigned) {

		newStatus := mapSignerStatus(signerInfo.SignerStatus, signcare.SignerStatusSigned)

		if newStatus != signStep.ActionStatus && !signStep.ActionStatus.Terminal() {
			meta := signStep.Metadata
			if meta.Sign == nil {
				meta.Sign = &SignMetadata{SignerEmail: info.SignerEmail}
			} else {
				sign := *meta.Sign
				meta.Sign = &sign
			}
			meta.Sign.SignerID = signerInfo.SignerId
			meta.Sign.InvitationExpiry = signerInfo.InvitationExpireTimeStamp

			reason := ""
			if newStatus == StatusRejected {
				reason = signerInfo.RejectReason
				if reason == "" {
					reason = "Signer rejected the document"
				}
			}

			applied, err := s.Repo.SetStatus(ctx, signStep.ID, newStatus, reason, meta, false)
			if err != nil {
				return err
			}
			if applied {
				signStep.ActionStatus = newStatus
				s.recordTransition(ctx, caseID, caseNumber, StepSignProcess, newStatus, reason)

				switch newStatus {
				case StatusCompleted:
					caseStatus = CaseStatusSigned
				case StatusRejected:
					caseStatus = CaseStatusRejectedSigner
				}
			}
		}
	}

	// Court Filing: completes exactly when signing is done and the
	// provider reports the document signed overall.
	if filingStep != nil && signStep != nil &&
		signStep.ActionStatus == StatusCompleted && docStatus == signcare.DocumentStatusSigned &&
		filingStep.ActionStatus != StatusCompleted {

		meta := filingStep.Metadata
		if meta.Filing == nil {
			meta.Filing = &FilingMetadata{}
		} else {
			filing := *meta.Filing
			meta.Filing = &filing
		}
		meta.Filing.SignCareDocID = info.SignCareDocID
		now := time.Now()
		meta.Filing.FiledAt = &now

		applied, err := s.Repo.SetStatus(ctx, filingStep.ID, StatusCompleted, "", meta, true)
		if err != nil {
			return err
		}
		if applied {
			filingStep.ActionStatus = StatusCompleted
			s.recordTransition(ctx, caseID, caseNumber, StepCourtFiling, StatusCompleted, "")
			caseStatus = CaseStatusCompleted
		}
	}

	// No transition applied this run: re-derive the case status from
	// current step state so repeated runs converge, then fall back to
	// the provider's coarse document status.
	if caseStatus == "" {
		switch {
		case filingStep != nil && filingStep.ActionStatus == StatusCompleted:
			caseStatus = CaseStatusCompleted
		case signStep != nil && signStep.ActionStatus == StatusRejected:
			caseStatus = CaseStatusRejectedSigner
		case signStep != nil && signStep.ActionStatus == StatusCompleted:
			caseStatus = CaseStatusSigned
		case reviewStep.ActionStatus == StatusRejected:
			caseStatus = CaseStatusRejectedReviewer
		case reviewStep.ActionStatus == StatusCompleted:
			caseStatus = CaseStatusReviewed
		case docStatus == signcare.DocumentStatusRejected:
			caseStatus = CaseStatusRejected
		case docStatus == signcare.DocumentStatusPending:
			caseStatus = CaseStatusInProgress
		}
	}

	// Only write a genuinely new case status.
	if caseStatus != "" && caseStatus != info.Status {
		if err := s.CaseStore.SetCaseStatus(ctx, caseID, caseStatus); err != nil {
			return err
		}
		s.publish(ctx, StatusEvent{
			CaseID:     caseID.Hex(),
			CaseNumber: caseNumber,
			CaseStatus: caseStatus,
			Timestamp:  time.Now(),
		})
	}

	return nil
}

func (s *WorkflowServiceImpl) recordTransition(ctx context.Context, caseID primitive.ObjectID, caseNumber, stepName string, status ActionStatus, reason string) {
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionReconcile, "workflow_steps", caseID.Hex(), map[string]common_models.Change{
		stepName: {New: status},
	})
	s.publish(ctx, StatusEvent{
		CaseID:     caseID.Hex(),
		CaseNumber: caseNumber,
		StepName:   stepName,
		StepStatus: string(status),
		Reason:     reason,
		Timestamp:  time.Now(),
	})
}

func (s *WorkflowServiceImpl) publish(ctx context.Context, event StatusEvent) {
	if s.Broadcaster != nil {
		s.Broadcaster.Broadcast(event)
	}
	if s.Notifier != nil {
		if err := s.Notifier.NotifyStatusChange(ctx, event); err != nil {
			s.Logger.Warn("reconcile: notification failed",
				zap.String("case_number", event.CaseNumber),
				zap.Error(err))
		}
	}
}

func findStep(steps []WorkflowStep, name string) *WorkflowStep {
	for i := range steps {
		if steps[i].StepName == name {
			return &steps[i]
		}
	}
	return nil
}

func findSigner(infos []signcare.SignerInfo, refID string) *signcare.SignerInfo {
	for i := range infos {
		if infos[i].SignerRefId == refID {
			return &infos[i]
		}
	}
	return nil
}

// mapSignerStatus folds a provider signer status into the local step
// vocabulary. doneStatus is "Approved" for reviewers, "Signed" for
// signers.
func mapSignerStatus(signerStatus, doneStatus string) ActionStatus {
	switch signerStatus {
	case doneStatus:
		return StatusCompleted
	case signcare.SignerStatusRejected:
		return StatusRejected
	default:
		return StatusPending
	}
}
