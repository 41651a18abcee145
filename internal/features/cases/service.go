package cases

import (
	"context"
	"errors"
	"fmt"

	common_models "go-court/internal/common/models"
	"go-court/internal/features/audit"
	"go-court/internal/features/rule"
	"go-court/internal/features/user"
	"go-court/internal/features/workflow"
	"go-court/internal/signcare"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrCaseNotFound = errors.New("case not found")
)

type CaseService interface {
	// SubmitCase runs the full submission pipeline: rule matching,
	// e-sign request creation, case persistence, workflow
	// initialization and the immediate first reconciliation.
	SubmitCase(ctx context.Context, input SubmitCaseInput) (*Case, error)

	GetCase(ctx context.Context, id string) (*Case, error)
	ListCases(ctx context.Context, status string, page, limit int64) ([]Case, int64, error)
	DeleteCase(ctx context.Context, id string) error

	// RefreshCase reconciles one case on demand. Provider errors
	// propagate so the caller can show them.
	RefreshCase(ctx context.Context, id string) (*Case, error)
}

type CaseServiceImpl struct {
	Repo         CaseRepository
	Steps        workflow.StepRepository
	Rules        rule.RuleService
	Users        user.UserRepository
	SignCare     signcare.Client
	Workflow     workflow.WorkflowService
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewCaseService(
	repo CaseRepository,
	steps workflow.StepRepository,
	rules rule.RuleService,
	users user.UserRepository,
	signCare signcare.Client,
	wf workflow.WorkflowService,
	auditService audit.AuditService,
	logger *zap.Logger,
) CaseService {
	return &CaseServiceImpl{
		Repo:         repo,
		Steps:        steps,
		Rules:        rules,
		Users:        users,
		SignCare:     signCare,
		Workflow:     wf,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *CaseServiceImpl) SubmitCase(ctx context.Context, input SubmitCaseInput) (*Case, error) {
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	assignment, err := s.Rules.MatchRule(ctx, rule.CaseSummary{
		IncidentType: input.TypeOfIncident,
		IncidentDate: input.DateOfIncident,
		ContactEmail: input.ContactEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("rule matching: %w", err)
	}

	reviewer, err := s.Users.FindByEmail(ctx, assignment.ReviewerEmail)
	if err != nil {
		return nil, err
	}
	if reviewer == nil {
		return nil, fmt.Errorf("assigned reviewer %s has no account", assignment.ReviewerEmail)
	}
	signer, err := s.Users.FindByEmail(ctx, assignment.SignerEmail)
	if err != nil {
		return nil, err
	}
	if signer == nil {
		return nil, fmt.Errorf("assigned signer %s has no account", assignment.SignerEmail)
	}

	caseNumber, err := s.Repo.NextCaseNumber(ctx)
	if err != nil {
		return nil, err
	}

	esign, err := s.SignCare.CreateRequest(ctx, buildESignRequest(caseNumber, input, reviewer, signer))
	if err != nil {
		return nil, fmt.Errorf("e-sign request: %w", err)
	}

	ruleID, _ := primitive.ObjectIDFromHex(assignment.RuleID)
	c := &Case{
		CaseNumber:     caseNumber,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		DateOfIncident: input.DateOfIncident,
		TypeOfIncident: input.TypeOfIncident,
		ContactPhone:   input.ContactPhone,
		ContactEmail:   input.ContactEmail,
		PDFContent:     input.PDFContent,
		SignerEmail:    assignment.SignerEmail,
		ReviewerEmail:  assignment.ReviewerEmail,
		RuleApplied:    ruleID,
		SignCareDocID:  esign.Data.DocumentId,
		Status:         workflow.CaseStatusNew,
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "cases", c.ID.Hex(), map[string]common_models.Change{
		"case_number": {New: caseNumber},
		"rule":        {New: assignment.RuleID},
	})

	if err := s.Workflow.InitializeWorkflow(ctx, c.ID, caseNumber, assignment.ReviewerEmail, assignment.SignerEmail, esign.Data.DocumentId); err != nil {
		// The case row exists but its step chain is incomplete. There is
		// no rollback; the error surfaces so the submission fails loudly.
		s.Logger.Error("workflow initialization failed",
			zap.String("case_number", caseNumber),
			zap.Error(err))
		return nil, err
	}

	// Submission-time reconciliation: unlike the periodic sweep, a
	// provider failure here propagates to the submitter.
	if err := s.Workflow.Reconcile(ctx, c.ID, caseNumber); err != nil {
		return nil, fmt.Errorf("initial reconciliation: %w", err)
	}

	return s.Repo.FindByID(ctx, c.ID)
}

func (s *CaseServiceImpl) GetCase(ctx context.Context, id string) (*Case, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrCaseNotFound
	}
	return s.Repo.FindByID(ctx, oid)
}

func (s *CaseServiceImpl) ListCases(ctx context.Context, status string, page, limit int64) ([]Case, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := map[string]interface{}{}
	if status != "" {
		filter["status"] = status
	}
	return s.Repo.List(ctx, filter, limit, (page-1)*limit)
}

func (s *CaseServiceImpl) DeleteCase(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrCaseNotFound
	}

	if err := s.Repo.Delete(ctx, oid); err != nil {
		return err
	}
	// Step rows exist only as children of a case; remove them with it.
	if err := s.Steps.DeleteByCase(ctx, oid); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "cases", id, nil)
	return nil
}

func (s *CaseServiceImpl) RefreshCase(ctx context.Context, id string) (*Case, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrCaseNotFound
	}
	c, err := s.Repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}

	if err := s.Workflow.Reconcile(ctx, oid, c.CaseNumber); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(ctx, oid)
}

func validateSubmission(input SubmitCaseInput) error {
	missing := func(field string) error {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}

	switch {
	case input.FirstName == "":
		return missing("first_name")
	case input.LastName == "":
		return missing("last_name")
	case input.DateOfIncident == "":
		return missing("date_of_incident")
	case input.TypeOfIncident == "":
		return missing("type_of_incident")
	case input.ContactPhone == "":
		return missing("contact_phone")
	case input.ContactEmail == "":
		return missing("contact_email")
	case input.PDFContent == "":
		return missing("pdf_content")
	}
	return nil
}

// buildESignRequest assembles the sequential signing request: the
// reviewer approves first (order 1), then the signer signs (order 2).
// userReferenceId carries the local user id so status polling can match
// signerRefId back to an account.
func buildESignRequest(caseNumber string, input SubmitCaseInput, reviewer, signer *common_models.User) signcare.CreateRequestInput {
	return signcare.CreateRequestInput{
		ReferenceId:          caseNumber,
		SkipVerificationCode: false,
		DocumentInfo: signcare.DocumentInfo{
			Name:    fmt.Sprintf("Incident Report %s", caseNumber),
			Content: input.PDFContent,
		},
		SupportingDocuments: []string{},
		SequentialSigning:   true,
		UserInfo: []signcare.UserInfo{
			{
				Name:            reviewer.Name,
				EmailId:         reviewer.Email,
				UserType:        "Reviewer",
				SignatureType:   "Electronic",
				MobileNo:        reviewer.Phone,
				Order:           1,
				UserReferenceId: reviewer.ID.Hex(),
				SignAppearance:  5,
				PageCoordinates: []signcare.PageCoordinate{},
			},
			{
				Name:          signer.Name,
				EmailId:       signer.Email,
				UserType:      "Signer",
				SignatureType: "Electronic",
				ElectronicOptions: &signcare.ElectronicOptions{
					CanDraw:   true,
					CanType:   true,
					CanUpload: true,
				},
				MobileNo:        signer.Phone,
				Order:           2,
				UserReferenceId: signer.ID.Hex(),
				SignAppearance:  5,
				PageCoordinates: []signcare.PageCoordinate{
					{
						PageNumber: 1,
						PDFCoordinates: []signcare.PDFCoordinate{
							{X1: "10", X2: "120", Y1: "722", Y2: "40"},
						},
					},
				},
			},
		},
		DescriptionForInvite: fmt.Sprintf("Incident report %s awaiting your action", caseNumber),
	}
}
