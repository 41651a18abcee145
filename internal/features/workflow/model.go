package workflow

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActionStatus string

const (
	StatusPending   ActionStatus = "Pending"
	StatusCompleted ActionStatus = "Completed"
	StatusRejected  ActionStatus = "Rejected"
)

// Terminal reports whether a status may never be overwritten again.
func (s ActionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

type ActionType string

const (
	ActionApprove ActionType = "Approve"
	ActionReview  ActionType = "Review"
	ActionSign    ActionType = "Sign"
)

type StepCategory string

const (
	CategoryUser     StepCategory = "User Action"
	CategorySystem   StepCategory = "System Action"
	CategoryExternal StepCategory = "External Action"
)

// The fixed six-stage case lifecycle, in step_order.
const (
	StepCaseAssessment      = "Case Assessment"
	StepDocumentPreparation = "Document Preparation"
	StepRuleMatching        = "Rule Matching"
	StepReviewProcess       = "Review Process"
	StepSignProcess         = "Sign Process"
	StepCourtFiling         = "Court Filing"
)

// Case statuses derived from step state plus the provider's last
// reported document status.
const (
	CaseStatusNew              = "New"
	CaseStatusInProgress       = "In Progress"
	CaseStatusReviewed         = "Reviewed"
	CaseStatusRejectedReviewer = "Rejected by Reviewer"
	CaseStatusSigned           = "Signed"
	CaseStatusRejectedSigner   = "Rejected by Signer"
	CaseStatusRejected         = "Rejected"
	CaseStatusCompleted        = "Completed"
)

// ReviewMetadata is carried by the Review Process step.
type ReviewMetadata struct {
	ReviewerEmail    string `bson:"reviewer_email" json:"reviewer_email"`
	SignCareDocID    string `bson:"signcare_doc_id" json:"signcare_doc_id"`
	SignerID         string `bson:"signer_id,omitempty" json:"signer_id,omitempty"`
	InvitationExpiry string `bson:"invitation_expiry,omitempty" json:"invitation_expiry,omitempty"`
}

// SignMetadata is carried by the Sign Process step.
type SignMetadata struct {
	SignerEmail      string `bson:"signer_email" json:"signer_email"`
	SignCareDocID    string `bson:"signcare_doc_id,omitempty" json:"signcare_doc_id,omitempty"`
	SignerID         string `bson:"signer_id,omitempty" json:"signer_id,omitempty"`
	InvitationExpiry string `bson:"invitation_expiry,omitempty" json:"invitation_expiry,omitempty"`
}

// FilingMetadata is carried by the Court Filing step.
type FilingMetadata struct {
	SignCareDocID string     `bson:"signcare_doc_id,omitempty" json:"signcare_doc_id,omitempty"`
	FiledAt       *time.Time `bson:"filed_at,omitempty" json:"filed_at,omitempty"`
}

// StepMetadata is a tagged union: exactly the variant matching the step
// type is set, the rest stay nil.
type StepMetadata struct {
	Review *ReviewMetadata `bson:"review,omitempty" json:"review,omitempty"`
	Sign   *SignMetadata   `bson:"sign,omitempty" json:"sign,omitempty"`
	Filing *FilingMetadata `bson:"filing,omitempty" json:"filing,omitempty"`
}

// WorkflowStep is one stage of a case lifecycle. Steps form a linear
// chain via DependsOnStepID.
type WorkflowStep struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CaseID          primitive.ObjectID  `bson:"case_id" json:"case_id"`
	StepOrder       int                 `bson:"step_order" json:"step_order"`
	StepName        string              `bson:"step_name" json:"step_name"`
	IsActive        bool                `bson:"is_active" json:"is_active"`
	DependsOnStepID *primitive.ObjectID `bson:"depends_on_step_id,omitempty" json:"depends_on_step_id,omitempty"`
	ActionType      ActionType          `bson:"action_type" json:"action_type"`
	ActionStatus    ActionStatus        `bson:"action_status" json:"action_status"`
	Metadata        StepMetadata        `bson:"action_metadata" json:"action_metadata"`
	FailureReason   string              `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	Tasks           []string            `bson:"tasks,omitempty" json:"tasks,omitempty"`
	StepCategory    StepCategory        `bson:"step_category" json:"step_category"`
	IsRequired      bool                `bson:"is_required" json:"is_required"`
	ActionTimestamp *time.Time          `bson:"action_timestamp,omitempty" json:"action_timestamp,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
}
