package cases

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Case is one filed incident report together with the routing decision
// and the e-signature request that drives its workflow.
type Case struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CaseNumber     string             `bson:"case_number" json:"case_number"`
	FirstName      string             `bson:"first_name" json:"first_name"`
	LastName       string             `bson:"last_name" json:"last_name"`
	DateOfIncident string             `bson:"date_of_incident" json:"date_of_incident"`
	TypeOfIncident string             `bson:"type_of_incident" json:"type_of_incident"`
	ContactPhone   string             `bson:"contact_phone" json:"contact_phone"`
	ContactEmail   string             `bson:"contact_email" json:"contact_email"`
	PDFContent     string             `bson:"pdf_content,omitempty" json:"-"` // base64 composite filing document
	SignerEmail    string             `bson:"signer_email,omitempty" json:"signer_email,omitempty"`
	ReviewerEmail  string             `bson:"reviewer_email,omitempty" json:"reviewer_email,omitempty"`
	RuleApplied    primitive.ObjectID `bson:"rule_applied,omitempty" json:"rule_applied,omitempty"`
	SignCareDocID  string             `bson:"signcare_doc_id,omitempty" json:"signcare_doc_id,omitempty"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// SubmitCaseInput is the payload of a portal submission: the
// questionnaire answers plus the generated composite PDF.
type SubmitCaseInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfIncident string `json:"date_of_incident"`
	TypeOfIncident string `json:"type_of_incident"`
	ContactPhone   string `json:"contact_phone"`
	ContactEmail   string `json:"contact_email"`
	PDFContent     string `json:"pdf_content"`
}
