package rule

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusTesting  Status = "testing"
	StatusDisabled Status = "disabled"
)

// Rule maps incident attributes to a responsible reviewer/signer pair.
// Only active rules participate in matching. Condition is free text; if
// it compiles as a script expression it is evaluated against the case,
// otherwise it is prose for the admin console (and the oracle prompt).
type Rule struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Condition     string             `bson:"condition" json:"condition"`
	Category      string             `bson:"category" json:"category"`
	IncidentType  string             `bson:"incident_type" json:"incident_type"`
	Priority      Priority           `bson:"priority" json:"priority"`
	Status        Status             `bson:"status" json:"status"`
	SignerEmail   string             `bson:"signer_email" json:"signer_email"`
	ReviewerEmail string             `bson:"reviewer_email" json:"reviewer_email"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// CaseSummary is the minimal slice of a case the matcher sees.
type CaseSummary struct {
	IncidentType string `json:"type_of_incident"`
	IncidentDate string `json:"date_of_incident"`
	ContactEmail string `json:"contact_email"`
}

// Assignment is the matching outcome: which rule applied and who is
// responsible for review and signature.
type Assignment struct {
	RuleID        string   `json:"rule_id"`
	Priority      Priority `json:"priority"`
	SignerEmail   string   `json:"signer_email"`
	ReviewerEmail string   `json:"reviewer_email"`
}

// priorityRank orders high > medium > low; unknown values sort last.
func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}
