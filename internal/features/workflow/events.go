package workflow

import (
	"context"
	"time"
)

// StatusEvent describes one applied transition, consumed by the admin
// console's live stream and the notification pipeline.
type StatusEvent struct {
	CaseID     string    `json:"case_id"`
	CaseNumber string    `json:"case_number"`
	StepName   string    `json:"step_name,omitempty"`
	StepStatus string    `json:"step_status,omitempty"`
	CaseStatus string    `json:"case_status,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Broadcaster pushes status events to connected admin consoles.
type Broadcaster interface {
	Broadcast(event StatusEvent)
}

// Notifier records a status change for the case requester. Failures are
// non-fatal for reconciliation.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, event StatusEvent) error
}
