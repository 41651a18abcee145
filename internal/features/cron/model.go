package cron_feature

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SweepLog records one run of the periodic reconcile sweep.
type SweepLog struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StartTime    time.Time          `json:"start_time" bson:"start_time"`
	EndTime      *time.Time         `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Status       string             `json:"status" bson:"status"` // "success", "partial", "failed", "running"
	CasesScanned int                `json:"cases_scanned" bson:"cases_scanned"`
	CasesFailed  int                `json:"cases_failed" bson:"cases_failed"`
	Error        string             `json:"error,omitempty" bson:"error,omitempty"`
	TriggeredBy  string             `json:"triggered_by" bson:"triggered_by"` // "schedule" or "manual"
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
