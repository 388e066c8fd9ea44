package model

import (
	"time"
)

type ReportStatus string

const (
	ReportStatusOpen      ReportStatus = "open"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

type ReportEntityType string

const (
	ReportEntityThread   ReportEntityType = "thread"
	ReportEntityResponse ReportEntityType = "response"
	ReportEntityUser     ReportEntityType = "user"
)

const (
	MaxReportReasonLen  = 140
	MaxReportDetailsLen = 1000
	MaxModeratorNoteLen = 500
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusOpen, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

func (t ReportEntityType) Valid() bool {
	switch t {
	case ReportEntityThread, ReportEntityResponse, ReportEntityUser:
		return true
	}
	return false
}

// Report is a content report row joined with its display snapshots. The
// snapshot columns come from LEFT JOINs, so a target deleted after the report
// was filed leaves the row intact.
type Report struct {
	ID               int64            `json:"id" db:"id"`
	ReporterUserID   int64            `json:"reporter_user_id" db:"reporter_user_id"`
	ReporterName     string           `json:"reporter_name" db:"reporter_name"`
	ReporterHandle   *string          `json:"reporter_handle,omitempty" db:"reporter_handle"`
	EntityType       ReportEntityType `json:"entity_type" db:"entity_type"`
	EntityID         int64            `json:"entity_id" db:"entity_id"`
	ThreadID         *int64           `json:"thread_id,omitempty" db:"thread_id"`
	Reason           string           `json:"reason" db:"reason"`
	Details          *string          `json:"details,omitempty" db:"details"`
	Status           ReportStatus     `json:"status" db:"status"`
	ModeratorNote    *string          `json:"moderator_note,omitempty" db:"moderator_note"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	ReviewedAt       *time.Time       `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedByUserID *int64           `json:"reviewed_by_user_id,omitempty" db:"reviewed_by_user_id"`
	ReviewedByName   *string          `json:"reviewed_by_name,omitempty" db:"reviewed_by_name"`
	ThreadTitle      *string          `json:"thread_title,omitempty" db:"thread_title"`
	ResponseBody     *string          `json:"response_body,omitempty" db:"response_body"`
	TargetUserName   *string          `json:"target_user_name,omitempty" db:"target_user_name"`
	TargetUserHandle *string          `json:"target_user_handle,omitempty" db:"target_user_handle"`
}

// ReportTarget is the uniform shape returned by target resolution regardless
// of entity type. ThreadID is nil for user targets.
type ReportTarget struct {
	ThreadID       *int64
	ThreadTitle    string
	ResponseBody   string
	TargetUserName string
}

// ReportFilters narrows the moderator listing. Status "all" (or empty) keeps
// every status; open rows still sort first.
type ReportFilters struct {
	Status     string
	EntityType ReportEntityType
	Limit      int
}

// ReportSummary holds global per-status counts, independent of any active
// filter or limit.
type ReportSummary struct {
	Open      int `json:"open"`
	Resolved  int `json:"resolved"`
	Dismissed int `json:"dismissed"`
	Total     int `json:"total"`
}
