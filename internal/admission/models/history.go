package models

import (
	"time"

	id "admissio/pkg/domain"
)

// SubmissionNote is the fixed note attached to the initial ledger entry.
const SubmissionNote = "Status on application submission."

// StatusHistory is one immutable ledger entry recording a status transition
// (or the initial submission) for an application.
//
// Entries are append-only: nothing in the lifecycle logic updates or deletes
// them. OldStatus is nil for the submission entry; ChangedBy is nil for
// system actions.
type StatusHistory struct {
	ID            id.HistoryID       `json:"id"`
	ApplicationID id.ApplicationID   `json:"application_id"`
	OldStatus     *ApplicationStatus `json:"old_status,omitempty"`
	NewStatus     ApplicationStatus  `json:"new_status"`
	ChangedBy     *id.AccountID      `json:"changed_by,omitempty"`
	Note          string             `json:"note,omitempty"`
	DateChanged   time.Time          `json:"date_changed"`
}
