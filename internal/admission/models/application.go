package models

import (
	"time"

	id "admissio/pkg/domain"
)

// Application is the aggregate root of the admission lifecycle.
//
// Invariants:
//   - exactly one Application per ApplicantProfile
//   - TrackingID, once assigned, never changes
//   - DateSubmitted is immutable after creation
//   - Status transitions are recorded in the status history ledger by the
//     recorder observing the save path; the ledger is never written directly
//     by external callers
//
// LoadedStatus, ChangedBy and ChangeNote exist only in memory. LoadedStatus
// holds the status value as read from storage and is the baseline the
// recorder compares against at write time. ChangedBy and ChangeNote are
// write-time hints a caller may attach before saving.
type Application struct {
	ID          id.ApplicationID `json:"application_id"`
	ApplicantID id.ApplicantID   `json:"applicant_id"`
	CentreID    id.CentreID      `json:"composition_centre_id"`

	TrackingID string            `json:"tracking_id"`
	Status     ApplicationStatus `json:"status"`

	DateSubmitted time.Time `json:"date_submitted"`
	DateUpdated   time.Time `json:"date_updated"`

	LoadedStatus ApplicationStatus `json:"-"`
	ChangedBy    *id.AccountID     `json:"-"`
	ChangeNote   string            `json:"-"`
}

// NewApplication builds a pending application for an existing applicant.
// The tracking ID is assigned separately by the submission protocol.
func NewApplication(applicantID id.ApplicantID, centreID id.CentreID, now time.Time) *Application {
	return &Application{
		ID:            id.NewApplicationID(),
		ApplicantID:   applicantID,
		CentreID:      centreID,
		Status:        StatusPending,
		DateSubmitted: now,
		DateUpdated:   now,
	}
}

// MarkLoaded records the just-read status as the comparison baseline.
// Stores call this whenever an application is materialized from storage.
func (a *Application) MarkLoaded() {
	a.LoadedStatus = a.Status
}

// StatusChanged reports whether the in-memory status differs from the value
// captured at load time. The comparison deliberately uses the load-time
// value, not the latest ledger entry, so back-to-back writes in one request
// each see the correct delta.
func (a *Application) StatusChanged() bool {
	return a.LoadedStatus != a.Status
}

// AttachActor records the account responsible for the upcoming save.
func (a *Application) AttachActor(actor id.AccountID) {
	a.ChangedBy = &actor
}

// AttachNote records a free-text note for the upcoming save.
func (a *Application) AttachNote(note string) {
	a.ChangeNote = note
}
