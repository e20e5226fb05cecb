package models

import (
	dErrors "admissio/pkg/domain-errors"
)

// ApplicationStatus enumerates the application lifecycle states.
type ApplicationStatus string

const (
	StatusPending    ApplicationStatus = "Pending"
	StatusAccepted   ApplicationStatus = "Accepted"
	StatusRejected   ApplicationStatus = "Rejected"
	StatusIncomplete ApplicationStatus = "Incomplete"
)

// Valid reports whether s is a known lifecycle state.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusIncomplete:
		return true
	}
	return false
}

func (s ApplicationStatus) String() string { return string(s) }

// ParseStatus validates a caller-supplied status value.
func ParseStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(raw)
	if !s.Valid() {
		return "", dErrors.NewField(dErrors.CodeBadRequest, "status", "unknown application status: "+raw)
	}
	return s, nil
}
