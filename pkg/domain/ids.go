// Package domain defines the typed identifiers shared across bounded contexts.
//
// Every aggregate gets its own UUID-backed type so an ApplicationID can never
// be passed where an ApplicantID is expected. Conversions to and from the raw
// uuid.UUID stay explicit at the storage boundary.
package domain

import "github.com/google/uuid"

type (
	// ApplicantID identifies an applicant profile.
	ApplicantID uuid.UUID

	// ApplicationID identifies an application.
	ApplicationID uuid.UUID

	// HistoryID identifies a status history entry.
	HistoryID uuid.UUID

	// CentreID identifies a composition centre.
	CentreID uuid.UUID

	// UniversityID identifies a university.
	UniversityID uuid.UUID

	// ReviewID identifies an application review.
	ReviewID uuid.UUID

	// AccountID identifies a platform user account.
	AccountID uuid.UUID
)

func (id ApplicantID) String() string   { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id HistoryID) String() string     { return uuid.UUID(id).String() }
func (id CentreID) String() string      { return uuid.UUID(id).String() }
func (id UniversityID) String() string  { return uuid.UUID(id).String() }
func (id ReviewID) String() string      { return uuid.UUID(id).String() }
func (id AccountID) String() string     { return uuid.UUID(id).String() }

func (id ApplicantID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id HistoryID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CentreID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id UniversityID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ReviewID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// NewApplicantID returns a freshly generated applicant identifier.
func NewApplicantID() ApplicantID { return ApplicantID(uuid.New()) }

// NewApplicationID returns a freshly generated application identifier.
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }

// NewHistoryID returns a freshly generated history entry identifier.
func NewHistoryID() HistoryID { return HistoryID(uuid.New()) }

// NewCentreID returns a freshly generated centre identifier.
func NewCentreID() CentreID { return CentreID(uuid.New()) }

// NewUniversityID returns a freshly generated university identifier.
func NewUniversityID() UniversityID { return UniversityID(uuid.New()) }

// NewReviewID returns a freshly generated review identifier.
func NewReviewID() ReviewID { return ReviewID(uuid.New()) }

// NewAccountID returns a freshly generated account identifier.
func NewAccountID() AccountID { return AccountID(uuid.New()) }

// ParseApplicantID parses the textual form of an applicant identifier.
func ParseApplicantID(s string) (ApplicantID, error) {
	u, err := uuid.Parse(s)
	return ApplicantID(u), err
}

// ParseApplicationID parses the textual form of an application identifier.
func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := uuid.Parse(s)
	return ApplicationID(u), err
}

// ParseCentreID parses the textual form of a centre identifier.
func ParseCentreID(s string) (CentreID, error) {
	u, err := uuid.Parse(s)
	return CentreID(u), err
}

// ParseAccountID parses the textual form of an account identifier.
func ParseAccountID(s string) (AccountID, error) {
	u, err := uuid.Parse(s)
	return AccountID(u), err
}

// Defined types do not inherit uuid.UUID's marshaling methods, so each ID
// implements encoding.TextMarshaler/TextUnmarshaler to keep its canonical
// string form in JSON.

func (id ApplicantID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id ApplicationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id HistoryID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id CentreID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id UniversityID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id ReviewID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id AccountID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }

func (id *ApplicantID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	*id = ApplicantID(u)
	return err
}

func (id *ApplicationID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	*id = ApplicationID(u)
	return err
}

func (id *HistoryID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	*id = HistoryID(u)
	return err
}

func (id *CentreID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	*id = CentreID(u)
	return err
}

func (id *UniversityID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	*id = UniversityID(u)
	return err
}

func (id *ReviewID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	*id = ReviewID(u)
	return err
}

func (id *AccountID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	*id = AccountID(u)
	return err
}
