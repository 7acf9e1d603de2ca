package domain

import "time"

// ChangeRequestType represents the kind of change a client asks for
type ChangeRequestType string

const (
	ChangeTypeReschedule ChangeRequestType = "reschedule"
	ChangeTypeCancel     ChangeRequestType = "cancel"
)

// ChangeRequestStatus represents the state of a change request.
// PENDING is the only non-terminal state: a request is decided exactly once.
type ChangeRequestStatus string

const (
	ChangeStatusPending  ChangeRequestStatus = "pending"
	ChangeStatusApproved ChangeRequestStatus = "approved"
	ChangeStatusRejected ChangeRequestStatus = "rejected"
)

// ChangeRequest is a client-submitted, business-approved request to
// reschedule or cancel an existing appointment
type ChangeRequest struct {
	ID            int64
	AppointmentID int64
	Type          ChangeRequestType
	Status        ChangeRequestStatus

	// Заполнены только для reschedule
	RequestedStartAt *time.Time
	RequestedEndAt   *time.Time

	ClientNote   *string
	DecisionNote *string

	CreatedAt time.Time
	DecidedAt *time.Time
}

// IsPending returns true while the request awaits a decision
func (r *ChangeRequest) IsPending() bool {
	return r.Status == ChangeStatusPending
}

// RequestedRange returns the requested time range of a reschedule request
func (r *ChangeRequest) RequestedRange() TimeRange {
	if r.RequestedStartAt == nil || r.RequestedEndAt == nil {
		return TimeRange{}
	}
	return TimeRange{Start: *r.RequestedStartAt, End: *r.RequestedEndAt}
}

// ClientChangeSettings gates which change requests clients may submit.
// Stored per business with an optional per-specialist override row.
type ClientChangeSettings struct {
	ID           int64
	BusinessID   int64
	SpecialistID *int64 // nil = business-wide settings

	Enabled               bool
	AllowReschedule       bool
	AllowCancel           bool
	MinHoursBefore        int
	RequireMasterApproval bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllowsType returns true when the settings permit the given request type
func (s *ClientChangeSettings) AllowsType(t ChangeRequestType) bool {
	if !s.Enabled {
		return false
	}
	switch t {
	case ChangeTypeReschedule:
		return s.AllowReschedule
	case ChangeTypeCancel:
		return s.AllowCancel
	default:
		return false
	}
}

// DefaultClientChangeSettings returns the settings applied when a business
// has not configured anything
func DefaultClientChangeSettings(businessID int64) *ClientChangeSettings {
	return &ClientChangeSettings{
		BusinessID:            businessID,
		Enabled:               true,
		AllowReschedule:       true,
		AllowCancel:           true,
		MinHoursBefore:        DefaultMinHoursBefore,
		RequireMasterApproval: true,
	}
}
