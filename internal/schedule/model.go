package schedule

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotBooked      SlotStatus = "booked"
	SlotUnavailable SlotStatus = "unavailable"
)

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotAvailable, SlotBooked, SlotUnavailable:
		return true
	}
	return false
}

// AvailabilitySlot is a time window a psychologist has marked bookable.
// No two slots for the same psychologist share the same (start, end).
type AvailabilitySlot struct {
	ID             uuid.UUID
	PsychologistID uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	Status         SlotStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Booking has no status field. Past vs upcoming is derived from the
// window against the current time at query time.
type Booking struct {
	ID              uuid.UUID
	PsychologistID  uuid.UUID
	ClientID        *uuid.UUID
	ClientEmail     string
	ClientPhone     string
	StartTime       time.Time
	EndTime         time.Time
	Notes           string
	MeetLink        string
	CalendarEventID string
	CreatedAt       time.Time
}

type PsychologistProfile struct {
	UserID              uuid.UUID
	DisplayName         string
	Bio                 string
	Specializations     []string
	Languages           []string
	ContactEmail        string
	ContactPhone        string
	CalendarCredentials []byte
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SlotInput is one entry of a bulk replacement.
type SlotInput struct {
	StartTime time.Time
	EndTime   time.Time
	Status    SlotStatus
}

// ClaimRequest carries the client side of a claim. Anonymous claims must
// supply ClientEmail.
type ClaimRequest struct {
	ClientID    *uuid.UUID
	ClientEmail string
	ClientPhone string
	Notes       string
	StartTime   time.Time
	EndTime     time.Time
}

// PsychologistDetail is the public view: profile plus reconciled availability.
type PsychologistDetail struct {
	Profile      PsychologistProfile
	Availability []AvailabilitySlot
}
