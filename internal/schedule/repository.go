package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound    = errors.New("availability slot not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrProfileNotFound = errors.New("psychologist profile not found")
	ErrDuplicateSlot   = errors.New("slot with the same window already exists")
)

// Repository contains all DB interactions needed by the service.
// ClaimSlot and ReplaceSlots are transactional: partial effects are never
// observable.
type Repository interface {
	ListSlots(ctx context.Context, psychologistID uuid.UUID) ([]AvailabilitySlot, error)
	ListAvailableSlots(ctx context.Context, psychologistID uuid.UUID) ([]AvailabilitySlot, error)
	GetSlotByID(ctx context.Context, id uuid.UUID) (*AvailabilitySlot, error)
	CreateSlot(ctx context.Context, slot AvailabilitySlot) (*AvailabilitySlot, error)
	UpdateSlotWindow(ctx context.Context, id uuid.UUID, start, end time.Time, status SlotStatus) (*AvailabilitySlot, error)
	UpdateSlotStatus(ctx context.Context, id uuid.UUID, from, to SlotStatus) (*AvailabilitySlot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error

	// ReplaceSlots deletes every slot owned by the psychologist and inserts
	// the replacement set in one transaction. Returns the inserted count.
	ReplaceSlots(ctx context.Context, psychologistID uuid.UUID, slots []AvailabilitySlot) (int, error)

	// ClaimSlot locks the matching available slot, verifies no booking
	// occupies the window, marks the slot booked and inserts the booking,
	// all in one transaction. Fails with ErrSlotNotAvailable or
	// ErrSlotAlreadyBooked.
	ClaimSlot(ctx context.Context, booking Booking) (*Booking, error)

	ListBookings(ctx context.Context, psychologistID uuid.UUID) ([]Booking, error)
	ListBookingsEndingBefore(ctx context.Context, psychologistID uuid.UUID, t time.Time) ([]Booking, error)
	ListBookingsStartingAfter(ctx context.Context, psychologistID uuid.UUID, t time.Time) ([]Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	UpdateBookingContact(ctx context.Context, id uuid.UUID, email, phone, notes string) (*Booking, error)
	SetBookingCalendarInfo(ctx context.Context, id uuid.UUID, eventID, meetLink string) error
	DeleteBooking(ctx context.Context, id uuid.UUID) (*Booking, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*PsychologistProfile, error)
	CreateProfile(ctx context.Context, profile PsychologistProfile) (*PsychologistProfile, error)
	UpdateProfile(ctx context.Context, profile PsychologistProfile) (*PsychologistProfile, error)
	ListProfiles(ctx context.Context) ([]PsychologistProfile, error)
}
