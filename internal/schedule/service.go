package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	redisclient "github.com/amani-care/report-backend/internal/redis"
)

var (
	ErrSlotNotAvailable   = errors.New("no available slot matches the requested window")
	ErrSlotAlreadyBooked  = errors.New("slot already has a booking")
	ErrSlotBeingClaimed   = errors.New("slot is currently being claimed, please retry")
	ErrMissingContactInfo = errors.New("a client email or an authenticated client is required")
	ErrInvalidSlotInput   = errors.New("invalid slot input")
)

// CalendarClient creates an event in the psychologist's external calendar.
// Implementations must honor the context deadline.
type CalendarClient interface {
	CreateEvent(ctx context.Context, credentials []byte, req CalendarEventRequest) (*CalendarEvent, error)
}

type CalendarEventRequest struct {
	Summary       string
	StartTime     time.Time
	EndTime       time.Time
	AttendeeEmail string
}

type CalendarEvent struct {
	EventID  string
	MeetLink string
}

// Mailer sends the booking confirmation. Failures are logged and swallowed.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service struct {
	repo            Repository
	locker          redisclient.Locker
	calendar        CalendarClient
	mailer          Mailer
	log             *zap.Logger
	externalTimeout time.Duration
}

func NewService(repo Repository, locker redisclient.Locker, calendar CalendarClient, mailer Mailer, log *zap.Logger, externalTimeout time.Duration) *Service {
	return &Service{
		repo:            repo,
		locker:          locker,
		calendar:        calendar,
		mailer:          mailer,
		log:             log,
		externalTimeout: externalTimeout,
	}
}

// Slots

// ListAvailable returns the psychologist's open windows ordered by start time.
func (s *Service) ListAvailable(ctx context.Context, psychologistID uuid.UUID) ([]AvailabilitySlot, error) {
	slots, err := s.repo.ListAvailableSlots(ctx, psychologistID)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}

func (s *Service) ListSlots(ctx context.Context, psychologistID uuid.UUID) ([]AvailabilitySlot, error) {
	slots, err := s.repo.ListSlots(ctx, psychologistID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

func (s *Service) GetSlot(ctx context.Context, id uuid.UUID) (*AvailabilitySlot, error) {
	return s.repo.GetSlotByID(ctx, id)
}

func (s *Service) CreateSlot(ctx context.Context, psychologistID uuid.UUID, input SlotInput) (*AvailabilitySlot, error) {
	if err := validateSlotInput(input); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateSlot(ctx, AvailabilitySlot{
		PsychologistID: psychologistID,
		StartTime:      input.StartTime.UTC(),
		EndTime:        input.EndTime.UTC(),
		Status:         input.Status,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) UpdateSlot(ctx context.Context, id uuid.UUID, input SlotInput) (*AvailabilitySlot, error) {
	if err := validateSlotInput(input); err != nil {
		return nil, err
	}
	return s.repo.UpdateSlotWindow(ctx, id, input.StartTime.UTC(), input.EndTime.UTC(), input.Status)
}

func (s *Service) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSlot(ctx, id)
}

// ReplaceAll swaps the psychologist's whole slot set for the given inputs.
// Every input is validated before any storage is touched, so a bad entry
// leaves the old set fully intact.
func (s *Service) ReplaceAll(ctx context.Context, psychologistID uuid.UUID, inputs []SlotInput) (int, error) {
	seen := make(map[window]struct{}, len(inputs))
	slots := make([]AvailabilitySlot, 0, len(inputs))

	for i, in := range inputs {
		if err := validateSlotInput(in); err != nil {
			return 0, fmt.Errorf("slot %d: %w", i, err)
		}
		w := windowOf(in.StartTime, in.EndTime)
		if _, dup := seen[w]; dup {
			return 0, fmt.Errorf("slot %d: %w: duplicate window in replacement set", i, ErrInvalidSlotInput)
		}
		seen[w] = struct{}{}

		slots = append(slots, AvailabilitySlot{
			PsychologistID: psychologistID,
			StartTime:      in.StartTime.UTC(),
			EndTime:        in.EndTime.UTC(),
			Status:         in.Status,
		})
	}

	count, err := s.repo.ReplaceSlots(ctx, psychologistID, slots)
	if err != nil {
		return 0, fmt.Errorf("replace slots: %w", err)
	}

	s.log.Info("replaced availability set",
		zap.String("psychologist_id", psychologistID.String()),
		zap.Int("inserted", count))

	return count, nil
}

func validateSlotInput(in SlotInput) error {
	if in.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidSlotInput)
	}
	if in.EndTime.IsZero() {
		return fmt.Errorf("%w: end time is required", ErrInvalidSlotInput)
	}
	if in.Status == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidSlotInput)
	}
	if !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidSlotInput, in.Status)
	}
	if !in.EndTime.After(in.StartTime) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidSlotInput)
	}
	return nil
}

type window struct {
	start int64
	end   int64
}

func windowOf(start, end time.Time) window {
	return window{start: start.UTC().Unix(), end: end.UTC().Unix()}
}

// Reconcile re-derives slot status from the existence of matching bookings.
// Slot state can drift when bookings are deleted directly, so this repair
// pass runs synchronously before psychologist detail and availability views.
func (s *Service) Reconcile(ctx context.Context, psychologistID uuid.UUID) error {
	slots, err := s.repo.ListSlots(ctx, psychologistID)
	if err != nil {
		return fmt.Errorf("reconcile: list slots: %w", err)
	}

	bookings, err := s.repo.ListBookings(ctx, psychologistID)
	if err != nil {
		return fmt.Errorf("reconcile: list bookings: %w", err)
	}

	booked := make(map[window]struct{}, len(bookings))
	for _, b := range bookings {
		booked[windowOf(b.StartTime, b.EndTime)] = struct{}{}
	}

	for _, slot := range slots {
		_, hasBooking := booked[windowOf(slot.StartTime, slot.EndTime)]

		switch {
		case hasBooking && slot.Status != SlotBooked:
			if _, err := s.repo.UpdateSlotStatus(ctx, slot.ID, slot.Status, SlotBooked); err != nil && !errors.Is(err, ErrSlotNotFound) {
				return fmt.Errorf("reconcile: mark slot booked: %w", err)
			}
		case !hasBooking && slot.Status == SlotBooked:
			if _, err := s.repo.UpdateSlotStatus(ctx, slot.ID, SlotBooked, SlotAvailable); err != nil && !errors.Is(err, ErrSlotNotFound) {
				return fmt.Errorf("reconcile: revert slot: %w", err)
			}
		}
	}

	return nil
}

// Claim

// Claim converts one available slot into exactly one booking. The Redis
// window lock plus the row lock inside ClaimSlot guarantee that two
// concurrent claims for the same window produce one success and one
// ErrSlotAlreadyBooked / ErrSlotNotAvailable.
func (s *Service) Claim(ctx context.Context, psychologistID uuid.UUID, req ClaimRequest) (*Booking, error) {
	if req.ClientID == nil && req.ClientEmail == "" {
		return nil, ErrMissingContactInfo
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("%w: a valid start/end window is required", ErrInvalidSlotInput)
	}

	var created *Booking

	err := s.locker.WithWindowLock(ctx, psychologistID, req.StartTime, req.EndTime, func(lockCtx context.Context) error {
		booking, err := s.repo.ClaimSlot(lockCtx, Booking{
			ID:             uuid.New(),
			PsychologistID: psychologistID,
			ClientID:       req.ClientID,
			ClientEmail:    req.ClientEmail,
			ClientPhone:    req.ClientPhone,
			StartTime:      req.StartTime.UTC(),
			EndTime:        req.EndTime.UTC(),
			Notes:          req.Notes,
		})
		if err != nil {
			return err
		}
		created = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingClaimed
		}
		return nil, err
	}

	s.log.Info("slot claimed",
		zap.String("booking_id", created.ID.String()),
		zap.String("psychologist_id", psychologistID.String()),
		zap.Time("start", created.StartTime))

	// Runs only after the booking transaction committed. A calendar or mail
	// outage must not abort a valid booking.
	s.afterClaim(created)

	return created, nil
}

// afterClaim attaches a calendar event and sends the confirmation email.
// Detached from the request context so a client disconnect cannot cut the
// side effects short of their own timeout.
func (s *Service) afterClaim(booking *Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), s.externalTimeout)
	defer cancel()

	meetLink := fallbackMeetLink(booking.ID)
	eventID := ""

	profile, err := s.repo.GetProfile(ctx, booking.PsychologistID)
	if err != nil {
		s.log.Warn("claim post-effect: load profile failed", zap.Error(err))
		profile = nil
	}

	if profile != nil && len(profile.CalendarCredentials) > 0 && s.calendar != nil {
		ev, err := s.calendar.CreateEvent(ctx, profile.CalendarCredentials, CalendarEventRequest{
			Summary:       "Counseling session",
			StartTime:     booking.StartTime,
			EndTime:       booking.EndTime,
			AttendeeEmail: booking.ClientEmail,
		})
		if err != nil {
			s.log.Warn("claim post-effect: calendar event failed, using fallback link",
				zap.String("booking_id", booking.ID.String()), zap.Error(err))
		} else {
			eventID = ev.EventID
			if ev.MeetLink != "" {
				meetLink = ev.MeetLink
			}
		}
	}

	if err := s.repo.SetBookingCalendarInfo(ctx, booking.ID, eventID, meetLink); err != nil {
		s.log.Warn("claim post-effect: store calendar info failed",
			zap.String("booking_id", booking.ID.String()), zap.Error(err))
	} else {
		booking.CalendarEventID = eventID
		booking.MeetLink = meetLink
	}

	if booking.ClientEmail != "" && s.mailer != nil {
		body := fmt.Sprintf(
			"Your counseling session is confirmed for %s until %s.\nJoin: %s\n",
			booking.StartTime.Format(time.RFC1123),
			booking.EndTime.Format(time.RFC1123),
			meetLink,
		)
		if err := s.mailer.Send(ctx, booking.ClientEmail, "Booking confirmed", body); err != nil {
			s.log.Warn("claim post-effect: confirmation email failed",
				zap.String("booking_id", booking.ID.String()), zap.Error(err))
		}
	}
}

func fallbackMeetLink(bookingID uuid.UUID) string {
	return "https://meet.jit.si/amani-" + bookingID.String()
}

// Bookings

func (s *Service) ListBookings(ctx context.Context, psychologistID uuid.UUID) ([]Booking, error) {
	return s.repo.ListBookings(ctx, psychologistID)
}

// PastBookings returns bookings whose window has fully elapsed.
func (s *Service) PastBookings(ctx context.Context, psychologistID uuid.UUID) ([]Booking, error) {
	return s.repo.ListBookingsEndingBefore(ctx, psychologistID, time.Now().UTC())
}

// UpcomingBookings returns bookings that have not started yet.
func (s *Service) UpcomingBookings(ctx context.Context, psychologistID uuid.UUID) ([]Booking, error) {
	return s.repo.ListBookingsStartingAfter(ctx, psychologistID, time.Now().UTC())
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetBookingByID(ctx, id)
}

func (s *Service) UpdateBookingContact(ctx context.Context, id uuid.UUID, email, phone, notes string) (*Booking, error) {
	return s.repo.UpdateBookingContact(ctx, id, email, phone, notes)
}

// DeleteBooking removes the booking and immediately reconciles the owning
// psychologist so the freed slot reverts to available.
func (s *Service) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Reconcile(ctx, deleted.PsychologistID); err != nil {
		s.log.Warn("reconcile after booking delete failed",
			zap.String("psychologist_id", deleted.PsychologistID.String()), zap.Error(err))
	}

	return nil
}

// Profiles

// EnsureProfile returns the profile, creating an empty one on first access.
func (s *Service) EnsureProfile(ctx context.Context, userID uuid.UUID) (*PsychologistProfile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	return s.repo.CreateProfile(ctx, PsychologistProfile{UserID: userID})
}

func (s *Service) UpdateProfile(ctx context.Context, profile PsychologistProfile) (*PsychologistProfile, error) {
	if _, err := s.EnsureProfile(ctx, profile.UserID); err != nil {
		return nil, err
	}
	return s.repo.UpdateProfile(ctx, profile)
}

func (s *Service) ListPsychologists(ctx context.Context) ([]PsychologistProfile, error) {
	return s.repo.ListProfiles(ctx)
}

// Detail is the public psychologist view. It runs the reconciliation pass
// first so the returned availability reflects the booking state.
func (s *Service) Detail(ctx context.Context, userID uuid.UUID) (*PsychologistDetail, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.Reconcile(ctx, userID); err != nil {
		return nil, err
	}

	available, err := s.repo.ListAvailableSlots(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}

	return &PsychologistDetail{
		Profile:      *profile,
		Availability: available,
	}, nil
}
