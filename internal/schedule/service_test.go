package schedule

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	redisclient "github.com/amani-care/report-backend/internal/redis"
)

// fakeRepository is an in-memory Repository with the same claim semantics
// as the Postgres implementation.
type fakeRepository struct {
	mu       sync.Mutex
	slots    map[uuid.UUID]AvailabilitySlot
	bookings map[uuid.UUID]Booking
	profiles map[uuid.UUID]PsychologistProfile
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		slots:    make(map[uuid.UUID]AvailabilitySlot),
		bookings: make(map[uuid.UUID]Booking),
		profiles: make(map[uuid.UUID]PsychologistProfile),
	}
}

func (f *fakeRepository) ListSlots(ctx context.Context, psychologistID uuid.UUID) ([]AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []AvailabilitySlot
	for _, s := range f.slots {
		if s.PsychologistID == psychologistID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListAvailableSlots(ctx context.Context, psychologistID uuid.UUID) ([]AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []AvailabilitySlot
	for _, s := range f.slots {
		if s.PsychologistID == psychologistID && s.Status == SlotAvailable {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return &s, nil
}

func (f *fakeRepository) CreateSlot(ctx context.Context, slot AvailabilitySlot) (*AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.slots {
		if s.PsychologistID == slot.PsychologistID && s.StartTime.Equal(slot.StartTime) && s.EndTime.Equal(slot.EndTime) {
			return nil, ErrDuplicateSlot
		}
	}

	slot.ID = uuid.New()
	f.slots[slot.ID] = slot
	return &slot, nil
}

func (f *fakeRepository) UpdateSlotWindow(ctx context.Context, id uuid.UUID, start, end time.Time, status SlotStatus) (*AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	s.StartTime, s.EndTime, s.Status = start, end, status
	f.slots[id] = s
	return &s, nil
}

func (f *fakeRepository) UpdateSlotStatus(ctx context.Context, id uuid.UUID, from, to SlotStatus) (*AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[id]
	if !ok || s.Status != from {
		return nil, ErrSlotNotFound
	}
	s.Status = to
	f.slots[id] = s
	return &s, nil
}

func (f *fakeRepository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.slots[id]; !ok {
		return ErrSlotNotFound
	}
	delete(f.slots, id)
	return nil
}

func (f *fakeRepository) ReplaceSlots(ctx context.Context, psychologistID uuid.UUID, slots []AvailabilitySlot) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, s := range f.slots {
		if s.PsychologistID == psychologistID {
			delete(f.slots, id)
		}
	}
	for _, s := range slots {
		s.ID = uuid.New()
		f.slots[s.ID] = s
	}
	return len(slots), nil
}

func (f *fakeRepository) ClaimSlot(ctx context.Context, booking Booking) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var slotID uuid.UUID
	found := false
	for id, s := range f.slots {
		if s.PsychologistID == booking.PsychologistID &&
			s.StartTime.Equal(booking.StartTime) && s.EndTime.Equal(booking.EndTime) &&
			s.Status == SlotAvailable {
			slotID = id
			found = true
			break
		}
	}
	if !found {
		return nil, ErrSlotNotAvailable
	}

	for _, b := range f.bookings {
		if b.PsychologistID == booking.PsychologistID &&
			b.StartTime.Equal(booking.StartTime) && b.EndTime.Equal(booking.EndTime) {
			return nil, ErrSlotAlreadyBooked
		}
	}

	s := f.slots[slotID]
	s.Status = SlotBooked
	f.slots[slotID] = s

	booking.CreatedAt = time.Now().UTC()
	f.bookings[booking.ID] = booking
	return &booking, nil
}

func (f *fakeRepository) ListBookings(ctx context.Context, psychologistID uuid.UUID) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Booking
	for _, b := range f.bookings {
		if b.PsychologistID == psychologistID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListBookingsEndingBefore(ctx context.Context, psychologistID uuid.UUID, t time.Time) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Booking
	for _, b := range f.bookings {
		if b.PsychologistID == psychologistID && b.EndTime.Before(t) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListBookingsStartingAfter(ctx context.Context, psychologistID uuid.UUID, t time.Time) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Booking
	for _, b := range f.bookings {
		if b.PsychologistID == psychologistID && b.StartTime.After(t) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (f *fakeRepository) UpdateBookingContact(ctx context.Context, id uuid.UUID, email, phone, notes string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	b.ClientEmail, b.ClientPhone, b.Notes = email, phone, notes
	f.bookings[id] = b
	return &b, nil
}

func (f *fakeRepository) SetBookingCalendarInfo(ctx context.Context, id uuid.UUID, eventID, meetLink string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.CalendarEventID, b.MeetLink = eventID, meetLink
	f.bookings[id] = b
	return nil
}

func (f *fakeRepository) DeleteBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	delete(f.bookings, id)
	return &b, nil
}

func (f *fakeRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*PsychologistProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeRepository) CreateProfile(ctx context.Context, profile PsychologistProfile) (*PsychologistProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.profiles[profile.UserID] = profile
	return &profile, nil
}

func (f *fakeRepository) UpdateProfile(ctx context.Context, profile PsychologistProfile) (*PsychologistProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.profiles[profile.UserID]; !ok {
		return nil, ErrProfileNotFound
	}
	f.profiles[profile.UserID] = profile
	return &profile, nil
}

func (f *fakeRepository) ListProfiles(ctx context.Context) ([]PsychologistProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []PsychologistProfile
	for _, p := range f.profiles {
		out = append(out, p)
	}
	return out, nil
}

type fakeCalendar struct {
	event *CalendarEvent
	err   error
}

func (c *fakeCalendar) CreateEvent(ctx context.Context, credentials []byte, req CalendarEventRequest) (*CalendarEvent, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.event, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func newTestService(t *testing.T, repo Repository, calendar CalendarClient, mailer Mailer) *Service {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	locker := redisclient.NewRedisWindowLocker(client, 2*time.Second)
	return NewService(repo, locker, calendar, mailer, zap.NewNop(), 2*time.Second)
}

func seedSlot(t *testing.T, repo *fakeRepository, psychID uuid.UUID, start time.Time) AvailabilitySlot {
	t.Helper()

	slot, err := repo.CreateSlot(context.Background(), AvailabilitySlot{
		PsychologistID: psychID,
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
		Status:         SlotAvailable,
	})
	if err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return *slot
}

func TestClaimCreatesBookingAndMarksSlot(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	psychID := uuid.New()
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	slot := seedSlot(t, repo, psychID, start)

	booking, err := svc.Claim(context.Background(), psychID, ClaimRequest{
		ClientEmail: "client@example.org",
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
	})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	got, err := repo.GetSlotByID(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("get slot: %v", err)
	}
	if got.Status != SlotBooked {
		t.Fatalf("expected slot booked, got %q", got.Status)
	}

	stored, err := repo.GetBookingByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if !strings.HasPrefix(stored.MeetLink, "https://meet.jit.si/amani-") {
		t.Fatalf("expected fallback meet link, got %q", stored.MeetLink)
	}
}

func TestClaimConcurrentSingleWinner(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	psychID := uuid.New()
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	slot := seedSlot(t, repo, psychID, start)

	const claimers = 8

	var wg sync.WaitGroup
	errs := make([]error, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Claim(context.Background(), psychID, ClaimRequest{
				ClientEmail: "client@example.org",
				StartTime:   slot.StartTime,
				EndTime:     slot.EndTime,
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotBeingClaimed),
			errors.Is(err, ErrSlotAlreadyBooked),
			errors.Is(err, ErrSlotNotAvailable):
			// losers
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}

	bookings, err := repo.ListBookings(context.Background(), psychID)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected exactly one booking, got %d", len(bookings))
	}
}

func TestClaimBookedSlotFails(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	psychID := uuid.New()
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	slot := seedSlot(t, repo, psychID, start)

	req := ClaimRequest{
		ClientEmail: "first@example.org",
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
	}
	if _, err := svc.Claim(context.Background(), psychID, req); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	_, err := svc.Claim(context.Background(), psychID, req)
	if !errors.Is(err, ErrSlotNotAvailable) {
		t.Fatalf("expected ErrSlotNotAvailable, got %v", err)
	}
}

func TestClaimDriftedSlotReportsAlreadyBooked(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	psychID := uuid.New()
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	slot := seedSlot(t, repo, psychID, start)

	// A booking occupies the window while the slot still reads available.
	clientID := uuid.New()
	repo.mu.Lock()
	id := uuid.New()
	repo.bookings[id] = Booking{
		ID:             id,
		PsychologistID: psychID,
		ClientID:       &clientID,
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
	}
	repo.mu.Unlock()

	_, err := svc.Claim(context.Background(), psychID, ClaimRequest{
		ClientEmail: "late@example.org",
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
	})
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("expected ErrSlotAlreadyBooked, got %v", err)
	}
}

func TestClaimRequiresContact(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	psychID := uuid.New()
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	slot := seedSlot(t, repo, psychID, start)

	_, err := svc.Claim(context.Background(), psychID, ClaimRequest{
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	})
	if !errors.Is(err, ErrMissingContactInfo) {
		t.Fatalf("expected ErrMissingContactInfo, got %v", err)
	}

	bookings, err := repo.ListBookings(context.Background(), psychID)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(bookings) != 0 {
		t.Fatalf("expected no booking, got %d", len(bookings))
	}

	got, err := repo.GetSlotByID(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("get slot: %v", err)
	}
	if got.Status != SlotAvailable {
		t.Fatalf("expected slot untouched, got %q", got.Status)
	}
}

func TestClaimRejectsInvalidWindow(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	start := time.Now().UTC()
	_, err := svc.Claim(context.Background(), uuid.New(), ClaimRequest{
		ClientEmail: "client@example.org",
		StartTime:   start,
		EndTime:     start.Add(-time.Hour),
	})
	if !errors.Is(err, ErrInvalidSlotInput) {
		t.Fatalf("expected ErrInvalidSlotInput, got %v", err)
	}
}

func TestClaimUsesCalendarWhenCredentialsPresent(t *testing.T) {
	repo := newFakeRepository()
	calendar := &fakeCalendar{event: &CalendarEvent{EventID: "ev-1", MeetLink: "https://meet.example.org/abc"}}
	mailer := &fakeMailer{}
	svc := newTestService(t, repo, calendar, mailer)

	psychID := uuid.New()
	if _, err := repo.CreateProfile(context.Background(), PsychologistProfile{
		UserID:              psychID,
		DisplayName:         "Dr. Example",
		CalendarCredentials: []byte(`{"token":"x"}`),
	}); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	slot := seedSlot(t, repo, psychID, start)

	booking, err := svc.Claim(context.Background(), psychID, ClaimRequest{
		ClientEmail: "client@example.org",
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
	})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	stored, err := repo.GetBookingByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if stored.CalendarEventID != "ev-1" {
		t.Fatalf("expected calendar event stored, got %q", stored.CalendarEventID)
	}
	if stored.MeetLink != "https://meet.example.org/abc" {
		t.Fatalf("expected calendar meet link, got %q", stored.MeetLink)
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 1 || mailer.sent[0] != "client@example.org" {
		t.Fatalf("expected one confirmation email, got %v", mailer.sent)
	}
}

func TestClaimSurvivesCalendarFailure(t *testing.T) {
	repo := newFakeRepository()
	calendar := &fakeCalendar{err: errors.New("calendar down")}
	svc := newTestService(t, repo, calendar, nil)

	psychID := uuid.New()
	if _, err := repo.CreateProfile(context.Background(), PsychologistProfile{
		UserID:              psychID,
		CalendarCredentials: []byte(`{"token":"x"}`),
	}); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	slot := seedSlot(t, repo, psychID, start)

	booking, err := svc.Claim(context.Background(), psychID, ClaimRequest{
		ClientEmail: "client@example.org",
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
	})
	if err != nil {
		t.Fatalf("claim must succeed despite calendar outage: %v", err)
	}

	stored, err := repo.GetBookingByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if !strings.HasPrefix(stored.MeetLink, "https://meet.jit.si/amani-") {
		t.Fatalf("expected fallback meet link, got %q", stored.MeetLink)
	}
}

func TestReplaceAllValidatesBeforeTouchingStorage(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	psychID := uuid.New()
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	old := seedSlot(t, repo, psychID, start)

	_, err := svc.ReplaceAll(context.Background(), psychID, []SlotInput{
		{StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour), Status: SlotAvailable},
		{StartTime: start.Add(5 * time.Hour), EndTime: start.Add(4 * time.Hour), Status: SlotAvailable},
	})
	if !errors.Is(err, ErrInvalidSlotInput) {
		t.Fatalf("expected ErrInvalidSlotInput, got %v", err)
	}

	// The old set must be fully intact.
	slots, err := repo.ListSlots(context.Background(), psychID)
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != old.ID {
		t.Fatalf("expected original slot untouched, got %v", slots)
	}
}

func TestReplaceAllRejectsDuplicateWindows(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	in := SlotInput{StartTime: start, EndTime: start.Add(time.Hour), Status: SlotAvailable}

	_, err := svc.ReplaceAll(context.Background(), uuid.New(), []SlotInput{in, in})
	if !errors.Is(err, ErrInvalidSlotInput) {
		t.Fatalf("expected ErrInvalidSlotInput, got %v", err)
	}
}

func TestReplaceAllSwapsSet(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	psychID := uuid.New()
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	seedSlot(t, repo, psychID, start)

	count, err := svc.ReplaceAll(context.Background(), psychID, []SlotInput{
		{StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour), Status: SlotAvailable},
		{StartTime: start.Add(3 * time.Hour), EndTime: start.Add(4 * time.Hour), Status: SlotUnavailable},
	})
	if err != nil {
		t.Fatalf("replace all: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 inserted, got %d", count)
	}

	slots, err := repo.ListSlots(context.Background(), psychID)
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected old set replaced, got %d slots", len(slots))
	}
	for _, s := range slots {
		if s.StartTime.Equal(start) {
			t.Fatal("old slot survived the replacement")
		}
	}
}

func TestReconcileRepairsDrift(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	psychID := uuid.New()
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)

	// Slot marked booked with no matching booking: must revert.
	orphan := seedSlot(t, repo, psychID, start)
	if _, err := repo.UpdateSlotStatus(context.Background(), orphan.ID, SlotAvailable, SlotBooked); err != nil {
		t.Fatalf("mark orphan booked: %v", err)
	}

	// Slot still available although a booking occupies its window: must
	// flip to booked.
	drifted := seedSlot(t, repo, psychID, start.Add(2*time.Hour))
	repo.mu.Lock()
	id := uuid.New()
	repo.bookings[id] = Booking{
		ID:             id,
		PsychologistID: psychID,
		ClientEmail:    "client@example.org",
		StartTime:      drifted.StartTime,
		EndTime:        drifted.EndTime,
	}
	repo.mu.Unlock()

	if err := svc.Reconcile(context.Background(), psychID); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	got, err := repo.GetSlotByID(context.Background(), orphan.ID)
	if err != nil {
		t.Fatalf("get orphan: %v", err)
	}
	if got.Status != SlotAvailable {
		t.Fatalf("expected orphan reverted to available, got %q", got.Status)
	}

	got, err = repo.GetSlotByID(context.Background(), drifted.ID)
	if err != nil {
		t.Fatalf("get drifted: %v", err)
	}
	if got.Status != SlotBooked {
		t.Fatalf("expected drifted slot marked booked, got %q", got.Status)
	}
}

func TestDeleteBookingFreesSlot(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	psychID := uuid.New()
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	slot := seedSlot(t, repo, psychID, start)

	booking, err := svc.Claim(context.Background(), psychID, ClaimRequest{
		ClientEmail: "client@example.org",
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
	})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	if err := svc.DeleteBooking(context.Background(), booking.ID); err != nil {
		t.Fatalf("delete booking: %v", err)
	}

	got, err := repo.GetSlotByID(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("get slot: %v", err)
	}
	if got.Status != SlotAvailable {
		t.Fatalf("expected slot freed, got %q", got.Status)
	}
}

func TestEnsureProfileCreatesOnFirstAccess(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo, nil, nil)

	userID := uuid.New()
	profile, err := svc.EnsureProfile(context.Background(), userID)
	if err != nil {
		t.Fatalf("ensure profile: %v", err)
	}
	if profile.UserID != userID {
		t.Fatalf("expected profile for %s, got %s", userID, profile.UserID)
	}

	again, err := svc.EnsureProfile(context.Background(), userID)
	if err != nil {
		t.Fatalf("ensure profile twice: %v", err)
	}
	if again.UserID != userID {
		t.Fatalf("expected same profile, got %s", again.UserID)
	}
}
