package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanSlot(row pgx.Row) (*AvailabilitySlot, error) {
	var s AvailabilitySlot

	err := row.Scan(
		&s.ID,
		&s.PsychologistID,
		&s.StartTime,
		&s.EndTime,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &s, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var clientID *uuid.UUID

	err := row.Scan(
		&b.ID,
		&b.PsychologistID,
		&clientID,
		&b.ClientEmail,
		&b.ClientPhone,
		&b.StartTime,
		&b.EndTime,
		&b.Notes,
		&b.MeetLink,
		&b.CalendarEventID,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	b.ClientID = clientID
	return &b, nil
}

func scanProfile(row pgx.Row) (*PsychologistProfile, error) {
	var p PsychologistProfile

	err := row.Scan(
		&p.UserID,
		&p.DisplayName,
		&p.Bio,
		&p.Specializations,
		&p.Languages,
		&p.ContactEmail,
		&p.ContactPhone,
		&p.CalendarCredentials,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const slotColumns = "id, psychologist_id, start_time, end_time, status, created_at, updated_at"
const bookingColumns = "id, psychologist_id, client_id, client_email, client_phone, start_time, end_time, notes, meet_link, calendar_event_id, created_at"
const profileColumns = "user_id, display_name, bio, specializations, languages, contact_email, contact_phone, calendar_credentials, created_at, updated_at"

// Slots

func (r *PgRepository) ListSlots(ctx context.Context, psychologistID uuid.UUID) ([]AvailabilitySlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+slotColumns+`
		FROM availability_slots
		WHERE psychologist_id = $1
		ORDER BY start_time ASC
	`, psychologistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSlots(rows)
}

func (r *PgRepository) ListAvailableSlots(ctx context.Context, psychologistID uuid.UUID) ([]AvailabilitySlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+slotColumns+`
		FROM availability_slots
		WHERE psychologist_id = $1 AND status = 'available'
		ORDER BY start_time ASC
	`, psychologistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSlots(rows)
}

func collectSlots(rows pgx.Rows) ([]AvailabilitySlot, error) {
	var result []AvailabilitySlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*AvailabilitySlot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM availability_slots
		WHERE id = $1
	`, id)
	return scanSlot(row)
}

func (r *PgRepository) CreateSlot(ctx context.Context, slot AvailabilitySlot) (*AvailabilitySlot, error) {
	id := slot.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO availability_slots (id, psychologist_id, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING `+slotColumns+`
	`, id, slot.PsychologistID, slot.StartTime, slot.EndTime, slot.Status)

	created, err := scanSlot(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlot
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) UpdateSlotWindow(ctx context.Context, id uuid.UUID, start, end time.Time, status SlotStatus) (*AvailabilitySlot, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE availability_slots
		SET start_time = $2,
		    end_time = $3,
		    status = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+slotColumns+`
	`, id, start, end, status)

	updated, err := scanSlot(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlot
		}
		return nil, err
	}
	return updated, nil
}

func (r *PgRepository) UpdateSlotStatus(ctx context.Context, id uuid.UUID, from, to SlotStatus) (*AvailabilitySlot, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE availability_slots
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+slotColumns+`
	`, id, to, from)

	return scanSlot(row)
}

func (r *PgRepository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM availability_slots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *PgRepository) ReplaceSlots(ctx context.Context, psychologistID uuid.UUID, slots []AvailabilitySlot) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin replace slots: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM availability_slots WHERE psychologist_id = $1`, psychologistID); err != nil {
		return 0, fmt.Errorf("delete old slots: %w", err)
	}

	inserted := 0
	for _, s := range slots {
		id := s.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO availability_slots (id, psychologist_id, start_time, end_time, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, psychologistID, s.StartTime, s.EndTime, s.Status)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, ErrDuplicateSlot
			}
			return 0, fmt.Errorf("insert replacement slot: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit replace slots: %w", err)
	}

	return inserted, nil
}

// ClaimSlot is the only write path that creates bookings. The row lock on the
// slot serializes concurrent claims for the same window.
func (r *PgRepository) ClaimSlot(ctx context.Context, booking Booking) (*Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin claim: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var slotID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id
		FROM availability_slots
		WHERE psychologist_id = $1
		  AND start_time = $2
		  AND end_time = $3
		  AND status = 'available'
		FOR UPDATE
	`, booking.PsychologistID, booking.StartTime, booking.EndTime).Scan(&slotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotAvailable
		}
		return nil, fmt.Errorf("lock slot: %w", err)
	}

	var occupied bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE psychologist_id = $1 AND start_time = $2 AND end_time = $3
		)
	`, booking.PsychologistID, booking.StartTime, booking.EndTime).Scan(&occupied)
	if err != nil {
		return nil, fmt.Errorf("check existing booking: %w", err)
	}
	if occupied {
		return nil, ErrSlotAlreadyBooked
	}

	if _, err := tx.Exec(ctx, `
		UPDATE availability_slots
		SET status = 'booked', updated_at = now()
		WHERE id = $1
	`, slotID); err != nil {
		return nil, fmt.Errorf("mark slot booked: %w", err)
	}

	id := booking.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO bookings (id, psychologist_id, client_id, client_email, client_phone, start_time, end_time, notes, meet_link, calendar_event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING `+bookingColumns+`
	`, id, booking.PsychologistID, booking.ClientID, booking.ClientEmail, booking.ClientPhone,
		booking.StartTime, booking.EndTime, booking.Notes, booking.MeetLink, booking.CalendarEventID)

	created, err := scanBooking(row)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}

	return created, nil
}

// Bookings

func (r *PgRepository) ListBookings(ctx context.Context, psychologistID uuid.UUID) ([]Booking, error) {
	return r.queryBookings(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE psychologist_id = $1
		ORDER BY start_time ASC
	`, psychologistID)
}

func (r *PgRepository) ListBookingsEndingBefore(ctx context.Context, psychologistID uuid.UUID, t time.Time) ([]Booking, error) {
	return r.queryBookings(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE psychologist_id = $1 AND end_time < $2
		ORDER BY start_time DESC
	`, psychologistID, t)
}

func (r *PgRepository) ListBookingsStartingAfter(ctx context.Context, psychologistID uuid.UUID, t time.Time) ([]Booking, error) {
	return r.queryBookings(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE psychologist_id = $1 AND start_time > $2
		ORDER BY start_time ASC
	`, psychologistID, t)
}

func (r *PgRepository) queryBookings(ctx context.Context, sql string, args ...any) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id)
	return scanBooking(row)
}

func (r *PgRepository) UpdateBookingContact(ctx context.Context, id uuid.UUID, email, phone, notes string) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE bookings
		SET client_email = $2,
		    client_phone = $3,
		    notes = $4
		WHERE id = $1
		RETURNING `+bookingColumns+`
	`, id, email, phone, notes)
	return scanBooking(row)
}

func (r *PgRepository) SetBookingCalendarInfo(ctx context.Context, id uuid.UUID, eventID, meetLink string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET calendar_event_id = $2,
		    meet_link = $3
		WHERE id = $1
	`, id, eventID, meetLink)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *PgRepository) DeleteBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.pool.QueryRow(ctx, `
		DELETE FROM bookings
		WHERE id = $1
		RETURNING `+bookingColumns+`
	`, id)
	return scanBooking(row)
}

// Profiles

func (r *PgRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*PsychologistProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM psychologist_profiles
		WHERE user_id = $1
	`, userID)
	return scanProfile(row)
}

func (r *PgRepository) CreateProfile(ctx context.Context, profile PsychologistProfile) (*PsychologistProfile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO psychologist_profiles (user_id, display_name, bio, specializations, languages, contact_email, contact_phone, calendar_credentials, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING `+profileColumns+`
	`, profile.UserID, profile.DisplayName, profile.Bio, profile.Specializations, profile.Languages,
		profile.ContactEmail, profile.ContactPhone, profile.CalendarCredentials)
	return scanProfile(row)
}

func (r *PgRepository) UpdateProfile(ctx context.Context, profile PsychologistProfile) (*PsychologistProfile, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE psychologist_profiles
		SET display_name = $2,
		    bio = $3,
		    specializations = $4,
		    languages = $5,
		    contact_email = $6,
		    contact_phone = $7,
		    calendar_credentials = $8,
		    updated_at = now()
		WHERE user_id = $1
		RETURNING `+profileColumns+`
	`, profile.UserID, profile.DisplayName, profile.Bio, profile.Specializations, profile.Languages,
		profile.ContactEmail, profile.ContactPhone, profile.CalendarCredentials)
	return scanProfile(row)
}

func (r *PgRepository) ListProfiles(ctx context.Context) ([]PsychologistProfile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM psychologist_profiles
		ORDER BY display_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PsychologistProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
