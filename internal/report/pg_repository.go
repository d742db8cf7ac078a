package report

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanReport(row pgx.Row) (*IncidentReport, error) {
	var r IncidentReport

	err := row.Scan(
		&r.ID,
		&r.Category,
		&r.Description,
		&r.Gender,
		&r.Location,
		&r.PerpetratorDetails,
		&r.Anonymous,
		&r.ContactPhone,
		&r.ContactEmail,
		&r.EvidenceURL,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	return &r, nil
}

func scanContactMessage(row pgx.Row) (*ContactMessage, error) {
	var m ContactMessage

	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Resolved, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	return &m, nil
}

func scanSupportMessage(row pgx.Row) (*SupportMessage, error) {
	var m SupportMessage

	err := row.Scan(&m.ID, &m.AuthorID, &m.Title, &m.Body, &m.Published, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	return &m, nil
}

func scanUpdate(row pgx.Row) (*Update, error) {
	var u Update

	err := row.Scan(&u.ID, &u.AuthorID, &u.Title, &u.Body, &u.Published, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUpdateNotFound
		}
		return nil, err
	}

	return &u, nil
}

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event

	err := row.Scan(&e.ID, &e.AuthorID, &e.Title, &e.Body, &e.Location, &e.StartsAt, &e.Published, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	return &e, nil
}

const reportColumns = "id, category, description, gender, location, perpetrator_details, anonymous, contact_phone, contact_email, evidence_url, status, created_at, updated_at"

// Incident reports

func (r *PgRepository) CreateReport(ctx context.Context, rep IncidentReport) (*IncidentReport, error) {
	id := rep.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO incident_reports (id, category, description, gender, location, perpetrator_details, anonymous, contact_phone, contact_email, evidence_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING `+reportColumns+`
	`, id, rep.Category, rep.Description, rep.Gender, rep.Location, rep.PerpetratorDetails,
		rep.Anonymous, rep.ContactPhone, rep.ContactEmail, rep.EvidenceURL, rep.Status)

	return scanReport(row)
}

func (r *PgRepository) ListReports(ctx context.Context) ([]IncidentReport, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM incident_reports
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []IncidentReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rep)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetReportByID(ctx context.Context, id uuid.UUID) (*IncidentReport, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM incident_reports
		WHERE id = $1
	`, id)
	return scanReport(row)
}

func (r *PgRepository) UpdateReport(ctx context.Context, rep IncidentReport) (*IncidentReport, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE incident_reports
		SET category = $2,
		    description = $3,
		    gender = $4,
		    location = $5,
		    perpetrator_details = $6,
		    anonymous = $7,
		    contact_phone = $8,
		    contact_email = $9,
		    evidence_url = $10,
		    status = $11,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+reportColumns+`
	`, rep.ID, rep.Category, rep.Description, rep.Gender, rep.Location, rep.PerpetratorDetails,
		rep.Anonymous, rep.ContactPhone, rep.ContactEmail, rep.EvidenceURL, rep.Status)

	return scanReport(row)
}

func (r *PgRepository) CountReports(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM incident_reports`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Contact messages

func (r *PgRepository) CreateContactMessage(ctx context.Context, m ContactMessage) (*ContactMessage, error) {
	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, body, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, false, now())
		RETURNING id, name, email, subject, body, resolved, created_at
	`, id, m.Name, m.Email, m.Subject, m.Body)

	return scanContactMessage(row)
}

func (r *PgRepository) ListContactMessages(ctx context.Context) ([]ContactMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, subject, body, resolved, created_at
		FROM contact_messages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ContactMessage
	for rows.Next() {
		m, err := scanContactMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Support messages

func (r *PgRepository) CreateSupportMessage(ctx context.Context, m SupportMessage) (*SupportMessage, error) {
	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO support_messages (id, author_id, title, body, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, author_id, title, body, published, created_at, updated_at
	`, id, m.AuthorID, m.Title, m.Body, m.Published)

	return scanSupportMessage(row)
}

func (r *PgRepository) ListSupportMessages(ctx context.Context, publishedOnly bool) ([]SupportMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, author_id, title, body, published, created_at, updated_at
		FROM support_messages
		WHERE NOT $1 OR published
		ORDER BY created_at DESC
	`, publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SupportMessage
	for rows.Next() {
		m, err := scanSupportMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Updates

func (r *PgRepository) CreateUpdate(ctx context.Context, u Update) (*Update, error) {
	id := u.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO updates (id, author_id, title, body, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, author_id, title, body, published, created_at, updated_at
	`, id, u.AuthorID, u.Title, u.Body, u.Published)

	return scanUpdate(row)
}

func (r *PgRepository) ListUpdates(ctx context.Context, publishedOnly bool) ([]Update, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, author_id, title, body, published, created_at, updated_at
		FROM updates
		WHERE NOT $1 OR published
		ORDER BY created_at DESC
	`, publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Update
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdateUpdate(ctx context.Context, u Update) (*Update, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE updates
		SET title = $2,
		    body = $3,
		    published = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, author_id, title, body, published, created_at, updated_at
	`, u.ID, u.Title, u.Body, u.Published)

	return scanUpdate(row)
}

func (r *PgRepository) DeleteUpdate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM updates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUpdateNotFound
	}
	return nil
}

func (r *PgRepository) GetUpdateByID(ctx context.Context, id uuid.UUID) (*Update, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, author_id, title, body, published, created_at, updated_at
		FROM updates
		WHERE id = $1
	`, id)
	return scanUpdate(row)
}

// Events

func (r *PgRepository) CreateEvent(ctx context.Context, e Event) (*Event, error) {
	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (id, author_id, title, body, location, starts_at, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, author_id, title, body, location, starts_at, published, created_at, updated_at
	`, id, e.AuthorID, e.Title, e.Body, e.Location, e.StartsAt, e.Published)

	return scanEvent(row)
}

func (r *PgRepository) ListEvents(ctx context.Context, publishedOnly bool) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, author_id, title, body, location, starts_at, published, created_at, updated_at
		FROM events
		WHERE NOT $1 OR published
		ORDER BY starts_at ASC
	`, publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) UpdateEvent(ctx context.Context, e Event) (*Event, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE events
		SET title = $2,
		    body = $3,
		    location = $4,
		    starts_at = $5,
		    published = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, author_id, title, body, location, starts_at, published, created_at, updated_at
	`, e.ID, e.Title, e.Body, e.Location, e.StartsAt, e.Published)

	return scanEvent(row)
}

func (r *PgRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *PgRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, author_id, title, body, location, starts_at, published, created_at, updated_at
		FROM events
		WHERE id = $1
	`, id)
	return scanEvent(row)
}
