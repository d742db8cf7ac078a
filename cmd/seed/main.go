package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amani-care/report-backend/internal/auth"
	"github.com/amani-care/report-backend/internal/db"
	"github.com/amani-care/report-backend/internal/report"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	// All seeded accounts share one hash so login works with a known password.
	passwordHash, err := auth.HashPassword(getEnv("SEED_PASSWORD", "changeme123"))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	adminID, err := seedAdmin(context.Background(), pool, passwordHash)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	psychIDs, err := seedPsychologists(context.Background(), pool, passwordHash, 12)
	if err != nil {
		log.Fatalf("seed psychologists: %v", err)
	}
	if err := seedAvailability(context.Background(), pool, psychIDs); err != nil {
		log.Fatalf("seed availability: %v", err)
	}
	if err := seedReports(context.Background(), pool, 40); err != nil {
		log.Fatalf("seed reports: %v", err)
	}
	if err := seedContent(context.Background(), pool, adminID); err != nil {
		log.Fatalf("seed content: %v", err)
	}

	log.Println("seed complete")
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, passwordHash string) (uuid.UUID, error) {
	id := uuid.New()
	email := getEnv("SEED_ADMIN_EMAIL", "admin@amani-care.org")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, id, email, "Amani Admin", auth.RoleAdmin, passwordHash)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_auth_details (user_id, last_login, token_created_at, account_status, failed_login_attempts)
		VALUES ($1, NULL, NULL, $2, 0)
	`, id, auth.StatusActive)
	if err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, err
	}

	log.Printf("admin seeded: %s", email)
	return id, nil
}

func seedPsychologists(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d psychologists", count)

	specializations := []string{
		"Trauma Counseling",
		"Cognitive Behavioral Therapy",
		"Family Therapy",
		"Grief Counseling",
		"Child Psychology",
		"Crisis Intervention",
	}
	languages := []string{"English", "Swahili", "French", "Arabic"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		email := gofakeit.Email()

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, name, role, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, email, name, auth.RolePsychologist, passwordHash)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_auth_details (user_id, last_login, token_created_at, account_status, failed_login_attempts)
			VALUES ($1, NULL, NULL, $2, 0)
		`, id, auth.StatusActive)
		if err != nil {
			return nil, err
		}

		spec := specializations[gofakeit.Number(0, len(specializations)-1)]
		lang := languages[gofakeit.Number(0, len(languages)-1)]

		_, err = tx.Exec(ctx, `
			INSERT INTO psychologist_profiles (user_id, display_name, bio, specializations, languages, contact_email, contact_phone, calendar_credentials, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, now(), now())
		`, id, name, gofakeit.Paragraph(1, 3, 12, " "), []string{spec}, []string{lang}, email, gofakeit.Phone())
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("psychologists seeded")
	return ids, nil
}

// seedAvailability lays out a week of hourly slots per psychologist,
// business hours only.
func seedAvailability(ctx context.Context, pool *pgxpool.Pool, psychIDs []uuid.UUID) error {
	log.Printf("seeding availability for %d psychologists", len(psychIDs))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	dayStart := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	for _, psychID := range psychIDs {
		for day := 0; day < 7; day++ {
			for hour := 9; hour < 17; hour++ {
				start := dayStart.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
				end := start.Add(time.Hour)

				_, err := tx.Exec(ctx, `
					INSERT INTO availability_slots (id, psychologist_id, start_time, end_time, status, created_at, updated_at)
					VALUES ($1, $2, $3, $4, 'available', now(), now())
				`, uuid.New(), psychID, start, end)
				if err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("availability seeded")
	return nil
}

func seedReports(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d incident reports", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	statuses := []report.ReportStatus{report.ReportNew, report.ReportReviewing, report.ReportResolved}

	for i := 0; i < count; i++ {
		anonymous := gofakeit.Bool()
		phone := ""
		email := ""
		if !anonymous {
			phone = gofakeit.Phone()
			email = gofakeit.Email()
		}

		category := report.Categories[gofakeit.Number(0, len(report.Categories)-1)]
		status := statuses[gofakeit.Number(0, len(statuses)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO incident_reports (id, category, description, gender, location, perpetrator_details, anonymous, contact_phone, contact_email, evidence_url, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '', $10, now(), now())
		`, uuid.New(), category, gofakeit.Paragraph(1, 4, 10, " "), gofakeit.Gender(),
			gofakeit.City(), gofakeit.Sentence(8), anonymous, phone, email, status)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("incident reports seeded")
	return nil
}

func seedContent(ctx context.Context, pool *pgxpool.Pool, adminID uuid.UUID) error {
	log.Println("seeding support messages, updates and events")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < 5; i++ {
		_, err := tx.Exec(ctx, `
			INSERT INTO support_messages (id, author_id, title, body, published, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, now(), now())
		`, uuid.New(), adminID, gofakeit.Sentence(5), gofakeit.Paragraph(1, 3, 10, " "))
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO updates (id, author_id, title, body, published, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, now(), now())
		`, uuid.New(), adminID, gofakeit.Sentence(5), gofakeit.Paragraph(1, 3, 10, " "))
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO events (id, author_id, title, body, location, starts_at, published, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
		`, uuid.New(), adminID, gofakeit.Sentence(4), gofakeit.Paragraph(1, 2, 10, " "),
			gofakeit.City(), time.Now().UTC().AddDate(0, 0, gofakeit.Number(1, 30)))
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("content seeded")
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
