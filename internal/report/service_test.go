package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeReportRepository struct {
	reports  map[uuid.UUID]IncidentReport
	contacts []ContactMessage
	support  []SupportMessage
	updates  map[uuid.UUID]Update
	events   map[uuid.UUID]Event
}

func newFakeReportRepository() *fakeReportRepository {
	return &fakeReportRepository{
		reports: make(map[uuid.UUID]IncidentReport),
		updates: make(map[uuid.UUID]Update),
		events:  make(map[uuid.UUID]Event),
	}
}

func (f *fakeReportRepository) CreateReport(ctx context.Context, r IncidentReport) (*IncidentReport, error) {
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()
	f.reports[r.ID] = r
	return &r, nil
}

func (f *fakeReportRepository) ListReports(ctx context.Context) ([]IncidentReport, error) {
	out := make([]IncidentReport, 0, len(f.reports))
	for _, r := range f.reports {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReportRepository) GetReportByID(ctx context.Context, id uuid.UUID) (*IncidentReport, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	return &r, nil
}

func (f *fakeReportRepository) UpdateReport(ctx context.Context, r IncidentReport) (*IncidentReport, error) {
	if _, ok := f.reports[r.ID]; !ok {
		return nil, ErrReportNotFound
	}
	f.reports[r.ID] = r
	return &r, nil
}

func (f *fakeReportRepository) CountReports(ctx context.Context) (int64, error) {
	return int64(len(f.reports)), nil
}

func (f *fakeReportRepository) CreateContactMessage(ctx context.Context, m ContactMessage) (*ContactMessage, error) {
	m.ID = uuid.New()
	f.contacts = append(f.contacts, m)
	return &m, nil
}

func (f *fakeReportRepository) ListContactMessages(ctx context.Context) ([]ContactMessage, error) {
	return f.contacts, nil
}

func (f *fakeReportRepository) CreateSupportMessage(ctx context.Context, m SupportMessage) (*SupportMessage, error) {
	m.ID = uuid.New()
	f.support = append(f.support, m)
	return &m, nil
}

func (f *fakeReportRepository) ListSupportMessages(ctx context.Context, publishedOnly bool) ([]SupportMessage, error) {
	var out []SupportMessage
	for _, m := range f.support {
		if publishedOnly && !m.Published {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeReportRepository) CreateUpdate(ctx context.Context, u Update) (*Update, error) {
	u.ID = uuid.New()
	f.updates[u.ID] = u
	return &u, nil
}

func (f *fakeReportRepository) ListUpdates(ctx context.Context, publishedOnly bool) ([]Update, error) {
	var out []Update
	for _, u := range f.updates {
		if publishedOnly && !u.Published {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeReportRepository) UpdateUpdate(ctx context.Context, u Update) (*Update, error) {
	if _, ok := f.updates[u.ID]; !ok {
		return nil, ErrUpdateNotFound
	}
	f.updates[u.ID] = u
	return &u, nil
}

func (f *fakeReportRepository) DeleteUpdate(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.updates[id]; !ok {
		return ErrUpdateNotFound
	}
	delete(f.updates, id)
	return nil
}

func (f *fakeReportRepository) GetUpdateByID(ctx context.Context, id uuid.UUID) (*Update, error) {
	u, ok := f.updates[id]
	if !ok {
		return nil, ErrUpdateNotFound
	}
	return &u, nil
}

func (f *fakeReportRepository) CreateEvent(ctx context.Context, e Event) (*Event, error) {
	e.ID = uuid.New()
	f.events[e.ID] = e
	return &e, nil
}

func (f *fakeReportRepository) ListEvents(ctx context.Context, publishedOnly bool) ([]Event, error) {
	var out []Event
	for _, e := range f.events {
		if publishedOnly && !e.Published {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeReportRepository) UpdateEvent(ctx context.Context, e Event) (*Event, error) {
	if _, ok := f.events[e.ID]; !ok {
		return nil, ErrEventNotFound
	}
	f.events[e.ID] = e
	return &e, nil
}

func (f *fakeReportRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeReportRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return &e, nil
}

func newTestReportService() (*Service, *fakeReportRepository) {
	repo := newFakeReportRepository()
	return NewService(repo, zap.NewNop()), repo
}

func TestSubmitReportDefaultsToNew(t *testing.T) {
	svc, _ := newTestReportService()

	created, err := svc.SubmitReport(context.Background(), ReportInput{
		Category:    "Stalking",
		Description: "Repeated following after work hours.",
		Anonymous:   true,
	})
	if err != nil {
		t.Fatalf("submit report: %v", err)
	}
	if created.Status != ReportNew {
		t.Fatalf("expected status new, got %q", created.Status)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected assigned ID")
	}
}

func TestSubmitReportRejectsUnknownCategory(t *testing.T) {
	svc, _ := newTestReportService()

	_, err := svc.SubmitReport(context.Background(), ReportInput{
		Category:    "Jaywalking",
		Description: "does not matter",
	})
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}
}

func TestSubmitReportRequiresDescription(t *testing.T) {
	svc, _ := newTestReportService()

	_, err := svc.SubmitReport(context.Background(), ReportInput{
		Category:    "Other",
		Description: "   ",
	})
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}
}

func TestPatchReportPartialUpdate(t *testing.T) {
	svc, _ := newTestReportService()

	created, err := svc.SubmitReport(context.Background(), ReportInput{
		Category:    "Verbal Abuse",
		Description: "original description",
		Location:    "Nairobi",
	})
	if err != nil {
		t.Fatalf("submit report: %v", err)
	}

	status := ReportReviewing
	patched, err := svc.PatchReport(context.Background(), created.ID, ReportPatch{Status: &status})
	if err != nil {
		t.Fatalf("patch report: %v", err)
	}
	if patched.Status != ReportReviewing {
		t.Fatalf("expected status reviewing, got %q", patched.Status)
	}
	if patched.Description != "original description" || patched.Location != "Nairobi" {
		t.Fatalf("nil patch fields must keep stored values, got %+v", patched)
	}
}

func TestPatchReportRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestReportService()

	created, err := svc.SubmitReport(context.Background(), ReportInput{
		Category:    "Other",
		Description: "something happened",
	})
	if err != nil {
		t.Fatalf("submit report: %v", err)
	}

	bad := ReportStatus("archived")
	_, err = svc.PatchReport(context.Background(), created.ID, ReportPatch{Status: &bad})
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}
}

func TestPatchReportNotFound(t *testing.T) {
	svc, _ := newTestReportService()

	_, err := svc.PatchReport(context.Background(), uuid.New(), ReportPatch{})
	if !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestSubmitContactMessageValidation(t *testing.T) {
	svc, _ := newTestReportService()

	_, err := svc.SubmitContactMessage(context.Background(), ContactMessage{Body: "hello"})
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport for missing email, got %v", err)
	}

	_, err = svc.SubmitContactMessage(context.Background(), ContactMessage{Email: "a@b.org"})
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport for missing body, got %v", err)
	}

	if _, err := svc.SubmitContactMessage(context.Background(), ContactMessage{
		Email: "a@b.org",
		Body:  "please call back",
	}); err != nil {
		t.Fatalf("submit contact: %v", err)
	}
}

func TestListUpdatesPublishedFilter(t *testing.T) {
	svc, _ := newTestReportService()

	if _, err := svc.CreateUpdate(context.Background(), Update{Title: "visible", Published: true}); err != nil {
		t.Fatalf("create update: %v", err)
	}
	if _, err := svc.CreateUpdate(context.Background(), Update{Title: "draft"}); err != nil {
		t.Fatalf("create update: %v", err)
	}

	public, err := svc.ListUpdates(context.Background(), true)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(public) != 1 || public[0].Title != "visible" {
		t.Fatalf("expected only the published update, got %v", public)
	}

	all, err := svc.ListUpdates(context.Background(), false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both updates, got %d", len(all))
	}
}

func TestCreateEventRequiresStart(t *testing.T) {
	svc, _ := newTestReportService()

	_, err := svc.CreateEvent(context.Background(), Event{Title: "Workshop"})
	if !errors.Is(err, ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}

	if _, err := svc.CreateEvent(context.Background(), Event{
		Title:    "Workshop",
		StartsAt: time.Now().UTC().AddDate(0, 0, 7),
	}); err != nil {
		t.Fatalf("create event: %v", err)
	}
}
