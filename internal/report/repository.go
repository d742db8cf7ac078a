package report

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrReportNotFound  = errors.New("incident report not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrUpdateNotFound  = errors.New("update not found")
	ErrEventNotFound   = errors.New("event not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	CreateReport(ctx context.Context, r IncidentReport) (*IncidentReport, error)
	ListReports(ctx context.Context) ([]IncidentReport, error)
	GetReportByID(ctx context.Context, id uuid.UUID) (*IncidentReport, error)
	UpdateReport(ctx context.Context, r IncidentReport) (*IncidentReport, error)
	CountReports(ctx context.Context) (int64, error)

	CreateContactMessage(ctx context.Context, m ContactMessage) (*ContactMessage, error)
	ListContactMessages(ctx context.Context) ([]ContactMessage, error)

	CreateSupportMessage(ctx context.Context, m SupportMessage) (*SupportMessage, error)
	ListSupportMessages(ctx context.Context, publishedOnly bool) ([]SupportMessage, error)

	CreateUpdate(ctx context.Context, u Update) (*Update, error)
	ListUpdates(ctx context.Context, publishedOnly bool) ([]Update, error)
	UpdateUpdate(ctx context.Context, u Update) (*Update, error)
	DeleteUpdate(ctx context.Context, id uuid.UUID) error
	GetUpdateByID(ctx context.Context, id uuid.UUID) (*Update, error)

	CreateEvent(ctx context.Context, e Event) (*Event, error)
	ListEvents(ctx context.Context, publishedOnly bool) ([]Event, error)
	UpdateEvent(ctx context.Context, e Event) (*Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
}
