package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidReport = errors.New("invalid report input")

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

type ReportInput struct {
	Category           string
	Description        string
	Gender             string
	Location           string
	PerpetratorDetails string
	Anonymous          bool
	ContactPhone       string
	ContactEmail       string
	EvidenceURL        string
}

// SubmitReport accepts an anonymous or identified incident report.
func (s *Service) SubmitReport(ctx context.Context, in ReportInput) (*IncidentReport, error) {
	if strings.TrimSpace(in.Category) == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidReport)
	}
	if !ValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidReport, in.Category)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidReport)
	}

	created, err := s.repo.CreateReport(ctx, IncidentReport{
		Category:           in.Category,
		Description:        in.Description,
		Gender:             in.Gender,
		Location:           in.Location,
		PerpetratorDetails: in.PerpetratorDetails,
		Anonymous:          in.Anonymous,
		ContactPhone:       in.ContactPhone,
		ContactEmail:       in.ContactEmail,
		EvidenceURL:        in.EvidenceURL,
		Status:             ReportNew,
	})
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.log.Info("incident report submitted",
		zap.String("report_id", created.ID.String()),
		zap.String("category", created.Category),
		zap.Bool("anonymous", created.Anonymous))

	return created, nil
}

func (s *Service) ListReports(ctx context.Context) ([]IncidentReport, error) {
	return s.repo.ListReports(ctx)
}

func (s *Service) CountReports(ctx context.Context) (int64, error) {
	return s.repo.CountReports(ctx)
}

// PatchReport applies a partial update; nil fields keep their stored value.
type ReportPatch struct {
	Status      *ReportStatus
	Description *string
	Location    *string
}

func (s *Service) PatchReport(ctx context.Context, id uuid.UUID, patch ReportPatch) (*IncidentReport, error) {
	existing, err := s.repo.GetReportByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		switch *patch.Status {
		case ReportNew, ReportReviewing, ReportResolved:
			existing.Status = *patch.Status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidReport, *patch.Status)
		}
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Location != nil {
		existing.Location = *patch.Location
	}

	return s.repo.UpdateReport(ctx, *existing)
}

// Contact

func (s *Service) SubmitContactMessage(ctx context.Context, m ContactMessage) (*ContactMessage, error) {
	if strings.TrimSpace(m.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidReport)
	}
	if strings.TrimSpace(m.Body) == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrInvalidReport)
	}
	return s.repo.CreateContactMessage(ctx, m)
}

func (s *Service) ListContactMessages(ctx context.Context) ([]ContactMessage, error) {
	return s.repo.ListContactMessages(ctx)
}

// Support messages

func (s *Service) CreateSupportMessage(ctx context.Context, m SupportMessage) (*SupportMessage, error) {
	if strings.TrimSpace(m.Title) == "" || strings.TrimSpace(m.Body) == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrInvalidReport)
	}
	return s.repo.CreateSupportMessage(ctx, m)
}

func (s *Service) ListSupportMessages(ctx context.Context, publishedOnly bool) ([]SupportMessage, error) {
	return s.repo.ListSupportMessages(ctx, publishedOnly)
}

// Updates

func (s *Service) CreateUpdate(ctx context.Context, u Update) (*Update, error) {
	if strings.TrimSpace(u.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidReport)
	}
	return s.repo.CreateUpdate(ctx, u)
}

func (s *Service) ListUpdates(ctx context.Context, publishedOnly bool) ([]Update, error) {
	return s.repo.ListUpdates(ctx, publishedOnly)
}

func (s *Service) PatchUpdate(ctx context.Context, id uuid.UUID, title, body *string, published *bool) (*Update, error) {
	existing, err := s.repo.GetUpdateByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if title != nil {
		existing.Title = *title
	}
	if body != nil {
		existing.Body = *body
	}
	if published != nil {
		existing.Published = *published
	}
	return s.repo.UpdateUpdate(ctx, *existing)
}

func (s *Service) DeleteUpdate(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteUpdate(ctx, id)
}

// Events

func (s *Service) CreateEvent(ctx context.Context, e Event) (*Event, error) {
	if strings.TrimSpace(e.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidReport)
	}
	if e.StartsAt.IsZero() {
		return nil, fmt.Errorf("%w: starts_at is required", ErrInvalidReport)
	}
	return s.repo.CreateEvent(ctx, e)
}

func (s *Service) ListEvents(ctx context.Context, publishedOnly bool) ([]Event, error) {
	return s.repo.ListEvents(ctx, publishedOnly)
}

func (s *Service) PatchEvent(ctx context.Context, id uuid.UUID, title, body, location *string, published *bool) (*Event, error) {
	existing, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if title != nil {
		existing.Title = *title
	}
	if body != nil {
		existing.Body = *body
	}
	if location != nil {
		existing.Location = *location
	}
	if published != nil {
		existing.Published = *published
	}
	return s.repo.UpdateEvent(ctx, *existing)
}

func (s *Service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteEvent(ctx, id)
}
