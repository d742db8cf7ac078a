package report

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportNew       ReportStatus = "new"
	ReportReviewing ReportStatus = "reviewing"
	ReportResolved  ReportStatus = "resolved"
)

// Categories accepted on an incident report.
var Categories = []string{
	"Sexual Harassment",
	"Sexual Assault",
	"Domestic Violence",
	"Stalking",
	"Verbal Abuse",
	"Emotional Abuse",
	"Other",
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IncidentReport is submitted anonymously unless contact details are given.
type IncidentReport struct {
	ID                 uuid.UUID
	Category           string
	Description        string
	Gender             string
	Location           string
	PerpetratorDetails string
	Anonymous          bool
	ContactPhone       string
	ContactEmail       string
	EvidenceURL        string
	Status             ReportStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type ContactMessage struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Body      string
	Resolved  bool
	CreatedAt time.Time
}

// SupportMessage is an admin-authored reply shown on the support page.
type SupportMessage struct {
	ID        uuid.UUID
	AuthorID  *uuid.UUID
	Title     string
	Body      string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Update struct {
	ID        uuid.UUID
	AuthorID  *uuid.UUID
	Title     string
	Body      string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Event struct {
	ID        uuid.UUID
	AuthorID  *uuid.UUID
	Title     string
	Body      string
	Location  string
	StartsAt  time.Time
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
