package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/amani-care/report-backend/internal/report"
	"github.com/amani-care/report-backend/internal/schedule"
)

// Auth

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

// Reports

type CreateReportRequest struct {
	Category           string `json:"category"`
	Description        string `json:"description"`
	Gender             string `json:"gender,omitempty"`
	Location           string `json:"location,omitempty"`
	PerpetratorDetails string `json:"perpetrator_details,omitempty"`
	Anonymous          bool   `json:"anonymous"`
	ContactPhone       string `json:"contact_phone,omitempty"`
	ContactEmail       string `json:"contact_email,omitempty"`
	EvidenceURL        string `json:"evidence_url,omitempty"`
}

type PatchReportRequest struct {
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
}

type ReportResponse struct {
	ID                 uuid.UUID `json:"id"`
	Category           string    `json:"category"`
	Description        string    `json:"description"`
	Gender             string    `json:"gender,omitempty"`
	Location           string    `json:"location,omitempty"`
	PerpetratorDetails string    `json:"perpetrator_details,omitempty"`
	Anonymous          bool      `json:"anonymous"`
	ContactPhone       string    `json:"contact_phone,omitempty"`
	ContactEmail       string    `json:"contact_email,omitempty"`
	EvidenceURL        string    `json:"evidence_url,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toReportResponse(r report.IncidentReport) ReportResponse {
	return ReportResponse{
		ID:                 r.ID,
		Category:           r.Category,
		Description:        r.Description,
		Gender:             r.Gender,
		Location:           r.Location,
		PerpetratorDetails: r.PerpetratorDetails,
		Anonymous:          r.Anonymous,
		ContactPhone:       r.ContactPhone,
		ContactEmail:       r.ContactEmail,
		EvidenceURL:        r.EvidenceURL,
		Status:             string(r.Status),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ContactRequest struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

type PostRequest struct {
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Location  string     `json:"location,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	Published bool       `json:"published"`
}

type PostPatchRequest struct {
	Title     *string `json:"title,omitempty"`
	Body      *string `json:"body,omitempty"`
	Location  *string `json:"location,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

type ContactMessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"created_at"`
}

func toContactResponse(m report.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Body:      m.Body,
		Resolved:  m.Resolved,
		CreatedAt: m.CreatedAt,
	}
}

// PostResponse is shared by support messages, updates and events.
type PostResponse struct {
	ID        uuid.UUID  `json:"id"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Location  string     `json:"location,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	Published bool       `json:"published"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toSupportResponse(m report.SupportMessage) PostResponse {
	return PostResponse{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Title:     m.Title,
		Body:      m.Body,
		Published: m.Published,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toUpdateResponse(u report.Update) PostResponse {
	return PostResponse{
		ID:        u.ID,
		AuthorID:  u.AuthorID,
		Title:     u.Title,
		Body:      u.Body,
		Published: u.Published,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toEventResponse(e report.Event) PostResponse {
	starts := e.StartsAt
	return PostResponse{
		ID:        e.ID,
		AuthorID:  e.AuthorID,
		Title:     e.Title,
		Body:      e.Body,
		Location:  e.Location,
		StartsAt:  &starts,
		Published: e.Published,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// Availability

type SlotRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

type BulkSlotsRequest struct {
	Slots []SlotRequest `json:"slots"`
}

type BulkSlotsResponse struct {
	Inserted int `json:"inserted"`
}

type SlotResponse struct {
	ID             uuid.UUID `json:"id"`
	PsychologistID uuid.UUID `json:"psychologist_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
}

func toSlotResponse(s schedule.AvailabilitySlot) SlotResponse {
	return SlotResponse{
		ID:             s.ID,
		PsychologistID: s.PsychologistID,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		Status:         string(s.Status),
	}
}

func toSlotResponses(slots []schedule.AvailabilitySlot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	return out
}

// Bookings

type ClaimBookingRequest struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	ClientEmail string    `json:"client_email,omitempty"`
	ClientPhone string    `json:"client_phone,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

type PatchBookingRequest struct {
	ClientEmail *string `json:"client_email,omitempty"`
	ClientPhone *string `json:"client_phone,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type BookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	PsychologistID  uuid.UUID  `json:"psychologist_id"`
	ClientID        *uuid.UUID `json:"client_id,omitempty"`
	ClientEmail     string     `json:"client_email,omitempty"`
	ClientPhone     string     `json:"client_phone,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	Notes           string     `json:"notes,omitempty"`
	MeetLink        string     `json:"meet_link,omitempty"`
	CalendarEventID string     `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toBookingResponse(b schedule.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		PsychologistID:  b.PsychologistID,
		ClientID:        b.ClientID,
		ClientEmail:     b.ClientEmail,
		ClientPhone:     b.ClientPhone,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Notes:           b.Notes,
		MeetLink:        b.MeetLink,
		CalendarEventID: b.CalendarEventID,
		CreatedAt:       b.CreatedAt,
	}
}

func toBookingResponses(bookings []schedule.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

// Psychologists

type ProfileUpdateRequest struct {
	DisplayName         string   `json:"display_name"`
	Bio                 string   `json:"bio,omitempty"`
	Specializations     []string `json:"specializations,omitempty"`
	Languages           []string `json:"languages,omitempty"`
	ContactEmail        string   `json:"contact_email,omitempty"`
	ContactPhone        string   `json:"contact_phone,omitempty"`
	CalendarCredentials string   `json:"calendar_credentials,omitempty"`
}

type ProfileResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	Bio             string    `json:"bio,omitempty"`
	Specializations []string  `json:"specializations,omitempty"`
	Languages       []string  `json:"languages,omitempty"`
	ContactEmail    string    `json:"contact_email,omitempty"`
	ContactPhone    string    `json:"contact_phone,omitempty"`
	CalendarLinked  bool      `json:"calendar_linked"`
}

func toProfileResponse(p schedule.PsychologistProfile) ProfileResponse {
	return ProfileResponse{
		UserID:          p.UserID,
		DisplayName:     p.DisplayName,
		Bio:             p.Bio,
		Specializations: p.Specializations,
		Languages:       p.Languages,
		ContactEmail:    p.ContactEmail,
		ContactPhone:    p.ContactPhone,
		CalendarLinked:  len(p.CalendarCredentials) > 0,
	}
}

type PsychologistDetailResponse struct {
	Profile      ProfileResponse `json:"profile"`
	Availability []SlotResponse  `json:"availability"`
}

// Proxies

type InstructionsRequest struct {
	Category string `json:"category"`
}

type InstructionsResponse struct {
	Category     string `json:"category"`
	Instructions string `json:"instructions"`
}
