package calendarapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amani-care/report-backend/internal/schedule"
)

// Client creates events on the psychologist's linked external calendar.
// Credentials are the opaque token blob stored on the profile.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type eventRequest struct {
	Summary    string     `json:"summary"`
	Start      eventTime  `json:"start"`
	End        eventTime  `json:"end"`
	Attendees  []attendee `json:"attendees,omitempty"`
	Conference confParams `json:"conferenceData"`
}

type eventTime struct {
	DateTime string `json:"dateTime"`
}

type attendee struct {
	Email string `json:"email"`
}

type confParams struct {
	CreateRequest confCreateRequest `json:"createRequest"`
}

type confCreateRequest struct {
	RequestID string `json:"requestId"`
}

type eventResponse struct {
	ID          string `json:"id"`
	HangoutLink string `json:"hangoutLink"`
}

func (c *Client) CreateEvent(ctx context.Context, credentials []byte, req schedule.CalendarEventRequest) (*schedule.CalendarEvent, error) {
	body := eventRequest{
		Summary: req.Summary,
		Start:   eventTime{DateTime: req.StartTime.UTC().Format(time.RFC3339)},
		End:     eventTime{DateTime: req.EndTime.UTC().Format(time.RFC3339)},
		Conference: confParams{
			CreateRequest: confCreateRequest{RequestID: fmt.Sprintf("amani-%d", req.StartTime.Unix())},
		},
	}
	if req.AttendeeEmail != "" {
		body.Attendees = []attendee{{Email: req.AttendeeEmail}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	url := c.baseURL + "/calendars/primary/events?conferenceDataVersion=1"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build event request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+string(credentials))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calendar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("calendar API status %d: %s", resp.StatusCode, snippet)
	}

	var out eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode event response: %w", err)
	}

	return &schedule.CalendarEvent{
		EventID:  out.ID,
		MeetLink: out.HangoutLink,
	}, nil
}

var _ schedule.CalendarClient = (*Client)(nil)
