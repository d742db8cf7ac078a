package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amani-care/report-backend/internal/report"
)

func submitReportHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		created, err := svc.SubmitReport(r.Context(), report.ReportInput{
			Category:           req.Category,
			Description:        req.Description,
			Gender:             req.Gender,
			Location:           req.Location,
			PerpetratorDetails: req.PerpetratorDetails,
			Anonymous:          req.Anonymous,
			ContactPhone:       req.ContactPhone,
			ContactEmail:       req.ContactEmail,
			EvidenceURL:        req.EvidenceURL,
		})
		if err != nil {
			handleReportError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReportResponse(*created))
	}
}

func listReportsHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := svc.ListReports(r.Context())
		if err != nil {
			handleReportError(w, err)
			return
		}

		out := make([]ReportResponse, 0, len(reports))
		for _, rep := range reports {
			out = append(out, toReportResponse(rep))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func countReportsHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := svc.CountReports(r.Context())
		if err != nil {
			handleReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, CountResponse{Count: count})
	}
}

func patchReportHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_report_id", "id must be a valid UUID")
			return
		}

		var req PatchReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patch := report.ReportPatch{
			Description: req.Description,
			Location:    req.Location,
		}
		if req.Status != nil {
			status := report.ReportStatus(*req.Status)
			patch.Status = &status
		}

		updated, err := svc.PatchReport(r.Context(), id, patch)
		if err != nil {
			handleReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReportResponse(*updated))
	}
}

func submitContactHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		created, err := svc.SubmitContactMessage(r.Context(), report.ContactMessage{
			Name:    req.Name,
			Email:   req.Email,
			Subject: req.Subject,
			Body:    req.Body,
		})
		if err != nil {
			handleReportError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toContactResponse(*created))
	}
}

func listContactHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := svc.ListContactMessages(r.Context())
		if err != nil {
			handleReportError(w, err)
			return
		}

		out := make([]ContactMessageResponse, 0, len(messages))
		for _, m := range messages {
			out = append(out, toContactResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listSupportHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publishedOnly := CurrentUser(r.Context()) == nil
		messages, err := svc.ListSupportMessages(r.Context(), publishedOnly)
		if err != nil {
			handleReportError(w, err)
			return
		}

		out := make([]PostResponse, 0, len(messages))
		for _, m := range messages {
			out = append(out, toSupportResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createSupportHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var authorID *uuid.UUID
		if user := CurrentUser(r.Context()); user != nil {
			authorID = &user.ID
		}

		created, err := svc.CreateSupportMessage(r.Context(), report.SupportMessage{
			AuthorID:  authorID,
			Title:     req.Title,
			Body:      req.Body,
			Published: req.Published,
		})
		if err != nil {
			handleReportError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSupportResponse(*created))
	}
}

func listUpdatesHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publishedOnly := CurrentUser(r.Context()) == nil
		updates, err := svc.ListUpdates(r.Context(), publishedOnly)
		if err != nil {
			handleReportError(w, err)
			return
		}

		out := make([]PostResponse, 0, len(updates))
		for _, u := range updates {
			out = append(out, toUpdateResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createUpdateHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var authorID *uuid.UUID
		if user := CurrentUser(r.Context()); user != nil {
			authorID = &user.ID
		}

		created, err := svc.CreateUpdate(r.Context(), report.Update{
			AuthorID:  authorID,
			Title:     req.Title,
			Body:      req.Body,
			Published: req.Published,
		})
		if err != nil {
			handleReportError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toUpdateResponse(*created))
	}
}

func patchUpdateHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_update_id", "id must be a valid UUID")
			return
		}

		var req PostPatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		updated, err := svc.PatchUpdate(r.Context(), id, req.Title, req.Body, req.Published)
		if err != nil {
			handleReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toUpdateResponse(*updated))
	}
}

func deleteUpdateHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_update_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeleteUpdate(r.Context(), id); err != nil {
			handleReportError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listEventsHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publishedOnly := CurrentUser(r.Context()) == nil
		events, err := svc.ListEvents(r.Context(), publishedOnly)
		if err != nil {
			handleReportError(w, err)
			return
		}

		out := make([]PostResponse, 0, len(events))
		for _, e := range events {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createEventHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var authorID *uuid.UUID
		if user := CurrentUser(r.Context()); user != nil {
			authorID = &user.ID
		}

		ev := report.Event{
			AuthorID:  authorID,
			Title:     req.Title,
			Body:      req.Body,
			Location:  req.Location,
			Published: req.Published,
		}
		if req.StartsAt != nil {
			ev.StartsAt = *req.StartsAt
		}

		created, err := svc.CreateEvent(r.Context(), ev)
		if err != nil {
			handleReportError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(*created))
	}
}

func patchEventHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_event_id", "id must be a valid UUID")
			return
		}

		var req PostPatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		updated, err := svc.PatchEvent(r.Context(), id, req.Title, req.Body, req.Location, req.Published)
		if err != nil {
			handleReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEventResponse(*updated))
	}
}

func deleteEventHandler(svc *report.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_event_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeleteEvent(r.Context(), id); err != nil {
			handleReportError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, report.ErrInvalidReport):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, report.ErrReportNotFound),
		errors.Is(err, report.ErrMessageNotFound),
		errors.Is(err, report.ErrUpdateNotFound),
		errors.Is(err, report.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
