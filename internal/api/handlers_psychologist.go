package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amani-care/report-backend/internal/schedule"
)

func listPsychologistsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := svc.ListPsychologists(r.Context())
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		out := make([]ProfileResponse, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, toProfileResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// psychologistDetailHandler serves the public detail view. The availability
// it returns has been reconciled against the booking table.
func psychologistDetailHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_psychologist_id", "userID must be a valid UUID")
			return
		}

		detail, err := svc.Detail(r.Context(), userID)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, PsychologistDetailResponse{
			Profile:      toProfileResponse(detail.Profile),
			Availability: toSlotResponses(detail.Availability),
		})
	}
}

// myProfileHandler returns the caller's profile, creating it on first access.
func myProfileHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		profile, err := svc.EnsureProfile(r.Context(), user.ID)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(*profile))
	}
}

func updateMyProfileHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		var req ProfileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), schedule.PsychologistProfile{
			UserID:              user.ID,
			DisplayName:         req.DisplayName,
			Bio:                 req.Bio,
			Specializations:     req.Specializations,
			Languages:           req.Languages,
			ContactEmail:        req.ContactEmail,
			ContactPhone:        req.ContactPhone,
			CalendarCredentials: []byte(req.CalendarCredentials),
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(*updated))
	}
}
