package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amani-care/report-backend/internal/auth"
	"github.com/amani-care/report-backend/internal/schedule"
)

// claimBookingHandler is the public claim endpoint. Anonymous callers must
// supply a client email; authenticated callers are attached as the client.
func claimBookingHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		psychologistID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_psychologist_id", "userID must be a valid UUID")
			return
		}

		var req ClaimBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		claim := schedule.ClaimRequest{
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			ClientEmail: req.ClientEmail,
			ClientPhone: req.ClientPhone,
			Notes:       req.Notes,
		}
		if user := CurrentUser(r.Context()); user != nil {
			claim.ClientID = &user.ID
			if claim.ClientEmail == "" {
				claim.ClientEmail = user.Email
			}
		}

		booking, err := svc.Claim(r.Context(), psychologistID, claim)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBookingResponse(*booking))
	}
}

func listBookingsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		bookings, err := svc.ListBookings(r.Context(), user.ID)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponses(bookings))
	}
}

func pastBookingsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		bookings, err := svc.PastBookings(r.Context(), user.ID)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponses(bookings))
	}
}

func upcomingBookingsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		bookings, err := svc.UpcomingBookings(r.Context(), user.ID)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponses(bookings))
	}
}

func getBookingHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, ok := ownedBooking(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(*booking))
	}
}

func patchBookingHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, ok := ownedBooking(w, r, svc)
		if !ok {
			return
		}

		var req PatchBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		email := booking.ClientEmail
		phone := booking.ClientPhone
		notes := booking.Notes
		if req.ClientEmail != nil {
			email = *req.ClientEmail
		}
		if req.ClientPhone != nil {
			phone = *req.ClientPhone
		}
		if req.Notes != nil {
			notes = *req.Notes
		}

		updated, err := svc.UpdateBookingContact(r.Context(), booking.ID, email, phone, notes)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(*updated))
	}
}

func deleteBookingHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, ok := ownedBooking(w, r, svc)
		if !ok {
			return
		}

		if err := svc.DeleteBooking(r.Context(), booking.ID); err != nil {
			handleScheduleError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ownedBooking(w http.ResponseWriter, r *http.Request, svc *schedule.Service) (*schedule.Booking, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
		return nil, false
	}

	booking, err := svc.GetBooking(r.Context(), id)
	if err != nil {
		handleScheduleError(w, err)
		return nil, false
	}

	user := CurrentUser(r.Context())
	if user.Role != auth.RoleAdmin && booking.PsychologistID != user.ID {
		writeError(w, http.StatusForbidden, "forbidden", "booking belongs to another psychologist")
		return nil, false
	}

	return booking, true
}
