package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amani-care/report-backend/internal/auth"
	"github.com/amani-care/report-backend/internal/schedule"
)

func listAvailabilitiesHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		slots, err := svc.ListSlots(r.Context(), user.ID)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSlotResponses(slots))
	}
}

func createAvailabilityHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		var req SlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		created, err := svc.CreateSlot(r.Context(), user.ID, schedule.SlotInput{
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Status:    schedule.SlotStatus(req.Status),
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSlotResponse(*created))
	}
}

func bulkReplaceAvailabilitiesHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		var req BulkSlotsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		inputs := make([]schedule.SlotInput, 0, len(req.Slots))
		for _, s := range req.Slots {
			inputs = append(inputs, schedule.SlotInput{
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				Status:    schedule.SlotStatus(s.Status),
			})
		}

		inserted, err := svc.ReplaceAll(r.Context(), user.ID, inputs)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, BulkSlotsResponse{Inserted: inserted})
	}
}

func getAvailabilityHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, ok := ownedSlot(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toSlotResponse(*slot))
	}
}

func patchAvailabilityHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, ok := ownedSlot(w, r, svc)
		if !ok {
			return
		}

		var req SlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		// Unspecified fields keep the stored value.
		if req.StartTime.IsZero() {
			req.StartTime = slot.StartTime
		}
		if req.EndTime.IsZero() {
			req.EndTime = slot.EndTime
		}
		if req.Status == "" {
			req.Status = string(slot.Status)
		}

		updated, err := svc.UpdateSlot(r.Context(), slot.ID, schedule.SlotInput{
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Status:    schedule.SlotStatus(req.Status),
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSlotResponse(*updated))
	}
}

func deleteAvailabilityHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, ok := ownedSlot(w, r, svc)
		if !ok {
			return
		}

		if err := svc.DeleteSlot(r.Context(), slot.ID); err != nil {
			handleScheduleError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ownedSlot loads the {id} slot and enforces that the caller owns it
// (admins can touch any slot).
func ownedSlot(w http.ResponseWriter, r *http.Request, svc *schedule.Service) (*schedule.AvailabilitySlot, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_slot_id", "id must be a valid UUID")
		return nil, false
	}

	slot, err := svc.GetSlot(r.Context(), id)
	if err != nil {
		handleScheduleError(w, err)
		return nil, false
	}

	user := CurrentUser(r.Context())
	if user.Role != auth.RoleAdmin && slot.PsychologistID != user.ID {
		writeError(w, http.StatusForbidden, "forbidden", "slot belongs to another psychologist")
		return nil, false
	}

	return slot, true
}

func handleScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidSlotInput):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, schedule.ErrMissingContactInfo):
		writeError(w, http.StatusBadRequest, "missing_contact_info", err.Error())
	case errors.Is(err, schedule.ErrSlotNotAvailable):
		writeError(w, http.StatusBadRequest, "slot_not_available", err.Error())
	case errors.Is(err, schedule.ErrSlotAlreadyBooked):
		writeError(w, http.StatusBadRequest, "slot_already_booked", err.Error())
	case errors.Is(err, schedule.ErrSlotBeingClaimed):
		writeError(w, http.StatusConflict, "slot_being_claimed", "slot is currently being claimed, please retry shortly")
	case errors.Is(err, schedule.ErrDuplicateSlot):
		writeError(w, http.StatusBadRequest, "duplicate_slot", err.Error())
	case errors.Is(err, schedule.ErrSlotNotFound),
		errors.Is(err, schedule.ErrBookingNotFound),
		errors.Is(err, schedule.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
