package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"aula/internal/domain"
	"aula/internal/models"
)

type createBookingRequest struct {
	RoomID  string    `json:"room_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Purpose string    `json:"purpose"`
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var body createBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.RoomID) == "" {
		writeError(w, http.StatusBadRequest, "room_id is required")
		return
	}

	if s.state != nil && s.booking.CreateRateLimit > 0 {
		allowed, err := s.state.CheckRateLimit(r.Context(), "create:"+actor.ID, s.booking.CreateRateLimit, s.booking.RateWindow())
		if err == nil && !allowed {
			writeError(w, http.StatusTooManyRequests, "too many booking requests")
			return
		}
	}

	booking, err := s.bookings.CreateBooking(r.Context(), actor.ID, body.RoomID,
		models.Interval{Start: body.Start, End: body.End}, body.Purpose)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if booking.OwnerID != actor.ID && !actor.IsAdmin() {
		writeError(w, http.StatusForbidden, "operation not permitted")
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	if !actor.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	status := models.Status(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !status.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	bookings, err := s.bookings.ListAll(r.Context(), status)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleListMyBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	bookings, err := s.bookings.ListForOwner(r.Context(), actor.ID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.bookings.Approve)
}

func (s *HTTPServer) handleReject(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.bookings.Reject)
}

func (s *HTTPServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.bookings.Cancel)
}

func (s *HTTPServer) handleTransition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id string, actor models.Actor) (*models.Booking, error),
) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	booking, err := op(r.Context(), r.PathValue("id"), actor)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": s.rooms.GetActiveRooms()})
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")

	from, err := time.Parse(time.RFC3339, strings.TrimSpace(r.URL.Query().Get("from")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from; expected RFC3339")
		return
	}
	to, err := time.Parse(time.RFC3339, strings.TrimSpace(r.URL.Query().Get("to")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to; expected RFC3339")
		return
	}

	conflict, err := s.bookings.HasConflict(r.Context(), roomID, models.Interval{Start: from, End: to})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"room_id":   roomID,
		"from":      from,
		"to":        to,
		"available": !conflict,
	})
}

// writeDomainError maps the booking error taxonomy onto HTTP status codes.
func (s *HTTPServer) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrMalformedInterval),
		errors.Is(err, domain.ErrPastStart),
		errors.Is(err, domain.ErrTooFarAhead):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
