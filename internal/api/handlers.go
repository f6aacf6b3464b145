package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shearbook/barbershop-scheduling/internal/account"
	"github.com/shearbook/barbershop-scheduling/internal/booking"
)

const (
	dayFormat      = "2006-01-02"
	clockFormat    = "15:04"
	datetimeFormat = "2006-01-02T15:04:05"
)

var validate = validator.New()

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func bookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		ProviderID:   b.ProviderID,
		CustomerID:   b.CustomerID,
		ServiceID:    b.ServiceID,
		CustomerName: b.CustomerName,
		Date:         b.Day.Format(dayFormat),
		Start:        b.StartTime.Format(clockFormat),
		End:          b.EndTime.Format(clockFormat),
		Status:       "confirmed",
	}
}

func proposeBookingHandler(sched *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProposeBookingRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		day, err := booking.ParseDay(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
			return
		}
		start, err := booking.ParseClock(req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "start must be HH:MM")
			return
		}

		booked, err := sched.ProposeBooking(r.Context(), req.ProviderID, req.ServiceID, req.CustomerID, day, start)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, bookingResponse(booked))
	}
}

func timeChangeHandler(sched *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be an integer")
			return
		}

		var req TimeChangeRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		start, err := booking.ParseClock(req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "start must be HH:MM")
			return
		}

		moved, err := sched.ProposeTimeChange(r.Context(), id, req.RequesterID, start)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, bookingResponse(moved))
	}
}

func cancelBookingHandler(sched *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be an integer")
			return
		}

		var req CancelBookingRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		if err := sched.CancelBooking(r.Context(), id, req.RequesterID); err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	}
}

func providerCalendarHandler(sched *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_provider_id", "id must be an integer")
			return
		}

		var day time.Time
		if raw := r.URL.Query().Get("date"); raw != "" {
			day, err = booking.ParseDay(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
				return
			}
		}

		events, err := sched.ProviderCalendar(r.Context(), id, day)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := make([]CalendarEventResponse, 0, len(events))
		for _, ev := range events {
			resp = append(resp, CalendarEventResponse{
				Title: ev.Title,
				Start: ev.Start.Format(datetimeFormat),
				End:   ev.End.Format(datetimeFormat),
				Tag:   string(ev.Tag),
				Color: eventColor(ev.Tag),
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func eventColor(tag booking.EventTag) string {
	if tag == booking.TagAvailable {
		return "green"
	}
	return "blue"
}

func customerAgendaHandler(sched *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_customer_id", "id must be an integer")
			return
		}

		details, err := sched.CustomerAgenda(r.Context(), id)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := make([]AgendaItemResponse, 0, len(details))
		for _, d := range details {
			resp = append(resp, AgendaItemResponse{
				BookingResponse: bookingResponse(&d.Booking),
				ProviderName:    d.ProviderName,
				ServiceName:     d.ServiceName,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func publishAvailabilityHandler(sched *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PublishAvailabilityRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		day, err := booking.ParseDay(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
			return
		}
		start, err := booking.ParseClock(req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "start must be HH:MM")
			return
		}
		end, err := booking.ParseClock(req.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "end must be HH:MM")
			return
		}

		added, err := sched.PublishAvailability(r.Context(), req.ProviderID, day, start, end)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, AvailabilityResponse{
			ID:         added.ID,
			ProviderID: added.ProviderID,
			Date:       added.Day.Format(dayFormat),
			Start:      added.StartTime.Format(clockFormat),
			End:        added.EndTime.Format(clockFormat),
		})
	}
}

func retractAvailabilityHandler(sched *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_availability_id", "id must be an integer")
			return
		}

		var req RetractAvailabilityRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		if err := sched.RetractAvailability(r.Context(), id, req.RequesterID); err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func addServiceHandler(sched *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddServiceRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		added, err := sched.AddServiceOffering(r.Context(), booking.ServiceOffering{
			ProviderID:      req.ProviderID,
			Name:            req.Name,
			DurationMinutes: req.DurationMinutes,
			PriceCents:      req.PriceCents,
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, serviceResponse(added))
	}
}

func listServicesHandler(sched *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_provider_id", "id must be an integer")
			return
		}

		services, err := sched.ListProviderServices(r.Context(), id)
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		resp := make([]ServiceResponse, 0, len(services))
		for i := range services {
			resp = append(resp, serviceResponse(&services[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func removeServiceHandler(sched *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "id must be an integer")
			return
		}

		var req RemoveServiceRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		if err := sched.RemoveServiceOffering(r.Context(), id, req.RequesterID); err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func serviceResponse(s *booking.ServiceOffering) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		ProviderID:      s.ProviderID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		PriceCents:      s.PriceCents,
	}
}

func handleScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, booking.ErrAvailabilityNotFound):
		writeError(w, http.StatusNotFound, "availability_not_found", err.Error())
	case errors.Is(err, account.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, booking.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, booking.ErrOutsideAvailability):
		writeError(w, http.StatusConflict, "outside_availability", err.Error())
	case errors.Is(err, booking.ErrBookingConflict):
		writeError(w, http.StatusConflict, "booking_conflict", err.Error())
	case errors.Is(err, booking.ErrScheduleBusy):
		writeError(w, http.StatusConflict, "schedule_busy", "schedule is being modified, please retry shortly")
	case errors.Is(err, booking.ErrInvalidWindow),
		errors.Is(err, booking.ErrInvalidDuration),
		errors.Is(err, booking.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, booking.ErrStorage):
		writeError(w, http.StatusInternalServerError, "storage_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
