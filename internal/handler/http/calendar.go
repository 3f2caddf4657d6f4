package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type CalendarHandler interface {
	AddHoliday(w http.ResponseWriter, r *http.Request)
	RemoveHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	workCalendar calendar.WorkCalendar
}

func NewCalendarHandler(workCalendar calendar.WorkCalendar) CalendarHandler {
	return &calendarHandlerImpl{
		workCalendar: workCalendar,
	}
}

type addHolidayRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name"`
}

// AddHoliday implements CalendarHandler.
func (h *calendarHandlerImpl) AddHoliday(w http.ResponseWriter, r *http.Request) {
	var req addHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Add holiday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, ok := validator.IsValidDate(req.Date)
	if !ok {
		response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
		return
	}
	if validator.IsEmpty(req.Name) {
		response.BadRequest(w, "name is required", nil)
		return
	}

	holiday := &calendar.Holiday{Date: date, Name: req.Name}
	if err := h.workCalendar.AddHoliday(r.Context(), holiday); err != nil {
		slog.Error("Add holiday failed", "date", req.Date, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday added successfully", holiday)
}

// RemoveHoliday implements CalendarHandler.
func (h *calendarHandlerImpl) RemoveHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.workCalendar.RemoveHoliday(r.Context(), id); err != nil {
		slog.Error("Remove holiday failed", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday removed", nil)
}

// ListHolidays implements CalendarHandler.
func (h *calendarHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year, _ := strconv.Atoi(q.Get("year"))
	month, _ := strconv.Atoi(q.Get("month"))
	now := time.Now()
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		month = int(now.Month())
	}

	holidays, err := h.workCalendar.HolidaysInMonth(r.Context(), year, time.Month(month))
	if err != nil {
		slog.Error("List holidays failed", "year", year, "month", month, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, holidays)
}
