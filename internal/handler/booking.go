package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/weekbook/resource-booking-api/internal/booking"
	"github.com/weekbook/resource-booking-api/internal/session"
)

// BookingHandler serves the booking lifecycle endpoints: validate a
// slot selection, commit it and cancel existing bookings.  All three
// operate on the session's current filter state.
type BookingHandler struct {
	Engine  *booking.Engine
	Filters *session.FilterStore
}

func NewBookingHandler(eng *booking.Engine, f *session.FilterStore) *BookingHandler {
	return &BookingHandler{Engine: eng, Filters: f}
}

// ----- DTOs -----

type bookReq struct {
	Module         string   `json:"module"`
	Selection      []string `json:"selection"`
	RepeatStopWeek int64    `json:"repeat_stop_week"` // unix seconds, 0 = no repetition
	Description    string   `json:"description"`
}

type cancelReq struct {
	BookingID uint64 `json:"booking_id"`
	Cascade   bool   `json:"cascade"`
}

// selectionItem is the per-candidate validation echo the frontend uses
// to mark up the selected cells.
type selectionItem struct {
	SlotKey       string `json:"slotKey"`
	StartUnix     int64  `json:"startUnix"`
	EndUnix       int64  `json:"endUnix"`
	WeekStartUnix int64  `json:"weekStartUnix"`
	Holder        string `json:"holder,omitempty"`
	InvalidDate   bool   `json:"invalidDate"`
	IsBookable    bool   `json:"isBookable"`
	IsFullyBooked bool   `json:"isFullyBooked"`
}

func selectionItems(cands []booking.Candidate) []selectionItem {
	out := make([]selectionItem, 0, len(cands))
	for _, c := range cands {
		out = append(out, selectionItem{
			SlotKey:       c.SlotKey(),
			StartUnix:     c.Start.Unix(),
			EndUnix:       c.End.Unix(),
			WeekStartUnix: c.WeekStart.Unix(),
			Holder:        c.Holder,
			InvalidDate:   c.InvalidDate,
			IsBookable:    c.IsBookable,
			IsFullyBooked: c.IsFullyBooked,
		})
	}
	return out
}

// openWindow loads the session filter state and initializes a booking
// window for the request.
func (h *BookingHandler) openWindow(ctx context.Context, memberID uint64, req bookReq) (*booking.Window, error) {
	state, err := h.Filters.Load(ctx, sessionKey(memberID, req.Module))
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, booking.ErrNoResourceSelected
	}
	w := h.Engine.NewWindow(*state, booking.Request{
		MemberID:            memberID,
		Selection:           req.Selection,
		RepeatStopWeekStart: unixWeek(req.RepeatStopWeek),
		Description:         req.Description,
	})
	if err := w.Initialize(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate runs the booking rules over a selection without persisting
// anything.  Rule violations are a normal response, not an HTTP error.
func (h *BookingHandler) Validate(c echo.Context) error {
	memberID, ok := memberIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	w, err := h.openWindow(ctx, memberID, req)
	if err != nil {
		if errors.Is(err, booking.ErrNoResourceSelected) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no resource selected"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validate failed"})
	}
	passed, err := w.IsBookingPossible(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validate failed"})
	}

	resp := echo.Map{
		"passedValidation": passed,
		"slotSelection":    selectionItems(w.Candidates()),
	}
	if passed {
		resp["confirmationMessage"] = fmt.Sprintf("The selected %d booking item(s) are available.", len(w.Candidates()))
	} else {
		resp["errorId"] = w.Reason().String()
		resp["errorMessage"] = w.Reason().Message()
	}
	return c.JSON(http.StatusOK, resp)
}

// Book validates and persists a selection.  Partial success is
// possible under concurrency and is reported, not failed.
func (h *BookingHandler) Book(c echo.Context) error {
	memberID, ok := memberIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	w, err := h.openWindow(ctx, memberID, req)
	if err != nil {
		if errors.Is(err, booking.ErrNoResourceSelected) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no resource selected"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	result, err := w.Commit(ctx)
	if err != nil {
		var ve *booking.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusOK, echo.Map{
				"status":           "error",
				"bookingSucceeded": false,
				"errorId":          ve.Reason.String(),
				"errorMessage":     ve.Reason.Message(),
				"bookingSelection": selectionItems(w.Candidates()),
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	confirmation := result.Messages.Confirmation
	if confirmation == "" {
		confirmation = fmt.Sprintf("Successfully booked %d item(s).", len(result.SavedIDs))
	}
	resp := echo.Map{
		"status":              "ok",
		"bookingSucceeded":    true,
		"chainId":             result.ChainID,
		"bookingIds":          result.SavedIDs,
		"skipped":             result.Skipped,
		"dropped":             result.Dropped,
		"bookingSelection":    selectionItems(w.Candidates()),
		"confirmationMessage": confirmation,
	}
	if result.Messages.Error != "" {
		resp["errorMessage"] = result.Messages.Error
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel removes a booking owned by the member, optionally cascading
// over the repeats of the same recurring slot.
func (h *BookingHandler) Cancel(c echo.Context) error {
	memberID, ok := memberIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil || req.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	result, err := h.Engine.Cancel(ctx, req.BookingID, memberID, req.Cascade)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"status": "error", "errorMessage": "booking not found"})
		case errors.Is(err, booking.ErrNotOwner):
			// No ownership details are revealed.
			return c.JSON(http.StatusForbidden, echo.Map{"status": "error", "errorMessage": "not allowed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	confirmation := result.Messages.Confirmation
	if confirmation == "" {
		if result.CascadeCount > 0 {
			confirmation = fmt.Sprintf("The booking and %d repetition(s) have been cancelled.", result.CascadeCount)
		} else {
			confirmation = "The booking has been cancelled."
		}
	}
	resp := echo.Map{
		"status":              "ok",
		"deletedIds":          result.DeletedIDs,
		"cascadeCount":        result.CascadeCount,
		"confirmationMessage": confirmation,
	}
	if result.Messages.Error != "" {
		resp["errorMessage"] = result.Messages.Error
	}
	return c.JSON(http.StatusOK, resp)
}
