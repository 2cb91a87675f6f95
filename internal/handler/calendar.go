package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/weekbook/resource-booking-api/internal/booking"
	"github.com/weekbook/resource-booking-api/internal/model"
	"github.com/weekbook/resource-booking-api/internal/repository"
	"github.com/weekbook/resource-booking-api/internal/session"
)

// CalendarHandler serves the weekly booking grid and the session
// filter endpoints.  The grid payload carries everything the frontend
// needs to render one resource week: the cell matrix, the slot legend,
// the week dropdown and the prev/next jump descriptors.
type CalendarHandler struct {
	Engine    *booking.Engine
	Filters   *session.FilterStore
	Resources *repository.ResourceRepo
	Bookings  *repository.BookingRepo
	Members   *repository.MemberRepo
}

func NewCalendarHandler(eng *booking.Engine, f *session.FilterStore, r *repository.ResourceRepo, b *repository.BookingRepo, m *repository.MemberRepo) *CalendarHandler {
	return &CalendarHandler{Engine: eng, Filters: f, Resources: r, Bookings: b, Members: m}
}

// ----- DTOs -----

type filterReq struct {
	Module         string `json:"module"`
	ResourceTypeID uint64 `json:"resource_type_id"`
	ResourceID     uint64 `json:"resource_id"`
	WeekStart      int64  `json:"week_start"` // unix seconds, Monday 00:00 UTC
}

type jumpReq struct {
	Module    string `json:"module"`
	WeekStart int64  `json:"week_start"`
}

type idTitle struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

type slotLegend struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
	Span  string `json:"span"`
}

// cellData is one grid cell: a concrete occurrence annotated with its
// availability for the requesting member.  Holder details beyond the
// redacted label are exposed only to the booking's owner.
type cellData struct {
	SlotKey     string `json:"slotKey"`
	Weekday     int    `json:"weekday"`
	StartUnix   int64  `json:"startUnix"`
	EndUnix     int64  `json:"endUnix"`
	StartString string `json:"startString"`
	EndString   string `json:"endString"`
	Status      string `json:"status"`
	IsPast      bool   `json:"isPast"`
	IsBookable  bool   `json:"isBookable"`
	IsHolder    bool   `json:"isHolder"`
	Holder      string `json:"holder,omitempty"`
	HolderFull  string `json:"holderFull,omitempty"`
	BookingID   uint64 `json:"bookingId,omitempty"`
	Description string `json:"description,omitempty"`
}

type gridRow struct {
	TimeSlot slotLegend `json:"timeSlot"`
	Cells    []cellData `json:"cells"`
}

type weekOption struct {
	WeekStart int64  `json:"weekStart"`
	Label     string `json:"label"`
	Active    bool   `json:"active"`
}

type jumpWeek struct {
	WeekStart int64 `json:"weekStart"`
	Disabled  bool  `json:"disabled"`
}

type gridResp struct {
	Filter        filterPart   `json:"filter"`
	ResourceTypes []idTitle    `json:"resourceTypes"`
	Resources     []idTitle    `json:"resources"`
	Weekdays      []int        `json:"weekdays"`
	Rows          []gridRow    `json:"rows"`
	TimeSlots     []slotLegend `json:"timeSlots"`
	WeekSelection []weekOption `json:"weekSelection"`
	// RepeatSelection lists the weeks selectable as the repeat-stop
	// boundary when booking from the active week.
	RepeatSelection []weekOption `json:"repeatSelection"`
	JumpNextWeek    jumpWeek     `json:"jumpNextWeek"`
	JumpPrevWeek    jumpWeek     `json:"jumpPrevWeek"`
	Messages        []string     `json:"messages"`
}

type filterPart struct {
	ResourceTypeID uint64 `json:"resource_type_id"`
	ResourceID     uint64 `json:"resource_id"`
	WeekStart      int64  `json:"week_start"`
}

// ApplyFilter normalizes and persists the session's calendar selection
// and returns the resulting grid.  Invalid selections reset to "none"
// and the requested week is clamped into the horizon, never rejected.
func (h *CalendarHandler) ApplyFilter(c echo.Context) error {
	memberID, ok := memberIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req filterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	state, err := h.Engine.ApplyFilter(ctx, h.Filters, sessionKey(memberID, req.Module),
		req.ResourceTypeID, req.ResourceID, unixWeek(req.WeekStart))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "apply filter failed"})
	}
	resp, err := h.buildGrid(ctx, state, memberID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build grid failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Jump moves the session's active week while keeping the selected
// resource, reusing the filter normalization end to end.
func (h *CalendarHandler) Jump(c echo.Context) error {
	memberID, ok := memberIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req jumpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	key := sessionKey(memberID, req.Module)
	prev, err := h.Filters.Load(ctx, key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load filter failed"})
	}
	var typeID, resID uint64
	if prev != nil {
		typeID, resID = prev.ResourceTypeID, prev.ResourceID
	}
	state, err := h.Engine.ApplyFilter(ctx, h.Filters, key, typeID, resID, unixWeek(req.WeekStart))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "apply filter failed"})
	}
	resp, err := h.buildGrid(ctx, state, memberID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build grid failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Grid renders the current session selection without changing it.  A
// session that has never applied a filter gets the current week with
// nothing selected.
func (h *CalendarHandler) Grid(c echo.Context) error {
	memberID, ok := memberIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	key := sessionKey(memberID, c.QueryParam("module"))
	state, err := h.Filters.Load(ctx, key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load filter failed"})
	}
	if state == nil {
		state = &model.FilterState{
			SessionKey: key,
			WeekStart:  booking.WeekStartOf(h.Engine.Now()),
		}
	}
	resp, err := h.buildGrid(ctx, *state, memberID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build grid failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// buildGrid assembles the full grid payload for one filter state.
func (h *CalendarHandler) buildGrid(ctx context.Context, state model.FilterState, memberID uint64) (*gridResp, error) {
	resp := &gridResp{
		Filter: filterPart{
			ResourceTypeID: state.ResourceTypeID,
			ResourceID:     state.ResourceID,
			WeekStart:      state.WeekStart.Unix(),
		},
		Weekdays:      h.Engine.Expander().VisibleWeekdays(),
		Rows:          []gridRow{},
		TimeSlots:     []slotLegend{},
		ResourceTypes: []idTitle{},
		Resources:     []idTitle{},
	}

	types, err := h.Resources.ListPublishedTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, rt := range types {
		resp.ResourceTypes = append(resp.ResourceTypes, idTitle{ID: rt.ID, Title: rt.Title})
	}
	if state.ResourceTypeID != 0 {
		resources, err := h.Resources.ListPublishedByType(ctx, state.ResourceTypeID)
		if err != nil {
			return nil, err
		}
		for _, r := range resources {
			resp.Resources = append(resp.Resources, idTitle{ID: r.ID, Title: r.Title})
		}
	}

	now := h.Engine.Now()
	horizon := h.Engine.Horizon()
	resp.WeekSelection = weekSelection(horizon, now, state.WeekStart)
	resp.RepeatSelection = repeatSelection(horizon, now, state.WeekStart)
	resp.JumpPrevWeek = jumpDescriptor(horizon, now, booking.AddWeeks(state.WeekStart, -1))
	resp.JumpNextWeek = jumpDescriptor(horizon, now, booking.AddWeeks(state.WeekStart, 1))

	switch {
	case state.ResourceTypeID == 0:
		resp.Messages = append(resp.Messages, "Please select a resource type.")
		return resp, nil
	case state.ResourceID == 0:
		resp.Messages = append(resp.Messages, "Please select a resource.")
		return resp, nil
	}

	resource, err := h.Resources.FindPublished(ctx, state.ResourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		resp.Messages = append(resp.Messages, "Please select a resource.")
		return resp, nil
	}

	coll, err := h.Engine.Expander().ExpandWeek(ctx, resource, state.WeekStart)
	if err != nil {
		return nil, err
	}

	// One query annotates the whole week; cells match on the exact
	// interval.
	booked, err := h.Bookings.ListByResourceWeek(ctx, resource.ID, state.WeekStart)
	if err != nil {
		return nil, err
	}
	byInterval := make(map[[2]int64]*model.Booking, len(booked))
	for i := range booked {
		byInterval[[2]int64{booked[i].StartTime.Unix(), booked[i].EndTime.Unix()}] = &booked[i]
	}
	holders := make(map[uint64]*model.Member)

	weekdays := resp.Weekdays
	for _, tpl := range coll.Templates() {
		legend := slotLegend{
			ID:    tpl.ID,
			Title: tpl.Title,
			Start: tpl.StartString(),
			End:   tpl.EndString(),
			Span:  tpl.SpanString(),
		}
		resp.TimeSlots = append(resp.TimeSlots, legend)

		row := gridRow{TimeSlot: legend, Cells: make([]cellData, 0, len(weekdays))}
		for range weekdays {
			occ, ok := coll.Next()
			if !ok {
				break
			}
			cell, err := h.buildCell(ctx, occ, byInterval, holders, memberID)
			if err != nil {
				return nil, err
			}
			row.Cells = append(row.Cells, cell)
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}

func (h *CalendarHandler) buildCell(ctx context.Context, occ booking.Occurrence, byInterval map[[2]int64]*model.Booking, holders map[uint64]*model.Member, memberID uint64) (cellData, error) {
	b := byInterval[[2]int64{occ.Start.Unix(), occ.End.Unix()}]

	var holder *model.Member
	if b != nil {
		cached, ok := holders[b.MemberID]
		if !ok {
			m, err := h.Members.FindByID(ctx, b.MemberID)
			if err != nil {
				return cellData{}, err
			}
			cached = m
			holders[b.MemberID] = m
		}
		holder = cached
	}
	return newCellData(occ, b, holder, memberID), nil
}

// newCellData classifies one occurrence against the booking that may
// occupy it.  Past cells are never bookable, not even the member's own.
func newCellData(occ booking.Occurrence, b *model.Booking, holder *model.Member, memberID uint64) cellData {
	cell := cellData{
		SlotKey:     occ.SlotKey(),
		Weekday:     occ.Weekday,
		StartUnix:   occ.Start.Unix(),
		EndUnix:     occ.End.Unix(),
		StartString: occ.Start.UTC().Format("15:04"),
		EndString:   occ.End.UTC().Format("15:04"),
		IsPast:      occ.IsPast,
	}
	if b == nil {
		cell.Status = booking.StatusFree.String()
		cell.IsBookable = !occ.IsPast
		return cell
	}

	if holder != nil {
		cell.Holder = holder.RedactedName()
	}
	if b.MemberID == memberID {
		cell.Status = booking.StatusBookedBySelf.String()
		cell.IsBookable = !occ.IsPast
		cell.IsHolder = true
		cell.BookingID = b.ID
		cell.Description = b.Description
		if holder != nil {
			cell.HolderFull = holder.FullName()
		}
	} else {
		cell.Status = booking.StatusBookedByOther.String()
	}
	return cell
}

// weekSelection lists every week inside the horizon for the week
// dropdown, Monday-to-Sunday labels, the active week flagged.
func weekSelection(horizon booking.Horizon, now, active time.Time) []weekOption {
	out := make([]weekOption, 0, horizon.BackWeeks+horizon.AheadWeeks+1)
	for w := horizon.Earliest(now); !w.After(horizon.Latest(now)); w = booking.AddWeeks(w, 1) {
		out = append(out, weekOption{
			WeekStart: w.Unix(),
			Label:     w.Format("02.01.2006") + " - " + w.AddDate(0, 0, 6).Format("02.01.2006"),
			Active:    w.Equal(active),
		})
	}
	return out
}

// repeatSelection lists the weeks a booking made in the active week may
// repeat until.  The list runs from the week after the active one up to
// the repeat cap, never past the booking horizon.
func repeatSelection(horizon booking.Horizon, now, active time.Time) []weekOption {
	if horizon.RepeatWeeks < 1 {
		return nil
	}
	last := booking.AddWeeks(active, horizon.RepeatWeeks)
	if latest := horizon.Latest(now); last.After(latest) {
		last = latest
	}
	out := make([]weekOption, 0, horizon.RepeatWeeks)
	for w := booking.AddWeeks(active, 1); !w.After(last); w = booking.AddWeeks(w, 1) {
		out = append(out, weekOption{
			WeekStart: w.Unix(),
			Label:     w.Format("02.01.2006") + " - " + w.AddDate(0, 0, 6).Format("02.01.2006"),
		})
	}
	return out
}

// jumpDescriptor flags a jump target that falls outside the horizon as
// disabled so the frontend can grey the arrow out.
func jumpDescriptor(horizon booking.Horizon, now, target time.Time) jumpWeek {
	disabled := target.Before(horizon.Earliest(now)) || target.After(horizon.Latest(now))
	return jumpWeek{WeekStart: target.Unix(), Disabled: disabled}
}

// unixWeek converts a unix-seconds week field to a time; zero stays the
// zero time so the engine falls back to the current week.
func unixWeek(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
