package booking

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/weekbook/resource-booking-api/internal/model"
	"github.com/weekbook/resource-booking-api/internal/repository"
)

// Horizon bounds the bookable weeks relative to the current calendar
// week.  Requested weeks are clamped into [Earliest, Latest], never
// rejected.
type Horizon struct {
	BackWeeks   int // weeks before the current week still browsable
	AheadWeeks  int // weeks after the current week open for booking
	RepeatWeeks int // maximum length of a repeat chain in weeks
}

// Earliest returns the first bookable week start relative to now.
func (h Horizon) Earliest(now time.Time) time.Time {
	return AddWeeks(WeekStartOf(now), -h.BackWeeks)
}

// Latest returns the last bookable week start relative to now.
func (h Horizon) Latest(now time.Time) time.Time {
	return AddWeeks(WeekStartOf(now), h.AheadWeeks)
}

// Clamp normalizes a requested week start into the horizon.  Non
// Monday-aligned input falls back to the current week before clamping.
func (h Horizon) Clamp(requested, now time.Time) time.Time {
	week := requested
	if !IsWeekStart(week) {
		week = WeekStartOf(now)
	}
	if earliest := h.Earliest(now); week.Before(earliest) {
		return earliest
	}
	if latest := h.Latest(now); week.After(latest) {
		return latest
	}
	return week
}

// Engine wires the stores, the expander, the availability checker and
// the registered hooks into the booking core.  One Engine serves all
// requests; per-request state lives in Window values.
type Engine struct {
	resources ResourceStore
	slots     TimeSlotStore
	bookings  BookingStore
	members   MemberStore
	checker   *Checker
	expander  *Expander
	hooks     Hooks
	horizon   Horizon
	now       func() time.Time
}

// NewEngine builds the booking engine.  now may be nil and defaults to
// time.Now.
func NewEngine(resources ResourceStore, slots TimeSlotStore, bookings BookingStore, members MemberStore, hiddenWeekdays []int, horizon Horizon, hooks Hooks, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		resources: resources,
		slots:     slots,
		bookings:  bookings,
		members:   members,
		checker:   NewChecker(bookings, members),
		expander:  NewExpander(slots, hiddenWeekdays, now),
		horizon:   horizon,
		hooks:     hooks,
		now:       now,
	}
}

// Expander exposes the slot template expander for grid rendering.
func (e *Engine) Expander() *Expander { return e.expander }

// Checker exposes the availability checker for grid rendering.
func (e *Engine) Checker() *Checker { return e.checker }

// Horizon returns the configured booking horizon.
func (e *Engine) Horizon() Horizon { return e.horizon }

// Now returns the engine clock reading.
func (e *Engine) Now() time.Time { return e.now() }

// Request carries one member's slot selection as submitted by the
// client.  Selection entries are raw slot keys.
type Request struct {
	MemberID            uint64
	Selection           []string
	RepeatStopWeekStart time.Time
	Description         string
}

// Candidate is one expanded, classified booking candidate: a concrete
// occurrence the member asked for, plus the validation triple the UI
// renders per entry.
type Candidate struct {
	Occurrence
	ChainID     string `json:"chain_id"`
	MemberID    uint64 `json:"member_id"`
	Description string `json:"description"`

	Status        Status `json:"-"`
	Holder        string `json:"holder,omitempty"`
	InvalidDate   bool   `json:"invalidDate"`
	IsBookable    bool   `json:"isBookable"`
	IsFullyBooked bool   `json:"isFullyBooked"`
}

// WindowState tracks the lifecycle of one booking transaction.
type WindowState int

const (
	// StateUninitialized: the window was created but Initialize has not
	// run yet.
	StateUninitialized WindowState = iota
	// StateInitialized: the session filter resolved to a bookable
	// resource; validation has not run.
	StateInitialized
	// StateValidated: the last validation pass accepted the selection.
	StateValidated
	// StateRejected: the last validation pass rejected the selection.
	StateRejected
	// StateCommitted: the candidate set has been committed.
	StateCommitted
)

// Window orchestrates one booking transaction: it validates the
// member's slot selection against the business rules and produces the
// repeat-expanded candidate set that Commit persists.
type Window struct {
	eng    *Engine
	filter model.FilterState
	req    Request

	member   *model.Member
	resource *model.Resource

	state      WindowState
	reason     Reason
	chainID    string
	candidates []Candidate
}

// NewWindow creates a booking window for one request.  The chain id
// shared by all repeats of this submission is fixed here so repeated
// validation passes stay deterministic.
func (e *Engine) NewWindow(filter model.FilterState, req Request) *Window {
	return &Window{
		eng:     e,
		filter:  filter,
		req:     req,
		state:   StateUninitialized,
		chainID: uuid.NewString(),
	}
}

// State returns the current lifecycle state.
func (w *Window) State() WindowState { return w.state }

// Reason returns the rejection reason of the last validation pass, or
// ReasonNone when it passed.
func (w *Window) Reason() Reason { return w.reason }

// ChainID returns the chain id assigned to this submission.
func (w *Window) ChainID() string { return w.chainID }

// Resource returns the resolved resource after Initialize.
func (w *Window) Resource() *model.Resource { return w.resource }

// Initialize resolves the session filter into a concrete resource and
// member.  It fails with ErrNoResourceSelected when the filter holds no
// resource, the engine's ConfigurationError.
func (w *Window) Initialize(ctx context.Context) error {
	if !w.filter.HasResource() {
		return ErrNoResourceSelected
	}
	res, err := w.eng.resources.FindPublished(ctx, w.filter.ResourceID)
	if err != nil {
		return err
	}
	if res == nil || res.ResourceTypeID != w.filter.ResourceTypeID {
		return ErrNoResourceSelected
	}
	mem, err := w.eng.members.FindByID(ctx, w.req.MemberID)
	if err != nil {
		return err
	}
	w.resource = res
	w.member = mem
	w.state = StateInitialized
	return nil
}

// IsBookingPossible runs the validation rules and reports whether the
// selection can be booked.  It is idempotent: repeated calls re-run the
// same deterministic checks and leave an identical candidate list.
func (w *Window) IsBookingPossible(ctx context.Context) (bool, error) {
	if w.state == StateUninitialized {
		return false, ErrNotInitialized
	}
	if err := w.validate(ctx); err != nil {
		return false, err
	}
	return w.state == StateValidated, nil
}

// Candidates returns the expanded, start-sorted candidate list produced
// by the last validation pass.
func (w *Window) Candidates() []Candidate { return w.candidates }

func (w *Window) validate(ctx context.Context) error {
	w.candidates = nil
	w.reason = ReasonNone

	// Rule 1: the selection must not be empty.
	if len(w.req.Selection) == 0 {
		w.reason = ReasonNoDatesSelected
		w.state = StateRejected
		return nil
	}

	templates, err := w.eng.slots.ListPublishedByType(ctx, w.resource.TimeSlotTypeID)
	if err != nil {
		return err
	}
	owned := make(map[uint64]bool, len(templates))
	for _, t := range templates {
		owned[t.ID] = true
	}

	now := w.eng.now()
	earliest := w.eng.horizon.Earliest(now)
	latest := w.eng.horizon.Latest(now)
	currentWeek := WeekStartOf(now)

	// Rule 2: every slot key must decode to a week inside the horizon
	// and reference a template belonging to the resource.
	bases := make([]Candidate, 0, len(w.req.Selection))
	anyInvalid := false
	for _, raw := range w.req.Selection {
		key, err := ParseSlotKey(raw)
		invalid := err != nil ||
			key.WeekStart.Before(earliest) || key.WeekStart.After(latest) ||
			!owned[key.TimeSlotID]
		c := Candidate{
			ChainID:     w.chainID,
			MemberID:    w.req.MemberID,
			Description: w.req.Description,
			InvalidDate: invalid,
		}
		if err == nil {
			c.Occurrence = Occurrence{
				ResourceID: w.resource.ID,
				TimeSlotID: key.TimeSlotID,
				Weekday:    weekdayIndex(key.Start.Weekday()),
				Start:      key.Start,
				End:        key.End,
				WeekStart:  key.WeekStart,
				IsPast:     key.WeekStart.Before(currentWeek),
			}
		}
		if invalid {
			anyInvalid = true
		}
		bases = append(bases, c)
	}
	if anyInvalid {
		w.candidates = bases
		w.reason = ReasonInvalidDate
		w.state = StateRejected
		return nil
	}

	// Rule 3: expand repeats, then classify every candidate.
	expanded := make([]Candidate, 0, len(bases))
	for _, base := range bases {
		expanded = append(expanded, expandRepeats(base, w.req.RepeatStopWeekStart)...)
	}
	sort.SliceStable(expanded, func(i, j int) bool {
		return expanded[i].Start.Before(expanded[j].Start)
	})

	fullyBooked := false
	notBookable := false
	for i := range expanded {
		c := &expanded[i]
		cl, err := w.eng.checker.Classify(ctx, c.ResourceID, c.Start, c.End, w.req.MemberID)
		if err != nil {
			return err
		}
		c.Status = cl.Status
		c.Holder = cl.Holder
		c.IsFullyBooked = cl.Status == StatusBookedByOther
		c.IsBookable = cl.Status == StatusBookedBySelf || (cl.Status == StatusFree && !c.IsPast)
		if c.IsFullyBooked {
			fullyBooked = true
		} else if !c.IsBookable {
			notBookable = true
		}
	}
	w.candidates = expanded

	switch {
	case fullyBooked:
		w.reason = ReasonFullyBooked
		w.state = StateRejected
	case notBookable:
		w.reason = ReasonNotEnoughItems
		w.state = StateRejected
	default:
		w.reason = ReasonNone
		w.state = StateValidated
	}
	return nil
}

// expandRepeats generates the weekly repeat chain of one base
// candidate.  Copies are produced by adding exactly seven days until
// the copy's week start reaches or passes the stop week; that copy is
// included (inclusive boundary) and expansion halts.
func expandRepeats(base Candidate, stopWeekStart time.Time) []Candidate {
	out := []Candidate{base}
	if stopWeekStart.IsZero() || !base.WeekStart.Before(stopWeekStart) {
		return out
	}
	cur := base
	for {
		cur.Start = cur.Start.AddDate(0, 0, 7)
		cur.End = cur.End.AddDate(0, 0, 7)
		cur.WeekStart = cur.WeekStart.AddDate(0, 0, 7)
		out = append(out, cur)
		if !cur.WeekStart.Before(stopWeekStart) {
			return out
		}
	}
}

// CommitResult reports the outcome of one commit: the bookings that
// were persisted, how many candidates were skipped as no-ops (already
// held by the member or vetoed by a hook) and how many were dropped
// because the slot became unavailable or the store failed.
type CommitResult struct {
	ChainID  string
	Saved    []model.Booking
	SavedIDs []uint64
	Skipped  int
	Dropped  int
	Messages Messages
}

// Commit persists the validated candidate set.  Availability is
// re-checked immediately before each individual insert to close the
// race between two sessions booking the same snapshot; the unique
// interval constraint in the store is the last line of defense, and a
// constraint violation demotes the candidate to a drop instead of
// failing the batch.  Partial success is allowed and reported.
func (w *Window) Commit(ctx context.Context) (*CommitResult, error) {
	if w.state == StateUninitialized {
		return nil, ErrNotInitialized
	}
	if w.state != StateValidated {
		if err := w.validate(ctx); err != nil {
			return nil, err
		}
	}
	if w.state != StateValidated {
		return nil, &ValidationError{Reason: w.reason}
	}

	res := &CommitResult{ChainID: w.chainID}
	for i := range w.candidates {
		c := &w.candidates[i]

		// Re-validate at commit time: the grid the member selected from
		// is a snapshot and may be stale.
		cl, err := w.eng.checker.Classify(ctx, c.ResourceID, c.Start, c.End, w.req.MemberID)
		if err != nil {
			return nil, err
		}
		switch cl.Status {
		case StatusBookedByOther:
			res.Dropped++
			continue
		case StatusBookedBySelf:
			// Resubmission of an interval the member already holds is a
			// no-op, not a failure.
			res.Skipped++
			continue
		}

		if w.eng.hooks.preBooking(ctx, w.member, c) == Skip {
			res.Skipped++
			continue
		}

		b := model.Booking{
			ResourceID:  c.ResourceID,
			TimeSlotID:  c.TimeSlotID,
			MemberID:    w.req.MemberID,
			StartTime:   c.Start,
			EndTime:     c.End,
			Description: w.req.Description,
			ChainID:     w.chainID,
		}
		if err := w.eng.bookings.Insert(ctx, &b); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				// Slot became unavailable between re-check and insert.
				res.Dropped++
				continue
			}
			log.Printf("booking: saving candidate %s failed: %v", c.SlotKey(), err)
			res.Dropped++
			continue
		}
		log.Printf("booking: new booking for resource %q (booking id %d)", w.resource.Title, b.ID)
		res.SavedIDs = append(res.SavedIDs, b.ID)
	}

	saved, err := w.eng.bookings.FindByChain(ctx, w.chainID)
	if err != nil {
		return nil, err
	}
	res.Saved = saved
	w.eng.hooks.postBooking(ctx, w.member, saved, &res.Messages)
	w.state = StateCommitted
	return res, nil
}
