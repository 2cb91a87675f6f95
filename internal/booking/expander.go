package booking

import (
	"context"
	"time"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// Expander projects a resource's time slot templates onto the seven
// weekdays of a week.  Hidden weekdays (a per-deployment mask) are
// skipped entirely and produce no occurrences.
type Expander struct {
	slots  TimeSlotStore
	hidden map[int]bool
	now    func() time.Time
}

// NewExpander builds an Expander.  hiddenWeekdays lists grid columns
// (0 = Monday) that the deployment hides.  now may be nil and defaults
// to time.Now; tests inject a fixed clock.
func NewExpander(slots TimeSlotStore, hiddenWeekdays []int, now func() time.Time) *Expander {
	if now == nil {
		now = time.Now
	}
	mask := make(map[int]bool, len(hiddenWeekdays))
	for _, d := range hiddenWeekdays {
		if d >= 0 && d < 7 {
			mask[d] = true
		}
	}
	return &Expander{slots: slots, hidden: mask, now: now}
}

// VisibleWeekdays returns the grid columns that survive the hidden
// weekday mask, ascending.
func (e *Expander) VisibleWeekdays() []int {
	days := make([]int, 0, 7)
	for d := 0; d < 7; d++ {
		if !e.hidden[d] {
			days = append(days, d)
		}
	}
	return days
}

// ExpandWeek returns the occurrences of one resource week as a lazy,
// restartable collection: one occurrence per published template and
// visible weekday, grouped by template order, then weekday ascending.
// Occurrences of weeks before the current calendar week are flagged
// IsPast and are never editable.
func (e *Expander) ExpandWeek(ctx context.Context, resource *model.Resource, weekStart time.Time) (*SlotCollection, error) {
	templates, err := e.slots.ListPublishedByType(ctx, resource.TimeSlotTypeID)
	if err != nil {
		return nil, err
	}
	return &SlotCollection{
		resourceID:   resource.ID,
		templates:    templates,
		weekdays:     e.VisibleWeekdays(),
		weekStart:    WeekStartOf(weekStart),
		currentWeek:  WeekStartOf(e.now()),
		templateIdx:  0,
		weekdayIdx:   0,
	}, nil
}

// SlotCollection is a forward cursor over the occurrences of one
// resource week.  Occurrences are computed on demand; Reset rewinds the
// cursor so the sequence can be replayed.
type SlotCollection struct {
	resourceID  uint64
	templates   []model.TimeSlot
	weekdays    []int
	weekStart   time.Time
	currentWeek time.Time

	templateIdx int
	weekdayIdx  int
}

// Len returns the total number of occurrences the collection yields.
func (c *SlotCollection) Len() int {
	return len(c.templates) * len(c.weekdays)
}

// Reset rewinds the cursor to the first occurrence.
func (c *SlotCollection) Reset() {
	c.templateIdx = 0
	c.weekdayIdx = 0
}

// Next yields the next occurrence.  The second return value is false
// once the collection is exhausted.
func (c *SlotCollection) Next() (Occurrence, bool) {
	if c.templateIdx >= len(c.templates) || len(c.weekdays) == 0 {
		return Occurrence{}, false
	}
	tpl := c.templates[c.templateIdx]
	day := c.weekdays[c.weekdayIdx]

	c.weekdayIdx++
	if c.weekdayIdx >= len(c.weekdays) {
		c.weekdayIdx = 0
		c.templateIdx++
	}
	return c.occurrence(tpl, day), true
}

// Template returns the template that produced an occurrence weekday
// group, by template cursor order.
func (c *SlotCollection) Template(i int) (model.TimeSlot, bool) {
	if i < 0 || i >= len(c.templates) {
		return model.TimeSlot{}, false
	}
	return c.templates[i], true
}

// Templates returns the underlying template list in grid row order.
func (c *SlotCollection) Templates() []model.TimeSlot {
	return c.templates
}

// All drains a fresh replay of the collection into a slice.
func (c *SlotCollection) All() []Occurrence {
	c.Reset()
	out := make([]Occurrence, 0, c.Len())
	for {
		occ, ok := c.Next()
		if !ok {
			return out
		}
		out = append(out, occ)
	}
}

func (c *SlotCollection) occurrence(tpl model.TimeSlot, day int) Occurrence {
	dayStart := c.weekStart.AddDate(0, 0, day)
	return Occurrence{
		ResourceID: c.resourceID,
		TimeSlotID: tpl.ID,
		Weekday:    day,
		Start:      dayStart.Add(time.Duration(tpl.StartOffsetSec) * time.Second),
		End:        dayStart.Add(time.Duration(tpl.EndOffsetSec) * time.Second),
		WeekStart:  c.weekStart,
		IsPast:     c.weekStart.Before(c.currentWeek),
	}
}
