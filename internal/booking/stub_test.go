package booking

import (
	"context"
	"sort"
	"time"

	"github.com/weekbook/resource-booking-api/internal/model"
	"github.com/weekbook/resource-booking-api/internal/repository"
)

// memStore is an in-memory implementation of all four engine store
// interfaces used by the tests below.  Insert enforces the same
// exact-interval uniqueness as the MySQL schema.
type memStore struct {
	types     map[uint64]*model.ResourceType
	resources map[uint64]*model.Resource
	slots     map[uint64][]model.TimeSlot // keyed by time slot type id
	members   map[uint64]*model.Member

	bookings []model.Booking
	nextID   uint64

	insertErr error // forced error for the next Insert when set
}

func newMemStore() *memStore {
	return &memStore{
		types:     make(map[uint64]*model.ResourceType),
		resources: make(map[uint64]*model.Resource),
		slots:     make(map[uint64][]model.TimeSlot),
		members:   make(map[uint64]*model.Member),
		nextID:    1,
	}
}

func (s *memStore) FindPublishedType(_ context.Context, id uint64) (*model.ResourceType, error) {
	rt := s.types[id]
	if rt == nil || !rt.Published {
		return nil, nil
	}
	cp := *rt
	return &cp, nil
}

func (s *memStore) FindPublished(_ context.Context, id uint64) (*model.Resource, error) {
	r := s.resources[id]
	if r == nil || !r.Published {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) ListPublishedTypes(_ context.Context) ([]model.ResourceType, error) {
	out := make([]model.ResourceType, 0, len(s.types))
	for _, rt := range s.types {
		if rt.Published {
			out = append(out, *rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *memStore) ListPublishedByType(_ context.Context, typeID uint64) ([]model.Resource, error) {
	out := make([]model.Resource, 0)
	for _, r := range s.resources {
		if r.Published && r.ResourceTypeID == typeID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// timeSlotStore view

type memSlotStore struct{ s *memStore }

func (m memSlotStore) ListPublishedByType(_ context.Context, typeID uint64) ([]model.TimeSlot, error) {
	var out []model.TimeSlot
	for _, t := range m.s.slots[typeID] {
		if t.Published {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sorting != out[j].Sorting {
			return out[i].Sorting < out[j].Sorting
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memStore) slotStore() TimeSlotStore { return memSlotStore{s} }

func (s *memStore) FindByExactInterval(_ context.Context, resourceID uint64, start, end time.Time) (*model.Booking, error) {
	for i := range s.bookings {
		b := &s.bookings[i]
		if b.ResourceID == resourceID && b.StartTime.Equal(start) && b.EndTime.Equal(end) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindByID(_ context.Context, id uint64) (*model.Booking, error) {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			cp := s.bookings[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindByChain(_ context.Context, chainID string) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range s.bookings {
		if b.ChainID == chainID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *memStore) FindChainSiblings(_ context.Context, chainID string, timeSlotID, memberID, excludeID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range s.bookings {
		if b.ChainID == chainID && b.TimeSlotID == timeSlotID && b.MemberID == memberID && b.ID != excludeID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *memStore) Insert(_ context.Context, b *model.Booking) error {
	if s.insertErr != nil {
		err := s.insertErr
		s.insertErr = nil
		return err
	}
	for i := range s.bookings {
		e := &s.bookings[i]
		if e.ResourceID == b.ResourceID && e.StartTime.Equal(b.StartTime) && e.EndTime.Equal(b.EndTime) {
			return repository.ErrSlotTaken
		}
	}
	b.ID = s.nextID
	s.nextID++
	b.CreatedAt = time.Now().UTC()
	s.bookings = append(s.bookings, *b)
	return nil
}

func (s *memStore) Delete(_ context.Context, id uint64) (bool, error) {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// memberStore view

type memMemberStore struct{ s *memStore }

func (m memMemberStore) FindByID(_ context.Context, id uint64) (*model.Member, error) {
	mem := m.s.members[id]
	if mem == nil {
		return nil, nil
	}
	cp := *mem
	return &cp, nil
}

func (s *memStore) memberStore() MemberStore { return memMemberStore{s} }

// ----- shared fixture -----

// testMonday is a Monday 00:00 UTC used as the current week by the
// fixed test clock.
var testMonday = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

// testNow is Wednesday noon of the current week.
var testNow = testMonday.Add(2*24*time.Hour + 12*time.Hour)

func fixedClock() time.Time { return testNow }

const (
	typeRooms    uint64 = 5
	resLab       uint64 = 100
	slotTypeHour uint64 = 1
	slotMorning  uint64 = 10
	slotNoon     uint64 = 11
	memberAnna   uint64 = 1
	memberBob    uint64 = 2
)

// newFixture seeds one published resource type with one resource whose
// slot type carries two hourly templates, plus two members.
func newFixture() *memStore {
	s := newMemStore()
	s.types[typeRooms] = &model.ResourceType{ID: typeRooms, Title: "Rooms", Published: true}
	s.resources[resLab] = &model.Resource{
		ID: resLab, ResourceTypeID: typeRooms, Title: "Lab", TimeSlotTypeID: slotTypeHour, Published: true,
	}
	s.slots[slotTypeHour] = []model.TimeSlot{
		{ID: slotMorning, TimeSlotTypeID: slotTypeHour, Title: "Morning", StartOffsetSec: 8 * 3600, EndOffsetSec: 9 * 3600, Sorting: 1, Published: true},
		{ID: slotNoon, TimeSlotTypeID: slotTypeHour, Title: "Noon", StartOffsetSec: 12 * 3600, EndOffsetSec: 13 * 3600, Sorting: 2, Published: true},
	}
	s.members[memberAnna] = &model.Member{ID: memberAnna, Email: "anna@example.org", FirstName: "Anna", LastName: "Smith"}
	s.members[memberBob] = &model.Member{ID: memberBob, Email: "bob@example.org", FirstName: "Bob", LastName: "Jones"}
	return s
}

func newTestEngine(s *memStore, hooks Hooks) *Engine {
	return NewEngine(s, s.slotStore(), s, s.memberStore(), nil,
		Horizon{BackWeeks: 1, AheadWeeks: 4, RepeatWeeks: 4}, hooks, fixedClock)
}

// keyFor builds the slot key of a template occurrence on a weekday of
// a week, mirroring what the grid hands to clients.
func keyFor(s *memStore, slotID uint64, weekStart time.Time, weekday int) string {
	var tpl model.TimeSlot
	for _, t := range s.slots[slotTypeHour] {
		if t.ID == slotID {
			tpl = t
		}
	}
	day := weekStart.AddDate(0, 0, weekday)
	occ := Occurrence{
		TimeSlotID: slotID,
		Start:      day.Add(time.Duration(tpl.StartOffsetSec) * time.Second),
		End:        day.Add(time.Duration(tpl.EndOffsetSec) * time.Second),
		WeekStart:  weekStart,
	}
	return occ.SlotKey()
}
