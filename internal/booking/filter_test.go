package booking

import (
	"context"
	"testing"
	"time"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// mapFilterStore is a trivial FilterStore for the normalization tests.
type mapFilterStore struct {
	states map[string]model.FilterState
	saves  int
}

func newMapFilterStore() *mapFilterStore {
	return &mapFilterStore{states: make(map[string]model.FilterState)}
}

func (m *mapFilterStore) Load(_ context.Context, key string) (*model.FilterState, error) {
	st, ok := m.states[key]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (m *mapFilterStore) Save(_ context.Context, state model.FilterState) error {
	m.states[state.SessionKey] = state
	m.saves++
	return nil
}

func TestApplyFilterNormalization(t *testing.T) {
	s := newFixture()
	s.types[6] = &model.ResourceType{ID: 6, Title: "Unpublished", Published: false}
	eng := newTestEngine(s, nil)

	cases := []struct {
		name       string
		typeID     uint64
		resourceID uint64
		week       time.Time
		wantType   uint64
		wantRes    uint64
		wantWeek   time.Time
	}{
		{"full valid selection", typeRooms, resLab, AddWeeks(testMonday, 2), typeRooms, resLab, AddWeeks(testMonday, 2)},
		{"unknown type resets both", 777, resLab, testMonday, 0, 0, testMonday},
		{"unpublished type resets both", 6, resLab, testMonday, 0, 0, testMonday},
		{"resource without type resets resource", 0, resLab, testMonday, 0, 0, testMonday},
		{"resource foreign to type resets resource", typeRooms, 999, testMonday, typeRooms, 0, testMonday},
		{"week clamped to latest", typeRooms, resLab, AddWeeks(testMonday, 40), typeRooms, resLab, AddWeeks(testMonday, 4)},
		{"week clamped to earliest", typeRooms, resLab, AddWeeks(testMonday, -9), typeRooms, resLab, AddWeeks(testMonday, -1)},
		{"non-monday week falls back to current", typeRooms, resLab, testNow, typeRooms, resLab, testMonday},
		{"zero week falls back to current", typeRooms, resLab, time.Time{}, typeRooms, resLab, testMonday},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMapFilterStore()
			state, err := eng.ApplyFilter(context.Background(), store, "1:main", tc.typeID, tc.resourceID, tc.week)
			if err != nil {
				t.Fatalf("ApplyFilter: %v", err)
			}
			if state.ResourceTypeID != tc.wantType {
				t.Errorf("ResourceTypeID = %d, want %d", state.ResourceTypeID, tc.wantType)
			}
			if state.ResourceID != tc.wantRes {
				t.Errorf("ResourceID = %d, want %d", state.ResourceID, tc.wantRes)
			}
			if !state.WeekStart.Equal(tc.wantWeek) {
				t.Errorf("WeekStart = %v, want %v", state.WeekStart, tc.wantWeek)
			}
			saved, _ := store.Load(context.Background(), "1:main")
			if saved == nil || *saved != state {
				t.Error("normalized state not persisted verbatim")
			}
		})
	}
}

func TestApplyFilterIdempotent(t *testing.T) {
	s := newFixture()
	eng := newTestEngine(s, nil)
	store := newMapFilterStore()

	first, err := eng.ApplyFilter(context.Background(), store, "1:main", typeRooms, resLab, AddWeeks(testMonday, 1))
	if err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}
	second, err := eng.ApplyFilter(context.Background(), store, "1:main", typeRooms, resLab, AddWeeks(testMonday, 1))
	if err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}
	if first != second {
		t.Errorf("repeated ApplyFilter diverged: %+v vs %+v", first, second)
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want one per call", store.saves)
	}
}
