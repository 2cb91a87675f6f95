package session

import (
	"context"
	"testing"
	"time"

	"github.com/weekbook/resource-booking-api/internal/model"
)

func TestFilterStoreMemoryFallback(t *testing.T) {
	store := NewFilterStore(nil, 0)
	ctx := context.Background()

	got, err := store.Load(ctx, "1:main")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Fatalf("Load on empty store = %+v, want nil", got)
	}

	state := model.FilterState{
		SessionKey:     "1:main",
		ResourceTypeID: 5,
		ResourceID:     100,
		WeekStart:      time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err = store.Load(ctx, "1:main")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || *got != state {
		t.Fatalf("Load = %+v, want %+v", got, state)
	}

	// Overwrite wins.
	state.ResourceID = 0
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ = store.Load(ctx, "1:main")
	if got.ResourceID != 0 {
		t.Errorf("ResourceID after overwrite = %d, want 0", got.ResourceID)
	}

	// Other sessions are unaffected.
	other, err := store.Load(ctx, "2:main")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if other != nil {
		t.Errorf("foreign session = %+v, want nil", other)
	}
}

func TestFilterStoreSessionsAreIndependent(t *testing.T) {
	store := NewFilterStore(nil, time.Minute)
	ctx := context.Background()

	a := model.FilterState{SessionKey: "1:main", ResourceTypeID: 1}
	b := model.FilterState{SessionKey: "1:sidebar", ResourceTypeID: 2}
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, b); err != nil {
		t.Fatalf("Save: %v", err)
	}

	gotA, _ := store.Load(ctx, "1:main")
	gotB, _ := store.Load(ctx, "1:sidebar")
	if gotA == nil || gotA.ResourceTypeID != 1 {
		t.Errorf("main session = %+v, want type 1", gotA)
	}
	if gotB == nil || gotB.ResourceTypeID != 2 {
		t.Errorf("sidebar session = %+v, want type 2", gotB)
	}
}
