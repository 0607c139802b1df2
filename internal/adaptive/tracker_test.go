package adaptive

import (
	"context"
	"testing"
	"time"
)

func TestTrackerRepeatedFailures(t *testing.T) {
	store := newMemStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	wantActions := []string{OutcomeCreated, OutcomeIncremented, OutcomeIncremented}
	for i, want := range wantActions {
		action, count, err := tracker.RecordOutcome(ctx, 1, "recursion", false)
		if err != nil {
			t.Fatalf("RecordOutcome failure %d: %v", i+1, err)
		}
		if action != want {
			t.Errorf("failure %d: action = %q, want %q", i+1, action, want)
		}
		if count != i+1 {
			t.Errorf("failure %d: count = %d, want %d", i+1, count, i+1)
		}
	}

	wc := store.concepts[key(1, "recursion")]
	if wc == nil {
		t.Fatal("expected weak concept row after three failures")
	}
	if wc.FailureCount != 3 {
		t.Errorf("FailureCount = %d, want 3", wc.FailureCount)
	}
	if got := wc.RecommendedReviewAt.Sub(wc.LastFailedAt); got != ReviewDelay {
		t.Errorf("review delay = %v, want %v", got, ReviewDelay)
	}
}

func TestTrackerCorrectAnswerClearsConcept(t *testing.T) {
	store := newMemStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	if _, _, err := tracker.RecordOutcome(ctx, 1, "pointers", false); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	action, _, err := tracker.RecordOutcome(ctx, 1, "pointers", true)
	if err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if action != OutcomeRemoved {
		t.Errorf("action = %q, want %q", action, OutcomeRemoved)
	}
	if _, ok := store.concepts[key(1, "pointers")]; ok {
		t.Error("weak concept row should be deleted after a correct answer")
	}

	// A correct answer with no standing row is a no-op, not an error.
	action, _, err = tracker.RecordOutcome(ctx, 1, "pointers", true)
	if err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if action != OutcomeNoop {
		t.Errorf("action = %q, want %q", action, OutcomeNoop)
	}
}

func TestTrackerDueForReview(t *testing.T) {
	store := newMemStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	store.RecordFailure(ctx, 1, "slices", past, past)
	store.RecordFailure(ctx, 1, "slices", past, past)
	store.RecordFailure(ctx, 1, "slices", past, past)
	store.RecordFailure(ctx, 1, "maps", past, past)
	store.RecordFailure(ctx, 1, "maps", past, past)
	store.RecordFailure(ctx, 1, "channels", past, past)
	store.RecordFailure(ctx, 1, "goroutines", past, future) // not due yet
	store.RecordFailure(ctx, 2, "slices", past, past)       // another user

	ids, err := tracker.DueForReview(ctx, 1, 10)
	if err != nil {
		t.Fatalf("DueForReview: %v", err)
	}
	want := []string{"slices", "maps", "channels"}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	// Limit caps the list, keeping the worst concepts.
	ids, err = tracker.DueForReview(ctx, 1, 1)
	if err != nil {
		t.Fatalf("DueForReview: %v", err)
	}
	if len(ids) != 1 || ids[0] != "slices" {
		t.Errorf("got %v, want [slices]", ids)
	}
}
