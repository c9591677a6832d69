package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kozaktomas/face-counter/internal/database"
	"github.com/kozaktomas/face-counter/internal/database/mock"
)

func embedding(x float64) []float64 {
	e := make([]float64, 128)
	e[0] = x
	return e
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTracker(t *testing.T, store *mock.MockPersonStore) (*Tracker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	tr, err := New(context.Background(), store, 0.6, WithClock(clock.now))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return tr, clock
}

func TestObserve_NewPersonWhenFarFromAll(t *testing.T) {
	store := mock.NewMockPersonStore()
	tr, _ := newTracker(t, store)
	ctx := context.Background()

	first, err := tr.Observe(ctx, Observation{Embedding: embedding(0), Image: []byte{1}})
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if !first.New || first.PersonID != "Person_0" {
		t.Errorf("Expected new Person_0, got %+v", first)
	}

	second, err := tr.Observe(ctx, Observation{Embedding: embedding(1), Image: []byte{2}})
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if !second.New || second.PersonID != "Person_1" {
		t.Errorf("Expected new Person_1, got %+v", second)
	}

	count, _ := store.Count(ctx)
	if count != 2 {
		t.Errorf("Expected 2 stored people, got %d", count)
	}
}

func TestObserve_MatchUpdatesExisting(t *testing.T) {
	store := mock.NewMockPersonStore()
	tr, clock := newTracker(t, store)
	ctx := context.Background()

	if _, err := tr.Observe(ctx, Observation{Embedding: embedding(0), Image: []byte{1}}); err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	firstSeen := clock.t

	s, err := tr.Observe(ctx, Observation{Embedding: embedding(0.25), Image: []byte{2}})
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if s.New || s.PersonID != "Person_0" {
		t.Errorf("Expected match with Person_0, got %+v", s)
	}
	if s.Distance != 0.25 {
		t.Errorf("Expected distance 0.25, got %v", s.Distance)
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Fatalf("Expected 1 stored person, got %d", count)
	}

	p, err := store.GetPerson(ctx, "Person_0")
	if err != nil || p == nil {
		t.Fatalf("GetPerson() = %v, %v", p, err)
	}
	if p.Image[0] != 2 {
		t.Errorf("Expected updated image, got %v", p.Image)
	}
	if !p.LastSeen.After(firstSeen) {
		t.Errorf("Expected timestamp after %v, got %v", firstSeen, p.LastSeen)
	}
	if p.Embedding[0] != 0.25 {
		t.Errorf("Expected stored embedding to be the latest sighting, got %v", p.Embedding[0])
	}
}

func TestObserve_MatchesAgainstEnrolledEmbedding(t *testing.T) {
	store := mock.NewMockPersonStore()
	tr, _ := newTracker(t, store)
	ctx := context.Background()

	// Steps smaller than the tolerance do not drag an identity along
	var got []string
	for _, x := range []float64{0, 0.5, 1.0, 1.5} {
		s, err := tr.Observe(ctx, Observation{Embedding: embedding(x)})
		if err != nil {
			t.Fatalf("Observe() error: %v", err)
		}
		got = append(got, s.PersonID)
	}

	want := []string{"Person_0", "Person_0", "Person_1", "Person_1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}

	// The store still holds the latest sighting of each person
	p, err := store.GetPerson(ctx, "Person_0")
	if err != nil || p == nil {
		t.Fatalf("GetPerson() = %v, %v", p, err)
	}
	if p.Embedding[0] != 0.5 {
		t.Errorf("Expected stored embedding 0.5, got %v", p.Embedding[0])
	}
}

func TestObserve_RepeatedIdenticalInput(t *testing.T) {
	store := mock.NewMockPersonStore()
	tr, _ := newTracker(t, store)
	ctx := context.Background()

	obs := Observation{Embedding: embedding(0.3), Image: []byte{9}}
	for i := 0; i < 5; i++ {
		if _, err := tr.Observe(ctx, obs); err != nil {
			t.Fatalf("Observe() error: %v", err)
		}
	}

	people, _ := store.ListPeople(ctx)
	if len(people) != 1 {
		t.Fatalf("Expected 1 person, got %d", len(people))
	}
	if store.Saves() != 5 {
		t.Errorf("Expected 5 saves, got %d", store.Saves())
	}
}

func TestNew_LoadsStoredPeople(t *testing.T) {
	store := mock.NewMockPersonStore()
	store.AddPerson(database.Person{PersonID: "Person_0", Embedding: embedding(0)})
	store.AddPerson(database.Person{PersonID: "Person_3", Embedding: embedding(5)})

	tr, _ := newTracker(t, store)
	ctx := context.Background()

	if tr.Known() != 2 {
		t.Errorf("Expected 2 known people, got %d", tr.Known())
	}

	s, err := tr.Observe(ctx, Observation{Embedding: embedding(5.1)})
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if s.New || s.PersonID != "Person_3" {
		t.Errorf("Expected match with stored Person_3, got %+v", s)
	}

	s, err = tr.Observe(ctx, Observation{Embedding: embedding(10)})
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if s.PersonID != "Person_4" {
		t.Errorf("Expected next id Person_4, got %s", s.PersonID)
	}
}

func TestNew_DeletedNumbersNotReused(t *testing.T) {
	store := mock.NewMockPersonStore()
	tr, _ := newTracker(t, store)
	ctx := context.Background()

	for _, x := range []float64{0, 5} {
		if _, err := tr.Observe(ctx, Observation{Embedding: embedding(x)}); err != nil {
			t.Fatalf("Observe() error: %v", err)
		}
	}
	if _, err := store.DeletePerson(ctx, "Person_1"); err != nil {
		t.Fatalf("DeletePerson() error: %v", err)
	}

	restarted, _ := newTracker(t, store)
	s, err := restarted.Observe(ctx, Observation{Embedding: embedding(10)})
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if s.PersonID != "Person_2" {
		t.Errorf("Expected Person_2 after deleting Person_1, got %s", s.PersonID)
	}
}

func TestNew_SequenceError(t *testing.T) {
	store := mock.NewMockPersonStore()
	store.SequenceError = errors.New("boom")

	if _, err := New(context.Background(), store, 0.6); !errors.Is(err, store.SequenceError) {
		t.Errorf("Expected wrapped sequence error, got %v", err)
	}
}

func TestObserve_RejectsWrongDimension(t *testing.T) {
	store := mock.NewMockPersonStore()
	tr, _ := newTracker(t, store)

	_, err := tr.Observe(context.Background(), Observation{Embedding: []float64{0, 0}})
	if !errors.Is(err, database.ErrInvalidEmbedding) {
		t.Errorf("Expected ErrInvalidEmbedding, got %v", err)
	}
	if store.Saves() != 0 || tr.Known() != 0 {
		t.Errorf("Expected nothing recorded, got %d saves, %d known", store.Saves(), tr.Known())
	}
}

func TestNew_ListError(t *testing.T) {
	store := mock.NewMockPersonStore()
	store.ListError = errors.New("boom")

	if _, err := New(context.Background(), store, 0.6); err == nil {
		t.Error("Expected error when the store cannot be listed")
	}
}

func TestObserve_SaveError(t *testing.T) {
	store := mock.NewMockPersonStore()
	tr, _ := newTracker(t, store)
	store.SaveError = errors.New("disk full")

	if _, err := tr.Observe(context.Background(), Observation{Embedding: embedding(0)}); !errors.Is(err, store.SaveError) {
		t.Errorf("Expected wrapped save error, got %v", err)
	}
	if tr.Known() != 0 {
		t.Errorf("Expected failed insert to leave the gallery untouched, got %d", tr.Known())
	}
}

func TestIdentify_ReadOnly(t *testing.T) {
	store := mock.NewMockPersonStore()
	store.AddPerson(database.Person{PersonID: "Person_0", Embedding: embedding(0)})
	tr, _ := newTracker(t, store)

	id, _, matched := tr.Identify(embedding(0.1))
	if !matched || id != "Person_0" {
		t.Errorf("Expected Person_0, got %q (matched=%v)", id, matched)
	}
	if _, _, matched := tr.Identify(embedding(3)); matched {
		t.Error("Expected no match far away")
	}
	if store.Saves() != 0 {
		t.Errorf("Expected no writes, got %d", store.Saves())
	}
}
