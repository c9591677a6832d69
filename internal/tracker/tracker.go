// Package tracker decides whether an observed face belongs to a known person
// and keeps the store in step with that decision.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/face-counter/internal/database"
	"github.com/kozaktomas/face-counter/internal/facematch"
)

// Observation is one detected face.
type Observation struct {
	Embedding []float64
	Image     []byte // JPEG crop of the face
}

// Sighting is the outcome of an observation.
type Sighting struct {
	PersonID string
	Distance float64 // to the nearest known person before this sighting, +Inf if none
	New      bool
}

// Tracker matches observations against a gallery backed by a person store.
type Tracker struct {
	store   database.PersonWriter
	gallery *facematch.Gallery
	now     func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source used for last-seen timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New loads every stored person into a gallery with the given tolerance.
// Numbers of people deleted from the store are not handed out again.
func New(ctx context.Context, store database.PersonWriter, tolerance float64, opts ...Option) (*Tracker, error) {
	people, err := store.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("load people: %w", err)
	}
	next, err := store.NextPersonNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("load person sequence: %w", err)
	}

	entries := make([]facematch.Entry, len(people))
	for i, p := range people {
		entries[i] = facematch.Entry{PersonID: p.PersonID, Embedding: p.Embedding}
	}

	gallery := facematch.NewGallery(tolerance)
	gallery.Load(entries)
	gallery.Reserve(next)

	t := &Tracker{
		store:   store,
		gallery: gallery,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Known returns the number of people in the gallery.
func (t *Tracker) Known() int {
	return t.gallery.Len()
}

// Identify matches an embedding without touching the store.
func (t *Tracker) Identify(embedding []float64) (personID string, distance float64, matched bool) {
	return t.gallery.Match(embedding)
}

// Observe records a sighting. An unmatched face is enrolled under a new id;
// a matched face replaces the stored embedding, image and timestamp of the
// existing person. The gallery keeps matching against the embedding a person
// was enrolled with.
func (t *Tracker) Observe(ctx context.Context, obs Observation) (Sighting, error) {
	if err := database.ValidateEmbedding(obs.Embedding); err != nil {
		return Sighting{}, err
	}

	personID, dist, matched := t.gallery.Match(obs.Embedding)
	person := database.Person{
		Embedding: obs.Embedding,
		Image:     obs.Image,
		LastSeen:  t.now(),
	}

	if !matched {
		personID = t.gallery.NextID()
		person.PersonID = personID
		if err := t.store.SavePerson(ctx, person); err != nil {
			return Sighting{}, fmt.Errorf("insert %s: %w", personID, err)
		}
		t.gallery.Enroll(obs.Embedding)
		return Sighting{PersonID: personID, Distance: dist, New: true}, nil
	}

	person.PersonID = personID
	if err := t.store.SavePerson(ctx, person); err != nil {
		return Sighting{}, fmt.Errorf("update %s: %w", personID, err)
	}
	return Sighting{PersonID: personID, Distance: dist}, nil
}
