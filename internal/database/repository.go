package database

import (
	"context"
)

// PersonReader provides read-only access to person records
type PersonReader interface {
	// GetPerson retrieves a person by identifier, returns nil if not found
	GetPerson(ctx context.Context, personID string) (*Person, error)
	// ListPeople returns every person in insertion order
	ListPeople(ctx context.Context) ([]Person, error)
	// Count returns the number of stored people
	Count(ctx context.Context) (int, error)
	// NextPersonNumber returns one past the highest Person_N number ever
	// saved, deleted people included. An empty store returns 0.
	NextPersonNumber(ctx context.Context) (int, error)
}

// PersonWriter provides write access to person records
type PersonWriter interface {
	PersonReader

	// SavePerson inserts the person or, if the identifier already exists,
	// replaces its embedding, image and timestamp. Repeating the call with
	// identical input leaves a single identical row. The person number
	// sequence is advanced in the same transaction.
	SavePerson(ctx context.Context, p Person) error

	// DeletePerson removes the person, returns false if it did not exist
	DeletePerson(ctx context.Context, personID string) (bool, error)
}
