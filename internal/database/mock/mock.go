// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-counter/internal/database"
)

// MockPersonStore is an in-memory implementation of database.PersonWriter
type MockPersonStore struct {
	mu     sync.RWMutex
	people []database.Person
	nextID int64

	// nextNumber never decreases, like the person_sequence table
	nextNumber int

	// Error injection
	GetError      error
	ListError     error
	CountError    error
	SequenceError error
	SaveError     error
	DeleteError   error

	// SaveCalls counts successful SavePerson calls
	SaveCalls int
}

// NewMockPersonStore creates a new mock person store
func NewMockPersonStore() *MockPersonStore {
	return &MockPersonStore{nextID: 1}
}

// AddPerson seeds the store without going through SavePerson
func (m *MockPersonStore) AddPerson(p database.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	m.people = append(m.people, clonePerson(p))
	m.advance(p.PersonID)
}

// SetNextPersonNumber seeds the sequence, e.g. to simulate deleted people
func (m *MockPersonStore) SetNextPersonNumber(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextNumber = max(m.nextNumber, n)
}

func (m *MockPersonStore) advance(personID string) {
	if n, ok := database.PersonNumber(personID); ok {
		m.nextNumber = max(m.nextNumber, n+1)
	}
}

func clonePerson(p database.Person) database.Person {
	p.Embedding = append([]float64(nil), p.Embedding...)
	if p.Image != nil {
		p.Image = append([]byte(nil), p.Image...)
	}
	return p
}

func (m *MockPersonStore) indexOf(personID string) int {
	for i := range m.people {
		if m.people[i].PersonID == personID {
			return i
		}
	}
	return -1
}

// GetPerson retrieves a person by identifier
func (m *MockPersonStore) GetPerson(ctx context.Context, personID string) (*database.Person, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(personID)
	if i < 0 {
		return nil, nil
	}
	p := clonePerson(m.people[i])
	return &p, nil
}

// ListPeople returns every person in insertion order
func (m *MockPersonStore) ListPeople(ctx context.Context) ([]database.Person, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.Person, len(m.people))
	for i, p := range m.people {
		out[i] = clonePerson(p)
	}
	return out, nil
}

// Count returns the number of stored people
func (m *MockPersonStore) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.people), nil
}

// NextPersonNumber returns one past the highest person number ever saved
func (m *MockPersonStore) NextPersonNumber(ctx context.Context) (int, error) {
	if m.SequenceError != nil {
		return 0, m.SequenceError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nextNumber, nil
}

// SavePerson inserts or replaces a person. Like database/sql it fails once
// ctx is done.
func (m *MockPersonStore) SavePerson(ctx context.Context, p database.Person) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	m.advance(p.PersonID)
	if i := m.indexOf(p.PersonID); i >= 0 {
		p.ID = m.people[i].ID
		m.people[i] = clonePerson(p)
		return nil
	}
	p.ID = m.nextID
	m.nextID++
	m.people = append(m.people, clonePerson(p))
	return nil
}

// DeletePerson removes a person
func (m *MockPersonStore) DeletePerson(ctx context.Context, personID string) (bool, error) {
	if m.DeleteError != nil {
		return false, m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(personID)
	if i < 0 {
		return false, nil
	}
	m.people = append(m.people[:i], m.people[i+1:]...)
	return true, nil
}

// Saves returns the number of successful SavePerson calls
func (m *MockPersonStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.SaveCalls
}

// Ensure interface is implemented
var _ database.PersonWriter = (*MockPersonStore)(nil)
