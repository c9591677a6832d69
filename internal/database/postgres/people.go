package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-counter/internal/database"
	"github.com/pgvector/pgvector-go"
)

// PersonRepository provides PostgreSQL-backed person storage.
// Embeddings are stored as pgvector values, so they round-trip at float32 precision.
type PersonRepository struct {
	pool *Pool
}

// NewPersonRepository creates a new PostgreSQL person repository.
func NewPersonRepository(pool *Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

// toVector narrows an embedding to a pgvector value. Postgres rejects
// zero-dimension vectors, so bad sizes are caught here.
func toVector(embedding []float64) (pgvector.Vector, error) {
	if err := database.ValidateEmbedding(embedding); err != nil {
		return pgvector.Vector{}, err
	}
	v := make([]float32, len(embedding))
	for i, f := range embedding {
		v[i] = float32(f)
	}
	return pgvector.NewVector(v), nil
}

func fromVector(v pgvector.Vector) []float64 {
	s := v.Slice()
	out := make([]float64, len(s))
	for i, f := range s {
		out[i] = float64(f)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*database.Person, error) {
	var (
		p      database.Person
		vector pgvector.Vector
	)
	if err := row.Scan(&p.ID, &p.PersonID, &vector, &p.Image, &p.LastSeen); err != nil {
		return nil, err
	}
	p.Embedding = fromVector(vector)
	return &p, nil
}

// GetPerson retrieves a person by identifier, returns nil if not found.
func (r *PersonRepository) GetPerson(ctx context.Context, personID string) (*database.Person, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, person_id, face_encoding, image, last_seen
		FROM people
		WHERE person_id = $1
	`, personID)

	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

// ListPeople returns every person in insertion order.
func (r *PersonRepository) ListPeople(ctx context.Context) ([]database.Person, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, person_id, face_encoding, image, last_seen
		FROM people
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

	var people []database.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}
	return people, nil
}

// Count returns the number of stored people.
func (r *PersonRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM people").Scan(&count); err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	return count, nil
}

// NextPersonNumber returns one past the highest person number ever saved.
func (r *PersonRepository) NextPersonNumber(ctx context.Context) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx, "SELECT next_number FROM person_sequence WHERE id = 1").Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read person sequence: %w", err)
	}
	return next, nil
}

// SavePerson inserts or replaces the row for p.PersonID.
func (r *PersonRepository) SavePerson(ctx context.Context, p database.Person) error {
	vector, err := toVector(p.Embedding)
	if err != nil {
		return fmt.Errorf("save %s: %w", p.PersonID, err)
	}

	tx, err := r.pool.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO people (person_id, face_encoding, image, last_seen)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (person_id) DO UPDATE SET
			face_encoding = EXCLUDED.face_encoding,
			image = EXCLUDED.image,
			last_seen = EXCLUDED.last_seen
	`, p.PersonID, vector, p.Image, p.LastSeen)
	if err != nil {
		return fmt.Errorf("save person: %w", err)
	}

	if n, ok := database.PersonNumber(p.PersonID); ok {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO person_sequence (id, next_number) VALUES (1, $1)
			ON CONFLICT (id) DO UPDATE SET
				next_number = GREATEST(person_sequence.next_number, EXCLUDED.next_number)
		`, n+1)
		if err != nil {
			return fmt.Errorf("advance person sequence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit person: %w", err)
	}
	return nil
}

// DeletePerson removes the person, reporting whether a row existed.
func (r *PersonRepository) DeletePerson(ctx context.Context, personID string) (bool, error) {
	result, err := r.pool.Exec(ctx, "DELETE FROM people WHERE person_id = $1", personID)
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	return n > 0, nil
}
