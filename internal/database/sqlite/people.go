package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-counter/internal/database"
)

// PersonRepository provides SQLite-backed person storage.
type PersonRepository struct {
	db *DB
}

// NewPersonRepository creates a new SQLite person repository.
func NewPersonRepository(db *DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*database.Person, error) {
	var (
		p         database.Person
		encoding  []byte
		timestamp any
	)
	if err := row.Scan(&p.ID, &p.PersonID, &encoding, &p.Image, &timestamp); err != nil {
		return nil, err
	}

	embedding, err := database.DecodeEmbedding(encoding)
	if err != nil {
		return nil, fmt.Errorf("decode embedding of %s: %w", p.PersonID, err)
	}
	p.Embedding = embedding

	lastSeen, err := database.ParseTimestamp(timestamp)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp of %s: %w", p.PersonID, err)
	}
	p.LastSeen = lastSeen

	return &p, nil
}

// GetPerson retrieves a person by identifier, returns nil if not found.
// Tables with duplicate identifiers resolve to the earliest row.
func (r *PersonRepository) GetPerson(ctx context.Context, personID string) (*database.Person, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, person_id, face_encoding, image, timestamp
		FROM people
		WHERE person_id = ?
		ORDER BY id
		LIMIT 1
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
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, person_id, face_encoding, image, timestamp
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

// Count returns the number of distinct identifiers stored.
func (r *PersonRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT person_id) FROM people").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	return count, nil
}

// NextPersonNumber returns one past the highest person number ever saved.
func (r *PersonRepository) NextPersonNumber(ctx context.Context) (int, error) {
	var next int
	err := r.db.db.QueryRowContext(ctx, "SELECT next_number FROM person_sequence WHERE id = 1").Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read person sequence: %w", err)
	}
	return next, nil
}

// SavePerson updates the row for p.PersonID or inserts one if none exists.
func (r *PersonRepository) SavePerson(ctx context.Context, p database.Person) error {
	if err := database.ValidateEmbedding(p.Embedding); err != nil {
		return fmt.Errorf("save %s: %w", p.PersonID, err)
	}

	tx, err := r.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	encoding := database.EncodeEmbedding(p.Embedding)
	timestamp := database.FormatTimestamp(p.LastSeen)

	var id int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM people WHERE person_id = ? ORDER BY id LIMIT 1", p.PersonID).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO people (person_id, face_encoding, image, timestamp)
			VALUES (?, ?, ?, ?)
		`, p.PersonID, encoding, p.Image, timestamp)
		if err != nil {
			return fmt.Errorf("insert person: %w", err)
		}
	case err != nil:
		return fmt.Errorf("lookup person: %w", err)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE people SET face_encoding = ?, image = ?, timestamp = ? WHERE person_id = ?
		`, encoding, p.Image, timestamp, p.PersonID)
		if err != nil {
			return fmt.Errorf("update person: %w", err)
		}
	}

	if n, ok := database.PersonNumber(p.PersonID); ok {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO person_sequence (id, next_number) VALUES (1, ?)
			ON CONFLICT (id) DO UPDATE SET next_number = MAX(next_number, excluded.next_number)
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

// DeletePerson removes every row for the identifier.
func (r *PersonRepository) DeletePerson(ctx context.Context, personID string) (bool, error) {
	result, err := r.db.db.ExecContext(ctx, "DELETE FROM people WHERE person_id = ?", personID)
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	return n > 0, nil
}
