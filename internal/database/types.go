package database

import (
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/face-counter/internal/constants"
)

// Person is the single stored entity: one row per identifier
type Person struct {
	ID        int64     // storage row id
	PersonID  string    // "Person_N", unique
	Embedding []float64 // face descriptor of the latest sighting
	Image     []byte    // JPEG crop of the latest sighting
	LastSeen  time.Time
}

// Summary is a Person without its blobs, used for listings
type Summary struct {
	PersonID     string    `json:"person_id"`
	LastSeen     time.Time `json:"last_seen"`
	EmbeddingDim int       `json:"embedding_dim"`
	ImageBytes   int       `json:"image_bytes"`
}

// Summarize strips the blobs from a person record.
func (p *Person) Summarize() Summary {
	return Summary{
		PersonID:     p.PersonID,
		LastSeen:     p.LastSeen,
		EmbeddingDim: len(p.Embedding),
		ImageBytes:   len(p.Image),
	}
}

// PersonNumber returns N for an identifier of the form "Person_N".
func PersonNumber(personID string) (int, bool) {
	suffix, ok := strings.CutPrefix(personID, constants.PersonIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
