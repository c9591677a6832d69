package facematch

import (
	"math"
	"strconv"

	"github.com/kozaktomas/face-counter/internal/constants"
	"github.com/kozaktomas/face-counter/internal/database"
)

// Entry is one known person in the gallery
type Entry struct {
	PersonID  string
	Embedding []float64
}

// Gallery is an ordered list of known embeddings searched linearly. Each
// person keeps the embedding they were enrolled or loaded with.
// It is not safe for concurrent use.
type Gallery struct {
	tolerance float64
	entries   []Entry
	index     map[string]int
	next      int
}

// NewGallery creates an empty gallery. Embeddings closer than tolerance match.
func NewGallery(tolerance float64) *Gallery {
	return &Gallery{
		tolerance: tolerance,
		index:     make(map[string]int),
	}
}

// Tolerance returns the match threshold.
func (g *Gallery) Tolerance() float64 {
	return g.tolerance
}

// Load replaces the gallery contents with entries, keeping their order.
// A repeated person id keeps its first occurrence.
func (g *Gallery) Load(entries []Entry) {
	g.entries = make([]Entry, 0, len(entries))
	g.index = make(map[string]int, len(entries))
	g.next = 0

	for _, e := range entries {
		if _, dup := g.index[e.PersonID]; dup {
			continue
		}
		g.index[e.PersonID] = len(g.entries)
		g.entries = append(g.entries, Entry{PersonID: e.PersonID, Embedding: cloneEmbedding(e.Embedding)})

		if n, ok := database.PersonNumber(e.PersonID); ok && n+1 > g.next {
			g.next = n + 1
		}
	}
	if len(g.entries) > g.next {
		g.next = len(g.entries)
	}
}

// Nearest returns the closest entry and its distance. When several entries are
// equally close the earliest one wins. ok is false for an empty gallery.
func (g *Gallery) Nearest(embedding []float64) (Entry, float64, bool) {
	best := -1
	bestDist := math.Inf(1)

	for i, e := range g.entries {
		if d := EuclideanDistance(embedding, e.Embedding); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Entry{}, bestDist, false
	}
	return g.entries[best], bestDist, true
}

// Match returns the person id of the nearest entry if it lies strictly within
// the tolerance.
func (g *Gallery) Match(embedding []float64) (string, float64, bool) {
	e, dist, ok := g.Nearest(embedding)
	if !ok || dist >= g.tolerance {
		return "", dist, false
	}
	return e.PersonID, dist, true
}

// NextID returns the id the next Enroll call will assign.
func (g *Gallery) NextID() string {
	return FormatPersonID(g.next)
}

// Enroll appends a new person and returns the assigned id.
func (g *Gallery) Enroll(embedding []float64) string {
	id := g.NextID()
	g.next++
	g.index[id] = len(g.entries)
	g.entries = append(g.entries, Entry{PersonID: id, Embedding: cloneEmbedding(embedding)})
	return id
}

// Reserve makes sure no number below n is assigned, e.g. the numbers of
// people deleted from the store.
func (g *Gallery) Reserve(n int) {
	if n > g.next {
		g.next = n
	}
}

// Len returns the number of known people.
func (g *Gallery) Len() int {
	return len(g.entries)
}

// Entries returns a copy of the gallery in order.
func (g *Gallery) Entries() []Entry {
	out := make([]Entry, len(g.entries))
	for i, e := range g.entries {
		out[i] = Entry{PersonID: e.PersonID, Embedding: cloneEmbedding(e.Embedding)}
	}
	return out
}

// FormatPersonID renders the n-th identifier, e.g. "Person_3".
func FormatPersonID(n int) string {
	return constants.PersonIDPrefix + strconv.Itoa(n)
}

func cloneEmbedding(e []float64) []float64 {
	return append([]float64(nil), e...)
}
