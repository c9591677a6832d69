package database

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kozaktomas/face-counter/internal/constants"
)

// ErrInvalidEmbedding is returned for an embedding of the wrong size.
var ErrInvalidEmbedding = errors.New("invalid embedding blob")

// ValidateEmbedding checks that an embedding has the descriptor dimension
// produced by the recognizer.
func ValidateEmbedding(embedding []float64) error {
	if len(embedding) != constants.EmbeddingDim {
		return fmt.Errorf("%w: %d dimensions, want %d", ErrInvalidEmbedding, len(embedding), constants.EmbeddingDim)
	}
	return nil
}

// EncodeEmbedding serializes an embedding as consecutive little-endian float64 values.
// This is the layout of numpy's float64 tobytes() on little-endian hosts.
func EncodeEmbedding(embedding []float64) []byte {
	buf := make([]byte, 8*len(embedding))
	for i, v := range embedding {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// DecodeEmbedding parses a blob written by EncodeEmbedding.
func DecodeEmbedding(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidEmbedding, len(blob))
	}
	embedding := make([]float64, len(blob)/8)
	for i := range embedding {
		embedding[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return embedding, nil
}

// timestampLayouts are tried in order when reading a stored timestamp
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999", // ISO 8601 without a zone
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999", // SQLite CURRENT_TIMESTAMP
}

// FormatTimestamp renders a last-seen time for storage.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp reads a stored last-seen value. Drivers hand back either a
// time.Time, a string or raw bytes depending on the column type.
func ParseTimestamp(v any) (time.Time, error) {
	switch tv := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return tv, nil
	case []byte:
		return parseTimestampString(string(tv))
	case string:
		return parseTimestampString(tv)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseTimestampString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
