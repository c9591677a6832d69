package database

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestEncodeEmbedding_NumpyLayout(t *testing.T) {
	// numpy.array([1.0, -2.0]).tobytes() on a little-endian host
	want := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xc0,
	}

	got := EncodeEmbedding([]float64{1.0, -2.0})

	if len(got) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: expected 0x%02x, got 0x%02x", i, want[i], got[i])
		}
	}
}

func TestDecodeEmbedding(t *testing.T) {
	embedding := make([]float64, 128)
	for i := range embedding {
		embedding[i] = math.Sin(float64(i)) / 10
	}

	decoded, err := DecodeEmbedding(EncodeEmbedding(embedding))
	if err != nil {
		t.Fatalf("DecodeEmbedding failed: %v", err)
	}
	if len(decoded) != 128 {
		t.Fatalf("expected 128 values, got %d", len(decoded))
	}
	for i := range embedding {
		if decoded[i] != embedding[i] {
			t.Errorf("value %d: expected %v, got %v", i, embedding[i], decoded[i])
		}
	}
}

func TestDecodeEmbedding_Empty(t *testing.T) {
	decoded, err := DecodeEmbedding(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("expected empty embedding, got %d values", len(decoded))
	}
}

func TestDecodeEmbedding_InvalidLength(t *testing.T) {
	_, err := DecodeEmbedding([]byte{1, 2, 3})
	if !errors.Is(err, ErrInvalidEmbedding) {
		t.Errorf("expected ErrInvalidEmbedding, got %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	ref := time.Date(2024, 5, 1, 12, 34, 56, 123456000, time.UTC)

	tests := []struct {
		name  string
		input any
		want  time.Time
	}{
		{"RFC3339Nano", "2024-05-01T12:34:56.123456Z", ref},
		{"iso without zone", "2024-05-01T12:34:56.123456", ref},
		{"iso without zone bytes", []byte("2024-05-01T12:34:56.123456"), ref},
		{"sqlite default", "2024-05-01 12:34:56", time.Date(2024, 5, 1, 12, 34, 56, 0, time.UTC)},
		{"time value", ref, ref},
		{"nil", nil, time.Time{}},
		{"empty", "", time.Time{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
	if _, err := ParseTimestamp(42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestFormatTimestamp_RoundTrip(t *testing.T) {
	ref := time.Date(2024, 5, 1, 12, 34, 56, 789, time.FixedZone("CEST", 2*3600))

	got, err := ParseTimestamp(FormatTimestamp(ref))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(ref) {
		t.Errorf("expected %v, got %v", ref, got)
	}
}

func TestSummarize(t *testing.T) {
	p := Person{
		PersonID:  "Person_3",
		Embedding: make([]float64, 128),
		Image:     []byte{0xff, 0xd8, 0xff},
	}

	s := p.Summarize()

	if s.PersonID != "Person_3" || s.EmbeddingDim != 128 || s.ImageBytes != 3 {
		t.Errorf("unexpected summary: %+v", s)
	}
}

func TestValidateEmbedding(t *testing.T) {
	tests := []struct {
		name    string
		dims    int
		wantErr bool
	}{
		{"descriptor", 128, false},
		{"empty", 0, true},
		{"short", 127, true},
		{"long", 129, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmbedding(make([]float64, tt.dims))
			if tt.wantErr && !errors.Is(err, ErrInvalidEmbedding) {
				t.Errorf("expected ErrInvalidEmbedding, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
