// Package pipeline runs the capture loop: read a frame, detect faces, match
// each face against known people, draw the result and show it.
package pipeline

import (
	"context"
	"errors"
	"image"

	"github.com/kozaktomas/face-counter/internal/tracker"
)

// ErrEndOfStream is returned by a Source when no further frame can be read.
var ErrEndOfStream = errors.New("end of stream")

// Frame is a single captured image.
type Frame interface {
	// JPEG encodes the whole frame
	JPEG() ([]byte, error)
	// Crop encodes the region r of the frame. r must lie within Bounds.
	Crop(r image.Rectangle) ([]byte, error)
	Bounds() image.Rectangle
	// Annotate draws a box around r with a label above it
	Annotate(r image.Rectangle, label string)
	Close() error
}

// Source produces frames until it returns ErrEndOfStream.
type Source interface {
	Next(ctx context.Context) (Frame, error)
}

// Face is one detected face with its embedding.
type Face struct {
	Rect      image.Rectangle
	Embedding []float64
}

// Detector finds faces in an encoded image.
type Detector interface {
	Detect(jpeg []byte) ([]Face, error)
}

// Display shows annotated frames. Show reports true when the user asked to quit.
type Display interface {
	Show(f Frame) bool
	Close() error
}

// Observer records one face sighting.
type Observer interface {
	Observe(ctx context.Context, obs tracker.Observation) (tracker.Sighting, error)
}
