package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/face-counter/internal/tracker"
)

// Result describes one face in a processed frame.
type Result struct {
	Rect     image.Rectangle
	Sighting tracker.Sighting
}

// Processor handles the faces of a single frame.
type Processor struct {
	detector Detector
	observer Observer
	log      logrus.FieldLogger
}

// NewProcessor creates a processor. A nil logger discards debug output.
func NewProcessor(detector Detector, observer Observer, log logrus.FieldLogger) *Processor {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Processor{detector: detector, observer: observer, log: log}
}

// Process detects the faces in frame, records a sighting for each and draws
// its box and person id onto the frame.
func (p *Processor) Process(ctx context.Context, frame Frame) ([]Result, error) {
	data, err := frame.JPEG()
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	faces, err := p.detector.Detect(data)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	bounds := frame.Bounds()
	results := make([]Result, 0, len(faces))

	for _, face := range faces {
		rect := face.Rect.Intersect(bounds)
		if rect.Empty() {
			p.log.WithField("rect", face.Rect).Debug("Skipping face outside frame")
			continue
		}

		crop, err := frame.Crop(rect)
		if err != nil {
			return results, fmt.Errorf("crop face: %w", err)
		}

		sighting, err := p.observer.Observe(ctx, tracker.Observation{
			Embedding: face.Embedding,
			Image:     crop,
		})
		if err != nil {
			return results, err
		}

		p.log.WithFields(logrus.Fields{
			"person":   sighting.PersonID,
			"distance": sighting.Distance,
			"new":      sighting.New,
		}).Debug("Face observed")

		frame.Annotate(rect, sighting.PersonID)
		results = append(results, Result{Rect: rect, Sighting: sighting})
	}

	return results, nil
}
