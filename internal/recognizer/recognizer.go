// Package recognizer detects faces and computes their 128-d descriptors with
// dlib, through go-face.
package recognizer

import (
	"fmt"

	face "github.com/Kagami/go-face"

	"github.com/kozaktomas/face-counter/internal/pipeline"
)

// Recognizer is a pipeline.Detector.
// The model directory must contain shape_predictor_5_face_landmarks.dat and
// dlib_face_recognition_resnet_model_v1.dat, plus mmod_human_face_detector.dat
// for CNN detection.
type Recognizer struct {
	rec *face.Recognizer
	cnn bool
}

// New loads the dlib models from modelsDir. cnn selects the slower, more
// accurate CNN detector instead of HOG.
func New(modelsDir string, cnn bool) (*Recognizer, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load models from %s: %w", modelsDir, err)
	}
	return &Recognizer{rec: rec, cnn: cnn}, nil
}

// Detect finds every face in a JPEG image.
func (r *Recognizer) Detect(jpeg []byte) ([]pipeline.Face, error) {
	var (
		faces []face.Face
		err   error
	)
	if r.cnn {
		faces, err = r.rec.RecognizeCNN(jpeg)
	} else {
		faces, err = r.rec.Recognize(jpeg)
	}
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}

	result := make([]pipeline.Face, len(faces))
	for i, f := range faces {
		result[i] = pipeline.Face{
			Rect:      f.Rectangle,
			Embedding: Descriptor(f.Descriptor),
		}
	}
	return result, nil
}

// Close releases the dlib models.
func (r *Recognizer) Close() {
	r.rec.Close()
}

// Descriptor widens a dlib descriptor to the stored float64 form.
func Descriptor(d face.Descriptor) []float64 {
	out := make([]float64, len(d))
	for i, v := range d {
		out[i] = float64(v)
	}
	return out
}

var _ pipeline.Detector = (*Recognizer)(nil)
