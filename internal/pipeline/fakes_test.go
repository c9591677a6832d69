package pipeline

import (
	"context"
	"errors"
	"image"
)

type annotation struct {
	rect  image.Rectangle
	label string
}

type fakeFrame struct {
	id          int
	bounds      image.Rectangle
	crops       []image.Rectangle
	annotations []annotation
	closed      bool
	jpegErr     error
}

func (f *fakeFrame) JPEG() ([]byte, error) {
	if f.jpegErr != nil {
		return nil, f.jpegErr
	}
	return []byte{byte(f.id)}, nil
}

func (f *fakeFrame) Crop(r image.Rectangle) ([]byte, error) {
	if !r.In(f.bounds) {
		return nil, errors.New("crop outside frame")
	}
	f.crops = append(f.crops, r)
	return []byte{byte(f.id), byte(r.Min.X)}, nil
}

func (f *fakeFrame) Bounds() image.Rectangle { return f.bounds }

func (f *fakeFrame) Annotate(r image.Rectangle, label string) {
	f.annotations = append(f.annotations, annotation{rect: r, label: label})
}

func (f *fakeFrame) Close() error {
	f.closed = true
	return nil
}

// fakeSource hands out n frames, then ErrEndOfStream.
type fakeSource struct {
	n      int
	frames []*fakeFrame
	err    error
}

func (s *fakeSource) Next(ctx context.Context) (Frame, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.frames) >= s.n {
		return nil, ErrEndOfStream
	}
	f := &fakeFrame{id: len(s.frames), bounds: image.Rect(0, 0, 640, 480)}
	s.frames = append(s.frames, f)
	return f, nil
}

// fakeDetector returns the faces keyed by the first byte of the JPEG (the frame id).
type fakeDetector struct {
	faces  map[byte][]Face
	all    []Face
	err    error
	cancel context.CancelFunc // called on every Detect, like a signal arriving mid-detection
}

func (d *fakeDetector) Detect(jpeg []byte) ([]Face, error) {
	if d.cancel != nil {
		d.cancel()
	}
	if d.err != nil {
		return nil, d.err
	}
	if faces, ok := d.faces[jpeg[0]]; ok {
		return faces, nil
	}
	return d.all, nil
}

type fakeDisplay struct {
	shown    int
	quitAt   int // quit when shown reaches this count, 0 never
	closed   bool
	cancel   context.CancelFunc
	cancelAt int
}

func (d *fakeDisplay) Show(f Frame) bool {
	d.shown++
	if d.cancel != nil && d.shown == d.cancelAt {
		d.cancel()
	}
	return d.quitAt > 0 && d.shown >= d.quitAt
}

func (d *fakeDisplay) Close() error {
	d.closed = true
	return nil
}

func embedding(x float64) []float64 {
	e := make([]float64, 128)
	e[0] = x
	return e
}
