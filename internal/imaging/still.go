package imaging

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kozaktomas/face-counter/internal/constants"
	"github.com/kozaktomas/face-counter/internal/pipeline"
)

var overlayColor = color.RGBA{B: 255, A: 255}

// StillFrame is a pipeline.Frame over a decoded still image.
type StillFrame struct {
	img     *image.RGBA
	quality int
}

// NewStillFrame copies img into a new frame.
func NewStillFrame(img image.Image, quality int) *StillFrame {
	return &StillFrame{img: ToRGBA(img), quality: quality}
}

// LoadStillFrame reads and decodes an image file.
func LoadStillFrame(path string, quality int) (*StillFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewStillFrame(img, quality), nil
}

// Image returns the frame including any annotations.
func (f *StillFrame) Image() image.Image {
	return f.img
}

func (f *StillFrame) JPEG() ([]byte, error) {
	return EncodeJPEG(f.img, f.quality)
}

func (f *StillFrame) Crop(r image.Rectangle) ([]byte, error) {
	return EncodeJPEG(Crop(f.img, r), f.quality)
}

func (f *StillFrame) Bounds() image.Rectangle {
	return f.img.Bounds()
}

// Annotate draws a box outline around r and the label above it.
func (f *StillFrame) Annotate(r image.Rectangle, label string) {
	r = r.Intersect(f.img.Bounds())
	t := constants.OverlayThickness

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if x < r.Min.X+t || x >= r.Max.X-t || y < r.Min.Y+t || y >= r.Max.Y-t {
				f.img.SetRGBA(x, y, overlayColor)
			}
		}
	}

	d := &font.Drawer{
		Dst:  f.img,
		Src:  image.NewUniform(overlayColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(r.Min.X, r.Min.Y-constants.OverlayLabelOffset),
	}
	d.DrawString(label)
}

func (f *StillFrame) Close() error {
	return nil
}

var _ pipeline.Frame = (*StillFrame)(nil)
