package capture

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/kozaktomas/face-counter/internal/constants"
)

// overlayColor is pure blue; gocv converts RGBA to OpenCV's BGR order.
var overlayColor = color.RGBA{R: 0, G: 0, B: 255, A: 0}

// MatFrame is a captured OpenCV frame.
type MatFrame struct {
	mat     gocv.Mat
	quality int
}

// NewMatFrame takes ownership of mat.
func NewMatFrame(mat gocv.Mat, quality int) *MatFrame {
	return &MatFrame{mat: mat, quality: quality}
}

// Mat returns the underlying image.
func (f *MatFrame) Mat() gocv.Mat {
	return f.mat
}

func (f *MatFrame) JPEG() ([]byte, error) {
	return encodeJPEG(f.mat, f.quality)
}

func (f *MatFrame) Crop(r image.Rectangle) ([]byte, error) {
	region := f.mat.Region(r)
	defer region.Close()
	return encodeJPEG(region, f.quality)
}

func (f *MatFrame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.mat.Cols(), f.mat.Rows())
}

// Annotate draws a blue box around r and the label just above its top-left corner.
func (f *MatFrame) Annotate(r image.Rectangle, label string) {
	gocv.Rectangle(&f.mat, r, overlayColor, constants.OverlayThickness)
	gocv.PutText(&f.mat, label, image.Pt(r.Min.X, r.Min.Y-constants.OverlayLabelOffset),
		gocv.FontHersheySimplex, constants.OverlayFontScale, overlayColor, constants.OverlayThickness)
}

func (f *MatFrame) Close() error {
	return f.mat.Close()
}

func encodeJPEG(mat gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close
	return append([]byte(nil), buf.GetBytes()...), nil
}
