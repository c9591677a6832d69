package capture

import (
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/kozaktomas/face-counter/internal/constants"
	"github.com/kozaktomas/face-counter/internal/pipeline"
)

// Window shows frames in an OpenCV highgui window.
type Window struct {
	win     *gocv.Window
	quitKey int
	log     logrus.FieldLogger
}

// NewWindow opens a window titled title. Pressing quitKey asks the loop to stop.
func NewWindow(title string, quitKey int, log logrus.FieldLogger) *Window {
	return &Window{
		win:     gocv.NewWindow(title),
		quitKey: quitKey,
		log:     log,
	}
}

// Show displays the frame and polls the keyboard once.
func (w *Window) Show(f pipeline.Frame) bool {
	mf, ok := f.(*MatFrame)
	if ok {
		w.win.IMShow(mf.Mat())
	} else if !w.showEncoded(f) {
		return false
	}

	key := w.win.WaitKey(constants.WaitKeyDelayMs)
	return key&0xFF == w.quitKey
}

// showEncoded displays frames that are not backed by a Mat.
func (w *Window) showEncoded(f pipeline.Frame) bool {
	data, err := f.JPEG()
	if err != nil {
		w.log.WithError(err).Warn("Failed to encode frame for display")
		return false
	}
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		w.log.WithError(err).Warn("Failed to decode frame for display")
		return false
	}
	defer mat.Close()
	w.win.IMShow(mat)
	return true
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

// Headless is a display that shows nothing and never asks to quit.
type Headless struct{}

func (Headless) Show(pipeline.Frame) bool { return false }

func (Headless) Close() error { return nil }

var (
	_ pipeline.Display = (*Window)(nil)
	_ pipeline.Display = Headless{}
)
