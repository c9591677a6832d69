// Package capture reads frames from a camera and shows annotated frames in a
// window, using OpenCV through gocv.
package capture

import (
	"context"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/kozaktomas/face-counter/internal/pipeline"
)

// Camera is a pipeline.Source backed by an OpenCV video capture.
type Camera struct {
	vc      *gocv.VideoCapture
	device  string
	quality int
	log     logrus.FieldLogger
}

// OpenCamera opens a device index ("0"), a file path or a stream URL.
// A device that cannot be opened is logged, not returned as an error: the
// camera then reports end of stream on the first read.
func OpenCamera(device string, width, height, quality int, log logrus.FieldLogger) *Camera {
	c := &Camera{device: device, quality: quality, log: log}

	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		log.WithError(err).WithField("device", device).Error("Could not open video source")
		if vc != nil {
			vc.Close()
		}
		return c
	}

	if width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
	}
	if height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}

	log.WithFields(logrus.Fields{
		"device": device,
		"width":  int(vc.Get(gocv.VideoCaptureFrameWidth)),
		"height": int(vc.Get(gocv.VideoCaptureFrameHeight)),
	}).Info("Camera opened")

	c.vc = vc
	return c
}

// Opened reports whether the device was opened.
func (c *Camera) Opened() bool {
	return c.vc != nil && c.vc.IsOpened()
}

// Next reads the next frame. A failed read or an empty frame ends the stream.
func (c *Camera) Next(ctx context.Context) (pipeline.Frame, error) {
	if c.vc == nil {
		return nil, pipeline.ErrEndOfStream
	}

	mat := gocv.NewMat()
	if ok := c.vc.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		c.log.WithField("device", c.device).Info("No more frames")
		return nil, pipeline.ErrEndOfStream
	}
	return NewMatFrame(mat, c.quality), nil
}

// Close releases the device.
func (c *Camera) Close() error {
	if c.vc == nil {
		return nil
	}
	return c.vc.Close()
}

var _ pipeline.Source = (*Camera)(nil)
