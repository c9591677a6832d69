package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// StopReason tells why Run returned.
type StopReason string

const (
	StopEndOfStream StopReason = "end_of_stream"
	StopQuit        StopReason = "quit"
	StopMaxFrames   StopReason = "max_frames"
	StopCancelled   StopReason = "cancelled"
	StopError       StopReason = "error"
)

// Options configures Run.
type Options struct {
	// MaxFrames stops the loop after this many frames, 0 means unlimited
	MaxFrames int
	Log       logrus.FieldLogger
}

// Stats summarizes a run.
type Stats struct {
	Frames    int
	Faces     int
	NewPeople int
	Reason    StopReason
}

// Run reads frames from source until the stream ends, the display asks to
// quit, MaxFrames is reached or ctx is cancelled. Errors from the processor
// stop the loop and are returned together with the stats so far, except for
// ctx's own cancellation, which stops it cleanly.
func Run(ctx context.Context, source Source, proc *Processor, display Display, opts Options) (Stats, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			stats.Reason = StopCancelled
			return stats, nil
		}
		if opts.MaxFrames > 0 && stats.Frames >= opts.MaxFrames {
			stats.Reason = StopMaxFrames
			return stats, nil
		}

		frame, err := source.Next(ctx)
		if errors.Is(err, ErrEndOfStream) {
			stats.Reason = StopEndOfStream
			return stats, nil
		}
		if cancelled(ctx, err) {
			stats.Reason = StopCancelled
			return stats, nil
		}
		if err != nil {
			stats.Reason = StopError
			return stats, fmt.Errorf("read frame: %w", err)
		}
		stats.Frames++

		results, err := proc.Process(ctx, frame)
		stats.Faces += len(results)
		for _, r := range results {
			if r.Sighting.New {
				stats.NewPeople++
				log.WithField("person", r.Sighting.PersonID).Info("New person")
			}
		}
		if err != nil {
			frame.Close()
			if cancelled(ctx, err) {
				log.WithError(err).Debug("Frame interrupted by shutdown")
				stats.Reason = StopCancelled
				return stats, nil
			}
			stats.Reason = StopError
			return stats, err
		}

		quit := display.Show(frame)
		if err := frame.Close(); err != nil {
			log.WithError(err).Warn("Failed to release frame")
		}
		if quit {
			stats.Reason = StopQuit
			return stats, nil
		}
	}
}

// cancelled reports whether err is ctx's own cancellation surfacing from a
// call that was in flight when ctx ended.
func cancelled(ctx context.Context, err error) bool {
	ctxErr := ctx.Err()
	return err != nil && ctxErr != nil && errors.Is(err, ctxErr)
}
