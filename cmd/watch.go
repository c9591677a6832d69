package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-counter/internal/capture"
	"github.com/kozaktomas/face-counter/internal/pipeline"
	"github.com/kozaktomas/face-counter/internal/recognizer"
	"github.com/kozaktomas/face-counter/internal/tracker"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a camera and count the people in front of it",
	Long: `Read frames from a camera, detect faces and match each against the people
seen before. A face farther than the tolerance from everyone known becomes a new
Person_N record; a known face refreshes that person's embedding, image and
timestamp.

The annotated feed is shown in a window. Press q in the window to stop.

Examples:
  # Default webcam
  face-counter watch

  # Second camera, stricter matching
  face-counter watch --device 1 --tolerance 0.5

  # Process a video file without a window
  face-counter watch --device recording.mp4 --headless`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("device", "", "Camera index, video file or stream URL (default from CAMERA_DEVICE or 0)")
	watchCmd.Flags().Bool("headless", false, "Do not open a preview window")
	watchCmd.Flags().Int("max-frames", 0, "Stop after this many frames (0 = no limit)")
	addRecognitionFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := *appConfig
	if device := mustGetString(cmd, "device"); device != "" {
		cfg.Camera.Device = device
	}
	applyRecognitionFlags(cmd, &cfg.Recognition)
	headless := mustGetBool(cmd, "headless")
	maxFrames := mustGetInt(cmd, "max-frames")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logrus.WithField("session", uuid.NewString())

	store, closeFn, err := openStore(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore(closeFn)

	tr, err := tracker.New(ctx, store, cfg.Recognition.Tolerance)
	if err != nil {
		return fmt.Errorf("failed to load known people: %w", err)
	}
	log.WithFields(logrus.Fields{
		"known":     tr.Known(),
		"tolerance": cfg.Recognition.Tolerance,
	}).Info("Loaded known people")

	rec, err := recognizer.New(cfg.Recognition.ModelsDir, cfg.Recognition.UseCNN())
	if err != nil {
		return err
	}
	defer rec.Close()

	camera := capture.OpenCamera(cfg.Camera.Device, cfg.Camera.Width, cfg.Camera.Height, cfg.Camera.JPEGQuality, log)
	defer camera.Close()

	var display pipeline.Display = capture.Headless{}
	if !headless {
		display = capture.NewWindow(cfg.Camera.WindowTitle, cfg.Camera.QuitKeyCode(), log)
	}
	defer display.Close()

	stats, err := pipeline.Run(ctx, camera, pipeline.NewProcessor(rec, tr, log), display, pipeline.Options{
		MaxFrames: maxFrames,
		Log:       log,
	})
	log.WithFields(logrus.Fields{
		"frames":     stats.Frames,
		"faces":      stats.Faces,
		"new_people": stats.NewPeople,
		"reason":     stats.Reason,
	}).Info("Capture stopped")
	if err != nil {
		return err
	}

	fmt.Printf("Frames:      %d\n", stats.Frames)
	fmt.Printf("Faces:       %d\n", stats.Faces)
	fmt.Printf("New people:  %d\n", stats.NewPeople)
	fmt.Printf("Known total: %d\n", tr.Known())
	return nil
}
