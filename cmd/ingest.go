package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-counter/internal/imaging"
	"github.com/kozaktomas/face-counter/internal/pipeline"
	"github.com/kozaktomas/face-counter/internal/recognizer"
	"github.com/kozaktomas/face-counter/internal/tracker"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>...",
	Short: "Run still images through face matching and store the results",
	Long: `Detect faces in still images and record them exactly as the camera loop
would: unknown faces get a new Person_N, known faces refresh their record.
Directories are walked recursively for JPEG, PNG and BMP files.

Examples:
  face-counter ingest snapshot.jpg
  face-counter ingest ./frames --tolerance 0.5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	addRecognitionFlags(ingestCmd)
}

// collectImages expands directories into the image files they contain.
func collectImages(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(path))) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}
	slices.Sort(files)
	return files, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := *appConfig
	applyRecognitionFlags(cmd, &cfg.Recognition)
	ctx := cmd.Context()

	files, err := collectImages(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No images found")
		return nil
	}

	store, closeFn, err := openStore(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore(closeFn)

	tr, err := tracker.New(ctx, store, cfg.Recognition.Tolerance)
	if err != nil {
		return fmt.Errorf("failed to load known people: %w", err)
	}

	rec, err := recognizer.New(cfg.Recognition.ModelsDir, cfg.Recognition.UseCNN())
	if err != nil {
		return err
	}
	defer rec.Close()

	proc := pipeline.NewProcessor(rec, tr, logrus.StandardLogger())

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Ingesting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var faces, newPeople, skipped int
	for _, file := range files {
		frame, err := imaging.LoadStillFrame(file, cfg.Camera.JPEGQuality)
		if err != nil {
			logrus.WithError(err).WithField("file", file).Warn("Skipping unreadable image")
			skipped++
			bar.Add(1)
			continue
		}

		results, err := proc.Process(ctx, frame)
		frame.Close()
		if err != nil {
			bar.Finish()
			fmt.Println()
			return fmt.Errorf("failed to process %s: %w", file, err)
		}

		faces += len(results)
		for _, r := range results {
			if r.Sighting.New {
				newPeople++
			}
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()

	fmt.Printf("Images:      %d\n", len(files)-skipped)
	if skipped > 0 {
		fmt.Printf("Skipped:     %d\n", skipped)
	}
	fmt.Printf("Faces:       %d\n", faces)
	fmt.Printf("New people:  %d\n", newPeople)
	fmt.Printf("Known total: %d\n", tr.Known())
	return nil
}
