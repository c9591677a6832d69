package cmd

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-counter/internal/imaging"
	"github.com/kozaktomas/face-counter/internal/recognizer"
	"github.com/kozaktomas/face-counter/internal/tracker"
)

var matchCmd = &cobra.Command{
	Use:   "match <image>",
	Short: "Identify the faces in an image without storing anything",
	Long: `Detect faces in an image and report the nearest known person for each.
Nothing is written to the database.

Examples:
  face-counter match visitor.jpg
  face-counter match visitor.jpg --output annotated.jpg
  face-counter match visitor.jpg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("output", "", "Write the image with boxes and labels to this JPEG file")
	matchCmd.Flags().Bool("json", false, "Output as JSON")
	addRecognitionFlags(matchCmd)
}

// FaceMatch is one face reported by the match command
type FaceMatch struct {
	Left     int      `json:"left"`
	Top      int      `json:"top"`
	Right    int      `json:"right"`
	Bottom   int      `json:"bottom"`
	PersonID string   `json:"person_id,omitempty"`
	Distance *float64 `json:"distance,omitempty"` // nil when nobody is known
	Matched  bool     `json:"matched"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := *appConfig
	applyRecognitionFlags(cmd, &cfg.Recognition)
	output := mustGetString(cmd, "output")
	jsonOutput := mustGetBool(cmd, "json")
	ctx := cmd.Context()

	frame, err := imaging.LoadStillFrame(args[0], cfg.Camera.JPEGQuality)
	if err != nil {
		return err
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

	data, err := frame.JPEG()
	if err != nil {
		return err
	}
	faces, err := rec.Detect(data)
	if err != nil {
		return err
	}

	matches := make([]FaceMatch, 0, len(faces))
	for _, face := range faces {
		rect := face.Rect.Intersect(frame.Bounds())
		if rect.Empty() {
			continue
		}

		personID, dist, matched := tr.Identify(face.Embedding)
		m := FaceMatch{
			Left:     rect.Min.X,
			Top:      rect.Min.Y,
			Right:    rect.Max.X,
			Bottom:   rect.Max.Y,
			PersonID: personID,
			Matched:  matched,
		}
		if !math.IsInf(dist, 1) {
			m.Distance = &dist
		}
		matches = append(matches, m)

		label := personID
		if !matched {
			label = "Unknown"
		}
		frame.Annotate(rect, label)
	}

	if output != "" {
		annotated, err := frame.JPEG()
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, annotated, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
	}

	if jsonOutput {
		return printJSON(matches)
	}

	if len(matches) == 0 {
		fmt.Println("No faces found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FACE\tBOX\tPERSON\tDISTANCE")
	fmt.Fprintln(w, "----\t---\t------\t--------")
	for i, m := range matches {
		person := m.PersonID
		if !m.Matched {
			person = "unknown"
		}
		distance := "-"
		if m.Distance != nil {
			distance = fmt.Sprintf("%.3f", *m.Distance)
		}
		fmt.Fprintf(w, "%d\t(%d,%d)-(%d,%d)\t%s\t%s\n", i+1, m.Left, m.Top, m.Right, m.Bottom, person, distance)
	}
	w.Flush()

	if output != "" {
		fmt.Printf("\nAnnotated image written to %s\n", output)
	}
	return nil
}
