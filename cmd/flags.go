package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-counter/internal/config"
	"github.com/kozaktomas/face-counter/internal/constants"
)

// mustGetBool gets a bool flag value or panics if the flag doesn't exist.
// This is appropriate for flags defined in init() - errors indicate programming bugs.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetInt gets an int flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetString gets a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// mustGetFloat64 gets a float64 flag value or panics if the flag doesn't exist.
func mustGetFloat64(cmd *cobra.Command, name string) float64 {
	val, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// applyRecognitionFlags copies explicitly set recognition flags onto cfg.
func applyRecognitionFlags(cmd *cobra.Command, cfg *config.RecognitionConfig) {
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = mustGetFloat64(cmd, "tolerance")
	}
	if cmd.Flags().Changed("models") {
		cfg.ModelsDir = mustGetString(cmd, "models")
	}
	if cmd.Flags().Changed("cnn") && mustGetBool(cmd, "cnn") {
		cfg.Detector = constants.DetectorCNN
	}
}

// addRecognitionFlags registers the flags read by applyRecognitionFlags.
func addRecognitionFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("tolerance", constants.DefaultTolerance, "Maximum face distance (exclusive) for a match")
	cmd.Flags().String("models", constants.DefaultModelsDir, "Directory with the dlib model files")
	cmd.Flags().Bool("cnn", false, "Use the CNN face detector instead of HOG")
}
