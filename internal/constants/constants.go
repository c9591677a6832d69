// Package constants provides shared constants used across the codebase.
package constants

// Matching constants
const (
	// DefaultTolerance is the maximum euclidean distance between two dlib face
	// descriptors for them to be considered the same person. The comparison is strict.
	DefaultTolerance = 0.6

	// PersonIDPrefix is prepended to the sequence number of a newly seen person
	PersonIDPrefix = "Person_"

	// EmbeddingDim is the length of a dlib face descriptor
	EmbeddingDim = 128
)

// Capture constants
const (
	// DefaultCameraDevice is the OpenCV device index used when none is configured
	DefaultCameraDevice = "0"

	// DefaultWindowTitle is the title of the annotated preview window
	DefaultWindowTitle = "Video Feed"

	// DefaultQuitKey stops the capture loop when pressed in the preview window
	DefaultQuitKey = 'q'

	// DefaultJPEGQuality matches the OpenCV imencode default
	DefaultJPEGQuality = 95

	// WaitKeyDelayMs is how long the preview window waits for a keypress per frame
	WaitKeyDelayMs = 1
)

// Overlay constants
const (
	// OverlayThickness is the line width of face boxes and labels
	OverlayThickness = 2

	// OverlayFontScale is the Hershey simplex font scale for labels
	OverlayFontScale = 0.9

	// OverlayLabelOffset is how far above the box top the label baseline sits
	OverlayLabelOffset = 10
)

// Recognition constants
const (
	DetectorHOG = "hog"
	DetectorCNN = "cnn"

	// DefaultModelsDir holds shape_predictor_5_face_landmarks.dat,
	// dlib_face_recognition_resnet_model_v1.dat and mmod_human_face_detector.dat
	DefaultModelsDir = "models"
)

// Storage constants
const (
	// DefaultDatabasePath is the SQLite file created next to the binary
	DefaultDatabasePath = "people.db"
)

// Web constants
const (
	// MaxThumbnailSize caps the ?size= parameter of the image endpoint
	MaxThumbnailSize = 1024
)
