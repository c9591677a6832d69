package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kozaktomas/face-counter/internal/constants"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Camera      CameraConfig      `yaml:"camera"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Database    DatabaseConfig    `yaml:"database"`
	Web         WebConfig         `yaml:"web"`
	Log         LogConfig         `yaml:"log"`
}

type CameraConfig struct {
	Device      string `yaml:"device"`       // device index ("0") or a path/URL understood by OpenCV
	Width       int    `yaml:"width"`        // requested frame width, 0 keeps the device default
	Height      int    `yaml:"height"`       // requested frame height, 0 keeps the device default
	WindowTitle string `yaml:"window_title"` // defaults to "Video Feed"
	QuitKey     string `yaml:"quit_key"`     // single character, defaults to "q"
	JPEGQuality int    `yaml:"jpeg_quality"` // quality of stored face crops (1-100)
}

// QuitKeyCode returns the key code compared against WaitKey results.
func (c *CameraConfig) QuitKeyCode() int {
	if c.QuitKey == "" {
		return int(constants.DefaultQuitKey)
	}
	return int(c.QuitKey[0])
}

type RecognitionConfig struct {
	ModelsDir string  `yaml:"models_dir"` // directory with the dlib .dat models
	Tolerance float64 `yaml:"tolerance"`  // maximum euclidean distance (exclusive) for a match
	Detector  string  `yaml:"detector"`   // "hog" (default) or "cnn"
}

// Validate rejects detector names other than hog and cnn.
func (c *RecognitionConfig) Validate() error {
	switch strings.ToLower(c.Detector) {
	case constants.DetectorHOG, constants.DetectorCNN:
		return nil
	default:
		return fmt.Errorf("invalid face detector %q (expected %s or %s)", c.Detector, constants.DetectorHOG, constants.DetectorCNN)
	}
}

// UseCNN reports whether the CNN face detector is selected.
func (c *RecognitionConfig) UseCNN() bool {
	return strings.EqualFold(c.Detector, constants.DetectorCNN)
}

type DatabaseConfig struct {
	Path         string `yaml:"path"`           // SQLite file, used when URL is empty
	URL          string `yaml:"url"`            // PostgreSQL connection URL (optional)
	MaxOpenConns int    `yaml:"max_open_conns"` // Maximum open connections (default 5)
	MaxIdleConns int    `yaml:"max_idle_conns"` // Maximum idle connections (default 2)
}

// UsePostgres reports whether a PostgreSQL URL is configured.
func (c *DatabaseConfig) UsePostgres() bool {
	return c.URL != ""
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // "text" or "json"
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envString returns the env var value or defaultVal when it is unset or empty.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Camera: CameraConfig{
			Device:      constants.DefaultCameraDevice,
			WindowTitle: constants.DefaultWindowTitle,
			QuitKey:     string(constants.DefaultQuitKey),
			JPEGQuality: constants.DefaultJPEGQuality,
		},
		Recognition: RecognitionConfig{
			ModelsDir: constants.DefaultModelsDir,
			Tolerance: constants.DefaultTolerance,
			Detector:  constants.DetectorHOG,
		},
		Database: DatabaseConfig{
			Path:         constants.DefaultDatabasePath,
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns the defaults overridden by environment variables.
func Load() *Config {
	cfg := Defaults()
	applyEnv(cfg)
	return cfg
}

// LoadFile reads a YAML config file on top of the defaults.
// Environment variables still take precedence over the file.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	sanitize(cfg)

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Camera.Device = envString("CAMERA_DEVICE", cfg.Camera.Device)
	cfg.Camera.Width = envInt("CAMERA_WIDTH", cfg.Camera.Width)
	cfg.Camera.Height = envInt("CAMERA_HEIGHT", cfg.Camera.Height)
	cfg.Camera.WindowTitle = envString("WINDOW_TITLE", cfg.Camera.WindowTitle)
	cfg.Camera.QuitKey = envString("QUIT_KEY", cfg.Camera.QuitKey)
	cfg.Camera.JPEGQuality = envInt("JPEG_QUALITY", cfg.Camera.JPEGQuality)

	cfg.Recognition.ModelsDir = envString("FACE_MODELS_DIR", cfg.Recognition.ModelsDir)
	cfg.Recognition.Tolerance = envFloat("MATCH_TOLERANCE", cfg.Recognition.Tolerance)
	cfg.Recognition.Detector = envString("FACE_DETECTOR", cfg.Recognition.Detector)

	cfg.Database.Path = envString("FACE_DB_PATH", cfg.Database.Path)
	cfg.Database.URL = envString("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxOpenConns = envInt("DATABASE_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = envInt("DATABASE_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)

	cfg.Web.Host = envString("WEB_HOST", cfg.Web.Host)
	cfg.Web.Port = envInt("WEB_PORT", cfg.Web.Port)

	cfg.Log.Level = envString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envString("LOG_FORMAT", cfg.Log.Format)

	sanitize(cfg)
}

// sanitize restores defaults for values a file left out of range.
func sanitize(cfg *Config) {
	def := Defaults()
	if cfg.Camera.Device == "" {
		cfg.Camera.Device = def.Camera.Device
	}
	if cfg.Camera.WindowTitle == "" {
		cfg.Camera.WindowTitle = def.Camera.WindowTitle
	}
	if cfg.Camera.QuitKey == "" {
		cfg.Camera.QuitKey = def.Camera.QuitKey
	}
	if cfg.Camera.JPEGQuality <= 0 || cfg.Camera.JPEGQuality > 100 {
		cfg.Camera.JPEGQuality = def.Camera.JPEGQuality
	}
	if cfg.Camera.Width < 0 {
		cfg.Camera.Width = 0
	}
	if cfg.Camera.Height < 0 {
		cfg.Camera.Height = 0
	}
	if cfg.Recognition.Tolerance <= 0 {
		cfg.Recognition.Tolerance = def.Recognition.Tolerance
	}
	if cfg.Recognition.Detector == "" {
		cfg.Recognition.Detector = def.Recognition.Detector
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = def.Database.Path
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = def.Database.MaxOpenConns
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = def.Database.MaxIdleConns
	}
	if cfg.Web.Port <= 0 {
		cfg.Web.Port = def.Web.Port
	}
}
