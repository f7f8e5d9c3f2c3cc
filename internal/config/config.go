package config

import (
	"os"
	"strconv"
	"time"

	"github.com/jvrabec/facecam/internal/constants"
)

type Config struct {
	Camera   CameraConfig
	Models   ModelsConfig
	Match    MatchConfig
	Pipeline PipelineConfig
}

type CameraConfig struct {
	Device string // V4L2 device path (e.g. /dev/video0)
	Width  int    // requested frame width; the driver may pick the closest size
	Height int    // requested frame height
}

type ModelsConfig struct {
	Dir string // directory holding the pretrained dlib model files
}

type MatchConfig struct {
	Threshold float64 // maximum Euclidean distance for a gallery match
}

type PipelineConfig struct {
	FrameInterval  time.Duration // pause between recognition cycles
	JPEGQuality    int           // encoder quality for annotated frames
	StreamMaxWidth int           // downscale annotated frames to this width; 0 keeps capture size
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
// Returns the default value if the env var is unset, empty, or invalid.
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

// envString reads an environment variable, falling back to the default when
// it is unset or empty.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Camera: CameraConfig{
			Device: envString("CAMERA_DEVICE", constants.DefaultDevice),
			Width:  envInt("CAMERA_WIDTH", constants.DefaultFrameWidth),
			Height: envInt("CAMERA_HEIGHT", constants.DefaultFrameHeight),
		},
		Models: ModelsConfig{
			Dir: envString("MODELS_DIR", "./models"),
		},
		Match: MatchConfig{
			Threshold: envFloat("MATCH_THRESHOLD", constants.DefaultMatchThreshold),
		},
		Pipeline: PipelineConfig{
			FrameInterval:  time.Duration(envInt("FRAME_INTERVAL_MS", constants.DefaultFrameIntervalMs)) * time.Millisecond,
			JPEGQuality:    envInt("JPEG_QUALITY", constants.DefaultJPEGQuality),
			StreamMaxWidth: envInt("STREAM_MAX_WIDTH", 0),
		},
	}
}
