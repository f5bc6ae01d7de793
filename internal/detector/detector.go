package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// DefaultRestartInterval is the minimum time between landmark service starts.
const DefaultRestartInterval = 5 * time.Second

// Detector defines the interface for landmark oracle implementations.
type Detector interface {
	// Detect analyzes a video frame and returns at most one hand and at most
	// one face. An empty Observation means nothing was detected.
	Detect(frame *gocv.Mat) (Observation, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for landmark detection.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ScriptPath overrides the lookup of the landmark service script.
	ScriptPath string

	// PythonPath overrides the interpreter lookup.
	PythonPath string

	// RestartInterval bounds how often a dead service is started again.
	RestartInterval time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.7,
		MinTrackingConf: 0.7,
		RestartInterval: DefaultRestartInterval,
	}
}
