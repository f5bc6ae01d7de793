// Package config loads gesturepaint settings from defaults, an optional YAML
// file, GESTUREPAINT_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GESTUREPAINT_BRUSH_SIZE.
const EnvPrefix = "GESTUREPAINT"

// CameraConfig holds capture settings.
type CameraConfig struct {
	Device     int           `mapstructure:"device"`
	Width      int           `mapstructure:"width"`
	Height     int           `mapstructure:"height"`
	FPS        int           `mapstructure:"fps"`
	Mirror     bool          `mapstructure:"mirror"`
	RetryDelay time.Duration `mapstructure:"retryDelay"`
}

// DetectorConfig holds landmark detector settings.
type DetectorConfig struct {
	MinConfidence   float64       `mapstructure:"minConfidence"`
	Script          string        `mapstructure:"script"`
	Python          string        `mapstructure:"python"`
	RestartInterval time.Duration `mapstructure:"restartInterval"`
}

// HandConfig holds hand classifier settings.
type HandConfig struct {
	Smoothing      float64 `mapstructure:"smoothing"`
	PinchThreshold float64 `mapstructure:"pinchThreshold"`
}

// FaceConfig holds face classifier settings.
type FaceConfig struct {
	CalibrationFrames int     `mapstructure:"calibrationFrames"`
	EyebrowRaiseRatio float64 `mapstructure:"eyebrowRaiseRatio"`
	MouthOpenRatio    float64 `mapstructure:"mouthOpenRatio"`
}

// EyeConfig holds eye classifier settings.
type EyeConfig struct {
	ClosedRatio   float64       `mapstructure:"closedRatio"`
	BlinkInterval time.Duration `mapstructure:"blinkInterval"`
}

// ToolConfig holds a drawing tool size.
type ToolConfig struct {
	Size int `mapstructure:"size"`
}

// DebounceConfig holds the minimum gaps between repeated gesture actions.
type DebounceConfig struct {
	Color time.Duration `mapstructure:"color"`
	Undo  time.Duration `mapstructure:"undo"`
	Redo  time.Duration `mapstructure:"redo"`
}

// SaveConfig holds snapshot settings.
type SaveConfig struct {
	Dir string `mapstructure:"dir"`
	PDF bool   `mapstructure:"pdf"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DisplayConfig holds window settings.
type DisplayConfig struct {
	Headless bool `mapstructure:"headless"`
	// MaxFrames stops the loop after this many frames; 0 runs until quit.
	MaxFrames int `mapstructure:"maxFrames"`
}

// Config is the full application configuration.
type Config struct {
	Camera   CameraConfig   `mapstructure:"camera"`
	Detector DetectorConfig `mapstructure:"detector"`
	Hand     HandConfig     `mapstructure:"hand"`
	Face     FaceConfig     `mapstructure:"face"`
	Eye      EyeConfig      `mapstructure:"eye"`
	Brush    ToolConfig     `mapstructure:"brush"`
	Eraser   ToolConfig     `mapstructure:"eraser"`
	Debounce DebounceConfig `mapstructure:"debounce"`
	Save     SaveConfig     `mapstructure:"save"`
	Log      LogConfig      `mapstructure:"log"`
	Display  DisplayConfig  `mapstructure:"display"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("camera.device", 0)
	v.SetDefault("camera.width", 1280)
	v.SetDefault("camera.height", 720)
	v.SetDefault("camera.fps", 30)
	v.SetDefault("camera.mirror", true)
	v.SetDefault("camera.retryDelay", "100ms")

	v.SetDefault("detector.minConfidence", 0.7)
	v.SetDefault("detector.script", "")
	v.SetDefault("detector.python", "")
	v.SetDefault("detector.restartInterval", "5s")

	v.SetDefault("hand.smoothing", 0.2)
	v.SetDefault("hand.pinchThreshold", 55.0)

	v.SetDefault("face.calibrationFrames", 60)
	v.SetDefault("face.eyebrowRaiseRatio", 0.02)
	v.SetDefault("face.mouthOpenRatio", 0.035)

	v.SetDefault("eye.closedRatio", 0.018)
	v.SetDefault("eye.blinkInterval", "500ms")

	v.SetDefault("brush.size", 15)
	v.SetDefault("eraser.size", 50)

	v.SetDefault("debounce.color", "1s")
	v.SetDefault("debounce.undo", "750ms")
	v.SetDefault("debounce.redo", "750ms")

	v.SetDefault("save.dir", "resources/saved_artworks")
	v.SetDefault("save.pdf", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("display.headless", false)
	v.SetDefault("display.maxFrames", 0)
}

// Load reads configuration into v and decodes it. An explicit path must exist;
// without one, gesturepaint.yaml is looked up in the working directory and
// ~/.gesturepaint and is optional.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gesturepaint")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gesturepaint")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Camera.Device >= 0, "camera.device must be >= 0, got %d", c.Camera.Device)
	check(c.Camera.Width > 0 && c.Camera.Height > 0, "camera size must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	check(c.Camera.FPS > 0, "camera.fps must be positive, got %d", c.Camera.FPS)
	check(c.Camera.RetryDelay >= 0, "camera.retryDelay must not be negative")
	check(c.Detector.RestartInterval > 0, "detector.restartInterval must be positive")
	check(c.Detector.MinConfidence > 0 && c.Detector.MinConfidence <= 1, "detector.minConfidence must be in (0,1], got %v", c.Detector.MinConfidence)
	check(c.Hand.Smoothing > 0 && c.Hand.Smoothing <= 1, "hand.smoothing must be in (0,1], got %v", c.Hand.Smoothing)
	check(c.Hand.PinchThreshold > 0, "hand.pinchThreshold must be positive, got %v", c.Hand.PinchThreshold)
	check(c.Face.CalibrationFrames > 0, "face.calibrationFrames must be positive, got %d", c.Face.CalibrationFrames)
	check(c.Face.EyebrowRaiseRatio > 0, "face.eyebrowRaiseRatio must be positive")
	check(c.Face.MouthOpenRatio > 0, "face.mouthOpenRatio must be positive")
	check(c.Eye.ClosedRatio > 0, "eye.closedRatio must be positive")
	check(c.Eye.BlinkInterval > 0, "eye.blinkInterval must be positive")
	check(c.Brush.Size > 0, "brush.size must be positive, got %d", c.Brush.Size)
	check(c.Eraser.Size > 0, "eraser.size must be positive, got %d", c.Eraser.Size)
	check(c.Debounce.Color >= 0 && c.Debounce.Undo >= 0 && c.Debounce.Redo >= 0, "debounce intervals must not be negative")
	check(c.Save.Dir != "", "save.dir must be set")
	check(c.Display.MaxFrames >= 0, "display.maxFrames must not be negative")

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
