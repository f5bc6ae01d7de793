package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/gesturepaint/internal/app"
	"github.com/ayusman/gesturepaint/internal/config"
	"github.com/ayusman/gesturepaint/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the virtual painter",
	Long: `Open the camera and start painting. Settings come from the config file,
GESTUREPAINT_* environment variables and the flags below, flags winning.`,
	Args: cobra.NoArgs,
	RunE: runPainter,
}

// flagKeys maps run flags to config keys.
var flagKeys = map[string]string{
	"camera":     "camera.device",
	"headless":   "display.headless",
	"max-frames": "display.maxFrames",
	"save-dir":   "save.dir",
	"pdf":        "save.pdf",
	"brush-size": "brush.size",
	"log-level":  "log.level",
	"log-file":   "log.file",
	"script":     "detector.script",
	"python":     "detector.python",
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.Int("camera", 0, "Camera device index")
	f.Bool("no-mirror", false, "Do not mirror the camera image")
	f.Bool("headless", false, "Run without windows")
	f.Int("max-frames", 0, "Stop after this many frames (0 = until 'q')")
	f.String("save-dir", "", "Directory for saved artworks")
	f.Bool("pdf", false, "Also save each artwork as a PDF")
	f.Int("brush-size", 0, "Brush thickness in pixels")
	f.String("log-level", "", "Log level: debug, info, warn, error")
	f.String("log-file", "", "Also write JSON logs to this rotating file")
	f.String("script", "", "Path to the landmark service script")
	f.String("python", "", "Python interpreter for the landmark service")
}

func bindFlags(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

func runPainter(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	if mustGetBool(cmd, "no-mirror") {
		cfg.Camera.Mirror = false
	}

	logger, closer, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	painter, err := app.New(cfg, app.Options{Logger: &logger})
	if err != nil {
		return err
	}
	defer func() {
		if err := painter.Close(); err != nil {
			logger.Warn().Err(err).Msg("shutdown")
		}
	}()

	if err := painter.Run(ctx); err != nil {
		return err
	}
	logger.Info().
		Int("frames", painter.Frames()).
		Int("strokes", painter.Session().Log().Len()).
		Msg("bye")
	return nil
}

// mustGetBool gets a bool flag value or panics if the flag doesn't exist.
// This is appropriate for flags defined in init() - errors indicate programming bugs.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}
