package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "gesturepaint",
	Short: "A webcam virtual painter controlled by hand and face gestures",
	Long: `gesturepaint tracks your hand and face through the webcam and turns
gestures into painting:

  pinch thumb and index finger   draw
  open mouth                     erase under the fingertip
  raise eyebrows                 cycle the brush color
  double blink                   save the artwork and clear the canvas
  left wink / right wink         undo / redo

Press 'q' in either window to quit.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./gesturepaint.yaml or ~/.gesturepaint/gesturepaint.yaml)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
