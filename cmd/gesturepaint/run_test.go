package main

import (
	"testing"

	"github.com/ayusman/gesturepaint/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlags_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GESTUREPAINT_ERASER_SIZE", "40")
	t.Setenv("GESTUREPAINT_BRUSH_SIZE", "20")
	v = viper.New()
	t.Cleanup(func() { v = viper.New() })

	flags := runCmd.Flags()
	require.NoError(t, flags.Parse([]string{"--brush-size", "9", "--headless"}))
	require.NoError(t, bindFlags(flags))

	cfg, err := config.Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Brush.Size, "a set flag beats the environment")
	assert.Equal(t, 40, cfg.Eraser.Size, "the environment beats defaults")
	assert.True(t, cfg.Display.Headless)
	assert.Equal(t, "resources/saved_artworks", cfg.Save.Dir, "unset flags do not override defaults")
	assert.Equal(t, 0, cfg.Camera.Device)
}
