package snapshot

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func drawing(t *testing.T) *gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 72, 128, gocv.MatTypeCV8UC3)
	gocv.Line(&m, image.Pt(10, 10), image.Pt(100, 60), color.RGBA{B: 255}, 5)
	t.Cleanup(func() { m.Close() })
	return &m
}

func TestSave_CreatesDirectoryLazily(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resources", "saved_artworks")
	w := NewWriter(dir, false)

	_, err := os.Stat(dir)
	require.True(t, os.IsNotExist(err), "directory must not exist before the first save")

	path, err := w.Save(drawing(t), time.Now())
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "artwork_"))
	assert.Equal(t, ".png", filepath.Ext(path))

	saved := gocv.IMRead(path, gocv.IMReadColor)
	defer saved.Close()
	require.False(t, saved.Empty())
	assert.Equal(t, 128, saved.Cols())
	assert.Equal(t, 72, saved.Rows())
}

func TestSave_NamesAreUniqueAndOrdered(t *testing.T) {
	w := NewWriter(t.TempDir(), false)
	img := drawing(t)
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	var paths []string
	for i := 0; i < 3; i++ {
		// Same instant on purpose: a per-second name would collide here.
		p, err := w.Save(img, now)
		require.NoError(t, err)
		paths = append(paths, p)
	}
	later, err := w.Save(img, now.Add(time.Second))
	require.NoError(t, err)
	paths = append(paths, later)

	seen := map[string]bool{}
	for i, p := range paths {
		assert.False(t, seen[p], "duplicate name %s", p)
		seen[p] = true
		if i > 0 {
			assert.Less(t, paths[i-1], p)
		}
	}
}

func TestSave_WritesPDF(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, true)

	path, err := w.Save(drawing(t), time.Now())
	require.NoError(t, err)

	pdfPath := strings.TrimSuffix(path, ".png") + ".pdf"
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestSave_EmptyImage(t *testing.T) {
	w := NewWriter(t.TempDir(), false)

	empty := gocv.NewMat()
	defer empty.Close()

	_, err := w.Save(&empty, time.Now())
	assert.ErrorIs(t, err, ErrEmptyImage)
	_, err = w.Save(nil, time.Now())
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestFit(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		maxW, maxH float64
		wantW      float64
		wantH      float64
	}{
		{"width bound", 1280, 720, 277, 190, 277, 155.8125},
		{"height bound", 720, 1280, 277, 190, 106.875, 190},
		{"exact", 100, 50, 200, 100, 200, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fit(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.InDelta(t, tt.wantW, w, 1e-9)
			assert.InDelta(t, tt.wantH, h, 1e-9)
		})
	}
}
