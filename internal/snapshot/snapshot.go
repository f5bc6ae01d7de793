// Package snapshot writes canvas images to disk.
package snapshot

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/oklog/ulid/v2"
	"gocv.io/x/gocv"
)

// DefaultDir is where artworks are saved unless configured otherwise.
const DefaultDir = "resources/saved_artworks"

const (
	filePrefix = "artwork_"
	pdfMargin  = 10.0 // mm
)

// ErrEmptyImage is returned when asked to save an empty Mat.
var ErrEmptyImage = errors.New("snapshot: empty image")

// Writer saves images as artwork_<ULID>.png, optionally with a PDF copy.
// The ULID is derived from the save time, so names sort chronologically.
type Writer struct {
	dir     string
	pdf     bool
	entropy io.Reader
}

// NewWriter creates a writer for dir. The directory is created on first save.
func NewWriter(dir string, pdf bool) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{
		dir:     dir,
		pdf:     pdf,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Save writes img and returns the PNG path.
func (w *Writer) Save(img *gocv.Mat, now time.Time) (string, error) {
	if img == nil || img.Empty() {
		return "", ErrEmptyImage
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", w.dir, err)
	}

	id, err := ulid.New(ulid.Timestamp(now), w.entropy)
	if err != nil {
		return "", fmt.Errorf("generate name: %w", err)
	}
	base := filepath.Join(w.dir, filePrefix+id.String())

	path := base + ".png"
	if ok := gocv.IMWrite(path, *img); !ok {
		return "", fmt.Errorf("write %s failed", path)
	}

	if w.pdf {
		if err := writePDF(base+".pdf", img); err != nil {
			return path, err
		}
	}

	return path, nil
}

// writePDF embeds img in a single A4 landscape page, scaled to fit inside the
// margins.
func writePDF(path string, img *gocv.Mat) error {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, *img)
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	defer buf.Close()

	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("artwork", opts, bytes.NewReader(buf.GetBytes()))

	pageW, pageH := p.GetPageSize()
	w, h := fit(float64(img.Cols()), float64(img.Rows()), pageW-2*pdfMargin, pageH-2*pdfMargin)
	p.ImageOptions("artwork", (pageW-w)/2, (pageH-h)/2, w, h, false, opts, 0, "")

	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// fit scales w×h to the largest size inside maxW×maxH keeping the aspect ratio.
func fit(w, h, maxW, maxH float64) (float64, float64) {
	scale := maxW / w
	if h*scale > maxH {
		scale = maxH / h
	}
	return w * scale, h * scale
}
