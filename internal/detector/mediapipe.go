package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
	"golang.org/x/time/rate"
)

const serviceScript = "landmark_service.py"

// ErrServiceDown is returned while a crashed landmark service waits for its
// next restart slot.
var ErrServiceDown = errors.New("landmark service is down")

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess
// running the Hands and FaceMesh solutions.
//
// Protocol: each request is a 4 byte big-endian length followed by a JPEG
// frame; each response is one JSON line of the form
// {"hands":[{"points":[...],"handedness":"Right","score":0.9}],"faces":[{"points":[...]}]}.
//
// The process is started lazily. When it dies, it is started again at most
// once per Config.RestartInterval; frames in between fail with ErrServiceDown.
type MediaPipeDetector struct {
	config   Config
	script   string
	logger   zerolog.Logger
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	stdout   *bufio.Reader
	mu       sync.Mutex
	started  bool
	starts   int
	restarts *rate.Limiter
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config, logger zerolog.Logger) (*MediaPipeDetector, error) {
	scriptPath := config.ScriptPath
	if scriptPath == "" {
		scriptPath = findServiceScript()
	}
	if scriptPath == "" {
		return nil, fmt.Errorf("%s not found", serviceScript)
	}

	interval := config.RestartInterval
	if interval <= 0 {
		interval = DefaultRestartInterval
	}

	return &MediaPipeDetector{
		config:   config,
		script:   scriptPath,
		logger:   logger,
		restarts: rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

// Detect analyzes a frame and returns the first detected hand and face.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) (Observation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return Observation{}, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return Observation{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	// A broken pipe means the service died.
	if _, err := d.stdin.Write(length); err != nil {
		return Observation{}, d.crashed(fmt.Errorf("write length: %w", err))
	}
	if _, err := d.stdin.Write(data); err != nil {
		return Observation{}, d.crashed(fmt.Errorf("write data: %w", err))
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return Observation{}, d.crashed(fmt.Errorf("read response: %w", err))
	}

	return parseResponse([]byte(line))
}

// Starts returns how many times the service process has been started.
func (d *MediaPipeDetector) Starts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.starts
}

func (d *MediaPipeDetector) crashed(err error) error {
	exit := d.shutdown()
	d.logger.Warn().Err(err).AnErr("exit", exit).Msg("landmark service died")
	return err
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}
	if !d.restarts.Allow() {
		return ErrServiceDown
	}

	pythonPath := d.config.PythonPath
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, d.script,
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', 2, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', 2, 64),
	)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start landmark service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.starts++
	if d.starts > 1 {
		d.logger.Warn().Int("starts", d.starts).Msg("restarted landmark service")
	}

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func findServiceScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("scripts", serviceScript),
		filepath.Join("..", "scripts", serviceScript),
		filepath.Join(execDir, "scripts", serviceScript),
		filepath.Join(os.Getenv("HOME"), ".gesturepaint", "scripts", serviceScript),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".gesturepaint/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonResponse is the line-delimited JSON produced by the landmark service.
type jsonResponse struct {
	Hands []jsonHand `json:"hands"`
	Faces []jsonFace `json:"faces"`
}

type jsonHand struct {
	Points     []Point2D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

type jsonFace struct {
	Points []Point2D `json:"points"`
}

// parseResponse decodes one service line. Only the first hand and face are
// kept; a hand with fewer than NumLandmarks points is dropped as malformed.
func parseResponse(line []byte) (Observation, error) {
	var resp jsonResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return Observation{}, fmt.Errorf("parse response: %w", err)
	}

	var obs Observation
	if len(resp.Hands) > 0 && len(resp.Hands[0].Points) >= NumLandmarks {
		h := resp.Hands[0]
		hand := &HandLandmarks{Handedness: h.Handedness, Score: h.Score}
		copy(hand.Points[:], h.Points)
		obs.Hand = hand
	}
	if len(resp.Faces) > 0 && len(resp.Faces[0].Points) > 0 {
		obs.Face = &FaceLandmarks{Points: resp.Faces[0].Points}
	}

	return obs, nil
}
