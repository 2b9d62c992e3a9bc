package transcribe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/andreipa/police-transcriber/internal/model"
)

// EnginePathEnv overrides the whisper-cli binary location.
const EnginePathEnv = "POLICE_TRANSCRIBER_WHISPER_PATH"

// CLIEngine transcribes by running a local whisper-cli binary against the
// provisioned model, streaming timestamped lines from its stdout.
type CLIEngine struct {
	Executable string
	FFprobe    string
	Logger     *zap.Logger
}

func NewCLIEngine(logger *zap.Logger) (*CLIEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if override := strings.TrimSpace(os.Getenv(EnginePathEnv)); override != "" {
		if err := ensureExecutable(override); err != nil {
			return nil, fmt.Errorf("%s is not executable: %w", EnginePathEnv, err)
		}
		return &CLIEngine{Executable: override, FFprobe: "ffprobe", Logger: logger}, nil
	}

	exe, err := exec.LookPath("whisper-cli")
	if err != nil {
		return nil, fmt.Errorf("whisper-cli not found on PATH; install whisper-cli or set %s", EnginePathEnv)
	}

	return &CLIEngine{Executable: exe, FFprobe: "ffprobe", Logger: logger}, nil
}

func (e *CLIEngine) Transcribe(ctx context.Context, req Request) (SegmentReader, Info, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return nil, Info{}, errors.New("audio path is required")
	}
	if strings.TrimSpace(req.ModelDir) == "" {
		return nil, Info{}, errors.New("model directory is required")
	}

	if err := ensureExecutable(e.Executable); err != nil {
		return nil, Info{}, fmt.Errorf("whisper engine missing or not executable: %w", err)
	}

	modelBin := filepath.Join(req.ModelDir, model.BinaryFileName)
	args := []string{"-m", modelBin, "-f", req.AudioPath, "-bs", strconv.Itoa(beamSize)}
	lang := strings.TrimSpace(req.Language)
	if lang != "" && lang != "auto" {
		args = append(args, "-l", lang)
	}

	// Duration is probed up front because whisper-cli only reveals it
	// implicitly through segment timestamps.
	info := Info{Duration: e.probeDuration(ctx, req.AudioPath)}

	cmd := exec.CommandContext(ctx, e.Executable, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, Info{}, fmt.Errorf("pipe whisper stdout: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger().Debug("running whisper engine", zap.String("engine", e.Executable), zap.Strings("args", args))
	if err := cmd.Start(); err != nil {
		return nil, Info{}, fmt.Errorf("start whisper engine: %w", err)
	}

	return &cliSegmentReader{
		scanner: bufio.NewScanner(stdout),
		stdout:  stdout,
		cmd:     cmd,
		stderr:  &stderr,
	}, info, nil
}

func (e *CLIEngine) probeDuration(ctx context.Context, audioPath string) float64 {
	ffprobe := e.FFprobe
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}

	out, err := exec.CommandContext(ctx, ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	).Output()
	if err != nil {
		e.logger().Warn("could not probe audio duration", zap.String("audio", audioPath), zap.Error(err))
		return 0
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		e.logger().Warn("unparsable ffprobe duration", zap.ByteString("output", out), zap.Error(err))
		return 0
	}
	return duration
}

func (e *CLIEngine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// timestampLine matches whisper-cli's default stdout format, e.g.
// [00:00:00.000 --> 00:00:04.280]  some transcribed text
var timestampLine = regexp.MustCompile(`^\[(\d+):(\d{2}):(\d{2})\.(\d{3}) --> (\d+):(\d{2}):(\d{2})\.(\d{3})\]\s*(.*)$`)

type cliSegmentReader struct {
	scanner *bufio.Scanner
	stdout  io.ReadCloser
	cmd     *exec.Cmd
	stderr  *bytes.Buffer
	done    bool
	waited  bool
}

func (r *cliSegmentReader) Next() (Segment, error) {
	if r.done {
		return Segment{}, io.EOF
	}

	for r.scanner.Scan() {
		seg, ok := parseSegmentLine(r.scanner.Text())
		if ok {
			return seg, nil
		}
	}

	r.done = true
	r.waited = true
	scanErr := r.scanner.Err()
	if err := r.cmd.Wait(); err != nil {
		return Segment{}, fmt.Errorf("whisper engine failed: %w (%s)", err, strings.TrimSpace(r.stderr.String()))
	}
	if scanErr != nil {
		return Segment{}, fmt.Errorf("read whisper output: %w", scanErr)
	}
	return Segment{}, io.EOF
}

// Close reaps the child process. Without it, a caller abandoning the stream
// mid-file would leave whisper-cli running and eventually blocked on the
// full stdout pipe.
func (r *cliSegmentReader) Close() error {
	if r.waited {
		return nil
	}
	r.done = true
	r.waited = true

	_ = r.stdout.Close()
	if r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	_ = r.cmd.Wait()
	return nil
}

func parseSegmentLine(line string) (Segment, bool) {
	match := timestampLine.FindStringSubmatch(strings.TrimSpace(line))
	if match == nil {
		return Segment{}, false
	}

	return Segment{
		Start: clockToSeconds(match[1], match[2], match[3], match[4]),
		End:   clockToSeconds(match[5], match[6], match[7], match[8]),
		Text:  strings.TrimSpace(match[9]),
	}, true
}

func clockToSeconds(hours, minutes, seconds, millis string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	ms, _ := strconv.Atoi(millis)
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}
