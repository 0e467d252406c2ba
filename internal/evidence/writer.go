package evidence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/aes/internal/runner"
)

// Output layout relative to the output directory.
const (
	RunsDir  = "runs"
	LogName  = "evidence.jsonl"
	lockName = LogName + ".lock"
)

// Writer persists run records and appends to the evidence log.
type Writer struct {
	// LockWait bounds how long Persist waits for another process's append lock.
	LockWait time.Duration

	// StaleAfter is the age after which a lock is broken even if its owner is alive.
	StaleAfter time.Duration

	// Logger receives debug diagnostics. Defaults to discarding output.
	Logger *slog.Logger

	now        func() time.Time
	isPIDAlive func(pid int) bool
}

// NewWriter returns a Writer with default lock settings:
// 5s wait, locks stale after 10 minutes.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{
		LockWait:   5 * time.Second,
		StaleAfter: 10 * time.Minute,
		Logger:     logger,
		now:        time.Now,
		isPIDAlive: isPIDAlive,
	}
}

// RunPath returns where the artifact for runID is stored under outDir.
func RunPath(outDir, runID string) string {
	return filepath.Join(outDir, RunsDir, runID+".json")
}

// LogPath returns the evidence log path under outDir.
func LogPath(outDir string) string {
	return filepath.Join(outDir, LogName)
}

// Persist writes run to outDir/runs/<run_id>.json and appends one line to
// outDir/evidence.jsonl, creating directories as needed.
//
// The run artifact is written before the evidence line. If the append
// fails the artifact is left in place and the error is returned along with
// the artifact path.
func (w *Writer) Persist(run runner.RunRecord, outDir string) (runPath, logPath string, err error) {
	if err := os.MkdirAll(filepath.Join(outDir, RunsDir), 0755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	runPath = RunPath(outDir, run.RunID)
	data, err := MarshalRun(run)
	if err != nil {
		return "", "", err
	}
	if err := writeFileAtomic(runPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write run artifact: %w", err)
	}
	w.Logger.Debug("run artifact written", "path", runPath, "bytes", len(data))

	logPath = LogPath(outDir)
	if err := w.appendEntry(logPath, EntryFor(run)); err != nil {
		return runPath, "", err
	}
	w.Logger.Debug("evidence appended", "path", logPath, "run_id", run.RunID)

	return runPath, logPath, nil
}

// appendEntry writes entry as a single line while holding the append lock.
func (w *Writer) appendEntry(logPath string, entry Entry) (err error) {
	line, err := marshalLine(entry)
	if err != nil {
		return err
	}

	lock := fileLock{
		path:       filepath.Join(filepath.Dir(logPath), lockName),
		wait:       w.LockWait,
		retryEvery: 50 * time.Millisecond,
		staleAfter: w.StaleAfter,
		now:        w.now,
		isPIDAlive: w.isPIDAlive,
	}
	unlock, err := lock.acquire()
	if err != nil {
		return fmt.Errorf("failed to lock evidence log: %w", err)
	}
	defer func() {
		if unlockErr := unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("failed to release evidence lock: %w", unlockErr)
		}
	}()

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open evidence log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to append evidence: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close evidence log: %w", err)
	}
	return nil
}

// MarshalRun renders run as the run artifact: 2-space indented JSON with a
// trailing newline and no HTML escaping.
func MarshalRun(run runner.RunRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return nil, fmt.Errorf("failed to marshal run record: %w", err)
	}
	return buf.Bytes(), nil
}

// marshalLine renders entry as one compact JSON line ending in '\n'.
func marshalLine(entry Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return nil, fmt.Errorf("failed to marshal evidence entry: %w", err)
	}
	return buf.Bytes(), nil
}
