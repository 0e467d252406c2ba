package evidence

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/roach88/aes/internal/runner"
)

// ReadRun loads a run artifact written by Persist.
func ReadRun(path string) (runner.RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return runner.RunRecord{}, fmt.Errorf("failed to read run artifact: %w", err)
	}
	var run runner.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return runner.RunRecord{}, fmt.Errorf("failed to parse run artifact %s: %w", path, err)
	}
	return run, nil
}

// ReadLog parses every entry of an evidence log in append order.
// Blank lines are skipped; a malformed line is an error naming its line number.
func ReadLog(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open evidence log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("%s:%d: malformed evidence entry: %w", path, lineNo, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read evidence log: %w", err)
	}
	return entries, nil
}
