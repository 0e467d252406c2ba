package evidence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

// LockInfo is the metadata stored in an append lock file.
type LockInfo struct {
	PID       int       `json:"pid"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrLocked indicates the evidence log stayed locked by another live
// process for longer than the writer was willing to wait.
type ErrLocked struct {
	Path string
	Info *LockInfo // nil if the lock file is unreadable
}

func (e *ErrLocked) Error() string {
	if e.Info != nil {
		return fmt.Sprintf("evidence log is locked by pid %d since %s (lock file: %s)",
			e.Info.PID, e.Info.CreatedAt.Format(time.RFC3339), e.Path)
	}
	return fmt.Sprintf("evidence log is locked (lock file: %s)", e.Path)
}

// fileLock is an O_EXCL lock file with stale-lock recovery.
type fileLock struct {
	path       string
	wait       time.Duration
	retryEvery time.Duration
	staleAfter time.Duration
	now        func() time.Time
	isPIDAlive func(pid int) bool
}

// acquire takes the lock, retrying until wait elapses.
// Locks whose owner is gone or older than staleAfter are removed.
func (l fileLock) acquire() (unlock func() error, err error) {
	deadline := l.now().Add(l.wait)

	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			return l.hold(f)
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		judged, statErr := os.Stat(l.path)
		if os.IsNotExist(statErr) {
			continue
		}
		info, readErr := readLockInfo(l.path)
		if statErr == nil && l.isStale(judged, info, readErr) {
			if breakErr := l.breakStale(judged); breakErr != nil {
				return nil, &ErrLocked{Path: l.path, Info: info}
			}
			continue
		}

		if !l.now().Before(deadline) {
			return nil, &ErrLocked{Path: l.path, Info: info}
		}
		time.Sleep(l.retryEvery)
	}
}

func (l fileLock) hold(f *os.File) (func() error, error) {
	data, _ := json.Marshal(LockInfo{PID: os.Getpid(), CreatedAt: l.now()})
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(l.path)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(l.path)
		return nil, fmt.Errorf("failed to close lock file: %w", err)
	}

	return func() error {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}, nil
}

// isStale decides whether the lock file described by stat can be broken.
// An unreadable lock is judged by file age only.
func (l fileLock) isStale(stat os.FileInfo, info *LockInfo, readErr error) bool {
	if readErr != nil {
		return l.now().Sub(stat.ModTime()) > l.staleAfter
	}
	if !l.isPIDAlive(info.PID) {
		return true
	}
	return l.now().Sub(info.CreatedAt) > l.staleAfter
}

// breakStale moves the lock file judged stale out of the way. Another
// process may have broken it and taken a fresh lock since it was judged;
// in that case the moved file is not the judged one and is linked back.
func (l fileLock) breakStale(judged os.FileInfo) error {
	tomb := fmt.Sprintf("%s.stale-%d-%d", l.path, os.Getpid(), time.Now().UnixNano())
	if err := os.Rename(l.path, tomb); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer os.Remove(tomb)

	moved, err := os.Stat(tomb)
	if err != nil {
		return err
	}
	if !os.SameFile(judged, moved) {
		return os.Link(tomb, l.path)
	}
	return nil
}

func readLockInfo(path string) (*LockInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// isPIDAlive uses the signal 0 trick: it succeeds if the process exists
// and we may signal it. EPERM means it exists but belongs to someone else.
func isPIDAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
