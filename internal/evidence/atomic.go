package evidence

import (
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to path using a temp file + rename.
// The temp file lives in the same directory so the rename is atomic on POSIX.
// On failure the previous file (if any) is left unchanged.
// The caller must ensure the parent directory exists.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".aes-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := f.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
