package patch

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// WriteFileAtomic replaces the contents of path with data by writing a
// temporary file in the same directory and renaming it over the target. The
// target's permission bits are kept; symlinks are followed so the link itself
// survives.
func WriteFileAtomic(path string, data []byte) (err error) {
	if resolved, evalErr := filepath.EvalSymlinks(path); evalErr == nil {
		path = resolved
	}

	perm := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file for %s", path)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "failed to sync %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", path)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return errors.Wrapf(err, "failed to set mode on %s", path)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}
