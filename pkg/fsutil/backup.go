package fsutil

import (
	"context"
	"fmt"
	"os"
)

// BackupSuffix is appended to a file name to form its backup path.
const BackupSuffix = ".mdlive.bak"

// BackupPath returns the sidecar backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies path to its sidecar backup before it is overwritten.
// An existing backup is left alone so repeated runs keep the first original.
// It reports whether a backup was written; a missing source is not an error.
func CreateBackup(ctx context.Context, path string) (bool, error) {
	backup := BackupPath(path)
	if Exists(backup) {
		return false, nil
	}

	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	content, err := ReadFile(ctx, path)
	if err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}
	if err := WriteAtomic(ctx, backup, content, stat.Mode().Perm()); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}
	return true, nil
}
