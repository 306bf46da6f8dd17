package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupMode selects where backups of fixed files go.
type BackupMode string

const (
	// BackupModeSidecar writes <file>.dslint.bak next to the fixed file.
	BackupModeSidecar BackupMode = "sidecar"
	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to a file's path to name its sidecar backup.
const BackupSuffix = ".dslint.bak"

// BackupConfig controls backups taken before a fix is written.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns a disabled sidecar configuration.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Mode: BackupModeSidecar}
}

// BackupPath returns where the backup of path goes, or "" when mode
// disables backups. Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup saves content, the bytes that were linted, as the backup of
// the file described by info. An existing backup is kept so that it always
// holds the content from before the first fix. It returns the backup path,
// or "" when no backup was written.
func CreateBackup(ctx context.Context, info *FileInfo, content []byte, cfg BackupConfig) (string, error) {
	if !cfg.Enabled || info == nil {
		return "", nil
	}
	backupPath := BackupPath(info.Path, cfg.Mode)
	if backupPath == "" {
		return "", nil
	}

	_, err := os.Stat(backupPath)
	switch {
	case err == nil:
		return "", nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("stat backup path: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, content, info.Mode); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backupPath, nil
}

// RemoveBackup deletes a backup created by CreateBackup. A missing file is
// not an error.
func RemoveBackup(backupPath string) error {
	if backupPath == "" {
		return nil
	}
	if err := os.Remove(backupPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove backup: %w", err)
	}
	return nil
}
