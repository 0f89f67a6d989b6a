// Package filex contains filesystem helpers for wallet files.
package filex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// sqliteSidecars are the files SQLite may keep next to a database.
var sqliteSidecars = []string{"-wal", "-shm", "-journal"}

// ErrIsDirectory is returned when a file operation meets a directory.
var ErrIsDirectory = errors.New("is a directory")

// RemoveIfExists deletes the file at path and reports whether something was
// removed. A missing file is not an error; a directory is.
func RemoveIfExists(path string) (bool, error) {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", path, err)
	}
	if fi.IsDir() {
		return false, fmt.Errorf("remove %s: %w", path, ErrIsDirectory)
	}
	err = os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("remove %s: %w", path, err)
}

// RemoveDatabase deletes a SQLite database file together with its sidecars.
// Nothing is backed up.
func RemoveDatabase(path string) error {
	if _, err := RemoveIfExists(path); err != nil {
		return err
	}
	for _, suffix := range sqliteSidecars {
		if _, err := RemoveIfExists(path + suffix); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether a regular file is present at path.
func Exists(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err == nil {
		if fi.IsDir() {
			return false, fmt.Errorf("%s: %w", path, ErrIsDirectory)
		}
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
