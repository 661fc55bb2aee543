package game

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// WriteSaveFile atomically writes a snapshot to path.
func WriteSaveFile(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create save dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "save-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp save file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := EncodeSnapshot(writer, snap); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush save file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close save file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return nil
}

// ReadSaveFile loads a snapshot from path.
func ReadSaveFile(path string) (Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only save file.
			_ = cerr
		}
	}()
	return DecodeSnapshot(bufio.NewReader(file))
}

// RemoveSaveFile deletes the save file. A missing file is not an error.
func RemoveSaveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove save file: %w", err)
	}
	return nil
}
