package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadPatchFile reads the ordered patch list from path. A missing file is not
// an error; the pipeline then runs with built-in rules only.
func LoadPatchFile(path string) ([]Patch, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read patch file %s: %w", path, err)
	}

	var patches []Patch
	if err := json.Unmarshal(data, &patches); err != nil {
		return nil, fmt.Errorf("parse patch file %s: %w", path, err)
	}
	return patches, nil
}

// AppendPatchFile validates the patch and appends it to the list at path,
// creating the file (and parent directory) when absent. The file is rewritten
// via a temp file so a crash cannot leave a truncated list behind.
func AppendPatchFile(path string, patch Patch) error {
	if path == "" {
		return errors.New("patch file path required")
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	patches, err := LoadPatchFile(path)
	if err != nil {
		return err
	}
	patches = append(patches, patch)

	data, err := json.MarshalIndent(patches, "", "  ")
	if err != nil {
		return fmt.Errorf("encode patch file: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create patch directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".patches-*.json")
	if err != nil {
		return fmt.Errorf("create temp patch file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write patch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close patch file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace patch file: %w", err)
	}
	return nil
}
