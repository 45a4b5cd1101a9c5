package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestEntry describes one file written by a run.
//
// Kind is "sdf", "face" or "preview". Face and GLTarget are set for faces
// only. Image is slash-separated and relative to the manifest.
type ManifestEntry struct {
	Input    string `json:"input"`
	Kind     string `json:"kind"`
	Face     string `json:"face,omitempty"`
	GLTarget string `json:"gl_target,omitempty"`
	Image    string `json:"image"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// WriteManifest writes entries to path as indented JSON.
func WriteManifest(path string, entries []ManifestEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("output: manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) ([]ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("output: manifest: %w", err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("output: manifest %s: %w", path, err)
	}
	return entries, nil
}
