package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one skin in the output manifest.
type ManifestEntry struct {
	Name   string            `json:"name"`
	Source string            `json:"source"`
	Files  map[string]string `json:"files,omitempty"`
	Keys   []string          `json:"keys,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// WriteManifest writes manifest.json to the output directory.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:   r.Name,
			Source: r.Source,
			Files:  r.Files,
			Keys:   r.Keys,
			Error:  r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
