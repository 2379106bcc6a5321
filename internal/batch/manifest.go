package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one rendered scene in the output manifest.
type ManifestEntry struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Dump     string `json:"dump,omitempty"`
	Polygons int    `json:"polygons"`
	Accepted int    `json:"accepted"`
	Written  int    `json:"pixels_written"`
}

// WriteManifest writes manifest.json for the successful results.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:     r.Name,
			Image:    r.Image,
			Dump:     r.Dump,
			Polygons: r.Polygons,
			Accepted: r.Accepted,
			Written:  r.Written,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write manifest %s: %w", path, err)
	}
	return nil
}
