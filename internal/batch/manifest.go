package batch

import (
	"path"

	"globe-sdf/internal/output"
)

// Entries flattens the manifest entries of every result, prefixing image
// paths with the result's directory so they are relative to the batch
// output root.
func Entries(results []Result) []output.ManifestEntry {
	var entries []output.ManifestEntry
	for _, r := range results {
		if r.Report == nil {
			continue
		}
		for _, e := range r.Report.Entries {
			e.Image = path.Join(r.Name, e.Image)
			entries = append(entries, e)
		}
	}
	return entries
}

// WriteManifest writes the manifest of a batch run to file.
func WriteManifest(file string, results []Result) error {
	return output.WriteManifest(file, Entries(results))
}
