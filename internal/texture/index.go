package texture

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// extRank orders the formats we can decode. When a directory holds the
// same stem in two formats, the lower rank (lossless first) wins.
var extRank = map[string]int{
	".png":  0,
	".tga":  1,
	".tif":  2,
	".tiff": 2,
	".bmp":  3,
	".webp": 4,
	".gif":  5,
	".jpg":  6,
	".jpeg": 6,
}

// Supported reports whether path has an extension Decode understands.
func Supported(path string) bool {
	_, ok := extRank[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Index maps lowercase file stems to mask image paths.
type Index struct {
	entries map[string]string // stem.lower() -> full path
}

// BuildIndex indexes root. A regular file yields a one-entry index; a
// directory is walked recursively for supported images.
func BuildIndex(root string) (*Index, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}

	idx := &Index{entries: make(map[string]string)}
	if !info.IsDir() {
		idx.add(root)
		return idx, nil
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		idx.add(path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("texture: walk %s: %w", root, err)
	}
	return idx, nil
}

func (idx *Index) add(path string) {
	stem := Stem(path)
	existing, exists := idx.entries[stem]
	if !exists || rank(path) < rank(existing) {
		idx.entries[stem] = path
	}
}

func rank(path string) int {
	if r, ok := extRank[strings.ToLower(filepath.Ext(path))]; ok {
		return r
	}
	return len(extRank)
}

// Stem returns the lowercase base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(strings.ReplaceAll(path, "\\", "/"))
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ResolvePath returns the path indexed for name, or ("", false).
func (idx *Index) ResolvePath(name string) (string, bool) {
	path, ok := idx.entries[Stem(name)]
	return path, ok
}

// Paths returns every indexed path sorted by stem.
func (idx *Index) Paths() []string {
	stems := make([]string, 0, len(idx.entries))
	for s := range idx.entries {
		stems = append(stems, s)
	}
	sort.Strings(stems)
	paths := make([]string, len(stems))
	for i, s := range stems {
		paths[i] = idx.entries[s]
	}
	return paths
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	return len(idx.entries)
}
