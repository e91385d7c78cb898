package texture

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Index maps lowercase skin stems to filesystem paths.
// PNG files take priority over TGA for the same stem.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

var skinExts = map[string]int{".png": 2, ".tga": 1}

// BuildIndex scans dir and its subdirectories for skin images.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := skinExts[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists || rank > skinExts[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for a skin name, or ("", false).
func (idx *Index) ResolvePath(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Names returns the indexed stems in sorted order.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.entries))
	for k := range idx.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed skins.
func (idx *Index) Len() int {
	return len(idx.entries)
}
