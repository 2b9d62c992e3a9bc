package model

import (
	"path/filepath"
	"sort"
)

const DefaultModel = "large-v2"

// BinaryFileName is the one asset large enough for truncation to go
// unnoticed by an existence check, so it alone carries a minimum-size
// threshold.
const BinaryFileName = "model.bin"

// Spec describes one named speech model: the files that must be present
// locally, where to fetch them, and the smallest size a complete binary
// payload can plausibly have.
type Spec struct {
	Name          string
	Files         []string
	BaseURL       string
	MinBinarySize int64
}

var assetFiles = []string{BinaryFileName, "vocabulary.txt", "tokenizer.json", "config.json"}

var registry = map[string]Spec{
	"base": {
		Name:          "base",
		Files:         assetFiles,
		BaseURL:       "https://huggingface.co/guillaumekln/faster-whisper-base/resolve/main",
		MinBinarySize: 100 << 20,
	},
	"small": {
		Name:          "small",
		Files:         assetFiles,
		BaseURL:       "https://huggingface.co/guillaumekln/faster-whisper-small/resolve/main",
		MinBinarySize: 300 << 20,
	},
	"medium": {
		Name:          "medium",
		Files:         assetFiles,
		BaseURL:       "https://huggingface.co/guillaumekln/faster-whisper-medium/resolve/main",
		MinBinarySize: 1 << 30,
	},
	"large-v2": {
		Name:          "large-v2",
		Files:         assetFiles,
		BaseURL:       "https://huggingface.co/guillaumekln/faster-whisper-large-v2/resolve/main",
		MinBinarySize: 2 << 30,
	},
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Lookup(name string) (Spec, bool) {
	spec, ok := registry[name]
	return spec, ok
}

// LocalDir returns the directory holding a model's asset files under the
// given models root.
func LocalDir(root, name string) string {
	return filepath.Join(root, name)
}
