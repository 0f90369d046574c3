package dataset

import (
	"fmt"
	"os"
	"path/filepath"
)

// Linguistic-phenomenon categories covered by the benchmark.
const (
	CategoryPause        = "pause"
	CategoryBackchannel  = "backchannel"
	CategoryTurnTaking   = "turntaking"
	CategoryInterruption = "interruption"
)

// Source datasets.
const (
	DatasetCandor    = "candor"
	DatasetSynthetic = "synthetic"
	DatasetICC       = "icc"
)

// Pair is a valid (category, dataset) combination.
type Pair struct {
	Category string
	Dataset  string
}

var validPairs = []Pair{
	{CategoryPause, DatasetCandor},
	{CategoryPause, DatasetSynthetic},
	{CategoryBackchannel, DatasetICC},
	{CategoryTurnTaking, DatasetCandor},
	{CategoryInterruption, DatasetSynthetic},
}

// Pairs returns every valid (category, dataset) combination in canonical
// processing order.
func Pairs() []Pair {
	return append([]Pair(nil), validPairs...)
}

// SourceDirName returns the source subtree name for a (category, dataset)
// pair, e.g. candor_pause.
func (p Pair) SourceDirName() string {
	return p.Dataset + "_" + p.Category
}

// TargetDir returns the destination directory for one model's output
// within a pair: <root>/<category>/<dataset>/<model>.
func TargetDir(root string, pair Pair, model string) string {
	return filepath.Join(root, pair.Category, pair.Dataset, model)
}

// SamplePath returns the canonical output filename for the n-th sample in
// a destination directory.
func SamplePath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("sample_%d.wav", n))
}

// EnsureTree creates the full target directory tree. This is the only
// fatal failure of a run: nothing is processed when the tree cannot be
// created.
func EnsureTree(root string) error {
	for _, pair := range validPairs {
		for _, model := range Models() {
			dir := TargetDir(root, pair, model.Name)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create target directory %q: %w", dir, err)
			}
		}
	}
	return nil
}
