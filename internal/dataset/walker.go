package dataset

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"stereoset/internal/combine"
	"stereoset/internal/logging"
	"stereoset/internal/services"
)

// Outcome classifies the result of processing one sample directory.
type Outcome int

const (
	// OutcomeCreated means two tracks were merged into a new stereo file.
	OutcomeCreated Outcome = iota
	// OutcomeCopied means a pre-merged stereo file was copied verbatim.
	OutcomeCopied
	// OutcomeMissing means one or more expected input files were absent.
	OutcomeMissing
	// OutcomeError means the merge or copy failed.
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeCopied:
		return "copied"
	case OutcomeMissing:
		return "missing"
	case OutcomeError:
		return "error"
	}
	return "unknown"
}

// Result records what happened to one sample directory.
type Result struct {
	// Sample is the short identity used in logs: the first 8 hex chars of
	// a UUID directory name, or the numeric name itself.
	Sample  string
	Dir     string
	Output  string
	Tier    string
	Missing []string
	Err     error
	Outcome Outcome
}

// Job identifies one (category, dataset, model) traversal.
type Job struct {
	SourceRoot string
	TargetRoot string
	Pair       Pair
	Model      Model
}

// SourceDir returns the model-specific source subtree for the job.
func (j Job) SourceDir() string {
	return filepath.Join(j.SourceRoot, j.Pair.SourceDirName(), j.Model.SourceDir)
}

// TargetDir returns the destination directory for the job's outputs.
func (j Job) TargetDir() string {
	return TargetDir(j.TargetRoot, j.Pair, j.Model.Name)
}

// Walker normalizes per-model sample directories into the target tree.
// It is single-threaded; each sample completes (or fails) before the next
// begins, and the per-destination counter is only advanced on success.
type Walker struct {
	combiner *combine.Combiner
	logger   *slog.Logger
}

// NewWalker constructs a walker over the given combiner.
func NewWalker(combiner *combine.Combiner, logger *slog.Logger) *Walker {
	return &Walker{
		combiner: combiner,
		logger:   logging.NewComponentLogger(logger, "walker"),
	}
}

// Process traverses one job's source subtree and materializes an output for
// every complete sample directory. A missing source subtree is not an
// error: the job simply yields no results. The returned error is non-nil
// only for configuration mistakes or a cancelled context; per-sample
// failures are reported in the results.
func (w *Walker) Process(ctx context.Context, job Job) ([]Result, error) {
	rule, ok := RuleFor(job.Pair.Category, job.Model.Name)
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "walk", "resolve rule",
			"no input rule for category "+job.Pair.Category+" model "+job.Model.Name, nil)
	}

	logger := w.logger.With(
		logging.String("category", job.Pair.Category),
		logging.String("dataset", job.Pair.Dataset),
		logging.String("model", job.Model.Name),
	)

	sourceDir := job.SourceDir()
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("source directory not found, skipping", logging.String("dir", sourceDir))
			return nil, nil
		}
		return nil, services.Wrap(services.ErrIO, "walk", "list source directory", sourceDir, err)
	}

	samples := recognizeSamples(entries, IdentityFor(job.Pair.Dataset))
	targetDir := job.TargetDir()

	results := make([]Result, 0, len(samples))
	counter := 1
	for _, sample := range samples {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		sampleDir := filepath.Join(sourceDir, sample.name)
		result := Result{Sample: sample.short, Dir: sampleDir}

		inputs := rule.Inputs()
		paths := make([]string, len(inputs))
		var missing []string
		for i, name := range inputs {
			paths[i] = filepath.Join(sampleDir, name)
			if _, err := os.Stat(paths[i]); err != nil {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			result.Outcome = OutcomeMissing
			result.Missing = missing
			logger.Warn("missing input files",
				logging.String("sample", sample.short),
				logging.String("files", strings.Join(missing, ", ")),
			)
			results = append(results, result)
			continue
		}

		output := SamplePath(targetDir, counter)
		switch rule.Mode {
		case ModePassthrough:
			if err := w.combiner.Copy(paths[0], output); err != nil {
				result.Outcome = OutcomeError
				result.Err = err
				logger.Error("copy failed", logging.String("sample", sample.short), logging.Error(err))
				results = append(results, result)
				continue
			}
			result.Outcome = OutcomeCopied
		default:
			tier, err := w.combiner.Combine(ctx, paths[0], paths[1], output)
			if err != nil {
				result.Outcome = OutcomeError
				result.Err = err
				logger.Error("merge failed", logging.String("sample", sample.short), logging.Error(err))
				results = append(results, result)
				continue
			}
			result.Outcome = OutcomeCreated
			result.Tier = tier
		}

		result.Output = output
		counter++
		logger.Info(result.Outcome.String(),
			logging.String("sample", sample.short),
			logging.String("output", output),
			logging.String("tier", result.Tier),
		)
		results = append(results, result)
	}

	return results, nil
}

type sampleDir struct {
	name  string
	short string
	num   int64
}

// recognizeSamples filters directory entries down to those matching the
// dataset's sample-identity pattern. Numeric names are ordered by value so
// output numbering is deterministic; UUID names keep enumeration order.
func recognizeSamples(entries []os.DirEntry, identity Identity) []sampleDir {
	var samples []sampleDir
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch identity {
		case IdentityNumeric:
			num, err := strconv.ParseInt(name, 10, 64)
			if err != nil || num < 0 {
				continue
			}
			samples = append(samples, sampleDir{name: name, short: name, num: num})
		default:
			// Canonical 36-character form only; uuid.Parse alone would
			// also admit braced and URN variants.
			if len(name) != 36 {
				continue
			}
			if _, err := uuid.Parse(name); err != nil {
				continue
			}
			samples = append(samples, sampleDir{name: name, short: name[:8]})
		}
	}
	if identity == IdentityNumeric {
		sort.Slice(samples, func(i, j int) bool { return samples[i].num < samples[j].num })
	}
	return samples
}
