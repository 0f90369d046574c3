package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"stereoset/internal/combine"
	"stereoset/internal/config"
	"stereoset/internal/dataset"
	"stereoset/internal/deps"
	"stereoset/internal/logging"
)

func newRunCommand(cctx *commandContext) *cobra.Command {
	var sourceFlag string
	var targetFlag string
	var categoryFlag string
	var modelFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every source tree into the canonical stereo dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(sourceFlag) != "" {
				if cfg.Paths.SourceDir, err = config.ExpandPath(sourceFlag); err != nil {
					return err
				}
			}
			if strings.TrimSpace(targetFlag) != "" {
				if cfg.Paths.TargetDir, err = config.ExpandPath(targetFlag); err != nil {
					return err
				}
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
				if !status.Available {
					logger.Warn("merge tool unavailable, later tiers will cover",
						logging.String("tool", status.Name),
						logging.String("detail", status.Detail))
				}
			}

			jobs, err := selectJobs(cfg, categoryFlag, modelFlag)
			if err != nil {
				return err
			}

			// The only fatal failure: without the target tree nothing can
			// be processed.
			if err := dataset.EnsureTree(cfg.Paths.TargetDir); err != nil {
				return err
			}

			lock := flock.New(filepath.Join(cfg.Paths.TargetDir, ".stereoset.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another stereoset run is already writing to %s", cfg.Paths.TargetDir)
			}
			defer func() {
				_ = lock.Unlock()
			}()

			combiner, err := combine.New(cfg, logger)
			if err != nil {
				return err
			}
			walker := dataset.NewWalker(combiner, logger)

			bar := newRunProgress(len(jobs), cfg)
			summary := make([][]string, 0, len(jobs))
			totals := tally{}
			for _, job := range jobs {
				results, err := walker.Process(cmd.Context(), job)
				if err != nil {
					return err
				}
				if bar != nil {
					_ = bar.Add(1)
				}
				if len(results) == 0 {
					continue
				}
				counts := tallyResults(results)
				totals = totals.add(counts)
				summary = append(summary, []string{
					job.Pair.Category,
					job.Pair.Dataset,
					job.Model.Name,
					strconv.Itoa(counts.created),
					strconv.Itoa(counts.copied),
					strconv.Itoa(counts.missing),
					strconv.Itoa(counts.errored),
				})
			}
			if bar != nil {
				_ = bar.Finish()
			}

			out := cmd.OutOrStdout()
			if len(summary) == 0 {
				fmt.Fprintf(out, "No sample directories found under %s\n", cfg.Paths.SourceDir)
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Category", "Dataset", "Model", "Created", "Copied", "Missing", "Errors"},
				summary,
				3, 4, 5, 6,
			))
			fmt.Fprintf(out, "%d written (%d merged, %d copied), %d missing inputs, %d errors\n",
				totals.created+totals.copied, totals.created, totals.copied, totals.missing, totals.errored)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Override the configured source root")
	cmd.Flags().StringVar(&targetFlag, "target", "", "Override the configured target root")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "Only process one category (pause, backchannel, turntaking, interruption)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Only process one model (dgslm, moshi, freezeomni)")
	return cmd
}

type tally struct {
	created int
	copied  int
	missing int
	errored int
}

func (t tally) add(other tally) tally {
	t.created += other.created
	t.copied += other.copied
	t.missing += other.missing
	t.errored += other.errored
	return t
}

func tallyResults(results []dataset.Result) tally {
	counts := tally{}
	for _, result := range results {
		switch result.Outcome {
		case dataset.OutcomeCreated:
			counts.created++
		case dataset.OutcomeCopied:
			counts.copied++
		case dataset.OutcomeMissing:
			counts.missing++
		case dataset.OutcomeError:
			counts.errored++
		}
	}
	return counts
}

func selectJobs(cfg *config.Config, category, model string) ([]dataset.Job, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	model = strings.ToLower(strings.TrimSpace(model))

	var jobs []dataset.Job
	for _, pair := range dataset.Pairs() {
		if category != "" && pair.Category != category {
			continue
		}
		for _, m := range dataset.Models() {
			if model != "" && m.Name != model {
				continue
			}
			jobs = append(jobs, dataset.Job{
				SourceRoot: cfg.Paths.SourceDir,
				TargetRoot: cfg.Paths.TargetDir,
				Pair:       pair,
				Model:      m,
			})
		}
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no jobs match category %q model %q", category, model)
	}
	return jobs, nil
}

// newRunProgress returns a progress bar for interactive console runs, or
// nil when output is redirected or logs are structured JSON.
func newRunProgress(jobs int, cfg *config.Config) *progressbar.ProgressBar {
	if cfg.Logging.Format != "console" || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(jobs,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("processing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
