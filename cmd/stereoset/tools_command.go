package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stereoset/internal/deps"
	"stereoset/internal/services/ffmpeg"
	"stereoset/internal/services/sox"
)

func newToolsCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Check which merge backends are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			ffmpegClient, err := ffmpeg.New(cfg.Tools.FFmpegBinary, cfg.Tools.MergeTimeout)
			if err != nil {
				return err
			}
			soxClient, err := sox.New(cfg.Tools.SoxBinary, cfg.Tools.MergeTimeout)
			if err != nil {
				return err
			}
			probes := map[string]bool{
				"ffmpeg": ffmpegClient.Available(cmd.Context()),
				"sox":    soxClient.Available(cmd.Context()),
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses)+1)
			for _, status := range statuses {
				label := availabilityLabel(status.Available && probes[status.Name])
				detail := status.Detail
				if status.Available && !probes[status.Name] {
					detail = "binary found but did not respond to a version probe"
				}
				rows = append(rows, []string{status.Name, status.Command, label, detail})
			}
			rows = append(rows, []string{"native", "built in", "available", ""})

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Backend", "Binary", "Status", "Detail"},
				rows,
			))
			return nil
		},
	}
}

func availabilityLabel(available bool) string {
	if available {
		return "available"
	}
	return "missing"
}
