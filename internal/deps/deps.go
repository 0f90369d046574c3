// Package deps reports the availability of the external merge tools.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"stereoset/internal/config"
)

// Requirement defines an external binary stereoset can make use of.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// Optional requirements degrade gracefully when absent; the
	// in-process merge tier covers for both external tools.
	Optional bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the configured merge tools in tier order.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ffmpeg",
			Command:     cfg.Tools.FFmpegBinary,
			Description: "Preferred channel merge tool",
			Optional:    true,
		},
		{
			Name:        "sox",
			Command:     cfg.Tools.SoxBinary,
			Description: "Fallback channel merge tool",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if resolved, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
		} else {
			status.Available = true
			status.Command = resolved
		}
		results = append(results, status)
	}
	return results
}
