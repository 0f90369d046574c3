// Package logging wires log/slog with the handlers used across the
// pipeline: a pretty console handler for interactive runs (colored when the
// output is a terminal) and a JSON handler for file output, plus the attr
// helpers the rest of the codebase logs with.
package logging
