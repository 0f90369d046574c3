// Package logs reads back the structured run log a processing run writes.
// It supports showing the last lines of the log and following the file as
// a run appends to it.
package logs
