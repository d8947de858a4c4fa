// Package logtail reads the tail of the console's own JSON log file for the
// Activity screen.
//
// Read keeps a ring buffer of maxLines so only the last lines of a large file
// are held in memory. A missing file yields no lines and no error. Parse
// decodes a log/slog JSON record into an Entry; lines that are not JSON are
// passed through untouched. Tail combines both and drops records below a
// minimum level.
package logtail
