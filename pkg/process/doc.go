// Package process runs external tools as child processes.
//
// Standard output and standard error are drained concurrently while the
// process runs and forwarded line by line to a LineSink, so that the tool's
// diagnostics are already logged when a non-zero exit code is reported.
package process
