package process

import (
	"bytes"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Stream identifies the output stream a line was read from
type Stream string

const (
	// Stdout stream
	Stdout Stream = "stdout"

	// Stderr stream
	Stderr Stream = "stderr"
)

// Line of output emitted by a child process
type Line struct {
	Stream Stream
	Text   string
}

// LineSink receives output lines. Calls are serialized by the runner.
type LineSink func(Line)

// ZapSink logs every line as an info entry, with the stream as a field
func ZapSink(l *zap.Logger, fields ...zap.Field) LineSink {
	return func(line Line) {
		l.Info(line.Text, append(fields, zap.String("stream", string(line.Stream)))...)
	}
}

// PrintfSink forwards lines to a printf-like function, one call per line.
//
// Lines are used as the format string, so verbs in the tool output are escaped.
func PrintfSink(printf func(string, ...interface{})) LineSink {
	return func(line Line) {
		printf(EscapeFormat(line.Text) + "\n")
	}
}

// EscapeFormat escapes placeholders that a printf-like function would interpret
func EscapeFormat(text string) string {
	return strings.ReplaceAll(text, "%", "%%")
}

// MultiSink fans out lines to several sinks
func MultiSink(sinks ...LineSink) LineSink {
	return func(line Line) {
		for _, sink := range sinks {
			if sink != nil {
				sink(line)
			}
		}
	}
}

// Collector accumulates lines, e.g. to attach tool output to a report.
//
// With Max set, only the Max most recent lines are kept.
type Collector struct {
	Max int

	mu    sync.Mutex
	lines []Line
}

// Sink to register on a runner or a command
func (c *Collector) Sink() LineSink {
	return func(line Line) {
		c.mu.Lock()
		c.lines = append(c.lines, line)
		if c.Max > 0 && len(c.lines) > c.Max {
			c.lines = c.lines[len(c.lines)-c.Max:]
		}
		c.mu.Unlock()
	}
}

// Lines collected so far, in order of arrival
func (c *Collector) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Texts collected so far, without stream information
func (c *Collector) Texts() []string {
	lines := c.Lines()
	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, line.Text)
	}
	return texts
}

// lineWriter splits what a child process writes into lines.
//
// A partial trailing line is kept until the next write or Flush.
type lineWriter struct {
	stream  Stream
	emit    func(Line)
	pending []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.emit(Line{Stream: w.stream, Text: strings.TrimSuffix(string(w.pending[:i]), "\r")})
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}

// Flush emits any partial line left
func (w *lineWriter) Flush() {
	if len(w.pending) == 0 {
		return
	}
	w.emit(Line{Stream: w.stream, Text: strings.TrimSuffix(string(w.pending), "\r")})
	w.pending = nil
}
