package kfmt

import "io"

var (
	newLine = []byte("\n")

	infoWriter = PrefixWriter{Sink: activeSink{}, Prefix: []byte("[  INFO] ")}
	warnWriter = PrefixWriter{Sink: activeSink{}, Prefix: []byte("[  WARN] ")}
)

// activeSink forwards writes to the current output sink or the early print
// buffer if no sink has been attached yet.
type activeSink struct{}

func (activeSink) Write(p []byte) (int, error) {
	doWrite(outputSink, p)
	return len(p), nil
}

// Infof formats according to format and emits the result as an
// informational log line. A trailing line feed is always appended.
func Infof(format string, args ...interface{}) {
	Fprintf(&infoWriter, format, args...)
	infoWriter.Write(newLine)
}

// Warnf behaves like Infof but tags the emitted line as a warning.
func Warnf(format string, args ...interface{}) {
	Fprintf(&warnWriter, format, args...)
	warnWriter.Write(newLine)
}

// InfoWriter returns a writer that tags each line written to it as
// informational. It is meant for multi-line diagnostics such as tables.
func InfoWriter() io.Writer {
	return &infoWriter
}
