package wire

import (
	"bufio"
	"io"
	"os"

	"github.com/relabs-tech/tilt_streamer/internal/orientation"
)

// WriterSink writes wire lines to an io.Writer, flushing after every
// line.
type WriterSink struct {
	w *bufio.Writer
}

// NewWriterSink wraps any writer as a line-flushed sink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

// NewStdoutSink returns the default stdout sink, the surface the
// downstream consumer reads.
func NewStdoutSink() *WriterSink {
	return NewWriterSink(os.Stdout)
}

func (s *WriterSink) Emit(t orientation.Tilt) error {
	if _, err := s.w.WriteString(FormatLine(t)); err != nil {
		return err
	}
	return s.w.Flush()
}
