// internal/pipeline/pipeline.go
//
// The stream concatenator. Takes an already-ordered list of gzip segment
// files and streams their decompressed contents, one after another, into
// a single output sink. The sink ends up holding the reconstructed log.
//
// Everything is sequential on purpose: the sink is one ordered byte
// stream, and out-of-order writes would corrupt the reconstruction. The
// first failure aborts the whole run; the sink may hold a partial write
// at that point and no rollback is attempted.

package pipeline

import (
	"bufio"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// DefaultBufferSize is the copy buffer used when none is configured.
const DefaultBufferSize = 32 * 1024

// Observer receives one notification per segment, just before the
// segment is opened. Purely informational; a nil observer is fine.
type Observer interface {
	SegmentStart(index, total int, name string)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(index, total int, name string)

func (f ObserverFunc) SegmentStart(index, total int, name string) { f(index, total, name) }

// Pipeline concatenates decompressed segments into a sink.
type Pipeline struct {
	// BufferSize bounds the intermediate copy buffer. Segments are
	// never materialized whole in memory, whatever their size.
	BufferSize int

	// Observer, when set, is told about each segment as it starts.
	Observer Observer
}

// New returns a pipeline with the default buffer size and no observer.
func New() *Pipeline {
	return &Pipeline{BufferSize: DefaultBufferSize}
}

// Run streams every segment in ordered, in order, into sink. The caller
// owns sink and is responsible for flushing and closing it. The first
// error aborts the run; remaining segments are not touched.
func (p *Pipeline) Run(ordered []string, sink io.Writer) error {
	size := p.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	buf := make([]byte, size)
	for i, name := range ordered {
		if p.Observer != nil {
			p.Observer.SegmentStart(i, len(ordered), name)
		}
		if err := p.copySegment(name, sink, buf); err != nil {
			return err
		}
	}
	return nil
}

// RunFile creates (or truncates) the file at outPath, runs the pipeline
// into it through a buffered writer, and flushes before reporting
// success. Reruns against the same path produce identical files.
func (p *Pipeline) RunFile(ordered []string, outPath string) error {
	out, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return &SinkError{Err: err}
	}
	w := bufio.NewWriter(out)
	runErr := p.Run(ordered, w)
	if ferr := w.Flush(); runErr == nil && ferr != nil {
		runErr = &SinkError{Err: ferr}
	}
	if cerr := out.Close(); runErr == nil && cerr != nil {
		runErr = &SinkError{Err: cerr}
	}
	return runErr
}

func (p *Pipeline) copySegment(name string, sink io.Writer, buf []byte) error {
	f, err := os.Open(name)
	if err != nil {
		return &OpenError{Name: name, Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		return &DecompressError{Name: name, Err: err}
	}
	defer gz.Close()

	// Hand-rolled copy loop instead of io.CopyBuffer: read failures are
	// decompression errors, write failures are sink errors, and the two
	// must stay distinguishable.
	for {
		n, rerr := gz.Read(buf)
		if n > 0 {
			if _, werr := sink.Write(buf[:n]); werr != nil {
				return &SinkError{Err: werr}
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return &DecompressError{Name: name, Err: rerr}
		}
	}
}
