package pipeline

import "fmt"

// OpenError reports a segment file that could not be opened for reading.
type OpenError struct {
	Name string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("pipeline: open segment %s: %v", e.Name, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// DecompressError reports a segment whose gzip stream is truncated,
// mis-framed or fails its checksum.
type DecompressError struct {
	Name string
	Err  error
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("pipeline: decompress segment %s: %v", e.Name, e.Err)
}

func (e *DecompressError) Unwrap() error { return e.Err }

// SinkError reports a failed write or flush on the output sink.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("pipeline: write output: %v", e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
