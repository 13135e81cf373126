package codegen

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
)

// Sink receives generated source files. It is the host-writer seam: the
// processing environment decides where files land; the writer only names
// them.
type Sink interface {
	WriteSource(filename string, src []byte) error
}

// DirSink writes generated sources into a directory, atomically: each file
// is written to a temporary sibling and renamed over the target path, so
// readers never observe partial writes.
type DirSink struct {
	Dir string
}

// WriteSource implements Sink.
func (d DirSink) WriteSource(filename string, src []byte) error {
	target := filepath.Join(d.Dir, filename)

	tmp, err := os.CreateTemp(d.Dir, filename+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(src); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, target)
}

// MemSink collects generated sources in memory, for tests and for the
// ahead-of-time reglue path that inspects previously generated output.
type MemSink map[string][]byte

// WriteSource implements Sink.
func (m MemSink) WriteSource(filename string, src []byte) error {
	m[filename] = src
	return nil
}

// finish optionally pretty-prints src and hands it to sink. On a formatting
// failure the raw source is still written so the defect can be inspected,
// and the error is returned.
func finish(sink Sink, filename string, src []byte, pretty bool) error {
	if !pretty {
		return sink.WriteSource(filename, src)
	}
	formatted, err := format.Source(src)
	if err != nil {
		_ = sink.WriteSource(filename, src)
		return fmt.Errorf("codegen: format %s: %w", filename, err)
	}
	return sink.WriteSource(filename, formatted)
}
