package imagestore

import (
	"fmt"
	"os"

	"github.com/DataDog/zstd"
)

// fileWriter implements Writer over an uncompressed container. The header,
// final plane count included, is written once at creation; Close only
// closes the file and never rewrites the header.
type fileWriter struct {
	f      *os.File
	width  int
	height int
	next   int
}

// zstdWriter implements Writer over the CompressedSuffix sibling: the
// header is written raw up front (plane count known ahead of time, as for
// the uncompressed writer, since the Cube Assembler always knows K before
// it opens the output), then every plane streams through a zstd.Writer.
type zstdWriter struct {
	f      *os.File
	z      *zstd.Writer
	width  int
	height int
	planes int
	next   int
}

// CreateWriter creates path as a new uncompressed container for a cube of
// the given dimensions. planes is the final plane count; it is written
// into the header immediately since the assembler always knows K (the
// output plane count) before output begins.
func CreateWriter(path string, width, height, planes int) (Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	hdr := newHeader(width, height, planes)
	buf, err := hdr.MarshalBinary()
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("imagestore: write header: %w", err)
	}
	return &fileWriter{f: f, width: width, height: height}, nil
}

// CreateCompressedWriter is CreateWriter's CompressedSuffix counterpart.
func CreateCompressedWriter(path string, width, height, planes int) (Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	hdr := newHeader(width, height, planes)
	buf, err := hdr.MarshalBinary()
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("imagestore: write header: %w", err)
	}
	return &zstdWriter{
		f:      f,
		z:      zstd.NewWriter(f),
		width:  width,
		height: height,
		planes: planes,
	}, nil
}

func (w *fileWriter) WritePlane(index int, data []float32) error {
	if index != w.next {
		return ErrPlaneOutOfOrder
	}
	if len(data) != w.width*w.height {
		return fmt.Errorf("imagestore: plane %d has %d samples, want %d", index, len(data), w.width*w.height)
	}
	buf := make([]byte, planeBytes(w.width, w.height))
	encodePlane(buf, data)
	if _, err := w.f.Write(buf); err != nil {
		return fmt.Errorf("imagestore: write plane %d: %w", index, err)
	}
	w.next++
	return nil
}

func (w *fileWriter) Close() error { return w.f.Close() }

func (w *zstdWriter) WritePlane(index int, data []float32) error {
	if index != w.next {
		return ErrPlaneOutOfOrder
	}
	if len(data) != w.width*w.height {
		return fmt.Errorf("imagestore: plane %d has %d samples, want %d", index, len(data), w.width*w.height)
	}
	buf := make([]byte, planeBytes(w.width, w.height))
	encodePlane(buf, data)
	if _, err := w.z.Write(buf); err != nil {
		return fmt.Errorf("imagestore: write plane %d: %w", index, err)
	}
	w.next++
	return nil
}

func (w *zstdWriter) Close() error {
	if err := w.z.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("imagestore: close compressor: %w", err)
	}
	return w.f.Close()
}
