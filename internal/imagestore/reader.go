package imagestore

import (
	"fmt"
	"io"
	"os"

	"github.com/DataDog/zstd"
)

// fileReader implements Reader over an uncompressed container file. The
// whole body is read lazily, one plane at a time, since the Cube Assembler
// only ever needs the one plane a frame record references.
type fileReader struct {
	f      *os.File
	header Header
	stride int
}

// zstdReader implements Reader over the CompressedSuffix sibling. The
// container header sits ahead of the zstd stream uncompressed, the same
// layering pkg/archive uses, so Dims() never requires inflating anything.
type zstdReader struct {
	f      *os.File
	z      io.ReadCloser
	header Header
	stride int
	// next is the plane index the stream is positioned to deliver; zstd
	// exposes no seek, so ReadPlane must be called in ascending order.
	next int
}

// OpenReader opens path as an uncompressed container.
func OpenReader(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var hdr Header
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("imagestore: read header: %w", err)
	}
	if err := hdr.UnmarshalBinary(buf); err != nil {
		f.Close()
		return nil, err
	}
	return &fileReader{f: f, header: hdr, stride: planeBytes(int(hdr.Width), int(hdr.Height))}, nil
}

// OpenCompressedReader opens path as a CompressedSuffix container: the
// header is read raw, then the remainder of the file is a zstd stream of
// the concatenated plane bodies.
func OpenCompressedReader(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var hdr Header
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("imagestore: read header: %w", err)
	}
	if err := hdr.UnmarshalBinary(buf); err != nil {
		f.Close()
		return nil, err
	}
	return &zstdReader{
		f:      f,
		z:      zstd.NewReader(f),
		header: hdr,
		stride: planeBytes(int(hdr.Width), int(hdr.Height)),
	}, nil
}

func (r *fileReader) Dims() (int, int) { return int(r.header.Width), int(r.header.Height) }

func (r *fileReader) ReadPlane(index int) ([]float32, error) {
	if index < 0 || index >= int(r.header.Planes) {
		return nil, fmt.Errorf("imagestore: plane %d out of range [0,%d)", index, r.header.Planes)
	}
	off := int64(HeaderSize) + int64(index)*int64(r.stride)
	buf := make([]byte, r.stride)
	if _, err := r.f.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("imagestore: read plane %d: %w", index, err)
	}
	return decodePlane(buf, int(r.header.Width), int(r.header.Height)), nil
}

func (r *fileReader) Close() error { return r.f.Close() }

func (r *zstdReader) Dims() (int, int) { return int(r.header.Width), int(r.header.Height) }

func (r *zstdReader) ReadPlane(index int) ([]float32, error) {
	if index < r.next {
		return nil, fmt.Errorf("imagestore: compressed reader cannot seek backward to plane %d (at %d)", index, r.next)
	}
	buf := make([]byte, r.stride)
	for r.next <= index {
		if _, err := io.ReadFull(r.z, buf); err != nil {
			return nil, fmt.Errorf("imagestore: read plane %d: %w", r.next, err)
		}
		r.next++
	}
	return decodePlane(buf, int(r.header.Width), int(r.header.Height)), nil
}

func (r *zstdReader) Close() error {
	if err := r.z.Close(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}
