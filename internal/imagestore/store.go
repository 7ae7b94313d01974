// Package imagestore implements the opaque "image cube store" contract of
// spec.md §1/§6: a 3-D float32 array written one plane at a time, in
// ascending plane index. spec.md explicitly places the real FITS library
// out of scope, so this package is a self-contained stand-in exercising
// the same read/write contract the Cube Assembler depends on — see
// DESIGN.md for why no third-party FITS binding is wired here instead.
package imagestore

import (
	"fmt"
	"os"
)

// Reader exposes the dimensions of a backing image cube and lets the Cube
// Assembler pull individual planes by 0-based index, the same index the
// manifest carries as a record's local index.
type Reader interface {
	Dims() (width, height int)
	ReadPlane(index int) ([]float32, error)
	Close() error
}

// Writer accepts planes strictly in ascending order, matching the
// streaming flush discipline of spec.md §4.2.
type Writer interface {
	WritePlane(index int, data []float32) error
	Close() error
}

// Store opens and creates image cubes backed by this package's container
// format (store.go/format.go), transparently handling the compressed
// sibling spec.md §4.3 asks the path resolver to probe for.
type Store struct {
	// CompressedSuffix is the marker the path resolver appends to probe a
	// compressed sibling file (spec.md §4.3). Empty disables compression
	// support.
	CompressedSuffix string
}

// ErrPlaneOutOfOrder is returned by Writer.WritePlane when index does not
// continue the ascending sequence spec.md §4.2 requires.
var ErrPlaneOutOfOrder = fmt.Errorf("imagestore: plane written out of order")

// OpenReader opens the image cube at path. The plain file is probed first;
// only when it does not exist, CompressedSuffix is set and the
// CompressedSuffix sibling exists is the sibling opened instead. If neither
// exists the error is the one for the plain path. This is the path
// resolver's last step (spec.md §4.3): by the time a candidate path
// reaches Store, stream/day resolution is already done, and only the
// compressed-vs-plain choice remains.
func (s Store) OpenReader(path string) (Reader, error) {
	if s.CompressedSuffix != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if _, err := os.Stat(path + s.CompressedSuffix); err == nil {
				return OpenCompressedReader(path + s.CompressedSuffix)
			}
		}
	}
	return OpenReader(path)
}

// CreateWriter creates a new image cube at path for a width×height×planes
// cube, using the compressed container when CompressedSuffix is set.
func (s Store) CreateWriter(path string, width, height, planes int) (Writer, error) {
	if s.CompressedSuffix != "" {
		return CreateCompressedWriter(path+s.CompressedSuffix, width, height, planes)
	}
	return CreateWriter(path, width, height, planes)
}
