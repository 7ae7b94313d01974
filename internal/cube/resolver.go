// Package cube implements stage 2 of the resampler, the Cube Assembler:
// streaming a manifest, reading the 2-D plane backing each record, and
// distributing its overlap-weighted contribution into a bounded set of
// active output planes, flushed to the image-cube store in ascending order.
package cube

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/busoc/resample/internal/imagestore"
)

// Resolver maps a manifest record's (src, fs) to an openable image-cube
// path, per spec.md §4.3: strip the stream from src's last '_', derive the
// UTC day from fs, and look under <teldir>/YYYYMMDD/<stream>/.
type Resolver struct {
	Teldir string
	Store  imagestore.Store
}

// Resolve returns the plain (uncompressed) candidate path without touching
// the filesystem. The probe for its compressed sibling happens when the
// path is opened through Store.OpenReader, which tries the plain file
// first and, if neither exists, reports the open error for the plain
// candidate, so the error names the conventional file.
func (r Resolver) Resolve(src string, fs float64) string {
	stream := streamOf(src)
	day := time.Unix(0, 0).UTC().Add(time.Duration(fs * float64(time.Second))).Format("20060102")
	base := strings.TrimSuffix(src, filepath.Ext(src)) + ".fits"
	candidate := filepath.Join(r.Teldir, day, stream, base)
	return candidate
}

// streamOf derives the stream name from a timing-file basename by
// stripping everything from the last underscore onward, the inverse of
// the filename convention internal/manifest.Discover parses.
func streamOf(src string) string {
	if i := strings.LastIndex(src, "_"); i >= 0 {
		return src[:i]
	}
	return src
}
